package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/tunequiz/internal/bank"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "TuneQuiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the TuneQuiz game engine.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/quizzes
	listQuizzes, _ := r.NewOperationContext(http.MethodGet, "/api/quizzes")
	listQuizzes.SetSummary("List stored quizzes")
	listQuizzes.SetDescription("Returns every question definition in the bank with its question count.")
	listQuizzes.AddRespStructure([]bank.QuizInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listQuizzes)

	// PUT /api/quizzes/{name}
	importQuiz, _ := r.NewOperationContext(http.MethodPut, "/api/quizzes/{name}")
	importQuiz.SetSummary("Import a quiz")
	importQuiz.SetDescription("Stores a CSV question definition under the given name, replacing any previous version.")
	importQuiz.AddRespStructure(ImportResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	importQuiz.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(importQuiz)

	// GET /api/{venue}/teams
	listTeams, _ := r.NewOperationContext(http.MethodGet, "/api/{venue}/teams")
	listTeams.SetSummary("List teams")
	listTeams.SetDescription("Returns the venue's roster with scores.")
	listTeams.AddRespStructure([]TeamItem{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listTeams)

	// POST /api/{venue}/teams/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/{venue}/teams/join")
	postJoin.SetSummary("Join a team")
	postJoin.SetDescription("Puts the player on the named team, creating it if needed. Changing teams is only allowed between matches.")
	postJoin.AddReqStructure(JoinRequest{})
	postJoin.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postJoin)

	// DELETE /api/{venue}/teams/{name}
	deleteTeam, _ := r.NewOperationContext(http.MethodDelete, "/api/{venue}/teams/{name}")
	deleteTeam.SetSummary("Disband a team")
	deleteTeam.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteTeam)

	// POST /api/{venue}/teams/{name}/score
	adjustScore, _ := r.NewOperationContext(http.MethodPost, "/api/{venue}/teams/{name}/score")
	adjustScore.SetSummary("Adjust a team's score")
	adjustScore.SetDescription("Applies a manual point delta and returns the new total.")
	adjustScore.AddReqStructure(ScoreAdjustRequest{})
	adjustScore.AddRespStructure(ScoreAdjustResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	adjustScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(adjustScore)

	// POST /api/{venue}/teams/reset
	resetTeams, _ := r.NewOperationContext(http.MethodPost, "/api/{venue}/teams/reset")
	resetTeams.SetSummary("Clear the roster")
	resetTeams.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(resetTeams)

	// POST /api/{venue}/scores/reset
	resetScores, _ := r.NewOperationContext(http.MethodPost, "/api/{venue}/scores/reset")
	resetScores.SetSummary("Zero all scores")
	resetScores.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(resetScores)

	// GET /api/{venue}/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/{venue}/game/state")
	getState.SetSummary("Get session state")
	getState.SetDescription("Returns the venue's current phase and roster.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getState)

	// POST /api/{venue}/game/begin
	postBegin, _ := r.NewOperationContext(http.MethodPost, "/api/{venue}/game/begin")
	postBegin.SetSummary("Begin a match")
	postBegin.SetDescription("Loads a question definition and starts a match. Fails if one is already running.")
	postBegin.AddReqStructure(BeginRequest{})
	postBegin.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postBegin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postBegin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postBegin)

	// POST /api/{venue}/game/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/{venue}/game/guess")
	postGuess.SetSummary("Submit a guess")
	postGuess.SetDescription("Submits the player's team answer to the active question. One guess per team per question.")
	postGuess.AddReqStructure(GuessRequest{})
	postGuess.AddRespStructure(GuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postGuess)

	// POST /api/{venue}/game/wager
	postWager, _ := r.NewOperationContext(http.MethodPost, "/api/{venue}/game/wager")
	postWager.SetSummary("Place a wager")
	postWager.SetDescription("Records the player's team wager for the pending challenge question. Amounts are clamped to the allowed range.")
	postWager.AddReqStructure(WagerRequest{})
	postWager.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postWager.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postWager)

	// POST /api/{venue}/game/skip
	postSkip, _ := r.NewOperationContext(http.MethodPost, "/api/{venue}/game/skip")
	postSkip.SetSummary("Skip the current phase")
	postSkip.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postSkip.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postSkip)

	// POST /api/{venue}/game/pause
	postPause, _ := r.NewOperationContext(http.MethodPost, "/api/{venue}/game/pause")
	postPause.SetSummary("Pause the match clock")
	postPause.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postPause)

	// POST /api/{venue}/game/unpause
	postUnpause, _ := r.NewOperationContext(http.MethodPost, "/api/{venue}/game/unpause")
	postUnpause.SetSummary("Resume the match clock")
	postUnpause.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postUnpause)

	// POST /api/{venue}/game/end
	postEnd, _ := r.NewOperationContext(http.MethodPost, "/api/{venue}/game/end")
	postEnd.SetSummary("End the match")
	postEnd.SetDescription("Aborts the match in progress and returns the venue to setup. Teams and scores persist.")
	postEnd.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postEnd.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postEnd)

	// POST /api/{venue}/polls/{messageID}/react
	postReact, _ := r.NewOperationContext(http.MethodPost, "/api/{venue}/polls/{messageID}/react")
	postReact.SetSummary("React to a poll")
	postReact.SetDescription("Records the player's reaction glyph on a poll message.")
	postReact.AddReqStructure(ReactRequest{})
	postReact.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postReact.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postReact)

	// GET /api/{venue}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/{venue}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of game announcements. Pass channel as a query parameter to follow a team channel.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
