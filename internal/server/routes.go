package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/tunequiz/internal/bank"
	"github.com/playperu/tunequiz/internal/quiz"
)

// Deps are the shared services handlers draw on.
type Deps struct {
	Pool      *quiz.Pool
	Broker    *Broker
	Reactions *Reactions
	Bank      *bank.Bank
	DB        *sql.DB
}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("TuneQuiz API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.DB))

	// Question bank — shared across venues.
	r.Get("/api/quizzes", handleQuizList(deps.Bank))
	r.Put("/api/quizzes/{name}", handleQuizImport(deps.Bank))

	// Venue routes — {venue} resolved by venueMiddleware, sessions created
	// on first touch.
	r.Route("/api/{venue}", func(r chi.Router) {
		r.Use(venueMiddleware(deps.Pool))

		r.Get("/teams", handleTeamList())
		r.Post("/teams/join", handleTeamJoin())
		r.Post("/teams/reset", handleTeamsReset())
		r.Delete("/teams/{name}", handleTeamDisband())
		r.Post("/teams/{name}/score", handleScoreAdjust())
		r.Post("/scores/reset", handleScoresReset())

		r.Get("/game/state", handleGameState())
		r.Post("/game/begin", handleGameBegin())
		r.Post("/game/guess", handleGuess())
		r.Post("/game/wager", handleWager())
		r.Post("/game/skip", handleSkip())
		r.Post("/game/pause", handlePause())
		r.Post("/game/unpause", handleUnpause())
		r.Post("/game/end", handleEnd())

		r.Post("/polls/{messageID}/react", handlePollReact(deps.Reactions))
		r.Get("/events", handleEvents(deps.Broker))
	})
}
