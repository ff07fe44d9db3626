package server

import (
	"net/http"
	"strings"

	"github.com/playperu/tunequiz/internal/quiz"
)

type BeginRequest struct {
	// Source is a definition reference: a "bank:<name>" entry or a CSV path
	// on the server host.
	Source string `json:"source"`
}

func handleGameBegin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BeginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Source) == "" {
			writeError(w, http.StatusBadRequest, "source is required")
			return
		}
		if err := gameFrom(r).Begin(r.Context(), req.Source); err != nil {
			writeQuizError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
	}
}

type GuessRequest struct {
	PlayerID string `json:"playerId"`
	Guess    string `json:"guess"`
}

type GuessResponse struct {
	Correct      bool `json:"correct"`
	FirstCorrect bool `json:"firstCorrect"`
	ScoreDelta   int  `json:"scoreDelta"`
}

func handleGuess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PlayerID == "" {
			writeError(w, http.StatusBadRequest, "playerId is required")
			return
		}
		result, err := gameFrom(r).Guess(quiz.PlayerID(req.PlayerID), req.Guess)
		if err != nil {
			writeQuizError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, GuessResponse{
			Correct:      result.IsCorrect,
			FirstCorrect: result.IsFirstCorrect,
			ScoreDelta:   result.ScoreDelta,
		})
	}
}

type WagerRequest struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}

func handleWager() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WagerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PlayerID == "" {
			writeError(w, http.StatusBadRequest, "playerId is required")
			return
		}
		if err := gameFrom(r).PlaceWager(quiz.PlayerID(req.PlayerID), req.Amount); err != nil {
			writeQuizError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type GameStateResponse struct {
	Venue string     `json:"venue"`
	Phase string     `json:"phase"`
	Teams []TeamItem `json:"teams"`
}

func handleGameState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := gameFrom(r)
		teams := g.Teams()
		out := make([]TeamItem, 0, len(teams))
		for _, t := range teams {
			item := TeamItem{ID: string(t.ID), Score: t.Score, Players: []string{}}
			for p := range t.Players {
				item.Players = append(item.Players, string(p))
			}
			out = append(out, item)
		}
		writeJSON(w, http.StatusOK, GameStateResponse{
			Venue: venueFrom(r),
			Phase: g.Phase(),
			Teams: out,
		})
	}
}

func handleSkip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := gameFrom(r).Skip(); err != nil {
			writeQuizError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handlePause() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameFrom(r).Pause()
		writeJSON(w, http.StatusOK, map[string]string{"status": "paused"})
	}
}

func handleUnpause() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameFrom(r).Unpause()
		writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
	}
}

func handleEnd() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := gameFrom(r).End(); err != nil {
			writeQuizError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ended"})
	}
}
