package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/tunequiz/internal/quiz"
)

type ReactRequest struct {
	PlayerID string `json:"playerId"`
	Glyph    string `json:"glyph"`
}

func handlePollReact(reactions *Reactions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReactRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PlayerID == "" || req.Glyph == "" {
			writeError(w, http.StatusBadRequest, "playerId and glyph are required")
			return
		}
		reactions.Record(venueFrom(r), chi.URLParam(r, "messageID"), req.Glyph, quiz.PlayerID(req.PlayerID))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
