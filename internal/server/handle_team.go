package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/tunequiz/internal/quiz"
)

type JoinRequest struct {
	PlayerID string `json:"playerId"`
	TeamName string `json:"teamName"`
}

type JoinResponse struct {
	TeamID  string `json:"teamId"`
	Channel string `json:"channel"`
}

func handleTeamJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.PlayerID = strings.TrimSpace(req.PlayerID)
		if req.PlayerID == "" {
			writeError(w, http.StatusBadRequest, "playerId is required")
			return
		}

		id, err := gameFrom(r).JoinTeam(quiz.PlayerID(req.PlayerID), req.TeamName)
		if err != nil {
			writeQuizError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, JoinResponse{
			TeamID:  string(id),
			Channel: teamChannel(id),
		})
	}
}

type TeamItem struct {
	ID      string   `json:"id"`
	Players []string `json:"players"`
	Score   int      `json:"score"`
}

func handleTeamList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams := gameFrom(r).Teams()
		out := make([]TeamItem, 0, len(teams))
		for _, t := range teams {
			item := TeamItem{ID: string(t.ID), Score: t.Score, Players: []string{}}
			for p := range t.Players {
				item.Players = append(item.Players, string(p))
			}
			out = append(out, item)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleTeamDisband() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := gameFrom(r).DisbandTeam(chi.URLParam(r, "name")); err != nil {
			writeQuizError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type ScoreAdjustRequest struct {
	Delta int `json:"delta"`
}

type ScoreAdjustResponse struct {
	Score int `json:"score"`
}

func handleScoreAdjust() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScoreAdjustRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		total, err := gameFrom(r).AdjustScore(chi.URLParam(r, "name"), req.Delta)
		if err != nil {
			writeQuizError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ScoreAdjustResponse{Score: total})
	}
}

func handleTeamsReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameFrom(r).ResetTeams()
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleScoresReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameFrom(r).ResetScores()
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
