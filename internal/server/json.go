package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playperu/tunequiz/internal/quiz"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeQuizError maps engine sentinels onto HTTP statuses.
func writeQuizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, quiz.ErrTeamNotFound), errors.Is(err, quiz.ErrNotOnTeam):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, quiz.ErrTeamChangeForbidden),
		errors.Is(err, quiz.ErrAlreadyGuessed),
		errors.Is(err, quiz.ErrNotAParticipant),
		errors.Is(err, quiz.ErrWrongPhase),
		errors.Is(err, quiz.ErrNoActiveQuestion):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
