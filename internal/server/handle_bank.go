package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/tunequiz/internal/bank"
	"github.com/playperu/tunequiz/internal/definition"
)

func handleQuizList(b *bank.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizzes, err := b.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if quizzes == nil {
			quizzes = []bank.QuizInfo{}
		}
		writeJSON(w, http.StatusOK, quizzes)
	}
}

type ImportResponse struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"questionCount"`
}

// handleQuizImport accepts a CSV definition as the request body and stores
// it under {name}, replacing any previous version.
func handleQuizImport(b *bank.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		defer r.Body.Close()
		defs, err := definition.Parse(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := b.Import(r.Context(), name, defs); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, ImportResponse{
			Name:          name,
			QuestionCount: len(defs),
		})
	}
}
