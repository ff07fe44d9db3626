// Package bank stores named question definitions in SQLite so quizmasters
// can begin a match without shipping a CSV to the server host.
package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playperu/tunequiz/internal/definition"
	"github.com/playperu/tunequiz/internal/quiz"
)

var ErrNotFound = errors.New("quiz not found")

type Bank struct {
	db *sql.DB
}

func New(db *sql.DB) *Bank {
	return &Bank{db: db}
}

// QuizInfo summarizes one stored definition.
type QuizInfo struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"questionCount"`
}

// List returns every stored definition, alphabetically.
func (b *Bank) List(ctx context.Context) ([]QuizInfo, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT q.name, COUNT(qq.id)
		FROM quizzes q
		LEFT JOIN quiz_questions qq ON qq.quiz_id = q.id
		GROUP BY q.id
		ORDER BY q.name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing quizzes: %w", err)
	}
	defer rows.Close()

	var out []QuizInfo
	for rows.Next() {
		var info QuizInfo
		if err := rows.Scan(&info.Name, &info.QuestionCount); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Load compiles the named definition into playable questions.
func (b *Bank) Load(ctx context.Context, name string) ([]quiz.Question, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT qq.url, qq.answer, qq.acceptable_answers, qq.category,
		       qq.score_value, qq.challenge, qq.duration_seconds
		FROM quiz_questions qq
		JOIN quizzes q ON q.id = qq.quiz_id
		WHERE q.name = ?
		ORDER BY qq.id
	`, name)
	if err != nil {
		return nil, fmt.Errorf("loading quiz %q: %w", name, err)
	}
	defer rows.Close()

	var defs []definition.Row
	for rows.Next() {
		var row definition.Row
		if err := rows.Scan(&row.URL, &row.Answer, &row.AcceptableAnswers, &row.Category,
			&row.ScoreValue, &row.Challenge, &row.DurationSeconds); err != nil {
			return nil, err
		}
		defs = append(defs, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("quiz %q: %w", name, ErrNotFound)
	}
	return definition.Questions(defs)
}

// Import stores a definition under name, replacing any previous version.
// Rows are compiled first so a broken sheet never lands in the bank.
func (b *Bank) Import(ctx context.Context, name string, defs []definition.Row) error {
	if len(defs) == 0 {
		return fmt.Errorf("quiz %q: empty definition", name)
	}
	if _, err := definition.Questions(defs); err != nil {
		return fmt.Errorf("quiz %q: %w", name, err)
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quizzes WHERE name = ?`, name); err != nil {
		return fmt.Errorf("replacing quiz %q: %w", name, err)
	}

	var quizID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO quizzes (name) VALUES (?) RETURNING id
	`, name).Scan(&quizID)
	if err != nil {
		return fmt.Errorf("inserting quiz %q: %w", name, err)
	}

	for _, row := range defs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO quiz_questions
				(quiz_id, url, answer, acceptable_answers, category, score_value, challenge, duration_seconds)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, quizID, row.URL, row.Answer, row.AcceptableAnswers, row.Category,
			row.ScoreValue, row.Challenge, row.DurationSeconds)
		if err != nil {
			return fmt.Errorf("inserting question %q: %w", row.URL, err)
		}
	}

	return tx.Commit()
}
