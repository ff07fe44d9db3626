// Package definition loads question sheets: CSV files on disk or named
// entries from the question bank.
package definition

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/playperu/tunequiz/internal/quiz"
)

// Row is one raw definition entry, before the answer matcher is compiled.
type Row struct {
	URL               string
	Answer            string
	AcceptableAnswers string
	Category          string
	ScoreValue        int
	Challenge         bool
	DurationSeconds   int
}

// Question compiles the row into a playable question.
func (r Row) Question() (quiz.Question, error) {
	return quiz.NewQuestion(
		r.URL,
		r.Answer,
		r.AcceptableAnswers,
		r.Category,
		r.ScoreValue,
		r.Challenge,
		time.Duration(r.DurationSeconds)*time.Second,
	)
}

// Questions compiles a batch of rows.
func Questions(rows []Row) ([]quiz.Question, error) {
	out := make([]quiz.Question, len(rows))
	for i, row := range rows {
		q, err := row.Question()
		if err != nil {
			return nil, err
		}
		out[i] = q
	}
	return out, nil
}

var requiredColumns = []string{"url", "answer", "category", "score_value"}

// Parse reads a CSV sheet. The header names the columns; order does not
// matter. Optional columns: acceptable_answers (|-separated alternates),
// challenge (true/false/blank) and duration_seconds.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		scoreValue, err := strconv.Atoi(field(record, "score_value"))
		if err != nil {
			return nil, fmt.Errorf("line %d: score_value: %w", line, err)
		}

		challenge, err := parseChallenge(field(record, "challenge"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		durationSeconds := 0
		if s := field(record, "duration_seconds"); s != "" {
			durationSeconds, err = strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: duration_seconds: %w", line, err)
			}
		}

		rows = append(rows, Row{
			URL:               field(record, "url"),
			Answer:            field(record, "answer"),
			AcceptableAnswers: field(record, "acceptable_answers"),
			Category:          field(record, "category"),
			ScoreValue:        scoreValue,
			Challenge:         challenge,
			DurationSeconds:   durationSeconds,
		})
	}
	return rows, nil
}

func parseChallenge(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false", "":
		return false, nil
	default:
		return false, fmt.Errorf("challenge: want true, false or blank, got %q", s)
	}
}

// OpenFile parses a CSV sheet from disk into playable questions.
func OpenFile(path string) ([]quiz.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return Questions(rows)
}

// BankStore loads a stored definition by name.
type BankStore interface {
	Load(ctx context.Context, name string) ([]quiz.Question, error)
}

// Loader resolves a begin command's source: "bank:<name>" hits the
// question bank, anything else is a CSV file path.
type Loader struct {
	Bank BankStore
}

func (l Loader) Open(ctx context.Context, source string) ([]quiz.Question, error) {
	if name, ok := strings.CutPrefix(source, "bank:"); ok {
		if l.Bank == nil {
			return nil, fmt.Errorf("no question bank configured")
		}
		return l.Bank.Load(ctx, name)
	}
	return OpenFile(source)
}
