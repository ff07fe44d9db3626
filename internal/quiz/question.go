package quiz

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

var forbiddenGuessChars = regexp.MustCompile(`[^a-z0-9]`)

// sanitizeGuess normalizes answer text for matching: diacritics folded,
// lowercased, everything but ASCII alphanumerics stripped.
func sanitizeGuess(s string) string {
	return forbiddenGuessChars.ReplaceAllString(strings.ToLower(foldDiacritics(s)), "")
}

// QuestionKey is the identity of a question. Two entries sharing a key are
// the same question even if other fields differ, which dedups accidental
// duplicate rows in a definition.
type QuestionKey struct {
	URL        string
	Category   string
	ScoreValue int
}

// Question is one playable entry from a definition. The matcher accepts the
// canonical answer and any |-separated alternates, each sanitized and
// anchored at both ends.
type Question struct {
	URL        string
	Answer     string
	Category   string
	ScoreValue int
	Challenge  bool
	// Duration overrides the session's question time limit when non-zero.
	Duration time.Duration

	matcher *regexp.Regexp
}

// NewQuestion compiles the acceptable-answer matcher. alternates is the raw
// |-separated list from the definition and may be empty.
func NewQuestion(url, answer, alternates, category string, scoreValue int, challenge bool, duration time.Duration) (Question, error) {
	accepted := []string{answer}
	if alternates != "" {
		accepted = append(accepted, strings.Split(alternates, "|")...)
	}

	var patterns []string
	for _, a := range accepted {
		if s := sanitizeGuess(a); s != "" {
			patterns = append(patterns, "("+regexp.QuoteMeta(s)+")")
		}
	}
	if len(patterns) == 0 {
		return Question{}, fmt.Errorf("question %q: no usable answers", url)
	}

	matcher, err := regexp.Compile("^" + strings.Join(patterns, "|") + "$")
	if err != nil {
		return Question{}, fmt.Errorf("question %q: compiling answer matcher: %w", url, err)
	}

	return Question{
		URL:        url,
		Answer:     answer,
		Category:   category,
		ScoreValue: scoreValue,
		Challenge:  challenge,
		Duration:   duration,
		matcher:    matcher,
	}, nil
}

func (q Question) Key() QuestionKey {
	return QuestionKey{URL: q.URL, Category: q.Category, ScoreValue: q.ScoreValue}
}

// IsGuessCorrect matches the guess against the acceptable answers after the
// same normalization used when compiling them.
func (q Question) IsGuessCorrect(guess string) bool {
	return q.matcher.MatchString(sanitizeGuess(guess))
}

// QuestionSet is the pool of not-yet-used questions for one match. Once a
// key is taken it never returns, even if its category is revisited.
type QuestionSet struct {
	questions map[QuestionKey]Question
}

func NewQuestionSet(questions []Question) *QuestionSet {
	s := &QuestionSet{questions: make(map[QuestionKey]Question, len(questions))}
	for _, q := range questions {
		s.questions[q.Key()] = q
	}
	return s
}

func (s *QuestionSet) Len() int { return len(s.questions) }

func (s *QuestionSet) Empty() bool { return len(s.questions) == 0 }

// Take removes and returns the pool's entry for q's key, if still present.
func (s *QuestionSet) Take(q Question) (Question, bool) {
	got, ok := s.questions[q.Key()]
	if ok {
		delete(s.questions, q.Key())
	}
	return got, ok
}

// TakeLowestValue removes and returns the cheapest remaining question.
// Value ties break by category then URL so selection is deterministic.
func (s *QuestionSet) TakeLowestValue() (Question, bool) {
	var best Question
	found := false
	for _, q := range s.questions {
		if !found || less(q, best) {
			best = q
			found = true
		}
	}
	if !found {
		return Question{}, false
	}
	delete(s.questions, best.Key())
	return best, true
}

func less(a, b Question) bool {
	if a.ScoreValue != b.ScoreValue {
		return a.ScoreValue < b.ScoreValue
	}
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	return a.URL < b.URL
}

// CategoryCount reports how many distinct categories remain. The state
// machine votes only while more than one is left.
func (s *QuestionSet) CategoryCount() int {
	categories := make(map[string]struct{})
	for _, q := range s.questions {
		categories[q.Category] = struct{}{}
	}
	return len(categories)
}

// CheapestPerCategory returns the lowest-value remaining question of every
// category, sorted by category name.
func (s *QuestionSet) CheapestPerCategory() []Question {
	byCategory := make(map[string]Question)
	for _, q := range s.questions {
		cur, ok := byCategory[q.Category]
		if !ok || less(q, cur) {
			byCategory[q.Category] = q
		}
	}
	out := make([]Question, 0, len(byCategory))
	for _, q := range byCategory {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// MediaRefs lists the media of every remaining question, for preloading.
func (s *QuestionSet) MediaRefs() []string {
	refs := make([]string, 0, len(s.questions))
	for _, q := range s.questions {
		refs = append(refs, q.URL)
	}
	sort.Strings(refs)
	return refs
}

// MaxValue returns the highest score value in the set.
func (s *QuestionSet) MaxValue() int {
	max := 0
	for _, q := range s.questions {
		if q.ScoreValue > max {
			max = q.ScoreValue
		}
	}
	return max
}
