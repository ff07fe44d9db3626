package quiz

import (
	"testing"
	"time"
)

func fastSettings() Settings {
	return Settings{
		StartupDuration:  time.Second,
		VoteDuration:     time.Second,
		WagerDuration:    time.Second,
		QuestionDuration: 2 * time.Second,
		CooldownDuration: time.Second,
		MaxVoteOptions:   6,
	}
}

func newTestQuiz(t *testing.T, questions []Question, teams *Roster, out *mockOutput, pre Preloader) *Quiz {
	t.Helper()
	return newQuiz(questions, teams, out, pre, fastSettings(), testLogger(), testRNG())
}

func TestQuizFullMatchFlow(t *testing.T) {
	out := newMockOutput("a", "b")
	teams := testRoster("a", "b")
	pre := newFakePreloader(PreloadSuccess)
	questions := []Question{
		mustQuestion(t, "p.mp3", "pop song", "", "pop", 100, false),
		mustQuestion(t, "r.mp3", "rock song", "", "rock", 200, false),
	}
	q := newTestQuiz(t, questions, teams, out, pre)

	if phaseName(q.current) != "startup" {
		t.Fatalf("phase = %s, want startup", phaseName(q.current))
	}

	q.tick(2 * time.Second)
	if phaseName(q.current) != "vote" {
		t.Fatalf("phase = %s, want vote", phaseName(q.current))
	}

	// No reactions: the tally ties and the rng picks a winner; either way a
	// question starts.
	q.tick(2 * time.Second)
	if phaseName(q.current) != "question" {
		t.Fatalf("phase = %s, want question", phaseName(q.current))
	}

	q.tick(3 * time.Second)
	if phaseName(q.current) != "cooldown" {
		t.Fatalf("phase = %s, want cooldown", phaseName(q.current))
	}

	// One category left: the cooldown exits straight into the question.
	q.tick(2 * time.Second)
	if phaseName(q.current) != "question" {
		t.Fatalf("phase = %s, want question", phaseName(q.current))
	}

	q.tick(3 * time.Second)
	if phaseName(q.current) != "results" {
		t.Fatalf("phase = %s, want results", phaseName(q.current))
	}
	if !q.finished() {
		t.Error("finished() = false in results")
	}
}

func TestQuizSkipAdvancesPhases(t *testing.T) {
	out := newMockOutput("a")
	teams := testRoster("a")
	pre := newFakePreloader(PreloadSuccess)
	questions := []Question{mustQuestion(t, "p.mp3", "x", "", "pop", 100, false)}
	q := newTestQuiz(t, questions, teams, out, pre)

	q.skip()
	if phaseName(q.current) != "vote" {
		t.Fatalf("phase = %s, want vote", phaseName(q.current))
	}
	q.skip()
	if phaseName(q.current) != "question" {
		t.Fatalf("phase = %s, want question", phaseName(q.current))
	}
	q.skip()
	if phaseName(q.current) != "results" {
		t.Fatalf("phase = %s, want results", phaseName(q.current))
	}
	q.skip() // terminal; must not panic or move
	if phaseName(q.current) != "results" {
		t.Errorf("phase = %s after skipping results", phaseName(q.current))
	}
}

func TestQuizPreloadFailureAborts(t *testing.T) {
	out := newMockOutput("a")
	teams := testRoster("a")
	pre := newFakePreloader(PreloadFailure)
	questions := []Question{mustQuestion(t, "p.mp3", "x", "", "pop", 100, false)}
	q := newTestQuiz(t, questions, teams, out, pre)

	q.tick(100 * time.Millisecond)
	if !q.abortedByPreload() {
		t.Fatal("quiz did not abort on preload failure")
	}
	q.tick(100 * time.Millisecond) // aborted quizzes ignore further ticks
	if phaseName(q.current) != "startup" {
		t.Errorf("phase moved after abort: %s", phaseName(q.current))
	}
}

func TestQuizChallengeGoesThroughWager(t *testing.T) {
	out := newMockOutput("a")
	teams := testRoster("a")
	pre := newFakePreloader(PreloadSuccess)
	questions := []Question{mustQuestion(t, "c.mp3", "x", "", "pop", 100, true)}
	q := newTestQuiz(t, questions, teams, out, pre)

	q.tick(2 * time.Second) // startup -> vote
	q.tick(2 * time.Second) // vote -> wager (single challenge question)
	if phaseName(q.current) != "wager" {
		t.Fatalf("phase = %s, want wager", phaseName(q.current))
	}

	if err := q.wager("a", 150); err != nil {
		t.Fatal(err)
	}
	q.tick(100 * time.Millisecond) // everyone committed: wager -> question
	if phaseName(q.current) != "question" {
		t.Fatalf("phase = %s, want question", phaseName(q.current))
	}

	// The committed wager is the stake.
	result, err := q.guess("a", "x")
	if err != nil {
		t.Fatal(err)
	}
	if result.ScoreDelta != 150 {
		t.Errorf("delta = %d, want 150", result.ScoreDelta)
	}
}

func TestQuizInitiativeRestrictsNextWager(t *testing.T) {
	out := newMockOutput("a", "b")
	teams := testRoster("a", "b")
	pre := newFakePreloader(PreloadSuccess)
	questions := []Question{
		mustQuestion(t, "n.mp3", "normal", "", "pop", 100, false),
		mustQuestion(t, "c.mp3", "hard", "", "pop", 200, true),
	}
	q := newTestQuiz(t, questions, teams, out, pre)

	q.tick(2 * time.Second) // startup -> vote
	q.tick(2 * time.Second) // vote -> question (cheapest: the normal one)
	if phaseName(q.current) != "question" {
		t.Fatalf("phase = %s, want question", phaseName(q.current))
	}

	// Team b answers first-correctly and takes initiative.
	if _, err := q.guess("a", "wrong"); err != nil {
		t.Fatal(err)
	}
	result, err := q.guess("b", "normal")
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsFirstCorrect {
		t.Fatal("expected first correct guess")
	}

	q.tick(100 * time.Millisecond) // question -> cooldown
	q.tick(2 * time.Second)        // cooldown -> wager (one category left, challenge)
	if phaseName(q.current) != "wager" {
		t.Fatalf("phase = %s, want wager", phaseName(q.current))
	}

	w := q.current.(*wagerPhase)
	if len(w.participants) != 1 {
		t.Fatalf("participants = %v, want just the initiative team", w.participants)
	}
	if _, ok := w.participants["b"]; !ok {
		t.Error("initiative team b is not the participant")
	}
	if err := q.wager("a", 300); err == nil {
		t.Error("non-initiative team was allowed to wager")
	}
}

func TestQuizGuessOutsideQuestionPhase(t *testing.T) {
	out := newMockOutput("a")
	teams := testRoster("a")
	pre := newFakePreloader(PreloadSuccess)
	questions := []Question{mustQuestion(t, "p.mp3", "x", "", "pop", 100, false)}
	q := newTestQuiz(t, questions, teams, out, pre)

	if _, err := q.guess("a", "x"); err != ErrNoActiveQuestion {
		t.Errorf("got %v, want ErrNoActiveQuestion", err)
	}
	if err := q.wager("a", 100); err != ErrWrongPhase {
		t.Errorf("got %v, want ErrWrongPhase", err)
	}
}
