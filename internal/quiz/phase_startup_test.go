package quiz

import (
	"testing"
	"time"
)

func TestStartupAnnouncesRulesAndPreloads(t *testing.T) {
	out := newMockOutput("a")
	pre := newFakePreloader(PreloadInProgress)
	s := newStartupPhase(30*time.Second, []string{"a.mp3", "b.mp3"}, out, pre)
	s.onBegin()

	out.find(t, MsgQuizRules)
	if len(pre.refs) != 2 {
		t.Errorf("preloaded refs = %v", pre.refs)
	}
}

func TestStartupWaitsForBothTimerAndPreload(t *testing.T) {
	out := newMockOutput("a")
	pre := newFakePreloader(PreloadInProgress)
	s := newStartupPhase(30*time.Second, nil, out, pre)
	s.onBegin()

	s.onTick(31 * time.Second)
	if s.isOver() {
		t.Fatal("over while the prefetch is still running")
	}

	pre.handle.state = PreloadSuccess
	if !s.isOver() {
		t.Fatal("not over after timer elapsed and prefetch succeeded")
	}
}

func TestStartupTimerKeepsRunningAfterPreloadSuccess(t *testing.T) {
	out := newMockOutput("a")
	pre := newFakePreloader(PreloadSuccess)
	s := newStartupPhase(30*time.Second, nil, out, pre)
	s.onBegin()

	s.onTick(10 * time.Second)
	if s.isOver() {
		t.Fatal("over before the wait elapsed")
	}
	s.onTick(20 * time.Second)
	if !s.isOver() {
		t.Fatal("not over after the wait elapsed")
	}
}

func TestStartupEndsImmediatelyOnPreloadFailure(t *testing.T) {
	out := newMockOutput("a")
	pre := newFakePreloader(PreloadFailure)
	s := newStartupPhase(30*time.Second, nil, out, pre)
	s.onBegin()

	if !s.isOver() {
		t.Fatal("not over despite prefetch failure")
	}
	if !s.failed() {
		t.Error("failed() = false")
	}
}

func TestCooldownIsSilentTimer(t *testing.T) {
	c := newCooldownPhase(5 * time.Second)
	c.onBegin()
	c.onTick(4 * time.Second)
	if c.isOver() {
		t.Fatal("cooldown ended early")
	}
	c.onTick(time.Second)
	if !c.isOver() {
		t.Fatal("cooldown did not end")
	}
}

func TestResultsAnnouncesWinnerOnce(t *testing.T) {
	out := newMockOutput("a", "b")
	teams := testRoster("a", "b")
	teams.AdjustScore("b", 500)

	r := newResultsPhase(teams, out)
	r.onBegin()

	results := out.find(t, MsgGameResults)
	if results.Msg.Team != "b" {
		t.Errorf("winner = %s, want b", results.Msg.Team)
	}
	out.flush()

	r.onTick(time.Hour)
	if r.isOver() {
		t.Error("results phase reported over; it is terminal")
	}
	if len(out.messages) != 0 {
		t.Errorf("results announced again on tick: %v", out.kinds())
	}
}

func TestResultsWithNoTeamsSaysNothing(t *testing.T) {
	out := newMockOutput()
	r := newResultsPhase(NewRoster(), out)
	r.onBegin()
	if out.hasKind(MsgGameResults) {
		t.Error("winner announced with an empty roster")
	}
}
