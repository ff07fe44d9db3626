package quiz

import "time"

// phase is one state of the match. Phases own their entry/exit
// announcements and report when they are done; the Quiz owns the
// transition table and always picks the successor.
type phase interface {
	onBegin()
	onTick(dt time.Duration)
	onEnd()
	isOver() bool
}

func phaseName(p phase) string {
	switch p.(type) {
	case *startupPhase:
		return "startup"
	case *votePhase:
		return "vote"
	case *wagerPhase:
		return "wager"
	case *questionPhase:
		return "question"
	case *cooldownPhase:
		return "cooldown"
	case *resultsPhase:
		return "results"
	default:
		return "unknown"
	}
}
