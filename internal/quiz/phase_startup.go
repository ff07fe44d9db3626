package quiz

import "time"

// startupPhase waits a fixed delay while the preloader fetches question
// media in the background. It ends once both the wait elapsed and the
// prefetch succeeded, or immediately on prefetch failure, which aborts the
// match.
type startupPhase struct {
	elapsed   time.Duration
	wait      time.Duration
	mediaRefs []string
	output    Output
	preloader Preloader
	preload   PreloadHandle
}

func newStartupPhase(wait time.Duration, mediaRefs []string, output Output, preloader Preloader) *startupPhase {
	return &startupPhase{
		wait:      wait,
		mediaRefs: mediaRefs,
		output:    output,
		preloader: preloader,
	}
}

func (s *startupPhase) onBegin() {
	s.output.Say(ToAllTeams(), Message{Kind: MsgQuizRules})
	s.preload = s.preloader.Preload(s.mediaRefs)
}

func (s *startupPhase) onTick(dt time.Duration) {
	s.elapsed += dt
}

func (s *startupPhase) onEnd() {}

func (s *startupPhase) isOver() bool {
	if s.preload == nil {
		return false
	}
	switch s.preload.State() {
	case PreloadFailure:
		return true
	case PreloadSuccess:
		return s.elapsed >= s.wait
	default:
		return false
	}
}

func (s *startupPhase) failed() bool {
	return s.preload != nil && s.preload.State() == PreloadFailure
}

// handle returns the prefetch handle for the question phases to retrieve
// cached media from.
func (s *startupPhase) handle() PreloadHandle {
	return s.preload
}
