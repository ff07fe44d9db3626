package server

import (
	"sync/atomic"
	"time"
)

// audioHandle tracks one playback started through the Sink. Sound cues get
// a wall-clock deadline sized to the clip; streamed media has none and
// finishes only when stopped.
type audioHandle struct {
	deadline time.Time
	stopped  atomic.Bool
}

func newCueHandle(length time.Duration) *audioHandle {
	return &audioHandle{deadline: time.Now().Add(length)}
}

func newStreamHandle() *audioHandle {
	return &audioHandle{}
}

func (h *audioHandle) IsFinished() bool {
	if h.stopped.Load() {
		return true
	}
	return !h.deadline.IsZero() && time.Now().After(h.deadline)
}

func (h *audioHandle) stop() {
	h.stopped.Store(true)
}
