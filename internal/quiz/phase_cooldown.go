package quiz

import "time"

// cooldownPhase is a silent pause between questions.
type cooldownPhase struct {
	elapsed time.Duration
	wait    time.Duration
}

func newCooldownPhase(wait time.Duration) *cooldownPhase {
	return &cooldownPhase{wait: wait}
}

func (c *cooldownPhase) onBegin() {}

func (c *cooldownPhase) onTick(dt time.Duration) {
	c.elapsed += dt
}

func (c *cooldownPhase) onEnd() {}

func (c *cooldownPhase) isOver() bool {
	return c.elapsed >= c.wait
}
