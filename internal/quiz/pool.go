package quiz

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pool holds one Game per venue and drives their clocks from a single
// background loop. Sessions are created on first access and live for the
// process lifetime.
type Pool struct {
	mu       sync.RWMutex
	sessions map[string]*Game
	newGame  func(venue string) *Game
	logger   *slog.Logger
}

func NewPool(newGame func(venue string) *Game, logger *slog.Logger) *Pool {
	return &Pool{
		sessions: make(map[string]*Game),
		newGame:  newGame,
		logger:   logger,
	}
}

// Get returns the venue's session, creating it on first use.
func (p *Pool) Get(venue string) *Game {
	p.mu.RLock()
	g, ok := p.sessions[venue]
	p.mu.RUnlock()
	if ok {
		return g
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock.
	if g, ok := p.sessions[venue]; ok {
		return g
	}
	g = p.newGame(venue)
	p.sessions[venue] = g
	p.logger.Info("created session", "venue", venue)
	return g
}

// Tick forwards dt to every live session. The pool lock is not held while
// ticking, so a busy session never delays creation of another.
func (p *Pool) Tick(dt time.Duration) {
	p.mu.RLock()
	games := make([]*Game, 0, len(p.sessions))
	for _, g := range p.sessions {
		games = append(games, g)
	}
	p.mu.RUnlock()

	for _, g := range games {
		g.Tick(dt)
	}
}

// Run drives Tick at the given cadence until ctx is done. dt is measured
// wall-clock time between firings, so slow ticks do not dilate match
// clocks.
func (p *Pool) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			p.Tick(now.Sub(last))
			last = now
		}
	}
}
