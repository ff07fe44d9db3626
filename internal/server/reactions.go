package server

import (
	"sync"

	"github.com/playperu/tunequiz/internal/quiz"
)

// Reactions records poll reactions posted over HTTP, standing in for the
// chat platform's reaction storage. Entries are kept until the process
// exits; polls are tiny and per-venue.
type Reactions struct {
	mu    sync.RWMutex
	votes map[string]map[quiz.PlayerID]struct{}
}

func NewReactions() *Reactions {
	return &Reactions{votes: make(map[string]map[quiz.PlayerID]struct{})}
}

func reactionKey(venue, messageID, glyph string) string {
	return venue + "\x00" + messageID + "\x00" + glyph
}

// Record stores one player's reaction. Reacting twice with the same glyph
// is a no-op.
func (r *Reactions) Record(venue, messageID, glyph string, player quiz.PlayerID) {
	k := reactionKey(venue, messageID, glyph)
	r.mu.Lock()
	if r.votes[k] == nil {
		r.votes[k] = make(map[quiz.PlayerID]struct{})
	}
	r.votes[k][player] = struct{}{}
	r.mu.Unlock()
}

// Read returns the players who reacted to a message with the given glyph.
func (r *Reactions) Read(venue, messageID, glyph string) []quiz.PlayerID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := make([]quiz.PlayerID, 0, len(r.votes[reactionKey(venue, messageID, glyph)]))
	for p := range r.votes[reactionKey(venue, messageID, glyph)] {
		players = append(players, p)
	}
	return players
}
