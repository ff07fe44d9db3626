// Package quiz implements the per-venue game engine: the team ledger, the
// question pool and the tick-driven phase state machine that advances a
// match from startup to results.
package quiz

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PlayerID identifies a player on the chat platform.
type PlayerID string

// TeamID is the canonical, sanitized form of a team name. Two names that
// sanitize to the same string refer to the same team.
type TeamID string

var (
	forbiddenTeamNameChars = regexp.MustCompile(`[^\sa-z0-9-]`)
	whitespaceRun          = regexp.MustCompile(`\s+`)
)

// foldDiacritics decomposes the input and drops combining marks, so that
// "Beyoncé" and "Beyonce" normalize identically.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SanitizeTeamName converts a display name into a TeamID: diacritics folded,
// lowercased, punctuation stripped, whitespace collapsed to hyphens. Returns
// ErrInvalidName when nothing survives sanitization.
func SanitizeTeamName(name string) (TeamID, error) {
	name = strings.ToLower(foldDiacritics(name))
	name = forbiddenTeamNameChars.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return TeamID(whitespaceRun.ReplaceAllString(name, "-")), nil
}

// Team is one scoring unit. Score has no floor; it may go negative.
type Team struct {
	ID      TeamID
	Players map[PlayerID]struct{}
	Score   int
}

func newTeam(id TeamID) *Team {
	return &Team{ID: id, Players: make(map[PlayerID]struct{})}
}

func (t *Team) clone() Team {
	players := make(map[PlayerID]struct{}, len(t.Players))
	for p := range t.Players {
		players[p] = struct{}{}
	}
	return Team{ID: t.ID, Players: players, Score: t.Score}
}

// Roster is the team ledger shared between the session wrapper and the
// active phase. All access goes through its methods, each of which holds
// the lock for a single logical update and never across outbound I/O.
// Teams keep their join order; reporting relies on it for stable ties.
type Roster struct {
	mu    sync.RWMutex
	teams []*Team
}

func NewRoster() *Roster {
	return &Roster{}
}

// Join moves player onto the team with the given id, creating it on first
// join and pruning any team left empty. Joining the same team twice is a
// no-op.
func (r *Roster) Join(player PlayerID, id TeamID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.teams {
		delete(t.Players, player)
	}

	idx := slices.IndexFunc(r.teams, func(t *Team) bool { return t.ID == id })
	if idx < 0 {
		r.teams = append(r.teams, newTeam(id))
		idx = len(r.teams) - 1
	}
	r.teams[idx].Players[player] = struct{}{}

	r.teams = slices.DeleteFunc(r.teams, func(t *Team) bool { return len(t.Players) == 0 })
}

// TeamOf reports which team the player currently belongs to.
func (r *Roster) TeamOf(player PlayerID) (TeamID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.teams {
		if _, ok := t.Players[player]; ok {
			return t.ID, true
		}
	}
	return "", false
}

// IsMember reports whether player belongs to the given team.
func (r *Roster) IsMember(id TeamID, player PlayerID) bool {
	team, ok := r.TeamOf(player)
	return ok && team == id
}

// AdjustScore applies delta to the team's score and returns the new total.
func (r *Roster) AdjustScore(id TeamID, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.ID == id {
			t.Score += delta
			return t.Score, nil
		}
	}
	return 0, ErrTeamNotFound
}

// Score returns the team's current score.
func (r *Roster) Score(id TeamID) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.teams {
		if t.ID == id {
			return t.Score, true
		}
	}
	return 0, false
}

// Disband removes a team regardless of membership.
func (r *Roster) Disband(id TeamID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.teams)
	r.teams = slices.DeleteFunc(r.teams, func(t *Team) bool { return t.ID == id })
	if len(r.teams) == before {
		return ErrTeamNotFound
	}
	return nil
}

// ResetScores zeroes every score in place.
func (r *Roster) ResetScores() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		t.Score = 0
	}
}

// Clear empties the roster entirely.
func (r *Roster) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams = nil
}

// IDs returns the team ids in join order.
func (r *Roster) IDs() []TeamID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]TeamID, len(r.teams))
	for i, t := range r.teams {
		ids[i] = t.ID
	}
	return ids
}

// Snapshot returns a deep copy of the roster in join order.
func (r *Roster) Snapshot() []Team {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Team, len(r.teams))
	for i, t := range r.teams {
		out[i] = t.clone()
	}
	return out
}

// Ranked returns the teams sorted by descending score. Equal scores keep
// their join order so recaps are stable between announcements.
func (r *Roster) Ranked() []Team {
	teams := r.Snapshot()
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Score > teams[j].Score })
	return teams
}

// Leader returns the winning team: highest score, ties broken by
// lexicographic team id so results are deterministic.
func (r *Roster) Leader() (Team, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best *Team
	for _, t := range r.teams {
		if best == nil || t.Score > best.Score || (t.Score == best.Score && t.ID < best.ID) {
			best = t
		}
	}
	if best == nil {
		return Team{}, false
	}
	return best.clone(), true
}

// Len reports the number of teams.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.teams)
}
