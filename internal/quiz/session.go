package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
)

// Loader opens a question definition by source reference (a file path or a
// bank entry).
type Loader interface {
	Open(ctx context.Context, source string) ([]Question, error)
}

// Game is one venue's session: the team roster plus, while a match runs,
// its quiz. Between matches the session sits in the Setup super-phase where
// membership changes are unrestricted.
//
// All exported methods serialize on the session lock; each performs a
// single read-modify-write and returns. Teams and scores persist across
// matches unless explicitly reset.
type Game struct {
	mu        sync.Mutex
	teams     *Roster
	quiz      *Quiz // nil while in Setup
	paused    bool
	output    Output
	preloader Preloader
	loader    Loader
	settings  Settings
	logger    *slog.Logger
	rng       *rand.Rand
}

func NewGame(output Output, preloader Preloader, loader Loader, settings Settings, logger *slog.Logger, rng *rand.Rand) *Game {
	return &Game{
		teams:     NewRoster(),
		output:    output,
		preloader: preloader,
		loader:    loader,
		settings:  settings,
		logger:    logger,
		rng:       rng,
	}
}

// Begin loads a definition and starts a match. Only valid from Setup.
func (g *Game) Begin(ctx context.Context, source string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.quiz != nil {
		return ErrWrongPhase
	}
	questions, err := g.loader.Open(ctx, source)
	if err != nil {
		return fmt.Errorf("opening definition %q: %w", source, err)
	}
	if len(questions) == 0 {
		return fmt.Errorf("definition %q has no questions", source)
	}
	g.quiz = newQuiz(questions, g.teams, g.output, g.preloader, g.settings, g.logger, g.rng)
	return nil
}

// Tick advances the match clock. It is a no-op while paused or in Setup.
func (g *Game) Tick(dt time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.paused || g.quiz == nil {
		return
	}
	// A match that reached Results stays observable for one tick, then the
	// session returns to Setup.
	if g.quiz.finished() {
		g.quiz = nil
		return
	}
	g.quiz.tick(dt)
	if g.quiz.abortedByPreload() {
		g.logger.Error("aborting match: media preload failed")
		g.output.Say(ToAllTeams(), Message{Kind: MsgPreloadFailed})
		g.quiz = nil
	}
}

// Guess submits the calling player's team answer to the active question.
func (g *Game) Guess(player PlayerID, text string) (GuessResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, ok := g.teams.TeamOf(player)
	if !ok {
		return GuessResult{}, ErrNotOnTeam
	}
	if g.quiz == nil {
		return GuessResult{}, ErrNoActiveQuestion
	}
	return g.quiz.guess(id, text)
}

// PlaceWager submits the calling player's team wager for the pending
// challenge question.
func (g *Game) PlaceWager(player PlayerID, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, ok := g.teams.TeamOf(player)
	if !ok {
		return ErrNotOnTeam
	}
	if g.quiz == nil {
		return ErrWrongPhase
	}
	return g.quiz.wager(id, amount)
}

// JoinTeam puts the player on the named team, creating it if needed.
// Players may join their first team mid-match, but changing teams is only
// allowed during Setup.
func (g *Game) JoinTeam(player PlayerID, name string) (TeamID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := SanitizeTeamName(name)
	if err != nil {
		return "", err
	}
	if _, onTeam := g.teams.TeamOf(player); onTeam && g.quiz != nil {
		return "", ErrTeamChangeForbidden
	}
	g.teams.Join(player, id)
	g.output.SyncTeamChannels(g.teams.IDs())
	return id, nil
}

// AdjustScore applies a manual delta to a team's score and returns the new
// total.
func (g *Game) AdjustScore(name string, delta int) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := SanitizeTeamName(name)
	if err != nil {
		return 0, err
	}
	total, err := g.teams.AdjustScore(id, delta)
	if err != nil {
		return 0, err
	}
	g.output.Say(ToAllTeams(), Message{Kind: MsgTeamScoreAdjusted, Team: id, Points: total})
	return total, nil
}

// DisbandTeam removes a team by name regardless of membership.
func (g *Game) DisbandTeam(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := SanitizeTeamName(name)
	if err != nil {
		return err
	}
	if err := g.teams.Disband(id); err != nil {
		return err
	}
	g.output.SyncTeamChannels(g.teams.IDs())
	return nil
}

// ResetScores zeroes every team's score, mid-match or not.
func (g *Game) ResetScores() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.teams.ResetScores()
	g.output.Say(ToAllTeams(), Message{Kind: MsgScoresReset})
}

// ResetTeams clears the roster entirely.
func (g *Game) ResetTeams() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.teams.Clear()
	g.output.Say(ToAllTeams(), Message{Kind: MsgTeamsReset})
	g.output.SyncTeamChannels(nil)
}

// Skip forces the current phase to its successor.
func (g *Game) Skip() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.quiz == nil {
		return ErrWrongPhase
	}
	g.quiz.skip()
	return nil
}

// Pause freezes the match clock. Idempotent.
func (g *Game) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.paused {
		return
	}
	g.paused = true
	g.output.Say(ToAllTeams(), Message{Kind: MsgGamePaused})
}

// Unpause resumes the match clock. Idempotent.
func (g *Game) Unpause() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.paused {
		return
	}
	g.paused = false
	g.output.Say(ToAllTeams(), Message{Kind: MsgGameUnpaused})
}

// End force-aborts the match in progress and returns to Setup. Teams and
// scores persist.
func (g *Game) End() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.quiz == nil {
		return ErrWrongPhase
	}
	_ = g.output.StopAudio()
	g.quiz = nil
	g.logger.Info("match ended by command")
	return nil
}

// Teams returns a copy of the roster in join order.
func (g *Game) Teams() []Team {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.teams.Snapshot()
}

// Phase names the session's current state for reporting: "setup", a quiz
// phase name, or "paused".
func (g *Game) Phase() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.quiz == nil {
		return "setup"
	}
	if g.paused {
		return "paused"
	}
	return g.quiz.currentPhaseName()
}
