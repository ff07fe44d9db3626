package quiz

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

// Quiz is the phase state machine for one match. It owns the remaining
// question pool and the transition table; the team ledger is shared with
// the session wrapper.
type Quiz struct {
	teams      *Roster
	settings   Settings
	current    phase
	initiative TeamID // team that most recently answered first-correctly
	remaining  *QuestionSet
	// maxQuestionValue is fixed at match start from the full definition;
	// wager caps reference it even after questions are consumed.
	maxQuestionValue int
	output           Output
	preloader        Preloader
	preload          PreloadHandle
	logger           *slog.Logger
	rng              *rand.Rand
	aborted          bool
}

func newQuiz(questions []Question, teams *Roster, output Output, preloader Preloader, settings Settings, logger *slog.Logger, rng *rand.Rand) *Quiz {
	remaining := NewQuestionSet(questions)
	q := &Quiz{
		teams:            teams,
		settings:         settings,
		remaining:        remaining,
		maxQuestionValue: remaining.MaxValue(),
		output:           output,
		preloader:        preloader,
		logger:           logger,
		rng:              rng,
	}
	q.setPhase(newStartupPhase(settings.StartupDuration, remaining.MediaRefs(), output, preloader))
	return q
}

func (q *Quiz) setPhase(next phase) {
	if q.current != nil {
		q.current.onEnd()
	}
	q.current = next
	q.logger.Info("entering phase", "phase", phaseName(next))
	next.onBegin()
}

// tick advances the active phase and runs the transition when it reports
// over.
func (q *Quiz) tick(dt time.Duration) {
	if q.aborted {
		return
	}
	q.current.onTick(dt)
	if q.current.isOver() {
		q.advance()
	}
}

// finished reports whether the match reached its terminal phase.
func (q *Quiz) finished() bool {
	_, ok := q.current.(*resultsPhase)
	return ok
}

// abortedByPreload reports a fatal media prefetch failure.
func (q *Quiz) abortedByPreload() bool {
	return q.aborted
}

// guess forwards to the active question phase. The first correct guess of a
// question grants its team initiative for the next vote.
func (q *Quiz) guess(id TeamID, text string) (GuessResult, error) {
	question, ok := q.current.(*questionPhase)
	if !ok {
		return GuessResult{}, ErrNoActiveQuestion
	}
	result, err := question.guess(id, text)
	if err != nil {
		return GuessResult{}, err
	}
	if result.IsFirstCorrect {
		q.initiative = id
	}
	return result, nil
}

// wager forwards to the active wager phase.
func (q *Quiz) wager(id TeamID, amount int) error {
	w, ok := q.current.(*wagerPhase)
	if !ok {
		return ErrWrongPhase
	}
	return w.wager(id, amount)
}

// skip forces the transition regardless of phase timers. Results cannot be
// skipped.
func (q *Quiz) skip() {
	if q.finished() {
		return
	}
	q.advance()
}

// advance implements the transition table. Every call from a non-terminal
// phase installs exactly one successor.
func (q *Quiz) advance() {
	switch current := q.current.(type) {
	case *startupPhase:
		if current.failed() {
			q.aborted = true
			return
		}
		q.preload = current.handle()
		q.beginVote()
	case *votePhase:
		question, ok := q.selectQuestion(current)
		if !ok {
			q.beginResults()
			return
		}
		if question.Challenge {
			q.beginWager(question)
		} else {
			q.beginQuestion(question, nil, q.allTeams())
		}
	case *wagerPhase:
		q.beginQuestion(current.question, current.amounts, current.participants)
	case *questionPhase:
		if q.remaining.Empty() {
			q.beginResults()
		} else {
			q.setPhase(newCooldownPhase(q.settings.CooldownDuration))
		}
	case *cooldownPhase:
		switch {
		case q.remaining.Empty():
			q.beginResults()
		case q.remaining.CategoryCount() > 1:
			q.beginVote()
		default:
			question, ok := q.remaining.TakeLowestValue()
			if !ok {
				q.beginResults()
				return
			}
			if question.Challenge {
				q.beginWager(question)
			} else {
				q.beginQuestion(question, nil, q.allTeams())
			}
		}
	case *resultsPhase:
		// Terminal.
	}
}

// selectQuestion removes the vote winner from the pool, falling back to the
// cheapest remaining question when the tally failed or the winner was
// already consumed.
func (q *Quiz) selectQuestion(v *votePhase) (Question, bool) {
	if winner, err := v.computeVoteResult(); err == nil {
		if question, ok := q.remaining.Take(winner); ok {
			return question, true
		}
	}
	return q.remaining.TakeLowestValue()
}

func (q *Quiz) beginVote() {
	q.setPhase(newVotePhase(q.settings.VoteDuration, q.remaining, q.initiative, q.teams, q.output, q.settings.MaxVoteOptions, q.rng))
}

// beginWager starts wager collection. Participants default to the
// initiative team when one is known, otherwise every team bets.
func (q *Quiz) beginWager(question Question) {
	participants := q.allTeams()
	if q.initiative != "" {
		participants = map[TeamID]struct{}{q.initiative: {}}
	}
	q.setPhase(newWagerPhase(question, q.settings.WagerDuration, q.teams, q.output, participants, q.maxQuestionValue))
}

func (q *Quiz) beginQuestion(question Question, wagers map[TeamID]int, participants map[TeamID]struct{}) {
	q.setPhase(newQuestionPhase(question, q.settings.QuestionDuration, q.teams, q.output, participants, wagers, q.preload))
}

func (q *Quiz) beginResults() {
	q.setPhase(newResultsPhase(q.teams, q.output))
}

func (q *Quiz) allTeams() map[TeamID]struct{} {
	ids := q.teams.IDs()
	out := make(map[TeamID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func (q *Quiz) currentPhaseName() string {
	return phaseName(q.current)
}
