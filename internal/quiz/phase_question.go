package quiz

import (
	"fmt"
	"sort"
	"time"
)

// GuessResult records one team's answer to the active question. Results are
// discarded when the question ends.
type GuessResult struct {
	Guess          string
	ScoreDelta     int
	IsCorrect      bool
	IsFirstCorrect bool
}

// questionPhase plays the question media and accepts one guess per
// participant team. It ends once every participant guessed or the time
// limit elapsed.
type questionPhase struct {
	question     Question
	elapsed      time.Duration
	defaultLimit time.Duration
	guesses      map[TeamID]GuessResult
	teams        *Roster
	participants map[TeamID]struct{}
	// wagers is nil for normal questions. When set, each participant's
	// score value is their resolved wager and no halving applies.
	wagers map[TeamID]int
	output Output
	// preload is advisory; a nil handle or cache miss falls back to
	// streaming the media reference directly.
	preload        PreloadHandle
	countdownAudio AudioHandle
	mediaAudio     AudioHandle
}

func newQuestionPhase(question Question, defaultLimit time.Duration, teams *Roster, output Output, participants map[TeamID]struct{}, wagers map[TeamID]int, preload PreloadHandle) *questionPhase {
	return &questionPhase{
		question:     question,
		defaultLimit: defaultLimit,
		guesses:      make(map[TeamID]GuessResult),
		teams:        teams,
		participants: participants,
		wagers:       wagers,
		output:       output,
		preload:      preload,
	}
}

// guess records a team's one answer, applies the score delta and announces
// the outcome. The last participant's guess triggers the answer reveal.
func (q *questionPhase) guess(id TeamID, text string) (GuessResult, error) {
	if _, ok := q.guesses[id]; ok {
		return GuessResult{}, ErrAlreadyGuessed
	}
	if _, ok := q.participants[id]; !ok {
		return GuessResult{}, ErrNotAParticipant
	}

	isCorrect := q.question.IsGuessCorrect(text)
	result := GuessResult{
		Guess:          text,
		ScoreDelta:     q.scoreDelta(id, isCorrect),
		IsCorrect:      isCorrect,
		IsFirstCorrect: isCorrect && !q.correctlyGuessed(),
	}
	q.guesses[id] = result

	if _, err := q.teams.AdjustScore(id, result.ScoreDelta); err != nil {
		return GuessResult{}, fmt.Errorf("recording guess for %s: %w", id, err)
	}

	if result.IsCorrect {
		_, _ = q.output.PlayFile(sfxCorrect)
		q.output.Say(ToAllTeams(), Message{Kind: MsgGuessCorrect, Team: id, Points: result.ScoreDelta})
	} else {
		_, _ = q.output.PlayFile(sfxIncorrect)
		q.output.Say(ToAllTeams(), Message{Kind: MsgGuessIncorrect, Team: id, Points: -result.ScoreDelta})
	}

	if q.everyTeamGuessed() {
		q.revealAnswer(MsgAnswerReveal)
		q.revealGuesses()
	}

	return result, nil
}

func (q *questionPhase) correctlyGuessed() bool {
	for _, g := range q.guesses {
		if g.IsCorrect {
			return true
		}
	}
	return false
}

func (q *questionPhase) everyTeamGuessed() bool {
	return len(q.guesses) == len(q.participants)
}

// scoreValue is the amount at stake for a team: their wager when one is in
// effect, otherwise the question's value, halved for every guess after the
// first.
func (q *questionPhase) scoreValue(id TeamID) int {
	value := q.question.ScoreValue
	if q.wagers != nil {
		if amount, ok := q.wagers[id]; ok {
			value = amount
		}
		return value
	}
	if len(q.guesses) > 0 {
		return value / 2
	}
	return value
}

func (q *questionPhase) scoreDelta(id TeamID, correct bool) int {
	value := q.scoreValue(id)
	if !correct {
		return -value
	}
	return value
}

func (q *questionPhase) timeLimit() time.Duration {
	if q.question.Duration > 0 {
		return q.question.Duration
	}
	return q.defaultLimit
}

func (q *questionPhase) revealAnswer(kind MessageKind) {
	q.output.Say(ToAllTeams(), Message{
		Kind:     kind,
		Answer:   q.question.Answer,
		Category: q.question.Category,
		MediaRef: q.question.URL,
	})
}

func (q *questionPhase) revealGuesses() {
	if len(q.guesses) == 0 {
		return
	}
	guesses := make([]TeamGuess, 0, len(q.guesses))
	for id, g := range q.guesses {
		guesses = append(guesses, TeamGuess{Team: id, Guess: g.Guess})
	}
	sort.Slice(guesses, func(i, j int) bool { return guesses[i].Team < guesses[j].Team })
	q.output.Say(ToAllTeams(), Message{Kind: MsgGuessesReveal, Guesses: guesses})
}

var rankGlyphs = []string{"🥇", "🥈", "🥉"}

func (q *questionPhase) announceScores() {
	ranked := q.teams.Ranked()
	lines := make([]ScoreLine, len(ranked))
	for i, team := range ranked {
		rank := fmt.Sprintf("#%d", i+1)
		if i < len(rankGlyphs) {
			rank = rankGlyphs[i]
		}
		lines[i] = ScoreLine{Rank: rank, Team: team.ID, Points: team.Score}
	}
	q.output.Say(ToAllTeams(), Message{Kind: MsgScoresRecap, Scores: lines})
}

func (q *questionPhase) onBegin() {
	q.countdownAudio, _ = q.output.PlayFile(sfxQuestion)
	if q.wagers != nil {
		for id := range q.participants {
			q.output.Say(ToTeam(id), Message{Kind: MsgChallengeBegins, Category: q.question.Category})
		}
	} else {
		q.output.Say(ToAllTeams(), Message{
			Kind:     MsgQuestionBegins,
			Category: q.question.Category,
			Points:   q.question.ScoreValue,
		})
	}
}

func (q *questionPhase) onTick(dt time.Duration) {
	limit := q.timeLimit()
	before := limit - q.elapsed
	q.elapsed += dt
	after := limit - q.elapsed

	if !q.everyTeamGuessed() {
		announceTimeRemaining(q.output, before, after)
	}

	// Start the question media once the intro cue finished.
	startMedia := q.mediaAudio == nil && (q.countdownAudio == nil || q.countdownAudio.IsFinished())
	if startMedia {
		if path, ok := q.retrieveCached(); ok {
			q.mediaAudio, _ = q.output.PlayFile(path)
		} else {
			q.mediaAudio, _ = q.output.PlayStream(q.question.URL)
		}
	}
}

func (q *questionPhase) retrieveCached() (string, bool) {
	if q.preload == nil {
		return "", false
	}
	return q.preload.Retrieve(q.question.URL)
}

func (q *questionPhase) onEnd() {
	_ = q.output.StopAudio()

	if !q.everyTeamGuessed() {
		_, _ = q.output.PlayFile(sfxTimeUp)
		q.revealAnswer(MsgTimeUp)
		q.revealGuesses()

		// A committed wager is binding: teams that never answered lose
		// their full stake.
		if q.wagers != nil {
			ids := make([]TeamID, 0, len(q.participants))
			for id := range q.participants {
				if _, ok := q.guesses[id]; !ok {
					ids = append(ids, id)
				}
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			for _, id := range ids {
				value := q.scoreValue(id)
				if _, err := q.teams.AdjustScore(id, -value); err == nil {
					q.output.Say(ToAllTeams(), Message{Kind: MsgChallengeTimeUp, Team: id, Points: value})
				}
			}
		}
	}

	q.announceScores()
}

func (q *questionPhase) isOver() bool {
	return q.everyTeamGuessed() || q.elapsed >= q.timeLimit()
}
