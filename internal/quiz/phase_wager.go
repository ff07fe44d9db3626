package quiz

import (
	"sort"
	"time"
)

// wagerPhase collects point wagers ahead of a challenge question. Every
// participant starts at the question's base value; explicit wagers
// overwrite it, clamped into [base value, cap]. The phase ends as soon as
// every participant has wagered, or at the timeout.
type wagerPhase struct {
	question         Question
	elapsed          time.Duration
	limit            time.Duration
	teams            *Roster
	output           Output
	participants     map[TeamID]struct{}
	committed        map[TeamID]struct{}
	amounts          map[TeamID]int
	maxQuestionValue int
}

func newWagerPhase(question Question, limit time.Duration, teams *Roster, output Output, participants map[TeamID]struct{}, maxQuestionValue int) *wagerPhase {
	amounts := make(map[TeamID]int, len(participants))
	for id := range participants {
		amounts[id] = question.ScoreValue
	}
	return &wagerPhase{
		question:         question,
		limit:            limit,
		teams:            teams,
		output:           output,
		participants:     participants,
		committed:        make(map[TeamID]struct{}),
		amounts:          amounts,
		maxQuestionValue: maxQuestionValue,
	}
}

// wager records a team's bet. Repeated calls overwrite the previous amount.
func (w *wagerPhase) wager(id TeamID, amount int) error {
	if _, ok := w.participants[id]; !ok {
		return ErrNotAParticipant
	}
	if cap := w.wagerCap(id); amount > cap {
		amount = cap
	}
	if amount < w.question.ScoreValue {
		amount = w.question.ScoreValue
	}
	w.amounts[id] = amount
	w.committed[id] = struct{}{}
	return nil
}

// wagerCap is the most a team may bet: its current score (floored at zero)
// or twice the definition's highest question value, whichever is larger.
func (w *wagerPhase) wagerCap(id TeamID) int {
	score, _ := w.teams.Score(id)
	if score < 0 {
		score = 0
	}
	if cap := 2 * w.maxQuestionValue; cap > score {
		return cap
	}
	return score
}

func (w *wagerPhase) everyTeamWagered() bool {
	return len(w.committed) == len(w.participants)
}

func (w *wagerPhase) onBegin() {
	_, _ = w.output.PlayFile(sfxChallenge)
	w.output.Say(ToAllTeams(), Message{Kind: MsgWagerBegins, Category: w.question.Category})
	for _, team := range w.teams.Snapshot() {
		if _, ok := w.participants[team.ID]; ok {
			w.output.Say(ToTeam(team.ID), Message{
				Kind:  MsgWagerRules,
				Floor: w.question.ScoreValue,
				Cap:   w.wagerCap(team.ID),
			})
		} else {
			w.output.Say(ToTeam(team.ID), Message{Kind: MsgWagerWait})
		}
	}
}

func (w *wagerPhase) onTick(dt time.Duration) {
	before := w.limit - w.elapsed
	w.elapsed += dt
	after := w.limit - w.elapsed
	if !w.everyTeamWagered() {
		announceTimeRemaining(w.output, before, after)
	}
}

func (w *wagerPhase) onEnd() {
	wagers := make([]TeamPoints, 0, len(w.amounts))
	for id, amount := range w.amounts {
		wagers = append(wagers, TeamPoints{Team: id, Points: amount})
	}
	sort.Slice(wagers, func(i, j int) bool { return wagers[i].Team < wagers[j].Team })
	w.output.Say(ToAllTeams(), Message{Kind: MsgWagerResults, Wagers: wagers})
}

func (w *wagerPhase) isOver() bool {
	return w.elapsed >= w.limit || w.everyTeamWagered()
}

// announceTimeRemaining posts a single callout when the countdown crosses
// the 30s and 10s thresholds.
func announceTimeRemaining(output Output, before, after time.Duration) {
	for _, threshold := range []time.Duration{10 * time.Second, 30 * time.Second} {
		if before > threshold && after <= threshold {
			output.Say(ToAllTeams(), Message{Kind: MsgTimeRemaining, Seconds: int(threshold.Seconds())})
			return
		}
	}
}
