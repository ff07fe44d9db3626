package quiz

import "time"

// resultsPhase is terminal. It announces the winner once; the session
// wrapper decides when to leave by starting a new match.
type resultsPhase struct {
	teams  *Roster
	output Output
}

func newResultsPhase(teams *Roster, output Output) *resultsPhase {
	return &resultsPhase{teams: teams, output: output}
}

func (r *resultsPhase) onBegin() {
	if winner, ok := r.teams.Leader(); ok {
		_, _ = r.output.PlayFile(sfxCongrats)
		r.output.Say(ToAllTeams(), Message{Kind: MsgGameResults, Team: winner.ID})
	}
}

func (r *resultsPhase) onTick(dt time.Duration) {}

func (r *resultsPhase) onEnd() {}

func (r *resultsPhase) isOver() bool {
	return false
}
