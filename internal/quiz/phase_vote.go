package quiz

import (
	"math/rand/v2"
	"sort"
	"time"
)

// voteGlyphs are the reaction glyphs assigned to poll options, in display
// order. Their length is the hard cap on vote options.
var voteGlyphs = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// votePhase posts a category poll and lets players react to pick the next
// question. When a team holds initiative only its members' reactions count.
// The phase always runs its full duration.
type votePhase struct {
	elapsed    time.Duration
	wait       time.Duration
	options    []Question
	votingTeam TeamID // empty when every team may vote
	teams      *Roster
	output     Output
	rng        *rand.Rand
	deliveries map[TeamID]Delivery
}

func newVotePhase(wait time.Duration, remaining *QuestionSet, votingTeam TeamID, teams *Roster, output Output, maxOptions int, rng *rand.Rand) *votePhase {
	return &votePhase{
		wait:       wait,
		options:    selectVoteOptions(remaining, maxOptions, rng),
		votingTeam: votingTeam,
		teams:      teams,
		output:     output,
		rng:        rng,
	}
}

// selectVoteOptions picks one candidate per remaining category (the
// cheapest), randomly sampled down to the cap, sorted by category for a
// stable poll layout.
func selectVoteOptions(remaining *QuestionSet, maxOptions int, rng *rand.Rand) []Question {
	if maxOptions > len(voteGlyphs) {
		maxOptions = len(voteGlyphs)
	}
	candidates := remaining.CheapestPerCategory()
	if len(candidates) > maxOptions {
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		candidates = candidates[:maxOptions]
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Category < candidates[j].Category })
	return candidates
}

func (v *votePhase) onBegin() {
	if v.votingTeam != "" {
		v.output.Say(ToAllTeamsExcept(v.votingTeam), Message{Kind: MsgVoteWait, Team: v.votingTeam})
	}

	options := make([]PollOption, len(v.options))
	glyphs := make([]string, len(v.options))
	for i, q := range v.options {
		options[i] = PollOption{Glyph: voteGlyphs[i], Category: q.Category, ScoreValue: q.ScoreValue}
		glyphs[i] = voteGlyphs[i]
	}

	recipient := ToAllTeams()
	if v.votingTeam != "" {
		recipient = ToTeam(v.votingTeam)
	}
	v.deliveries = v.output.SayWithPoll(recipient, Message{Kind: MsgVotePoll, Options: options}, glyphs)
}

func (v *votePhase) onTick(dt time.Duration) {
	v.elapsed += dt
}

func (v *votePhase) onEnd() {}

func (v *votePhase) isOver() bool {
	return v.elapsed >= v.wait
}

// computeVoteResult tallies reactions across every posted copy of the poll
// and returns the winning question, breaking count ties uniformly at
// random. Reactions from outside the voting team are ignored when a voting
// restriction is in effect.
func (v *votePhase) computeVoteResult() (Question, error) {
	if v.deliveries == nil || len(v.options) == 0 {
		return Question{}, ErrNoPollRecorded
	}

	counts := make([]int, len(v.options))
	for _, d := range v.deliveries {
		if d.Err != nil {
			continue
		}
		for i := range v.options {
			players, err := v.output.ReadReactors(d, voteGlyphs[i])
			if err != nil {
				continue
			}
			for _, p := range players {
				if v.votingTeam == "" || v.teams.IsMember(v.votingTeam, p) {
					counts[i]++
				}
			}
		}
	}

	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	var winners []Question
	for i, n := range counts {
		if n == max {
			winners = append(winners, v.options[i])
		}
	}
	return winners[v.rng.IntN(len(winners))], nil
}
