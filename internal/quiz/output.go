package quiz

// Recipient selects which team channels an outbound message goes to.
type Recipient struct {
	kind recipientKind
	team TeamID
}

type recipientKind int

const (
	allTeams recipientKind = iota
	singleTeam
	allTeamsExcept
)

func ToAllTeams() Recipient                { return Recipient{kind: allTeams} }
func ToTeam(id TeamID) Recipient           { return Recipient{kind: singleTeam, team: id} }
func ToAllTeamsExcept(id TeamID) Recipient { return Recipient{kind: allTeamsExcept, team: id} }

// IsAllTeams reports whether the message goes to every team.
func (r Recipient) IsAllTeams() bool { return r.kind == allTeams }

// Target returns the team singled out by the recipient, included for
// singleTeam and excluded for allTeamsExcept.
func (r Recipient) Target() (TeamID, bool) {
	if r.kind == allTeams {
		return "", false
	}
	return r.team, true
}

// Excluding reports whether Target is excluded rather than included.
func (r Recipient) Excluding() bool { return r.kind == allTeamsExcept }

// MessageKind tags an outbound event.
type MessageKind string

const (
	MsgQuizRules         MessageKind = "quiz_rules"
	MsgQuestionBegins    MessageKind = "question_begins"
	MsgChallengeBegins   MessageKind = "challenge_begins"
	MsgChallengeTimeUp   MessageKind = "challenge_time_up"
	MsgGuessCorrect      MessageKind = "guess_correct"
	MsgGuessIncorrect    MessageKind = "guess_incorrect"
	MsgGuessesReveal     MessageKind = "guesses_reveal"
	MsgAnswerReveal      MessageKind = "answer_reveal"
	MsgTimeUp            MessageKind = "time_up"
	MsgTimeRemaining     MessageKind = "time_remaining"
	MsgScoresRecap       MessageKind = "scores_recap"
	MsgScoresReset       MessageKind = "scores_reset"
	MsgTeamsReset        MessageKind = "teams_reset"
	MsgTeamScoreAdjusted MessageKind = "team_score_adjusted"
	MsgVotePoll          MessageKind = "vote_poll"
	MsgVoteWait          MessageKind = "vote_wait"
	MsgWagerBegins       MessageKind = "wager_begins"
	MsgWagerRules        MessageKind = "wager_rules"
	MsgWagerWait         MessageKind = "wager_wait"
	MsgWagerResults      MessageKind = "wager_results"
	MsgGamePaused        MessageKind = "game_paused"
	MsgGameUnpaused      MessageKind = "game_unpaused"
	MsgGameResults       MessageKind = "game_results"
	MsgPreloadFailed     MessageKind = "preload_failed"
)

// PollOption is one votable entry of a category poll.
type PollOption struct {
	Glyph      string `json:"glyph"`
	Category   string `json:"category"`
	ScoreValue int    `json:"scoreValue"`
}

// TeamPoints pairs a team with a point amount (score, delta or wager).
type TeamPoints struct {
	Team   TeamID `json:"team"`
	Points int    `json:"points"`
}

// TeamGuess is one team's recorded guess text.
type TeamGuess struct {
	Team  TeamID `json:"team"`
	Guess string `json:"guess"`
}

// ScoreLine is one row of the ranked recap. The top three ranks carry medal
// glyphs, later rows "#N".
type ScoreLine struct {
	Rank   string `json:"rank"`
	Team   TeamID `json:"team"`
	Points int    `json:"points"`
}

// Message is one outbound announcement. Only the fields relevant to Kind
// are set; the zero value of the rest keeps the serialized form small.
// The answer and media reference appear only on reveal kinds so a sink can
// forward events to players verbatim.
type Message struct {
	Kind     MessageKind  `json:"kind"`
	Team     TeamID       `json:"team,omitempty"`
	Category string       `json:"category,omitempty"`
	Points   int          `json:"points,omitempty"`
	Answer   string       `json:"answer,omitempty"`
	MediaRef string       `json:"mediaRef,omitempty"`
	Seconds  int          `json:"seconds,omitempty"`
	Floor    int          `json:"floor,omitempty"`
	Cap      int          `json:"cap,omitempty"`
	Options  []PollOption `json:"options,omitempty"`
	Wagers   []TeamPoints `json:"wagers,omitempty"`
	Guesses  []TeamGuess  `json:"guesses,omitempty"`
	Scores   []ScoreLine  `json:"scores,omitempty"`
}

// Delivery identifies one posted copy of a message, or records why it could
// not be posted. Channel and MessageID are opaque to the engine; they only
// ever travel back into ReadReactors.
type Delivery struct {
	Channel   string
	MessageID string
	Err       error
}

// AudioHandle tracks one playing sound.
type AudioHandle interface {
	IsFinished() bool
}

// Output is the chat-platform sink. Implementations must not block; errors
// are reported per delivery and never stall the state machine.
type Output interface {
	// Say posts a message to each channel the recipient resolves to and
	// returns one delivery per team. A venue without team channels reports
	// a single delivery under the empty TeamID.
	Say(to Recipient, m Message) map[TeamID]Delivery

	// SayWithPoll posts a message and attaches the given reaction glyphs
	// so players can vote on it.
	SayWithPoll(to Recipient, m Message, glyphs []string) map[TeamID]Delivery

	// PlayFile plays a local audio file (sound cue or cached media).
	PlayFile(path string) (AudioHandle, error)

	// PlayStream plays remote media by reference.
	PlayStream(ref string) (AudioHandle, error)

	// StopAudio stops whatever is currently playing.
	StopAudio() error

	// ReadReactors returns the players who reacted to a delivery with the
	// given glyph.
	ReadReactors(d Delivery, glyph string) ([]PlayerID, error)

	// SyncTeamChannels reconciles per-team channels with the roster.
	SyncTeamChannels(teams []TeamID)
}

// PreloadState is the observable progress of a background media prefetch.
type PreloadState int

const (
	PreloadInProgress PreloadState = iota
	PreloadSuccess
	PreloadFailure
)

// PreloadHandle is polled by the startup phase; it is never waited on.
// Retrieve is advisory: a miss falls back to live playback.
type PreloadHandle interface {
	State() PreloadState
	Retrieve(ref string) (path string, ok bool)
}

// Preloader starts a background prefetch of question media.
type Preloader interface {
	Preload(refs []string) PreloadHandle
}
