package quiz

import "time"

// Settings are the per-session phase timings and poll limits.
type Settings struct {
	StartupDuration  time.Duration
	VoteDuration     time.Duration
	WagerDuration    time.Duration
	QuestionDuration time.Duration
	CooldownDuration time.Duration
	MaxVoteOptions   int
}

func DefaultSettings() Settings {
	return Settings{
		StartupDuration:  30 * time.Second,
		VoteDuration:     15 * time.Second,
		WagerDuration:    90 * time.Second,
		QuestionDuration: 90 * time.Second,
		CooldownDuration: 5 * time.Second,
		MaxVoteOptions:   6,
	}
}
