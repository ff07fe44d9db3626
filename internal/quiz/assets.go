package quiz

// Sound cues played around phase transitions. Paths are relative to the
// process working directory; playback failures are ignored.
const (
	sfxQuestion  = "assets/question.wav"
	sfxCorrect   = "assets/correct.wav"
	sfxIncorrect = "assets/incorrect.wav"
	sfxTimeUp    = "assets/time-up.wav"
	sfxChallenge = "assets/challenge.wav"
	sfxCongrats  = "assets/congrats.wav"
)
