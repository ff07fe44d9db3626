package quiz

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"testing"
)

// sentMessage is one outbound announcement captured by the mock.
type sentMessage struct {
	To     Recipient
	Msg    Message
	Glyphs []string
}

// mockAudio is a hand-cranked audio handle; tests flip finished to let
// queued media start.
type mockAudio struct {
	ref      string
	finished bool
}

func (a *mockAudio) IsFinished() bool { return a.finished }

// mockOutput captures announcements and playback and serves scripted
// reactions, so phase behavior can be asserted without a chat platform.
type mockOutput struct {
	teams     []TeamID
	messages  []sentMessage
	reactions map[string][]PlayerID // messageID+glyph -> reactors
	playing   []*mockAudio
	stops     int
	nextID    int
}

func newMockOutput(teams ...TeamID) *mockOutput {
	return &mockOutput{
		teams:     teams,
		reactions: make(map[string][]PlayerID),
	}
}

func (m *mockOutput) resolve(to Recipient) []TeamID {
	if target, ok := to.Target(); ok && !to.Excluding() {
		return []TeamID{target}
	}
	excluded, _ := to.Target()
	var out []TeamID
	for _, t := range m.teams {
		if to.Excluding() && t == excluded {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return []TeamID{""}
	}
	return out
}

func (m *mockOutput) Say(to Recipient, msg Message) map[TeamID]Delivery {
	return m.SayWithPoll(to, msg, nil)
}

func (m *mockOutput) SayWithPoll(to Recipient, msg Message, glyphs []string) map[TeamID]Delivery {
	m.messages = append(m.messages, sentMessage{To: to, Msg: msg, Glyphs: glyphs})
	deliveries := make(map[TeamID]Delivery)
	for _, t := range m.resolve(to) {
		m.nextID++
		deliveries[t] = Delivery{Channel: string(t), MessageID: fmt.Sprintf("m%d", m.nextID)}
	}
	return deliveries
}

func (m *mockOutput) PlayFile(path string) (AudioHandle, error) {
	h := &mockAudio{ref: path}
	m.playing = append(m.playing, h)
	return h, nil
}

func (m *mockOutput) PlayStream(ref string) (AudioHandle, error) {
	h := &mockAudio{ref: ref}
	m.playing = append(m.playing, h)
	return h, nil
}

func (m *mockOutput) StopAudio() error {
	m.stops++
	return nil
}

func (m *mockOutput) ReadReactors(d Delivery, glyph string) ([]PlayerID, error) {
	return m.reactions[d.MessageID+glyph], nil
}

func (m *mockOutput) SyncTeamChannels(teams []TeamID) {
	m.teams = teams
}

// react scripts a reaction on a delivered message.
func (m *mockOutput) react(d Delivery, glyph string, player PlayerID) {
	m.reactions[d.MessageID+glyph] = append(m.reactions[d.MessageID+glyph], player)
}

// flush returns the captured messages and clears the buffer.
func (m *mockOutput) flush() []sentMessage {
	out := m.messages
	m.messages = nil
	return out
}

// kinds lists the captured message kinds in order, without clearing.
func (m *mockOutput) kinds() []MessageKind {
	out := make([]MessageKind, len(m.messages))
	for i, s := range m.messages {
		out[i] = s.Msg.Kind
	}
	return out
}

// find returns the first captured message of the given kind.
func (m *mockOutput) find(t *testing.T, kind MessageKind) sentMessage {
	t.Helper()
	for _, s := range m.messages {
		if s.Msg.Kind == kind {
			return s
		}
	}
	t.Fatalf("no %s message sent; got %v", kind, m.kinds())
	return sentMessage{}
}

func (m *mockOutput) hasKind(kind MessageKind) bool {
	for _, s := range m.messages {
		if s.Msg.Kind == kind {
			return true
		}
	}
	return false
}

// finishAudio marks every started playback as done.
func (m *mockOutput) finishAudio() {
	for _, h := range m.playing {
		h.finished = true
	}
}

// fakePreload is a PreloadHandle with a fixed state and cache.
type fakePreload struct {
	state PreloadState
	paths map[string]string
}

func (f *fakePreload) State() PreloadState { return f.state }

func (f *fakePreload) Retrieve(ref string) (string, bool) {
	path, ok := f.paths[ref]
	return path, ok
}

// fakePreloader hands out a shared handle, recording what was requested.
type fakePreloader struct {
	handle *fakePreload
	refs   []string
}

func newFakePreloader(state PreloadState) *fakePreloader {
	return &fakePreloader{handle: &fakePreload{state: state}}
}

func (f *fakePreloader) Preload(refs []string) PreloadHandle {
	f.refs = refs
	return f.handle
}

func testRoster(ids ...TeamID) *Roster {
	r := NewRoster()
	for i, id := range ids {
		r.Join(PlayerID(fmt.Sprintf("player-%d", i)), id)
	}
	return r
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func mustQuestion(t *testing.T, url, answer, alternates, category string, value int, challenge bool) Question {
	t.Helper()
	q, err := NewQuestion(url, answer, alternates, category, value, challenge, 0)
	if err != nil {
		t.Fatalf("NewQuestion(%q): %v", url, err)
	}
	return q
}
