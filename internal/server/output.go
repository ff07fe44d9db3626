package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/tunequiz/internal/quiz"
)

// venueChannel is the shared channel every subscriber of a venue sees.
const venueChannel = "venue"

// cueLength approximates how long a sound cue plays. Clients render cues
// on their own clock; the engine only needs IsFinished to flip eventually
// so queued media can start.
const cueLength = 2 * time.Second

func teamChannel(id quiz.TeamID) string {
	return "team:" + string(id)
}

// Sink delivers one venue's announcements over the event broker and reads
// poll reactions back from the HTTP reaction store. It satisfies
// quiz.Output.
type Sink struct {
	venue     string
	broker    *Broker
	reactions *Reactions

	mu      sync.Mutex
	teams   []quiz.TeamID
	playing *audioHandle
}

func NewSink(venue string, broker *Broker, reactions *Reactions) *Sink {
	return &Sink{venue: venue, broker: broker, reactions: reactions}
}

func (s *Sink) Say(to quiz.Recipient, m quiz.Message) map[quiz.TeamID]quiz.Delivery {
	return s.say(to, m, nil)
}

func (s *Sink) SayWithPoll(to quiz.Recipient, m quiz.Message, glyphs []string) map[quiz.TeamID]quiz.Delivery {
	return s.say(to, m, glyphs)
}

func (s *Sink) say(to quiz.Recipient, m quiz.Message, glyphs []string) map[quiz.TeamID]quiz.Delivery {
	deliveries := make(map[quiz.TeamID]quiz.Delivery)
	for _, team := range s.resolve(to) {
		channel := venueChannel
		if team != "" {
			channel = teamChannel(team)
		}
		event := Event{
			ID:      uuid.NewString(),
			Channel: channel,
			Poll:    glyphs,
			Message: m,
		}
		s.broker.Publish(s.venue, channel, event)
		deliveries[team] = quiz.Delivery{Channel: channel, MessageID: event.ID}
	}

	// Broadcasts are mirrored on the venue channel so spectators follow the
	// game without joining a team.
	if to.IsAllTeams() || to.Excluding() {
		if _, ok := deliveries[""]; !ok {
			s.broker.Publish(s.venue, venueChannel, Event{
				ID:      uuid.NewString(),
				Channel: venueChannel,
				Message: m,
			})
		}
	}
	return deliveries
}

// resolve maps a recipient to team ids, using "" for the venue channel when
// no team channel applies.
func (s *Sink) resolve(to quiz.Recipient) []quiz.TeamID {
	s.mu.Lock()
	teams := s.teams
	s.mu.Unlock()

	if target, ok := to.Target(); ok && !to.Excluding() {
		return []quiz.TeamID{target}
	}

	var out []quiz.TeamID
	excluded, _ := to.Target()
	for _, t := range teams {
		if to.Excluding() && t == excluded {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return []quiz.TeamID{""}
	}
	return out
}

func (s *Sink) PlayFile(path string) (quiz.AudioHandle, error) {
	h := newCueHandle(cueLength)
	s.startPlayback(h, path)
	return h, nil
}

func (s *Sink) PlayStream(ref string) (quiz.AudioHandle, error) {
	h := newStreamHandle()
	s.startPlayback(h, ref)
	return h, nil
}

func (s *Sink) startPlayback(h *audioHandle, ref string) {
	s.mu.Lock()
	if s.playing != nil {
		s.playing.stop()
	}
	s.playing = h
	s.mu.Unlock()
	s.broker.Publish(s.venue, venueChannel, AudioEvent{Kind: "play", Ref: ref})
}

func (s *Sink) StopAudio() error {
	s.mu.Lock()
	if s.playing != nil {
		s.playing.stop()
		s.playing = nil
	}
	s.mu.Unlock()
	s.broker.Publish(s.venue, venueChannel, AudioEvent{Kind: "stop"})
	return nil
}

func (s *Sink) ReadReactors(d quiz.Delivery, glyph string) ([]quiz.PlayerID, error) {
	return s.reactions.Read(s.venue, d.MessageID, glyph), nil
}

func (s *Sink) SyncTeamChannels(teams []quiz.TeamID) {
	s.mu.Lock()
	s.teams = teams
	s.mu.Unlock()
}
