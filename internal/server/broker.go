package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/tunequiz/internal/quiz"
)

// Event is the payload published to channel subscribers: a game
// announcement plus routing metadata.
type Event struct {
	ID      string       `json:"id"`
	Channel string       `json:"channel"`
	Poll    []string     `json:"poll,omitempty"` // reaction glyphs when the event is votable
	Message quiz.Message `json:"message"`
}

// AudioEvent mirrors playback requests onto the venue channel so a client
// can render them.
type AudioEvent struct {
	Kind string `json:"kind"` // "play" or "stop"
	Ref  string `json:"ref,omitempty"`
}

// Broker is an in-process pub/sub for SSE events, keyed by venue and
// channel name.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

func key(venue, channel string) string {
	return venue + "\x00" + channel
}

// Subscribe returns a channel that receives JSON-encoded events for the
// given venue channel.
func (b *Broker) Subscribe(venue, channel string) chan []byte {
	ch := make(chan []byte, 16)
	k := key(venue, channel)
	b.mu.Lock()
	if b.subs[k] == nil {
		b.subs[k] = make(map[chan []byte]struct{})
	}
	b.subs[k][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the venue channel's subscribers.
func (b *Broker) Unsubscribe(venue, channel string, ch chan []byte) {
	k := key(venue, channel)
	b.mu.Lock()
	delete(b.subs[k], ch)
	if len(b.subs[k]) == 0 {
		delete(b.subs, k)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given venue channel.
func (b *Broker) Publish(venue, channel string, event any) {
	data, _ := json.Marshal(event)
	k := key(venue, channel)
	b.mu.RLock()
	for ch := range b.subs[k] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
