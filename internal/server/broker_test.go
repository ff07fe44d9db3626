package server

import (
	"encoding/json"
	"testing"

	"github.com/playperu/tunequiz/internal/quiz"
)

func TestBrokerPublishReachesSubscribers(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("bar", "venue")
	defer b.Unsubscribe("bar", "venue", ch)

	b.Publish("bar", "venue", Event{ID: "e1", Channel: "venue", Message: quiz.Message{Kind: quiz.MsgQuizRules}})

	select {
	case data := <-ch:
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatal(err)
		}
		if event.ID != "e1" || event.Message.Kind != quiz.MsgQuizRules {
			t.Errorf("event = %+v", event)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestBrokerIsolatesVenuesAndChannels(t *testing.T) {
	b := NewBroker()
	venue := b.Subscribe("bar", "venue")
	team := b.Subscribe("bar", "team:reds")
	other := b.Subscribe("pub", "venue")

	b.Publish("bar", "team:reds", Event{ID: "e1"})

	if len(team) != 1 {
		t.Error("subscriber on the published channel got nothing")
	}
	if len(venue) != 0 || len(other) != 0 {
		t.Error("event leaked across channels or venues")
	}
}

func TestBrokerUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("bar", "venue")
	b.Unsubscribe("bar", "venue", ch)

	b.Publish("bar", "venue", Event{ID: "e1"})
	if len(ch) != 0 {
		t.Error("unsubscribed channel still receives")
	}
}

func TestBrokerDropsWhenSubscriberIsSlow(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("bar", "venue")
	defer b.Unsubscribe("bar", "venue", ch)

	// Fill past the buffer; Publish must not block.
	for i := 0; i < 100; i++ {
		b.Publish("bar", "venue", Event{ID: "e"})
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered = %d, want full buffer %d", len(ch), cap(ch))
	}
}
