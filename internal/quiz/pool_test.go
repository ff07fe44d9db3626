package quiz

import (
	"context"
	"sync"
	"testing"
	"time"
)

func newTestPool(t *testing.T) (*Pool, *int) {
	t.Helper()
	created := 0
	pool := NewPool(func(venue string) *Game {
		created++
		return NewGame(newMockOutput(), newFakePreloader(PreloadSuccess), memoryLoader{}, fastSettings(), testLogger(), testRNG())
	}, testLogger())
	return pool, &created
}

func TestPoolGetCreatesOncePerVenue(t *testing.T) {
	pool, created := newTestPool(t)

	a := pool.Get("bar-one")
	b := pool.Get("bar-one")
	c := pool.Get("bar-two")

	if a != b {
		t.Error("same venue returned different sessions")
	}
	if a == c {
		t.Error("different venues share a session")
	}
	if *created != 2 {
		t.Errorf("created = %d, want 2", *created)
	}
}

func TestPoolGetConcurrent(t *testing.T) {
	pool, created := newTestPool(t)

	var wg sync.WaitGroup
	games := make([]*Game, 16)
	for i := range games {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			games[i] = pool.Get("bar")
		}(i)
	}
	wg.Wait()

	for _, g := range games[1:] {
		if g != games[0] {
			t.Fatal("concurrent Get returned different sessions")
		}
	}
	if *created != 1 {
		t.Errorf("created = %d, want 1", *created)
	}
}

func TestPoolTickReachesEverySession(t *testing.T) {
	pool, _ := newTestPool(t)
	a := pool.Get("bar-one")
	b := pool.Get("bar-two")

	for _, g := range []*Game{a, b} {
		g.JoinTeam("p", "team")
		if err := g.Begin(context.Background(), "missing"); err == nil {
			t.Fatal("begin with an unknown source should fail")
		}
	}

	// Sessions without a match ignore ticks; the call just must not panic
	// and must visit both.
	pool.Tick(time.Second)
	if a.Phase() != "setup" || b.Phase() != "setup" {
		t.Errorf("phases = %s/%s", a.Phase(), b.Phase())
	}
}

func TestPoolRunStopsOnContextCancel(t *testing.T) {
	pool, _ := newTestPool(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- pool.Run(ctx, time.Millisecond) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
