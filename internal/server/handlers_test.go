package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/tunequiz/internal/quiz"
)

// stubPreload reports instant success with an empty cache.
type stubPreload struct{}

func (stubPreload) State() quiz.PreloadState       { return quiz.PreloadSuccess }
func (stubPreload) Retrieve(string) (string, bool) { return "", false }

type stubPreloader struct{}

func (stubPreloader) Preload([]string) quiz.PreloadHandle { return stubPreload{} }

// stubLoader serves a fixed two-question definition under the name "demo".
type stubLoader struct{}

func (stubLoader) Open(_ context.Context, source string) ([]quiz.Question, error) {
	if source != "demo" {
		return nil, errors.New("unknown source")
	}
	a, err := quiz.NewQuestion("a.mp3", "first answer", "", "pop", 100, false, 0)
	if err != nil {
		return nil, err
	}
	b, err := quiz.NewQuestion("b.mp3", "second answer", "", "rock", 200, false, 0)
	if err != nil {
		return nil, err
	}
	return []quiz.Question{a, b}, nil
}

func newTestRouter(t *testing.T) (chi.Router, Deps) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	broker := NewBroker()
	reactions := NewReactions()
	settings := quiz.DefaultSettings()

	pool := quiz.NewPool(func(venue string) *quiz.Game {
		sink := NewSink(venue, broker, reactions)
		rng := rand.New(rand.NewPCG(1, 2))
		return quiz.NewGame(sink, stubPreloader{}, stubLoader{}, settings, logger, rng)
	}, logger)

	deps := Deps{Pool: pool, Broker: broker, Reactions: reactions}
	r := chi.NewRouter()
	addRoutes(r, logger, deps)
	return r, deps
}

func doJSON(t *testing.T, r http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleTeamJoin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/bar/teams/join", `{"playerId":"alice","teamName":"The Reds!"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	var resp JoinResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TeamID != "the-reds" || resp.Channel != "team:the-reds" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandleTeamJoinValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	if w := doJSON(t, r, http.MethodPost, "/api/bar/teams/join", `{"teamName":"reds"}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing playerId: status = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/bar/teams/join", `{"playerId":"alice","teamName":"!!!"}`); w.Code != http.StatusBadRequest {
		t.Errorf("unusable team name: status = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/bar/teams/join", `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("bad body: status = %d", w.Code)
	}
}

func TestHandleTeamList(t *testing.T) {
	r, _ := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/bar/teams/join", `{"playerId":"alice","teamName":"reds"}`)
	doJSON(t, r, http.MethodPost, "/api/bar/teams/join", `{"playerId":"bob","teamName":"blues"}`)

	w := doJSON(t, r, http.MethodGet, "/api/bar/teams", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var teams []TeamItem
	if err := json.Unmarshal(w.Body.Bytes(), &teams); err != nil {
		t.Fatal(err)
	}
	if len(teams) != 2 {
		t.Errorf("teams = %+v", teams)
	}
}

func TestVenuesAreIsolated(t *testing.T) {
	r, _ := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/bar/teams/join", `{"playerId":"alice","teamName":"reds"}`)

	w := doJSON(t, r, http.MethodGet, "/api/pub/teams", "")
	var teams []TeamItem
	json.Unmarshal(w.Body.Bytes(), &teams)
	if len(teams) != 0 {
		t.Errorf("teams leaked across venues: %+v", teams)
	}
}

func TestHandleGameState(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/bar/game/state", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var state GameStateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if state.Venue != "bar" || state.Phase != "setup" {
		t.Errorf("state = %+v", state)
	}
}

func TestHandleGameBegin(t *testing.T) {
	r, _ := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/api/bar/teams/join", `{"playerId":"alice","teamName":"reds"}`)

	if w := doJSON(t, r, http.MethodPost, "/api/bar/game/begin", `{"source":"demo"}`); w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var state GameStateResponse
	w := doJSON(t, r, http.MethodGet, "/api/bar/game/state", "")
	json.Unmarshal(w.Body.Bytes(), &state)
	if state.Phase != "startup" {
		t.Errorf("phase = %s, want startup", state.Phase)
	}

	// A second begin while the match runs conflicts.
	if w := doJSON(t, r, http.MethodPost, "/api/bar/game/begin", `{"source":"demo"}`); w.Code != http.StatusConflict {
		t.Errorf("second begin: status = %d", w.Code)
	}
}

func TestHandleGameBeginValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	if w := doJSON(t, r, http.MethodPost, "/api/bar/game/begin", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty source: status = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/bar/game/begin", `{"source":"missing"}`); w.Code != http.StatusInternalServerError {
		t.Errorf("unknown source: status = %d", w.Code)
	}
}

func TestHandleGuessErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	// Not on a team.
	if w := doJSON(t, r, http.MethodPost, "/api/bar/game/guess", `{"playerId":"ghost","guess":"x"}`); w.Code != http.StatusNotFound {
		t.Errorf("no team: status = %d", w.Code)
	}

	doJSON(t, r, http.MethodPost, "/api/bar/teams/join", `{"playerId":"alice","teamName":"reds"}`)

	// No active question.
	if w := doJSON(t, r, http.MethodPost, "/api/bar/game/guess", `{"playerId":"alice","guess":"x"}`); w.Code != http.StatusConflict {
		t.Errorf("no question: status = %d", w.Code)
	}
}

func TestHandleSkipPauseEnd(t *testing.T) {
	r, _ := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/api/bar/teams/join", `{"playerId":"alice","teamName":"reds"}`)

	if w := doJSON(t, r, http.MethodPost, "/api/bar/game/skip", ""); w.Code != http.StatusConflict {
		t.Errorf("skip without match: status = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/bar/game/end", ""); w.Code != http.StatusConflict {
		t.Errorf("end without match: status = %d", w.Code)
	}

	doJSON(t, r, http.MethodPost, "/api/bar/game/begin", `{"source":"demo"}`)

	if w := doJSON(t, r, http.MethodPost, "/api/bar/game/pause", ""); w.Code != http.StatusOK {
		t.Errorf("pause: status = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/bar/game/skip", ""); w.Code != http.StatusOK {
		t.Errorf("skip: status = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/bar/game/end", ""); w.Code != http.StatusOK {
		t.Errorf("end: status = %d", w.Code)
	}

	var state GameStateResponse
	w := doJSON(t, r, http.MethodGet, "/api/bar/game/state", "")
	json.Unmarshal(w.Body.Bytes(), &state)
	if state.Phase != "setup" {
		t.Errorf("phase = %s after end, want setup", state.Phase)
	}
}

func TestHandleScoreAdjust(t *testing.T) {
	r, _ := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/api/bar/teams/join", `{"playerId":"alice","teamName":"reds"}`)

	w := doJSON(t, r, http.MethodPost, "/api/bar/teams/reds/score", `{"delta":250}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	var resp ScoreAdjustResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Score != 250 {
		t.Errorf("score = %d, want 250", resp.Score)
	}

	if w := doJSON(t, r, http.MethodPost, "/api/bar/teams/ghosts/score", `{"delta":1}`); w.Code != http.StatusNotFound {
		t.Errorf("unknown team: status = %d", w.Code)
	}
}

func TestHandlePollReact(t *testing.T) {
	r, deps := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/bar/polls/m42/react", `{"playerId":"alice","glyph":"1️⃣"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	players := deps.Reactions.Read("bar", "m42", "1️⃣")
	if len(players) != 1 || players[0] != "alice" {
		t.Errorf("reactors = %v", players)
	}

	if w := doJSON(t, r, http.MethodPost, "/api/bar/polls/m42/react", `{"playerId":"alice"}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing glyph: status = %d", w.Code)
	}
}

func TestHandleEventsStreams(t *testing.T) {
	r, deps := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/bar/events?channel=venue", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	// Give the subscription a moment to register, then publish.
	go func() {
		time.Sleep(50 * time.Millisecond)
		deps.Broker.Publish("bar", "venue", Event{ID: "e1", Channel: "venue"})
	}()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			var event Event
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
				t.Fatal(err)
			}
			if event.ID != "e1" {
				t.Errorf("event = %+v", event)
			}
			return
		}
	}
	t.Fatal("no event received before the stream closed")
}
