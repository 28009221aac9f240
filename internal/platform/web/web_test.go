package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-tanks/internal/arena"
	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

// ---------- helpers ----------

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{TickRate: 60, Seed: 42}
}

func newTestSession(t *testing.T, store *storage.Store) *Session {
	t.Helper()
	s, err := NewSession("tanks", testRuntime(), store)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	return s
}

func mustTick(t *testing.T, s *Session) Frame {
	t.Helper()
	f, err := s.Tick()
	if err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	return f
}

// startTestServer spins up an httptest.Server and returns its WebSocket URL.
func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	srv, err := NewServer(Config{Mode: "tanks", TickRate: 120})
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dialWS(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) (int, []byte) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read WS: %v", err)
	}
	return kind, raw
}

// readFrameUntil reads binary frames until match accepts one.
func readFrameUntil(t *testing.T, conn *websocket.Conn, match func(Frame) bool) Frame {
	t.Helper()
	for range 500 {
		kind, raw := readMessage(t, conn)
		if kind != websocket.BinaryMessage {
			continue
		}
		f, err := DecodeFrame(raw)
		if err != nil {
			t.Fatalf("DecodeFrame() failed: %v", err)
		}
		if match(f) {
			return f
		}
	}
	t.Fatal("no matching frame")
	return Frame{}
}

// readTextUntil reads until a JSON text message arrives.
func readTextUntil(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	for range 500 {
		kind, raw := readMessage(t, conn)
		if kind != websocket.TextMessage {
			continue
		}
		var msg map[string]any
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return msg
	}
	t.Fatal("no text message")
	return nil
}

// ---------- protocol ----------

func TestClientMessageIntents(t *testing.T) {
	msg, err := ParseClientMessage([]byte(`{"t":"input","forward":true,"left":true,"fire":true,"god":true,"stick":[0.5,-1]}`))
	if err != nil {
		t.Fatalf("ParseClientMessage() failed: %v", err)
	}
	if msg.T != MsgInput {
		t.Errorf("T = %q, expected %q", msg.T, MsgInput)
	}

	held := msg.Held()
	if !held.Has(core.ActionForward) || !held.Has(core.ActionRotateLeft) || held.Has(core.ActionFire) {
		t.Errorf("Held() = %v", held.Actions)
	}
	if st := held.Stick(); st.X != 0.5 || st.Z != -1 {
		t.Errorf("Stick() = %+v", st)
	}

	edges := msg.Edges()
	if len(edges) != 2 || edges[0] != core.ActionFire || edges[1] != core.ActionGodMode {
		t.Errorf("Edges() = %v, expected [Fire GodMode]", edges)
	}

	if _, err := ParseClientMessage([]byte(`{"t":`)); err == nil {
		t.Error("ParseClientMessage() accepted broken JSON")
	}
}

func TestFrameEncodingKeepsSnapshot(t *testing.T) {
	s := newTestSession(t, nil)
	for range 30 {
		s.Tick()
	}
	f := mustTick(t, s)

	data, err := EncodeFrame(f)
	if err != nil {
		t.Fatalf("EncodeFrame() failed: %v", err)
	}
	back, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame() failed: %v", err)
	}
	if back.Seq != f.Seq || back.Snap.Hash() != f.Snap.Hash() {
		t.Errorf("decoded frame differs: seq %d/%d hash %x/%x", back.Seq, f.Seq, back.Snap.Hash(), f.Snap.Hash())
	}

	if _, err := DecodeFrame([]byte{0xc1}); err == nil {
		t.Error("DecodeFrame() accepted garbage")
	}
}

// ---------- session ----------

func TestSessionAppliesInput(t *testing.T) {
	s := newTestSession(t, nil)
	start := s.game.World().Player().Heading

	s.Apply(ClientMessage{T: MsgInput, Left: true, Fire: true})
	first := mustTick(t, s)
	if first.Seq != 1 {
		t.Errorf("Seq = %d, expected 1", first.Seq)
	}
	shot := false
	for _, e := range first.Events {
		if e.Kind == arena.EventShot.String() && e.Source == "P" {
			shot = true
		}
	}
	if !shot {
		t.Errorf("Events = %+v, expected the player's shot", first.Events)
	}

	// held intents persist across ticks, edges do not
	second := mustTick(t, s)
	for _, e := range second.Events {
		if e.Kind == arena.EventShot.String() && e.Source == "P" {
			t.Errorf("second tick repeated the player's shot: %+v", second.Events)
		}
	}
	if s.game.World().Player().Heading == start {
		t.Error("player did not turn while left was held")
	}

	s.Apply(ClientMessage{T: MsgInput})
	s.Tick()
	heading := s.game.World().Player().Heading
	s.Tick()
	if got := s.game.World().Player().Heading; got != heading {
		t.Errorf("player kept turning after release: %v -> %v", heading, got)
	}
}

func TestSessionLoadLevel(t *testing.T) {
	s := newTestSession(t, nil)

	levels := s.Levels()
	if len(levels) != 3 || levels[1].Index != 2 || levels[1].Name == "" {
		t.Fatalf("Levels() = %+v", levels)
	}

	if err := s.LoadLevel(2); err != nil {
		t.Fatalf("LoadLevel(2) failed: %v", err)
	}
	f := mustTick(t, s)
	if f.Snap.Level != 2 {
		t.Errorf("Snap.Level = %d, expected 2", f.Snap.Level)
	}
	gate := false
	for _, e := range f.Events {
		gate = gate || e.Kind == arena.EventGate.String()
	}
	if !gate {
		t.Error("loading level 2 did not report the gate event")
	}

	if err := s.LoadLevel(9); err == nil {
		t.Error("LoadLevel(9) returned no error")
	}
}

func TestSessionSavesRunOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	s := newTestSession(t, store)
	for range 10 {
		s.Tick()
	}
	s.game.World().State = arena.StateGameOver
	s.Tick()
	s.Tick()

	runs, err := store.TopRuns("tanks", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("saved %d runs, expected 1", len(runs))
	}
	if runs[0].Ticks != 10 {
		t.Errorf("Ticks = %d, expected 10", runs[0].Ticks)
	}
}

func TestSessionLoadLevelStartsNewRun(t *testing.T) {
	s := newTestSession(t, nil)
	for range 5 {
		mustTick(t, s)
	}
	w := s.game.World()
	w.Kills = 2
	w.State = arena.StateGameOver

	if err := s.LoadLevel(3); err != nil {
		t.Fatalf("LoadLevel(3) failed: %v", err)
	}
	f := mustTick(t, s)
	if f.Score != 0 {
		t.Errorf("Score = %d after LoadLevel, expected 0", f.Score)
	}
	if w.Kills != 0 || w.Start != 3 {
		t.Errorf("Kills, Start = %d, %d, expected 0, 3", w.Kills, w.Start)
	}
}

func TestSessionLosesWorldOnFailedRestart(t *testing.T) {
	s := newTestSession(t, nil)
	tanks.SetLevelDir(t.TempDir())
	defer tanks.SetLevelDir("")

	s.game.World().State = arena.StateGameOver
	s.Apply(ClientMessage{T: MsgInput, Restart: true})

	if _, err := s.Tick(); !errors.Is(err, ErrNoWorld) {
		t.Fatalf("Tick() error = %v, expected ErrNoWorld", err)
	}
	if _, err := s.Tick(); !errors.Is(err, ErrNoWorld) {
		t.Errorf("second Tick() error = %v, expected ErrNoWorld", err)
	}
	if levels := s.Levels(); levels != nil {
		t.Errorf("Levels() = %v, expected nil", levels)
	}
	if err := s.LoadLevel(1); !errors.Is(err, ErrNoWorld) {
		t.Errorf("LoadLevel(1) error = %v, expected ErrNoWorld", err)
	}
}

func TestNewSessionUnknownMode(t *testing.T) {
	if _, err := NewSession("pong", testRuntime(), nil); err == nil {
		t.Error("NewSession() accepted an unknown mode")
	}
	if _, err := NewServer(Config{Mode: "pong"}); err == nil {
		t.Error("NewServer() accepted an unknown mode")
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	s := newTestSession(t, nil)

	r.Register(s)
	if got, ok := r.Get(s.ID); !ok || got != s {
		t.Error("Get() did not find the registered session")
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, expected 1", r.Count())
	}
	r.Unregister(s.ID)
	if r.Count() != 0 {
		t.Errorf("Count() = %d after Unregister", r.Count())
	}
}

// ---------- server ----------

func TestWebSocketSession(t *testing.T) {
	srv, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL)

	kind, raw := readMessage(t, conn)
	if kind != websocket.TextMessage {
		t.Fatalf("first message kind = %d, expected text", kind)
	}
	var welcome WelcomeMsg
	if err := json.Unmarshal(raw, &welcome); err != nil {
		t.Fatalf("unmarshal welcome: %v", err)
	}
	if welcome.T != MsgWelcome || welcome.Session == "" || welcome.Mode != "tanks" {
		t.Errorf("welcome = %+v", welcome)
	}
	if len(welcome.Levels) != 3 {
		t.Errorf("welcome lists %d levels, expected 3", len(welcome.Levels))
	}
	if _, ok := srv.Sessions().Get(welcome.Session); !ok {
		t.Error("session not registered")
	}

	first := readFrameUntil(t, conn, func(Frame) bool { return true })
	later := readFrameUntil(t, conn, func(f Frame) bool { return f.Seq > first.Seq })
	if later.Snap.Tick <= first.Snap.Tick {
		t.Errorf("ticks did not advance: %d -> %d", first.Snap.Tick, later.Snap.Tick)
	}

	if err := conn.WriteJSON(map[string]any{"t": "level", "level": 3}); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := readFrameUntil(t, conn, func(f Frame) bool { return f.Snap.Level == 3 })
	if f.Snap.Name == "" {
		t.Error("level 3 frame has no name")
	}

	if err := conn.WriteJSON(map[string]any{"t": "level", "level": 9}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readTextUntil(t, conn); msg["t"] != MsgError {
		t.Errorf("reply = %v, expected an error", msg)
	}

	if err := conn.WriteJSON(map[string]any{"t": "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readTextUntil(t, conn); !strings.Contains(msg["msg"].(string), "dance") {
		t.Errorf("reply = %v, expected the unknown type", msg)
	}
}

func TestWebSocketModeQuery(t *testing.T) {
	_, wsURL := startTestServer(t)

	conn := dialWS(t, wsURL+"?mode=tanks_evasive")
	var welcome WelcomeMsg
	_, raw := readMessage(t, conn)
	if err := json.Unmarshal(raw, &welcome); err != nil {
		t.Fatalf("unmarshal welcome: %v", err)
	}
	if welcome.Mode != "tanks_evasive" {
		t.Errorf("Mode = %q, expected tanks_evasive", welcome.Mode)
	}

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?mode=pong", nil)
	if err == nil {
		t.Fatal("dial with an unknown mode succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("response = %v, expected 400", resp)
	}
}

func TestHealthz(t *testing.T) {
	srv, err := NewServer(DefaultConfig())
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["ok"] != true || body["sessions"].(float64) != 0 {
		t.Errorf("body = %v", body)
	}
}
