package web

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-tanks/internal/arena"
	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks"
	"github.com/vovakirdan/tui-tanks/internal/registry"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

var (
	// ErrNotTanks is returned when a mode id does not name a tank mode.
	ErrNotTanks = errors.New("web: mode is not a tank game")
	// ErrNoWorld is returned once the session's game has lost its world,
	// e.g. when a restart could not reload the level pack.
	ErrNoWorld = errors.New("web: game has no world")
)

// Session is one connection's private game. All methods are safe for
// concurrent use by the read pump and the tick loop.
type Session struct {
	ID   string
	Mode string

	mu       sync.Mutex
	game     *tanks.Game
	runtime  core.RuntimeConfig
	held     core.InputFrame
	edges    []core.Action
	seq      uint64
	events   []EventView
	store    *storage.Store
	runSaved bool
}

// NewSession creates a game of the given mode and resets it.
func NewSession(mode string, runtime core.RuntimeConfig, store *storage.Store) (*Session, error) {
	g, err := registry.Create(mode)
	if err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}
	game, ok := g.(*tanks.Game)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotTanks, mode)
	}

	s := &Session{
		ID:      uuid.NewString(),
		Mode:    mode,
		game:    game,
		runtime: runtime,
		held:    core.NewInputFrame(),
		store:   store,
	}
	game.SetAudio(arena.AudioFunc(s.record))
	game.Reset(runtime)
	if err := game.Err(); err != nil {
		return nil, fmt.Errorf("web: cannot start game: %w", err)
	}
	return s, nil
}

// record collects audio events for the next frame. Called with mu held.
func (s *Session) record(e arena.Event) {
	s.events = append(s.events, EventView{Kind: e.Kind.String(), Source: e.Source, Volume: e.Volume})
}

// Levels lists the levels the session can load.
func (s *Session) Levels() []LevelInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.game.World()
	if w == nil {
		return nil
	}
	names := make(map[int]string)
	if lvls, err := tanks.Levels(); err == nil {
		for _, l := range lvls {
			names[l.Index] = l.Name
		}
	}
	var out []LevelInfo
	for _, idx := range w.LevelIndexes() {
		out = append(out, LevelInfo{Index: idx, Name: names[idx]})
	}
	return out
}

// Apply folds a client input message into the pending input.
func (s *Session) Apply(msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.held = msg.Held()
	s.edges = append(s.edges, msg.Edges()...)
}

// LoadLevel starts a new run on a level index.
func (s *Session) LoadLevel(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.game.World()
	if w == nil {
		return ErrNoWorld
	}
	if err := w.StartRun(index); err != nil {
		return err
	}
	s.runSaved = false
	return nil
}

// Tick advances the game one step and returns the frame to send. It fails
// with ErrNoWorld when the game can no longer run.
func (s *Session) Tick() (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := s.held.Clone()
	for _, a := range s.edges {
		in.Set(a)
	}
	s.edges = s.edges[:0]

	st := s.game.Step(in).State
	w := s.game.World()
	if w == nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrNoWorld, s.game.Err())
	}
	if !st.GameOver {
		s.runSaved = false
	} else if !s.runSaved {
		s.saveRun(st)
		s.runSaved = true
	}

	s.seq++
	f := Frame{
		Seq:    s.seq,
		Score:  st.Score,
		Paused: st.Paused,
		Muted:  s.game.Muted(),
		Snap:   w.Snapshot(),
	}
	if len(s.events) > 0 {
		f.Events = append([]EventView(nil), s.events...)
		s.events = s.events[:0]
	}
	return f, nil
}

func (s *Session) saveRun(st core.GameState) {
	if s.store == nil || st.Ticks == 0 {
		return
	}
	//nolint:errcheck // Best-effort save
	s.store.SaveRun(storage.Run{
		Mode:  s.Mode,
		Score: st.Score,
		Level: st.Level,
		Kills: st.Kills,
		Won:   st.Won,
		Ticks: st.Ticks,
	})
}

// SessionRegistry tracks active sessions.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionRegistry creates a new session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
	}
}

// Register adds a session to the registry.
func (r *SessionRegistry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Unregister removes a session from the registry.
func (r *SessionRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
