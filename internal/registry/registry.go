// Package registry maps mode ids to game factories. The tanks package
// registers its modes from init, and the terminal, SSH and web front ends
// look them up by id.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// ErrUnknownMode is returned by Create for an id nobody registered.
var ErrUnknownMode = errors.New("registry: unknown mode")

// Game is one playable mode. It holds no terminal or network code; the
// platform feeds it input frames on a fixed tick and draws it onto a Screen.
type Game interface {
	ID() string    // stable key, e.g. "tanks_evasive", used by CLI args and stored runs
	Title() string // menu label

	// Reset starts a fresh run. It runs on first use and on every restart.
	Reset(cfg core.RuntimeConfig)
	Step(in core.InputFrame) core.StepResult
	// Render draws into a cleared screen.
	Render(dst *core.Screen)
	State() core.GameState
}

// GameInfo describes a registered mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory builds a fresh mode instance.
type Factory func() Game

type mode struct {
	title string
	build Factory
}

var (
	mu    sync.RWMutex
	modes = map[string]mode{}
)

// Register adds a mode. The title is read once from a throwaway instance.
// An empty or duplicate id is a programming error and panics.
func Register(id string, f Factory) {
	if strings.TrimSpace(id) == "" {
		panic("registry: empty mode id")
	}
	title := f().Title()

	mu.Lock()
	defer mu.Unlock()
	if _, dup := modes[id]; dup {
		panic(fmt.Sprintf("registry: mode %q registered twice", id))
	}
	modes[id] = mode{title: title, build: f}
}

// List returns the registered modes ordered by id.
func List() []GameInfo {
	mu.RLock()
	infos := make([]GameInfo, 0, len(modes))
	for id, m := range modes {
		infos = append(infos, GameInfo{ID: id, Title: m.title})
	}
	mu.RUnlock()

	slices.SortFunc(infos, func(a, b GameInfo) int { return strings.Compare(a.ID, b.ID) })
	return infos
}

// Create builds a new instance of the mode.
func Create(id string) (Game, error) {
	mu.RLock()
	m, ok := modes[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMode, id)
	}
	return m.build(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := modes[id]
	return ok
}
