package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// holdWindow is how long a terminal key press keeps a held intent alive.
// Terminals only report presses, so key repeat has to bridge the gaps.
const holdWindow = 180 * time.Millisecond

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a tank action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case "a", "left":
		return core.ActionRotateLeft, false
	case "d", "right":
		return core.ActionRotateRight, false
	case "w", "up":
		return core.ActionForward, false
	case "s", "down":
		return core.ActionBackward, false
	case " ":
		return core.ActionFire, false
	case "g":
		return core.ActionGodMode, false
	case "m":
		return core.ActionMute, false
	case "1":
		return core.ActionLevel1, false
	case "2":
		return core.ActionLevel2, false
	case "3":
		return core.ActionLevel3, false
	case "enter":
		return core.ActionConfirm, false
	case "b":
		return core.ActionBack, false
	case "p", "esc":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}

	return core.ActionNone, false
}

// IsHeld reports whether an action is a continuous intent rather than an edge.
func IsHeld(a core.Action) bool {
	switch a {
	case core.ActionRotateLeft, core.ActionRotateRight, core.ActionForward, core.ActionBackward:
		return true
	}
	return false
}

// opposite pairs cancel each other when pressed.
var opposite = map[core.Action]core.Action{
	core.ActionRotateLeft:  core.ActionRotateRight,
	core.ActionRotateRight: core.ActionRotateLeft,
	core.ActionForward:     core.ActionBackward,
	core.ActionBackward:    core.ActionForward,
}

// InputLatch turns discrete key presses into per-tick input frames.
// Held intents stay set for a window of ticks after their last press.
// Edge intents are delivered on exactly one tick.
type InputLatch struct {
	ticks int
	held  map[core.Action]int
	edges core.InputFrame
}

// NewInputLatch creates a latch whose hold window is sized for tickRate.
func NewInputLatch(tickRate int) *InputLatch {
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	ticks := int(holdWindow * time.Duration(tickRate) / time.Second)
	return &InputLatch{
		ticks: max(ticks, 1),
		held:  make(map[core.Action]int),
		edges: core.NewInputFrame(),
	}
}

// Press records a key press.
func (l *InputLatch) Press(a core.Action) {
	if a == core.ActionNone {
		return
	}
	if !IsHeld(a) {
		l.edges.Set(a)
		return
	}
	delete(l.held, opposite[a])
	l.held[a] = l.ticks
}

// Frame returns the input for the next tick and ages the latch.
func (l *InputLatch) Frame() core.InputFrame {
	in := l.edges.Clone()
	for a, left := range l.held {
		in.Set(a)
		if left <= 1 {
			delete(l.held, a)
		} else {
			l.held[a] = left - 1
		}
	}
	l.edges.Clear()
	return in
}

// Reset drops all pending input.
func (l *InputLatch) Reset() {
	clear(l.held)
	l.edges.Clear()
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
	MenuActionLeft
	MenuActionRight
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
