package core

// Action is a semantic intent, decoupled from the key or button that produced it.
type Action int

const (
	ActionNone        Action = iota
	ActionRotateLeft         // A, Left
	ActionRotateRight        // D, Right
	ActionForward            // W, Up
	ActionBackward           // S, Down
	ActionFire               // Space, edge triggered
	ActionGodMode            // G, toggles damage immunity
	ActionMute               // M, toggles the audio sink
	ActionLevel1             // 1
	ActionLevel2             // 2
	ActionLevel3             // 3
	ActionConfirm            // Enter
	ActionBack               // B, Escape
	ActionRestart            // R after game over or victory
	ActionQuit               // Q, Ctrl+C
	ActionPause              // P, Escape
)

var actionNames = map[Action]string{
	ActionNone:        "None",
	ActionRotateLeft:  "RotateLeft",
	ActionRotateRight: "RotateRight",
	ActionForward:     "Forward",
	ActionBackward:    "Backward",
	ActionFire:        "Fire",
	ActionGodMode:     "GodMode",
	ActionMute:        "Mute",
	ActionLevel1:      "Level1",
	ActionLevel2:      "Level2",
	ActionLevel3:      "Level3",
	ActionConfirm:     "Confirm",
	ActionBack:        "Back",
	ActionRestart:     "Restart",
	ActionQuit:        "Quit",
	ActionPause:       "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// ParseAction resolves a name produced by String. Unknown names give ActionNone.
func ParseAction(name string) Action {
	for a, n := range actionNames {
		if n == name {
			return a
		}
	}
	return ActionNone
}

// InputFrame is the input of one player for one simulation tick.
// Held intents (rotate, move) are present for every tick the control is held;
// edge intents (fire, toggles) are present only on the tick they happened.
type InputFrame struct {
	Actions map[Action]bool

	// Stick is an analog steering vector in world XZ. A zero vector means idle.
	StickX, StickZ float64
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether the action is present this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// SetStick records an analog steering vector.
func (f *InputFrame) SetStick(x, z float64) {
	f.StickX, f.StickZ = x, z
}

// Stick returns the analog steering vector.
func (f InputFrame) Stick() Vec3 {
	return Vec3{X: f.StickX, Z: f.StickZ}
}

// Clear resets the frame for reuse.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.StickX, f.StickZ = 0, 0
}

// Clone returns a deep copy.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.StickX, clone.StickZ = f.StickX, f.StickZ
	return clone
}
