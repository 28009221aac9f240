// Package web serves the arena over WebSocket. Every connection owns one
// private World; clients send JSON intents and receive a msgpack frame per tick.
package web

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-tanks/internal/arena"
	"github.com/vovakirdan/tui-tanks/internal/core"
)

// Client -> Server message types
const (
	MsgInput = "input"
	MsgLevel = "level"
)

// Server -> Client message types
const (
	MsgWelcome = "welcome"
	MsgError   = "error"
)

// ClientMessage is any JSON message a client sends. T selects which fields apply.
type ClientMessage struct {
	T string `json:"t"`

	// input: held intents stay in force until the next input message
	Forward  bool       `json:"forward,omitempty"`
	Backward bool       `json:"backward,omitempty"`
	Left     bool       `json:"left,omitempty"`
	Right    bool       `json:"right,omitempty"`
	Stick    [2]float64 `json:"stick"` // analog x, z; zero means idle

	// input: edges, applied to the next tick only
	Fire    bool `json:"fire,omitempty"`
	God     bool `json:"god,omitempty"`
	Mute    bool `json:"mute,omitempty"`
	Pause   bool `json:"pause,omitempty"`
	Restart bool `json:"restart,omitempty"`

	// level
	Level int `json:"level,omitempty"`
}

// LevelInfo describes one loadable level.
type LevelInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// WelcomeMsg is the first message of every connection.
type WelcomeMsg struct {
	T        string      `json:"t"`
	Session  string      `json:"session"`
	Mode     string      `json:"mode"`
	TickRate int         `json:"tickRate"`
	Levels   []LevelInfo `json:"levels"`
}

// ErrorMsg reports a rejected request.
type ErrorMsg struct {
	T   string `json:"t"`
	Msg string `json:"msg"`
}

// EventView is an audio event in a frame.
type EventView struct {
	Kind   string  `msgpack:"kind"`
	Source string  `msgpack:"source"`
	Volume float64 `msgpack:"volume"`
}

// Frame is the binary state message sent once per tick.
type Frame struct {
	Seq    uint64         `msgpack:"seq"`
	Score  int            `msgpack:"score"`
	Paused bool           `msgpack:"paused,omitempty"`
	Muted  bool           `msgpack:"muted,omitempty"`
	Events []EventView    `msgpack:"events,omitempty"`
	Snap   arena.Snapshot `msgpack:"snap"`
}

// EncodeFrame marshals a frame for a binary WebSocket message.
func EncodeFrame(f Frame) ([]byte, error) {
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("web: cannot encode frame: %w", err)
	}
	return data, nil
}

// DecodeFrame is the inverse of EncodeFrame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("web: cannot decode frame: %w", err)
	}
	return f, nil
}

// ParseClientMessage decodes a JSON client message.
func ParseClientMessage(raw []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("web: bad message: %w", err)
	}
	return msg, nil
}

// Held returns the continuous part of an input message as a frame.
func (m ClientMessage) Held() core.InputFrame {
	in := core.NewInputFrame()
	if m.Forward {
		in.Set(core.ActionForward)
	}
	if m.Backward {
		in.Set(core.ActionBackward)
	}
	if m.Left {
		in.Set(core.ActionRotateLeft)
	}
	if m.Right {
		in.Set(core.ActionRotateRight)
	}
	in.SetStick(m.Stick[0], m.Stick[1])
	return in
}

// Edges returns the one-tick actions of an input message.
func (m ClientMessage) Edges() []core.Action {
	var edges []core.Action
	if m.Fire {
		edges = append(edges, core.ActionFire)
	}
	if m.God {
		edges = append(edges, core.ActionGodMode)
	}
	if m.Mute {
		edges = append(edges, core.ActionMute)
	}
	if m.Pause {
		edges = append(edges, core.ActionPause)
	}
	if m.Restart {
		edges = append(edges, core.ActionRestart)
	}
	return edges
}
