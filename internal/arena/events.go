package arena

// EventKind is a sound-worthy moment in the simulation.
type EventKind int

const (
	EventShot EventKind = iota // a bullet was fired
	EventHit                   // a tank absorbed a bullet
	EventGate                  // a level other than the first was entered
	EventPickup                // the player collected a power-up
)

func (k EventKind) String() string {
	switch k {
	case EventShot:
		return "shot"
	case EventHit:
		return "bonk"
	case EventGate:
		return "gate"
	case EventPickup:
		return "pickup"
	}
	return "unknown"
}

// Event is emitted to the audio collaborator. The simulation never reads
// anything back from it.
type Event struct {
	Kind   EventKind
	Source string  // tank name, or CannonAuthor
	Volume float64 // suggested playback volume in [0, 1]
}

// AudioSink plays events. Play must not block.
type AudioSink interface {
	Play(Event)
}

// AudioFunc adapts a function to AudioSink.
type AudioFunc func(Event)

// Play calls f(e).
func (f AudioFunc) Play(e Event) {
	f(e)
}

func (w *World) emit(e Event) {
	w.events = append(w.events, e)
	if w.audio != nil {
		w.audio.Play(e)
	}
}
