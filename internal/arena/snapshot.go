package arena

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// BlockView is the render state of a block.
type BlockView struct {
	Code    string  `msgpack:"code"`
	Row     int     `msgpack:"row"`
	Col     int     `msgpack:"col"`
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	Z       float64 `msgpack:"z"`
	Movable bool    `msgpack:"movable"`
}

// TankView is the render state of a tank.
type TankView struct {
	Name    string  `msgpack:"name"`
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	Z       float64 `msgpack:"z"`
	Heading float64 `msgpack:"heading"`
	Life    int     `msgpack:"life"`
	Health  float64 `msgpack:"health"`
	Mode    string  `msgpack:"mode,omitempty"`
	GodMode bool    `msgpack:"god,omitempty"`
	Boosted bool    `msgpack:"boosted,omitempty"`
	Active  bool    `msgpack:"active"`
}

// BulletView is the render state of a bullet.
type BulletView struct {
	ID      int     `msgpack:"id"`
	Author  string  `msgpack:"author"`
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	Z       float64 `msgpack:"z"`
	Boosted bool    `msgpack:"boosted,omitempty"`
	Active  bool    `msgpack:"active"`
}

// TurretView is the render state of the turret.
type TurretView struct {
	X       float64 `msgpack:"x"`
	Z       float64 `msgpack:"z"`
	Heading float64 `msgpack:"heading"`
}

// PowerUpView is the render state of the power-up.
type PowerUpView struct {
	Kind   string  `msgpack:"kind"`
	X      float64 `msgpack:"x"`
	Z      float64 `msgpack:"z"`
	Active bool    `msgpack:"active"`
}

// PointView is a bare marker position.
type PointView struct {
	X float64 `msgpack:"x"`
	Z float64 `msgpack:"z"`
}

// Snapshot is everything a renderer needs for one tick, in plain values.
type Snapshot struct {
	Level    int          `msgpack:"level"`
	Name     string       `msgpack:"name"`
	Rows     int          `msgpack:"rows"`
	Cols     int          `msgpack:"cols"`
	CellSize float64      `msgpack:"cell"`
	Lights   [2]float64   `msgpack:"lights"`
	State    string       `msgpack:"state"`
	Tick     int          `msgpack:"tick"`
	Kills    int          `msgpack:"kills"`
	GodMode  bool         `msgpack:"god"`
	Blocks   []BlockView  `msgpack:"blocks"`
	Tanks    []TankView   `msgpack:"tanks"`
	Bullets  []BulletView `msgpack:"bullets"`
	Turret   *TurretView  `msgpack:"turret,omitempty"`
	PowerUp  PowerUpView  `msgpack:"powerup"`
	Targets  []PointView  `msgpack:"targets,omitempty"`
}

// Snapshot copies the render state out of the world.
func (w *World) Snapshot() Snapshot {
	lvl := w.Level
	s := Snapshot{
		Level:    lvl.Index,
		Name:     lvl.Name,
		Rows:     lvl.Rows,
		Cols:     lvl.Cols,
		CellSize: lvl.CellSize,
		Lights:   lvl.Lights,
		State:    w.State.String(),
		Tick:     w.Ticks,
		Kills:    w.Kills,
		GodMode:  w.GodMode,
		Blocks:   make([]BlockView, len(lvl.Blocks)),
		Tanks:    make([]TankView, len(w.Tanks)),
		Bullets:  make([]BulletView, len(w.Bullets)),
		PowerUp: PowerUpView{
			Kind:   w.PowerUp.Kind.String(),
			X:      w.PowerUp.Position.X,
			Z:      w.PowerUp.Position.Z,
			Active: w.PowerUp.Active,
		},
	}

	for i := range lvl.Blocks {
		b := &lvl.Blocks[i]
		s.Blocks[i] = BlockView{
			Code:    string(b.Type.Code()),
			Row:     b.Row,
			Col:     b.Col,
			X:       b.Position.X,
			Y:       b.Position.Y,
			Z:       b.Position.Z,
			Movable: b.Movable(),
		}
	}

	for i, t := range w.Tanks {
		v := TankView{
			Name:    t.Name,
			X:       t.Position.X,
			Y:       t.Position.Y,
			Z:       t.Position.Z,
			Heading: t.Heading,
			Life:    t.Life,
			Health:  t.HealthRatio(),
			GodMode: t.GodMode,
			Boosted: t.DamageBoosted,
			Active:  !t.dead,
		}
		if t.AI != nil {
			v.Mode = t.AI.Mode.String()
		}
		s.Tanks[i] = v
	}

	for i, b := range w.Bullets {
		s.Bullets[i] = BulletView{
			ID:      b.ID,
			Author:  b.Author,
			X:       b.Position.X,
			Y:       b.Position.Y,
			Z:       b.Position.Z,
			Boosted: b.DamageBoosted,
			Active:  b.Active,
		}
	}

	for _, p := range lvl.LightTargets() {
		s.Targets = append(s.Targets, PointView{X: p.X, Z: p.Z})
	}

	if w.Turret != nil {
		s.Turret = &TurretView{X: w.Turret.Position.X, Z: w.Turret.Position.Z, Heading: w.Turret.Heading}
	}
	return s
}

// Hash fingerprints the dynamic state for determinism checks.
// Equal worlds stepped with equal inputs and time deltas hash equal.
func (s Snapshot) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	putF := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	putI := func(i int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(i))
		h.Write(buf[:])
	}

	putI(s.Level)
	putI(s.Tick)
	putI(s.Kills)
	h.Write([]byte(s.State))
	for _, b := range s.Blocks {
		if b.Movable {
			putF(b.X)
			putF(b.Z)
		}
	}
	for _, t := range s.Tanks {
		h.Write([]byte(t.Name))
		h.Write([]byte(t.Mode))
		putF(t.X)
		putF(t.Z)
		putF(t.Heading)
		putI(t.Life)
	}
	for _, b := range s.Bullets {
		putI(b.ID)
		putF(b.X)
		putF(b.Y)
		putF(b.Z)
	}
	if s.Turret != nil {
		putF(s.Turret.Heading)
	}
	putF(s.PowerUp.X)
	putF(s.PowerUp.Z)
	return h.Sum64()
}
