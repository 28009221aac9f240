package arena

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
)

// State is the outcome status of a world.
type State int

const (
	StatePlaying State = iota
	StateGameOver
	StateVictory
)

func (s State) String() string {
	switch s {
	case StateGameOver:
		return "game_over"
	case StateVictory:
		return "victory"
	}
	return "playing"
}

// Options tune a world beyond the arena config.
type Options struct {
	Profile    Profile
	Seed       int64
	Teams      TeamTable                 // nil means DefaultTeams plus every other spawn on "ai"
	Difficulty *config.DifficultyManager // nil keeps the base cadence
	Audio      AudioSink
}

// World is the simulation context. It owns the level, tanks, bullets,
// turret, power-up and random source, and changes only inside Step and Load.
type World struct {
	Level   *Level
	Tanks   []*Tank
	Bullets []*Bullet
	Turret  *Turret
	PowerUp PowerUp

	State   State
	GodMode bool
	Kills   int
	Ticks   int
	// Start is the level index the run began on. Reached is the highest
	// level index entered since then by clearing levels.
	Start   int
	Reached int

	cfg        config.TanksConfig
	data       []LevelData
	profile    Profile
	rng        *rand.Rand
	teams      TeamTable
	difficulty *config.DifficultyManager
	audio      AudioSink
	events     []Event
	nextBullet int
}

// NewWorld validates every level and loads the first one.
func NewWorld(levels []LevelData, cfg config.TanksConfig, opts Options) (*World, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("arena: no levels: %w", ErrNoLevel)
	}
	data := append([]LevelData(nil), levels...)
	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	teams := opts.Teams
	if teams == nil {
		teams = DefaultTeams()
	}
	for _, d := range data {
		lvl, err := NewLevel(d, cfg.Blocks)
		if err != nil {
			return nil, err
		}
		if opts.Teams != nil {
			continue
		}
		for _, name := range lvl.SpawnNames() {
			if _, ok := teams[name]; !ok {
				teams[name] = "ai"
			}
		}
	}

	w := &World{
		cfg:        cfg,
		data:       data,
		profile:    opts.Profile,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		teams:      teams,
		difficulty: opts.Difficulty,
		audio:      opts.Audio,
	}
	if err := w.StartRun(data[0].Index); err != nil {
		return nil, err
	}
	return w, nil
}

// LevelIndexes lists the level indexes the world can load, ascending.
func (w *World) LevelIndexes() []int {
	idx := make([]int, len(w.data))
	for i, d := range w.data {
		idx[i] = d.Index
	}
	return idx
}

// SetAudio replaces the audio collaborator. Nil silences the world.
func (w *World) SetAudio(a AudioSink) {
	w.audio = a
}

// Events returns the events emitted by the last Step or Load.
func (w *World) Events() []Event {
	return w.events
}

// Player returns the human-controlled tank, or nil once it is gone.
func (w *World) Player() *Tank {
	for _, t := range w.Tanks {
		if t.IsPlayer() {
			return t
		}
	}
	return nil
}

// AIRemaining counts the live AI tanks.
func (w *World) AIRemaining() int {
	n := 0
	for _, t := range w.Tanks {
		if !t.IsPlayer() {
			n++
		}
	}
	return n
}

// StartRun begins a new run on the given level: the level is loaded and
// kills, ticks and progress start over. God mode carries over.
func (w *World) StartRun(index int) error {
	if err := w.Load(index); err != nil {
		return err
	}
	w.Start = index
	w.Reached = index
	w.Kills = 0
	w.Ticks = 0
	return nil
}

// Load rebuilds the world for the given level index without touching the
// run totals. God mode carries over.
func (w *World) Load(index int) error {
	var data *LevelData
	for i := range w.data {
		if w.data[i].Index == index {
			data = &w.data[i]
			break
		}
	}
	if data == nil {
		return fmt.Errorf("arena: level %d: %w", index, ErrNoLevel)
	}

	lvl, err := NewLevel(*data, w.cfg.Blocks)
	if err != nil {
		return err
	}

	w.events = w.events[:0]
	w.Level = lvl
	w.Bullets = nil
	w.Tanks = nil
	w.Turret = nil
	w.PowerUp = initialPowerUp()
	w.State = StatePlaying

	for i, name := range lvl.SpawnNames() {
		spawn, err := lvl.Spawn(name)
		if err != nil {
			return err
		}
		t := newTank(i, name, spawn, lvl.Facing(name), w.cfg.Tank)
		if name == playerName {
			t.GodMode = w.GodMode
		} else {
			interval := w.shootInterval(w.cfg.AI.ShootInterval)
			t.AI = newAIState(w.profile, lvl.Nests(name), w.rng, interval, w.cfg.AI.CampTime)
		}
		w.Tanks = append(w.Tanks, t)
	}

	if pos, ok := lvl.Turret(); ok {
		interval := w.shootInterval(w.cfg.Turret.ShootInterval)
		w.Turret = newTurret(pos, w.cfg.Turret, w.rng.Float64()*interval)
	}

	if index != w.data[0].Index {
		w.emit(Event{Kind: EventGate, Volume: 0.5})
	}
	return nil
}

func (w *World) shootInterval(base float64) float64 {
	if w.difficulty == nil {
		return base
	}
	return w.difficulty.Interval(base, w.Level.Index, w.Ticks)
}

func (w *World) turnSpeed(base float64) float64 {
	if w.difficulty == nil {
		return base
	}
	return w.difficulty.TurnSpeed(base, w.Level.Index, w.Ticks)
}

// Step advances the simulation by one tick of dt seconds. It is the only
// operation that moves the world forward.
func (w *World) Step(in core.InputFrame, dt float64) {
	w.events = w.events[:0]
	if idx := levelRequest(in); idx > 0 {
		if err := w.StartRun(idx); err == nil {
			return
		}
	}
	if w.State != StatePlaying {
		return
	}

	w.Ticks++
	w.Level.Advance(dt)

	player := w.Player()
	if in.Has(core.ActionGodMode) && player != nil {
		w.GodMode = !w.GodMode
		player.GodMode = w.GodMode
	}

	killed := w.tankPass(in, dt)
	w.bulletPass()

	if picked := w.Level.updatePowerUp(&w.PowerUp, w.Player(), w.cfg.PowerUp, dt, w.rng); picked {
		w.emit(Event{Kind: EventPickup, Source: playerName, Volume: 0.3})
	}

	if w.Turret != nil {
		interval := w.shootInterval(w.cfg.Turret.ShootInterval)
		turn := w.turnSpeed(w.cfg.Turret.RotateSpeed)
		if w.Turret.update(w.Tanks, dt, interval, turn) {
			w.fire(CannonAuthor, false, w.Turret.Muzzle(), w.Turret.Forward())
		}
	}

	w.resolveOutcome(killed)
}

func levelRequest(in core.InputFrame) int {
	switch {
	case in.Has(core.ActionLevel1):
		return 1
	case in.Has(core.ActionLevel2):
		return 2
	case in.Has(core.ActionLevel3):
		return 3
	}
	return 0
}

// tankPass resolves intents, walls and damage tank by tank in roster order.
// It returns the number of AI tanks destroyed.
func (w *World) tankPass(in core.InputFrame, dt float64) int {
	c := &aiTick{
		level:         w.Level,
		player:        w.Player(),
		tanks:         w.Tanks,
		rng:           w.rng,
		dt:            dt,
		cfg:           w.cfg.AI,
		shootInterval: w.shootInterval(w.cfg.AI.ShootInterval),
		turnSpeed:     w.turnSpeed(w.cfg.Tank.RotateSpeed),
	}

	for i, t := range w.Tanks {
		var fire bool
		if t.IsPlayer() {
			fire = t.applyInput(in)
		} else {
			c.self = i
			fire = t.drive(c)
		}
		t.settle()
		if fire {
			w.fire(t.Name, t.DamageBoosted, t.Muzzle(), t.Forward())
		}

		t.updateCollider(w.Level.CellSize)
		t.resolveBlocks(w.Level, dt)

		if hits := t.takeHits(w.Bullets, w.teams); hits > 0 {
			vol := 0.1
			if t.IsPlayer() {
				vol = 0.3
			}
			for range hits {
				w.emit(Event{Kind: EventHit, Source: t.Name, Volume: vol})
			}
		}
		t.prevPosition = t.Position

		if !t.Alive() {
			t.dead = true
		}
	}

	killed := 0
	alive := w.Tanks[:0]
	for _, t := range w.Tanks {
		if !t.dead {
			alive = append(alive, t)
			continue
		}
		if t.IsPlayer() {
			w.State = StateGameOver
			alive = append(alive, t)
			continue
		}
		killed++
	}
	clear(w.Tanks[len(alive):])
	w.Tanks = alive
	w.Kills += killed
	return killed
}

func (w *World) fire(author string, boosted bool, muzzle, dir core.Vec3) {
	w.nextBullet++
	w.Bullets = append(w.Bullets, newBullet(w.nextBullet, author, boosted, muzzle, dir))
	w.emit(Event{Kind: EventShot, Source: author, Volume: 0.2})
}

// bulletPass moves every bullet, then reflects, then sweeps the spent ones.
func (w *World) bulletPass() {
	for _, b := range w.Bullets {
		b.advance(w.cfg.Bullet)
	}
	for _, b := range w.Bullets {
		b.collide(w.Level, w.cfg.Bullet.MaxReflections)
		if b.Active && !w.Level.InBounds(b.Position) {
			b.Active = false
		}
	}

	live := w.Bullets[:0]
	for _, b := range w.Bullets {
		if b.Active {
			live = append(live, b)
		}
	}
	clear(w.Bullets[len(live):])
	w.Bullets = live
}

// resolveOutcome ends the run or moves to the next level once the last
// AI tank falls.
func (w *World) resolveOutcome(killed int) {
	if w.State != StatePlaying || killed == 0 || w.AIRemaining() > 0 {
		return
	}
	next := -1
	for i, d := range w.data {
		if d.Index == w.Level.Index && i+1 < len(w.data) {
			next = w.data[i+1].Index
		}
	}
	if next < 0 {
		w.State = StateVictory
		return
	}
	events := append([]Event(nil), w.events...)
	if err := w.Load(next); err != nil {
		w.State = StateVictory
		return
	}
	w.Reached = max(w.Reached, next)
	w.events = append(events, w.events...)
}
