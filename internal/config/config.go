// Package config loads the YAML tuning of the tank arena and manages
// difficulty presets.
package config

// TanksConfig contains every tunable constant of the arena simulation.
type TanksConfig struct {
	Tank       TankConfig       `yaml:"tank"`
	Bullet     BulletConfig     `yaml:"bullet"`
	AI         AIConfig         `yaml:"ai"`
	Turret     TurretConfig     `yaml:"turret"`
	PowerUp    PowerUpConfig    `yaml:"powerup"`
	Blocks     BlocksConfig     `yaml:"blocks"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TankConfig defines movement and health of every tank.
type TankConfig struct {
	Speed         float64 `yaml:"speed"`          // world units per tick
	SlowFactor    float64 `yaml:"slow_factor"`    // speed multiplier for slow moves
	RotateSpeed   float64 `yaml:"rotate_speed"`   // radians per tick
	SmoothDegrees float64 `yaml:"smooth_degrees"` // below this steering angle rotation eases in
	MaxLife       int     `yaml:"max_life"`
	MuzzleOffset  float64 `yaml:"muzzle_offset"` // distance from tank center to the muzzle
	MuzzleHeight  float64 `yaml:"muzzle_height"`
	StickGain     float64 `yaml:"stick_gain"` // analog steering angle multiplier
}

// BulletConfig defines projectile ballistics.
type BulletConfig struct {
	Radius         float64 `yaml:"radius"`
	Speed          float64 `yaml:"speed"` // world units per tick
	MaxReflections int     `yaml:"max_reflections"`
}

// AIConfig defines the tank controller.
type AIConfig struct {
	Profile         string        `yaml:"profile"`        // "standard" or "evasive"
	ShootInterval   float64       `yaml:"shoot_interval"` // seconds
	CampTime        float64       `yaml:"camp_time"`      // seconds
	NestDistance    float64       `yaml:"nest_distance"`
	DamageThreshold int           `yaml:"damage_threshold"`
	Evasive         EvasiveConfig `yaml:"evasive"`
}

// EvasiveConfig tunes the alternative controller profile.
type EvasiveConfig struct {
	NestDistance float64 `yaml:"nest_distance"`
	FleeRadius   float64 `yaml:"flee_radius"`
	UnjamTime    float64 `yaml:"unjam_time"`  // seconds
	HiddenTime   float64 `yaml:"hidden_time"` // seconds
}

// TurretConfig defines the stationary cannon.
type TurretConfig struct {
	RotateSpeed   float64 `yaml:"rotate_speed"`
	SmoothDegrees float64 `yaml:"smooth_degrees"`
	ShootInterval float64 `yaml:"shoot_interval"`
	MuzzleOffset  float64 `yaml:"muzzle_offset"`
	Height        float64 `yaml:"height"`
}

// PowerUpConfig defines the pickup cycle.
type PowerUpConfig struct {
	EffectTime     float64 `yaml:"effect_time"` // seconds
	PickupDistance float64 `yaml:"pickup_distance"`
	HealAmount     int     `yaml:"heal_amount"`
}

// BlocksConfig defines the level grid and moving blocks.
type BlocksConfig struct {
	CellSize   float64 `yaml:"cell_size"`
	TrackCells float64 `yaml:"track_cells"` // moving block travel before reversing
	SpeedW     float64 `yaml:"speed_w"`     // units per second
	SpeedY     float64 `yaml:"speed_y"`
	SpeedZ     float64 `yaml:"speed_z"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines what drives difficulty upward.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "level", "time", or "none"
	MaxAt int    `yaml:"max_at"` // level index or ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes at max difficulty.
type ScalingConfig struct {
	FireRate float64 `yaml:"fire_rate"` // shoot intervals divide by (1 + level*fire_rate)
	TurnRate float64 `yaml:"turn_rate"` // rotate speeds multiply by (1 + level*turn_rate)
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Unknown strings give "".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	}
	return ""
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
