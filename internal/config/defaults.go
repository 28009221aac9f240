package config

import (
	_ "embed"
)

//go:embed defaults/tanks.yaml
var defaultTanksYAML []byte

// DefaultTanksConfig returns the built-in arena tuning.
// It mirrors defaults/tanks.yaml and is used when the embedded file cannot be parsed.
func DefaultTanksConfig() TanksConfig {
	return TanksConfig{
		Tank: TankConfig{
			Speed:         0.3,
			SlowFactor:    0.8,
			RotateSpeed:   0.08,
			SmoothDegrees: 45,
			MaxLife:       10,
			MuzzleOffset:  2.3,
			MuzzleHeight:  2.0,
			StickGain:     20,
		},
		Bullet: BulletConfig{
			Radius:         0.3,
			Speed:          1.0,
			MaxReflections: 2,
		},
		AI: AIConfig{
			Profile:         "standard",
			ShootInterval:   1.0,
			CampTime:        5.0,
			NestDistance:    4.0,
			DamageThreshold: 2,
			Evasive: EvasiveConfig{
				NestDistance: 3.0,
				FleeRadius:   15.0,
				UnjamTime:    0.3,
				HiddenTime:   4.0,
			},
		},
		Turret: TurretConfig{
			RotateSpeed:   0.01,
			SmoothDegrees: 5,
			ShootInterval: 3.0,
			MuzzleOffset:  6.0,
			Height:        3.0,
		},
		PowerUp: PowerUpConfig{
			EffectTime:     10.0,
			PickupDistance: 4.0,
			HealAmount:     2,
		},
		Blocks: BlocksConfig{
			CellSize:   4.0,
			TrackCells: 4,
			SpeedW:     5.0,
			SpeedY:     4.0,
			SpeedZ:     3.0,
		},
		// Fixed pacing unless a preset turns the ramp on.
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "level",
				MaxAt: 3,
			},
			Scaling: ScalingConfig{
				FireRate: 0.5,
				TurnRate: 0.25,
			},
		},
	}
}
