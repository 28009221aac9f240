// Package formats provides pluggable level file format parsers.
package formats

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidLevel marks a file that parsed but does not describe a level.
var ErrInvalidLevel = errors.New("invalid level")

// defaultLights is used when a file omits the ambient/directional pair.
var defaultLights = [2]float64{0.4, 0.8}

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID       string             `yaml:"id"`
	Index    int                `yaml:"index"`
	Name     string             `yaml:"name"`
	Lights   []float64          `yaml:"lights,omitempty"`
	Facing   map[string]float64 `yaml:"facing,omitempty"` // degrees per spawn
	Matrix   []string           `yaml:"matrix"`
	Hands    []string           `yaml:"hands,omitempty"`
	Metadata map[string]string  `yaml:"metadata,omitempty"`
}

// Level represents a parsed level ready for use.
type Level struct {
	ID       string
	Index    int
	Name     string
	Lights   [2]float64
	Facing   map[string]float64
	Matrix   []string
	Hands    []string
	Metadata map[string]string
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if yl.Index <= 0 {
		return Level{}, fmt.Errorf("index %d must be positive: %w", yl.Index, ErrInvalidLevel)
	}
	if len(yl.Matrix) == 0 {
		return Level{}, fmt.Errorf("empty matrix: %w", ErrInvalidLevel)
	}

	lights := defaultLights
	switch len(yl.Lights) {
	case 0:
	case 2:
		lights = [2]float64{yl.Lights[0], yl.Lights[1]}
	default:
		return Level{}, fmt.Errorf("lights needs 2 values, got %d: %w", len(yl.Lights), ErrInvalidLevel)
	}

	id := yl.ID
	if id == "" {
		id = fmt.Sprintf("lvl%02d", yl.Index)
	}
	name := yl.Name
	if name == "" {
		name = id
	}

	return Level{
		ID:       id,
		Index:    yl.Index,
		Name:     name,
		Lights:   lights,
		Facing:   yl.Facing,
		Matrix:   yl.Matrix,
		Hands:    yl.Hands,
		Metadata: yl.Metadata,
	}, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
