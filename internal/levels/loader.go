// Package levels provides level loading for the tank arena.
// It depends on arena for the level data type; arena does not depend on levels.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-tanks/internal/arena"
	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/levels/formats"
)

//go:embed data/*.yaml
var builtin embed.FS

// ErrNoLevels is returned when a source holds no usable level.
var ErrNoLevels = errors.New("levels: no levels found")

// Level represents a complete level definition.
type Level struct {
	ID       string
	Index    int
	Name     string
	Lights   [2]float64
	Facing   map[string]float64
	Matrix   []string
	Hands    []string
	Metadata map[string]string
	FilePath string
}

// Data converts the level into the form the arena consumes.
func (l *Level) Data() arena.LevelData {
	return arena.LevelData{
		Index:  l.Index,
		Name:   l.Name,
		Matrix: l.Matrix,
		Hands:  l.Hands,
		Lights: l.Lights,
		Facing: l.Facing,
	}
}

// Validate builds the level once to surface malformed grids.
func (l *Level) Validate(cfg config.BlocksConfig) error {
	if _, err := arena.NewLevel(l.Data(), cfg); err != nil {
		return fmt.Errorf("levels: %s: %w", l.ID, err)
	}
	return nil
}

// Loader handles loading levels from a directory tree.
type Loader struct {
	Root string
	fsys fs.FS
}

// NewLoader creates a new level loader over a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, fsys: os.DirFS(root)}
}

// Builtin returns a loader over the levels compiled into the binary.
func Builtin() *Loader {
	sub, err := fs.Sub(builtin, "data")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return &Loader{Root: "builtin", fsys: sub}
}

// LoadAll recursively scans and loads all level files.
// Files that fail to parse are skipped. Returns levels sorted by index, then ID.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			// Skip invalid files
			return nil
		}

		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		if levels[i].Index != levels[j].Index {
			return levels[i].Index < levels[j].Index
		}
		return levels[i].ID < levels[j].ID
	})

	return levels, nil
}

// LoadFile loads a single level file, relative to the loader root.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	ext := strings.ToLower(path.Ext(p))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	return Level{
		ID:       parsed.ID,
		Index:    parsed.Index,
		Name:     parsed.Name,
		Lights:   parsed.Lights,
		Facing:   parsed.Facing,
		Matrix:   parsed.Matrix,
		Hands:    parsed.Hands,
		Metadata: parsed.Metadata,
		FilePath: path.Join(l.Root, p),
	}, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all level IDs in index order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// Campaign loads every level and checks it can be played: indexes must be
// unique and every grid must build.
func (l *Loader) Campaign(cfg config.BlocksConfig) ([]arena.LevelData, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLevels, l.Root)
	}

	data := make([]arena.LevelData, 0, len(levels))
	seen := make(map[int]string, len(levels))
	for i := range levels {
		lvl := &levels[i]
		if other, ok := seen[lvl.Index]; ok {
			return nil, fmt.Errorf("levels: %s and %s share index %d", other, lvl.ID, lvl.Index)
		}
		seen[lvl.Index] = lvl.ID
		if err := lvl.Validate(cfg); err != nil {
			return nil, err
		}
		data = append(data, lvl.Data())
	}
	return data, nil
}

// Open returns a loader for dir, or the builtin pack when dir is empty.
func Open(dir string) *Loader {
	if dir == "" {
		return Builtin()
	}
	return NewLoader(dir)
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
