package tanks

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-tanks/internal/arena"
	"github.com/vovakirdan/tui-tanks/internal/core"
)

// Visual characters for rendering
const (
	WallGlyph    = '█'
	MoverGlyph   = '▒'
	HousingGlyph = '▓'
	BulletGlyph  = '•'
	BoostedGlyph = '◆'
	TurretGlyph  = '◉'
	HealGlyph    = '+'
	BoostGlyph   = '!'
	TargetGlyph  = '·'
	BarFull      = '█'
	BarEmpty     = '░'
)

// headingGlyphs are indexed by heading in eighths of a turn, starting at +X.
var headingGlyphs = []rune{'▶', '◥', '▲', '◤', '◀', '◣', '▼', '◢'}

var tankColors = map[string]core.Color{
	"P": core.ColorBrightGreen,
	"A": core.ColorBrightRed,
	"B": core.ColorBrightMagenta,
	"C": core.ColorOrange,
}

// minimum screen besides the arena: HUD row, bars row and the side margin
const (
	hudRows = 2
	minW    = 40
)

// view maps world coordinates onto the screen. One grid cell is two columns by one row.
type view struct {
	ox, oy int
	x0, z0 float64
	cell   float64
}

func newView(s arena.Snapshot, dst *core.Screen) (view, bool) {
	w, h := s.Cols*2, s.Rows
	if dst.Width() < max(w, minW) || dst.Height() < h+hudRows {
		return view{}, false
	}
	return view{
		ox:   (dst.Width() - w) / 2,
		oy:   1 + (dst.Height()-hudRows-h)/2,
		x0:   -float64(s.Cols) * s.CellSize / 2,
		z0:   -float64(s.Rows) * s.CellSize / 2,
		cell: s.CellSize,
	}, true
}

// at returns the screen position of a world point at half-cell horizontal resolution.
func (v view) at(x, z float64) (int, int) {
	col := int(math.Floor(((x-v.x0)/v.cell + 0.5) * 2))
	row := int(math.Floor((z-v.z0)/v.cell + 0.5))
	return v.ox + col, v.oy + row
}

// Render draws the current game state into the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.world == nil {
		dst.DrawTextCentered(dst.Height()/2-1, "Cannot load levels", core.ColorBrightRed)
		if g.err != nil {
			dst.DrawTextCentered(dst.Height()/2+1, g.err.Error(), core.ColorGray)
		}
		return
	}

	snap := g.world.Snapshot()
	v, ok := newView(snap, dst)
	if !ok {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", max(snap.Cols*2, minW), snap.Rows+hudRows)
		dst.DrawTextCentered(dst.Height()/2-1, msg, core.ColorDefault)
		dst.DrawTextCentered(dst.Height()/2+1, hint, core.ColorDefault)
		return
	}

	g.renderHUD(dst, snap)
	renderTargets(dst, v, snap)
	renderBlocks(dst, v, snap)
	renderPowerUp(dst, v, snap)
	renderTanks(dst, v, snap)
	renderTurret(dst, v, snap)
	renderBullets(dst, v, snap)
	renderBars(dst, snap)
	g.renderOverlay(dst)
}

// renderHUD draws level, kills and toggles on the top row.
func (g *Game) renderHUD(dst *core.Screen, s arena.Snapshot) {
	dst.DrawText(1, 0, fmt.Sprintf("Level %d: %s", s.Level, s.Name))

	dst.DrawTextCentered(0, fmt.Sprintf("Score: %d", g.State().Score), core.ColorDefault)

	var flags []string
	if s.GodMode {
		flags = append(flags, "GOD")
	}
	if g.muted {
		flags = append(flags, "MUTE")
	}
	flags = append(flags, fmt.Sprintf("Kills: %d", s.Kills))
	right := strings.Join(flags, "  ")
	dst.DrawTextColored(dst.Width()-len([]rune(right))-1, 0, right, core.ColorYellow)
}

func renderTargets(dst *core.Screen, v view, s arena.Snapshot) {
	for _, p := range s.Targets {
		x, y := v.at(p.X, p.Z)
		dst.SetColored(x, y, TargetGlyph, core.ColorGray)
	}
}

func renderBlocks(dst *core.Screen, v view, s arena.Snapshot) {
	wall := core.ColorWhite
	if s.Lights[0] < 0.3 {
		wall = core.ColorGray
	}
	for _, b := range s.Blocks {
		glyph, color := WallGlyph, wall
		switch {
		case b.Movable:
			glyph, color = MoverGlyph, core.ColorCyan
		case b.Code == "K" || b.Code == "k":
			glyph, color = HousingGlyph, core.ColorYellow
		}
		x, y := v.at(b.X, b.Z)
		if !b.Movable {
			// static blocks snap to their grid cell
			x, y = v.ox+b.Col*2, v.oy+b.Row
		}
		dst.SetColored(x, y, glyph, color)
		dst.SetColored(x+1, y, glyph, color)
	}
}

func renderPowerUp(dst *core.Screen, v view, s arena.Snapshot) {
	p := s.PowerUp
	if !p.Active {
		return
	}
	x, y := v.at(p.X, p.Z)
	if p.Kind == arena.PowerUpBoost.String() {
		dst.SetColored(x, y, BoostGlyph, core.ColorBrightYellow)
		return
	}
	dst.SetColored(x, y, HealGlyph, core.ColorBrightGreen)
}

// HeadingGlyph returns the arrow closest to a tank heading.
func HeadingGlyph(heading float64) rune {
	n := int(math.Round(heading/(math.Pi/4))) % len(headingGlyphs)
	if n < 0 {
		n += len(headingGlyphs)
	}
	return headingGlyphs[n]
}

func tankColor(name string) core.Color {
	if c, ok := tankColors[name]; ok {
		return c
	}
	return core.ColorBrightBlue
}

func renderTanks(dst *core.Screen, v view, s arena.Snapshot) {
	for _, t := range s.Tanks {
		color := tankColor(t.Name)
		if !t.Active {
			color = core.ColorGray
		}
		x, y := v.at(t.X, t.Z)
		dst.SetColored(x, y, HeadingGlyph(t.Heading), color)
		dst.SetColored(x+1, y, []rune(t.Name)[0], color)
	}
}

func renderTurret(dst *core.Screen, v view, s arena.Snapshot) {
	if s.Turret == nil {
		return
	}
	x, y := v.at(s.Turret.X, s.Turret.Z)
	dst.SetColored(x, y, TurretGlyph, core.ColorOrange)
	dst.SetColored(x+1, y, HeadingGlyph(s.Turret.Heading), core.ColorOrange)
}

func renderBullets(dst *core.Screen, v view, s arena.Snapshot) {
	for _, b := range s.Bullets {
		glyph, color := BulletGlyph, tankColor(b.Author)
		if b.Boosted {
			glyph = BoostedGlyph
		}
		if b.Author == arena.CannonAuthor {
			color = core.ColorOrange
		}
		x, y := v.at(b.X, b.Z)
		dst.SetColored(x, y, glyph, color)
	}
}

// HealthBar renders a ten-segment life bar.
func HealthBar(ratio float64) string {
	full := int(math.Round(core.ClampF(ratio, 0, 1) * 10))
	return strings.Repeat(string(BarFull), full) + strings.Repeat(string(BarEmpty), 10-full)
}

// renderBars draws one life bar per tank on the bottom row.
func renderBars(dst *core.Screen, s arena.Snapshot) {
	x := 1
	y := dst.Height() - 1
	for _, t := range s.Tanks {
		label := t.Name
		if t.Boosted {
			label += string(BoostGlyph)
		}
		text := fmt.Sprintf("%s %s ", label, HealthBar(t.Health))
		dst.DrawTextColored(x, y, text, tankColor(t.Name))
		x += len([]rune(text)) + 1
	}
}

// renderOverlay draws pause, outcome and event banners.
func (g *Game) renderOverlay(dst *core.Screen) {
	mid := dst.Height() / 2
	switch {
	case g.world.State == arena.StateGameOver:
		dst.DrawTextCentered(mid-1, " GAME OVER ", core.ColorBrightRed)
		dst.DrawTextCentered(mid+1, " Press R to restart, 1-3 to pick a level ", core.ColorDefault)
	case g.world.State == arena.StateVictory:
		dst.DrawTextCentered(mid-1, " VICTORY ", core.ColorBrightGreen)
		dst.DrawTextCentered(mid+1, fmt.Sprintf(" Final score: %d  Press R to play again ", g.State().Score), core.ColorDefault)
	case g.paused:
		dst.DrawTextCentered(mid, " PAUSED ", core.ColorBrightYellow)
	case g.flashLeft > 0 && g.flash != "":
		dst.DrawTextCentered(mid, " "+g.flash+" ", core.ColorBrightCyan)
	}
}
