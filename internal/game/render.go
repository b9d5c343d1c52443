package game

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/anomaly-exit/internal/anomaly"
	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/round"
	"github.com/vovakirdan/anomaly-exit/internal/world"
)

// Layout constants.
const (
	hudRows     = 2
	minScreenW  = 40
	minScreenH  = 12
	cameraGain  = 12.0 // Cells per world unit of camera offset
	vignetteCol = 0.12 // Fraction of the width darkened at full vignette
)

// Visual characters.
const (
	PlayerChar      = '@'
	PlayerSmallChar = 'o'
	GhostChar       = '@'
	FloorChar       = '▀'
	WallChar        = '│'
)

var doorArt = []string{"┌─┐", "│ │", "│ │"}

// view maps world coordinates onto the screen for one area.
type view struct {
	region  world.Region
	left    int // Column of region.Min
	floor   int // Row of the floor line
	ceiling int // Row of the ceiling line
	dx, dy  int // Camera shake
}

func (v view) col(x float64) int {
	return v.left + int(math.Round(x-v.region.Min)) + v.dx
}

// row returns the row of the lowest cell standing at height y.
func (v view) row(y float64) int {
	return v.floor - 1 - int(math.Round(y)) + v.dy
}

// Render draws the area the player is in, the HUD and screen effects.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if dst.Width() < minScreenW || dst.Height() < minScreenH {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small", core.ColorBrightRed)
		return
	}
	if g.machine == nil {
		return
	}

	v := g.view(dst)
	hallway := g.world.InHallway()

	g.drawArea(dst, v)
	if hallway {
		g.drawDoor(dst, v, g.room.RoundConfig().HallwayDoor.X, "BACK", core.ColorCyan)
	} else {
		rc := g.room.RoundConfig()
		g.drawDoor(dst, v, rc.Entrance.X, "IN", core.ColorYellow)
		g.drawDoor(dst, v, rc.Exit.X, "EXIT", core.ColorGreen)
		g.drawInstances(dst, v)
	}
	g.drawGhosts(dst, v)
	g.drawPlayer(dst, v)

	g.applyPostFX(dst)
	g.drawHUD(dst, hallway)

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.machine.IsGameOver() {
		g.drawCenteredMessage(dst, "YOU GOT OUT", fmt.Sprintf("%d rounds cleared  |  Press R to play again", g.room.Rules.MaxRounds))
	}
}

func (g *Game) view(dst *core.Screen) view {
	layout := g.world.Layout()
	region := layout.Room
	if g.world.InHallway() {
		region = layout.Hallway
	}

	floor := dst.Height() - 2
	ceiling := max(hudRows, floor-1-int(math.Ceil(layout.Ceiling)))
	left := max(1, (dst.Width()-int(math.Round(region.Width())))/2)

	off := g.world.Offset()
	return view{
		region:  region,
		left:    left,
		floor:   floor,
		ceiling: ceiling,
		dx:      int(math.Round(off.X * cameraGain)),
		dy:      -int(math.Round(off.Y * cameraGain)),
	}
}

func (g *Game) drawArea(dst *core.Screen, v view) {
	l, r := v.col(v.region.Min)-1, v.col(v.region.Max)+1
	dst.DrawHLine(l, v.floor+v.dy, r-l+1, FloorChar, core.ColorGray)
	dst.DrawHLine(l, v.ceiling+v.dy, r-l+1, '─', core.ColorDarkGray)
	for y := v.ceiling + 1 + v.dy; y < v.floor+v.dy; y++ {
		dst.SetColored(l, y, WallChar, core.ColorDarkGray)
		dst.SetColored(r, y, WallChar, core.ColorDarkGray)
	}
}

func (g *Game) drawDoor(dst *core.Screen, v view, x float64, label string, c core.Color) {
	drawArt(dst, doorArt, v.col(x), v.row(0), c)
	top := v.row(0) - len(doorArt)
	dst.DrawTextColored(v.col(x)-len(label)/2, top, label, c)
}

func (g *Game) drawInstances(dst *core.Screen, v view) {
	for _, s := range g.slots {
		inst := s.Instance()
		if inst == nil || !inst.Visible {
			continue
		}
		art, c := g.room.Prefab(inst.Prefab)
		if inst.Tinted {
			c = inst.Tint
		}
		scale := s.Scale().Mul(inst.Local.Scale)
		art = transformArt(art, scale, inst.Local.Mirrored())

		pos := s.VisualPosition()
		drawArt(dst, art, v.col(pos.X), v.row(pos.Y), c)
	}
}

func (g *Game) drawGhosts(dst *core.Screen, v view) {
	for _, p := range g.world.Ghosts() {
		dst.SetColored(v.col(p.Position.X), v.row(p.Position.Y), GhostChar, core.ColorDarkGray)
	}
}

func (g *Game) drawPlayer(dst *core.Screen, v view) {
	p := g.world.Player()
	glyph := PlayerChar
	scale := p.Scale()
	if scale.X < 0.75 {
		glyph = PlayerSmallChar
		scale = core.V(1, 1)
	}
	art := transformArt([]string{string(glyph)}, scale, false)
	pos := p.Position()
	drawArt(dst, art, v.col(pos.X), v.row(pos.Y), core.ColorBrightWhite)
}

// drawArt draws art centered on col with its last line on row.
func drawArt(dst *core.Screen, art []string, col, row int, c core.Color) {
	for i, line := range art {
		y := row - (len(art) - 1 - i)
		runes := []rune(line)
		x0 := col - len(runes)/2
		for j, r := range runes {
			if r == ' ' {
				continue
			}
			dst.SetColored(x0+j, y, r, c)
		}
	}
}

// transformArt resamples art to a scale and turns it upside down when
// rotated.
func transformArt(art []string, scale core.Vec2, rotated bool) []string {
	sx, sy := math.Abs(scale.X), math.Abs(scale.Y)
	if sx == 0 || sy == 0 {
		return nil
	}

	rows := max(1, int(math.Round(float64(len(art))*sy)))
	out := make([]string, 0, rows)
	for j := 0; j < rows; j++ {
		src := []rune(art[min(len(art)-1, int(float64(j)/sy))])
		cols := max(1, int(math.Round(float64(len(src))*sx)))
		var sb strings.Builder
		for i := 0; i < cols; i++ {
			sb.WriteRune(src[min(len(src)-1, int(float64(i)/sx))])
		}
		out = append(out, sb.String())
	}

	if rotated {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		for i, line := range out {
			out[i] = reverse(line)
		}
	}
	return out
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// applyPostFX approximates post-processing on the play area.
func (g *Game) applyPostFX(dst *core.Screen) {
	w, h := dst.Width(), dst.Height()
	top, bottom := hudRows, h-1

	if g.world.Chromatic() >= 0.5 {
		for y := top; y < bottom; y++ {
			for x := 1; x < w-1; x++ {
				cell := dst.GetCell(x, y)
				if cell.Rune == ' ' || cell.Rune == '·' {
					continue
				}
				if dst.GetCell(x-1, y).Rune == ' ' {
					dst.SetColored(x-1, y, '·', core.ColorRed)
				}
				if dst.GetCell(x+1, y).Rune == ' ' {
					dst.SetColored(x+1, y, '·', core.ColorCyan)
				}
				x++
			}
		}
	}

	if g.world.Saturation() <= -50 {
		recolorRows(dst, top, bottom, core.Color.Grayscale)
	}

	if n := int(g.world.Vignette() * float64(w) * vignetteCol); n > 0 {
		for y := top; y < bottom; y++ {
			for x := 0; x < w; x++ {
				if x < n || x >= w-n {
					cell := dst.GetCell(x, y)
					dst.SetColored(x, y, cell.Rune, core.ColorDarkGray)
				}
			}
		}
	}

	alpha := max(g.world.BlinkAlpha(), g.world.FadeAlpha())
	switch {
	case alpha >= 0.66:
		dst.DrawRect(core.NewRect(0, top, w, bottom-top), ' ', core.ColorDefault)
	case alpha >= 0.33:
		recolorRows(dst, top, bottom, func(core.Color) core.Color { return core.ColorDarkGray })
	}
}

func recolorRows(dst *core.Screen, top, bottom int, fn func(core.Color) core.Color) {
	for y := top; y < bottom; y++ {
		for x := 0; x < dst.Width(); x++ {
			cell := dst.GetCell(x, y)
			dst.SetColored(x, y, cell.Rune, fn(cell.Color))
		}
	}
}

func (g *Game) drawHUD(dst *core.Screen, hallway bool) {
	m := g.machine
	rules := g.room.Rules
	left := fmt.Sprintf(" %s  Round %d/%d  Fixes %d", g.room.Name, m.CurrentRound()+1, rules.MaxRounds, m.Fixes())
	dst.DrawTextColored(0, 0, left, core.ColorBrightWhite)

	right := fmt.Sprintf("Best %d  Strikes %d/%d ", g.best, m.Strikes(), rules.MaxStrikes)
	dst.DrawTextColored(dst.Width()-len(right), 0, right, core.ColorGray)

	switch {
	case g.message != "":
		dst.DrawTextColored(1, 1, g.message, core.ColorBrightYellow)
	case hallway:
		dst.DrawTextColored(1, 1, "Hallway. Use the door to go back in.", core.ColorGray)
	case m.State() == round.InRoom && m.Transitioning():
		dst.DrawTextColored(1, 1, "...", core.ColorGray)
	}

	help := "←/→ move  space jump  e interact  p pause  q quit"
	dst.DrawTextColored(1, dst.Height()-1, help, core.ColorDarkGray)
}

// drawCenteredMessage draws a boxed two-line message in the middle.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	width := max(len([]rune(title)), len([]rune(subtitle))) + 4
	x := (dst.Width() - width) / 2
	y := dst.Height()/2 - 2
	dst.DrawRect(core.NewRect(x, y, width, 4), ' ', core.ColorDefault)
	dst.DrawBox(core.NewRect(x, y, width, 4), core.ColorWhite)
	dst.DrawTextCentered(y+1, title, core.ColorBrightWhite)
	dst.DrawTextCentered(y+2, subtitle, core.ColorGray)
}

// Slots returns the slots in config order.
func (g *Game) Slots() []*anomaly.Slot {
	return g.slots
}
