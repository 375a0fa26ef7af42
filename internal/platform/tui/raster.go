package tui

import (
	"math"

	"github.com/vovakirdan/tui-canvas/internal/core"
	"github.com/vovakirdan/tui-canvas/internal/registry"
	"github.com/vovakirdan/tui-canvas/internal/sprite"
)

// CellMapper converts between terminal cells and surface pixels.
type CellMapper struct {
	CellWidth  float64
	CellHeight float64
}

// ToPixels returns the surface point at the center of cell (col, row).
func (m CellMapper) ToPixels(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * m.CellWidth, (float64(row) + 0.5) * m.CellHeight
}

// SurfaceSize returns the pixel size of a cols x rows cell area.
func (m CellMapper) SurfaceSize(cols, rows int) (w, h float64) {
	return float64(cols) * m.CellWidth, float64(rows) * m.CellHeight
}

// cellRange returns the cells whose centers may fall inside b.
func (m CellMapper) cellRange(b core.Box) (c0, r0, c1, r1 int) {
	c0 = int(math.Floor(b.Left/m.CellWidth - 0.5))
	r0 = int(math.Floor(b.Top/m.CellHeight - 0.5))
	c1 = int(math.Ceil(b.Right/m.CellWidth - 0.5))
	r1 = int(math.Ceil(b.Bottom/m.CellHeight - 0.5))
	return c0, r0, c1, r1
}

// Rasterize draws the visible sprites onto screen, lowest z first so higher
// sprites cover lower ones. A cell is filled when its center lies on the
// sprite's outline. Sprites smaller than a cell still get the cell under
// their center.
func Rasterize(screen *core.Screen, sprites []*sprite.Sprite, scene registry.Scene, m CellMapper) {
	for _, sp := range sprites {
		if !sp.Visible() {
			continue
		}
		look := scene.Look(sp)
		bb := sp.BoundingBox(0)

		c0, r0, c1, r1 := m.cellRange(bb)
		c0, r0 = max(c0, 0), max(r0, 0)
		c1, r1 = min(c1, screen.Width()-1), min(r1, screen.Height()-1)

		drawn := false
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				x, y := m.ToPixels(col, row)
				if sp.ContainsPoint(x, y) {
					screen.SetCell(col, row, look.Glyph, look.Color)
					drawn = true
				}
			}
		}

		if !drawn {
			c := bb.Center()
			screen.SetCell(int(c.X/m.CellWidth), int(c.Y/m.CellHeight), look.Glyph, look.Color)
		}
	}
}
