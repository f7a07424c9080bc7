// internal/termui/projector.go
package termui

import (
	"math"

	"github.com/jason-s-yu/sanctum/internal/board"
)

// Table extents in world units. The camera looks straight down, local side at the bottom.
const (
	WorldHalfWidth float32 = 6
	WorldHalfDepth float32 = 3.4
)

// Projector converts between terminal cells and table coordinates.
type Projector struct {
	Width, Height int
	Top           int // rows above the table
}

func (p Projector) cellW() float32 { return 2 * WorldHalfWidth / float32(max(p.Width, 1)) }
func (p Projector) cellH() float32 { return 2 * WorldHalfDepth / float32(max(p.Height, 1)) }

// ToWorld returns the table point at the centre of a cell.
func (p Projector) ToWorld(x, y int) board.Vec3 {
	return board.Vec3{
		X: -WorldHalfWidth + (float32(x)+0.5)*p.cellW(),
		Z: -WorldHalfDepth + (float32(y-p.Top)+0.5)*p.cellH(),
	}
}

// ToScreen returns the cell containing a table point.
func (p Projector) ToScreen(v board.Vec3) (int, int) {
	x := int(math.Floor(float64((v.X + WorldHalfWidth) / p.cellW())))
	y := int(math.Floor(float64((v.Z + WorldHalfDepth) / p.cellH())))
	return x, y + p.Top
}

// Rect returns the cell rectangle [x0,x1)x[y0,y1) covering a centred box.
func (p Projector) Rect(center board.Vec3, half board.Vec2) (x0, y0, x1, y1 int) {
	x0, y0 = p.ToScreen(board.Vec3{X: center.X - half.X, Z: center.Z - half.Y})
	x1, y1 = p.ToScreen(board.Vec3{X: center.X + half.X, Z: center.Z + half.Y})
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}
