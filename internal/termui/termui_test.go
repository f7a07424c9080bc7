// internal/termui/termui_test.go
package termui

import (
	"context"
	"io"
	"testing"

	"github.com/jason-s-yu/sanctum/internal/board"
	"github.com/jason-s-yu/sanctum/internal/client"
	"github.com/jason-s-yu/sanctum/internal/models"
	"github.com/jason-s-yu/sanctum/internal/protocol"
	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell struct {
	ch     rune
	fg, bg termbox.Attribute
}

// grid is an in-memory Canvas.
type grid struct {
	w, h  int
	cells map[[2]int]cell
}

func newGrid(w, h int) *grid { return &grid{w: w, h: h, cells: map[[2]int]cell{}} }

func (g *grid) SetCell(x, y int, ch rune, fg, bg termbox.Attribute) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[[2]int{x, y}] = cell{ch, fg, bg}
}

func (g *grid) Size() (int, int) { return g.w, g.h }

type idleConn struct{}

func (idleConn) Send(context.Context, protocol.Action) error { return nil }
func (idleConn) Poll() (protocol.Response, bool)             { return protocol.Response{}, false }

func TestProjectorRoundTrip(t *testing.T) {
	p := Projector{Width: 120, Height: 40, Top: 1}
	for _, c := range [][2]int{{0, 1}, {60, 20}, {119, 40}} {
		x, y := p.ToScreen(p.ToWorld(c[0], c[1]))
		assert.Equal(t, c[0], x)
		assert.Equal(t, c[1], y)
	}
	centre := p.ToWorld(60, 21)
	assert.InDelta(t, 0, centre.X, 0.1)
	assert.InDelta(t, 0, centre.Z, 0.1)
}

func TestPointerEdges(t *testing.T) {
	ptr := Pointer{Projector: Projector{Width: 80, Height: 24}}

	ptr.Feed(termbox.Event{Type: termbox.EventMouse, Key: termbox.MouseLeft, MouseX: 10, MouseY: 5})
	in := ptr.Frame()
	assert.True(t, in.Pressed)
	assert.True(t, in.Down)

	ptr.Feed(termbox.Event{Type: termbox.EventMouse, Key: termbox.MouseLeft, MouseX: 12, MouseY: 5})
	in = ptr.Frame()
	assert.False(t, in.Pressed)
	assert.True(t, in.Down)
	assert.Equal(t, ptr.Projector.ToWorld(12, 5), in.Pointer)

	ptr.Feed(termbox.Event{Type: termbox.EventMouse, Key: termbox.MouseRelease, MouseX: 12, MouseY: 6})
	in = ptr.Frame()
	assert.True(t, in.Released)

	in = ptr.Frame()
	assert.False(t, in.Released)
	assert.False(t, in.Down)

	ptr.Feed(termbox.Event{Type: termbox.EventKey, Ch: 'e'})
	assert.Equal(t, board.Input{Pointer: ptr.Projector.ToWorld(12, 6)}, ptr.Frame())
}

func TestFitTitle(t *testing.T) {
	assert.Equal(t, "Reliquary", FitTitle("Reliquary", 20))
	short := FitTitle("Glyph of Repellance", 8)
	assert.LessOrEqual(t, runewidth.StringWidth(short), 8)
	assert.Equal(t, "", FitTitle("anything", 0))
}

func TestRendererDrawsFaceDownBack(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	a, err := client.NewApp(idleConn{}, "alice", models.Sanctum, 0, logger)
	require.NoError(t, err)
	theirHand, ok := a.Board.FindZone(board.ZoneHand, false)
	require.True(t, ok)
	c, err := a.Board.AddCard(models.Hidden(3), theirHand)
	require.NoError(t, err)

	g := newGrid(120, 42)
	r := &Renderer{Canvas: g, Art: NewArtTable(models.Catalog{})}
	r.Draw(a)

	x, y := r.Projector().ToScreen(c.Position)
	got, ok := g.cells[[2]int{x, y}]
	require.True(t, ok)
	assert.Equal(t, termbox.ColorRed, got.bg)
}

func TestRendererPaintsFocusedCardOnTop(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	a, err := client.NewApp(idleConn{}, "alice", models.Sanctum, 0, logger)
	require.NoError(t, err)
	hand, ok := a.Board.FindZone(board.ZoneHand, true)
	require.True(t, ok)
	back, err := a.Board.AddCard(models.Hidden(1), hand)
	require.NoError(t, err)
	front, err := a.Board.AddCard(models.Revealed(2, "thief-001"), hand)
	require.NoError(t, err)

	a.Board.Update(board.Input{Pointer: front.Position})
	focus, ok := a.Board.Focus()
	require.True(t, ok)
	require.Equal(t, front.InstanceID(), focus.Instance)

	g := newGrid(120, 42)
	r := &Renderer{Canvas: g, Art: NewArtTable(models.Catalog{
		"thief-001": {ID: "thief-001", Title: "Fence", Faction: models.Thief, Data: models.CardType{Kind: models.KindAlly}},
	})}
	r.Draw(a)

	// The enlarged card covers its neighbour's centre.
	x, y := r.Projector().ToScreen(back.Position)
	got, ok := g.cells[[2]int{x, y}]
	require.True(t, ok)
	assert.Equal(t, termbox.ColorGreen, got.bg)
}

func TestArtTableUsesCatalogTitles(t *testing.T) {
	arts := NewArtTable(models.Catalog{
		"thief-001": {ID: "thief-001", Title: "Fence", Faction: models.Thief, Data: models.CardType{Kind: models.KindAlly}},
	})
	assert.Equal(t, "Fence", arts.Lookup("thief-001").Title)
	assert.Equal(t, termbox.ColorGreen, arts.Lookup("thief-001").Bg)
	assert.Equal(t, "missing", arts.Lookup("missing").Title)
}
