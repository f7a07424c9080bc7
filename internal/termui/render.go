// internal/termui/render.go
package termui

import (
	"fmt"

	"github.com/jason-s-yu/sanctum/internal/board"
	"github.com/jason-s-yu/sanctum/internal/client"
	"github.com/jason-s-yu/sanctum/internal/models"
	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
)

// Canvas is the drawing surface; termbox in production, a grid in tests.
type Canvas interface {
	SetCell(x, y int, ch rune, fg, bg termbox.Attribute)
	Size() (int, int)
}

// Screen draws to the terminal.
type Screen struct{}

func (Screen) SetCell(x, y int, ch rune, fg, bg termbox.Attribute) {
	termbox.SetCell(x, y, ch, fg, bg)
}

func (Screen) Size() (int, int) { return termbox.Size() }

// Art is how a card face is drawn.
type Art struct {
	Fg, Bg termbox.Attribute
	Title  string
	Detail string
}

// ArtTable is owned by the renderer and looked up by CardView.ArtKey.
type ArtTable map[string]Art

// NewArtTable builds faces for every catalog entry plus the face-down back.
func NewArtTable(cat models.Catalog) ArtTable {
	arts := ArtTable{
		board.FaceDownArt: {Fg: termbox.ColorWhite, Bg: termbox.ColorRed},
	}
	for id, data := range cat {
		bg := termbox.ColorBlue
		if data.Faction == models.Thief {
			bg = termbox.ColorGreen
		}
		arts[string(id)] = Art{
			Fg:     termbox.ColorWhite | termbox.AttrBold,
			Bg:     bg,
			Title:  data.Title,
			Detail: detail(data.Data),
		}
	}
	return arts
}

func detail(t models.CardType) string {
	switch t.Kind {
	case models.KindAncientArtifact:
		return fmt.Sprintf("VP %d / att %d", t.VP, t.Attunement)
	case models.KindWard, models.KindCounterSpell:
		return fmt.Sprintf("%s c%d s%d", t.Subtype, t.Cost, t.Strength)
	case models.KindAsset, models.KindOperation, models.KindEvent:
		return fmt.Sprintf("cost %d", t.Cost)
	}
	return string(t.Kind)
}

// Lookup falls back to a plain face for unknown keys.
func (a ArtTable) Lookup(key string) Art {
	if art, ok := a[key]; ok {
		return art
	}
	return Art{Fg: termbox.ColorBlack, Bg: termbox.ColorWhite, Title: key}
}

// FitTitle truncates s to at most width terminal columns.
func FitTitle(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Renderer draws one App onto a Canvas.
type Renderer struct {
	Canvas Canvas
	Art    ArtTable
}

// Projector returns the projection for the current canvas size, leaving one
// status line at the top and bottom.
func (r *Renderer) Projector() Projector {
	w, h := r.Canvas.Size()
	return Projector{Width: w, Height: max(h-2, 1), Top: 1}
}

// Draw renders the table, cards and status lines.
func (r *Renderer) Draw(a *client.App) {
	if r.Art == nil && a.Catalog != nil {
		r.Art = NewArtTable(a.Catalog)
	}
	w, h := r.Canvas.Size()
	proj := r.Projector()

	for _, t := range a.Board.Targets() {
		r.drawTarget(proj, t)
	}
	// Cards come topmost first; paint bottom up, the focused card last.
	cards := a.Board.Cards()
	focus, focused := a.Board.Focus()
	var top *board.CardView
	for i := len(cards) - 1; i >= 0; i-- {
		if focused && cards[i].InstanceID() == focus.Instance {
			top = cards[i]
			continue
		}
		r.drawCard(proj, cards[i])
	}
	if top != nil {
		r.drawCard(proj, top)
	}

	other := a.Faction.Other()
	header := fmt.Sprintf(" %s", other)
	if a.Opponent != nil {
		header = fmt.Sprintf(" %s: %s (connected=%t)", other, a.Opponent.Name, a.Opponent.Connected)
	}
	r.text(0, 0, w, header, turnColor(a, other), termbox.ColorDefault)

	bottom := fmt.Sprintf(" %s: %s", a.Faction, a.Name)
	if !a.Ready() {
		bottom += "  waiting for server..."
	} else if a.MyTurn() {
		bottom += "  your turn [e] end turn"
	}
	if a.LastRejection != nil {
		bottom += fmt.Sprintf("  rejected: %s", a.LastRejection.Message)
	}
	r.text(0, h-1, w, bottom, turnColor(a, a.Faction), termbox.ColorDefault)
}

func turnColor(a *client.App, f models.Faction) termbox.Attribute {
	if a.Ready() && a.Turn == f {
		return termbox.ColorYellow | termbox.AttrBold
	}
	return termbox.ColorWhite
}

func (r *Renderer) drawTarget(p Projector, t board.DropTarget) {
	x0, y0, x1, y1 := p.Rect(t.Anchor, t.Size)
	fg := termbox.ColorBlack | termbox.AttrBold
	if t.CanAcceptDrop {
		fg = termbox.ColorGreen
	}
	for x := x0; x < x1; x++ {
		r.set(x, y0, '─', fg, termbox.ColorDefault)
		r.set(x, y1-1, '─', fg, termbox.ColorDefault)
	}
	for y := y0; y < y1; y++ {
		r.set(x0, y, '│', fg, termbox.ColorDefault)
		r.set(x1-1, y, '│', fg, termbox.ColorDefault)
	}
	r.text(x0+1, y0, x1-x0-2, t.Zone.String(), fg, termbox.ColorDefault)
}

func (r *Renderer) drawCard(p Projector, c *board.CardView) {
	half := board.Vec2{X: c.Size.X * c.Scale, Y: c.Size.Y * c.Scale}
	x0, y0, x1, y1 := p.Rect(c.Position, half)
	art := r.Art.Lookup(c.ArtKey())
	bg := art.Bg
	if c.Grabbed {
		bg = termbox.ColorYellow
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r.set(x, y, ' ', art.Fg, bg)
		}
	}
	r.text(x0, y0, x1-x0, art.Title, art.Fg, bg)
	if c.Scale > 1 && y1-y0 > 1 {
		r.text(x0, y0+1, x1-x0, art.Detail, art.Fg, bg)
	}
}

// text writes s starting at (x, y), clipped to width columns.
func (r *Renderer) text(x, y, width int, s string, fg, bg termbox.Attribute) {
	for _, ch := range FitTitle(s, width) {
		r.Canvas.SetCell(x, y, ch, fg, bg)
		x += runewidth.RuneWidth(ch)
	}
}

func (r *Renderer) set(x, y int, ch rune, fg, bg termbox.Attribute) {
	r.Canvas.SetCell(x, y, ch, fg, bg)
}
