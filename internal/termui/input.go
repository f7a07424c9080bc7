// internal/termui/input.go
package termui

import (
	"github.com/jason-s-yu/sanctum/internal/board"
	"github.com/nsf/termbox-go"
)

// Pointer folds termbox mouse events into one board.Input per frame.
type Pointer struct {
	Projector Projector

	pos      board.Vec3
	down     bool
	pressed  bool
	released bool
}

// Feed records one event. Non-mouse events are ignored.
func (p *Pointer) Feed(ev termbox.Event) {
	if ev.Type != termbox.EventMouse {
		return
	}
	p.pos = p.Projector.ToWorld(ev.MouseX, ev.MouseY)
	switch ev.Key {
	case termbox.MouseLeft:
		if !p.down {
			p.pressed = true
			p.down = true
		}
	case termbox.MouseRelease:
		if p.down {
			p.released = true
			p.down = false
		}
	}
}

// Frame returns the input for this frame and resets the edge flags.
func (p *Pointer) Frame() board.Input {
	in := board.Input{
		Pointer:  p.pos,
		Pressed:  p.pressed,
		Down:     p.down || p.released,
		Released: p.released,
	}
	p.pressed, p.released = false, false
	return in
}
