// ABOUTME: Debounced team button handling at the GPIO boundary
// ABOUTME: Latches press edges from a level source, feeds the actor
package buttons

import (
	"sync/atomic"
	"time"

	"github.com/sandigames/dominacao/internal/app"
	"github.com/sandigames/dominacao/internal/game"
)

// DefaultDebounce matches the hardware build's 50ms window.
const DefaultDebounce = 50 * time.Millisecond

// Source reports the instantaneous level of a physical input: true
// while the button is held down. The real GPIO driver lives outside
// this package; tests and simulators provide their own.
type Source interface {
	Pressed() bool
}

// SourceFunc adapts a plain function to a Source.
type SourceFunc func() bool

// Pressed calls f.
func (f SourceFunc) Pressed() bool {
	return f()
}

// Button turns a raw level source into debounced press events. Poll
// must be called from a single goroutine (the actor routine); the
// latched flag is atomic so a press can also be injected from an
// interrupt-style callback via Trigger.
type Button struct {
	source    Source
	debounce  time.Duration
	pressed   atomic.Bool
	lastLevel bool
	lastPress time.Time

	now func() time.Time
}

// New creates a button over source with the given debounce window.
func New(source Source, debounce time.Duration) *Button {
	return &Button{
		source:   source,
		debounce: debounce,
		now:      time.Now,
	}
}

// Poll samples the source and latches a press on a rising edge outside
// the debounce window. An edge inside the window extends the window
// instead of registering, so contact chatter cannot double-fire.
func (b *Button) Poll() {
	level := b.source.Pressed()
	edge := level && !b.lastLevel
	b.lastLevel = level

	if !edge {
		return
	}

	now := b.now()
	if now.Sub(b.lastPress) >= b.debounce {
		b.pressed.Store(true)
	}
	b.lastPress = now
}

// Trigger latches a press directly, bypassing the level source. For
// edge-interrupt wiring that already debounces in hardware.
func (b *Button) Trigger() {
	b.pressed.Store(true)
}

// IsPressed reports and clears the latched press.
func (b *Button) IsPressed() bool {
	return b.pressed.Swap(false)
}

// Routine builds the actor's periodic routine: each loop iteration both
// buttons are polled and latched presses become no-wait team presses,
// so the owner loop is never blocked on its own queue.
func Routine(red, blue *Button) func(app.Client) {
	return func(client app.Client) {
		red.Poll()
		blue.Poll()

		if red.IsPressed() {
			client.TeamPressNoWait(game.Red)
		}
		if blue.IsPressed() {
			client.TeamPressNoWait(game.Blue)
		}
	}
}
