// ABOUTME: Match clock state machine for capture-the-point scoring
// ABOUTME: Tracks per-team ownership time with monotonic accounting
package game

import (
	"log"
	"time"
)

// DefaultWinThreshold is the ownership time a team must accumulate to win.
const DefaultWinThreshold = 10 * time.Second

// Scores is a read-only snapshot of accumulated ownership time.
type Scores struct {
	Red  time.Duration
	Blue time.Duration
}

// MatchClock accumulates ownership time for whichever team last pressed
// its button. It is a plain state machine with no internal locking: the
// actor loop is its only owner and all access is serialized there.
type MatchClock struct {
	active       bool
	owner        *Team
	lastTick     *time.Time
	redTime      time.Duration
	blueTime     time.Duration
	winThreshold time.Duration

	// now is the clock source, replaceable in tests. time.Time values
	// from time.Now carry a monotonic reading, so wall clock jumps do
	// not affect the deltas.
	now func() time.Time
}

// NewMatchClock creates an inactive clock with the given win threshold.
func NewMatchClock(winThreshold time.Duration) *MatchClock {
	return &MatchClock{
		winThreshold: winThreshold,
		now:          time.Now,
	}
}

// Active reports whether the match is accumulating time.
func (m *MatchClock) Active() bool {
	return m.active
}

// Owner returns the team currently holding the point, or nil before the
// first press (and after Stop).
func (m *MatchClock) Owner() *Team {
	return m.owner
}

// Start begins a fresh match: durations reset to zero, owner cleared,
// accounting baseline set to now. Calling Start on an already running
// match restarts it and loses all progress; callers wanting "start only
// if idle" semantics must check Active first.
func (m *MatchClock) Start() {
	now := m.now()
	m.active = true
	m.owner = nil
	m.lastTick = &now
	m.redTime = 0
	m.blueTime = 0
	log.Printf("Game started (win threshold %v)", m.winThreshold)
}

// Stop flushes pending time to the current owner and deactivates the
// clock. Safe to call repeatedly; a second Stop is a no-op.
func (m *MatchClock) Stop() {
	m.Tick()
	m.active = false
	m.owner = nil
	m.lastTick = nil
	log.Printf("Game stopped")
}

// ButtonPress hands the point to team. Elapsed time is attributed to the
// previous owner first, so the new owner starts accumulating from this
// instant. No-op while the match is inactive.
func (m *MatchClock) ButtonPress(team Team) {
	if !m.active {
		return
	}

	m.Tick()

	t := team
	m.owner = &t
	log.Printf("%s pressed the button", team)
}

// Tick attributes time elapsed since the last accounting pass to the
// current owner. Time with no owner is credited to neither side. Must be
// called periodically (the actor loop runs it every iteration); redundant
// calls are safe. No-op while inactive.
func (m *MatchClock) Tick() {
	if !m.active {
		return
	}

	now := m.now()
	if m.lastTick == nil {
		// First tick after activation: establish the baseline without
		// crediting time elapsed before Start.
		m.lastTick = &now
		return
	}

	delta := now.Sub(*m.lastTick)
	if m.owner != nil {
		switch *m.owner {
		case Red:
			m.redTime += delta
		case Blue:
			m.blueTime += delta
		}
	}
	m.lastTick = &now
}

// Winner reports the winning team, or nil while nobody has reached the
// threshold. The mapping mirrors the original hardware build: blue's
// accumulated time reaching the threshold declares Red the winner and
// vice versa. Blue's duration is compared first, so if both sides cross
// in the same evaluation Red wins the tie.
func (m *MatchClock) Winner() *Team {
	if m.blueTime >= m.winThreshold {
		t := Red
		return &t
	}
	if m.redTime >= m.winThreshold {
		t := Blue
		return &t
	}
	return nil
}

// Scores returns the current accumulated durations.
func (m *MatchClock) Scores() Scores {
	return Scores{Red: m.redTime, Blue: m.blueTime}
}
