// ABOUTME: Cloneable client handle for the match actor
// ABOUTME: Submits commands and queries with a bounded reply wait
package app

import (
	"errors"
	"time"

	"github.com/sandigames/dominacao/internal/game"
)

// replyTimeout bounds how long a submitter waits for the actor. Far
// beyond any healthy loop iteration; hitting it means the owner is
// stuck or gone.
const replyTimeout = 5 * time.Second

var (
	// ErrClosed means the actor is gone and the request was not, and
	// will never be, executed.
	ErrClosed = errors.New("app: actor closed")

	// ErrTimeout means no reply arrived in time. The request may still
	// execute later, may have executed already, or may be lost; callers
	// must not assume either way. Nothing is rolled back.
	ErrTimeout = errors.New("app: no reply from actor")

	// ErrBusy means a no-wait submission found the queue full and the
	// request was dropped.
	ErrBusy = errors.New("app: event queue full")
)

type opKind int

const (
	opStartGame opKind = iota
	opStopGame
	opTeamPress
	opSnapshot
)

// request is a tagged operation for the actor loop. Mutating ops carry
// their arguments inline; reads reply through the snapshot slot.
type request struct {
	op    opKind
	team  game.Team
	reply chan response
}

type response struct {
	err  error
	snap Snapshot
}

// Snapshot is a consistent read of the whole match state, taken in a
// single actor iteration.
type Snapshot struct {
	Scores game.Scores
	Owner  *game.Team
	Active bool
	Winner *game.Team
}

// Client submits requests to the actor from any goroutine. The zero
// value is not usable; obtain one from App.Client. Copies share the
// same queue and are interchangeable.
type Client struct {
	events chan<- request
	done   <-chan struct{}
}

// submit enqueues req and waits for the actor's reply.
func (c Client) submit(req request) (response, error) {
	req.reply = make(chan response, 1)

	select {
	case c.events <- req:
	case <-c.done:
		return response{}, ErrClosed
	}

	select {
	case resp := <-req.reply:
		return resp, resp.err
	case <-time.After(replyTimeout):
		return response{}, ErrTimeout
	case <-c.done:
		return response{}, ErrClosed
	}
}

// submitNoWait enqueues req without waiting for execution.
func (c Client) submitNoWait(req request) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.events <- req:
		return nil
	default:
		return ErrBusy
	}
}

// StartGame starts a fresh match. No-op while a match is already
// running.
func (c Client) StartGame() error {
	_, err := c.submit(request{op: opStartGame})
	return err
}

// StopGame stops the current match and cuts any playing audio.
func (c Client) StopGame() error {
	_, err := c.submit(request{op: opStopGame})
	return err
}

// TeamPress registers a button press: the team takes the point and its
// capture cue plays. The cue plays even outside a match, which doubles
// as a wiring check for the buttons.
func (c Client) TeamPress(team game.Team) error {
	_, err := c.submit(request{op: opTeamPress, team: team})
	return err
}

// TeamPressNoWait is TeamPress without the reply wait, for callers that
// must never block on the actor (the button pollers).
func (c Client) TeamPressNoWait(team game.Team) error {
	return c.submitNoWait(request{op: opTeamPress, team: team})
}

// Snapshot returns the full match state as of one actor iteration.
func (c Client) Snapshot() (Snapshot, error) {
	resp, err := c.submit(request{op: opSnapshot})
	return resp.snap, err
}

// Scores returns the accumulated ownership durations.
func (c Client) Scores() (game.Scores, error) {
	snap, err := c.Snapshot()
	return snap.Scores, err
}

// CurrentOwner returns the team holding the point, or nil.
func (c Client) CurrentOwner() (*game.Team, error) {
	snap, err := c.Snapshot()
	return snap.Owner, err
}

// IsActive reports whether a match is running.
func (c Client) IsActive() (bool, error) {
	snap, err := c.Snapshot()
	return snap.Active, err
}

// Winner returns the winning team, or nil while nobody has won.
func (c Client) Winner() (*game.Team, error) {
	snap, err := c.Snapshot()
	return snap.Winner, err
}
