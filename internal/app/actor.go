// ABOUTME: Single-owner actor serializing all match state mutation
// ABOUTME: Runs the tick/drain/routine loop over the clock and audio
package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sandigames/dominacao/internal/game"
)

// tickInterval is the owner loop's sleep between iterations. Short
// enough that clock accounting and button latency stay well under the
// sub-100ms cadence the clock assumes.
const tickInterval = 10 * time.Millisecond

// Player is the audio surface the actor drives. *audio.Pipeline
// satisfies it.
type Player interface {
	Play(payload []byte)
	Stop()
}

// Cues holds the pre-rendered PCM capture cues, one per team. The actor
// treats them as opaque bytes.
type Cues struct {
	Red  []byte
	Blue []byte
}

// App owns the only live MatchClock and the audio pipeline handle. All
// external access goes through Client request submission; the owner
// loop executes requests strictly in arrival order, so no locking is
// needed anywhere in the match state.
type App struct {
	clock  *game.MatchClock
	audio  Player
	cues   Cues
	events chan request

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates the actor around its exclusively owned state. The clock
// must not be touched by anyone else afterwards.
func New(clock *game.MatchClock, audio Player, cues Cues) *App {
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		clock:  clock,
		audio:  audio,
		cues:   cues,
		events: make(chan request, 64),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Client returns a handle for submitting commands and queries. Handles
// are plain values, safe to copy and to use from any goroutine.
func (a *App) Client() Client {
	return Client{events: a.events, done: a.ctx.Done()}
}

// Start launches the owner loop. routine, if non-nil, runs once per
// iteration with a client handle; the button pollers hook in here. It
// must not block for long, or it starves the clock tick.
func (a *App) Start(routine func(Client)) {
	a.wg.Add(1)
	go a.run(routine)
}

// Close stops the owner loop. Requests still queued are abandoned;
// their submitters see the queue as closed.
func (a *App) Close() {
	a.cancel()
	a.wg.Wait()
}

func (a *App) run(routine func(Client)) {
	defer a.wg.Done()

	client := a.Client()
	for {
		if a.clock.Active() {
			a.clock.Tick()
			a.checkWinner()
		}

		// Drain everything queued right now; each request runs to
		// completion before the next is taken.
	drain:
		for {
			select {
			case req := <-a.events:
				a.dispatch(req)
			default:
				break drain
			}
		}

		if routine != nil {
			routine(client)
		}

		select {
		case <-time.After(tickInterval):
		case <-a.ctx.Done():
			return
		}
	}
}

// checkWinner ends the match when a team's time crosses the threshold:
// the clock stops and the winner's cue plays once.
func (a *App) checkWinner() {
	w := a.clock.Winner()
	if w == nil {
		return
	}

	log.Printf("%s wins the match", *w)
	a.clock.Stop()
	a.audio.Play(a.cueFor(*w))
}

func (a *App) cueFor(team game.Team) []byte {
	if team == game.Red {
		return a.cues.Red
	}
	return a.cues.Blue
}

// dispatch executes one request against the owned state and fills its
// reply, if the submitter asked for one.
func (a *App) dispatch(req request) {
	var resp response

	switch req.op {
	case opStartGame:
		// Starting is only honored while no match runs; a press of the
		// start control mid-match does nothing rather than wiping a game
		// in progress.
		if !a.clock.Active() {
			a.clock.Start()
		}

	case opStopGame:
		a.clock.Stop()
		a.audio.Stop()

	case opTeamPress:
		a.clock.ButtonPress(req.team)
		a.audio.Play(a.cueFor(req.team))

	case opSnapshot:
		resp.snap = a.snapshot()
	}

	if req.reply != nil {
		// Reply channels are buffered; this never blocks the loop.
		req.reply <- resp
	}
}

func (a *App) snapshot() Snapshot {
	return Snapshot{
		Scores: a.clock.Scores(),
		Owner:  a.clock.Owner(),
		Active: a.clock.Active(),
		Winner: a.clock.Winner(),
	}
}
