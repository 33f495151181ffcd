// ABOUTME: Tests for the actor loop and client handle
// ABOUTME: Covers command dispatch, queries, win handling, failure modes
package app

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sandigames/dominacao/internal/game"
)

type fakePlayer struct {
	mu    sync.Mutex
	plays [][]byte
	stops int
}

func (f *fakePlayer) Play(payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays = append(f.plays, payload)
}

func (f *fakePlayer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakePlayer) lastPlay() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.plays) == 0 {
		return nil
	}
	return f.plays[len(f.plays)-1]
}

var (
	redCue  = []byte("red-cue")
	blueCue = []byte("blue-cue")
)

func newTestApp(t *testing.T, threshold time.Duration) (*App, Client, *fakePlayer) {
	t.Helper()
	player := &fakePlayer{}
	a := New(game.NewMatchClock(threshold), player, Cues{Red: redCue, Blue: blueCue})
	a.Start(nil)
	t.Cleanup(a.Close)
	return a, a.Client(), player
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal(msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStartGameActivatesMatch(t *testing.T) {
	_, client, _ := newTestApp(t, time.Hour)

	if err := client.StartGame(); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	active, err := client.IsActive()
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if !active {
		t.Error("expected match active after StartGame")
	}
}

func TestStartGameIsNoOpWhileActive(t *testing.T) {
	_, client, _ := newTestApp(t, time.Hour)

	client.StartGame()
	client.TeamPress(game.Red)
	time.Sleep(60 * time.Millisecond)

	// A second start mid-match must not wipe progress.
	if err := client.StartGame(); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	scores, err := client.Scores()
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	if scores.Red == 0 {
		t.Error("restart mid-match reset the scores")
	}
}

func TestTeamPressTakesOwnershipAndPlaysCue(t *testing.T) {
	_, client, player := newTestApp(t, time.Hour)

	client.StartGame()
	if err := client.TeamPress(game.Red); err != nil {
		t.Fatalf("TeamPress: %v", err)
	}

	owner, err := client.CurrentOwner()
	if err != nil {
		t.Fatalf("CurrentOwner: %v", err)
	}
	if owner == nil || *owner != game.Red {
		t.Errorf("expected Red owner, got %v", owner)
	}
	if !bytes.Equal(player.lastPlay(), redCue) {
		t.Errorf("expected red cue played, got %q", player.lastPlay())
	}
}

func TestPressOutsideMatchPlaysCueOnly(t *testing.T) {
	_, client, player := newTestApp(t, time.Hour)

	client.TeamPress(game.Blue)

	owner, _ := client.CurrentOwner()
	if owner != nil {
		t.Errorf("press on idle clock must not set an owner, got %v", *owner)
	}
	if !bytes.Equal(player.lastPlay(), blueCue) {
		t.Error("cue should play even outside a match")
	}
}

func TestScoresAccumulateForOwner(t *testing.T) {
	_, client, _ := newTestApp(t, time.Hour)

	client.StartGame()
	client.TeamPress(game.Blue)

	waitFor(t, func() bool {
		s, err := client.Scores()
		return err == nil && s.Blue > 0
	}, "blue time never accumulated")

	s, _ := client.Scores()
	if s.Red != 0 {
		t.Errorf("red accumulated %v without owning the point", s.Red)
	}
}

func TestWinEndsMatchAndPlaysWinnerCue(t *testing.T) {
	_, client, player := newTestApp(t, 50*time.Millisecond)

	client.StartGame()
	client.TeamPress(game.Red)

	waitFor(t, func() bool {
		snap, err := client.Snapshot()
		return err == nil && snap.Winner != nil
	}, "no winner detected")

	snap, _ := client.Snapshot()
	// Red time crossing the threshold declares Blue, per the preserved
	// original mapping.
	if *snap.Winner != game.Blue {
		t.Errorf("expected Blue declared winner, got %v", *snap.Winner)
	}
	if snap.Active {
		t.Error("match should stop itself once won")
	}
	if !bytes.Equal(player.lastPlay(), blueCue) {
		t.Error("winner cue should play on victory")
	}

	// Win report persists after the stop.
	time.Sleep(50 * time.Millisecond)
	snap, _ = client.Snapshot()
	if snap.Winner == nil {
		t.Error("winner un-reported after match end")
	}
}

func TestStopGameStopsClockAndAudio(t *testing.T) {
	_, client, player := newTestApp(t, time.Hour)

	client.StartGame()
	client.TeamPress(game.Red)
	if err := client.StopGame(); err != nil {
		t.Fatalf("StopGame: %v", err)
	}

	active, _ := client.IsActive()
	if active {
		t.Error("expected inactive after StopGame")
	}
	player.mu.Lock()
	stops := player.stops
	player.mu.Unlock()
	if stops != 1 {
		t.Errorf("expected one audio stop, got %d", stops)
	}
}

func TestCommandThenQueryOrdering(t *testing.T) {
	_, client, _ := newTestApp(t, time.Hour)

	client.StartGame()
	// A query submitted after a command from the same goroutine must
	// observe its effects.
	for i := 0; i < 20; i++ {
		team := game.Red
		if i%2 == 1 {
			team = game.Blue
		}
		if err := client.TeamPress(team); err != nil {
			t.Fatalf("TeamPress: %v", err)
		}
		owner, err := client.CurrentOwner()
		if err != nil {
			t.Fatalf("CurrentOwner: %v", err)
		}
		if owner == nil || *owner != team {
			t.Fatalf("iteration %d: query ran before preceding command", i)
		}
	}
}

func TestNoWaitPressEventuallyApplies(t *testing.T) {
	_, client, _ := newTestApp(t, time.Hour)

	client.StartGame()
	if err := client.TeamPressNoWait(game.Red); err != nil {
		t.Fatalf("TeamPressNoWait: %v", err)
	}

	waitFor(t, func() bool {
		owner, err := client.CurrentOwner()
		return err == nil && owner != nil && *owner == game.Red
	}, "no-wait press never applied")
}

func TestClosedActorSurfacesError(t *testing.T) {
	player := &fakePlayer{}
	a := New(game.NewMatchClock(time.Hour), player, Cues{Red: redCue, Blue: blueCue})
	a.Start(nil)
	client := a.Client()
	a.Close()

	if err := client.StartGame(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := client.TeamPressNoWait(game.Red); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from no-wait, got %v", err)
	}
	if _, err := client.Scores(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from query, got %v", err)
	}
}

func TestRoutineRunsEveryIteration(t *testing.T) {
	player := &fakePlayer{}
	a := New(game.NewMatchClock(time.Hour), player, Cues{Red: redCue, Blue: blueCue})

	var mu sync.Mutex
	calls := 0
	a.Start(func(c Client) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	t.Cleanup(a.Close)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 3
	}, "routine not invoked repeatedly")
}
