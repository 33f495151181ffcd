// ABOUTME: Entry point for the dominacao game server
// ABOUTME: Parses CLI flags and wires the actor, audio, and HTTP server
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandigames/dominacao/internal/app"
	"github.com/sandigames/dominacao/internal/assets"
	"github.com/sandigames/dominacao/internal/audio"
	"github.com/sandigames/dominacao/internal/buttons"
	"github.com/sandigames/dominacao/internal/discovery"
	"github.com/sandigames/dominacao/internal/game"
	"github.com/sandigames/dominacao/internal/server"
	"github.com/sandigames/dominacao/internal/ui"
	"github.com/sandigames/dominacao/internal/version"
)

const ringCapacity = 64 * 1024

var (
	port    = flag.Int("port", 8080, "HTTP server port")
	name    = flag.String("name", "", "Instance name (default: hostname-dominacao)")
	winTime = flag.Duration("win", game.DefaultWinThreshold, "Ownership time needed to win")
	redCue  = flag.String("red-cue", "", "Red team capture cue (WAV or MP3). Empty = built-in tone")
	blueCue = flag.String("blue-cue", "", "Blue team capture cue (WAV or MP3). Empty = built-in tone")
	logFile = flag.String("log-file", "dominacao.log", "Log file path")
	noMDNS  = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	noAudio = flag.Bool("no-audio", false, "Run without an audio device")
	useTUI  = flag.Bool("tui", false, "Show the console scoreboard")
	debug   = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	// Log to both file and stdout
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()
	log.SetOutput(io.MultiWriter(os.Stdout, f))

	instanceName := *name
	if instanceName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		instanceName = fmt.Sprintf("%s-dominacao", hostname)
	}

	log.Printf("Starting %s %s: %s on port %d", version.Product, version.Version, instanceName, *port)
	if *debug {
		log.Printf("Debug logging enabled")
	}
	log.Printf("Win threshold: %v", *winTime)

	cues := loadCues()

	// Audio chain: pipeline worker -> ring -> hardware pull. The
	// consumer comes up first and is torn down last so the pipeline
	// always has a drain while it runs.
	ring := audio.NewRing(ringCapacity)

	haveDevice := false
	if !*noAudio {
		output := audio.NewOutput(ring)
		if err := output.Start(); err != nil {
			log.Printf("Audio output unavailable, continuing silent: %v", err)
		} else {
			haveDevice = true
			defer output.Close()
		}
	}
	if !haveDevice {
		null := audio.NewNullOutput(ring)
		null.Start()
		defer null.Close()
	}

	pipeline := audio.NewPipeline(ring)
	pipeline.Start()
	defer pipeline.Close()

	// The actor owns the clock and pipeline from here on.
	a := app.New(game.NewMatchClock(*winTime), pipeline, cues)
	client := a.Client()

	// Team buttons. Real GPIO edge sources attach via Trigger; on a dev
	// box stdin stands in for them (r = red, b = blue).
	neverHeld := buttons.SourceFunc(func() bool { return false })
	redBtn := buttons.New(neverHeld, buttons.DefaultDebounce)
	blueBtn := buttons.New(neverHeld, buttons.DefaultDebounce)
	if !*useTUI {
		go readKeyPresses(redBtn, blueBtn)
	}

	a.Start(buttons.Routine(redBtn, blueBtn))
	defer a.Close()

	srv := server.New(server.Config{Port: *port, Name: instanceName}, client)
	srv.Start()
	defer srv.Stop()

	if !*noMDNS {
		mdns := discovery.NewManager(discovery.Config{
			InstanceName: instanceName,
			Port:         *port,
		})
		if err := mdns.Advertise(); err != nil {
			log.Printf("mDNS advertisement failed: %v", err)
		} else {
			defer mdns.Stop()
		}
	}

	if *useTUI {
		if err := ui.Run(client, *winTime); err != nil {
			log.Printf("TUI error: %v", err)
		}
		return
	}

	log.Printf("Press Ctrl-C to stop")
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Printf("Shutting down")
}

// loadCues reads the configured cue files, synthesizing tones for any
// that are missing.
func loadCues() app.Cues {
	load := func(path string, fallbackHz float64, team string) []byte {
		if path == "" {
			log.Printf("No %s cue configured, using built-in tone", team)
			return assets.ToneCue(fallbackHz)
		}
		pcm, err := assets.LoadCue(path)
		if err != nil {
			log.Printf("Failed to load %s cue, using built-in tone: %v", team, err)
			return assets.ToneCue(fallbackHz)
		}
		return pcm
	}

	return app.Cues{
		Red:  load(*redCue, assets.RedToneHz, "red"),
		Blue: load(*blueCue, assets.BlueToneHz, "blue"),
	}
}

// readKeyPresses feeds stdin lines into the buttons as press triggers.
func readKeyPresses(red, blue *buttons.Button) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch scanner.Text() {
		case "r":
			red.Trigger()
		case "b":
			blue.Trigger()
		}
	}
}
