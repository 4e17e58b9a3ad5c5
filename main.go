// ABOUTME: Entry point for the overtone capture and visualisation process
// ABOUTME: Parses CLI flags, opens the input device and drives the session
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/practicalovertone/overtone-go/internal/app"
	"github.com/practicalovertone/overtone-go/internal/server"
	"github.com/practicalovertone/overtone-go/internal/ui"
	"github.com/practicalovertone/overtone-go/internal/version"
	"github.com/practicalovertone/overtone-go/pkg/audio"
	"github.com/practicalovertone/overtone-go/pkg/audio/input"
	"github.com/practicalovertone/overtone-go/pkg/capture"
	"github.com/practicalovertone/overtone-go/pkg/synth"
	flag "github.com/spf13/pflag"
)

// waveTail is how many of the newest capture points the TUI draws
const waveTail = 192

var (
	device      = flag.String("device", input.DefaultDeviceName, "Input device name")
	backend     = flag.String("input", "malgo", "Input backend: malgo, portaudio or synth")
	periodSize  = flag.Int("period", 0, "Device period size in frames (0 = backend default)")
	frequency   = flag.Float64("frequency", app.MinFrequency, "Preview tone frequency in Hz")
	tilt        = flag.Float64("tilt", synth.DefaultTiltDB, "Harmonic tilt in dB")
	record      = flag.Bool("record", false, "Start capturing immediately")
	logFile     = flag.String("log-file", "overtone.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	serve       = flag.Bool("serve", false, "Stream capture snapshots over WebSocket")
	port        = flag.Int("port", server.DefaultPort, "Snapshot server port")
	noMDNS      = flag.Bool("no-mdns", false, "Disable mDNS advertisement of the snapshot server")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	meterPeriod = flag.Duration("meter-interval", time.Second, "Level log interval without TUI")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	in, synthetic, err := openInput(*backend, *device, *periodSize)
	if err != nil {
		log.Fatalf("Failed to open audio input: %v", err)
	}

	log.Print(input.Describe(in))
	if *debug {
		log.Printf("[DEBUG] Negotiated format:\n%s", spew.Sdump(in.Format()))
	}

	pipeline, err := capture.NewPipeline(in, nil)
	if err != nil {
		in.Close()
		log.Fatalf("Failed to create capture pipeline: %v", err)
	}

	session := app.NewSession(synth.DefaultSampleRate, pipeline)
	defer func() {
		if err := session.Close(); err != nil {
			log.Printf("Error closing session: %v", err)
		}
	}()

	settings := app.DefaultSettings()
	settings.Frequency = *frequency
	settings.TiltDB = *tilt
	settings.Record = *record
	settings = settings.Clamped()

	if err := session.Apply(settings); err != nil {
		log.Fatalf("Failed to apply settings: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if synthetic != nil {
		chord := synth.NewChord(synthetic.Format().SampleRate, synth.DefaultRoot, synth.DefaultInterval)
		go func() {
			if err := synthetic.Stream(ctx, chord); err != nil && ctx.Err() == nil {
				log.Printf("Synthetic input stopped: %v", err)
			}
		}()
	}

	var srv *server.Server
	if *serve {
		srv = server.New(server.Config{
			Port:       *port,
			Name:       serverName(),
			EnableMDNS: !*noMDNS,
			Debug:      *debug,
		}, session)

		go func() {
			if err := srv.Start(); err != nil {
				log.Printf("Snapshot server error: %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if useTUI {
		controls := ui.NewControls()
		tui := ui.New(controls, settings)

		go handleControls(ctx, session, controls)
		go statusLoop(ctx, session, tui, in.BufferFrames())
		go func() {
			select {
			case <-sigChan:
				log.Printf("Shutdown signal received")
				tui.Stop()
			case <-ctx.Done():
			}
		}()

		if err := tui.Run(); err != nil {
			log.Printf("TUI error: %v", err)
		}
	} else {
		go meterLoop(ctx, session, *meterPeriod)
		<-sigChan
		log.Printf("Shutdown signal received")
	}

	cancel()
	if srv != nil {
		srv.Stop()
	}

	log.Printf("Stopped")
}

// openInput opens the requested backend. The synthetic input is also returned
// on its own so the caller can drive it.
func openInput(kind, name string, period int) (input.Input, *input.Synthetic, error) {
	switch kind {
	case "malgo":
		in, err := input.NewMalgo(input.MalgoConfig{
			DeviceName:   name,
			PeriodFrames: period,
		})
		if err != nil {
			return nil, nil, err
		}
		return in, nil, nil
	case "portaudio":
		in, err := input.NewPortAudio(name)
		return in, nil, err
	case "synth":
		if period <= 0 {
			period = 512
		}
		in := input.NewSynthetic(audio.Format{
			SampleRate:   synth.DefaultSampleRate,
			Channels:     2,
			SampleFormat: audio.SampleFormatF32,
		}, period)
		return in, in, nil
	default:
		return nil, nil, fmt.Errorf("unknown input backend %q", kind)
	}
}

// handleControls applies settings changes from the TUI
func handleControls(ctx context.Context, session *app.Session, controls *ui.Controls) {
	for {
		select {
		case s := <-controls.Changes:
			if err := session.Apply(s); err != nil {
				log.Printf("Failed to apply settings: %v", err)
			}
		case <-controls.Quit:
			return
		case <-ctx.Done():
			return
		}
	}
}

// statusLoop pushes capture status to the TUI
func statusLoop(ctx context.Context, session *app.Session, tui *ui.TUI, bufferFrames int) {
	ticker := time.NewTicker(ui.StatusInterval)
	defer ticker.Stop()

	pipeline := session.Pipeline()
	tui.Update(ui.StatusMsg{
		Device:       pipeline.DeviceName(),
		Format:       pipeline.Format(),
		BufferFrames: bufferFrames,
		State:        pipeline.State().String(),
	})

	for {
		select {
		case <-ticker.C:
			points := session.Points()
			if len(points) > waveTail {
				points = points[len(points)-waveTail:]
			}
			wave := make([]float32, len(points))
			for i, p := range points {
				wave[i] = p.Value
			}

			tui.Update(ui.StatusMsg{
				State:  pipeline.State().String(),
				Stats:  pipeline.Stats(),
				Report: session.Report(),
				Wave:   wave,
			})
		case <-ctx.Done():
			return
		}
	}
}

// meterLoop logs capture levels without a TUI
func meterLoop(ctx context.Context, session *app.Session, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !session.Pipeline().Running() {
				continue
			}
			r := session.Report()
			log.Printf("Capture level | RMS %.4f | Peak %.4f | Pitch %.1f Hz", r.RMS, r.Peak, r.PeakHz)
		case <-ctx.Done():
			return
		}
	}
}

func serverName() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-overtone", hostname)
}
