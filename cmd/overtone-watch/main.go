// ABOUTME: Command-line client for the snapshot stream
// ABOUTME: Finds a stream over mDNS (or takes a URL) and logs level reports
package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/practicalovertone/overtone-go/internal/discovery"
	"github.com/practicalovertone/overtone-go/internal/server"
	flag "github.com/spf13/pflag"
)

var (
	url     = flag.String("url", "", "Snapshot stream URL (skip mDNS), e.g. ws://host:8928/snapshot")
	timeout = flag.Duration("timeout", 10*time.Second, "How long to browse for a stream")
	points  = flag.Bool("points", false, "Also log the number of points per frame")
)

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func main() {
	flag.Parse()

	target := *url
	if target == "" {
		target = browse(*timeout)
	}

	conn, _, err := websocket.DefaultDialer.Dial(target, nil)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", target, err)
	}
	defer conn.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Printf("Connection closed: %v", err)
			}
			return
		}

		var msg frame
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Invalid frame: %v", err)
			continue
		}

		switch msg.Type {
		case "server/hello":
			var hello server.Hello
			if err := json.Unmarshal(msg.Payload, &hello); err == nil {
				log.Printf("Connected to %s (%s) as %s", hello.Name, hello.Product, hello.ClientID)
			}
		case "server/snapshot":
			var snap server.Snapshot
			if err := json.Unmarshal(msg.Payload, &snap); err != nil {
				log.Printf("Invalid snapshot: %v", err)
				continue
			}
			r := snap.Report
			if *points {
				log.Printf("#%d | RMS %.4f | Peak %.4f | Pitch %.1f Hz | %d points", snap.Seq, r.RMS, r.Peak, r.PeakHz, len(snap.Points))
			} else {
				log.Printf("#%d | RMS %.4f | Peak %.4f | Pitch %.1f Hz", snap.Seq, r.RMS, r.Peak, r.PeakHz)
			}
		}
	}
}

// browse returns the URL of the first stream found over mDNS
func browse(wait time.Duration) string {
	log.Printf("Browsing for %s streams...", discovery.ServiceType)

	disc := discovery.NewManager(discovery.Config{})
	defer disc.Stop()
	disc.Browse()

	select {
	case stream := <-disc.Streams():
		log.Printf("Found %s at %s", stream.Name, stream.URL())
		return stream.URL()
	case <-time.After(wait):
		log.Fatalf("No stream found after %s", wait)
	}
	return ""
}
