// ABOUTME: WebSocket server streaming capture snapshots to external plotters
// ABOUTME: Manages client connections and broadcasts decimated points with analysis
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/practicalovertone/overtone-go/internal/discovery"
	"github.com/practicalovertone/overtone-go/internal/version"
	"github.com/practicalovertone/overtone-go/pkg/analysis"
	"github.com/practicalovertone/overtone-go/pkg/capture"
)

const (
	// ProtocolVersion is sent in server/hello
	ProtocolVersion = 1

	// DefaultPort is the default listening port
	DefaultPort = 8928

	// DefaultInterval is the default broadcast period
	DefaultInterval = 100 * time.Millisecond

	// SnapshotPath is the WebSocket endpoint
	SnapshotPath = "/snapshot"

	clientQueue   = 4
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
)

// Source supplies the data published to clients
type Source interface {
	Points() []capture.Point
	Report() analysis.Report
}

// Config holds server configuration
type Config struct {
	Port       int
	Name       string
	Interval   time.Duration
	EnableMDNS bool
	Debug      bool
}

// Message is the JSON envelope for every frame
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hello is sent once when a client connects
type Hello struct {
	ServerID string `json:"server_id"`
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Product  string `json:"product"`
	Version  int    `json:"version"`
}

// Snapshot is one broadcast frame
type Snapshot struct {
	Seq       uint64          `json:"seq"`
	Timestamp int64           `json:"timestamp_ms"`
	Points    []capture.Point `json:"points"`
	Report    analysis.Report `json:"report"`
}

// Server publishes snapshots of a Source over WebSocket
type Server struct {
	config   Config
	serverID string
	source   Source

	upgrader websocket.Upgrader

	httpServer *http.Server
	mux        *http.ServeMux
	listener   net.Listener

	clients   map[string]*Client
	clientsMu sync.RWMutex

	seq atomic.Uint64

	mdnsManager *discovery.Manager

	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// Client represents a connected client
type Client struct {
	ID       string
	Addr     string
	Conn     *websocket.Conn
	sendChan chan []byte
	dropped  atomic.Uint64
}

// New creates a new server instance
func New(config Config, source Source) *Server {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.Name == "" {
		config.Name = version.Product
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		source:   source,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// Local network tool; any origin may read snapshots
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:  make(map[string]*Client),
		stopChan: make(chan struct{}),
	}

	s.mux.HandleFunc(SnapshotPath, s.handleWebSocket)
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return s
}

// Handler returns the HTTP handler serving the snapshot endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens, broadcasts every Interval, and blocks until Stop
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	log.Printf("Snapshot server listening on %s%s", addr, SnapshotPath)

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.Port(),
			Path:        SnapshotPath,
		})
		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to advertise mDNS: %v", err)
		}
	}

	s.httpServer = &http.Server{Handler: s.mux}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.broadcastLoop()
	}()

	var serverErr error
	select {
	case <-s.stopChan:
		log.Printf("Snapshot server shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
		s.Stop()
	}

	s.markShutdown()

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	s.closeClients()

	s.wg.Wait()
	log.Printf("Snapshot server stopped")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Port returns the bound port once listening, otherwise the configured port
func (s *Server) Port() int {
	if s.listener != nil {
		if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			return addr.Port
		}
	}
	return s.config.Port
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.ClientCount() > 0 {
				s.Broadcast()
			}
		case <-s.stopChan:
			return
		}
	}
}

// Broadcast sends one snapshot of the source to every client. Slow clients
// miss frames rather than delaying the others.
func (s *Server) Broadcast() {
	data, err := json.Marshal(Message{
		Type: "server/snapshot",
		Payload: Snapshot{
			Seq:       s.seq.Add(1),
			Timestamp: time.Now().UnixMilli(),
			Points:    s.source.Points(),
			Report:    s.source.Report(),
		},
	})
	if err != nil {
		log.Printf("Error marshaling snapshot: %v", err)
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		select {
		case client.sendChan <- data:
		default:
			if n := client.dropped.Add(1); s.config.Debug {
				log.Printf("[DEBUG] Client %s slow, dropped %d frames", client.ID, n)
			}
		}
	}
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.shutdownMu.RLock()
	shutdown := s.isShutdown
	s.shutdownMu.RUnlock()
	if shutdown {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New WebSocket connection from %s", r.RemoteAddr)
	s.handleConnection(conn, r.RemoteAddr)
}

// handleConnection manages a client connection
func (s *Server) handleConnection(conn *websocket.Conn, addr string) {
	defer conn.Close()

	client := &Client{
		ID:       uuid.New().String(),
		Addr:     addr,
		Conn:     conn,
		sendChan: make(chan []byte, clientQueue),
	}

	hello, err := json.Marshal(Message{
		Type: "server/hello",
		Payload: Hello{
			ServerID: s.serverID,
			ClientID: client.ID,
			Name:     s.config.Name,
			Product:  version.Product + " " + version.Version,
			Version:  ProtocolVersion,
		},
	})
	if err != nil {
		log.Printf("Error marshaling hello: %v", err)
		return
	}
	client.sendChan <- hello

	writerDone := make(chan struct{})
	if !s.register(client, writerDone) {
		log.Printf("Rejecting %s: server shutting down", addr)
		return
	}

	defer func() {
		s.removeClient(client)
		<-writerDone
		log.Printf("Client disconnected: %s (%s)", client.ID, client.Addr)
	}()

	// Clients only listen; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

// register adds the client and starts its writer unless shutdown has begun.
// Holding shutdownMu keeps wg.Add ordered before the wait in Start.
func (s *Server) register(client *Client, writerDone chan struct{}) bool {
	s.shutdownMu.RLock()
	defer s.shutdownMu.RUnlock()

	if s.isShutdown {
		return false
	}

	s.clientsMu.Lock()
	s.clients[client.ID] = client
	s.clientsMu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(writerDone)
		s.clientWriter(client)
	}()
	return true
}

// markShutdown refuses new clients from now on
func (s *Server) markShutdown() {
	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()
}

// removeClient unregisters a client and closes its queue once
func (s *Server) removeClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		close(client.sendChan)
	}
}

// closeClients disconnects every client
func (s *Server) closeClients() {
	s.clientsMu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.RUnlock()

	for _, c := range clients {
		c.Conn.Close()
	}
}

// clientWriter sends queued frames and keepalive pings
func (s *Server) clientWriter(client *Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-client.sendChan:
			if !ok {
				client.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				client.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			client.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("Error writing to client %s: %v", client.ID, err)
				client.Conn.Close()
				return
			}

		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				client.Conn.Close()
				return
			}
		}
	}
}

