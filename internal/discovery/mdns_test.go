// ABOUTME: Tests for mDNS discovery
// ABOUTME: Tests manager defaults and service entry conversion
package discovery

import (
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/mdns"
)

func TestNewManager(t *testing.T) {
	mgr := NewManager(Config{
		ServiceName: "Test Stream",
		Port:        8928,
	})
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	if mgr.config.Path != DefaultPath {
		t.Errorf("expected default path %s, got %s", DefaultPath, mgr.config.Path)
	}

	mgr.Stop()
	select {
	case <-mgr.ctx.Done():
	default:
		t.Error("expected context to be cancelled after Stop")
	}
}

func TestStreamFromEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *mdns.ServiceEntry
		wantNil  bool
		wantPath string
		wantURL  string
	}{
		{
			name: "with path",
			entry: &mdns.ServiceEntry{
				Name:       "studio._overtone._tcp.local.",
				AddrV4:     net.ParseIP("192.168.1.20"),
				Port:       8928,
				InfoFields: []string{"path=/custom"},
			},
			wantPath: "/custom",
			wantURL:  "ws://192.168.1.20:8928/custom",
		},
		{
			name: "default path",
			entry: &mdns.ServiceEntry{
				Name:   "studio._overtone._tcp.local.",
				AddrV4: net.ParseIP("10.0.0.5"),
				Port:   9000,
			},
			wantPath: DefaultPath,
			wantURL:  "ws://10.0.0.5:9000/snapshot",
		},
		{
			name:    "no ipv4",
			entry:   &mdns.ServiceEntry{Name: "v6only", Port: 9000},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := streamFromEntry(tt.entry)
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected stream info")
			}
			if got.Path != tt.wantPath {
				t.Errorf("expected path %s, got %s", tt.wantPath, got.Path)
			}
			if got.URL() != tt.wantURL {
				t.Errorf("expected URL %s, got %s", tt.wantURL, got.URL())
			}
		})
	}
}

func TestBrowseBacksOffAfterQueryError(t *testing.T) {
	mgr := NewManager(Config{ServiceName: "Test Stream", Port: 8928})

	var calls atomic.Int32
	stopped := make(chan struct{})
	mgr.query = func(*mdns.QueryParam) error {
		calls.Add(1)
		return errors.New("no multicast interface")
	}
	mgr.retryDelay = 50 * time.Millisecond

	go func() {
		mgr.browseLoop()
		close(stopped)
	}()

	time.Sleep(175 * time.Millisecond)
	mgr.Stop()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("browse loop did not exit after Stop")
	}

	if n := calls.Load(); n < 2 || n > 5 {
		t.Errorf("expected a few spaced queries, got %d", n)
	}
}
