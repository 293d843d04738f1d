package connectivity

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kbukum/apiclient/httpclient"
)

var (
	_ httpclient.ConnectivityChecker = (*Static)(nil)
	_ httpclient.ConnectivityChecker = (*Probe)(nil)
)

func TestStatic(t *testing.T) {
	s := NewStatic(true)
	if !s.Online(context.Background()) {
		t.Error("expected online")
	}
	s.Set(false)
	if s.Online(context.Background()) {
		t.Error("expected offline")
	}
}

func TestProbe_ListenerReachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	p := NewProbe(ln.Addr().String(), time.Second, time.Minute, nil)
	if !p.Online(context.Background()) {
		t.Error("expected online when the address accepts connections")
	}
}

func TestProbe_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	p := NewProbe(addr, time.Second, time.Minute, nil)
	if p.Online(context.Background()) {
		t.Error("expected offline when nothing listens")
	}
}

func TestProbe_CachesWithinInterval(t *testing.T) {
	dials := 0
	reachable := true
	now := time.Unix(0, 0)

	p := NewProbe("example:80", time.Second, 10*time.Second, nil).
		WithDialer(func(context.Context, string, string) (net.Conn, error) {
			dials++
			if reachable {
				c1, c2 := net.Pipe()
				c2.Close()
				return c1, nil
			}
			return nil, stderrors.New("network unreachable")
		})
	p.now = func() time.Time { return now }

	if !p.Online(context.Background()) {
		t.Fatal("expected online")
	}
	reachable = false
	now = now.Add(5 * time.Second)
	if !p.Online(context.Background()) {
		t.Error("cached result should be reused within the interval")
	}
	if dials != 1 {
		t.Errorf("expected 1 dial, got %d", dials)
	}

	now = now.Add(6 * time.Second)
	if p.Online(context.Background()) {
		t.Error("expected offline after the interval elapsed")
	}

	reachable = true
	p.Invalidate()
	if !p.Online(context.Background()) {
		t.Error("expected online after invalidation")
	}
	if dials != 3 {
		t.Errorf("expected 3 dials, got %d", dials)
	}
}

func TestProbe_ExpiredCallerContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	p := NewProbe(ln.Addr().String(), time.Second, time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if !p.Online(ctx) {
		t.Error("a cancelled caller context must not make a reachable address look offline")
	}
}

func TestProbe_ExpiredContextResultNotCached(t *testing.T) {
	reachable := false
	p := NewProbe("example:80", time.Second, time.Minute, nil).
		WithDialer(func(context.Context, string, string) (net.Conn, error) {
			if reachable {
				c1, c2 := net.Pipe()
				c2.Close()
				return c1, nil
			}
			return nil, stderrors.New("network unreachable")
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if p.Online(ctx) {
		t.Fatal("expected offline while unreachable")
	}
	reachable = true
	if !p.Online(context.Background()) {
		t.Error("result observed under a done context should not be cached")
	}
}

func TestProbe_DeadlineCallIsRejectedWhileOnline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	checker := NewProbe(ln.Addr().String(), time.Second, time.Minute, nil)
	c, err := httpclient.New(httpclient.Config{BaseURL: srv.URL}, httpclient.WithConnectivity(checker))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	out := c.Get(ctx, "/slow", nil)
	if out.State != httpclient.StateRejected {
		t.Fatalf("expected rejected, got %s", out.State)
	}
	if out.Err == nil {
		t.Error("expected the original error")
	}
	if !checker.Online(context.Background()) {
		t.Error("checker should still report online afterwards")
	}
}

func TestNew(t *testing.T) {
	c, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*Static); !ok || !c.Online(context.Background()) {
		t.Errorf("expected static online checker, got %T", c)
	}

	offline := false
	c, _ = New(Config{Online: &offline}, nil)
	if c.Online(context.Background()) {
		t.Error("expected static offline checker")
	}

	c, err = New(Config{Mode: ModeProbe, Address: "127.0.0.1:1"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*Probe); !ok {
		t.Errorf("expected probe, got %T", c)
	}

	if _, err := New(Config{Mode: ModeProbe}, nil); err == nil {
		t.Error("probe without address should fail validation")
	}
	if _, err := New(Config{Mode: "ping"}, nil); err == nil {
		t.Error("unknown mode should fail validation")
	}
}

func TestConfig_ValidateAddress(t *testing.T) {
	cfg := Config{Mode: ModeProbe, Address: "no-port"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected host:port validation error")
	}
}
