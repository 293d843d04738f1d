// Package connectivity reports whether the client currently has network
// access. The request pipeline asks it when a call received no reply.
package connectivity

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/validation"
)

// Checker answers whether the client is online.
type Checker interface {
	Online(ctx context.Context) bool
}

const (
	ModeStatic = "static"
	ModeProbe  = "probe"
)

// Config selects and configures a Checker.
type Config struct {
	// Mode is static or probe. Defaults to static.
	Mode string `yaml:"mode" mapstructure:"mode" validate:"oneof=static probe"`
	// Online is the fixed answer of the static checker. Defaults to true.
	Online *bool `yaml:"online" mapstructure:"online"`
	// Address is the host:port the probe dials.
	Address string `yaml:"address" mapstructure:"address" validate:"required_if=Mode probe"`
	// Timeout bounds a single dial.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Interval is how long a probe result is reused.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeStatic
	}
	if c.Online == nil {
		online := true
		c.Online = &online
	}
	if c.Timeout <= 0 {
		c.Timeout = 2 * time.Second
	}
	if c.Interval <= 0 {
		c.Interval = 5 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.Address != "" {
		if _, _, err := net.SplitHostPort(c.Address); err != nil {
			return errors.Validation("address: must be host:port").WithCause(err)
		}
	}
	return nil
}

// New creates the checker selected by cfg.Mode.
func New(cfg Config, log *logger.Logger) (Checker, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == ModeProbe {
		return NewProbe(cfg.Address, cfg.Timeout, cfg.Interval, log), nil
	}
	return NewStatic(*cfg.Online), nil
}

// Static is a Checker with a settable answer.
type Static struct {
	online atomic.Bool
}

// NewStatic creates a Static checker.
func NewStatic(online bool) *Static {
	s := &Static{}
	s.online.Store(online)
	return s
}

// Online implements Checker.
func (s *Static) Online(context.Context) bool { return s.online.Load() }

// Set changes the answer.
func (s *Static) Set(online bool) { s.online.Store(online) }

// DialFunc opens a connection; it matches (*net.Dialer).DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Probe considers the client online when a TCP connection to address
// succeeds. Results are cached for the configured interval.
type Probe struct {
	address  string
	timeout  time.Duration
	interval time.Duration
	dial     DialFunc
	now      func() time.Time
	log      *logger.Logger

	mu      sync.Mutex
	checked time.Time
	online  bool
}

// NewProbe creates a Probe.
func NewProbe(address string, timeout, interval time.Duration, log *logger.Logger) *Probe {
	if log == nil {
		log = logger.Nop()
	}
	d := &net.Dialer{Timeout: timeout}
	return &Probe{
		address:  address,
		timeout:  timeout,
		interval: interval,
		dial:     d.DialContext,
		now:      time.Now,
		log:      log.WithComponent("connectivity"),
	}
}

// WithDialer replaces the dial function.
func (p *Probe) WithDialer(dial DialFunc) *Probe {
	p.dial = dial
	return p
}

// Online implements Checker. Concurrent callers share one dial.
func (p *Probe) Online(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if !p.checked.IsZero() && now.Sub(p.checked) < p.interval {
		return p.online
	}

	// The caller's context has usually expired when a call got no reply,
	// so the dial runs detached from its cancellation.
	dialCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	conn, err := p.dial(dialCtx, "tcp", p.address)
	online := err == nil
	if conn != nil {
		_ = conn.Close()
	}
	if online != p.online || p.checked.IsZero() {
		fields := logger.Fields("address", p.address, "online", online)
		if err != nil {
			fields = logger.MergeWithError(fields, err)
		}
		p.log.Debug("connectivity changed", fields)
	}

	if ctx.Err() != nil {
		return online
	}
	p.online = online
	p.checked = now
	return online
}

// Invalidate drops the cached result so the next call dials again.
func (p *Probe) Invalidate() {
	p.mu.Lock()
	p.checked = time.Time{}
	p.mu.Unlock()
}
