package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// HealthPoller checks the server on a fixed interval, independent of
// the data path. Checks never block fetches; each check uses the shared
// client timeout.
type HealthPoller struct {
	api      *Client
	interval time.Duration
	online   atomic.Bool

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
}

func NewHealthPoller(api *Client, interval time.Duration) *HealthPoller {
	return &HealthPoller{api: api, interval: interval, stop: make(chan struct{})}
}

// Start runs an immediate check, then polls until Stop. Repeated calls
// are no-ops.
func (p *HealthPoller) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		go p.loop(ctx)
	})
}

func (p *HealthPoller) loop(ctx context.Context) {
	p.check(ctx)
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			p.check(ctx)
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *HealthPoller) check(ctx context.Context) {
	h, err := p.api.CheckHealth(ctx)
	p.online.Store(err == nil && h.Status == "OK")
}

// Online reports the result of the most recent check.
func (p *HealthPoller) Online() bool { return p.online.Load() }

// Stop ends polling. Safe to call from multiple goroutines.
func (p *HealthPoller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}
