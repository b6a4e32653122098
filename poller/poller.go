// Package poller runs the recurring audit-log fetch and publishes atomic
// risk snapshots for the presentation layer.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/accessguard/console/metrics"
	"github.com/accessguard/console/models"
	"github.com/accessguard/console/transport"
)

const (
	logsPath        = "/admin/logs"
	defaultInterval = 2500 * time.Millisecond

	// windowSize caps the events carried in a snapshot; the max risk score
	// is still computed over the full returned set.
	windowSize = 50
)

// Poller fetches the audit log on a fixed period. Ticks run on a single
// goroutine, so they are strictly sequential: a tick that overruns the
// period delays the next one, never overlaps it.
type Poller struct {
	client   *transport.Client
	interval time.Duration
	metrics  *metrics.Metrics

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a poller. A non-positive interval falls back to the default
// 2.5s period; metrics may be nil.
func New(client *transport.Client, interval time.Duration, m *metrics.Metrics) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		client:   client,
		interval: interval,
		metrics:  m,
	}
}

// Start begins polling and invokes onSnapshot with every published snapshot,
// starting with an immediate first tick. Calling Start on a running poller
// is a no-op.
func (p *Poller) Start(onSnapshot func(models.PollSnapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(ctx, p.done, onSnapshot)
}

// Stop halts polling and waits for the loop to exit. After Stop returns no
// further snapshot is published; an in-flight fetch is cancelled and its
// result discarded. The owner must call Stop on logout or teardown, or the
// loop keeps polling a backend the operator has left.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) run(ctx context.Context, done chan struct{}, onSnapshot func(models.PollSnapshot)) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		snapshot := p.tick(ctx)

		// A cancelled fetch must not surface as an error snapshot
		if ctx.Err() != nil {
			return
		}
		onSnapshot(snapshot)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick fetches the audit log once and derives a full snapshot from it.
func (p *Poller) tick(ctx context.Context) models.PollSnapshot {
	resp, err := p.client.Get(ctx, logsPath, "")
	if err != nil {
		return p.errorSnapshot(err.Error())
	}

	if resp.OK() && resp.IsArray() {
		var events []models.AuditEvent
		if err := resp.DecodeInto(&events); err == nil {
			return p.successSnapshot(events)
		}
	}

	return p.errorSnapshot(resp.ErrorMessage())
}

func (p *Poller) successSnapshot(events []models.AuditEvent) models.PollSnapshot {
	maxRisk := 0
	for _, event := range events {
		if event.RiskScore > maxRisk {
			maxRisk = event.RiskScore
		}
	}

	window := events
	if len(window) > windowSize {
		window = window[:windowSize]
	}

	alerts := make([]models.AuditEvent, 0)
	for _, event := range window {
		if event.Suspicious {
			alerts = append(alerts, event)
		}
	}

	p.metrics.IncPollTick("ok")
	p.metrics.SetMaxRiskScore(maxRisk)

	return models.PollSnapshot{
		Events:       window,
		MaxRiskScore: maxRisk,
		Alerts:       alerts,
	}
}

func (p *Poller) errorSnapshot(message string) models.PollSnapshot {
	p.metrics.IncPollTick("error")
	p.metrics.SetMaxRiskScore(0)

	return models.PollSnapshot{
		Events: []models.AuditEvent{},
		Alerts: []models.AuditEvent{},
		Error:  message,
	}
}
