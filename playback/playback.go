package playback

import (
	"context"
	"log"
	"sync"
	"time"
)

// Clock exposes the playback cursor of an external audio collaborator.
type Clock interface {
	CurrentTime() float64
}

// Events raised by a playback collaborator. All callbacks are optional.
type Events struct {
	// OnReady fires once stream metadata is available.
	OnReady func(duration float64)
	// OnTimeUpdate fires as the cursor advances, several times per second.
	OnTimeUpdate func(t float64)
	// OnError fires on stream errors. Errors stall the cursor; they never
	// stop transcript synchronization.
	OnError func(err error, fatal bool)
}

// Simulator stands in for the streaming playback engine: it advances a
// seekable cursor at a configurable rate and emits the same event shape.
type Simulator struct {
	mu       sync.Mutex
	cur      float64
	rate     float64
	interval time.Duration
	stalled  bool
	events   Events
}

// NewSimulator builds a simulator advancing rate seconds of playback per
// wall-clock second, emitting time updates every interval.
func NewSimulator(rate float64, interval time.Duration, events Events) *Simulator {
	if rate <= 0 {
		rate = 1
	}
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Simulator{rate: rate, interval: interval, events: events}
}

func (p *Simulator) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur
}

// Seek moves the cursor, backward or forward.
func (p *Simulator) Seek(t float64) {
	p.mu.Lock()
	if t < 0 {
		t = 0
	}
	p.cur = t
	p.mu.Unlock()

	if p.events.OnTimeUpdate != nil {
		p.events.OnTimeUpdate(t)
	}
}

// Fail reports a stream error. The cursor stalls but keeps its position; a
// later Recover resumes advancement.
func (p *Simulator) Fail(err error, fatal bool) {
	p.mu.Lock()
	p.stalled = true
	p.mu.Unlock()

	log.Printf("Warning: playback error (fatal=%v): %v", fatal, err)
	if p.events.OnError != nil {
		p.events.OnError(err, fatal)
	}
}

func (p *Simulator) Recover() {
	p.mu.Lock()
	p.stalled = false
	p.mu.Unlock()
}

// Run drives the cursor until it reaches duration or the context ends.
func (p *Simulator) Run(ctx context.Context, duration float64) {
	if p.events.OnReady != nil {
		p.events.OnReady(duration)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.mu.Lock()
			if !p.stalled {
				p.cur += p.rate * p.interval.Seconds()
				if p.cur > duration {
					p.cur = duration
				}
			}
			cur := p.cur
			p.mu.Unlock()

			if p.events.OnTimeUpdate != nil {
				p.events.OnTimeUpdate(cur)
			}
			if cur >= duration {
				return
			}
		}
	}
}
