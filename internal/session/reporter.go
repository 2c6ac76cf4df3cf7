package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizlan/quizlan-client/internal/api"
	"github.com/quizlan/quizlan-client/internal/model"
)

const reportTimeout = 5 * time.Second

// reporter is the integrity side channel: a buffered queue drained by a
// single goroutine. Enqueueing never blocks; a full queue drops the
// event. Delivery failures are swallowed; exam continuity must never
// depend on the reporting channel.
type reporter struct {
	client *api.Client
	log    zerolog.Logger

	events chan model.IntegrityEvent
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

func newReporter(client *api.Client, buffer int, log zerolog.Logger) *reporter {
	if buffer <= 0 {
		buffer = 16
	}
	r := &reporter{
		client: client,
		log:    log.With().Str("component", "integrity_reporter").Logger(),
		events: make(chan model.IntegrityEvent, buffer),
		done:   make(chan struct{}),
	}
	go r.drain()
	return r
}

func (r *reporter) drain() {
	defer close(r.done)
	for ev := range r.events {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		r.client.LogEvent(ctx, ev)
		cancel()
	}
}

// report enqueues an event, dropping it if the queue is full or the
// reporter already closed.
func (r *reporter) report(ev model.IntegrityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.events <- ev:
	default:
		r.log.Debug().Str("event", string(ev.Event)).Msg("integrity queue full, event dropped")
	}
}

// close stops the drain goroutine after the queued events are flushed.
// Safe to call more than once.
func (r *reporter) close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	close(r.events)
	<-r.done
}
