package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Event struct {
	CycleID  string
	DoctorID uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Auditor accepts events without blocking the caller.
type Auditor interface {
	Dispatch(ev Event)
}

type Sink interface {
	Log(ctx context.Context, ev Event) error
}

const (
	queueSize    = 256
	writeTimeout = 5 * time.Second
)

type Dispatcher struct {
	sink  Sink
	log   *zap.Logger
	queue chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

var _ Auditor = (*Dispatcher)(nil)

func NewDispatcher(sink Sink, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.sink.Log(ctx, ev); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.Uint("doctor_id", ev.DoctorID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Dispatch never blocks: when the queue is full the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

// Nop discards events.
type Nop struct{}

func (Nop) Dispatch(Event) {}
