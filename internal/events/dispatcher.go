package events

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultQueueSize is the dispatcher queue capacity used when the
// configuration does not specify one.
const DefaultQueueSize = 256

// Dispatcher delivers events to registered handlers from a dedicated worker
// goroutine, decoupling the handlers' failure domain from the emitting
// operation. A full queue drops the event with a log line rather than
// blocking the producer.
type Dispatcher struct {
	handlers []Handler
	mu       sync.RWMutex
	queue    chan Event
	closed   bool
	done     chan struct{}
	closing  sync.Once
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher with the given queue capacity and starts
// its worker goroutine. Callers must Close it to drain the queue on shutdown.
func NewDispatcher(queueSize int, logger *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
		logger: logger.With(slog.String("component", "event_dispatcher")),
	}

	go d.run()

	return d
}

// RegisterHandler adds a new event handler to receive events.
func (d *Dispatcher) RegisterHandler(handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, handler)
	d.logger.Debug("registered new event handler", "handler_count", len(d.handlers))
}

// Emit implements Emitter. The event is enqueued for asynchronous delivery;
// if the queue is full or the dispatcher is closed the event is dropped and
// logged, never blocking or failing the caller.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	// The read lock excludes Close, so the queue cannot close mid-send.
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("dispatcher closed, dropping event",
			"event_type", event.EventType())
		return
	}

	select {
	case d.queue <- event:
	default:
		d.logger.Warn("event queue full, dropping event",
			"event_type", event.EventType())
	}
}

// Close stops the dispatcher after draining all queued events. Events emitted
// after Close are dropped. It is safe to call more than once.
func (d *Dispatcher) Close() {
	d.closing.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	<-d.done
}

// run is the worker loop. It exits once the queue is closed and drained.
func (d *Dispatcher) run() {
	defer close(d.done)

	for event := range d.queue {
		d.deliver(event)
	}
}

// deliver hands the event to every registered handler. If any handler returns
// an error, the event is still delivered to all other handlers; failures are
// logged and dropped.
func (d *Dispatcher) deliver(event Event) {
	d.mu.RLock()
	handlers := make([]Handler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	if len(handlers) == 0 {
		d.logger.Warn("no handlers registered for event",
			"event_type", event.EventType())
		return
	}

	for i, handler := range handlers {
		if err := handler.HandleEvent(context.Background(), event); err != nil {
			d.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_type", event.EventType())
		}
	}
}
