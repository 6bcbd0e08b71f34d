package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultHandlerTimeout bounds a single handler run.
const DefaultHandlerTimeout = 60 * time.Second

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
	// Wait blocks until every handler started so far has returned.
	Wait()
}

// inMemoryDispatcher runs handlers in detached goroutines so publishers
// never wait on them.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	logger    *zap.Logger
	timeout   time.Duration
	inflight  sync.WaitGroup
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(logger *zap.Logger, handlerTimeout time.Duration) Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if handlerTimeout <= 0 {
		handlerTimeout = DefaultHandlerTimeout
	}
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
		logger:    logger,
		timeout:   handlerTimeout,
	}
}

// Publish starts every handler for the event and returns immediately.
// Handlers get a context detached from the publisher's cancellation.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	base := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		d.inflight.Add(1)
		go d.run(base, handler, event)
	}
	return nil
}

func (d *inMemoryDispatcher) run(base context.Context, handler EventHandler, event Event) {
	defer d.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked",
				zap.String("event_type", string(event.Type)),
				zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(base, d.timeout)
	defer cancel()

	if err := handler(ctx, event); err != nil {
		d.logger.Warn("event handler failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Int64("quotation_id", event.QuotationID),
			zap.Error(err))
	}
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

func (d *inMemoryDispatcher) Wait() {
	d.inflight.Wait()
}
