package eventbus

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"cmdpal/internal/domain"
	"cmdpal/internal/logging"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventQueryChanged          = domain.EventQueryChanged
	EventSuggestionsReady      = domain.EventSuggestionsReady
	EventSuggestionsCleared    = domain.EventSuggestionsCleared
	EventDispatchStarted       = domain.EventDispatchStarted
	EventDispatchCompleted     = domain.EventDispatchCompleted
	EventConfirmationRequested = domain.EventConfirmationRequested
	EventConfirmationResolved  = domain.EventConfirmationResolved
	EventConfigLoaded          = domain.EventConfigLoaded
	EventError                 = domain.EventError
)

// Re-export domain event types
type QueryChangedEvent = domain.QueryChangedEvent
type SuggestionsReadyEvent = domain.SuggestionsReadyEvent
type SuggestionsClearedEvent = domain.SuggestionsClearedEvent
type DispatchStartedEvent = domain.DispatchStartedEvent
type DispatchCompletedEvent = domain.DispatchCompletedEvent
type ConfirmationRequestedEvent = domain.ConfirmationRequestedEvent
type ConfirmationResolvedEvent = domain.ConfirmationResolvedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]EventHandler
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]EventHandler),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Query changes arrive per keystroke; don't log them
	if event.Type() != EventQueryChanged {
		logging.L().Debug("publishing event", zap.String("type", string(event.Type())))
	}

	select {
	case b.eventChan <- event:
		// Event sent successfully
	default:
		// Channel full, log and drop
		logging.L().Warn("event bus channel full, dropping event",
			zap.String("type", string(event.Type())))
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		handlers := b.handlers[eventType]
		for i, h := range handlers {
			if &h == &handler {
				b.handlers[eventType] = append(handlers[:i], handlers[i+1:]...)
				break
			}
		}
	}
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			handlers := b.handlers[event.Type()]
			// Copy so the lock is not held during handler execution
			handlersCopy := make([]EventHandler, len(handlers))
			copy(handlersCopy, handlers)
			b.mu.RUnlock()

			for _, handler := range handlersCopy {
				go func(h EventHandler, eventType EventType) {
					defer func() {
						if r := recover(); r != nil {
							logging.L().Error("event handler panic",
								zap.String("type", string(eventType)),
								zap.Any("panic", r),
								zap.ByteString("stack", debug.Stack()))
						}
					}()
					h(event)
				}(handler, event.Type())
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
					// Discard event
				default:
					return
				}
			}
		}
	}
}
