package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/Rorical/RoriAgent/internal/models"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrChannelFull = errors.New("channel is full")
	ErrClosed      = errors.New("event bus is closed")
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SendMessageEvent - UI submits user text to the active session
type SendMessageEvent struct {
	Message string
}

func (e SendMessageEvent) UIEvent() {}

// InterruptResponseEvent - UI answers a pending human-assistance request
type InterruptResponseEvent struct {
	SessionID string
	Response  string
}

func (e InterruptResponseEvent) UIEvent() {}

// StateUpdateEvent - Core pushes messages appended since the last update
type StateUpdateEvent struct {
	Messages     []models.DisplayMessage
	IsProcessing bool
	Error        error
}

func (e StateUpdateEvent) CoreEvent() {}

// InterruptRequestEvent - Core asks the human for input; the turn is suspended until answered
type InterruptRequestEvent struct {
	Request models.InterruptRequest
}

func (e InterruptRequestEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

func (e EventBusError) Unwrap() error {
	return e.Err
}

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker implements circuit breaker pattern
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
	now             func() time.Time
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		now:          time.Now,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen {
		// Check if we should transition to half-open
		if cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
		}
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailureTime = cb.now()

	// a failed probe reopens immediately
	if cb.failureCount >= cb.maxFailures || cb.state == CircuitHalfOpen {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	mu             sync.RWMutex
	closed         bool
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker
}

func NewEventBus() *EventBus {
	return NewEventBusWithBuffer(100)
}

func NewEventBusWithBuffer(size int) *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, size),
		coreToUI:       make(chan CoreEvent, size),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	busError := EventBusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}

	eb.circuitBreaker.RecordFailure()

	eb.mu.RLock()
	callback := eb.errorCallback
	eb.mu.RUnlock()
	if callback != nil {
		callback(busError)
	}
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	return send(eb, "SendToCore", eb.uiToCore, event)
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	return send(eb, "SendToUI", eb.coreToUI, event)
}

func send[T any](eb *EventBus, operation string, ch chan T, event T) error {
	if eb.circuitBreaker.IsOpen() {
		eb.reportError(operation, ErrCircuitOpen)
		return ErrCircuitOpen
	}

	eb.mu.RLock()
	if eb.closed {
		eb.mu.RUnlock()
		return ErrClosed
	}
	select {
	case ch <- event:
		eb.mu.RUnlock()
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		eb.mu.RUnlock()
		eb.reportError(operation, ErrChannelFull)
		return ErrChannelFull
	}
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

// Close shuts both channels. Safe to call more than once.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	close(eb.uiToCore)
	close(eb.coreToUI)
}
