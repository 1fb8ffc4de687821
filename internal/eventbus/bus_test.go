package eventbus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndReceive(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	require.NoError(t, bus.SendToCore(SendMessageEvent{Message: "hi"}))
	require.NoError(t, bus.SendToUI(StateUpdateEvent{IsProcessing: true}))

	ui := <-bus.UIToCore()
	assert.Equal(t, SendMessageEvent{Message: "hi"}, ui)

	core := <-bus.CoreToUI()
	update, ok := core.(StateUpdateEvent)
	require.True(t, ok)
	assert.True(t, update.IsProcessing)
}

func TestFullChannelOpensCircuit(t *testing.T) {
	bus := NewEventBusWithBuffer(1)
	defer bus.Close()

	var reported []EventBusError
	bus.SetErrorCallback(func(err EventBusError) {
		reported = append(reported, err)
	})

	require.NoError(t, bus.SendToUI(StateUpdateEvent{}))
	for i := 0; i < 5; i++ {
		err := bus.SendToUI(StateUpdateEvent{})
		assert.ErrorIs(t, err, ErrChannelFull)
	}
	assert.Equal(t, CircuitOpen, bus.GetCircuitBreakerState())

	err := bus.SendToUI(StateUpdateEvent{})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	require.Len(t, reported, 6)
	assert.Equal(t, "SendToUI", reported[0].Operation)
	assert.True(t, errors.Is(reported[5], ErrCircuitOpen))
}

func TestCircuitBreakerHalfOpenAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute)
	clock := time.Now()
	cb.now = func() time.Time { return clock }

	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	clock = clock.Add(2 * time.Minute)
	assert.False(t, cb.IsOpen())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordFailure()
	assert.True(t, cb.IsOpen(), "a failed probe reopens the breaker")

	clock = clock.Add(2 * time.Minute)
	assert.False(t, cb.IsOpen())
	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCloseIsIdempotent(t *testing.T) {
	bus := NewEventBus()
	bus.Close()
	assert.NotPanics(t, bus.Close)

	assert.ErrorIs(t, bus.SendToCore(SendMessageEvent{Message: "late"}), ErrClosed)
	_, ok := <-bus.UIToCore()
	assert.False(t, ok)
}

func TestCircuitBreakerStateString(t *testing.T) {
	assert.Equal(t, "closed", CircuitClosed.String())
	assert.Equal(t, "open", CircuitOpen.String())
	assert.Equal(t, "half-open", CircuitHalfOpen.String())
}
