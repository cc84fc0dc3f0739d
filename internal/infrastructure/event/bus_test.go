package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/rentledger/backend/internal/domain/shared"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New()),
	}
}

type recordingHandler struct {
	mu       sync.Mutex
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.received = append(h.received, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

func TestInMemoryEventBus_PublishToSubscribedType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"ContractActivated"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("ContractActivated"))

	assert.NoError(t, err)
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_IgnoresUnrelatedTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"InvoiceIssued"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("ContractEnded"))

	assert.NoError(t, err)
	assert.Equal(t, 0, handler.count())
}

func TestInMemoryEventBus_WildcardReceivesAll(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		newTestEvent("RoomStatusChanged"),
		newTestEvent("InvoicePaid"),
	)

	assert.NoError(t, err)
	assert.Equal(t, 2, handler.count())
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"InvoicePaid"}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{"InvoicePaid"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("InvoicePaid"))

	assert.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_RecoversFromPanic(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"InvoicePaid"}, panics: true}
	healthy := &recordingHandler{types: []string{"InvoicePaid"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("InvoicePaid"))
	})
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"RoomCreated"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("RoomCreated"))

	assert.NoError(t, err)
	assert.Equal(t, 0, handler.count())
}

func TestAuditLogHandler_HandlesAnyEvent(t *testing.T) {
	handler := NewAuditLogHandler(zap.NewNop())

	assert.Empty(t, handler.EventTypes())
	assert.NoError(t, handler.Handle(context.Background(), newTestEvent("ContractActivated")))
}
