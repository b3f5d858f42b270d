package tui

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Slots group requests that supersede each other
const (
	slotHistory = "history"
	slotDetail  = "detail"
	slotExport  = "export"
)

type request struct {
	id     string
	cancel context.CancelFunc
}

// Executor tracks the in-flight background requests of the UI. Each slot
// holds at most one request; starting a new one cancels its predecessor.
type Executor struct {
	base      context.Context
	mu        sync.Mutex
	active    map[string]request
	closed    bool
	closeOnce sync.Once
}

// NewExecutor creates an executor whose requests derive from ctx
func NewExecutor(ctx context.Context) *Executor {
	return &Executor{
		base:   ctx,
		active: make(map[string]request),
	}
}

// Start registers a new request in slot and returns its context and id.
// After Close the returned context is already cancelled.
func (e *Executor) Start(slot string) (context.Context, string) {
	ctx, cancel := context.WithCancel(e.base)
	requestID := uuid.New().String()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		cancel()
		return ctx, requestID
	}
	if prev, ok := e.active[slot]; ok {
		prev.cancel()
	}
	e.active[slot] = request{id: requestID, cancel: cancel}
	return ctx, requestID
}

// Finish releases the request if it is still the current one for slot
func (e *Executor) Finish(slot, requestID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if req, ok := e.active[slot]; ok && req.id == requestID {
		req.cancel()
		delete(e.active, slot)
	}
}

// Current reports whether requestID is the live request of slot
func (e *Executor) Current(slot, requestID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	req, ok := e.active[slot]
	return ok && req.id == requestID
}

// Cancel cancels the request in slot, if any
func (e *Executor) Cancel(slot string) {
	e.mu.Lock()
	req, ok := e.active[slot]
	delete(e.active, slot)
	e.mu.Unlock()

	if ok {
		req.cancel()
	}
}

// CancelAll cancels all active requests
func (e *Executor) CancelAll() {
	e.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(e.active))
	for slot, req := range e.active {
		cancels = append(cancels, req.cancel)
		delete(e.active, slot)
	}
	e.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Close cancels everything and rejects further requests
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closed = true
		e.mu.Unlock()
		e.CancelAll()
	})
}
