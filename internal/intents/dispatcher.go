// Package intents routes typed presentation-layer commands to the store
// services.
package intents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/angelmondragon/storewise-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
)

// Request is one intent as emitted by the presentation layer.
type Request struct {
	Kind    enums.IntentKind `json:"kind" validate:"required"`
	Payload json.RawMessage  `json:"payload,omitempty"`
}

// Result is the handler output for an intent.
type Result struct {
	Kind enums.IntentKind `json:"kind"`
	Data any              `json:"data"`
}

// Handler runs one intent kind.
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

// Dispatcher maps intent kinds to handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[enums.IntentKind]Handler
	logg     *logger.Logger
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher(logg *logger.Logger) *Dispatcher {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Dispatcher{handlers: map[enums.IntentKind]Handler{}, logg: logg}
}

// Register binds h to kind, replacing any previous handler.
func (d *Dispatcher) Register(kind enums.IntentKind, h Handler) error {
	if !kind.IsValid() {
		return fmt.Errorf("unknown intent kind %q", kind)
	}
	if h == nil {
		return fmt.Errorf("handler for %s required", kind)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = h
	return nil
}

// Kinds lists the registered intent kinds.
func (d *Dispatcher) Kinds() []enums.IntentKind {
	d.mu.RLock()
	defer d.mu.RUnlock()
	kinds := make([]enums.IntentKind, 0, len(d.handlers))
	for k := range d.handlers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Dispatch runs the handler registered for req.Kind.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	d.mu.RLock()
	h, ok := d.handlers[req.Kind]
	d.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.InvalidInput(fmt.Sprintf("unknown intent %q", req.Kind)).
			WithDetails(map[string]any{"kinds": d.Kinds()})
	}

	ctx = d.logg.WithIntent(ctx, req.Kind.String())
	data, err := h(ctx, req.Payload)
	if err != nil {
		d.logg.Debug(ctx, "intent.failed")
		return nil, err
	}
	d.logg.Debug(ctx, "intent.dispatched")
	return &Result{Kind: req.Kind, Data: data}, nil
}

// decode reads payload into dest. An absent payload leaves dest at its zero
// value.
func decode(payload json.RawMessage, dest any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid intent payload").
			WithDetails(map[string]any{"error": err.Error()})
	}
	return nil
}
