package aggregates

import (
	"fmt"

	"ecommerce-backend/domain/events"
	apperrors "ecommerce-backend/pkg/errors"
)

// Root holds the event-sourced state shared by every aggregate: identity, a
// version counter equal to the number of events ever applied, and the buffer
// of uncommitted events accumulated since the last save. Concrete aggregates
// embed Root and register their state-transition handler via bind.
type Root struct {
	id          string
	version     int64
	uncommitted []events.DomainEvent
	onEvent     func(event events.DomainEvent) error
}

// bind wires the concrete aggregate's event handler into the root. Must be
// called by the aggregate constructor before any event is applied.
func (r *Root) bind(onEvent func(event events.DomainEvent) error) {
	r.onEvent = onEvent
}

// ID returns the aggregate identifier
func (r *Root) ID() string { return r.id }

// Version returns the number of events applied so far (replayed + uncommitted)
func (r *Root) Version() int64 { return r.version }

func (r *Root) setID(id string) { r.id = id }

// UncommittedEvents returns a copy of the events applied since the last save
func (r *Root) UncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(r.uncommitted))
	copy(out, r.uncommitted)
	return out
}

// MarkCommitted clears the uncommitted buffer after a successful save
func (r *Root) MarkCommitted() {
	r.uncommitted = r.uncommitted[:0]
}

// ApplyEvent runs the aggregate's state transition for a newly created event,
// buffers it for the next save, and advances the version counter.
func (r *Root) ApplyEvent(event events.DomainEvent) error {
	return r.apply(event, true)
}

// Replay rebuilds aggregate state from persisted history. Events must arrive
// in strictly increasing version order with no gaps.
func (r *Root) Replay(history []events.DomainEvent) error {
	for _, event := range history {
		if event.GetVersion() != r.version+1 {
			return apperrors.NewInternalError(fmt.Sprintf(
				"event stream out of order for aggregate %s: expected version %d, got %d",
				event.GetAggregateID(), r.version+1, event.GetVersion()))
		}
		if err := r.apply(event, false); err != nil {
			return err
		}
	}
	return nil
}

func (r *Root) apply(event events.DomainEvent, isNew bool) error {
	if r.onEvent == nil {
		return apperrors.NewInternalError("aggregate event handler not bound")
	}
	if err := r.onEvent(event); err != nil {
		return err
	}
	if isNew {
		r.uncommitted = append(r.uncommitted, event)
	}
	r.version++
	return nil
}
