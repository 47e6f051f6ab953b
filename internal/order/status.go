package order

import (
	"time"

	"github.com/google/uuid"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusServed, StatusCancelled},
	StatusServed:    {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

// NextStatuses returns the statuses reachable from s in one step.
func NextStatuses(s Status) []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// StatusMachine validates and applies order status transitions. It holds
// no state besides its clock.
type StatusMachine struct {
	now func() time.Time
}

func NewStatusMachine(now func() time.Time) *StatusMachine {
	if now == nil {
		now = time.Now
	}
	return &StatusMachine{now: now}
}

func (m *StatusMachine) Validate(current, requested Status) bool {
	for _, s := range transitions[current] {
		if s == requested {
			return true
		}
	}
	return false
}

// Apply returns a copy of o moved to requested. The timestamp matching the
// new status is stamped and, on completion, the order is marked paid.
// o itself is left untouched.
func (m *StatusMachine) Apply(o Order, requested Status, actorID *uuid.UUID) (Order, error) {
	if !m.Validate(o.Status, requested) {
		return o, &TransitionError{OrderNumber: o.OrderNumber, From: o.Status, To: requested}
	}

	now := m.now()
	next := o
	next.Items = append([]OrderItem(nil), o.Items...)
	next.Status = requested
	next.UpdatedAt = now
	if actorID != nil {
		id := *actorID
		next.HandledBy = &id
	}

	switch requested {
	case StatusConfirmed:
		next.ConfirmedAt = &now
	case StatusPreparing:
		next.PreparingAt = &now
	case StatusReady:
		next.ReadyAt = &now
	case StatusServed:
		next.ServedAt = &now
	case StatusCompleted:
		paidAt := now
		next.CompletedAt = &now
		next.PaymentStatus = PaymentPaid
		next.PaidAt = &paidAt
	case StatusCancelled:
		next.CancelledAt = &now
	}

	return next, nil
}
