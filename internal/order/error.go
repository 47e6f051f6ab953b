package order

import (
	"errors"
	"fmt"
	"strings"

	"restopos-be/internal/restaurant"
	"restopos-be/internal/table"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrItemsUnavailable  = errors.New("menu items unavailable")
	ErrValidation        = errors.New("invalid order input")

	// ErrOrderNumberTaken means another order claimed the same daily
	// sequence first.
	ErrOrderNumberTaken = errors.New("order number already taken")

	// ErrVersionConflict means the order row changed since it was read.
	ErrVersionConflict = errors.New("order version conflict")

	ErrRestaurantNotFound = restaurant.ErrRestaurantNotFound
	ErrTableNotFound      = table.ErrTableNotFound
)

// TransitionError is returned when a requested status is not reachable
// from the current one. Conflict is set when the order changed status
// between read and write.
type TransitionError struct {
	OrderNumber string
	From        Status
	To          Status
	Conflict    bool
}

func (e *TransitionError) Error() string {
	if e.Conflict {
		return fmt.Sprintf("%s was updated concurrently, reload and retry", e.subject())
	}
	if e.From.IsTerminal() {
		return fmt.Sprintf("%s is already %s and cannot change", e.subject(), e.From)
	}
	return fmt.Sprintf("%s is %s and cannot move to %s", e.subject(), e.From, e.To)
}

func (e *TransitionError) subject() string {
	if e.OrderNumber == "" {
		return "order"
	}
	return "order " + e.OrderNumber
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type ItemsUnavailableError struct {
	MenuItemIDs []uuid.UUID
}

func (e *ItemsUnavailableError) Error() string {
	ids := make([]string, len(e.MenuItemIDs))
	for i, id := range e.MenuItemIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("menu items unavailable: %s", strings.Join(ids, ", "))
}

func (e *ItemsUnavailableError) Is(target error) bool {
	return target == ErrItemsUnavailable
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
