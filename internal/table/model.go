package table

import "github.com/google/uuid"

type Status string

const (
	StatusAvailable Status = "available"
	StatusOccupied  Status = "occupied"
	StatusReserved  Status = "reserved"
)

type Table struct {
	ID               uuid.UUID
	RestaurantID     uuid.UUID
	Number           string
	Status           Status
	AssignedWaiterID *uuid.UUID
}
