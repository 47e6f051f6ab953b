package staff

import "github.com/google/uuid"

type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
	RoleWaiter  Role = "waiter"
	RoleChef    Role = "chef"
)

type Member struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Role         Role
}
