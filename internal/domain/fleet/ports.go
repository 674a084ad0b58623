package fleet

import (
	"context"
	"time"
)

// FleetRepository defines persistence operations for setups and roles.
//
// Every mutating method is a single atomic unit of work; invariants that span rows
// (single active setup, BR budget, no orphaned approved captain) are enforced by the
// store, not by a prior read.
type FleetRepository interface {
	// AppendSetup persists setup with the next free setup order of its battle
	AppendSetup(ctx context.Context, setup *FleetSetup) error

	FindSetup(ctx context.Context, id string) (*FleetSetup, error)
	ListSetups(ctx context.Context, battleID string) ([]*FleetSetup, error)

	// ActivateSetup deactivates every sibling and activates setupID in one transaction
	ActivateSetup(ctx context.Context, battleID, setupID string) error

	// AddRole inserts role and raises the setup's BR total by role.BRValue() only if
	// the new total stays within the battle's stored BR limit; otherwise returns a
	// BudgetExceededError and leaves the setup unchanged
	AddRole(ctx context.Context, role *FleetRole) error

	// ChangeRoleShip swaps the ship of a role under the same budget rule
	ChangeRoleShip(ctx context.Context, roleID, shipName string, brValue int) error

	// RemoveRole deletes a role unless it has an approved signup; pending signups
	// of the role are denied by actorID at the given time in the same transaction.
	// Returns the ids of the denied signups.
	RemoveRole(ctx context.Context, roleID, actorID, reason string, at time.Time) ([]string, error)

	FindRole(ctx context.Context, id string) (*FleetRole, error)
	ListRoles(ctx context.Context, setupID string) ([]*FleetRole, error)
}
