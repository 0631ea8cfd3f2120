package domain

import "fmt"

// Role of the caller as claimed by the identity provider
type Role string

const (
	RolePatient Role = "patient"
	RoleStaff   Role = "staff"

	// RoleSystem is used by background jobs and is never accepted from clients
	RoleSystem Role = "system"
)

// SystemActorID identifies transitions made by background jobs
const SystemActorID = "system"

// Actor is the caller of a mutating operation
type Actor struct {
	ID   string
	Role Role
}

// SystemActor returns the actor used by background jobs
func SystemActor() Actor {
	return Actor{ID: SystemActorID, Role: RoleSystem}
}

// ParseClientRole parses a role supplied by a client. RoleSystem is rejected.
func ParseClientRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleStaff:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

func (a Actor) IsPatient() bool {
	return a.Role == RolePatient
}

func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem
}

// Validate checks that the actor carries an id and a known role
func (a Actor) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}
	switch a.Role {
	case RolePatient, RoleStaff, RoleSystem:
		return nil
	default:
		return fmt.Errorf("%w: unknown actor role %q", ErrInvalidInput, a.Role)
	}
}
