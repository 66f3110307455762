package auth

import "fmt"

// Role is the closed set of user roles. Every role decision lives in policy.go.
type Role int

const (
	RoleUnknown Role = iota
	RoleHeadquarter
	RoleWarehouse
	RoleStore
)

// ParseRole accepts the stored role strings. "headquarters" is an alias of "headquarter".
func ParseRole(s string) (Role, error) {
	switch s {
	case "headquarter", "headquarters":
		return RoleHeadquarter, nil
	case "warehouse":
		return RoleWarehouse, nil
	case "store":
		return RoleStore, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role %q", s)
	}
}

// String returns the canonical stored form.
func (r Role) String() string {
	switch r {
	case RoleHeadquarter:
		return "headquarter"
	case RoleWarehouse:
		return "warehouse"
	case RoleStore:
		return "store"
	default:
		return "unknown"
	}
}
