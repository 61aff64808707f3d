package kernel

import (
	"fmt"

	"github.com/Devmatrix25/SmartEats/internal/pkg/errs"
)

// Role identifies the kind of actor issuing a request or holding a session.
// The state machine authorizes transitions per role, and the realtime layer
// derives group membership from it (drivers join the drivers group,
// restaurant staff join their restaurant's group).
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleCustomer places orders and may cancel them before pickup.
	RoleCustomer

	// RoleRestaurant confirms, rejects, prepares, and readies orders.
	RoleRestaurant

	// RoleDriver accepts ready orders and drives them to delivery.
	RoleDriver

	// RoleAdmin may force any legal transition for support purposes.
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:    "unknown",
		RoleCustomer:   "customer",
		RoleRestaurant: "restaurant",
		RoleDriver:     "driver",
		RoleAdmin:      "admin",
	}
}

// RoleFromString parses the wire representation of a role.
func RoleFromString(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if role != RoleUnknown && str == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", s))
}

// Validate rejects RoleUnknown and out-of-range values.
func (r Role) Validate() error {
	if r == RoleUnknown {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", int(r)))
	}
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", int(r)))
	}
	return nil
}

// String implements fmt.Stringer; safe on any value.
func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}
