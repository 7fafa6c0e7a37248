package order

import (
	"fmt"

	"orderledger/internal/pkg/errs"
)

// Role identifies which kind of actor requests a transition. It is derived from the
// caller's session, never from request payloads.
type Role string

const (
	RoleBuyer   Role = "buyer"
	RoleSeller  Role = "seller"
	RoleCourier Role = "courier"
	RoleAdmin   Role = "admin"
	RoleSystem  Role = "system"
)

// AllRoles lists every role known to the transition table.
func AllRoles() []Role {
	return []Role{RoleBuyer, RoleSeller, RoleCourier, RoleAdmin, RoleSystem}
}

func ParseRole(s string) (Role, error) {
	role := Role(s)
	if err := role.Validate(); err != nil {
		return "", err
	}
	return role, nil
}

func (r Role) Validate() error {
	for _, valid := range AllRoles() {
		if r == valid {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", string(r)))
}

func (r Role) String() string {
	return string(r)
}
