package order

type transitionKey struct {
	from Status
	role Role
}

// transitionTable is the single source of truth for who may move an order where.
// Any (status, role, target) triple not listed here is an invalid transition.
var transitionTable = map[transitionKey][]Status{
	{Preparing, RoleSeller}: {Ready},
	{Ready, RoleCourier}:    {Pickup},
	{Pickup, RoleCourier}:   {Delivered},
	{Delivered, RoleBuyer}:  {Completed},
	{Delivered, RoleSystem}: {Completed},
	{Preparing, RoleAdmin}:  {Ready, Cancelled},
	{Ready, RoleAdmin}:      {Pickup, Cancelled},
	{Pickup, RoleAdmin}:     {Delivered, Cancelled},
	{Delivered, RoleAdmin}:  {Completed, Cancelled},
}

// AllowedTargets returns the statuses role may move an order to from status from.
func AllowedTargets(from Status, role Role) []Status {
	targets := transitionTable[transitionKey{from: from, role: role}]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// CanTransition reports whether the edge from -> to is permitted for role.
func CanTransition(from Status, role Role, to Status) bool {
	for _, target := range transitionTable[transitionKey{from: from, role: role}] {
		if target == to {
			return true
		}
	}
	return false
}
