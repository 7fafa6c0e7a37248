// Package order provides the Order aggregate and the order lifecycle state machine.
//
// The package includes:
//   - Order: aggregate root holding line items, totals, parties, status and version
//   - Status: lifecycle states preparing -> ready -> pickup -> delivered -> completed, plus cancelled
//   - Role: the actor kinds that may request transitions
//   - the transition table: a single map from (status, role) to permitted targets
//
// Key business rules:
//   - total == subtotal + delivery fee; items are non-empty and quantities are >= 1
//   - status only advances along the transition table; cancelled is the only non-forward edge
//   - completed and cancelled are terminal; replaying the exact terminal transition is idempotent
//   - every accepted transition increments the version used for optimistic concurrency
package order
