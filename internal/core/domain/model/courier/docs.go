// Package courier provides the courier directory entry used to address the courier pool.
//
// The package includes:
//   - Courier: a registered courier with a duty flag
//
// Key business rules:
//   - couriers must have a valid identifier and a non-empty name
//   - only couriers on duty are notified about orders that become ready for pickup
//   - a courier binds to an order by picking it up; the directory does not assign orders
package courier
