// Package services provides domain services that span several aggregates of the
// marketplace core.
//
// The package includes:
//   - CommissionPolicy: splits a completed order into seller and courier earnings and the
//     matching platform fee posting
//   - NotificationPlanner: decides who is told about an order transition, a settlement or a
//     manual wallet posting
//
// Both services are pure: they never touch storage and their output is persisted by the
// calling use case inside its unit of work.
package services
