package order

import (
	"fmt"

	"orderledger/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	preparing ──> ready ──> pickup ──> delivered ──> completed
//	    │           │          │           │
//	    └───────────┴──────────┴───────────┴──> cancelled (admin override)
type Status string

const (
	Preparing Status = "preparing"
	Ready     Status = "ready"
	Pickup    Status = "pickup"
	Delivered Status = "delivered"
	Completed Status = "completed"
	Cancelled Status = "cancelled"
)

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Preparing, Ready, Pickup, Delivered, Completed, Cancelled}
}

// forwardSteps maps each non-terminal status to its single forward successor.
func forwardSteps() map[Status]Status {
	return map[Status]Status{
		Preparing: Ready,
		Ready:     Pickup,
		Pickup:    Delivered,
		Delivered: Completed,
	}
}

// ParseStatus converts a wire value into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s Status) Validate() error {
	for _, valid := range AllStatuses() {
		if s == valid {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// Next returns the forward successor of s, if any.
func (s Status) Next() (Status, bool) {
	next, ok := forwardSteps()[s]
	return next, ok
}
