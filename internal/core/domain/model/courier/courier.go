package courier

import (
	"errors"
	"strings"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var (
	ErrNameIsRequired          = errs.NewValueIsRequiredError("name")
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier is a directory entry for a delivery driver.
type Courier struct {
	id        kernel.UUID
	name      string
	onDuty    bool
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

// NewCourier registers a courier who starts off duty.
func NewCourier(id kernel.UUID, name string, now time.Time) (*Courier, error) {
	return RestoreCourier(id, name, false, now)
}

func RestoreCourier(id kernel.UUID, name string, onDuty bool, updatedAt time.Time) (*Courier, error) {
	courier := &Courier{
		onDuty:    onDuty,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) IsOnDuty() bool {
	return c.onDuty
}

func (c *Courier) UpdatedAt() time.Time {
	return c.updatedAt
}

// Rename changes the display name.
func (c *Courier) Rename(name string, now time.Time) error {
	if err := c.setName(name); err != nil {
		return err
	}
	c.updatedAt = now
	return nil
}

// SetOnDuty toggles whether the courier receives ready-for-pickup notifications.
func (c *Courier) SetOnDuty(onDuty bool, now time.Time) {
	c.onDuty = onDuty
	c.updatedAt = now
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
