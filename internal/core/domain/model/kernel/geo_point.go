package kernel

import (
	"errors"
	"fmt"
	"time"

	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when validating a zero-value GeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is a courier position stamped with the time it was recorded on the device.
// It is an immutable value object.
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude   float64
	longitude  float64
	recordedAt time.Time
	guard      guard.ConstructorGuard
}

// NewGeoPoint validates coordinate ranges and a non-zero timestamp.
//
// Example:
//
//	p, err := kernel.NewGeoPoint(-6.2088, 106.8456, time.Now())
func NewGeoPoint(latitude, longitude float64, recordedAt time.Time) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		p.setLatitude(latitude),
		p.setLongitude(longitude),
		p.setRecordedAt(recordedAt),
	); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

func (p GeoPoint) RecordedAt() time.Time {
	return p.recordedAt
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f@%s)", p.latitude, p.longitude, p.recordedAt.Format(time.RFC3339))
}

func (p *GeoPoint) setLatitude(v float64) error {
	if v < LatitudeMin || v > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", v, LatitudeMin, LatitudeMax)
	}
	p.latitude = v
	return nil
}

func (p *GeoPoint) setLongitude(v float64) error {
	if v < LongitudeMin || v > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", v, LongitudeMin, LongitudeMax)
	}
	p.longitude = v
	return nil
}

func (p *GeoPoint) setRecordedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("recordedAt")
	}
	p.recordedAt = at.UTC()
	return nil
}
