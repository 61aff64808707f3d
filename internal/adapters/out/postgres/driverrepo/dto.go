// Package driverrepo persists driver aggregates in Postgres.
package driverrepo

import (
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/driver"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO is the database shape of a driver aggregate. The availability
// flags are indexed together because eligibility lookups filter on all three
// columns at once.
type DriverDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name           string
	Vehicle        string
	Online         bool       `gorm:"index:idx_drivers_eligible"`
	Verified       bool       `gorm:"index:idx_drivers_eligible"`
	CurrentOrderID *uuid.UUID `gorm:"type:uuid;index:idx_drivers_eligible"`
	LocationLat    *float64
	LocationLng    *float64
	LocationAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming to use "drivers".
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver aggregate to its database representation.
func fromDomain(d *driver.Driver) DriverDTO {
	var currentOrderID *uuid.UUID
	if id := d.CurrentOrder(); id != nil {
		raw := id.Bytes()
		currentOrderID = &raw
	}

	var lat, lng *float64
	if loc := d.LastLocation(); loc != nil {
		latVal, lngVal := loc.Lat, loc.Lng
		lat, lng = &latVal, &lngVal
	}

	return DriverDTO{
		ID:             d.ID().Bytes(),
		Name:           d.Name(),
		Vehicle:        d.Vehicle().String(),
		Online:         d.IsOnline(),
		Verified:       d.IsVerified(),
		CurrentOrderID: currentOrderID,
		LocationLat:    lat,
		LocationLng:    lng,
		LocationAt:     d.LocationAt(),
	}
}

// toDomain converts a database DTO to a driver aggregate.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	vehicle, err := driver.VehicleTypeFromString(dto.Vehicle)
	if err != nil {
		return nil, err
	}

	var currentOrder *kernel.UUID
	if dto.CurrentOrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.CurrentOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		currentOrder = &oID
	}

	var lastLocation *kernel.Coordinates
	if dto.LocationLat != nil && dto.LocationLng != nil {
		lastLocation = &kernel.Coordinates{Lat: *dto.LocationLat, Lng: *dto.LocationLng}
	}

	return driver.RestoreDriver(driver.RestoreDriverParams{
		ID:           id,
		Name:         dto.Name,
		Vehicle:      vehicle,
		Online:       dto.Online,
		Verified:     dto.Verified,
		CurrentOrder: currentOrder,
		LastLocation: lastLocation,
		LocationAt:   dto.LocationAt,
	})
}
