package driver

import (
	"errors"
	"fmt"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/pkg/errs"
	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

// Domain errors for driver operations.
var (
	// ErrDriverIsNotConstructed is returned when using an improperly
	// initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")

	// ErrDriverNotEligible is returned when an offline, unverified, or busy
	// driver tries to take an order.
	ErrDriverNotEligible = errors.New("driver is not eligible for assignment")

	// ErrDriverBusy is returned when a driver with an active delivery tries
	// to go offline or take another order.
	ErrDriverBusy = errors.New("driver has an active delivery")

	// ErrNoActiveDelivery is returned when completing a delivery the driver
	// does not carry.
	ErrNoActiveDelivery = errors.New("driver has no active delivery")
)

// VehicleType identifies how the driver moves.
type VehicleType int

const (
	// VehicleUnknown represents an invalid or undefined vehicle.
	VehicleUnknown VehicleType = iota
	// VehicleBicycle is a bicycle.
	VehicleBicycle
	// VehicleMotorbike is a motorbike or scooter.
	VehicleMotorbike
	// VehicleCar is a car.
	VehicleCar
)

func getVehicleTypeStrings() map[VehicleType]string {
	return map[VehicleType]string{
		VehicleUnknown:   "unknown",
		VehicleBicycle:   "bicycle",
		VehicleMotorbike: "motorbike",
		VehicleCar:       "car",
	}
}

// VehicleTypeFromString parses the wire representation ("bicycle", ...).
func VehicleTypeFromString(s string) (VehicleType, error) {
	for v, str := range getVehicleTypeStrings() {
		if v != VehicleUnknown && str == s {
			return v, nil
		}
	}
	return VehicleUnknown, errs.NewValueIsInvalidErrorWithCause("vehicleType",
		fmt.Errorf("%q is not a valid vehicle type", s))
}

// String returns the wire name of the vehicle type.
func (v VehicleType) String() string {
	if str, ok := getVehicleTypeStrings()[v]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects VehicleUnknown and out-of-range values.
func (v VehicleType) Validate() error {
	if v == VehicleUnknown {
		return errs.NewValueIsInvalidErrorWithCause("vehicleType",
			fmt.Errorf("%d is not a valid vehicle type", int(v)))
	}
	if _, ok := getVehicleTypeStrings()[v]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("vehicleType",
			fmt.Errorf("%d is not a valid vehicle type", int(v)))
	}
	return nil
}

// Driver is the aggregate tracking a delivery driver's availability and
// current work. A driver is eligible for assignment offers only while online,
// verified, and not already carrying an order. The aggregate holds at most
// one active order at a time.
//
// The assignment race itself is decided by the store's conditional update,
// not here. BeginDelivery records the locally observed outcome and guards
// against double-booking within a single process.
type Driver struct {
	id           kernel.UUID
	name         string
	vehicle      VehicleType
	online       bool
	verified     bool
	currentOrder *kernel.UUID
	lastLocation *kernel.Coordinates
	locationAt   *time.Time
	guard        guard.ConstructorGuard
}

// NewDriver creates a freshly registered driver: offline, unverified, and
// without an active order.
func NewDriver(id kernel.UUID, name string, vehicle VehicleType) (*Driver, error) {
	d := &Driver{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriverParams carries a persisted driver snapshot.
type RestoreDriverParams struct {
	ID           kernel.UUID
	Name         string
	Vehicle      VehicleType
	Online       bool
	Verified     bool
	CurrentOrder *kernel.UUID
	LastLocation *kernel.Coordinates
	LocationAt   *time.Time
}

// RestoreDriver reconstructs a Driver from persistent storage, re-validating
// the snapshot's consistency.
func RestoreDriver(params RestoreDriverParams) (*Driver, error) {
	d := &Driver{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(params.ID),
		d.setName(params.Name),
		d.setVehicle(params.Vehicle),
	); err != nil {
		return nil, err
	}

	if params.CurrentOrder != nil {
		if err := params.CurrentOrder.Validate(); err != nil {
			return nil, err
		}
		if !params.Online {
			return nil, errs.NewValueIsInvalidErrorWithCause("currentOrder",
				errors.New("offline driver cannot carry an active order"))
		}
	}
	if params.LastLocation != nil {
		if err := params.LastLocation.Validate(); err != nil {
			return nil, err
		}
	}

	d.online = params.Online
	d.verified = params.Verified
	d.currentOrder = params.CurrentOrder
	d.lastLocation = params.LastLocation
	d.locationAt = params.LocationAt
	return d, nil
}

// IsEqual compares two drivers by identity.
func (d *Driver) IsEqual(other *Driver) bool {
	if other == nil {
		return false
	}
	return d.id.IsEqual(other.id)
}

// Validate checks the Driver was built via a constructor. The zero value
// fails.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID { return d.id }

// Name returns the driver's display name.
func (d *Driver) Name() string { return d.name }

// Vehicle returns the driver's vehicle type.
func (d *Driver) Vehicle() VehicleType { return d.vehicle }

// IsOnline reports whether the driver is accepting work.
func (d *Driver) IsOnline() bool { return d.online }

// IsVerified reports whether the driver passed document verification.
func (d *Driver) IsVerified() bool { return d.verified }

// CurrentOrder returns the active order, or nil when the driver is free.
func (d *Driver) CurrentOrder() *kernel.UUID { return d.currentOrder }

// LastLocation returns the most recent reported position, or nil if the
// driver never reported one.
func (d *Driver) LastLocation() *kernel.Coordinates { return d.lastLocation }

// LocationAt returns when the last position was reported.
func (d *Driver) LocationAt() *time.Time { return d.locationAt }

// IsEligible reports whether the driver may receive assignment offers:
// online, verified, and not carrying an order.
func (d *Driver) IsEligible() bool {
	return d.online && d.verified && d.currentOrder == nil
}

// Verify marks the driver as having passed document verification.
func (d *Driver) Verify() {
	d.verified = true
}

// GoOnline puts the driver into the assignment pool.
func (d *Driver) GoOnline() {
	d.online = true
}

// GoOffline removes the driver from the pool. A driver carrying an active
// order must finish it first.
func (d *Driver) GoOffline() error {
	if d.currentOrder != nil {
		return fmt.Errorf("%w: order %s", ErrDriverBusy, d.currentOrder)
	}
	d.online = false
	return nil
}

// BeginDelivery binds the driver to an order after winning the assignment.
// The driver must be eligible at the moment of binding.
func (d *Driver) BeginDelivery(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if d.currentOrder != nil {
		return fmt.Errorf("%w: order %s", ErrDriverBusy, d.currentOrder)
	}
	if !d.IsEligible() {
		return ErrDriverNotEligible
	}

	d.currentOrder = &orderID
	return nil
}

// CompleteDelivery releases the driver from the given order, returning them
// to the eligible pool. The order must be the one currently carried.
func (d *Driver) CompleteDelivery(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if d.currentOrder == nil || !d.currentOrder.IsEqual(orderID) {
		return fmt.Errorf("%w: order %s", ErrNoActiveDelivery, orderID)
	}

	d.currentOrder = nil
	return nil
}

// UpdateLocation records a position report with its server receipt time.
func (d *Driver) UpdateLocation(coords kernel.Coordinates, at time.Time) error {
	if err := coords.Validate(); err != nil {
		return err
	}

	at = at.UTC()
	d.lastLocation = &coords
	d.locationAt = &at
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}

	d.name = name
	return nil
}

func (d *Driver) setVehicle(vehicle VehicleType) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}

	d.vehicle = vehicle
	return nil
}
