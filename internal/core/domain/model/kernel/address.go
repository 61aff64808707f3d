package kernel

import (
	"errors"
	"fmt"

	"github.com/Devmatrix25/SmartEats/internal/pkg/errs"
	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when validating a zero-value Address.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Coordinates is a WGS84 latitude/longitude pair. The zero value (0, 0) is
// treated as "unknown" rather than invalid, since clients may omit geocoding.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Validate checks the pair is within the valid geographic range.
func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return errs.NewValueIsInvalidErrorWithCause("latitude",
			fmt.Errorf("%f is outside [-90, 90]", c.Lat))
	}
	if c.Lng < -180 || c.Lng > 180 {
		return errs.NewValueIsInvalidErrorWithCause("longitude",
			fmt.Errorf("%f is outside [-180, 180]", c.Lng))
	}
	return nil
}

// IsZero reports whether the coordinates were never set.
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// Address is the delivery destination for an order: a street address plus
// optional geocoded coordinates. Immutable value object; use NewAddress.
//
// Example:
//
//	addr, err := kernel.NewAddress("12 Baker St", "London", "NW1 6XE",
//	    kernel.Coordinates{Lat: 51.52, Lng: -0.15})
type Address struct { //nolint:recvcheck //using for validation
	street  string
	city    string
	zipCode string
	coords  Coordinates
	guard   guard.ConstructorGuard
}

// NewAddress creates a validated Address. Street is required; city and zip
// are free-form; coordinates, when non-zero, must be in range.
func NewAddress(street, city, zipCode string, coords Coordinates) (Address, error) {
	addr := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		addr.setStreet(street),
		addr.setCityZip(city, zipCode),
		addr.setCoords(coords),
	); err != nil {
		return Address{}, err
	}

	return addr, nil
}

// Street returns the street line of the address.
func (a Address) Street() string { return a.street }

// City returns the city of the address.
func (a Address) City() string { return a.city }

// ZipCode returns the postal code of the address.
func (a Address) ZipCode() string { return a.zipCode }

// Coords returns the geocoded coordinates; may be zero when unknown.
func (a Address) Coords() Coordinates { return a.coords }

// Validate ensures the address was built via NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s %s", a.street, a.city, a.zipCode)
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setCityZip(city, zipCode string) error {
	a.city = city
	a.zipCode = zipCode
	return nil
}

func (a *Address) setCoords(coords Coordinates) error {
	if !coords.IsZero() {
		if err := coords.Validate(); err != nil {
			return err
		}
	}
	a.coords = coords
	return nil
}
