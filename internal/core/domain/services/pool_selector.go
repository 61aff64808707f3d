package services

import (
	"errors"
	"math"
	"sort"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/driver"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
)

// ErrEmptyPool is returned when no driver qualifies for the offer pool.
var ErrEmptyPool = errors.New("no eligible drivers for this order")

const earthRadiusKm = 6371.0

// PoolSelector is a domain service that computes which drivers should be
// offered a ready order. A driver qualifies only while online, verified, and
// free of an active delivery. Qualified drivers with a known position are
// ordered nearest-first to the delivery address; drivers who never reported
// a position come last, in input order.
//
// The selector only builds the offer pool. Winning the order is a separate,
// store-arbitrated race among the drivers that respond.
type PoolSelector struct {
	// maxRadiusKm excludes located drivers farther than this from the
	// delivery address. Zero disables the radius cut.
	maxRadiusKm float64
}

// NewPoolSelector creates a selector with the given offer radius in
// kilometers. Pass 0 to offer to every eligible driver regardless of
// distance.
func NewPoolSelector(maxRadiusKm float64) PoolSelector {
	return PoolSelector{maxRadiusKm: maxRadiusKm}
}

// SelectPool returns the drivers to offer the order to, nearest first.
func (p PoolSelector) SelectPool(o *order.Order, drivers []*driver.Driver) ([]*driver.Driver, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	dest := o.Address().Coords()

	type candidate struct {
		driver     *driver.Driver
		distanceKm float64
		located    bool
	}

	var pool []candidate
	for _, d := range drivers {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if !d.IsEligible() {
			continue
		}

		c := candidate{driver: d}
		if loc := d.LastLocation(); loc != nil {
			c.located = true
			c.distanceKm = haversineKm(*loc, dest)
			if p.maxRadiusKm > 0 && c.distanceKm > p.maxRadiusKm {
				continue
			}
		}
		pool = append(pool, c)
	}

	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].located != pool[j].located {
			return pool[i].located
		}
		return pool[i].distanceKm < pool[j].distanceKm
	})

	out := make([]*driver.Driver, len(pool))
	for i, c := range pool {
		out[i] = c.driver
	}
	return out, nil
}

// haversineKm returns the great-circle distance between two points.
func haversineKm(a, b kernel.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
