// Package orderrepo persists order aggregates in Postgres. Line items, the
// delivery address, the status history, and ratings are stored as jsonb
// documents on the orders row, so the tracking queries can serve them without
// joins.
package orderrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// JSONB is a raw jsonb column. GORM would otherwise send []byte as bytea.
type JSONB []byte

// Value implements driver.Valuer. Empty documents are stored as NULL.
func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner.
func (j *JSONB) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONB", value)
	}
	return nil
}

// OrderDTO is the database shape of an order aggregate.
type OrderDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber  string     `gorm:"uniqueIndex"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;index"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;index"`
	DriverID     *uuid.UUID `gorm:"type:uuid;index"`
	Status       string     `gorm:"index"`

	Items   JSONB `gorm:"type:jsonb"`
	Address JSONB `gorm:"type:jsonb"`
	History JSONB `gorm:"type:jsonb"`

	DeliveryFee int64
	Tax         int64
	Discount    int64
	FinalAmount int64

	PrepMinutes     int
	DeliveryMinutes int

	RestaurantRating JSONB `gorm:"type:jsonb"`
	DriverRating     JSONB `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// The jsonb document shapes. Keys are part of the read model contract: the
// tracking queries unmarshal these columns directly into their responses.
type itemDoc struct {
	Name         string `json:"name"`
	UnitPrice    int64  `json:"unitPrice"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

type addressDoc struct {
	Street  string  `json:"street"`
	City    string  `json:"city"`
	ZipCode string  `json:"zipCode"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

type historyEntryDoc struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

type ratingDoc struct {
	Value   int    `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(o *order.Order) (OrderDTO, error) {
	items := make([]itemDoc, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, itemDoc{
			Name:         item.Name(),
			UnitPrice:    item.UnitPrice(),
			Quantity:     item.Quantity(),
			Instructions: item.Instructions(),
		})
	}

	history := make([]historyEntryDoc, 0, len(o.History()))
	for _, entry := range o.History() {
		history = append(history, historyEntryDoc{
			Status:    entry.Status.String(),
			Timestamp: entry.Timestamp,
			Note:      entry.Note,
		})
	}

	addr := o.Address()
	coords := addr.Coords()

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}
	addressJSON, err := json.Marshal(addressDoc{
		Street:  addr.Street(),
		City:    addr.City(),
		ZipCode: addr.ZipCode(),
		Lat:     coords.Lat,
		Lng:     coords.Lng,
	})
	if err != nil {
		return OrderDTO{}, err
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return OrderDTO{}, err
	}

	var driverID *uuid.UUID
	if id := o.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	restaurantRating, err := marshalRating(o.RestaurantRating())
	if err != nil {
		return OrderDTO{}, err
	}
	driverRating, err := marshalRating(o.DriverRating())
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:               o.ID().Bytes(),
		OrderNumber:      o.OrderNumber(),
		CustomerID:       o.CustomerID().Bytes(),
		RestaurantID:     o.RestaurantID().Bytes(),
		DriverID:         driverID,
		Status:           o.Status().String(),
		Items:            itemsJSON,
		Address:          addressJSON,
		History:          historyJSON,
		DeliveryFee:      o.DeliveryFee(),
		Tax:              o.Tax(),
		Discount:         o.Discount(),
		FinalAmount:      o.FinalAmount(),
		PrepMinutes:      o.PrepMinutes(),
		DeliveryMinutes:  o.DeliveryMinutes(),
		RestaurantRating: restaurantRating,
		DriverRating:     driverRating,
	}, nil
}

func marshalRating(r *order.Rating) (JSONB, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(ratingDoc{Value: r.Value, Comment: r.Comment})
}

// toDomain reconstructs the aggregate through RestoreOrder, which re-checks
// every invariant so a corrupt row surfaces as an error instead of entering
// the domain.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var itemDocs []itemDoc
	if err = json.Unmarshal(dto.Items, &itemDocs); err != nil {
		return nil, err
	}
	items := make([]order.Item, 0, len(itemDocs))
	for _, doc := range itemDocs {
		item, itemErr := order.NewItem(doc.Name, doc.UnitPrice, doc.Quantity, doc.Instructions)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var addrDoc addressDoc
	if err = json.Unmarshal(dto.Address, &addrDoc); err != nil {
		return nil, err
	}
	address, err := kernel.NewAddress(addrDoc.Street, addrDoc.City, addrDoc.ZipCode,
		kernel.Coordinates{Lat: addrDoc.Lat, Lng: addrDoc.Lng})
	if err != nil {
		return nil, err
	}

	var historyDocs []historyEntryDoc
	if err = json.Unmarshal(dto.History, &historyDocs); err != nil {
		return nil, err
	}
	history := make([]order.HistoryEntry, 0, len(historyDocs))
	for _, doc := range historyDocs {
		entryStatus, entryErr := order.StatusFromString(doc.Status)
		if entryErr != nil {
			return nil, entryErr
		}
		history = append(history, order.HistoryEntry{
			Status:    entryStatus,
			Timestamp: doc.Timestamp,
			Note:      doc.Note,
		})
	}

	restaurantRating, err := unmarshalRating(dto.RestaurantRating)
	if err != nil {
		return nil, err
	}
	driverRating, err := unmarshalRating(dto.DriverRating)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:               id,
		OrderNumber:      dto.OrderNumber,
		CustomerID:       customerID,
		RestaurantID:     restaurantID,
		DriverID:         driverID,
		Items:            items,
		Address:          address,
		DeliveryFee:      dto.DeliveryFee,
		Tax:              dto.Tax,
		Discount:         dto.Discount,
		FinalAmount:      dto.FinalAmount,
		Status:           status,
		History:          history,
		PrepMinutes:      dto.PrepMinutes,
		DeliveryMinutes:  dto.DeliveryMinutes,
		RestaurantRating: restaurantRating,
		DriverRating:     driverRating,
	})
}

func unmarshalRating(raw JSONB) (*order.Rating, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc ratingDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &order.Rating{Value: doc.Value, Comment: doc.Comment}, nil
}
