// Package http is the REST gateway. Handlers translate requests into
// commands and queries, and domain errors into HTTP status codes. Live
// updates go out over the websocket gateway, not from here.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/application/usecases/commands"
	"github.com/Devmatrix25/SmartEats/internal/core/application/usecases/queries"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/driver"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"
	"github.com/Devmatrix25/SmartEats/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server holds the command and query handlers behind the REST routes.
type Server struct {
	createOrderHandler     commands.CreateOrderCommandHandler
	transitionHandler      commands.RequestTransitionCommandHandler
	acceptHandler          commands.AcceptAssignmentCommandHandler
	availabilityHandler    commands.SetDriverAvailabilityCommandHandler
	locationHandler        commands.UpdateDriverLocationCommandHandler
	rateOrderHandler       commands.RateOrderCommandHandler
	getOrderHandler        queries.GetOrderQueryHandler
	availableOrdersHandler queries.GetAvailableOrdersQueryHandler
}

// NewServer creates the REST gateway.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionHandler commands.RequestTransitionCommandHandler,
	acceptHandler commands.AcceptAssignmentCommandHandler,
	availabilityHandler commands.SetDriverAvailabilityCommandHandler,
	locationHandler commands.UpdateDriverLocationCommandHandler,
	rateOrderHandler commands.RateOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	availableOrdersHandler queries.GetAvailableOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		transitionHandler:      transitionHandler,
		acceptHandler:          acceptHandler,
		availabilityHandler:    availabilityHandler,
		locationHandler:        locationHandler,
		rateOrderHandler:       rateOrderHandler,
		getOrderHandler:        getOrderHandler,
		availableOrdersHandler: availableOrdersHandler,
	}
}

// RegisterRoutes attaches all REST routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/available", s.GetAvailableOrders)
	api.GET("/orders/:number", s.GetOrder)
	api.POST("/orders/:id/transition", s.RequestTransition)
	api.POST("/orders/:id/accept", s.AcceptAssignment)
	api.POST("/orders/:id/rate", s.RateOrder)
	api.PUT("/drivers/:id/availability", s.SetDriverAvailability)
	api.POST("/drivers/:id/location", s.UpdateDriverLocation)
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func fail(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, errorResponse{Code: code, Message: message})
}

// domainError maps core errors onto HTTP statuses. Unknown errors become 500.
func domainError(ctx echo.Context, err error) error {
	var notFound *errs.ObjectNotFoundError
	switch {
	case errors.As(err, &notFound):
		return fail(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrUnauthorizedTransition):
		return fail(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, ports.ErrAssignmentConflict),
		errors.Is(err, driver.ErrDriverBusy),
		errors.Is(err, order.ErrOrderNotDelivered):
		return fail(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid):
		return fail(ctx, http.StatusBadRequest, err.Error())
	default:
		return fail(ctx, http.StatusInternalServerError, "internal error")
	}
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// orderSnapshotResponse is the committed order state returned by mutating
// endpoints, the caller's authoritative view after the operation.
type orderSnapshotResponse struct {
	ID                string     `json:"id"`
	OrderNumber       string     `json:"orderNumber"`
	Status            string     `json:"status"`
	CustomerID        string     `json:"customerId"`
	RestaurantID      string     `json:"restaurantId"`
	DriverID          *string    `json:"driverId,omitempty"`
	Subtotal          int64      `json:"subtotal"`
	DeliveryFee       int64      `json:"deliveryFee"`
	Tax               int64      `json:"tax"`
	Discount          int64      `json:"discount"`
	FinalAmount       int64      `json:"finalAmount"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
}

func orderSnapshot(o *order.Order) orderSnapshotResponse {
	resp := orderSnapshotResponse{
		ID:                o.ID().String(),
		OrderNumber:       o.OrderNumber(),
		Status:            o.Status().String(),
		CustomerID:        o.CustomerID().String(),
		RestaurantID:      o.RestaurantID().String(),
		Subtotal:          o.Subtotal(),
		DeliveryFee:       o.DeliveryFee(),
		Tax:               o.Tax(),
		Discount:          o.Discount(),
		FinalAmount:       o.FinalAmount(),
		EstimatedDelivery: o.EstimatedDelivery(time.Now()),
	}
	if o.DriverID() != nil {
		s := o.DriverID().String()
		resp.DriverID = &s
	}
	return resp
}

type createOrderRequest struct {
	CustomerID   string `json:"customerId"`
	RestaurantID string `json:"restaurantId"`
	Items        []struct {
		Name         string `json:"name"`
		UnitPrice    int64  `json:"unitPrice"`
		Quantity     int    `json:"quantity"`
		Instructions string `json:"instructions"`
	} `json:"items"`
	Address struct {
		Street  string  `json:"street"`
		City    string  `json:"city"`
		ZipCode string  `json:"zipCode"`
		Lat     float64 `json:"lat"`
		Lng     float64 `json:"lng"`
	} `json:"address"`
	DeliveryFee     int64  `json:"deliveryFee"`
	Tax             int64  `json:"tax"`
	Discount        int64  `json:"discount"`
	PrepMinutes     int    `json:"prepMinutes"`
	DeliveryMinutes int    `json:"deliveryMinutes"`
	PaymentRef      string `json:"paymentRef"`
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid customerId")
	}
	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid restaurantId")
	}

	items := make([]commands.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, commands.ItemInput{
			Name:         item.Name,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			Instructions: item.Instructions,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, restaurantID, items,
		commands.AddressInput{
			Street:  req.Address.Street,
			City:    req.Address.City,
			ZipCode: req.Address.ZipCode,
			Lat:     req.Address.Lat,
			Lng:     req.Address.Lng,
		},
		commands.PricingInput{
			DeliveryFee:     req.DeliveryFee,
			Tax:             req.Tax,
			Discount:        req.Discount,
			PrepMinutes:     req.PrepMinutes,
			DeliveryMinutes: req.DeliveryMinutes,
		},
		req.PaymentRef)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": orderID.String()})
}

type transitionRequest struct {
	ActorID string `json:"actorId"`
	Role    string `json:"role"`
	Target  string `json:"target"`
	Note    string `json:"note"`
}

// RequestTransition handles POST /api/v1/orders/:id/transition - moves an
// order through its lifecycle on behalf of an actor.
func (s *Server) RequestTransition(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid order id")
	}

	var req transitionRequest
	if err = ctx.Bind(&req); err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid actorId")
	}
	role, err := kernel.RoleFromString(req.Role)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid role")
	}
	target, err := order.StatusFromString(req.Target)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid target status")
	}

	cmd, err := commands.NewRequestTransitionCommand(orderID, actorID, role, target, req.Note)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	o, err := s.transitionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderSnapshot(o))
}

type acceptRequest struct {
	DriverID string `json:"driverId"`
}

// AcceptAssignment handles POST /api/v1/orders/:id/accept - a driver claims
// an offered order. Exactly one concurrent accept per order succeeds; the
// rest get 409.
func (s *Server) AcceptAssignment(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid order id")
	}

	var req acceptRequest
	if err = ctx.Bind(&req); err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid request body")
	}
	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid driverId")
	}

	cmd, err := commands.NewAcceptAssignmentCommand(orderID, driverID)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	o, err := s.acceptHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderSnapshot(o))
}

type ratingBody struct {
	Value   int    `json:"value"`
	Comment string `json:"comment"`
}

type rateOrderRequest struct {
	CustomerID       string      `json:"customerId"`
	RestaurantRating *ratingBody `json:"restaurantRating"`
	DriverRating     *ratingBody `json:"driverRating"`
}

// RateOrder handles POST /api/v1/orders/:id/rate - records post-delivery
// ratings.
func (s *Server) RateOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid order id")
	}

	var req rateOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid request body")
	}
	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid customerId")
	}

	var restaurantRating, driverRating *order.Rating
	if req.RestaurantRating != nil {
		restaurantRating = &order.Rating{Value: req.RestaurantRating.Value, Comment: req.RestaurantRating.Comment}
	}
	if req.DriverRating != nil {
		driverRating = &order.Rating{Value: req.DriverRating.Value, Comment: req.DriverRating.Comment}
	}

	cmd, err := commands.NewRateOrderCommand(orderID, customerID, restaurantRating, driverRating)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.rateOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrder handles GET /api/v1/orders/:number - the public tracking view.
func (s *Server) GetOrder(ctx echo.Context) error {
	query, err := queries.NewGetOrderQuery(ctx.Param("number"))
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, resp)
}

// GetAvailableOrders handles GET /api/v1/orders/available - the offer list
// drivers poll when they come online.
func (s *Server) GetAvailableOrders(ctx echo.Context) error {
	resp, err := s.availableOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetAvailableOrdersQuery())
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, resp)
}

type availabilityRequest struct {
	Online bool `json:"online"`
}

// SetDriverAvailability handles PUT /api/v1/drivers/:id/availability.
func (s *Server) SetDriverAvailability(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid driver id")
	}

	var req availabilityRequest
	if err = ctx.Bind(&req); err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid request body")
	}

	cmd, err := commands.NewSetDriverAvailabilityCommand(driverID, req.Online)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.availabilityHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type locationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateDriverLocation handles POST /api/v1/drivers/:id/location - the HTTP
// fallback for drivers whose websocket dropped.
func (s *Server) UpdateDriverLocation(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid driver id")
	}

	var req locationRequest
	if err = ctx.Bind(&req); err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid request body")
	}

	cmd, err := commands.NewUpdateDriverLocationCommand(driverID,
		kernel.Coordinates{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.locationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
