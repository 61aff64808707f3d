// Package ws is the websocket gateway. Each connection becomes a realtime
// session: the registry addresses it by user and group, the write pump drains
// its notification queue, and the read pump accepts the few inbound messages
// clients may send (order feed subscriptions and driver location reports).
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/application/usecases/commands"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"
	"github.com/Devmatrix25/SmartEats/internal/realtime"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// clientMessage is the envelope for everything a client sends after the
// handshake.
type clientMessage struct {
	Action  string  `json:"action"`
	OrderID string  `json:"orderId,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

// Gateway upgrades HTTP requests to websocket sessions and routes inbound
// messages to the application layer.
type Gateway struct {
	registry        *realtime.Registry
	locationHandler commands.UpdateDriverLocationCommandHandler
	log             *slog.Logger
	upgrader        websocket.Upgrader
}

// NewGateway creates a websocket gateway over the given session registry.
func NewGateway(
	registry *realtime.Registry,
	locationHandler commands.UpdateDriverLocationCommandHandler,
	log *slog.Logger,
) *Gateway {
	return &Gateway{
		registry:        registry,
		locationHandler: locationHandler,
		log:             log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The platform fronts this service with its own origin checks.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handle serves GET /ws. The caller identifies itself with userId and role
// query parameters; gateway-level authentication sits in front of this
// service and is not repeated here.
func (g *Gateway) Handle(c echo.Context) error {
	userID, err := kernel.UUIDFromString(c.QueryParam("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
	}
	role, err := kernel.RoleFromString(c.QueryParam("role"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	connID := uuid.NewString()
	session := realtime.NewSession(connID, userID, role)
	g.registry.Register(session)

	// Role-based groups are joined server-side so a client cannot listen
	// in on another restaurant's orders or the driver offer feed.
	switch role {
	case kernel.RoleDriver:
		g.registry.Join(connID, ports.DriversGroup)
	case kernel.RoleRestaurant:
		g.registry.Join(connID, ports.RestaurantGroup(userID))
	}

	g.log.Info("websocket connected", "conn", connID, "user", userID, "role", role)

	go g.writePump(conn, session)
	g.readPump(conn, session)
	return nil
}

// readPump consumes client messages until the connection drops, then tears
// the session down.
func (g *Gateway) readPump(conn *websocket.Conn, session *realtime.Session) {
	defer func() {
		g.registry.Unregister(session.ConnID())
		conn.Close()
		g.log.Info("websocket disconnected", "conn", session.ConnID(), "user", session.UserID())
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Warn("websocket read failed", "conn", session.ConnID(), "error", err)
			}
			return
		}
		g.dispatch(session, msg)
	}
}

func (g *Gateway) dispatch(session *realtime.Session, msg clientMessage) {
	switch msg.Action {
	case "watch":
		orderID, err := kernel.UUIDFromString(msg.OrderID)
		if err != nil {
			g.log.Warn("watch with invalid orderId", "conn", session.ConnID())
			return
		}
		g.registry.Join(session.ConnID(), ports.OrderFeedGroup(orderID))

	case "unwatch":
		orderID, err := kernel.UUIDFromString(msg.OrderID)
		if err != nil {
			return
		}
		g.registry.Leave(session.ConnID(), ports.OrderFeedGroup(orderID))

	case "location":
		if session.Role() != kernel.RoleDriver {
			g.log.Warn("location report from non-driver", "conn", session.ConnID(), "role", session.Role())
			return
		}
		cmd, err := commands.NewUpdateDriverLocationCommand(session.UserID(),
			kernel.Coordinates{Lat: msg.Lat, Lng: msg.Lng})
		if err != nil {
			g.log.Warn("invalid location report", "conn", session.ConnID(), "error", err)
			return
		}
		if err = g.locationHandler.Handle(context.Background(), cmd); err != nil {
			g.log.Warn("location update failed", "driver", session.UserID(), "error", err)
		}

	default:
		g.log.Warn("unknown websocket action", "conn", session.ConnID(), "action", msg.Action)
	}
}

// writePump pushes queued notifications to the peer and keeps the connection
// alive with pings. It exits when the session closes or a write fails.
func (g *Gateway) writePump(conn *websocket.Conn, session *realtime.Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case n, ok := <-session.Outbound():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(n); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					g.log.Warn("websocket write failed", "conn", session.ConnID(), "error", err)
				}
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
