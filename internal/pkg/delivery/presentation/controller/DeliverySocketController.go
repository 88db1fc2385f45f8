package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"marketchat/internal/infrastructure/logger"
	"marketchat/internal/infrastructure/realtime"
	chat "marketchat/internal/pkg/chat/domain"
)

const deliveryReadTimeout = 60 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// inboundDeliveryFrame is the validated shape of delivery-partner events.
type inboundDeliveryFrame struct {
	Event    string          `json:"event"`
	Location json.RawMessage `json:"location,omitempty"`
	OrderID  string          `json:"order_id,omitempty"`
}

type locationBroadcast struct {
	Event     string          `json:"event"`
	PartnerID string          `json:"partner_id"`
	Location  json.RawMessage `json:"location"`
}

type deliveryErrorFrame struct {
	Event string `json:"event"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// DeliverySocketController is the gateway for the delivery-partner tracking
// namespace. No initiate step: sessions go straight to Active, and location
// updates fan out namespace-wide without persistence.
type DeliverySocketController struct {
	ns  *realtime.Namespace
	log *slog.Logger
}

func NewDeliverySocketController(ns *realtime.Namespace) *DeliverySocketController {
	return &DeliverySocketController{ns: ns, log: logger.For("gateway." + ns.Name)}
}

func (ctl *DeliverySocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := realtime.GuardHandshake(c, ctl.ns, ctl.log)
		if !ok {
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		conn := realtime.NewConnection(ctl.ns.Name, identity.UserID, ws)
		ctl.ns.Router.Attach(conn)

		session := chat.NewSession(ctl.ns.Name, identity.UserID)
		session.Activate()

		ctl.log.Info("connected", "partner", identity.UserID)
		defer func() {
			session.Disconnect()
			ctl.ns.Router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
			ctl.log.Info("disconnected", "partner", identity.UserID)
		}()

		ws.SetReadLimit(1 << 16)
		_ = ws.SetReadDeadline(time.Now().Add(deliveryReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(deliveryReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}

			var frame inboundDeliveryFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Event {
			case "locationUpdate":
				ctl.handleLocationUpdate(conn, frame)
			case "accept":
				// Order-acceptance semantics are not defined yet; observe and
				// move on. TODO: transition the partner's order state once the
				// acceptance flow is specified.
				ctl.log.Info("accept observed", "partner", conn.UserID, "order", frame.OrderID)
			default:
				ctl.replyError(conn, "unsupported_event", "unknown event")
			}
		}
	}
}

// handleLocationUpdate rebroadcasts the payload to every other connection in
// the namespace. Nothing is persisted and no cross-sender ordering applies.
func (ctl *DeliverySocketController) handleLocationUpdate(conn *realtime.Connection, frame inboundDeliveryFrame) {
	if len(frame.Location) == 0 {
		ctl.replyError(conn, "bad_request", "location is required")
		return
	}
	payload, err := json.Marshal(locationBroadcast{
		Event:     "locationBroadcast",
		PartnerID: conn.UserID,
		Location:  frame.Location,
	})
	if err != nil {
		return
	}
	ctl.ns.Router.BroadcastAll(payload, conn.UserID)
}

func (ctl *DeliverySocketController) replyError(conn *realtime.Connection, code, message string) {
	if payload, err := json.Marshal(deliveryErrorFrame{Event: "error", Code: code, Error: message}); err == nil {
		_ = conn.Send(payload)
	}
}
