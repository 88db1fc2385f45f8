package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"marketchat/internal/infrastructure/eventbus"
	"marketchat/internal/infrastructure/logger"
	"marketchat/internal/infrastructure/realtime"
	"marketchat/internal/pkg/chat/application/usecase"
	chat "marketchat/internal/pkg/chat/domain"
)

const (
	defaultReadTimeout = 60 * time.Second
	inflightTimeout    = 5 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin handshakes are allowed; identity comes from the bearer
		// credential, not the Origin header.
		return true
	},
}

// inboundChatFrame is the validated shape of every event a chat namespace
// accepts. Unknown events and malformed payloads are answered with an error
// frame instead of being dropped silently.
type inboundChatFrame struct {
	Event      string `json:"event"`
	ReceiverID string `json:"receiver_id,omitempty"`
	Message    string `json:"message,omitempty"`
}

type errorFrame struct {
	Event string `json:"event"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Event          string `json:"event"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type outboundMessage struct {
	Event   string         `json:"event"`
	Message messagePayload `json:"message"`
}

type messagePayload struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	Read           bool      `json:"read"`
}

// ChatSocketController is the gateway for one chat namespace (end-user or
// admin). It authenticates the handshake, owns a Session per connection, and
// drives the initiate/sendMessage protocol.
type ChatSocketController struct {
	ns        *realtime.Namespace
	resolveUC *usecase.ResolveConversationUseCase
	sendUC    *usecase.SendMessageUseCase
	bus       eventbus.Bus
	log       *slog.Logger

	// systemRoom, when set, is joined by every connection at attach time.
	// The admin namespace uses it for namespace-wide badge broadcasts.
	systemRoom string

	// offlineNotify, when set, runs after a persisted message whose receiver
	// has no live connection. Wiring decides what "offline" means per
	// namespace; nil disables the hook.
	offlineNotify func(ctx context.Context, receiverID string)
}

func NewChatSocketController(ns *realtime.Namespace, resolveUC *usecase.ResolveConversationUseCase, sendUC *usecase.SendMessageUseCase, bus eventbus.Bus) *ChatSocketController {
	return &ChatSocketController{
		ns:        ns,
		resolveUC: resolveUC,
		sendUC:    sendUC,
		bus:       bus,
		log:       logger.For("gateway." + ns.Name),
	}
}

// WithSystemRoom makes every connection join the given room at attach time.
func (ctl *ChatSocketController) WithSystemRoom(room string) *ChatSocketController {
	ctl.systemRoom = room
	return ctl
}

// WithOfflineNotify installs the hook invoked when a message's receiver has
// no live connection.
func (ctl *ChatSocketController) WithOfflineNotify(fn func(ctx context.Context, receiverID string)) *ChatSocketController {
	ctl.offlineNotify = fn
	return ctl
}

// Handle upgrades the connection after the guard passes and processes frames
// until the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := realtime.GuardHandshake(c, ctl.ns, ctl.log)
		if !ok {
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		conn := realtime.NewConnection(ctl.ns.Name, identity.UserID, ws)
		ctl.ns.Router.Attach(conn)
		if ctl.systemRoom != "" {
			ctl.ns.Router.Join(ctl.systemRoom, conn)
		}

		session := chat.NewSession(ctl.ns.Name, identity.UserID)
		session.AwaitInitiate()

		ctl.log.Info("connected", "user", identity.UserID)
		defer func() {
			session.Disconnect()
			ctl.ns.Router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
			ctl.log.Info("disconnected", "user", identity.UserID)
		}()

		sendJSON(conn, ackFrame{Event: "connected"})

		ws.SetReadLimit(1 << 20)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}

			var frame inboundChatFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Event {
			case "initiate":
				ctl.handleInitiate(c.Request.Context(), conn, session, frame)
			case "sendMessage":
				ctl.handleSendMessage(c.Request.Context(), conn, session, frame)
			default:
				replyError(conn, "unsupported_event", "unknown event "+strconv.Quote(frame.Event))
			}
		}
	}
}

// handleInitiate resolves the conversation for the session's identity and the
// requested counterpart and joins its room. A repeated initiate rebinds the
// session; the previous room is left first.
func (ctl *ChatSocketController) handleInitiate(reqCtx context.Context, conn *realtime.Connection, session *chat.Session, frame inboundChatFrame) {
	ctx, cancel := context.WithTimeout(reqCtx, inflightTimeout)
	defer cancel()

	conv, err := ctl.resolveUC.Execute(ctx, usecase.ResolveConversationInput{
		SenderID:   session.UserID,
		ReceiverID: frame.ReceiverID,
	})
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}

	if prevID, _, prevErr := session.Conversation(); prevErr == nil && prevID != conv.ID {
		ctl.ns.Router.Leave(roomID(prevID), conn)
	}

	ctl.ns.Router.Join(roomID(conv.ID), conn)
	session.Bind(conv.ID, conv.CounterpartOf(session.UserID))

	sendJSON(conn, ackFrame{Event: "initiated", ConversationID: formatID(conv.ID)})
}

// handleSendMessage persists the message and broadcasts it to the room,
// sender included, only after persistence succeeded.
func (ctl *ChatSocketController) handleSendMessage(reqCtx context.Context, conn *realtime.Connection, session *chat.Session, frame inboundChatFrame) {
	conversationID, peerID, err := session.Conversation()
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}

	ctx, cancel := context.WithTimeout(reqCtx, inflightTimeout)
	defer cancel()

	msg, err := ctl.sendUC.Execute(ctx, usecase.SendMessageInput{
		ConversationID: conversationID,
		SenderID:       session.UserID,
		ReceiverID:     peerID,
		Content:        frame.Message,
	})
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}

	payload, err := json.Marshal(outboundMessage{Event: "message", Message: toPayload(*msg)})
	if err != nil {
		replyError(conn, "internal_error", "failed to encode message")
		return
	}
	ctl.ns.Router.Broadcast(roomID(conversationID), payload)

	// The receiver's unread state just changed; the admin gateway turns this
	// into a badge refresh.
	ctl.bus.Publish(eventbus.TopicNewChatMessage, eventbus.UnreadChanged{UserID: peerID})

	if ctl.offlineNotify != nil {
		ctl.offlineNotify(ctx, peerID)
	}
}

func (ctl *ChatSocketController) replyUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, chat.ErrInvalidParticipantPair):
		replyError(conn, "invalid_pair", "participants must be two distinct identities")
	case errors.Is(err, chat.ErrConversationNotInitiated):
		replyError(conn, "not_initiated", "initiate a conversation before sending")
	case errors.Is(err, chat.ErrEmptyMessage):
		replyError(conn, "bad_request", "message must not be empty")
	case errors.Is(err, usecase.ErrPersistence):
		ctl.log.Error("persistence failure", "err", err)
		replyError(conn, "internal_error", "unexpected persistence error")
	default:
		replyError(conn, "bad_request", err.Error())
	}
}

func replyError(conn *realtime.Connection, code, message string) {
	sendJSON(conn, errorFrame{Event: "error", Code: code, Error: message})
}

func sendJSON(conn *realtime.Connection, v any) {
	if payload, err := json.Marshal(v); err == nil {
		_ = conn.Send(payload)
	}
}

func roomID(conversationID int64) string {
	return formatID(conversationID)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func toPayload(m chat.Message) messagePayload {
	return messagePayload{
		ID:             formatID(m.ID),
		ConversationID: formatID(m.ConversationID),
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
		Read:           m.Read,
	}
}
