package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"marketchat/internal/infrastructure/auth"
	"marketchat/internal/infrastructure/eventbus"
	"marketchat/internal/infrastructure/realtime"
	"marketchat/internal/pkg/chat/application/usecase"
	"marketchat/internal/pkg/chat/presentation/controller"
	repository "marketchat/internal/pkg/chat/persistence/repository/port"
	profile "marketchat/internal/pkg/profile/port"
)

// Deps carries everything the chat surface needs. Wiring in cmd owns the
// lifecycles; this layer only assembles use cases and controllers.
type Deps struct {
	Repo      repository.ChatRepository
	Directory profile.Directory
	Bus       eventbus.Bus

	UserNS  *realtime.Namespace
	AdminNS *realtime.Namespace

	// OfflineNotify runs after a user-sent message whose admin receiver has
	// no live connection. Nil disables offline escalation.
	OfflineNotify func(ctx context.Context, receiverID string)
}

// RegisterRoutes registers the chat endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, deps Deps) {
	resolveUC := usecase.NewResolveConversationUseCase(deps.Repo)
	sendUC := usecase.NewSendMessageUseCase(deps.Repo)
	listUC := usecase.NewListConversationsUseCase(deps.Repo, deps.Directory)
	messagesUC := usecase.NewGetMessagesUseCase(deps.Repo)
	unreadUC := usecase.NewUnreadTrackerUseCase(deps.Repo, deps.Bus)

	userSocketCtl := controller.NewChatSocketController(deps.UserNS, resolveUC, sendUC, deps.Bus).
		WithOfflineNotify(deps.OfflineNotify)
	adminSocketCtl := controller.NewChatSocketController(deps.AdminNS, resolveUC, sendUC, deps.Bus).
		WithSystemRoom(controller.AdminRoom)

	// GET /api/v1/chat/user/ws -> end-user realtime namespace
	g.GET("/chat/user/ws", userSocketCtl.Handle())

	// GET /api/v1/chat/admin/ws -> admin realtime namespace
	g.GET("/chat/admin/ws", adminSocketCtl.Handle())

	restVerifier := auth.MultiVerifier{deps.UserNS.Verifier, deps.AdminNS.Verifier}
	authed := g.Group("/chat", auth.RequireIdentity(restVerifier))

	// GET /api/v1/chat/conversations -> caller's conversations, newest first
	authed.GET("/conversations", controller.NewListConversationsController(listUC).Handle())

	// GET /api/v1/chat/:conversationId/conversation -> full message history
	authed.GET("/:conversationId/conversation", controller.NewGetMessagesController(messagesUC).Handle())

	// GET /api/v1/chat/unread-messages -> does the caller have anything unread
	authed.GET("/unread-messages", controller.NewUnreadStatusController(unreadUC).Handle())

	// PUT /api/v1/chat/mark-as-read/:conversationId -> flip received messages to read
	authed.PUT("/mark-as-read/:conversationId", controller.NewMarkAsReadController(unreadUC).Handle())
}
