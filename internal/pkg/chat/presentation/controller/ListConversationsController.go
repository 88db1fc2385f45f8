package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketchat/internal/infrastructure/auth"
	"marketchat/internal/pkg/chat/application/usecase"
)

// ListConversationsController handles GET /conversations: the caller's
// conversations, most recently active first, with counterpart display names.
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(uc *usecase.ListConversationsUseCase) *ListConversationsController {
	return &ListConversationsController{UC: uc}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		views, err := h.UC.Execute(ctx, identity.UserID)
		if err != nil {
			if errors.Is(err, usecase.ErrPersistence) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(views))
		for _, v := range views {
			item := gin.H{
				"id":               formatID(v.Conversation.ID),
				"participants":     v.Conversation.Participants(),
				"counterpart_id":   v.CounterpartID,
				"counterpart_name": v.CounterpartName,
			}
			if v.Conversation.LastMessageID != nil {
				item["last_message_id"] = formatID(*v.Conversation.LastMessageID)
			}
			if v.Conversation.LastMessageAt != nil {
				item["last_message_at"] = v.Conversation.LastMessageAt
			}
			out = append(out, item)
		}

		c.JSON(http.StatusOK, gin.H{"conversations": out})
	}
}
