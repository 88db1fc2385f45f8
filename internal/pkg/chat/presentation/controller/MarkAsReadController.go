package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"marketchat/internal/infrastructure/auth"
	"marketchat/internal/pkg/chat/application/usecase"
	chat "marketchat/internal/pkg/chat/domain"
)

// MarkAsReadController handles PUT /mark-as-read/:conversationId: bulk-flips
// the caller's unread messages in the conversation and publishes the
// unread-changed notification via the tracker.
type MarkAsReadController struct {
	UC *usecase.UnreadTrackerUseCase
}

func NewMarkAsReadController(uc *usecase.UnreadTrackerUseCase) *MarkAsReadController {
	return &MarkAsReadController{UC: uc}
}

func (h *MarkAsReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}

		conversationID, err := strconv.ParseInt(c.Param("conversationId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed conversation id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := h.UC.MarkRead(ctx, conversationID, identity.UserID); err != nil {
			switch {
			case errors.Is(err, chat.ErrInvalidIdentifier):
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed identifier"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
