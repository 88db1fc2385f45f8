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

// UnreadStatusController handles GET /unread-messages: whether any message
// addressed to the caller is still unread.
type UnreadStatusController struct {
	UC *usecase.UnreadTrackerUseCase
}

func NewUnreadStatusController(uc *usecase.UnreadTrackerUseCase) *UnreadStatusController {
	return &UnreadStatusController{UC: uc}
}

func (h *UnreadStatusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		unread, err := h.UC.HasUnread(ctx, identity.UserID)
		if err != nil {
			if errors.Is(err, usecase.ErrPersistence) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"hasUnread": unread})
	}
}
