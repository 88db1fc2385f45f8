package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"marketchat/internal/pkg/chat/application/usecase"
	chat "marketchat/internal/pkg/chat/domain"
)

// GetMessagesController handles GET /:conversationId/conversation: the
// conversation's messages in persistence order; an unknown id is an empty
// list, not an error.
type GetMessagesController struct {
	UC *usecase.GetMessagesUseCase
}

func NewGetMessagesController(uc *usecase.GetMessagesUseCase) *GetMessagesController {
	return &GetMessagesController{UC: uc}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, err := strconv.ParseInt(c.Param("conversationId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed conversation id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, conversationID)
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrInvalidIdentifier):
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed conversation id"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		out := make([]messagePayload, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, toPayload(m))
		}
		c.JSON(http.StatusOK, gin.H{"messages": out, "count": len(out)})
	}
}
