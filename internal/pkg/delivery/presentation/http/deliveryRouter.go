package http

import (
	"github.com/gin-gonic/gin"

	"marketchat/internal/infrastructure/realtime"
	"marketchat/internal/pkg/delivery/presentation/controller"
)

// RegisterRoutes registers the delivery-partner tracking endpoint under the
// given router group.
func RegisterRoutes(g *gin.RouterGroup, ns *realtime.Namespace) {
	socketCtl := controller.NewDeliverySocketController(ns)

	// GET /api/v1/delivery/ws -> delivery-partner location namespace
	g.GET("/delivery/ws", socketCtl.Handle())
}
