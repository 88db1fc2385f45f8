package v1

import (
	"github.com/gin-gonic/gin"

	"marketchat/internal/infrastructure/realtime"
	chathttp "marketchat/internal/pkg/chat/presentation/http"
	deliveryhttp "marketchat/internal/pkg/delivery/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(r *gin.Engine, chatDeps chathttp.Deps, deliveryNS *realtime.Namespace) {
	v1 := r.Group("/api/v1")
	chathttp.RegisterRoutes(v1, chatDeps)
	deliveryhttp.RegisterRoutes(v1, deliveryNS)
}
