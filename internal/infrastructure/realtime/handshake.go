package realtime

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketchat/internal/infrastructure/auth"
)

// GuardHandshake runs a namespace's credential policy before the websocket
// upgrade. Rejected connections get an explicit reason and never reach
// application event handling.
func GuardHandshake(c *gin.Context, ns *Namespace, log *slog.Logger) (auth.Identity, bool) {
	token, err := auth.BearerFromRequest(c.Request)
	if err != nil {
		log.Warn("handshake rejected", "namespace", ns.Name, "reason", "missing_credential")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing credential"})
		return auth.Identity{}, false
	}
	identity, err := ns.Verifier.Verify(token)
	if err != nil {
		log.Warn("handshake rejected", "namespace", ns.Name, "reason", "invalid_credential")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credential"})
		return auth.Identity{}, false
	}
	return identity, true
}
