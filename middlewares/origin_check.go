package middlewares

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/elmanzah/reservation-app/utils"
)

// AllowedExternalOrigins reads the comma-separated allow-list for the
// external booking intake.
func AllowedExternalOrigins() []string {
	raw := os.Getenv("EXTERNAL_ALLOWED_ORIGINS")
	if raw == "" {
		raw = "https://m-arrakech.com"
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// ExternalOriginCheck rejects external booking requests from any origin
// outside the allow-list and answers preflight for allowed ones.
func ExternalOriginCheck() gin.HandlerFunc {
	allowed := AllowedExternalOrigins()

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		ok := false
		for _, a := range allowed {
			if origin == a {
				ok = true
				break
			}
		}
		if !ok {
			utils.RespondError(c, http.StatusForbidden, errors.New("unauthorized origin"))
			c.Abort()
			return
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
