package middlewares

import (
	"log"
	"net/http"

	"github.com/pcrpg2df4s-blip/dietweb/services"
	"github.com/pcrpg2df4s-blip/dietweb/utils"

	"github.com/gin-gonic/gin"
)

// InitDataMiddleware authenticates mini-app requests by the signed
// X-Init-Data header. Verification runs before anything else touches the
// request; any failure aborts with 401 and no store access happens.
func InitDataMiddleware(botToken string, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Init-Data")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-Init-Data header required"})
			return
		}

		userID, err := utils.VerifyInitData(raw, botToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "init data verification failed"})
			return
		}

		// First contact through the web app counts as registration.
		// A registry hiccup must not block the request itself.
		if users != nil {
			if err := users.Register(userID); err != nil {
				log.Printf("sync: failed to register user %d: %v", userID, err)
			}
		}

		c.Set("userID", userID)
		c.Next()
	}
}
