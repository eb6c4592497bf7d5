package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// PresenceRecorder stamps user activity.
type PresenceRecorder interface {
	Touch(ctx context.Context, userID string) bool
}

// Activity records presence for the authenticated caller after the handler
// runs. It must be mounted after JWT.
func Activity(recorder PresenceRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if recorder == nil {
			return
		}
		if claims, ok := Claims(c); ok {
			recorder.Touch(c.Request.Context(), claims.UserID)
		}
	}
}
