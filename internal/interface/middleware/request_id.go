package middleware

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDMiddleware honours an incoming X-Request-ID or generates one,
// echoes it in the response and stores it as request_id in the Gin context.
func RequestIDMiddleware() gin.HandlerFunc {
	return requestid.New(
		requestid.WithGenerator(func() string { return uuid.New().String() }),
		requestid.WithHandler(func(c *gin.Context, id string) {
			c.Set("request_id", id)
		}),
	)
}
