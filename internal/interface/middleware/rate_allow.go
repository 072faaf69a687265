package middleware

import (
	"github.com/gin-gonic/gin"
)

// AllowPrivateIP exempts loopback and RFC 1918 / ULA clients from a limit.
// The debug endpoints use it so local tooling is never throttled.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		addr, ok := parseAddr(ipFromCtx(c))
		if !ok {
			return false
		}
		return addr.IsLoopback() || addr.IsPrivate()
	}
}
