package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/pkg/helpers"
	"github.com/velizario/gemini-children-events-be/pkg/response"
)

const (
	CtxPrincipalKey = "principal"
	CtxUserIDKey    = "userID"
)

// PrincipalResolver turns a bearer token into the acting user.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (entity.Principal, error)
}

// Auth requires a valid access token, read from the Authorization header
// or the access_token cookie. On success the principal and its id are set
// in the Gin context.
func Auth(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		p, err := resolver.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindUnauthenticated {
				response.Abort(c, http.StatusUnauthorized, apperr.MessageOf(err), nil)
				return
			}
			response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		c.Set(CtxPrincipalKey, p)
		c.Set(CtxUserIDKey, p.ID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil {
		return tok
	}
	return ""
}

// PrincipalFrom returns the principal set by Auth.
func PrincipalFrom(c *gin.Context) (entity.Principal, bool) {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return entity.Principal{}, false
	}
	p, ok := v.(entity.Principal)
	return p, ok
}
