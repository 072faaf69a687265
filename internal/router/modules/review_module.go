package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/velizario/gemini-children-events-be/internal/interface/http"
	"github.com/velizario/gemini-children-events-be/internal/interface/middleware"
)

type ReviewModule struct {
	Handler *handlers.ReviewHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewReviewModule(h *handlers.ReviewHandler, auth gin.HandlerFunc, rdb *redis.Client) *ReviewModule {
	return &ReviewModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	rg.POST("/reviews", m.Auth, middleware.RateLimit(m.Redis, 20, time.Minute, middleware.KeyByUserID(), nil), m.Handler.Create)
}
