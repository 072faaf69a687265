package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/velizario/gemini-children-events-be/internal/interface/http"
	"github.com/velizario/gemini-children-events-be/internal/interface/middleware"
)

type OrganizerModule struct {
	Handler *handlers.OrganizerHandler
	Redis   *redis.Client
}

func NewOrganizerModule(h *handlers.OrganizerHandler, rdb *redis.Client) *OrganizerModule {
	return &OrganizerModule{Handler: h, Redis: rdb}
}

func (m *OrganizerModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/organizers/:userId/profile", rl, m.Handler.Profile)
}
