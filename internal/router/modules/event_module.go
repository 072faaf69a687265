package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/velizario/gemini-children-events-be/internal/interface/http"
	"github.com/velizario/gemini-children-events-be/internal/interface/middleware"
)

// EventModule wires the event catalog and registration routes under /events.
type EventModule struct {
	Handler *handlers.EventHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewEventModule(h *handlers.EventHandler, auth gin.HandlerFunc, rdb *redis.Client) *EventModule {
	return &EventModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	events := rg.Group("/events")

	public := middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil)
	events.GET("", public, m.Handler.List)
	events.GET("/search", public, m.Handler.Search)
	events.GET("/:id", public, m.Handler.Get)

	auth := events.Group("")
	auth.Use(m.Auth, middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("/my-events", m.Handler.MyEvents)
		auth.GET("/my-registrations", m.Handler.MyRegistrations)
		auth.PATCH("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/image", middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByUserID(), nil), m.Handler.UploadImage)
		auth.POST("/:id/register", m.Handler.Register)
		auth.GET("/:id/participants", m.Handler.Participants)
	}
}
