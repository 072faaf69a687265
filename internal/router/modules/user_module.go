package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/velizario/gemini-children-events-be/internal/interface/http"
	"github.com/velizario/gemini-children-events-be/internal/interface/middleware"
)

// UserModule wires account routes.
// Public: POST /auth/register, /auth/login, /auth/refresh
// Protected: POST /auth/logout, GET /auth/profile, PATCH /users/me, PATCH /users/me/password
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(m.Auth, middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.GET("/auth/profile", m.Handler.GetProfile)
		auth.PATCH("/users/me", m.Handler.UpdateProfile)
		auth.PATCH("/users/me/password", middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByUserID(), nil), m.Handler.ChangePassword)
	}
}
