package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-orders-api/internal/container"
	handlers "github.com/oksasatya/user-orders-api/internal/interface/http"
	"github.com/oksasatya/user-orders-api/internal/interface/middleware"
)

// UserModule wires the user CRUD and order routes.
// Mutating routes carry a tighter per-IP rate limit than reads.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	readLimiter := middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	writeLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	users := rg.Group("/users")
	{
		users.POST("", writeLimiter, m.Handler.Create)
		users.GET("", readLimiter, m.Handler.List)
		users.GET("/:userId", readLimiter, m.Handler.Get)
		users.PUT("/:userId", writeLimiter, m.Handler.Update)
		users.DELETE("/:userId", writeLimiter, m.Handler.Delete)

		users.PUT("/:userId/orders", writeLimiter, m.Handler.AppendOrder)
		users.GET("/:userId/orders", readLimiter, m.Handler.ListOrders)
		users.GET("/:userId/orders/total-price", readLimiter, m.Handler.TotalPrice)
	}
}
