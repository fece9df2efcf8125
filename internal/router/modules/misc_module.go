package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursebay/lms-backend/internal/container"
	"github.com/coursebay/lms-backend/internal/domain/entity"
	handlers "github.com/coursebay/lms-backend/internal/interface/http"
	"github.com/coursebay/lms-backend/internal/interface/middleware"
	"github.com/coursebay/lms-backend/pkg/helpers"
)

// MiscModule wires the contact form and the admin stats endpoint.
type MiscModule struct {
	Handler *handlers.MiscHandler
	JWT     *helpers.JWTManager
}

func NewMiscModule(h *handlers.MiscHandler, jwt *helpers.JWTManager) *MiscModule {
	return &MiscModule{Handler: h, JWT: jwt}
}

func (m *MiscModule) Register(rg *gin.RouterGroup) {
	logger := container.GetLogger()

	contactLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/contact", contactLimiter, handlers.Wrap(logger, m.Handler.ContactUs))

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.JWT), middleware.RequireRoles(entity.RoleAdmin))
	{
		admin.GET("/stats/users", handlers.Wrap(logger, m.Handler.UserStats))
	}
}
