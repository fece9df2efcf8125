package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/coursebay/lms-backend/internal/container"
	"github.com/coursebay/lms-backend/internal/domain/entity"
	"github.com/coursebay/lms-backend/internal/domain/repository"
	handlers "github.com/coursebay/lms-backend/internal/interface/http"
	"github.com/coursebay/lms-backend/internal/interface/middleware"
	"github.com/coursebay/lms-backend/pkg/helpers"
)

// PaymentModule wires the subscription lifecycle routes. Everything here
// requires a session; the report additionally requires ADMIN.
type PaymentModule struct {
	Handler *handlers.PaymentHandler
	JWT     *helpers.JWTManager
	Users   repository.UserRepository
}

func NewPaymentModule(h *handlers.PaymentHandler, jwt *helpers.JWTManager, users repository.UserRepository) *PaymentModule {
	return &PaymentModule{Handler: h, JWT: jwt, Users: users}
}

func (m *PaymentModule) Register(rg *gin.RouterGroup) {
	logger := container.GetLogger()

	pay := rg.Group("/payment")
	pay.Use(middleware.Auth(m.JWT))
	{
		pay.GET("/razorpay-key", handlers.Wrap(logger, m.Handler.Key))
		pay.POST("/subscribe", handlers.Wrap(logger, m.Handler.Subscribe))
		pay.POST("/verify", handlers.Wrap(logger, m.Handler.Verify))
		pay.POST("/unsubscribe", middleware.RequireSubscriber(m.Users), handlers.Wrap(logger, m.Handler.Unsubscribe))
		pay.GET("", middleware.RequireRoles(entity.RoleAdmin), handlers.Wrap(logger, m.Handler.Report))
	}
}
