package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursebay/lms-backend/internal/container"
	handlers "github.com/coursebay/lms-backend/internal/interface/http"
	"github.com/coursebay/lms-backend/internal/interface/middleware"
	"github.com/coursebay/lms-backend/pkg/helpers"
)

// UserModule wires the account routes.
// Public: register, login, logout, forgot/reset password.
// Protected: profile, change password, profile update.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	forgotLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	avatarUpload := middleware.Upload("avatar", cfg.UploadDir, cfg.UploadMaxBytes)

	user := rg.Group("/user")
	user.POST("/register", registerLimiter, avatarUpload, handlers.Wrap(logger, m.Handler.Register))
	user.POST("/login", loginLimiter, handlers.Wrap(logger, m.Handler.Login))
	user.GET("/logout", handlers.Wrap(logger, m.Handler.Logout))
	user.POST("/reset", forgotLimiter, handlers.Wrap(logger, m.Handler.ForgotPassword))
	user.POST("/reset/:resetToken", forgotLimiter, handlers.Wrap(logger, m.Handler.ResetPassword))

	auth := user.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/me", handlers.Wrap(logger, m.Handler.GetProfile))
		auth.POST("/change-password", handlers.Wrap(logger, m.Handler.ChangePassword))
		auth.PUT("/update", avatarUpload, handlers.Wrap(logger, m.Handler.UpdateProfile))
	}
}
