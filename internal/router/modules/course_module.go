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

// CourseModule wires the catalog routes.
// Public: course list and search.
// Subscriber: lecture access.
// Admin: course and lecture mutation.
type CourseModule struct {
	Handler *handlers.CourseHandler
	JWT     *helpers.JWTManager
	Users   repository.UserRepository
}

func NewCourseModule(h *handlers.CourseHandler, jwt *helpers.JWTManager, users repository.UserRepository) *CourseModule {
	return &CourseModule{Handler: h, JWT: jwt, Users: users}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	thumbnailUpload := middleware.Upload("thumbnail", cfg.UploadDir, cfg.UploadMaxBytes)
	lectureUpload := middleware.Upload("lecture", cfg.UploadDir, cfg.UploadMaxBytes)

	course := rg.Group("/course")
	course.GET("", handlers.Wrap(logger, m.Handler.List))
	course.GET("/search", handlers.Wrap(logger, m.Handler.Search))

	subscriber := course.Group("")
	subscriber.Use(middleware.Auth(m.JWT), middleware.RequireSubscriber(m.Users))
	{
		subscriber.GET("/:id", handlers.Wrap(logger, m.Handler.GetLectures))
	}

	admin := course.Group("")
	admin.Use(middleware.Auth(m.JWT), middleware.RequireRoles(entity.RoleAdmin))
	{
		admin.POST("", thumbnailUpload, handlers.Wrap(logger, m.Handler.Create))
		admin.PUT("/:id", thumbnailUpload, handlers.Wrap(logger, m.Handler.Update))
		admin.DELETE("/:id", handlers.Wrap(logger, m.Handler.Delete))
		admin.POST("/:id", lectureUpload, handlers.Wrap(logger, m.Handler.AddLecture))
		admin.DELETE("/:id/lectures/:lectureId", handlers.Wrap(logger, m.Handler.RemoveLecture))
	}
}
