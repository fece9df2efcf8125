package router

import (
	"github.com/coursebay/lms-backend/internal/application"
	"github.com/coursebay/lms-backend/internal/container"
	"github.com/coursebay/lms-backend/internal/domain/repository"
	"github.com/coursebay/lms-backend/internal/infrastructure/mongodb"
	handlers "github.com/coursebay/lms-backend/internal/interface/http"
	"github.com/coursebay/lms-backend/internal/router/modules"
)

type ModuleDeps struct {
	Users    repository.UserRepository
	Courses  repository.CourseRepository
	Payments repository.PaymentRepository

	UserService    *application.UserService
	CourseService  *application.CourseService
	PaymentService *application.PaymentService

	UserHandler    *handlers.UserHandler
	CourseHandler  *handlers.CourseHandler
	PaymentHandler *handlers.PaymentHandler
	MiscHandler    *handlers.MiscHandler
}

func buildDeps() ModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := container.GetMongo()

	users := mongodb.NewUserRepository(db)
	courses := mongodb.NewCourseRepository(db)
	payments := mongodb.NewPaymentRepository(db)

	var pub application.Publisher
	if rp := container.GetRabbitPub(); rp != nil {
		pub = rp
	}

	userSvc := &application.UserService{
		Repo:             users,
		JWT:              container.GetJWT(),
		Media:            container.GetUploader(),
		Folder:           cfg.CloudinaryFolder,
		Pub:              pub,
		Logger:           logger,
		ResetTokenTTL:    cfg.ResetTokenTTL,
		ResetPasswordURL: cfg.ResetPasswordURL,
		MailSendEnabled:  cfg.MailSendEnabled,
	}
	courseSvc := &application.CourseService{
		Repo:    courses,
		Media:   container.GetUploader(),
		Folder:  cfg.CloudinaryFolder,
		Logger:  logger,
		ES:      container.GetES(),
		ESIndex: cfg.ESCoursesIndex,
	}
	paymentSvc := &application.PaymentService{
		Users:        users,
		Payments:     payments,
		Gateway:      container.GetGateway(),
		Logger:       logger,
		KeyID:        cfg.RazorpayKeyID,
		KeySecret:    cfg.RazorpayKeySecret,
		PlanID:       cfg.RazorpayPlanID,
		RefundWindow: cfg.RefundWindow,
	}

	return ModuleDeps{
		Users:    users,
		Courses:  courses,
		Payments: payments,

		UserService:    userSvc,
		CourseService:  courseSvc,
		PaymentService: paymentSvc,

		UserHandler:    handlers.NewUserHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure),
		CourseHandler:  handlers.NewCourseHandler(courseSvc, logger),
		PaymentHandler: handlers.NewPaymentHandler(paymentSvc, logger),
		MiscHandler:    handlers.NewMiscHandler(userSvc, pub, cfg.ContactEmail, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT()))
	r.Add(modules.NewCourseModule(deps.CourseHandler, container.GetJWT(), deps.Users))
	r.Add(modules.NewPaymentModule(deps.PaymentHandler, container.GetJWT(), deps.Users))
	r.Add(modules.NewMiscModule(deps.MiscHandler, container.GetJWT()))
}
