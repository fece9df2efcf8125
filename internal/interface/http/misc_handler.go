package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coursebay/lms-backend/internal/application"
	"github.com/coursebay/lms-backend/pkg/apperror"
	"github.com/coursebay/lms-backend/pkg/mailer"
	"github.com/coursebay/lms-backend/pkg/response"
	"github.com/coursebay/lms-backend/pkg/validation"
)

// MiscHandler covers the routes that belong to no feature module: the
// contact form and the admin user stats.
type MiscHandler struct {
	Users        *application.UserService
	Pub          application.Publisher
	ContactEmail string
	Logger       *logrus.Logger
}

func NewMiscHandler(users *application.UserService, pub application.Publisher, contactEmail string, logger *logrus.Logger) *MiscHandler {
	return &MiscHandler{Users: users, Pub: pub, ContactEmail: contactEmail, Logger: logger}
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// ContactUs POST /api/v1/contact
func (h *MiscHandler) ContactUs(c *gin.Context) error {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apperror.Validation(validation.ToDetails(err))
	}

	job := mailer.EmailJob{
		To:      h.ContactEmail,
		Subject: "Contact Us Form",
		Text:    fmt.Sprintf("name: %s\nemail: %s\nmessage: %s", req.Name, req.Email, req.Message),
	}
	if h.Pub == nil {
		return apperror.Internal("contact mail pipeline is not configured", nil)
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		return apperror.Internal("Request failed, please try again", err)
	}

	response.Success[any](c, http.StatusOK, nil, "Your request has been submitted successfully")
	return nil
}

// UserStats GET /api/v1/admin/stats/users (auth + ADMIN)
func (h *MiscHandler) UserStats(c *gin.Context) error {
	total, subscribed, err := h.Users.UserStats(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, gin.H{
		"allUsersCount":        total,
		"subscribedUsersCount": subscribed,
	}, "All registered users count")
	return nil
}
