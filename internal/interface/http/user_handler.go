package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coursebay/lms-backend/internal/application"
	"github.com/coursebay/lms-backend/internal/interface/middleware"
	"github.com/coursebay/lms-backend/pkg/apperror"
	"github.com/coursebay/lms-backend/pkg/helpers"
	"github.com/coursebay/lms-backend/pkg/response"
	"github.com/coursebay/lms-backend/pkg/validation"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	FullName string `form:"fullname" json:"fullname" binding:"required,min=5,max=50"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,pwd"`
}

type updateProfileRequest struct {
	FullName string `form:"fullname" json:"fullname" binding:"omitempty,min=5,max=50"`
}

// Register POST /api/v1/user/register (multipart, optional avatar file)
func (h *UserHandler) Register(c *gin.Context) error {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		return apperror.Validation(validation.ToDetails(err))
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		AvatarPath: c.GetString(middleware.CtxUploadPathKey),
	})
	if err != nil {
		return err
	}

	token, exp, err := h.Svc.IssueToken(u)
	if err != nil {
		return apperror.Internal("failed to issue session token", err)
	}
	h.Cookies.SetSession(c, token, exp)
	response.Success(c, http.StatusCreated, u, "User registered successfully")
	return nil
}

// Login POST /api/v1/user/login
func (h *UserHandler) Login(c *gin.Context) error {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apperror.Validation(validation.ToDetails(err))
	}

	u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	token, exp, err := h.Svc.IssueToken(u)
	if err != nil {
		return apperror.Internal("failed to issue session token", err)
	}
	h.Cookies.SetSession(c, token, exp)
	response.Success(c, http.StatusOK, u, "User logged in successfully")
	return nil
}

// Logout GET /api/v1/user/logout
func (h *UserHandler) Logout(c *gin.Context) error {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "User logged out successfully")
	return nil
}

// GetProfile GET /api/v1/user/me (auth required)
func (h *UserHandler) GetProfile(c *gin.Context) error {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, u, "User details")
	return nil
}

// ForgotPassword POST /api/v1/user/reset
func (h *UserHandler) ForgotPassword(c *gin.Context) error {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apperror.Validation(validation.ToDetails(err))
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		return err
	}
	response.Success[any](c, http.StatusOK, nil, "Reset password link has been sent to "+req.Email)
	return nil
}

// ResetPassword POST /api/v1/user/reset/:resetToken
func (h *UserHandler) ResetPassword(c *gin.Context) error {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apperror.Validation(validation.ToDetails(err))
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), c.Param("resetToken"), req.Password); err != nil {
		return err
	}
	response.Success[any](c, http.StatusOK, nil, "Password changed successfully")
	return nil
}

// ChangePassword POST /api/v1/user/change-password (auth required)
func (h *UserHandler) ChangePassword(c *gin.Context) error {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apperror.Validation(validation.ToDetails(err))
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	response.Success[any](c, http.StatusOK, nil, "Password changed successfully")
	return nil
}

// UpdateProfile PUT /api/v1/user/update (auth required, multipart, optional avatar file)
func (h *UserHandler) UpdateProfile(c *gin.Context) error {
	var req updateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		return apperror.Validation(validation.ToDetails(err))
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.UpdateProfileInput{
		FullName:   req.FullName,
		AvatarPath: c.GetString(middleware.CtxUploadPathKey),
	})
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, u, "Profile updated successfully")
	return nil
}
