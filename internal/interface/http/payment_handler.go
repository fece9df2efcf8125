package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coursebay/lms-backend/internal/application"
	"github.com/coursebay/lms-backend/internal/interface/middleware"
	"github.com/coursebay/lms-backend/pkg/apperror"
	"github.com/coursebay/lms-backend/pkg/response"
	"github.com/coursebay/lms-backend/pkg/validation"
)

type PaymentHandler struct {
	Svc    *application.PaymentService
	Logger *logrus.Logger
}

func NewPaymentHandler(svc *application.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Logger: logger}
}

type verifyRequest struct {
	PaymentID      string `json:"payment_id" binding:"required"`
	SubscriptionID string `json:"subscription_id" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
}

// Key GET /api/v1/payment/razorpay-key (auth required)
func (h *PaymentHandler) Key(c *gin.Context) error {
	response.Success(c, http.StatusOK, gin.H{"key": h.Svc.RazorpayKey()}, "Payment API Key")
	return nil
}

// Subscribe POST /api/v1/payment/subscribe (auth required)
func (h *PaymentHandler) Subscribe(c *gin.Context) error {
	subscriptionID, err := h.Svc.Subscribe(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, gin.H{"subscription_id": subscriptionID}, "Subscribed successfully")
	return nil
}

// Verify POST /api/v1/payment/verify (auth required)
func (h *PaymentHandler) Verify(c *gin.Context) error {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apperror.Validation(validation.ToDetails(err))
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Verify(c.Request.Context(), uid, req.PaymentID, req.SubscriptionID, req.Signature); err != nil {
		return err
	}
	response.Success[any](c, http.StatusOK, nil, "Payment verified successfully")
	return nil
}

// Unsubscribe POST /api/v1/payment/unsubscribe (auth + subscriber gate)
func (h *PaymentHandler) Unsubscribe(c *gin.Context) error {
	if err := h.Svc.Unsubscribe(c.Request.Context(), c.GetString(middleware.CtxUserIDKey)); err != nil {
		return err
	}
	response.Success[any](c, http.StatusOK, nil, "Subscription cancelled successfully")
	return nil
}

// Report GET /api/v1/payment (auth + ADMIN)
func (h *PaymentHandler) Report(c *gin.Context) error {
	count, _ := strconv.Atoi(c.DefaultQuery("count", "10"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	report, err := h.Svc.Report(c.Request.Context(), count, skip)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, report, "All Payments")
	return nil
}
