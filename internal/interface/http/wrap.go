package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coursebay/lms-backend/pkg/apperror"
	"github.com/coursebay/lms-backend/pkg/response"
)

// HandlerFunc is a route handler that reports failure by returning an error.
type HandlerFunc func(*gin.Context) error

// Wrap is the single mandatory error boundary. Every route handler in the
// application is registered through it, so no failure can bypass the
// centralized formatter: typed application errors render with their status,
// anything else logs and renders as a 500.
func Wrap(logger *logrus.Logger, fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := fn(c)
		if err == nil {
			return
		}
		var ae *apperror.Error
		if !errors.As(err, &ae) {
			ae = apperror.Internal("internal server error", err)
		}
		if ae.Status >= 500 && logger != nil {
			logger.WithError(err).
				WithField("path", c.FullPath()).
				WithField("request_id", c.GetString("request_id")).
				Error("request failed")
		}
		resp := response.Error[any](c, ae.Status, ae.Message, ae.Details)
		c.AbortWithStatusJSON(resp.Status, resp)
	}
}
