package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"task_manager/internal/middleware" // Shared failure messages

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// AppError is a failure with the status and message the client is allowed to see.
// Err keeps the underlying cause for the logs only.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func unauthenticated(msg string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

func forbidden(msg string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: msg}
}

func notFound(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: msg}
}

func invalidInput(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

// internal wraps an unexpected failure; msg must not reveal anything about err
func internal(msg string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// respondError writes err as {"message": ...} and logs server-side failures with their cause
func respondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = internal(middleware.MsgInternal, err)
	}
	if appErr.Status >= http.StatusInternalServerError {
		fields := logrus.Fields{"method": c.Request.Method, "path": c.Request.URL.Path}
		if appErr.Err != nil {
			fields["error"] = appErr.Err.Error()
		}
		logrus.WithFields(fields).Error(appErr.Message)
	}
	c.AbortWithStatusJSON(appErr.Status, gin.H{"message": appErr.Message})
}
