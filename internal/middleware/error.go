package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/harentsoaR/hospital-api/internal/repository"
	"github.com/harentsoaR/hospital-api/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandlerFunc is a gin handler that reports failure by returning it.
type HandlerFunc func(c *gin.Context) error

// CatchAsyncErrors adapts fn to gin. Returned errors and panics are recorded
// on the context and the chain is aborted; ErrorHandler writes the response.
func CatchAsyncErrors(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				_ = c.Error(fmt.Errorf("panic: %v", r))
				c.Abort()
			}
		}()
		if err := fn(c); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

// ErrorHandler renders the last recorded error as {success: false, message}.
// It must be registered before any route that uses CatchAsyncErrors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, message := resolveError(err)
		if status >= http.StatusInternalServerError {
			if hub := sentrygin.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
			var appErr *utils.AppError
			if !errors.As(err, &appErr) {
				slog.Error("unhandled request error", "method", c.Request.Method, "path", c.FullPath(), "error", err)
			}
		}

		c.JSON(status, gin.H{
			"success": false,
			"message": message,
		})
	}
}

func resolveError(err error) (int, string) {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.StatusCode, appErr.Message
	case errors.Is(err, repository.ErrDuplicateEmail), mongo.IsDuplicateKeyError(err):
		return http.StatusBadRequest, "Duplicate Email Entered!"
	case errors.Is(err, jwt.ErrTokenExpired):
		return http.StatusBadRequest, "Json Web Token Is Expired, Try Again!"
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return http.StatusBadRequest, "Json Web Token Is Invalid, Try Again!"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
