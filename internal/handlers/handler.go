package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/services"
)

// UserRepository is the user store the handlers read and write.
// Create must reject a duplicate email with repository.ErrDuplicateEmail.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string, withPassword bool) (*models.User, error)
	FindByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// TokenIssuer writes the session cookie and the final response body.
type TokenIssuer interface {
	Issue(c *gin.Context, user *models.User, message string, status int) error
}

type ImageUploader interface {
	Upload(ctx context.Context, localPath, contentType string) (*services.UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

type Handler struct {
	Users   UserRepository
	Tokens  TokenIssuer
	Avatars ImageUploader
}

func NewHandler(users UserRepository, tokens TokenIssuer, avatars ImageUploader) *Handler {
	return &Handler{
		Users:   users,
		Tokens:  tokens,
		Avatars: avatars,
	}
}

// Health reports whether the user store answers.
func (h *Handler) Health(c *gin.Context) error {
	if p, ok := h.Users.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(c.Request.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return nil
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
	return nil
}
