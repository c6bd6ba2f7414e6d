package middleware

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/services"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

// UserKey is the gin context key holding the authenticated *models.User.
const UserKey = "user"

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type TokenVerifier interface {
	Verify(token string) (*utils.Claims, error)
}

// Authenticator resolves the session cookie of a request into a user.
type Authenticator struct {
	users  UserFinder
	tokens TokenVerifier
}

func NewAuthenticator(users UserFinder, tokens TokenVerifier) *Authenticator {
	return &Authenticator{users: users, tokens: tokens}
}

func (a *Authenticator) IsAdminAuthenticated() gin.HandlerFunc {
	return a.require(models.RoleAdmin, services.AdminCookie, "Dashboard User Is Not Authenticated!")
}

func (a *Authenticator) IsPatientAuthenticated() gin.HandlerFunc {
	return a.require(models.RolePatient, services.PatientCookie, "Patient Is Not Authenticated!")
}

func (a *Authenticator) require(role models.Role, cookie, missing string) gin.HandlerFunc {
	return CatchAsyncErrors(func(c *gin.Context) error {
		token, err := c.Cookie(cookie)
		if err != nil || token == "" {
			return utils.NewAuthError(missing)
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			return err
		}

		user, err := a.users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return utils.NewAuthError(missing)
		}
		if user.Role != role {
			return utils.NewForbiddenError(fmt.Sprintf("%s Not Authorized For This Resource!", user.Role))
		}

		c.Set(UserKey, user)
		return nil
	})
}

// CurrentUser returns the user attached by an authentication middleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}
