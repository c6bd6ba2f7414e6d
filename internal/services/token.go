package services

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

const (
	AdminCookie   = "adminToken"
	PatientCookie = "patientToken"
)

// CookieName picks the session cookie for a role. Admins use the dashboard
// cookie; everyone else shares the patient one.
func CookieName(role models.Role) string {
	if role == models.RoleAdmin {
		return AdminCookie
	}
	return PatientCookie
}

// TokenIssuer signs session tokens and writes the login/registration response.
type TokenIssuer struct {
	secret    string
	tokenTTL  time.Duration
	cookieTTL time.Duration
	secure    bool
}

func NewTokenIssuer(secret string, tokenTTL, cookieTTL time.Duration, secure bool) *TokenIssuer {
	return &TokenIssuer{
		secret:    secret,
		tokenTTL:  tokenTTL,
		cookieTTL: cookieTTL,
		secure:    secure,
	}
}

// Issue finalizes the response: it sets the role's session cookie and writes
// {success, message, user, token} with the given status.
func (t *TokenIssuer) Issue(c *gin.Context, user *models.User, message string, status int) error {
	token, err := utils.GenerateJWT(t.secret, user.ID.Hex(), string(user.Role), t.tokenTTL)
	if err != nil {
		return err
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName(user.Role),
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(t.cookieTTL),
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: t.sameSite(),
	})

	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"user":    user,
		"token":   token,
	})
	return nil
}

// Verify checks a session token signed by this issuer.
func (t *TokenIssuer) Verify(token string) (*utils.Claims, error) {
	return utils.ValidateJWT(t.secret, token)
}

func (t *TokenIssuer) sameSite() http.SameSite {
	if t.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// ExpireCookie overwrites name with an empty value that expired at the epoch.
func ExpireCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
}
