package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/hospital-api/internal/handlers"
	"github.com/harentsoaR/hospital-api/internal/middleware"
)

// Setup installs the error sink and every account route on r.
func Setup(r *gin.Engine, h *handlers.Handler, auth *middleware.Authenticator) {
	wrap := middleware.CatchAsyncErrors
	isAdmin := auth.IsAdminAuthenticated()
	isPatient := auth.IsPatientAuthenticated()

	r.Use(middleware.ErrorHandler())

	r.GET("/healthz", wrap(h.Health))

	user := r.Group("/api/v1/user")
	{
		user.POST("/patient/register", wrap(h.PatientRegister))
		user.POST("/login", wrap(h.Login))
		user.GET("/doctors", wrap(h.GetAllDoctors))

		// Dashboard
		user.POST("/admin/addnew", isAdmin, wrap(h.AddNewAdmin))
		user.POST("/doctor/addnew", isAdmin, wrap(h.AddNewDoctor))
		user.GET("/admin/me", isAdmin, wrap(h.GetUserDetails))

		user.GET("/patient/me", isPatient, wrap(h.GetUserDetails))

		// Logout always clears the cookie, even for a stale or foreign session.
		user.GET("/admin/logout", wrap(h.LogoutAdmin))
		user.GET("/patient/logout", wrap(h.LogoutPatient))
	}
}
