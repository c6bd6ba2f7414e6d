package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/repository"
	"github.com/harentsoaR/hospital-api/internal/services"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

// Patient self-registration only rejects fields that were not sent at all,
// so every field is a pointer.
type PatientRegisterRequest struct {
	FirstName *string `json:"firstName" form:"firstName"`
	LastName  *string `json:"lastName" form:"lastName"`
	Email     *string `json:"email" form:"email"`
	Phone     *string `json:"phone" form:"phone"`
	NIC       *string `json:"nic" form:"nic"`
	DOB       *string `json:"dob" form:"dob"`
	Gender    *string `json:"gender" form:"gender"`
	Password  *string `json:"password" form:"password"`
}

type LoginRequest struct {
	Email           string `json:"email" form:"email" binding:"required"`
	Password        string `json:"password" form:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"`
	Role            string `json:"role" form:"role" binding:"required"`
}

type AddAdminRequest struct {
	FirstName string `json:"firstName" form:"firstName" binding:"required"`
	LastName  string `json:"lastName" form:"lastName" binding:"required"`
	Email     string `json:"email" form:"email" binding:"required"`
	Phone     string `json:"phone" form:"phone" binding:"required"`
	NIC       string `json:"nic" form:"nic" binding:"required"`
	DOB       string `json:"dob" form:"dob" binding:"required"`
	Gender    string `json:"gender" form:"gender" binding:"required"`
	Password  string `json:"password" form:"password" binding:"required"`
}

type AddDoctorRequest struct {
	FirstName        string `form:"firstName" binding:"required"`
	LastName         string `form:"lastName" binding:"required"`
	Email            string `form:"email" binding:"required"`
	Phone            string `form:"phone" binding:"required"`
	NIC              string `form:"nic" binding:"required"`
	DOB              string `form:"dob" binding:"required"`
	Gender           string `form:"gender" binding:"required"`
	Password         string `form:"password" binding:"required"`
	DoctorDepartment string `form:"doctorDepartment" binding:"required"`
}

var supportedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// PatientRegister creates a Patient and logs them in.
func (h *Handler) PatientRegister(c *gin.Context) error {
	const (
		missing  = "All Fields Are Required!"
		conflict = "Account Already Exists With This Email!"
	)

	var req PatientRegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		return utils.NewValidationError(missing)
	}
	for _, f := range []*string{req.FirstName, req.LastName, req.Email, req.Phone, req.NIC, req.DOB, req.Gender, req.Password} {
		if f == nil {
			return utils.NewValidationError(missing)
		}
	}

	ctx := c.Request.Context()
	if err := h.ensureEmailFree(ctx, *req.Email, conflict); err != nil {
		return err
	}

	user, err := newUser(profile{
		FirstName: *req.FirstName,
		LastName:  *req.LastName,
		Email:     *req.Email,
		Phone:     *req.Phone,
		NIC:       *req.NIC,
		DOB:       *req.DOB,
		Gender:    *req.Gender,
		Password:  *req.Password,
	}, models.RolePatient)
	if err != nil {
		return err
	}
	if err := h.createUser(ctx, user, conflict); err != nil {
		return err
	}

	return h.Tokens.Issue(c, user, "Patient Registered Successfully!", http.StatusOK)
}

// Login checks credentials, then the requested role, and starts a session.
func (h *Handler) Login(c *gin.Context) error {
	const badCredentials = "Invalid Credentials Provided!"

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		return utils.NewValidationError("Complete All Required Fields!")
	}
	if req.Password != req.ConfirmPassword {
		return utils.NewValidationError("Passwords Do Not Match!")
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), req.Email, true)
	if err != nil {
		return err
	}
	if user == nil {
		// Burn the same bcrypt work as a real comparison.
		utils.CheckPasswordHash(req.Password, dummyHash())
		return utils.NewAuthError(badCredentials)
	}
	if !user.ComparePassword(req.Password) {
		return utils.NewAuthError(badCredentials)
	}
	if user.Role != models.Role(req.Role) {
		return utils.NewAuthError("Role Mismatch. Please Check!")
	}

	user.Password = ""
	return h.Tokens.Issue(c, user, "Logged In Successfully!", http.StatusCreated)
}

// AddNewAdmin creates another Admin. The caller's session is left untouched.
func (h *Handler) AddNewAdmin(c *gin.Context) error {
	const conflict = "An Admin With This Email Exists!"

	var req AddAdminRequest
	if err := c.ShouldBind(&req); err != nil {
		return utils.NewValidationError("Please Provide All Fields!")
	}

	ctx := c.Request.Context()
	if err := h.ensureEmailFree(ctx, req.Email, conflict); err != nil {
		return err
	}

	admin, err := newUser(profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		NIC:       req.NIC,
		DOB:       req.DOB,
		Gender:    req.Gender,
		Password:  req.Password,
	}, models.RoleAdmin)
	if err != nil {
		return err
	}
	if err := h.createUser(ctx, admin, conflict); err != nil {
		return err
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Admin Account Created",
		"admin":   admin,
	})
	return nil
}

// AddNewDoctor creates a Doctor from a multipart form carrying the profile
// fields and a docAvatar image.
func (h *Handler) AddNewDoctor(c *gin.Context) error {
	const conflict = "Doctor Already Registered With This Email!"

	file, err := c.FormFile("docAvatar")
	if err != nil || file == nil {
		return utils.NewValidationError("Doctor Profile Image Is Required!")
	}
	contentType, _, err := mime.ParseMediaType(file.Header.Get("Content-Type"))
	if err != nil || !supportedAvatarTypes[contentType] {
		return utils.NewValidationError("Unsupported Image Format!")
	}

	var req AddDoctorRequest
	if err := c.ShouldBind(&req); err != nil {
		return utils.NewValidationError("Please Complete The Form!")
	}

	ctx := c.Request.Context()
	if err := h.ensureEmailFree(ctx, req.Email, conflict); err != nil {
		return err
	}

	doctor, err := newUser(profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		NIC:       req.NIC,
		DOB:       req.DOB,
		Gender:    req.Gender,
		Password:  req.Password,
	}, models.RoleDoctor)
	if err != nil {
		return err
	}

	tmpPath, cleanup, err := saveTempUpload(c, file)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := h.Avatars.Upload(ctx, tmpPath, contentType)
	if err != nil || result == nil {
		if err == nil {
			err = errors.New("unknown error during upload")
		}
		slog.Error("doctor avatar upload failed", "email", req.Email, "error", err)
		return utils.NewUploadError("Unable To Upload Image!")
	}

	doctor.DoctorDepartment = req.DoctorDepartment
	doctor.DocAvatar = &models.DocAvatar{
		PublicID: result.PublicID,
		URL:      result.SecureURL,
	}
	if err := h.createUser(ctx, doctor, conflict); err != nil {
		if delErr := h.Avatars.Delete(context.WithoutCancel(ctx), result.PublicID); delErr != nil {
			slog.Error("orphaned doctor avatar", "publicId", result.PublicID, "error", delErr)
		}
		return err
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Doctor Account Created",
		"doctor":  doctor,
	})
	return nil
}

func (h *Handler) GetAllDoctors(c *gin.Context) error {
	doctors, err := h.Users.FindByRole(c.Request.Context(), models.RoleDoctor)
	if err != nil {
		return err
	}
	if doctors == nil {
		doctors = make([]models.User, 0)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"doctors": doctors,
	})
	return nil
}

// GetUserDetails returns the user attached by the authentication middleware.
func (h *Handler) GetUserDetails(c *gin.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.NewAuthError("User Is Not Authenticated!")
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
	return nil
}

func (h *Handler) LogoutAdmin(c *gin.Context) error {
	services.ExpireCookie(c, services.AdminCookie)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Admin Logged Out!",
	})
	return nil
}

func (h *Handler) LogoutPatient(c *gin.Context) error {
	services.ExpireCookie(c, services.PatientCookie)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Patient Logout Successful!",
	})
	return nil
}

// ensureEmailFree is the pre-insert duplicate check. The unique index behind
// Create still decides when two registrations race.
func (h *Handler) ensureEmailFree(ctx context.Context, email, conflict string) error {
	existing, err := h.Users.FindByEmail(ctx, email, false)
	if err != nil {
		return err
	}
	if existing != nil {
		return utils.NewConflictError(conflict)
	}
	return nil
}

func (h *Handler) createUser(ctx context.Context, u *models.User, conflict string) error {
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return utils.NewConflictError(conflict)
		}
		return err
	}
	return nil
}

type profile struct {
	FirstName, LastName, Email, Phone, NIC, DOB, Gender, Password string
}

func newUser(p profile, role models.Role) (*models.User, error) {
	dob, err := parseDOB(p.DOB)
	if err != nil {
		return nil, utils.NewValidationError("Invalid Date Of Birth!")
	}
	hash, err := utils.HashPassword(p.Password)
	if err != nil {
		return nil, err
	}
	return &models.User{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		NIC:       p.NIC,
		DOB:       dob,
		Gender:    models.Gender(p.Gender),
		Password:  hash,
		Role:      role,
	}, nil
}

// parseDOB accepts a calendar date or an RFC 3339 timestamp. An empty value
// yields the zero time.
func parseDOB(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// saveTempUpload writes the uploaded file to a temporary path for the
// avatar store and returns a func that removes it.
func saveTempUpload(c *gin.Context, fh *multipart.FileHeader) (string, func(), error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	f, err := os.CreateTemp("", "docAvatar-*"+ext)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	f.Close()

	cleanup := func() { _ = os.Remove(path) }
	if err := c.SaveUploadedFile(fh, path); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

var dummyHash = sync.OnceValue(func() string {
	hash, _ := utils.HashPassword("not-a-real-password")
	return hash
})
