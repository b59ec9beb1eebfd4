package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/slotline/slotline-api/internal/config"
	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/httperr"
	"github.com/slotline/slotline-api/internal/httpresp"
	"github.com/slotline/slotline-api/internal/models"
	"github.com/slotline/slotline-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	TenantName     string `json:"tenant_name" binding:"required"`
	TenantSlug     string `json:"tenant_slug" binding:"required"`
	TenantTimezone string `json:"tenant_timezone"`
	TenantPhone    string `json:"tenant_phone"`
	TenantAddress  string `json:"tenant_address"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.TenantSlug))

	var count int64
	h.db.Model(&models.Tenant{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "slug_already_exists", "this slug is taken")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.HasResolvableEmailDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "the email domain does not look valid")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "registration failed")
		return
	}

	tenant := models.Tenant{
		Name:     req.TenantName,
		Slug:     slug,
		Timezone: req.TenantTimezone,
		Phone:    req.TenantPhone,
		Address:  req.TenantAddress,
	}

	staff := models.Staff{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "owner",
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		staff.TenantID = tenant.ID
		if err := tx.Create(&staff).Error; err != nil {
			return err
		}

		// Every tenant gets its own status rows; engine code resolves
		// them by code from here on.
		for code, label := range domain.SeededStatuses {
			status := models.AppointmentStatus{
				TenantID: tenant.ID,
				Code:     code,
				Label:    label,
			}
			if err := tx.Create(&status).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_register", "registration failed")
		return
	}

	token, err := h.generateToken(&staff)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "registration failed")
		return
	}

	httpresp.Created(c, gin.H{
		"staff": gin.H{
			"id":        staff.ID,
			"name":      staff.Name,
			"email":     staff.Email,
			"phone":     staff.Phone,
			"tenant_id": staff.TenantID,
		},
		"tenant": gin.H{
			"id":       tenant.ID,
			"name":     tenant.Name,
			"slug":     tenant.Slug,
			"timezone": tenant.Timezone,
		},
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var staff models.Staff
	if err := h.db.Preload("Tenant").
		Where("email = ?", email).
		First(&staff).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.Unauthorized(c, "invalid_credentials", "invalid credentials")
			return
		}
		httperr.Internal(c, "internal_error", "login failed")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "invalid credentials")
		return
	}

	token, err := h.generateToken(&staff)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "login failed")
		return
	}

	httpresp.OK(c, gin.H{
		"staff": gin.H{
			"id":        staff.ID,
			"name":      staff.Name,
			"email":     staff.Email,
			"phone":     staff.Phone,
			"tenant_id": staff.TenantID,
		},
		"tenant": gin.H{
			"id":       staff.Tenant.ID,
			"name":     staff.Tenant.Name,
			"slug":     staff.Tenant.Slug,
			"timezone": staff.Tenant.Timezone,
		},
		"token": token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(staff *models.Staff) (string, error) {
	claims := jwt.MapClaims{
		"sub":      staff.ID,
		"tenantId": staff.TenantID,
		"role":     staff.Role,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
