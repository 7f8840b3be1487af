package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type StaffController struct {
	DB *gorm.DB
}

func NewStaffController(db *gorm.DB) *StaffController {
	return &StaffController{DB: db}
}

var errInvalidCredentials = utils.Unauthorized("invalid credentials")

// Register staff baru
func (sc *StaffController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"omitempty,oneof=admin staff"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, utils.Validation(err))
		return
	}
	if req.Role == "" {
		req.Role = models.RoleStaff
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to hash password", err))
		return
	}

	staff := models.Staff{
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		Role:     req.Role,
	}
	err = database.Run(c.Request.Context(), sc.DB, func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&models.Staff{}).Count(&total).Error; err != nil {
			return err
		}
		// akun pertama bebas, setelah itu hanya admin yang bisa mendaftarkan staff
		if total > 0 && !callerIsAdmin(c) {
			return utils.Forbidden("only an admin can register staff accounts")
		}

		var count int64
		if err := tx.Model(&models.Staff{}).Where("email = ?", staff.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return utils.Conflict("email %s is already registered", staff.Email)
		}
		return tx.Create(&staff).Error
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Infof("New staff registered: %s (role=%s)", staff.Email, staff.Role)
	utils.RespondJSON(c, http.StatusCreated, "Staff registered", gin.H{
		"staff_id": staff.ID,
	})
}

func callerIsAdmin(c *gin.Context) bool {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	claims, err := utils.ParseToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
	return err == nil && claims.Role == models.RoleAdmin
}

// Login staff -> JWT
func (sc *StaffController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondAppError(c, utils.Validation(err))
		return
	}

	var staff models.Staff
	err := database.Run(c.Request.Context(), sc.DB, func(tx *gorm.DB) error {
		err := tx.Where("email = ?", strings.ToLower(input.Email)).First(&staff).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errInvalidCredentials
		}
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(input.Password)); err != nil {
		utils.RespondAppError(c, errInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(staff.ID, staff.Role)
	if err != nil {
		utils.RespondAppError(c, utils.Internal("failed to issue token", err))
		return
	}

	utils.InfoLogger.Infof("Login successful for staff: %s", staff.Email)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"role":  staff.Role,
	})
}

// Logout -> token masuk blacklist
func (sc *StaffController) Logout(c *gin.Context) {
	utils.BlacklistToken(c.GetString("token"))
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> data staff dari JWT
func (sc *StaffController) GetProfile(c *gin.Context) {
	staffID, ok := c.Get("staff_id")
	if !ok {
		utils.RespondAppError(c, utils.Unauthorized("staff id not found in context"))
		return
	}

	var staff models.Staff
	err := database.Run(c.Request.Context(), sc.DB, func(tx *gorm.DB) error {
		err := tx.First(&staff, staffID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("staff not found")
		}
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", staff)
}
