package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
	"github.com/elmanzah/reservation-app/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Login -> verify credentials, return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if !user.IsActive {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("account is disabled"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.ErrorLogger.Printf("Error generating token for user %d: %v", user.ID, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to generate token"))
		return
	}

	now := time.Now()
	uc.DB.Model(&user).Update("last_login", &now)

	utils.InfoLogger.Printf("Login successful: %s (role=%s)", user.Username, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"role":  user.Role,
	})
}

// GetProfile -> the user behind the current session.
func (uc *UserController) GetProfile(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	userID, ok := userIDInterface.(uint)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("invalid user id type"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", user)
}

// GetAllUsers -> admin accounts, super admin only.
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Order("created_at asc").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to fetch users"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

// CreateUser -> super admin provisions a staff account.
func (uc *UserController) CreateUser(c *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Role      string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if len(req.Password) < 8 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("password must be at least 8 characters long"))
		return
	}
	if req.Role == "" {
		req.Role = models.RoleAdmin
	}
	if !models.ValidRole(req.Role) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("role must be ADMIN or SUPER_ADMIN"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to create user"))
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		IsActive:  true,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("username or email already exists"))
		return
	}

	utils.InfoLogger.Printf("New user created: %s (role=%s)", user.Username, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User created", user)
}

// UpdateUser -> partial update of a staff account.
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	var req struct {
		Email     *string `json:"email"`
		Password  *string `json:"password"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Role      *string `json:"role"`
		IsActive  *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("role must be ADMIN or SUPER_ADMIN"))
			return
		}
		updates["role"] = *req.Role
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("password must be at least 8 characters long"))
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to update user"))
			return
		}
		updates["password"] = string(hashed)
	}

	if len(updates) > 0 {
		if err := uc.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to update user"))
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}

// DeleteUser -> remove a staff account.
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	// A super admin cannot delete their own session's account.
	if selfID, exists := c.Get("user_id"); exists {
		if uid, ok := selfID.(uint); ok && uid == id {
			utils.RespondError(c, http.StatusBadRequest, errors.New("cannot delete your own account"))
			return
		}
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	if err := uc.DB.Delete(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to delete user"))
		return
	}

	utils.InfoLogger.Printf("User %s deleted", user.Username)
	utils.RespondJSON(c, http.StatusOK, "User deleted", gin.H{"id": user.ID})
}

// CountUsers -> total account count for the dashboard.
func (uc *UserController) CountUsers(c *gin.Context) {
	var count int64
	if err := uc.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to count users"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User count", gin.H{"count": count})
}
