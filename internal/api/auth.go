package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"sync"     // One-time dummy hash
	"time"     // Token lifetime

	"task_manager/internal/domain" // Importing domain models
	"task_manager/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// MsgInvalidCredentials is the single login failure message; it never says which half was wrong
const MsgInvalidCredentials = "Invalid credentials"

// Request and Response structs
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Response struct for authentication
type AuthResponse struct {
	Token string       `json:"token"` // JWT token
	User  UserResponse `json:"user"`  // Sanitized user
}

// TokenSettings configures token issuance
type TokenSettings struct {
	Secret string
	TTL    time.Duration
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// compareWithDummy spends roughly the same time as a real password check
// so unknown emails cannot be told apart by latency.
func compareWithDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = utils.HashPassword("task-manager-dummy-password")
	})
	utils.CheckPassword(dummyHash, password)
}

// RegisterHandler creates a regular user account and signs it in
func RegisterHandler(db *gorm.DB, cache *utils.Cache, tokens TokenSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := bindJSON(c, &req, false, "Name, email, and password are required"); err != nil {
			respondError(c, err)
			return
		}
		// Role is never client-settable at registration
		user, err := createUser(c, db, req.Name, req.Email, req.Password, domain.RoleUser)
		if err != nil {
			respondError(c, err)
			return
		}
		token, err := utils.GenerateJWT(user.ID, tokens.Secret, tokens.TTL)
		if err != nil {
			respondError(c, internal("Failed to generate token", err))
			return
		}
		cache.Invalidate(c.Request.Context(), utils.CacheKeyAllUsers)
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User registered")
		c.JSON(http.StatusCreated, AuthResponse{Token: token, User: newUserResponse(user)})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, tokens TokenSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := bindJSON(c, &req, false, "Email and password are required"); err != nil {
			respondError(c, err)
			return
		}
		var user domain.User
		err := db.WithContext(c.Request.Context()).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			compareWithDummy(req.Password)
			respondError(c, unauthenticated(MsgInvalidCredentials))
			return
		}
		if err != nil {
			respondError(c, internal("Failed to sign in", err))
			return
		}
		if !utils.CheckPassword(user.Password, req.Password) {
			logrus.WithField("user_id", user.ID).Warn("Login with wrong password")
			respondError(c, unauthenticated(MsgInvalidCredentials))
			return
		}
		token, err := utils.GenerateJWT(user.ID, tokens.Secret, tokens.TTL)
		if err != nil {
			respondError(c, internal("Failed to generate token", err))
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: newUserResponse(&user)})
	}
}
