package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"task_manager/internal/domain"     // Importing domain models
	"task_manager/internal/middleware" // Shared failure messages
	"task_manager/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Messages for the admin account guard and email conflicts
const (
	MsgAdminImmutable   = "Admin accounts cannot be modified"
	MsgAdminUndeletable = "Admin accounts cannot be deleted"
	MsgEmailInUse       = "Email already in use"
	MsgUserExists       = "User with this email already exists"
)

// CreateUserRequest represents an admin-initiated user creation
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

// UpdateUserRequest carries only the fields to change
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
	Password *string `json:"password"`
}

// hashPassword maps hashing failures onto the error taxonomy
func hashPassword(password string) (string, error) {
	hash, err := utils.HashPassword(password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return "", invalidInput("Password is too long")
	}
	if err != nil {
		return "", internal(middleware.MsgInternal, err)
	}
	return hash, nil
}

// ListUsersHandler returns all users, newest first
func ListUsersHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []UserResponse
		if found, err := cache.Get(ctx, utils.CacheKeyAllUsers, &cached); err == nil && found {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached)
			return
		}
		var users []domain.User
		if err := db.WithContext(ctx).Order("created_at desc, id desc").Find(&users).Error; err != nil {
			respondError(c, internal("Failed to fetch users", err))
			return
		}
		resp := make([]UserResponse, len(users))
		for i := range users {
			resp[i] = newUserResponse(&users[i])
		}
		_ = cache.Set(ctx, utils.CacheKeyAllUsers, resp) // Cache the response for future requests
		c.Header("X-Cache", "MISS")
		c.JSON(http.StatusOK, resp)
	}
}

// GetUserHandler returns a single user
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := findUser(c, db, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(user))
	}
}

// CreateUserHandler creates a user with any role
func CreateUserHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := bindJSON(c, &req, false, "Name, email, and password are required"); err != nil {
			respondError(c, err)
			return
		}
		role := req.Role
		if role == "" {
			role = domain.RoleUser
		}
		user, err := createUser(c, db, req.Name, req.Email, req.Password, role)
		if err != nil {
			respondError(c, err)
			return
		}
		cache.Invalidate(c.Request.Context(), utils.CacheKeyAllUsers)
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User created by admin")
		c.JSON(http.StatusCreated, newUserResponse(user))
	}
}

// createUser is shared by registration and admin creation.
// The lookup is a best-effort guard; the unique index on email settles concurrent inserts.
func createUser(c *gin.Context, db *gorm.DB, name, email, password, role string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, invalidInput("Name, email, and password are required")
	}
	if !domain.ValidRole(role) {
		return nil, invalidInput("Invalid role")
	}
	ctx := c.Request.Context()
	var count int64
	if err := db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, internal("Failed to create user", err)
	}
	if count > 0 {
		return nil, invalidInput(MsgUserExists)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := domain.User{Name: name, Email: email, Password: hash, Role: role}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalidInput(MsgUserExists)
		}
		return nil, internal("Failed to create user", err)
	}
	return &user, nil
}

// UpdateUserHandler updates a non-admin user
func UpdateUserHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := findUser(c, db, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if user.IsAdmin() {
			respondError(c, forbidden(MsgAdminImmutable))
			return
		}
		var req UpdateUserRequest
		if err := bindJSON(c, &req, true, "Invalid request"); err != nil {
			respondError(c, err)
			return
		}
		ctx := c.Request.Context()
		if req.Email != nil {
			email := normalizeEmail(*req.Email)
			if email != "" && email != user.Email {
				var count int64
				if err := db.WithContext(ctx).Model(&domain.User{}).
					Where("email = ? AND id <> ?", email, user.ID).
					Count(&count).Error; err != nil {
					respondError(c, internal("Failed to update user", err))
					return
				}
				if count > 0 {
					respondError(c, invalidInput(MsgEmailInUse))
					return
				}
				user.Email = email
			}
		}
		if req.Name != nil {
			if name := strings.TrimSpace(*req.Name); name != "" {
				user.Name = name
			}
		}
		if req.Role != nil && *req.Role != "" {
			user.Role = *req.Role
		}
		if req.Password != nil && *req.Password != "" {
			hash, err := hashPassword(*req.Password)
			if err != nil {
				respondError(c, err)
				return
			}
			user.Password = hash
		}
		err = db.WithContext(ctx).Model(user).Select("name", "email", "role", "password").Updates(user).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, invalidInput(MsgEmailInUse))
			return
		}
		if err != nil {
			respondError(c, internal("Failed to update user", err))
			return
		}
		cache.Invalidate(ctx, utils.CacheKeyAllUsers, utils.CacheKeyAllTasks)
		logrus.WithField("user_id", user.ID).Info("User updated")
		c.JSON(http.StatusOK, newUserResponse(user))
	}
}

// DeleteUserHandler deletes a non-admin user together with all of their tasks
func DeleteUserHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := findUser(c, db, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if user.IsAdmin() {
			respondError(c, forbidden(MsgAdminUndeletable))
			return
		}
		ctx := c.Request.Context()
		removed, err := deleteUserCascade(db.WithContext(ctx), user)
		if err != nil {
			respondError(c, internal("Failed to delete user", err))
			return
		}
		cache.Invalidate(ctx, utils.CacheKeyAllUsers, utils.CacheKeyAllTasks, utils.UserTasksKey(user.ID))
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "tasks_deleted": removed}).Info("User deleted")
		c.JSON(http.StatusOK, MessageResponse{Message: "User and associated tasks deleted successfully"})
	}
}

// deleteUserCascade removes the user's tasks and then the user in one transaction.
// If the task deletion fails the user row is left untouched.
func deleteUserCascade(db *gorm.DB, user *domain.User) (int64, error) {
	var removed int64
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", user.ID).Delete(&domain.Task{})
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		removed = res.RowsAffected
		return tx.Delete(user).Error
	})
	return removed, err
}
