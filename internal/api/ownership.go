package api

import (
	"errors"
	"strings"

	"task_manager/internal/domain"
	"task_manager/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MsgNotOwner is returned when a self-service route targets another user's task
const MsgNotOwner = "Not authorized"

// requireOwner rejects a mutation of task by anyone but its owner.
// Callers run it after the existence check and before touching the record.
func requireOwner(task *domain.Task, p domain.Principal) error {
	if !task.OwnedBy(p.ID) {
		return forbidden(MsgNotOwner)
	}
	return nil
}

// principal returns the request's authenticated identity
func principal(c *gin.Context) (domain.Principal, error) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return domain.Principal{}, unauthenticated(middleware.MsgNoToken)
	}
	return p, nil
}

// findTask loads a task by id, mapping a missing row to NotFound
func findTask(c *gin.Context, db *gorm.DB, id string) (*domain.Task, error) {
	var task domain.Task
	err := db.WithContext(c.Request.Context()).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Task not found")
	}
	if err != nil {
		return nil, internal("Failed to load task", err)
	}
	return &task, nil
}

// findUser loads a user by id, mapping a missing row to NotFound
func findUser(c *gin.Context, db *gorm.DB, id string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(c.Request.Context()).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, internal("Failed to load user", err)
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
