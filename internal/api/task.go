package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"task_manager/internal/domain" // Importing domain models
	"task_manager/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// CreateTaskRequest represents a self-service task creation.
// Any owner supplied by the client is ignored.
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// UpdateTaskRequest carries only the fields to change
type UpdateTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// apply validates the request and copies the present fields onto task
func (r UpdateTaskRequest) apply(task *domain.Task) error {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return invalidInput("Title cannot be empty")
		}
		task.Title = title
	}
	if r.Completed != nil {
		task.Completed = *r.Completed
	}
	return nil
}

// ListTasksHandler returns the caller's tasks, newest first
func ListTasksHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := principal(c)
		if err != nil {
			respondError(c, err)
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.UserTasksKey(p.ID)
		var cached []TaskResponse
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached)
			return
		}
		var tasks []domain.Task
		if err := db.WithContext(ctx).
			Where("user_id = ?", p.ID).
			Order("created_at desc, id desc").
			Find(&tasks).Error; err != nil {
			respondError(c, internal("Failed to fetch tasks", err))
			return
		}
		resp := newTaskResponses(tasks)
		_ = cache.Set(ctx, cacheKey, resp) // Cache the response for future requests
		c.Header("X-Cache", "MISS")
		c.JSON(http.StatusOK, resp)
	}
}

// CreateTaskHandler creates a task owned by the caller
func CreateTaskHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := principal(c)
		if err != nil {
			respondError(c, err)
			return
		}
		var req CreateTaskRequest
		if err := bindJSON(c, &req, false, "Title is required"); err != nil {
			respondError(c, err)
			return
		}
		title := strings.TrimSpace(req.Title)
		if title == "" {
			respondError(c, invalidInput("Title is required"))
			return
		}
		ctx := c.Request.Context()
		task := domain.Task{Title: title, UserID: p.ID} // Owner is always the caller
		if err := db.WithContext(ctx).Create(&task).Error; err != nil {
			respondError(c, internal("Failed to add task", err))
			return
		}
		cache.Invalidate(ctx, utils.UserTasksKey(p.ID), utils.CacheKeyAllTasks)
		logrus.WithFields(logrus.Fields{"user_id": p.ID, "task_id": task.ID}).Info("Task created")
		c.JSON(http.StatusCreated, newTaskResponse(&task))
	}
}

// UpdateTaskHandler updates one of the caller's own tasks
func UpdateTaskHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := principal(c)
		if err != nil {
			respondError(c, err)
			return
		}
		task, err := findTask(c, db, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if err := requireOwner(task, p); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": p.ID, "task_id": task.ID}).Warn("Task update by non-owner rejected")
			respondError(c, err)
			return
		}
		var req UpdateTaskRequest
		if err := bindJSON(c, &req, true, "Invalid request"); err != nil {
			respondError(c, err)
			return
		}
		if err := req.apply(task); err != nil {
			respondError(c, err)
			return
		}
		ctx := c.Request.Context()
		if err := db.WithContext(ctx).Model(task).Select("title", "completed").Updates(task).Error; err != nil {
			respondError(c, internal("Failed to update task", err))
			return
		}
		cache.Invalidate(ctx, utils.UserTasksKey(p.ID), utils.CacheKeyAllTasks)
		c.JSON(http.StatusOK, newTaskResponse(task))
	}
}

// DeleteTaskHandler deletes one of the caller's own tasks
func DeleteTaskHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := principal(c)
		if err != nil {
			respondError(c, err)
			return
		}
		task, err := findTask(c, db, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if err := requireOwner(task, p); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": p.ID, "task_id": task.ID}).Warn("Task delete by non-owner rejected")
			respondError(c, err)
			return
		}
		ctx := c.Request.Context()
		if err := db.WithContext(ctx).Delete(task).Error; err != nil {
			respondError(c, internal("Failed to delete task", err))
			return
		}
		cache.Invalidate(ctx, utils.UserTasksKey(p.ID), utils.CacheKeyAllTasks)
		logrus.WithFields(logrus.Fields{"user_id": p.ID, "task_id": task.ID}).Info("Task deleted")
		c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
	}
}
