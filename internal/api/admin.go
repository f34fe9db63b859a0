package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"task_manager/internal/domain" // Importing domain models
	"task_manager/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Admin task routes skip the ownership check: any admin may act on any user's task.

// AdminCreateTaskRequest represents a task created on behalf of a user
type AdminCreateTaskRequest struct {
	Title  string `json:"title"`
	UserID string `json:"userId"`
}

// ownerSummaryColumns limits preloaded owners to what responses expose
func ownerSummaryColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

// ListAllTasksHandler returns every task grouped by owner.
// Users without tasks produce no group.
func ListAllTasksHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []TaskGroup
		if found, err := cache.Get(ctx, utils.CacheKeyAllTasks, &cached); err == nil && found {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached)
			return
		}
		var tasks []domain.Task
		if err := db.WithContext(ctx).
			Preload("User", ownerSummaryColumns).
			Order("created_at desc, id desc").
			Find(&tasks).Error; err != nil {
			respondError(c, internal("Failed to load admin tasks", err))
			return
		}
		groups := groupTasksByOwner(tasks)
		_ = cache.Set(ctx, utils.CacheKeyAllTasks, groups) // Cache the response for future requests
		c.Header("X-Cache", "MISS")
		c.JSON(http.StatusOK, groups)
	}
}

// AdminCreateTaskHandler creates a task for any existing user
func AdminCreateTaskHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := principal(c)
		if err != nil {
			respondError(c, err)
			return
		}
		var req AdminCreateTaskRequest
		if err := bindJSON(c, &req, false, "Title is required"); err != nil {
			respondError(c, err)
			return
		}
		title := strings.TrimSpace(req.Title)
		if title == "" {
			respondError(c, invalidInput("Title is required"))
			return
		}
		if strings.TrimSpace(req.UserID) == "" {
			respondError(c, invalidInput("User ID is required"))
			return
		}
		owner, err := findUser(c, db, strings.TrimSpace(req.UserID))
		if err != nil {
			var appErr *AppError
			if errors.As(err, &appErr) && appErr.Status == http.StatusNotFound {
				err = invalidInput("User not found") // The target is part of the input here
			}
			respondError(c, err)
			return
		}
		ctx := c.Request.Context()
		task := domain.Task{Title: title, UserID: owner.ID}
		if err := db.WithContext(ctx).Create(&task).Error; err != nil {
			respondError(c, internal("Failed to create task", err))
			return
		}
		task.User = owner
		cache.Invalidate(ctx, utils.UserTasksKey(owner.ID), utils.CacheKeyAllTasks)
		logrus.WithFields(logrus.Fields{
			"admin_id": p.ID,
			"user_id":  owner.ID,
			"task_id":  task.ID,
		}).Info("Task created by admin")
		c.JSON(http.StatusCreated, newTaskResponse(&task))
	}
}

// AdminUpdateTaskHandler updates any task regardless of owner
func AdminUpdateTaskHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := findTask(c, db, c.Param("id"))
		if err != nil {
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
		// Reload with the owner so the response carries the summary
		var updated domain.Task
		if err := db.WithContext(ctx).Preload("User", ownerSummaryColumns).First(&updated, "id = ?", task.ID).Error; err != nil {
			respondError(c, internal("Failed to update task", err))
			return
		}
		cache.Invalidate(ctx, utils.UserTasksKey(task.UserID), utils.CacheKeyAllTasks)
		c.JSON(http.StatusOK, newTaskResponse(&updated))
	}
}

// AdminDeleteTaskHandler deletes any task regardless of owner
func AdminDeleteTaskHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
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
		ctx := c.Request.Context()
		if err := db.WithContext(ctx).Delete(task).Error; err != nil {
			respondError(c, internal("Failed to delete task", err))
			return
		}
		cache.Invalidate(ctx, utils.UserTasksKey(task.UserID), utils.CacheKeyAllTasks)
		logrus.WithFields(logrus.Fields{
			"admin_id": p.ID,
			"user_id":  task.UserID,
			"task_id":  task.ID,
		}).Info("Task deleted by admin")
		c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
	}
}
