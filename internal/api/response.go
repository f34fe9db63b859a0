package api

import (
	"time"

	"task_manager/internal/domain"
)

// UserResponse is the public view of a user; it never carries the password hash
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerSummary identifies the owner of a task in admin responses
type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskResponse is the public view of a task. User is only populated by admin routes.
type TaskResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Completed bool          `json:"completed"`
	UserID    string        `json:"userId"`
	User      *OwnerSummary `json:"user,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// TaskGroup is one owner's tasks in the admin list-all response
type TaskGroup struct {
	User  OwnerSummary   `json:"user"`
	Tasks []TaskResponse `json:"tasks"`
}

// MessageResponse is returned by operations without a resource body
type MessageResponse struct {
	Message string `json:"message"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func newOwnerSummary(u *domain.User) OwnerSummary {
	return OwnerSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func newTaskResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.User != nil {
		owner := newOwnerSummary(t.User)
		resp.User = &owner
	}
	return resp
}

func newTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = newTaskResponse(&tasks[i])
	}
	return out
}

// groupTasksByOwner expects tasks newest first and keeps that order inside each group.
// Groups appear in the order their owner's newest task does.
func groupTasksByOwner(tasks []domain.Task) []TaskGroup {
	groups := []TaskGroup{}
	index := make(map[string]int)
	for i := range tasks {
		t := &tasks[i]
		if t.User == nil {
			continue
		}
		pos, ok := index[t.UserID]
		if !ok {
			pos = len(groups)
			index[t.UserID] = pos
			groups = append(groups, TaskGroup{User: newOwnerSummary(t.User)})
		}
		groups[pos].Tasks = append(groups[pos].Tasks, newTaskResponse(t))
	}
	return groups
}
