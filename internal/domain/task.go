package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task Model
type Task struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Title     string    `gorm:"size:255;not null"`
	Completed bool      `gorm:"not null;default:false"`
	UserID    string    `gorm:"size:36;not null;index"` // Owning user
	User      *User     `gorm:"foreignKey:UserID"`      // Loaded only by admin queries
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// BeforeCreate assigns a time-ordered identifier when none is set
func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID != "" {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	t.ID = id.String()
	return nil
}

// OwnedBy reports whether userID owns the task
func (t *Task) OwnedBy(userID string) bool {
	return t.UserID == userID
}
