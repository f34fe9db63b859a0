package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // Opaque identifiers
	"gorm.io/gorm"           // GORM ORM library
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User Model
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`               // Primary key (UUIDv7)
	Name      string    `gorm:"size:100;not null" json:"name"`              // Display name
	Email     string    `gorm:"size:191;uniqueIndex;not null" json:"email"` // Unique email
	Password  string    `gorm:"not null" json:"-"`                          // Hashed password, never serialized
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`  // Role: user or admin
	CreatedAt time.Time `gorm:"index" json:"createdAt"`                     // Creation time
	UpdatedAt time.Time `json:"updatedAt"`                                  // Last update time
}

// BeforeCreate assigns a time-ordered identifier when none is set
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID != "" {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	u.ID = id.String()
	return nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
