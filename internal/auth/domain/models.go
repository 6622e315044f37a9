package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// User is a login account. Members link to a User when a resident has
// portal access; staff accounts exist without a Member row.
type User struct {
	ID                  snowflake.ID `gorm:"column:id;primaryKey" json:"id"`
	Username            string       `gorm:"column:username" json:"username"`
	Email               string       `gorm:"column:email" json:"email"`
	PasswordHash        string       `gorm:"column:password_hash" json:"-"`
	FirstName           string       `gorm:"column:first_name" json:"first_name"`
	LastName            string       `gorm:"column:last_name" json:"last_name"`
	Phone               string       `gorm:"column:phone" json:"phone"`
	Status              string       `gorm:"column:status" json:"status"`
	EmailVerified       bool         `gorm:"column:email_verified" json:"email_verified"`
	FailedLoginAttempts int          `gorm:"column:failed_login_attempts" json:"-"`
	AccountLockedUntil  *time.Time   `gorm:"column:account_locked_until" json:"-"`
	LastLogin           *time.Time   `gorm:"column:last_login" json:"last_login,omitempty"`
	LastLoginIP         *string      `gorm:"column:last_login_ip" json:"-"`
	CreatedAt           time.Time    `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// User statuses.
const (
	StatusActive              = "active"
	StatusPendingVerification = "pending_verification"
	StatusSuspended           = "suspended"
)

// ListFilter narrows user listings.
type ListFilter struct {
	Status string
	Search string
	Offset int
	Limit  int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	FindByUsername(ctx context.Context, db *gorm.DB, username string) (*User, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*User, int64, error)
	Update(ctx context.Context, db *gorm.DB, user *User) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// RecordLoginFailure atomically bumps the failure counter and locks
	// the account once the threshold is crossed. Returns the new counter.
	RecordLoginFailure(ctx context.Context, db *gorm.DB, id snowflake.ID, threshold int, lockUntil time.Time) (int, error)
	// ResetLoginFailures clears the counter and records the login.
	ResetLoginFailures(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time, ip string) error
}
