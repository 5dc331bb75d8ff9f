package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account. CompanyID is null only for super_admin accounts;
// EmployeeID links the account to an employee record when one exists.
// Email uniqueness is partial so a soft-deleted account's email can be
// registered again.
type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email      string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email,where:deleted_at IS NULL"`
	Password   string     `gorm:"type:varchar(255);not null"`
	Role       string     `gorm:"type:varchar(30);not null;default:'employee'"`
	CompanyID  *uuid.UUID `gorm:"type:uuid;index"`
	EmployeeID *uuid.UUID `gorm:"type:uuid;index"`
	IsActive   bool       `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
