package department

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department belongs to a company and optionally to one of its branches.
// Code is unique within the company among non-deleted rows.
type Department struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_departments_company_code,where:deleted_at IS NULL"`
	BranchID  *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"type:varchar(150);not null"`
	Code      string     `gorm:"type:varchar(30);not null;uniqueIndex:uq_departments_company_code,where:deleted_at IS NULL"`
	ManagerID *uuid.UUID `gorm:"type:uuid"`
	IsActive  bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Department) TableName() string {
	return "departments"
}
