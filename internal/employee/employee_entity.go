package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EmploymentTypeFullTime = "full_time"
	EmploymentTypePartTime = "part_time"
	EmploymentTypeContract = "contract"
	EmploymentTypeIntern   = "intern"

	EmploymentStatusActive     = "active"
	EmploymentStatusInactive   = "inactive"
	EmploymentStatusOnLeave    = "on_leave"
	EmploymentStatusTerminated = "terminated"

	ShiftTypeMorning  = "morning"
	ShiftTypeEvening  = "evening"
	ShiftTypeNight    = "night"
	ShiftTypeFlexible = "flexible"
)

// Employee code is unique within a company among non-deleted rows.
type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_employees_company_code,where:deleted_at IS NULL"`
	BranchID     *uuid.UUID `gorm:"type:uuid"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
	TeamID       *uuid.UUID `gorm:"type:uuid"`

	EmployeeCode string `gorm:"type:varchar(30);not null;uniqueIndex:uq_employees_company_code,where:deleted_at IS NULL"`
	FirstName    string `gorm:"type:varchar(100);not null"`
	LastName     string `gorm:"type:varchar(100);not null"`
	Email        string `gorm:"type:varchar(255);not null"`
	Phone        *string
	DateOfBirth  *time.Time `gorm:"type:date"`
	Gender       *string    `gorm:"type:varchar(20)"`
	Address      *string
	NationalID   *string `gorm:"type:varchar(50)"`

	Designation      string    `gorm:"type:varchar(150);not null"`
	EmploymentType   string    `gorm:"type:varchar(20);not null;default:full_time"`
	EmploymentStatus string    `gorm:"type:varchar(20);not null;default:active;index"`
	ShiftType        string    `gorm:"type:varchar(20);not null;default:morning"`
	HireDate         time.Time `gorm:"type:date;not null"`

	EmergencyContactName     *string `gorm:"type:varchar(150)"`
	EmergencyContactPhone    *string `gorm:"type:varchar(30)"`
	EmergencyContactRelation *string `gorm:"type:varchar(50)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}

func ValidEmploymentType(v string) bool {
	switch v {
	case EmploymentTypeFullTime, EmploymentTypePartTime, EmploymentTypeContract, EmploymentTypeIntern:
		return true
	}
	return false
}

func ValidEmploymentStatus(v string) bool {
	switch v {
	case EmploymentStatusActive, EmploymentStatusInactive, EmploymentStatusOnLeave, EmploymentStatusTerminated:
		return true
	}
	return false
}

func ValidShiftType(v string) bool {
	switch v {
	case ShiftTypeMorning, ShiftTypeEvening, ShiftTypeNight, ShiftTypeFlexible:
		return true
	}
	return false
}
