package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"

	TypeAnnual       = "annual"
	TypeSick         = "sick"
	TypeCasual       = "casual"
	TypeMaternity    = "maternity"
	TypePaternity    = "paternity"
	TypeUnpaid       = "unpaid"
	TypeCompensatory = "compensatory"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	LeaveType string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	DaysCount int       `gorm:"not null"`
	Reason    string    `gorm:"not null"`

	Status          string     `gorm:"type:varchar(20);not null;default:pending;index"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Leave) TableName() string {
	return "leaves"
}

// LeaveBalance tracks one employee's allocation for a leave type and
// calendar year. The unique index keeps balance provisioning idempotent
// under event re-delivery.
type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_employee_type_year"`

	LeaveType      string `gorm:"type:varchar(20);not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	Year           int    `gorm:"not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	AllocatedDays  int    `gorm:"not null;default:0"`
	CarriedForward int    `gorm:"not null;default:0"`
	UsedDays       int    `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func ValidLeaveType(v string) bool {
	switch v {
	case TypeAnnual, TypeSick, TypeCasual, TypeMaternity, TypePaternity, TypeUnpaid, TypeCompensatory:
		return true
	}
	return false
}

func ValidStatus(v string) bool {
	switch v {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// DefaultAllocations is what every new employee starts the year with.
var DefaultAllocations = map[string]int{
	TypeAnnual: 20,
	TypeSick:   10,
	TypeCasual: 5,
}
