package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "half_day"
	StatusOnLeave = "on_leave"
	StatusHoliday = "holiday"
	StatusWeekend = "weekend"
)

// One attendance row per employee per calendar day. The partial unique
// index makes a second clock-in for the same day fail at the database
// even when two requests race past the existence check.
type Attendance struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_employee_date,where:deleted_at IS NULL"`
	AttendanceDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_employee_date,where:deleted_at IS NULL"`
	ClockInTime    *time.Time
	ClockOutTime   *time.Time
	ShiftType      string  `gorm:"type:varchar(20);not null;default:morning"`
	Status         string  `gorm:"type:varchar(20);not null;default:present"`
	WorkingHours   float64 `gorm:"not null;default:0"`
	OvertimeHours  *float64
	Notes          *string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Attendance) TableName() string {
	return "attendances"
}
