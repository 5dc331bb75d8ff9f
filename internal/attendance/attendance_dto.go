package attendance

type ClockInRequest struct {
	EmployeeID *string `json:"employee_id"`
	ShiftType  *string `json:"shift_type"`
	Notes      *string `json:"notes"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes"`
}

type ListAttendanceQuery struct {
	EmployeeID *string
	StartDate  *string
	EndDate    *string
}

type AttendanceResponse struct {
	ID             string   `json:"id"`
	CompanyID      string   `json:"company_id"`
	EmployeeID     string   `json:"employee_id"`
	AttendanceDate string   `json:"attendance_date"`
	ClockInTime    *string  `json:"clock_in_time,omitempty"`
	ClockOutTime   *string  `json:"clock_out_time,omitempty"`
	ShiftType      string   `json:"shift_type"`
	Status         string   `json:"status"`
	WorkingHours   float64  `json:"working_hours"`
	OvertimeHours  *float64 `json:"overtime_hours,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}
