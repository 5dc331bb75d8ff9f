package leave

type CreateLeaveRequest struct {
	EmployeeID *string `json:"employee_id"`
	LeaveType  string  `json:"leave_type" binding:"required"`
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    string  `json:"end_date" binding:"required"`
	DaysCount  *int    `json:"days_count"`
	Reason     string  `json:"reason" binding:"required"`
}

type UpdateLeaveStatusRequest struct {
	Status          string  `json:"status" binding:"required"`
	RejectionReason *string `json:"rejection_reason"`
}

type ListLeavesQuery struct {
	EmployeeID *string
	Status     *string
}

type LeaveResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id"`

	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	DaysCount int    `json:"days_count"`
	Reason    string `json:"reason"`

	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type LeaveBalanceResponse struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employee_id"`
	LeaveType      string `json:"leave_type"`
	Year           int    `json:"year"`
	AllocatedDays  int    `json:"allocated_days"`
	CarriedForward int    `json:"carried_forward"`
	UsedDays       int    `json:"used_days"`
	RemainingDays  int    `json:"remaining_days"`
}
