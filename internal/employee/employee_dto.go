package employee

type CreateEmployeeRequest struct {
	EmployeeCode string  `json:"employee_code"`
	FirstName    string  `json:"first_name" binding:"required"`
	LastName     string  `json:"last_name" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Phone        *string `json:"phone"`
	DateOfBirth  *string `json:"date_of_birth"`
	Gender       *string `json:"gender"`
	Address      *string `json:"address"`
	NationalID   *string `json:"national_id"`

	BranchID     *string `json:"branch_id"`
	DepartmentID *string `json:"department_id"`
	TeamID       *string `json:"team_id"`

	Designation    string `json:"designation" binding:"required"`
	EmploymentType string `json:"employment_type"`
	ShiftType      string `json:"shift_type"`
	HireDate       string `json:"hire_date" binding:"required"`

	EmergencyContactName     *string `json:"emergency_contact_name"`
	EmergencyContactPhone    *string `json:"emergency_contact_phone"`
	EmergencyContactRelation *string `json:"emergency_contact_relation"`
}

type UpdateEmployeeRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth"`
	Gender      *string `json:"gender"`
	Address     *string `json:"address"`
	NationalID  *string `json:"national_id"`

	BranchID     *string `json:"branch_id"`
	DepartmentID *string `json:"department_id"`
	TeamID       *string `json:"team_id"`

	Designation      *string `json:"designation"`
	EmploymentType   *string `json:"employment_type"`
	EmploymentStatus *string `json:"employment_status"`
	ShiftType        *string `json:"shift_type"`

	EmergencyContactName     *string `json:"emergency_contact_name"`
	EmergencyContactPhone    *string `json:"emergency_contact_phone"`
	EmergencyContactRelation *string `json:"emergency_contact_relation"`
}

type ListEmployeesQuery struct {
	DepartmentID     *string
	EmploymentStatus *string
}

type EmployeeResponse struct {
	ID           string  `json:"id"`
	CompanyID    string  `json:"company_id"`
	BranchID     *string `json:"branch_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	TeamID       *string `json:"team_id,omitempty"`

	EmployeeCode string  `json:"employee_code"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	Address      *string `json:"address,omitempty"`
	NationalID   *string `json:"national_id,omitempty"`

	Designation      string `json:"designation"`
	EmploymentType   string `json:"employment_type"`
	EmploymentStatus string `json:"employment_status"`
	ShiftType        string `json:"shift_type"`
	HireDate         string `json:"hire_date"`

	EmergencyContactName     *string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone    *string `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelation *string `json:"emergency_contact_relation,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
