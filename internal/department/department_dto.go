package department

type CreateDepartmentRequest struct {
	Name      string  `json:"name" binding:"required"`
	Code      string  `json:"code" binding:"required"`
	BranchID  *string `json:"branch_id"`
	ManagerID *string `json:"manager_id"`
}

type UpdateDepartmentRequest struct {
	Name      *string `json:"name"`
	Code      *string `json:"code"`
	BranchID  *string `json:"branch_id"`
	ManagerID *string `json:"manager_id"`
	IsActive  *bool   `json:"is_active"`
}

type DepartmentResponse struct {
	ID        string  `json:"id"`
	CompanyID string  `json:"company_id"`
	BranchID  *string `json:"branch_id,omitempty"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	ManagerID *string `json:"manager_id,omitempty"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}
