package team

type CreateTeamRequest struct {
	Name         string  `json:"name" binding:"required"`
	DepartmentID string  `json:"department_id" binding:"required,uuid"`
	LeadID       *string `json:"lead_id"`
}

type UpdateTeamRequest struct {
	Name         *string `json:"name"`
	DepartmentID *string `json:"department_id"`
	LeadID       *string `json:"lead_id"`
	IsActive     *bool   `json:"is_active"`
}

type TeamResponse struct {
	ID           string  `json:"id"`
	CompanyID    string  `json:"company_id"`
	DepartmentID string  `json:"department_id"`
	Name         string  `json:"name"`
	LeadID       *string `json:"lead_id,omitempty"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}
