package company

type CreateCompanyRequest struct {
	Name     string  `json:"name" binding:"required"`
	Code     string  `json:"code" binding:"required"`
	Country  string  `json:"country" binding:"required"`
	Currency string  `json:"currency"`
	Timezone string  `json:"timezone"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Website  *string `json:"website"`
}

type UpdateCompanyRequest struct {
	Name     *string `json:"name"`
	Country  *string `json:"country"`
	Currency *string `json:"currency"`
	Timezone *string `json:"timezone"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Website  *string `json:"website"`
	IsActive *bool   `json:"is_active"`
}

type CompanyResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Country   string  `json:"country"`
	Currency  string  `json:"currency"`
	Timezone  string  `json:"timezone"`
	Address   *string `json:"address,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Website   *string `json:"website,omitempty"`
	LogoURL   *string `json:"logo_url,omitempty"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}
