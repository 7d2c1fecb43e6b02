package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Email    string `json:"email"    validate:"required,email"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string           `json:"token"`
	TokenType string           `json:"token_type"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      identityResponse `json:"user"`
}

// --- Identities ---

type identityResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Authority string    `json:"authority"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type createIdentityRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Email    string `json:"email"    validate:"required,email"`
	Role     string `json:"role"`
}

type updateIdentityRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role"`
}

type identityStatsResponse struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// --- Organisation ---

type companyStatsResponse struct {
	Total    int64 `json:"total"`
	Bankrupt int64 `json:"bankrupt"`
	Solvent  int64 `json:"solvent"`
}

type companyRequest struct {
	Name     string `json:"name"     validate:"required,max=200"`
	Location string `json:"location" validate:"max=200"`
	Bankrupt *bool  `json:"bankrupt"`
}

type companyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Bankrupt  bool      `json:"bankrupt"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type departmentRequest struct {
	Name      string `json:"name"       validate:"required,max=200"`
	Location  string `json:"location"   validate:"max=200"`
	CompanyID string `json:"company_id" validate:"required"`
	Active    *bool  `json:"active"`
}

type departmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Active    bool      `json:"active"`
	CompanyID string    `json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const dateLayout = "2006-01-02"

type employeeRequest struct {
	Name         string `json:"name"          validate:"required,max=100"`
	Surname      string `json:"surname"       validate:"required,max=100"`
	Salary       string `json:"salary"        validate:"required,numeric"`
	DateOfBirth  string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	StartDate    string `json:"start_date"    validate:"required,datetime=2006-01-02"`
	DepartmentID string `json:"department_id" validate:"required"`
	CompanyID    string `json:"company_id"`
	Employed     *bool  `json:"employed"`
}

type employeeResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Salary       string    `json:"salary"`
	DateOfBirth  string    `json:"date_of_birth"`
	StartDate    string    `json:"start_date"`
	Employed     bool      `json:"employed"`
	DepartmentID string    `json:"department_id"`
	CompanyID    string    `json:"company_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// --- Payroll ---

type breakdownRequest struct {
	SubjectID  string `json:"subject_id"  validate:"required"`
	GrossBasis string `json:"gross_basis" validate:"required,numeric"`
}

// breakdownResponse carries every amount as a fixed two-decimal string.
type breakdownResponse struct {
	SubjectID       string `json:"subject_id"`
	GrossBasis      string `json:"gross_basis"`
	PensionPillar1  string `json:"pension_pillar_1"`
	PensionPillar2  string `json:"pension_pillar_2"`
	TotalPension    string `json:"total_pension"`
	TaxBase         string `json:"tax_base"`
	IncomeTax       string `json:"income_tax"`
	Surtax          string `json:"surtax"`
	TotalTax        string `json:"total_tax"`
	NetSalary       string `json:"net_salary"`
	HealthInsurance string `json:"health_insurance"`
}
