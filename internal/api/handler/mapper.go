package handler

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skroflin/workforce-api/internal/core/domain"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

// --- Request → Service input ---

func toEmployeeInput(req employeeRequest) (ports.EmployeeInput, error) {
	salary, err := parseAmount("salary", req.Salary)
	if err != nil {
		return ports.EmployeeInput{}, err
	}
	dob, err := parseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return ports.EmployeeInput{}, err
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return ports.EmployeeInput{}, err
	}
	return ports.EmployeeInput{
		Name:         req.Name,
		Surname:      req.Surname,
		Salary:       salary,
		DateOfBirth:  dob,
		StartDate:    start,
		DepartmentID: req.DepartmentID,
		CompanyID:    req.CompanyID,
		Employed:     req.Employed,
	}, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s must be a decimal number: %w", field, domain.ErrInvalidInput)
	}
	return d, nil
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be formatted as %s: %w", field, dateLayout, domain.ErrInvalidInput)
	}
	return t, nil
}

// --- Domain → Response ---

func toIdentityResponse(i *domain.Identity) identityResponse {
	return identityResponse{
		ID:        i.ID,
		Username:  i.Username,
		Email:     i.Email,
		Role:      string(i.Role),
		Authority: i.Role.Authority(),
		Active:    i.Active,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func toIdentityResponses(in []domain.Identity) []identityResponse {
	out := make([]identityResponse, 0, len(in))
	for i := range in {
		out = append(out, toIdentityResponse(&in[i]))
	}
	return out
}

func toCompanyResponse(c *domain.Company) companyResponse {
	return companyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Location:  c.Location,
		Bankrupt:  c.Bankrupt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCompanyResponses(in []domain.Company) []companyResponse {
	out := make([]companyResponse, 0, len(in))
	for i := range in {
		out = append(out, toCompanyResponse(&in[i]))
	}
	return out
}

func toDepartmentResponse(d *domain.Department) departmentResponse {
	return departmentResponse{
		ID:        d.ID,
		Name:      d.Name,
		Location:  d.Location,
		Active:    d.Active,
		CompanyID: d.CompanyID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toDepartmentResponses(in []domain.Department) []departmentResponse {
	out := make([]departmentResponse, 0, len(in))
	for i := range in {
		out = append(out, toDepartmentResponse(&in[i]))
	}
	return out
}

func toEmployeeResponse(e *domain.Employee) employeeResponse {
	return employeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Surname:      e.Surname,
		Salary:       e.Salary.StringFixed(2),
		DateOfBirth:  e.DateOfBirth.Format(dateLayout),
		StartDate:    e.StartDate.Format(dateLayout),
		Employed:     e.Employed,
		DepartmentID: e.DepartmentID,
		CompanyID:    e.CompanyID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func toEmployeeResponses(in []domain.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(in))
	for i := range in {
		out = append(out, toEmployeeResponse(&in[i]))
	}
	return out
}

func toBreakdownResponse(b domain.SalaryBreakdown) breakdownResponse {
	return breakdownResponse{
		SubjectID:       b.SubjectID,
		GrossBasis:      b.GrossBasis.StringFixed(2),
		PensionPillar1:  b.PensionPillar1.StringFixed(2),
		PensionPillar2:  b.PensionPillar2.StringFixed(2),
		TotalPension:    b.TotalPension.StringFixed(2),
		TaxBase:         b.TaxBase.StringFixed(2),
		IncomeTax:       b.IncomeTax.StringFixed(2),
		Surtax:          b.Surtax.StringFixed(2),
		TotalTax:        b.TotalTax.StringFixed(2),
		NetSalary:       b.NetSalary.StringFixed(2),
		HealthInsurance: b.HealthInsurance.StringFixed(2),
	}
}
