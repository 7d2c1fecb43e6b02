package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

// Organisation repositories return domain.ErrNotFound for unknown ids.
// SoftDelete flips the record's status flag and never removes it.

type CompanyRepository interface {
	Create(ctx context.Context, c *domain.Company) (*domain.Company, error)
	Get(ctx context.Context, id string) (*domain.Company, error)
	List(ctx context.Context, f domain.OrgFilter) ([]domain.Company, error)
	Update(ctx context.Context, c *domain.Company) (*domain.Company, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
	Stats(ctx context.Context) (domain.CompanyStats, error)
}

type DepartmentRepository interface {
	Create(ctx context.Context, d *domain.Department) (*domain.Department, error)
	Get(ctx context.Context, id string) (*domain.Department, error)
	List(ctx context.Context, f domain.OrgFilter) ([]domain.Department, error)
	Update(ctx context.Context, d *domain.Department) (*domain.Department, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context, f domain.OrgFilter) ([]domain.Employee, error)
	Update(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type CompanyInput struct {
	Name     string
	Location string
	Bankrupt *bool
}

type DepartmentInput struct {
	Name      string
	Location  string
	CompanyID string
	Active    *bool
}

type EmployeeInput struct {
	Name         string
	Surname      string
	Salary       decimal.Decimal
	DateOfBirth  time.Time
	StartDate    time.Time
	DepartmentID string
	CompanyID    string
	Employed     *bool
}

type CompanyService interface {
	Create(ctx context.Context, in CompanyInput) (*domain.Company, error)
	Get(ctx context.Context, id string) (*domain.Company, error)
	List(ctx context.Context, f domain.OrgFilter) ([]domain.Company, error)
	Update(ctx context.Context, id string, in CompanyInput) (*domain.Company, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (domain.CompanyStats, error)
}

type DepartmentService interface {
	Create(ctx context.Context, in DepartmentInput) (*domain.Department, error)
	Get(ctx context.Context, id string) (*domain.Department, error)
	List(ctx context.Context, f domain.OrgFilter) ([]domain.Department, error)
	Update(ctx context.Context, id string, in DepartmentInput) (*domain.Department, error)
	Delete(ctx context.Context, id string) error
}

type EmployeeService interface {
	Create(ctx context.Context, in EmployeeInput) (*domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context, f domain.OrgFilter) ([]domain.Employee, error)
	Update(ctx context.Context, id string, in EmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
	// Salary computes the breakdown for the employee's stored salary, or for
	// override when it is non-nil.
	Salary(ctx context.Context, id string, override *decimal.Decimal) (domain.SalaryBreakdown, error)
}
