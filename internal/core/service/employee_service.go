package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/skroflin/workforce-api/internal/core/domain"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

type EmployeeService struct {
	repo        ports.EmployeeRepository
	departments ports.DepartmentRepository
	payroll     ports.PayrollCalculator
	log         zerolog.Logger
	now         func() time.Time
}

func NewEmployeeService(
	repo ports.EmployeeRepository,
	departments ports.DepartmentRepository,
	payroll ports.PayrollCalculator,
	log zerolog.Logger,
) *EmployeeService {
	return &EmployeeService{repo: repo, departments: departments, payroll: payroll, log: log, now: time.Now}
}

func (s *EmployeeService) Create(ctx context.Context, in ports.EmployeeInput) (*domain.Employee, error) {
	e := &domain.Employee{Employed: true}
	if err := s.apply(ctx, e, in); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("employee_id", created.ID).Str("department_id", created.DepartmentID).Msg("employee created")
	return created, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	return s.repo.Get(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context, f domain.OrgFilter) ([]domain.Employee, error) {
	f.NameContains = strings.TrimSpace(f.NameContains)
	if !f.StartedFrom.IsZero() && !f.StartedTo.IsZero() && f.StartedTo.Before(f.StartedFrom) {
		return nil, fmt.Errorf("start date range is empty: %w", domain.ErrInvalidInput)
	}
	return s.repo.List(ctx, f)
}

func (s *EmployeeService) Update(ctx context.Context, id string, in ports.EmployeeInput) (*domain.Employee, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, current, in); err != nil {
		return nil, err
	}
	current.UpdatedAt = s.now().UTC()

	return s.repo.Update(ctx, current)
}

// Delete marks the employee as no longer employed.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		return err
	}
	s.log.Info().Str("employee_id", id).Msg("employee marked not employed")
	return nil
}

func (s *EmployeeService) Salary(ctx context.Context, id string, override *decimal.Decimal) (domain.SalaryBreakdown, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.SalaryBreakdown{}, err
	}

	gross := e.Salary
	if override != nil {
		gross = *override
	}
	return s.payroll.ComputeBreakdown(e.ID, gross)
}

func (s *EmployeeService) apply(ctx context.Context, e *domain.Employee, in ports.EmployeeInput) error {
	name := strings.TrimSpace(in.Name)
	surname := strings.TrimSpace(in.Surname)
	if name == "" || surname == "" {
		return fmt.Errorf("name and surname are required: %w", domain.ErrInvalidInput)
	}
	salary := in.Salary.Round(2)
	if !salary.IsPositive() {
		return fmt.Errorf("salary must be at least 0.01, got %s: %w", in.Salary, domain.ErrInvalidInput)
	}
	if in.DateOfBirth.IsZero() || in.StartDate.IsZero() {
		return fmt.Errorf("date of birth and start date are required: %w", domain.ErrInvalidInput)
	}
	if !in.DateOfBirth.Before(in.StartDate) {
		return fmt.Errorf("start date must be after date of birth: %w", domain.ErrInvalidInput)
	}

	dept, err := s.departments.Get(ctx, in.DepartmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("department %q does not exist: %w", in.DepartmentID, domain.ErrInvalidInput)
		}
		return err
	}
	if in.CompanyID != "" && in.CompanyID != dept.CompanyID {
		return fmt.Errorf("department %q does not belong to company %q: %w", dept.ID, in.CompanyID, domain.ErrInvalidInput)
	}

	e.Name = name
	e.Surname = surname
	e.Salary = salary
	e.DateOfBirth = in.DateOfBirth.UTC()
	e.StartDate = in.StartDate.UTC()
	e.DepartmentID = dept.ID
	e.CompanyID = dept.CompanyID
	if in.Employed != nil {
		e.Employed = *in.Employed
	}
	return nil
}
