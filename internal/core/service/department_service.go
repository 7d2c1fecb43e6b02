package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skroflin/workforce-api/internal/core/domain"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

type DepartmentService struct {
	repo      ports.DepartmentRepository
	companies ports.CompanyRepository
	log       zerolog.Logger
	now       func() time.Time
}

func NewDepartmentService(repo ports.DepartmentRepository, companies ports.CompanyRepository, log zerolog.Logger) *DepartmentService {
	return &DepartmentService{repo: repo, companies: companies, log: log, now: time.Now}
}

func (s *DepartmentService) Create(ctx context.Context, in ports.DepartmentInput) (*domain.Department, error) {
	d := &domain.Department{Active: true}
	if err := s.apply(ctx, d, in); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now

	created, err := s.repo.Create(ctx, d)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("department_id", created.ID).Str("company_id", created.CompanyID).Msg("department created")
	return created, nil
}

func (s *DepartmentService) Get(ctx context.Context, id string) (*domain.Department, error) {
	return s.repo.Get(ctx, id)
}

func (s *DepartmentService) List(ctx context.Context, f domain.OrgFilter) ([]domain.Department, error) {
	f.NameContains = strings.TrimSpace(f.NameContains)
	f.LocationContains = strings.TrimSpace(f.LocationContains)
	return s.repo.List(ctx, f)
}

func (s *DepartmentService) Update(ctx context.Context, id string, in ports.DepartmentInput) (*domain.Department, error) {
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

// Delete deactivates the department.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		return err
	}
	s.log.Info().Str("department_id", id).Msg("department deactivated")
	return nil
}

func (s *DepartmentService) apply(ctx context.Context, d *domain.Department, in ports.DepartmentInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("department name is required: %w", domain.ErrInvalidInput)
	}
	if _, err := s.companies.Get(ctx, in.CompanyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("company %q does not exist: %w", in.CompanyID, domain.ErrInvalidInput)
		}
		return err
	}

	d.Name = name
	d.Location = strings.TrimSpace(in.Location)
	d.CompanyID = in.CompanyID
	if in.Active != nil {
		d.Active = *in.Active
	}
	return nil
}
