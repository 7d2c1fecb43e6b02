package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skroflin/workforce-api/internal/core/domain"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

type CompanyService struct {
	repo ports.CompanyRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewCompanyService(repo ports.CompanyRepository, log zerolog.Logger) *CompanyService {
	return &CompanyService{repo: repo, log: log, now: time.Now}
}

func (s *CompanyService) Create(ctx context.Context, in ports.CompanyInput) (*domain.Company, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("company name is required: %w", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Company{
		Name:      name,
		Location:  strings.TrimSpace(in.Location),
		Bankrupt:  in.Bankrupt != nil && *in.Bankrupt,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("company_id", created.ID).Str("name", created.Name).Msg("company created")
	return created, nil
}

func (s *CompanyService) Get(ctx context.Context, id string) (*domain.Company, error) {
	return s.repo.Get(ctx, id)
}

func (s *CompanyService) List(ctx context.Context, f domain.OrgFilter) ([]domain.Company, error) {
	f.NameContains = strings.TrimSpace(f.NameContains)
	f.LocationContains = strings.TrimSpace(f.LocationContains)
	return s.repo.List(ctx, f)
}

func (s *CompanyService) Stats(ctx context.Context) (domain.CompanyStats, error) {
	return s.repo.Stats(ctx)
}

func (s *CompanyService) Update(ctx context.Context, id string, in ports.CompanyInput) (*domain.Company, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("company name is required: %w", domain.ErrInvalidInput)
	}
	current.Name = name
	current.Location = strings.TrimSpace(in.Location)
	if in.Bankrupt != nil {
		current.Bankrupt = *in.Bankrupt
	}
	current.UpdatedAt = s.now().UTC()

	return s.repo.Update(ctx, current)
}

// Delete marks the company bankrupt.
func (s *CompanyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		return err
	}
	s.log.Info().Str("company_id", id).Msg("company marked bankrupt")
	return nil
}
