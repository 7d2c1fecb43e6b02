package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// --- identities ---

type stubIdentityRepo struct {
	users map[string]*domain.Identity
	seq   int
	err   error
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{users: make(map[string]*domain.Identity)}
}

func cloneIdentity(u *domain.Identity) *domain.Identity {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubIdentityRepo) Create(_ context.Context, u *domain.Identity) (*domain.Identity, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneIdentity(u)
	c.ID = fmt.Sprintf("id-%d", r.seq)
	r.users[c.Username] = c
	return cloneIdentity(c), nil
}

func (r *stubIdentityRepo) FindByUsername(_ context.Context, username string) (*domain.Identity, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneIdentity(u), nil
}

func (r *stubIdentityRepo) FindActiveByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	u, err := r.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubIdentityRepo) List(_ context.Context, active *bool) ([]domain.Identity, error) {
	out := []domain.Identity{}
	for _, u := range r.users {
		if active != nil && u.Active != *active {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubIdentityRepo) Update(_ context.Context, u *domain.Identity) (*domain.Identity, error) {
	if _, ok := r.users[u.Username]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, existing := range r.users {
		if existing.Username != u.Username && existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.users[u.Username] = cloneIdentity(u)
	return cloneIdentity(u), nil
}

func (r *stubIdentityRepo) SetActive(_ context.Context, username string, active bool, at time.Time) error {
	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = active
	u.UpdatedAt = at
	return nil
}

func (r *stubIdentityRepo) Stats(_ context.Context) (domain.IdentityStats, error) {
	var s domain.IdentityStats
	for _, u := range r.users {
		s.Total++
		if u.Active {
			s.Active++
		} else {
			s.Inactive++
		}
	}
	return s, nil
}

// --- auth collaborators ---

type stubIssuer struct {
	issued []string
	err    error
}

func (s *stubIssuer) IssueToken(identity *domain.Identity) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	s.issued = append(s.issued, identity.Username)
	return "token-for-" + identity.Username, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

type stubThrottle struct {
	failures map[string]int64
	limit    int64
	err      error
}

func newStubThrottle(limit int64) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int64), limit: limit}
}

func (t *stubThrottle) Blocked(_ context.Context, username string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return t.failures[username] >= t.limit, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, username string) (int64, error) {
	if t.err != nil {
		return 0, t.err
	}
	t.failures[username]++
	return t.failures[username], nil
}

func (t *stubThrottle) Reset(_ context.Context, username string) error {
	delete(t.failures, username)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

// --- organisation ---

type stubCompanyRepo struct {
	items map[string]*domain.Company
	seq   int
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{items: make(map[string]*domain.Company)}
}

func (r *stubCompanyRepo) Create(_ context.Context, c *domain.Company) (*domain.Company, error) {
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("c-%d", r.seq)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCompanyRepo) Get(_ context.Context, id string) (*domain.Company, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r *stubCompanyRepo) List(_ context.Context, f domain.OrgFilter) ([]domain.Company, error) {
	out := []domain.Company{}
	for _, c := range r.items {
		if f.Active != nil && c.Bankrupt == *f.Active {
			continue
		}
		if !containsFold(c.Name, f.NameContains) || !containsFold(c.Location, f.LocationContains) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCompanyRepo) Update(_ context.Context, c *domain.Company) (*domain.Company, error) {
	if _, ok := r.items[c.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	r.items[c.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCompanyRepo) Stats(_ context.Context) (domain.CompanyStats, error) {
	var st domain.CompanyStats
	for _, c := range r.items {
		st.Total++
		if c.Bankrupt {
			st.Bankrupt++
		} else {
			st.Solvent++
		}
	}
	return st, nil
}

func (r *stubCompanyRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	c, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Bankrupt = true
	c.UpdatedAt = at
	return nil
}

type stubDepartmentRepo struct {
	items map[string]*domain.Department
	seq   int
}

func newStubDepartmentRepo() *stubDepartmentRepo {
	return &stubDepartmentRepo{items: make(map[string]*domain.Department)}
}

func (r *stubDepartmentRepo) Create(_ context.Context, d *domain.Department) (*domain.Department, error) {
	r.seq++
	clone := *d
	clone.ID = fmt.Sprintf("d-%d", r.seq)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubDepartmentRepo) Get(_ context.Context, id string) (*domain.Department, error) {
	d, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *d
	return &out, nil
}

func (r *stubDepartmentRepo) List(_ context.Context, f domain.OrgFilter) ([]domain.Department, error) {
	out := []domain.Department{}
	for _, d := range r.items {
		if f.Active != nil && d.Active != *f.Active {
			continue
		}
		if !containsFold(d.Location, f.LocationContains) {
			continue
		}
		if f.CompanyID != "" && d.CompanyID != f.CompanyID {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubDepartmentRepo) Update(_ context.Context, d *domain.Department) (*domain.Department, error) {
	if _, ok := r.items[d.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	clone := *d
	r.items[d.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubDepartmentRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	d, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.Active = false
	d.UpdatedAt = at
	return nil
}

type stubEmployeeRepo struct {
	items map[string]*domain.Employee
	seq   int
}

func newStubEmployeeRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{items: make(map[string]*domain.Employee)}
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	r.seq++
	clone := *e
	clone.ID = fmt.Sprintf("e-%d", r.seq)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubEmployeeRepo) Get(_ context.Context, id string) (*domain.Employee, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *e
	return &out, nil
}

func (r *stubEmployeeRepo) List(_ context.Context, f domain.OrgFilter) ([]domain.Employee, error) {
	out := []domain.Employee{}
	for _, e := range r.items {
		if f.Active != nil && e.Employed != *f.Active {
			continue
		}
		if !f.StartedFrom.IsZero() && e.StartDate.Before(f.StartedFrom) {
			continue
		}
		if !f.StartedTo.IsZero() && e.StartDate.After(f.StartedTo) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubEmployeeRepo) Update(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	if _, ok := r.items[e.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	clone := *e
	r.items[e.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubEmployeeRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	e, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Employed = false
	e.UpdatedAt = at
	return nil
}

type stubCalculator struct {
	gotSubject string
	gotGross   decimal.Decimal
}

func (c *stubCalculator) ComputeBreakdown(subjectID string, gross decimal.Decimal) (domain.SalaryBreakdown, error) {
	c.gotSubject = subjectID
	c.gotGross = gross
	if !gross.IsPositive() {
		return domain.SalaryBreakdown{}, domain.ErrInvalidInput
	}
	return domain.SalaryBreakdown{SubjectID: subjectID, GrossBasis: gross}, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
