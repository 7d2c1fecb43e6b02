package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

const uniqueViolation = "23505"

const (
	identityColumns = `id, username, email, password_hash, active, role, created_at, updated_at`

	insertIdentityQuery = `INSERT INTO identities (` + identityColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	selectByUsernameQuery = `SELECT ` + identityColumns + ` FROM identities WHERE username = $1`

	selectActiveByUsernameQuery = `SELECT ` + identityColumns + ` FROM identities WHERE username = $1 AND active = TRUE`

	listIdentitiesQuery = `SELECT ` + identityColumns + ` FROM identities ORDER BY username`

	listIdentitiesByStatusQuery = `SELECT ` + identityColumns + ` FROM identities WHERE active = $1 ORDER BY username`

	updateIdentityQuery = `UPDATE identities SET email = $2, role = $3, updated_at = $4 WHERE username = $1`

	setActiveQuery = `UPDATE identities SET active = $2, updated_at = $3 WHERE username = $1`

	statsQuery = `SELECT COUNT(*), COUNT(*) FILTER (WHERE active) FROM identities`
)

// IdentityRepository implements ports.IdentityRepository on PostgreSQL.
type IdentityRepository struct {
	db *sql.DB
}

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*domain.Identity, error) {
	var (
		i    domain.Identity
		role string
	)
	if err := row.Scan(&i.ID, &i.Username, &i.Email, &i.PasswordHash, &i.Active, &role, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	i.Role, _ = domain.ParseRole(role)
	i.CreatedAt = i.CreatedAt.UTC()
	i.UpdatedAt = i.UpdatedAt.UTC()
	return &i, nil
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	created := *identity
	created.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx, insertIdentityQuery,
		created.ID, created.Username, created.Email, created.PasswordHash,
		created.Active, string(created.Role), created.CreatedAt, created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}
	return &created, nil
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return r.findOne(ctx, selectByUsernameQuery, username)
}

func (r *IdentityRepository) FindActiveByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return r.findOne(ctx, selectActiveByUsernameQuery, username)
}

func (r *IdentityRepository) findOne(ctx context.Context, query, username string) (*domain.Identity, error) {
	identity, err := scanIdentity(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return identity, nil
}

func (r *IdentityRepository) List(ctx context.Context, active *bool) ([]domain.Identity, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if active == nil {
		rows, err = r.db.QueryContext(ctx, listIdentitiesQuery)
	} else {
		rows, err = r.db.QueryContext(ctx, listIdentitiesByStatusQuery, *active)
	}
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	out := []domain.Identity{}
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		out = append(out, *identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	return out, nil
}

func (r *IdentityRepository) Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	res, err := r.db.ExecContext(ctx, updateIdentityQuery,
		identity.Username, identity.Email, string(identity.Role), identity.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update identity: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	updated := *identity
	return &updated, nil
}

func (r *IdentityRepository) SetActive(ctx context.Context, username string, active bool, at time.Time) error {
	res, err := r.db.ExecContext(ctx, setActiveQuery, username, active, at)
	if err != nil {
		return fmt.Errorf("set identity status: %w", err)
	}
	return requireAffected(res)
}

func (r *IdentityRepository) Stats(ctx context.Context) (domain.IdentityStats, error) {
	var s domain.IdentityStats
	if err := r.db.QueryRowContext(ctx, statsQuery).Scan(&s.Total, &s.Active); err != nil {
		return domain.IdentityStats{}, fmt.Errorf("count identities: %w", err)
	}
	s.Inactive = s.Total - s.Active
	return s, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
