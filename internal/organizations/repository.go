package organizations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courseflow/courseflow/internal/platform/httpx"
)

const uniqueViolation = "23505"

var (
	ErrNotFound      = fmt.Errorf("organization %w", httpx.ErrNotFound)
	ErrAlreadyExists = fmt.Errorf("organization name %w", httpx.ErrDuplicate)
)

type Repository interface {
	Get(ctx context.Context, id string) (*Organization, error)
	List(ctx context.Context, search string, limit, offset int) ([]Organization, int, error)
	Create(ctx context.Context, org Organization) (*Organization, error)
	Update(ctx context.Context, id string, updates map[string]any) (*Organization, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const organizationColumns = `id, name, website, industry, notes, created_by, created_at, updated_at`

func scanOrganization(row pgx.Row) (*Organization, error) {
	var o Organization
	err := row.Scan(&o.ID, &o.Name, &o.Website, &o.Industry, &o.Notes, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &o, nil
}

func (r *repository) Get(ctx context.Context, id string) (*Organization, error) {
	return scanOrganization(r.pool.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, search string, limit, offset int) ([]Organization, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = "WHERE name ILIKE $1 OR industry ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM organizations "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count organizations: %w", err)
	}
	query := fmt.Sprintf("SELECT %s FROM organizations %s ORDER BY name, id LIMIT $%d OFFSET $%d",
		organizationColumns, where, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()
	out := make([]Organization, 0, limit)
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, o Organization) (*Organization, error) {
	return scanOrganization(r.pool.QueryRow(ctx, `INSERT INTO organizations (id, name, website, industry, notes, created_by)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+organizationColumns,
		o.ID, o.Name, o.Website, o.Industry, o.Notes, o.CreatedBy))
}

var updatableColumns = map[string]bool{
	"name":     true,
	"website":  true,
	"industry": true,
	"notes":    true,
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) (*Organization, error) {
	if len(updates) == 0 {
		return r.Get(ctx, id)
	}
	columns := make([]string, 0, len(updates))
	for col := range updates {
		if !updatableColumns[col] {
			return nil, fmt.Errorf("organizations: column %q is not updatable", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)
	sets := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+1)
	for i, col := range columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, updates[col])
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE organizations SET %s WHERE id = $%d RETURNING %s", strings.Join(sets, ", "), len(args), organizationColumns)
	return scanOrganization(r.pool.QueryRow(ctx, query, args...))
}

// Delete removes the organization. Contacts that referenced it keep their
// row with organization_id cleared.
func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
