package courses

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
	ErrNotFound      = fmt.Errorf("course %w", httpx.ErrNotFound)
	ErrAlreadyExists = fmt.Errorf("course code %w", httpx.ErrDuplicate)
)

type Repository interface {
	Get(ctx context.Context, id string) (*Course, error)
	List(ctx context.Context, search string, limit, offset int) ([]Course, int, error)
	Create(ctx context.Context, course Course) (*Course, error)
	Update(ctx context.Context, id string, updates map[string]any) (*Course, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const courseColumns = `id, code, title, description, capacity, starts_on, ends_on, created_by, created_at, updated_at`

func scanCourse(row pgx.Row) (*Course, error) {
	var c Course
	err := row.Scan(&c.ID, &c.Code, &c.Title, &c.Description, &c.Capacity, &c.StartsOn, &c.EndsOn, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
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
	return &c, nil
}

func (r *repository) Get(ctx context.Context, id string) (*Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, search string, limit, offset int) ([]Course, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = "WHERE code ILIKE $1 OR title ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM courses "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	query := fmt.Sprintf("SELECT %s FROM courses %s ORDER BY starts_on NULLS LAST, code LIMIT $%d OFFSET $%d",
		courseColumns, where, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()
	out := make([]Course, 0, limit)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, c Course) (*Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, `INSERT INTO courses (id, code, title, description, capacity, starts_on, ends_on, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+courseColumns,
		c.ID, c.Code, c.Title, c.Description, c.Capacity, c.StartsOn, c.EndsOn, c.CreatedBy))
}

var updatableColumns = map[string]bool{
	"title":       true,
	"description": true,
	"capacity":    true,
	"starts_on":   true,
	"ends_on":     true,
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) (*Course, error) {
	if len(updates) == 0 {
		return r.Get(ctx, id)
	}
	columns := make([]string, 0, len(updates))
	for col := range updates {
		if !updatableColumns[col] {
			return nil, fmt.Errorf("courses: column %q is not updatable", col)
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
	query := fmt.Sprintf("UPDATE courses SET %s WHERE id = $%d RETURNING %s", strings.Join(sets, ", "), len(args), courseColumns)
	return scanCourse(r.pool.QueryRow(ctx, query, args...))
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
