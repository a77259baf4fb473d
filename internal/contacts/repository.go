package contacts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courseflow/courseflow/internal/platform/db"
	"github.com/courseflow/courseflow/internal/platform/httpx"
)

// ErrNotFound indicates the contact does not exist.
var ErrNotFound = fmt.Errorf("contact %w", httpx.ErrNotFound)

// ErrUnknownOrganization is returned when organization_id names no row.
var ErrUnknownOrganization = fmt.Errorf("organization_id: %w", httpx.ErrValidation)

const foreignKeyViolation = "23503"

func classifyWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation && pgErr.ConstraintName == "contacts_organization_id_fkey" {
		return ErrUnknownOrganization
	}
	return err
}

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id string) (*Contact, error)
	OwnerOf(ctx context.Context, id string) (string, error)
	List(ctx context.Context, req ListContactsRequest) ([]Contact, int, error)
	Create(ctx context.Context, contact Contact) (*Contact, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const contactColumns = `id, owner_id, organization_id, first_name, last_name, email, phone, notes, created_at, updated_at`

func scanContact(row pgx.Row) (*Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.OwnerID, &c.OrganizationID, &c.FirstName, &c.LastName,
		&c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classifyWriteError(err)
	}
	return &c, nil
}

func (r *repository) Get(ctx context.Context, id string) (*Contact, error) {
	return scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
}

func (r *repository) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string
	err := r.db.QueryRow(ctx, `SELECT owner_id FROM contacts WHERE id = $1`, id).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return owner, nil
}

func (r *repository) List(ctx context.Context, req ListContactsRequest) ([]Contact, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if req.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argPos))
		args = append(args, req.OwnerID)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+*req.Search+"%")
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM contacts "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM contacts %s ORDER BY last_name, first_name, id LIMIT $%d OFFSET $%d",
		contactColumns, where, argPos, argPos+1)
	rows, err := r.db.Query(ctx, query, append(args, req.Limit, req.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]Contact, 0, req.Limit)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, c Contact) (*Contact, error) {
	return scanContact(r.db.QueryRow(ctx, `INSERT INTO contacts (id, owner_id, organization_id, first_name, last_name, email, phone, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+contactColumns,
		c.ID, c.OwnerID, c.OrganizationID, c.FirstName, c.LastName, c.Email, c.Phone, c.Notes))
}

// updatableColumns guards the dynamic SET clause.
var updatableColumns = map[string]bool{
	"organization_id": true,
	"first_name":      true,
	"last_name":       true,
	"email":           true,
	"phone":           true,
	"notes":           true,
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	columns := make([]string, 0, len(updates))
	for col := range updates {
		if !updatableColumns[col] {
			return fmt.Errorf("contacts: column %q is not updatable", col)
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

	tag, err := r.db.Exec(ctx, fmt.Sprintf("UPDATE contacts SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		return classifyWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
