package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Store persists and queries audit records.
type Store interface {
	Create(ctx context.Context, rec Record) (*Record, error)
	Query(ctx context.Context, filter Filter, skip, take int) ([]Record, int, error)
	Get(ctx context.Context, id string) (*Record, error)
	Stats(ctx context.Context, filter Filter) (Stats, error)
}

// PGStore implements Store over the audit_logs table. Stats fans out
// concurrent queries, so the store needs a pool rather than a single
// connection or transaction.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{db: pool}
}

const selectColumns = `id, actor_id, action, entity, entity_id, details, occurred_at, success`

// Create inserts rec. Re-inserting an existing ID is a no-op so queued
// retries stay idempotent.
func (s *PGStore) Create(ctx context.Context, rec Record) (*Record, error) {
	details, err := json.Marshal(rec.Details)
	if err != nil {
		return nil, fmt.Errorf("audit: encode details: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO audit_logs (id, actor_id, action, entity, entity_id, details, occurred_at, success)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.ActorID, string(rec.Action), rec.Entity, optionalText(rec.EntityID), details, rec.Timestamp, rec.Success)
	if err != nil {
		return nil, fmt.Errorf("audit: insert: %w", err)
	}
	return &rec, nil
}

// Persist satisfies Sink.
func (s *PGStore) Persist(ctx context.Context, rec Record) error {
	_, err := s.Create(ctx, rec)
	return err
}

// Query returns one window of matching records, newest first, and the total match count.
func (s *PGStore) Query(ctx context.Context, filter Filter, skip, take int) ([]Record, int, error) {
	where, args := buildWhere(filter)

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("audit: count: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM audit_logs%s ORDER BY occurred_at DESC, id LIMIT $%d OFFSET $%d",
		selectColumns, where, len(args)+1, len(args)+2)
	args = append(args, take, skip)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("audit: query: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, take)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Get fetches one record by id.
func (s *PGStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRow(ctx, "SELECT "+selectColumns+" FROM audit_logs WHERE id = $1", id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Stats aggregates matching records. The three aggregates run concurrently.
func (s *PGStore) Stats(ctx context.Context, filter Filter) (Stats, error) {
	where, args := buildWhere(filter)
	stats := Stats{ByAction: map[string]int{}, ByEntity: map[string]int{}}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.QueryRow(ctx,
			"SELECT COUNT(*), COUNT(*) FILTER (WHERE success) FROM audit_logs"+where, args...).
			Scan(&stats.Total, &stats.Succeeded)
	})
	g.Go(func() error {
		return s.groupCount(ctx, "action", where, args, stats.ByAction)
	})
	g.Go(func() error {
		return s.groupCount(ctx, "entity", where, args, stats.ByEntity)
	})
	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("audit: stats: %w", err)
	}
	stats.Failed = stats.Total - stats.Succeeded
	return stats, nil
}

// DeleteBefore removes records older than cutoff and returns how many went.
func (s *PGStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM audit_logs WHERE occurred_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("audit: retention: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PGStore) groupCount(ctx context.Context, column, where string, args []any, into map[string]int) error {
	rows, err := s.db.Query(ctx, fmt.Sprintf("SELECT %s, COUNT(*) FROM audit_logs%s GROUP BY %s", column, where, column), args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}

func buildWhere(filter Filter) (string, []any) {
	var conditions []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.ActorID != "" {
		add("actor_id = $%d", filter.ActorID)
	}
	if e := strings.TrimSpace(filter.Entity); e != "" {
		add("entity = $%d", e)
	}
	if filter.Action != "" {
		add("action = $%d", string(filter.Action))
	}
	if !filter.From.IsZero() {
		add("occurred_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("occurred_at <= $%d", filter.To)
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec      Record
		action   string
		entityID pgtype.Text
		details  []byte
	)
	if err := row.Scan(&rec.ID, &rec.ActorID, &action, &rec.Entity, &entityID, &details, &rec.Timestamp, &rec.Success); err != nil {
		return Record{}, err
	}
	rec.Action = Action(action)
	if entityID.Valid {
		rec.EntityID = entityID.String
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &rec.Details); err != nil {
			return Record{}, fmt.Errorf("audit: decode details: %w", err)
		}
	}
	return rec, nil
}

func optionalText(value string) pgtype.Text {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}

var _ Store = (*PGStore)(nil)
