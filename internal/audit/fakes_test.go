package audit

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// memStore is an in-memory Store and Sink for tests.
type memStore struct {
	mu         sync.Mutex
	records    []Record
	creates    int
	failWith   error
	lastFilter Filter
	lastSkip   int
	lastTake   int
}

func (m *memStore) Create(ctx context.Context, rec Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.records = append(m.records, rec)
	return &rec, nil
}

func (m *memStore) Persist(ctx context.Context, rec Record) error {
	_, err := m.Create(ctx, rec)
	return err
}

func (m *memStore) Query(ctx context.Context, filter Filter, skip, take int) ([]Record, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter, m.lastSkip, m.lastTake = filter, skip, take
	matched := m.matching(filter)
	total := len(matched)
	if skip >= total {
		return nil, total, nil
	}
	end := skip + take
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func (m *memStore) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			rec := r
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) Stats(ctx context.Context, filter Filter) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter
	stats := Stats{ByAction: map[string]int{}, ByEntity: map[string]int{}}
	for _, r := range m.matching(filter) {
		stats.Total++
		if r.Success {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
		stats.ByAction[string(r.Action)]++
		stats.ByEntity[r.Entity]++
	}
	return stats, nil
}

func (m *memStore) matching(filter Filter) []Record {
	var out []Record
	for _, r := range m.records {
		if filter.ActorID != "" && r.ActorID != filter.ActorID {
			continue
		}
		if filter.Entity != "" && r.Entity != filter.Entity {
			continue
		}
		if filter.Action != "" && r.Action != filter.Action {
			continue
		}
		if !filter.From.IsZero() && r.Timestamp.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && r.Timestamp.After(filter.To) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

func (m *memStore) createCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creates
}

func (m *memStore) snapshot() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record(nil), m.records...)
}

// syncWriter hands records straight to a slice.
type syncWriter struct {
	mu      sync.Mutex
	records []Record
}

func (w *syncWriter) Submit(rec Record) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, rec)
}

func (w *syncWriter) all() []Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Record(nil), w.records...)
}

var errBoom = errors.New("boom")
