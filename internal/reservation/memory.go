package reservation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nekogravitycat/resource-booking-backend/internal/clock"
)

// memoryRepository keeps reservations in process memory. Values are copied on
// the way in and out so callers never share state with the store.
type memoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*Reservation

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:  make(map[string]*Reservation),
		locks: make(map[string]*sync.Mutex),
	}
}

func clone(r *Reservation) *Reservation {
	cp := *r
	return &cp
}

func (m *memoryRepository) ListByResource(ctx context.Context, resource string) ([]*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Reservation
	for _, r := range m.byID {
		if r.Resource == resource {
			out = append(out, clone(r))
		}
	}
	return out, nil
}

func (m *memoryRepository) Insert(ctx context.Context, r *Reservation) (*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.EndTime.After(r.StartTime) {
		return nil, ErrEndBeforeStart
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[r.ID]; ok {
		return nil, fmt.Errorf("insert reservation failed: duplicate id %q", r.ID)
	}
	m.byID[r.ID] = clone(r)
	return clone(r), nil
}

func (m *memoryRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(r), nil
}

func (m *memoryRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}

func (m *memoryRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	m.mu.RLock()
	var matched []*Reservation
	for _, r := range m.byID {
		if filter.Resource != "" && r.Resource != filter.Resource {
			continue
		}
		if filter.Date != nil && !clock.SameDate(r.StartTime, *filter.Date, filter.Location) {
			continue
		}
		matched = append(matched, clone(r))
	}
	m.mu.RUnlock()

	sortReservations(matched, filter.SortBy, filter.SortOrder)

	total := len(matched)
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset >= total {
			return nil, total, nil
		}
		end := min(offset+filter.PageSize, total)
		matched = matched[offset:end]
	}
	return matched, total, nil
}

func (m *memoryRepository) WithResourceLock(ctx context.Context, resource string, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := m.resourceLock(resource)
	lock.Lock()
	defer lock.Unlock()

	return fn(m)
}

func (m *memoryRepository) resourceLock(resource string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()

	lock, ok := m.locks[resource]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[resource] = lock
	}
	return lock
}

func sortReservations(rs []*Reservation, sortBy, sortOrder string) {
	if _, ok := sortColumns[sortBy]; !ok {
		sortBy = "start_time"
	}
	desc := strings.EqualFold(sortOrder, "desc")
	if sortBy == "start_time" && !desc {
		SortByStartTime(rs)
		return
	}

	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		ta, tb := a.StartTime, b.StartTime
		switch sortBy {
		case "end_time":
			ta, tb = a.EndTime, b.EndTime
		case "created_at":
			ta, tb = a.CreatedAt, b.CreatedAt
		}
		if ta.Equal(tb) {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		}
		if desc {
			return ta.After(tb)
		}
		return ta.Before(tb)
	})
}
