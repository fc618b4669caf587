package reservation

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/resource-booking-backend/internal/db"
)

// newTestPool connects to TEST_DB_DSN, applies the schema and empties the
// reservations table. Tests are skipped when no database is configured.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN environment variable is not set")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))
	clearReservations(t, pool)
	return pool
}

func clearReservations(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE TABLE public.reservations")
	require.NoError(t, err)
}

func newStoredReservation(resource string, start, end time.Time) *Reservation {
	return &Reservation{
		ID:          uuid.NewString(),
		Resource:    resource,
		RequestedBy: "tester",
		StartTime:   start,
		EndTime:     end,
		CreatedAt:   at(6, 0),
	}
}

func TestPgxRepositoryCRUDAndList(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPgxRepository(pool)
	ctx := context.Background()

	early := newStoredReservation("Meeting Pod", at(9, 0), at(10, 0))
	late := newStoredReservation("Meeting Pod", at(15, 0), at(16, 0))
	cam := newStoredReservation("DSLR Camera Kit", at(12, 0), at(13, 0))
	for _, r := range []*Reservation{late, early, cam} {
		_, err := repo.Insert(ctx, r)
		require.NoError(t, err)
	}

	t.Run("Get By ID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, early.ID)
		require.NoError(t, err)
		assert.Equal(t, early.Resource, got.Resource)
		assert.True(t, got.StartTime.Equal(early.StartTime))
		assert.True(t, got.EndTime.Equal(early.EndTime))
	})

	t.Run("List By Resource", func(t *testing.T) {
		rs, err := repo.ListByResource(ctx, "Meeting Pod")
		require.NoError(t, err)
		assert.Len(t, rs, 2)
	})

	t.Run("List Filters And Orders", func(t *testing.T) {
		day := at(0, 0)
		rs, total, err := repo.List(ctx, Filter{Resource: "Meeting Pod", Date: &day, Location: time.UTC})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, rs, 2)
		assert.Equal(t, early.ID, rs[0].ID)
		assert.Equal(t, late.ID, rs[1].ID)

		rs, total, err = repo.List(ctx, Filter{SortOrder: "desc", Page: 1, PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, rs, 1)
		assert.Equal(t, late.ID, rs[0].ID)
	})

	t.Run("Delete", func(t *testing.T) {
		deleted, err := repo.DeleteByID(ctx, early.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteByID(ctx, early.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = repo.GetByID(ctx, early.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Check Constraint Rejects Inverted Window", func(t *testing.T) {
		_, err := repo.Insert(ctx, newStoredReservation("Meeting Pod", at(20, 0), at(19, 0)))
		assert.ErrorIs(t, err, ErrEndBeforeStart)
	})
}

// The exclusion constraint must reject exactly the windows CheckConflicts rejects.
func TestPgxRepositoryExclusionMatchesBufferRule(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPgxRepository(pool)
	ctx := context.Background()

	tests := []struct {
		name       string
		resource   string
		start, end time.Time
	}{
		{name: "Inside Buffer After", resource: "Meeting Pod", start: at(11, 5), end: at(12, 0)},
		{name: "Exactly At Buffer After", resource: "Meeting Pod", start: at(11, 10), end: at(12, 0)},
		{name: "Just Inside Buffer After", resource: "Meeting Pod", start: at(11, 9), end: at(12, 0)},
		{name: "Exactly At Buffer Before", resource: "Meeting Pod", start: at(8, 30), end: at(9, 50)},
		{name: "Just Inside Buffer Before", resource: "Meeting Pod", start: at(8, 30), end: at(9, 51)},
		{name: "Direct Overlap", resource: "Meeting Pod", start: at(10, 30), end: at(10, 45)},
		{name: "Other Resource", resource: "DSLR Camera Kit", start: at(10, 0), end: at(11, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearReservations(t, pool)

			existing := newStoredReservation("Meeting Pod", at(10, 0), at(11, 0))
			_, err := repo.Insert(ctx, existing)
			require.NoError(t, err)

			want := CheckConflicts(tt.resource, tt.start, tt.end, []*Reservation{existing}, "").HasConflict

			_, err = repo.Insert(ctx, newStoredReservation(tt.resource, tt.start, tt.end))
			if want {
				assert.ErrorIs(t, err, ErrOverlap)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPgxRepositoryWithResourceLockSerializes(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPgxRepository(pool)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WithResourceLock(ctx, "Meeting Pod", func(tx Tx) error {
				mu.Lock()
				active++
				maxSeen = max(maxSeen, active)
				mu.Unlock()

				time.Sleep(10 * time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestPgxRepositoryConcurrentCreateAdmitsOne(t *testing.T) {
	pool := newTestPool(t)
	svc := newTestService(t, NewPgxRepository(pool))
	ctx := context.Background()
	now := at(8, 0)

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, createReq("Meeting Pod", at(10, 0), at(11, 0)), now)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}
