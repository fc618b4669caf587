package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	r := newReservation("a", "Meeting Pod", at(10, 0), at(11, 0))
	stored, err := repo.Insert(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, r, stored)

	// Mutating the caller's copy must not leak into the store.
	r.RequestedBy = "someone else"
	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "tester", got.RequestedBy)

	_, err = repo.Insert(ctx, newReservation("a", "Meeting Pod", at(13, 0), at(14, 0)))
	assert.Error(t, err, "duplicate ids are rejected")

	_, err = repo.Insert(ctx, newReservation("bad", "Meeting Pod", at(14, 0), at(13, 0)))
	assert.ErrorIs(t, err, ErrEndBeforeStart)

	byRes, err := repo.ListByResource(ctx, "Meeting Pod")
	require.NoError(t, err)
	assert.Len(t, byRes, 1)

	byRes, err = repo.ListByResource(ctx, "DSLR Camera Kit")
	require.NoError(t, err)
	assert.Empty(t, byRes)

	deleted, err := repo.DeleteByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteByID(ctx, "a")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.GetByID(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	nextDay := func(hour int) time.Time { return time.Date(2025, 8, 2, hour, 0, 0, 0, time.UTC) }

	seed := []*Reservation{
		newReservation("pod-late", "Meeting Pod", at(15, 0), at(16, 0)),
		newReservation("pod-early", "Meeting Pod", at(9, 0), at(10, 0)),
		newReservation("cam", "DSLR Camera Kit", at(12, 0), at(13, 0)),
		newReservation("pod-tomorrow", "Meeting Pod", nextDay(9), nextDay(10)),
	}
	for _, r := range seed {
		_, err := repo.Insert(ctx, r)
		require.NoError(t, err)
	}

	ids := func(rs []*Reservation) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}

	t.Run("Default order is start time ascending", func(t *testing.T) {
		rs, total, err := repo.List(ctx, Filter{})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Equal(t, []string{"pod-early", "cam", "pod-late", "pod-tomorrow"}, ids(rs))
	})

	t.Run("Filter by resource and date", func(t *testing.T) {
		day := at(0, 0)
		rs, total, err := repo.List(ctx, Filter{Resource: "Meeting Pod", Date: &day, Location: time.UTC})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Equal(t, []string{"pod-early", "pod-late"}, ids(rs))
	})

	t.Run("Descending with pagination", func(t *testing.T) {
		rs, total, err := repo.List(ctx, Filter{SortOrder: "desc", Page: 2, PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Equal(t, []string{"pod-early"}, ids(rs))
	})

	t.Run("Page past the end", func(t *testing.T) {
		rs, total, err := repo.List(ctx, Filter{Page: 5, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Empty(t, rs)
	})
}

func TestMemoryRepositoryWithResourceLockSerializes(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WithResourceLock(ctx, "Meeting Pod", func(tx Tx) error {
				mu.Lock()
				active++
				maxSeen = max(maxSeen, active)
				mu.Unlock()

				time.Sleep(time.Millisecond)

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

func TestMemoryRepositoryHonoursContext(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetByID(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)

	called := false
	err = repo.WithResourceLock(ctx, "Meeting Pod", func(tx Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestMemoryRepositoryListBreaksStartTimeTies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, id := range []string{"pod-b", "pod-a", "cam"} {
		res := "Meeting Pod"
		if id == "cam" {
			res = "DSLR Camera Kit"
		}
		_, err := repo.Insert(ctx, newReservation(id, res, at(10, 0), at(11, 0)))
		require.NoError(t, err)
	}

	// Map iteration order is random; repeat so an unstable order would show.
	for range 5 {
		rs, _, err := repo.List(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, rs, 3)
		assert.Equal(t, "cam", rs[0].ID)
		assert.Equal(t, "pod-a", rs[1].ID)
		assert.Equal(t, "pod-b", rs[2].ID)
	}
}
