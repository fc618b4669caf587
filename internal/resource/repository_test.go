package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStaticRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Preserves order and trims names", func(t *testing.T) {
		repo, err := NewStaticRepository([]string{" Meeting Pod ", "DSLR Camera Kit"})
		require.NoError(t, err)

		items, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Meeting Pod", items[0].Name)
		assert.Equal(t, "DSLR Camera Kit", items[1].Name)
	})

	t.Run("Rejects blank names", func(t *testing.T) {
		_, err := NewStaticRepository([]string{"Meeting Pod", "  "})
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("Rejects duplicates", func(t *testing.T) {
		_, err := NewStaticRepository([]string{"Meeting Pod", "Meeting Pod"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("Returned values are copies", func(t *testing.T) {
		repo, err := NewStaticRepository([]string{"Meeting Pod"})
		require.NoError(t, err)

		res, err := repo.GetByName(ctx, "Meeting Pod")
		require.NoError(t, err)
		res.Name = "changed"

		again, err := repo.GetByName(ctx, "Meeting Pod")
		require.NoError(t, err)
		assert.Equal(t, "Meeting Pod", again.Name)
	})
}

func TestServiceExists(t *testing.T) {
	repo, err := NewStaticRepository(DefaultNames)
	require.NoError(t, err)
	svc := NewService(repo)
	ctx := context.Background()

	assert.True(t, svc.Exists(ctx, "Meeting Pod"))
	assert.True(t, svc.Exists(ctx, "4K Projector & Screen"))
	assert.False(t, svc.Exists(ctx, "meeting pod"))
	assert.False(t, svc.Exists(ctx, "Hovercraft"))

	_, err = svc.GetByName(ctx, "Hovercraft")
	assert.ErrorIs(t, err, ErrNotFound)
}
