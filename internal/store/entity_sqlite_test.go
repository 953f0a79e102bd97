package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/models"
)

// newTestEntityStore opens an in-memory SQLite database with the entities
// schema applied.
func newTestEntityStore(t *testing.T) EntityStore {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	store, err := NewEntityStore(context.Background(), &DB{DB: conn, logger: logger.Nop()}, logger.Nop())
	require.NoError(t, err)
	return store
}

func rec(entityType, key string, seq int64, fields map[string]string) models.EntityRecord {
	return models.EntityRecord{
		EntityType: entityType,
		Key:        key,
		Seq:        seq,
		Fields:     fields,
		UpdatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestEntityStore_ApplyAndReadBack(t *testing.T) {
	s := newTestEntityStore(t)
	ctx := context.Background()

	applied, err := s.Apply(ctx, []models.EntityRecord{
		rec("product", "p-1", 1, map[string]string{"name": "Coffee", "price": "4.50"}),
		rec("product", "p-2", 2, map[string]string{"name": "Tea", "price": "3.00"}),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	all, err := s.All(ctx, "product")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Coffee", all[0].Fields["name"])

	types, err := s.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"product"}, types)
}

func TestEntityStore_ApplyIsIdempotent(t *testing.T) {
	s := newTestEntityStore(t)
	ctx := context.Background()

	record := rec("product", "p-1", 5, map[string]string{"name": "Coffee"})

	_, err := s.Apply(ctx, []models.EntityRecord{record})
	require.NoError(t, err)
	first, err := s.All(ctx, "product")
	require.NoError(t, err)

	// applying the exact same record again must not change observable state
	_, err = s.Apply(ctx, []models.EntityRecord{record})
	require.NoError(t, err)
	second, err := s.All(ctx, "product")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEntityStore_ApplyRejectsMissingDependency(t *testing.T) {
	s := newTestEntityStore(t)
	ctx := context.Background()

	orphan := rec("product", "p-1", 1, map[string]string{"name": "Coffee"})
	orphan.Parent = &models.EntityRef{EntityType: "category", Key: "c-9"}

	_, err := s.Apply(ctx, []models.EntityRecord{orphan})

	require.ErrorIs(t, err, ErrMissingDependency)
	assert.Contains(t, err.Error(), "category c-9")

	// the failed batch must leave nothing behind
	all, listErr := s.All(ctx, "product")
	require.NoError(t, listErr)
	assert.Empty(t, all)
}

func TestEntityStore_ApplyAcceptsDependencyWithinBatch(t *testing.T) {
	s := newTestEntityStore(t)
	ctx := context.Background()

	category := rec("category", "c-1", 1, map[string]string{"name": "Drinks"})
	product := rec("product", "p-1", 1, map[string]string{"name": "Coffee"})
	product.Parent = &models.EntityRef{EntityType: "category", Key: "c-1"}

	// parent first in the same batch satisfies the reference
	applied, err := s.Apply(ctx, []models.EntityRecord{category, product})

	require.NoError(t, err)
	assert.Equal(t, 2, applied)
}

func TestEntityStore_ChangesSince(t *testing.T) {
	s := newTestEntityStore(t)
	ctx := context.Background()

	_, err := s.Apply(ctx, []models.EntityRecord{
		rec("product", "p-1", 1, map[string]string{"name": "a"}),
		rec("product", "p-2", 2, map[string]string{"name": "b"}),
		rec("product", "p-3", 3, map[string]string{"name": "c"}),
	})
	require.NoError(t, err)

	changes, err := s.ChangesSince(ctx, "product", 1)

	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, int64(2), changes[0].Seq)
	assert.Equal(t, int64(3), changes[1].Seq)
}

func TestEntityStore_ReplaceAll(t *testing.T) {
	s := newTestEntityStore(t)
	ctx := context.Background()

	_, err := s.Apply(ctx, []models.EntityRecord{
		rec("product", "old-1", 1, map[string]string{"name": "stale"}),
	})
	require.NoError(t, err)

	count, err := s.ReplaceAll(ctx, []models.EntityRecord{
		rec("product", "new-1", 1, map[string]string{"name": "fresh"}),
		rec("category", "c-1", 1, map[string]string{"name": "Drinks"}),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	products, err := s.All(ctx, "product")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "new-1", products[0].Key)
}

func TestEntityStore_ReplaceStream(t *testing.T) {
	s := newTestEntityStore(t)
	ctx := context.Background()

	_, err := s.Apply(ctx, []models.EntityRecord{
		rec("product", "old-1", 1, map[string]string{"name": "stale"}),
	})
	require.NoError(t, err)

	incoming := []models.EntityRecord{
		rec("product", "new-1", 1, map[string]string{"name": "fresh"}),
		rec("category", "c-1", 1, map[string]string{"name": "Drinks"}),
	}
	i := 0
	count, err := s.(RecordStreamReplacer).ReplaceStream(ctx, func() (*models.EntityRecord, error) {
		if i == len(incoming) {
			return nil, nil
		}
		record := &incoming[i]
		i++
		return record, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	products, err := s.All(ctx, "product")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "new-1", products[0].Key)
}

func TestEntityStore_ReplaceStreamErrorRollsBack(t *testing.T) {
	s := newTestEntityStore(t)
	ctx := context.Background()

	_, err := s.Apply(ctx, []models.EntityRecord{
		rec("product", "old-1", 1, map[string]string{"name": "stale"}),
	})
	require.NoError(t, err)

	streamErr := errors.New("stream broke mid-payload")
	delivered := 0
	_, err = s.(RecordStreamReplacer).ReplaceStream(ctx, func() (*models.EntityRecord, error) {
		if delivered == 1 {
			return nil, streamErr
		}
		record := rec("product", "new-1", 1, map[string]string{"name": "fresh"})
		delivered++
		return &record, nil
	})
	require.ErrorIs(t, err, streamErr)

	// the failed replacement must leave the previous contents intact
	products, err := s.All(ctx, "product")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "old-1", products[0].Key)
}

func TestEntityStore_ExistsIgnoresSoftDeleted(t *testing.T) {
	s := newTestEntityStore(t)
	ctx := context.Background()

	deleted := rec("product", "p-1", 1, map[string]string{"name": "gone"})
	deleted.Deleted = true
	_, err := s.Apply(ctx, []models.EntityRecord{deleted})
	require.NoError(t, err)

	ok, err := s.Exists(ctx, "product", "p-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
