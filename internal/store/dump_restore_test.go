package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetra/bizsync/models"
)

func TestDumpRestore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestEntityStore(t)
	dst := newTestEntityStore(t)

	_, err := src.Apply(ctx, []models.EntityRecord{
		rec("category", "c-1", 1, map[string]string{"name": "Drinks"}),
		rec("product", "p-1", 1, map[string]string{"name": "Coffee", "price": "4.50"}),
		rec("product", "p-2", 2, map[string]string{"name": "Tea", "price": "3.00"}),
	})
	require.NoError(t, err)

	var payload bytes.Buffer
	dumped, err := NewEntityDumper(src, []string{"category", "product"}).Dump(ctx, &payload)
	require.NoError(t, err)
	assert.Equal(t, 3, dumped)

	restored, err := NewEntityRestorer(dst).Restore(ctx, &payload)
	require.NoError(t, err)
	assert.Equal(t, 3, restored)

	srcProducts, err := src.All(ctx, "product")
	require.NoError(t, err)
	dstProducts, err := dst.All(ctx, "product")
	require.NoError(t, err)
	assert.Equal(t, srcProducts, dstProducts)
}

// streamRecordingStore fails the test if a restore falls back to the
// in-memory ReplaceAll path instead of streaming.
type streamRecordingStore struct {
	EntityStore
	t        *testing.T
	streamed []models.EntityRecord
}

func (s *streamRecordingStore) ReplaceAll(ctx context.Context, records []models.EntityRecord) (int, error) {
	s.t.Fatal("restore buffered the payload instead of streaming it")
	return 0, nil
}

func (s *streamRecordingStore) ReplaceStream(ctx context.Context, next func() (*models.EntityRecord, error)) (int, error) {
	for {
		record, err := next()
		if err != nil {
			return 0, err
		}
		if record == nil {
			return len(s.streamed), nil
		}
		s.streamed = append(s.streamed, *record)
	}
}

func TestRestore_StreamsIntoReplaceTransaction(t *testing.T) {
	ctx := context.Background()
	src := newTestEntityStore(t)

	_, err := src.Apply(ctx, []models.EntityRecord{
		rec("product", "p-1", 1, map[string]string{"name": "Coffee"}),
		rec("product", "p-2", 2, map[string]string{"name": "Tea"}),
	})
	require.NoError(t, err)

	var payload bytes.Buffer
	_, err = NewEntityDumper(src, nil).Dump(ctx, &payload)
	require.NoError(t, err)

	dst := &streamRecordingStore{t: t}
	restored, err := NewEntityRestorer(dst).Restore(ctx, &payload)
	require.NoError(t, err)
	assert.Equal(t, 2, restored)
	require.Len(t, dst.streamed, 2)
	assert.Equal(t, "p-1", dst.streamed[0].Key)
	assert.Equal(t, "p-2", dst.streamed[1].Key)
}

func TestRestore_TruncatedPayloadLeavesStoreIntact(t *testing.T) {
	ctx := context.Background()
	dst := newTestEntityStore(t)

	_, err := dst.Apply(ctx, []models.EntityRecord{
		rec("product", "keep-1", 1, map[string]string{"name": "survivor"}),
	})
	require.NoError(t, err)

	var payload bytes.Buffer
	src := newTestEntityStore(t)
	_, err = src.Apply(ctx, []models.EntityRecord{
		rec("product", "new-1", 1, map[string]string{"name": "Coffee"}),
		rec("product", "new-2", 2, map[string]string{"name": "Tea"}),
	})
	require.NoError(t, err)
	_, err = NewEntityDumper(src, nil).Dump(ctx, &payload)
	require.NoError(t, err)

	// cut the payload mid-record
	truncated := bytes.NewReader(payload.Bytes()[:payload.Len()-10])
	_, err = NewEntityRestorer(dst).Restore(ctx, truncated)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode snapshot record")

	products, err := dst.All(ctx, "product")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "keep-1", products[0].Key)
}

func TestDump_RespectsDependencyOrder(t *testing.T) {
	ctx := context.Background()
	src := newTestEntityStore(t)

	// alphabetically product < zone, but the configured order puts zone first
	_, err := src.Apply(ctx, []models.EntityRecord{
		rec("product", "p-1", 1, map[string]string{"name": "Coffee"}),
		rec("zone", "z-1", 1, map[string]string{"name": "Back room"}),
	})
	require.NoError(t, err)

	var payload bytes.Buffer
	_, err = NewEntityDumper(src, []string{"zone", "product"}).Dump(ctx, &payload)
	require.NoError(t, err)

	records, err := decodeRecords(ctx, &payload, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "zone", records[0].EntityType)
	assert.Equal(t, "product", records[1].EntityType)
}

func TestRewriteSnapshot_RenamesFields(t *testing.T) {
	ctx := context.Background()
	src := newTestEntityStore(t)

	_, err := src.Apply(ctx, []models.EntityRecord{
		rec("product", "p-1", 1, map[string]string{"title": "Coffee"}),
		rec("category", "c-1", 1, map[string]string{"title": "Drinks"}),
	})
	require.NoError(t, err)

	var original, rewritten bytes.Buffer
	_, err = NewEntityDumper(src, nil).Dump(ctx, &original)
	require.NoError(t, err)

	transform := RenameTransform(map[string]map[string]string{
		"product": {"title": "name"},
	})
	count, err := RewriteSnapshot(ctx, &original, &rewritten, transform)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records, err := decodeRecords(ctx, &rewritten, nil)
	require.NoError(t, err)
	for _, record := range records {
		switch record.EntityType {
		case "product":
			assert.Equal(t, "Coffee", record.Fields["name"])
			assert.NotContains(t, record.Fields, "title")
		case "category":
			// no rename configured for categories
			assert.Equal(t, "Drinks", record.Fields["title"])
		}
	}
}

func TestRenameTransform_EmptyMapIsNil(t *testing.T) {
	assert.Nil(t, RenameTransform(nil))
	assert.Nil(t, RenameTransform(map[string]map[string]string{}))
}
