package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/avetra/bizsync/models"
)

// EntityDumper implements snapshot.Dumper over an [EntityStore]. The
// payload is a stream of JSON lines, one [models.EntityRecord] each,
// ordered by the configured entity dependency order so a restore can apply
// them front to back.
type EntityDumper struct {
	store     EntityStore
	order     []string
	transform func(*models.EntityRecord)
}

// NewEntityDumper constructs a dumper that emits entity types in the given
// dependency order. Types present in the store but absent from order are
// appended at the end in store order.
func NewEntityDumper(store EntityStore, order []string) *EntityDumper {
	return &EntityDumper{store: store, order: order}
}

// WithTransform applies fn to every record on its way into the payload, so
// a snapshot can be written directly in the destination's schema revision.
func (d *EntityDumper) WithTransform(fn func(*models.EntityRecord)) *EntityDumper {
	d.transform = fn
	return d
}

// Dump writes every record as one JSON line and returns the entity count.
func (d *EntityDumper) Dump(ctx context.Context, w io.Writer) (int, error) {
	types, err := orderedTypes(ctx, d.store, d.order)
	if err != nil {
		return 0, err
	}

	enc := json.NewEncoder(w)
	total := 0
	for _, entityType := range types {
		if err = ctx.Err(); err != nil {
			return total, err
		}

		records, listErr := d.store.All(ctx, entityType)
		if listErr != nil {
			return total, fmt.Errorf("dump %s records: %w", entityType, listErr)
		}
		for i := range records {
			if d.transform != nil {
				d.transform(&records[i])
			}
			if err = enc.Encode(records[i]); err != nil {
				return total, fmt.Errorf("encode %s record: %w", entityType, err)
			}
			total++
		}
	}

	return total, nil
}

// RecordStreamReplacer is the streaming replacement surface of a store.
// The sqlite-backed [EntityStore] implements it; restores through it decode
// one record at a time, so payload size never dictates memory use.
type RecordStreamReplacer interface {
	ReplaceStream(ctx context.Context, next func() (*models.EntityRecord, error)) (int, error)
}

// EntityRestorer implements snapshot.Restorer over an [EntityStore]. The
// decoded records replace the store contents as one atomic unit: the
// replacement transaction rolls back when any record fails to decode.
type EntityRestorer struct {
	store EntityStore
}

func NewEntityRestorer(store EntityStore) *EntityRestorer {
	return &EntityRestorer{store: store}
}

// Restore swaps the JSON-lines payload into the store. When the store is a
// [RecordStreamReplacer] the payload is decoded record by record inside the
// replacement transaction; otherwise it is decoded fully and applied via
// ReplaceAll.
func (r *EntityRestorer) Restore(ctx context.Context, src io.Reader) (int, error) {
	streamer, ok := r.store.(RecordStreamReplacer)
	if !ok {
		records, err := decodeRecords(ctx, src, nil)
		if err != nil {
			return 0, err
		}
		return r.store.ReplaceAll(ctx, records)
	}

	dec := json.NewDecoder(src)
	return streamer.ReplaceStream(ctx, func() (*models.EntityRecord, error) {
		var record models.EntityRecord
		if err := dec.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("decode snapshot record: %w", err)
		}
		return &record, nil
	})
}

// RewriteSnapshot streams a decoded snapshot payload from src to dst,
// applying transform to every record on the way. It drives the convert
// phase: the transform renames fields written under an older schema
// revision into the target's expected shape.
func RewriteSnapshot(ctx context.Context, src io.Reader, dst io.Writer, transform func(*models.EntityRecord)) (int, error) {
	dec := json.NewDecoder(src)
	enc := json.NewEncoder(dst)

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		var record models.EntityRecord
		if err := dec.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			return total, fmt.Errorf("decode snapshot record: %w", err)
		}

		if transform != nil {
			transform(&record)
		}

		if err := enc.Encode(record); err != nil {
			return total, fmt.Errorf("encode snapshot record: %w", err)
		}
		total++
	}
}

// RenameTransform builds a record transform from an entityType → oldField →
// newField map. Unknown types and fields pass through untouched.
func RenameTransform(renames map[string]map[string]string) func(*models.EntityRecord) {
	if len(renames) == 0 {
		return nil
	}

	return func(record *models.EntityRecord) {
		mapping, ok := renames[record.EntityType]
		if !ok {
			return
		}
		for oldName, newName := range mapping {
			value, present := record.Fields[oldName]
			if !present {
				continue
			}
			delete(record.Fields, oldName)
			record.Fields[newName] = value
		}
	}
}

// DecodeRecords reads a decoded snapshot payload fully into memory. Used by
// the validation surface, which compares a submitted snapshot against the
// local instance without restoring it.
func DecodeRecords(ctx context.Context, src io.Reader) ([]models.EntityRecord, error) {
	return decodeRecords(ctx, src, nil)
}

func decodeRecords(ctx context.Context, src io.Reader, transform func(*models.EntityRecord)) ([]models.EntityRecord, error) {
	dec := json.NewDecoder(src)
	records := make([]models.EntityRecord, 0, 100)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var record models.EntityRecord
		if err := dec.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("decode snapshot record: %w", err)
		}

		if transform != nil {
			transform(&record)
		}
		records = append(records, record)
	}
}

func orderedTypes(ctx context.Context, store EntityStore, order []string) ([]string, error) {
	present, err := store.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entity types: %w", err)
	}

	presentSet := make(map[string]struct{}, len(present))
	for _, t := range present {
		presentSet[t] = struct{}{}
	}

	types := make([]string, 0, len(present))
	seen := make(map[string]struct{}, len(order))
	for _, t := range order {
		seen[t] = struct{}{}
		if _, ok := presentSet[t]; ok {
			types = append(types, t)
		}
	}
	for _, t := range present {
		if _, ok := seen[t]; !ok {
			types = append(types, t)
		}
	}

	return types, nil
}
