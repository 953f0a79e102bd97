// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/models"
)

const entitySchema = `CREATE TABLE IF NOT EXISTS entities (
		entity_type TEXT    NOT NULL,
		key         TEXT    NOT NULL,
		seq         INTEGER NOT NULL,
		fields      TEXT    NOT NULL,
		parent_type TEXT,
		parent_key  TEXT,
		deleted     INTEGER NOT NULL DEFAULT 0,
		updated_at  TIMESTAMP NOT NULL,
		PRIMARY KEY (entity_type, key)
	);
	CREATE INDEX IF NOT EXISTS idx_entities_type_seq ON entities (entity_type, seq);`

const (
	listEntityTypes = `SELECT DISTINCT entity_type FROM entities ORDER BY entity_type;`

	selectEntityColumns = `SELECT entity_type, key, seq, fields, parent_type, parent_key, deleted, updated_at
		FROM entities`

	selectAllOfType = selectEntityColumns + `
		WHERE entity_type = ?
		ORDER BY key;`

	selectChangesSince = selectEntityColumns + `
		WHERE entity_type = ? AND seq > ?
		ORDER BY seq;`

	upsertEntity = `INSERT INTO entities (entity_type, key, seq, fields, parent_type, parent_key, deleted, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (entity_type, key) DO UPDATE SET
			seq = excluded.seq,
			fields = excluded.fields,
			parent_type = excluded.parent_type,
			parent_key = excluded.parent_key,
			deleted = excluded.deleted,
			updated_at = excluded.updated_at;`

	entityExists = `SELECT COUNT(1) FROM entities
		WHERE entity_type = ? AND key = ? AND deleted = 0;`

	deleteAllEntities = `DELETE FROM entities;`
)

// entityStore is the SQLite-backed implementation of [EntityStore] holding
// the local instance's business entities in transfer form.
type entityStore struct {
	*DB
	logger *logger.Logger
}

// NewEntityStore constructs an [EntityStore] over the given SQLite
// connection, creating the entities table if it does not exist yet.
func NewEntityStore(ctx context.Context, db *DB, log *logger.Logger) (EntityStore, error) {
	if _, err := db.ExecContext(ctx, entitySchema); err != nil {
		log.Err(err).Str("func", "NewEntityStore").Msg("failed to create entities schema")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return &entityStore{DB: db, logger: log}, nil
}

func (s *entityStore) Types(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, listEntityTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	types := make([]string, 0, 8)
	for rows.Next() {
		var t string
		if err = rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		types = append(types, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return types, nil
}

func (s *entityStore) All(ctx context.Context, entityType string) ([]models.EntityRecord, error) {
	return s.queryRecords(ctx, selectAllOfType, entityType)
}

func (s *entityStore) ChangesSince(ctx context.Context, entityType string, sinceSeq int64) ([]models.EntityRecord, error) {
	return s.queryRecords(ctx, selectChangesSince, entityType, sinceSeq)
}

func (s *entityStore) queryRecords(ctx context.Context, query string, args ...any) ([]models.EntityRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "entityStore.queryRecords").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.EntityRecord, 0, 50)
	for rows.Next() {
		record, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

// Apply upserts one batch inside a single transaction. The whole batch
// rolls back when any record's parent is absent, so at-least-once delivery
// can never leave a half-applied batch visible.
func (s *entityStore) Apply(ctx context.Context, records []models.EntityRecord) (int, error) {
	log := logger.FromContext(ctx)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	applied := 0
	for i := range records {
		record := records[i]

		if record.Parent != nil {
			var count int
			if err = tx.QueryRowContext(ctx, entityExists, record.Parent.EntityType, record.Parent.Key).Scan(&count); err != nil {
				return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
			}
			if count == 0 {
				log.Error().
					Str("func", "entityStore.Apply").
					Str("entity_type", record.EntityType).
					Str("key", record.Key).
					Str("missing_type", record.Parent.EntityType).
					Str("missing_key", record.Parent.Key).
					Msg("record references an entity the destination does not have")
				return 0, fmt.Errorf("%w: %s %s required by %s %s",
					ErrMissingDependency,
					record.Parent.EntityType, record.Parent.Key,
					record.EntityType, record.Key)
			}
		}

		if err = upsertTx(ctx, tx, record); err != nil {
			return 0, err
		}
		applied++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return applied, nil
}

// ReplaceAll swaps the entire store contents for the given records in one
// transaction. Used when the replacement set is already in memory, such as
// the peer replace endpoint.
func (s *entityStore) ReplaceAll(ctx context.Context, records []models.EntityRecord) (int, error) {
	i := 0
	return s.ReplaceStream(ctx, func() (*models.EntityRecord, error) {
		if i == len(records) {
			return nil, nil
		}
		record := &records[i]
		i++
		return record, nil
	})
}

// ReplaceStream swaps the entire store contents for a record stream inside
// one transaction. next returns nil at end of stream; any error from it
// rolls the replacement back. The bulk restore path feeds it straight from
// the snapshot decoder, so a restore never holds the full dataset in
// memory.
func (s *entityStore) ReplaceStream(ctx context.Context, next func() (*models.EntityRecord, error)) (int, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, deleteAllEntities); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	applied := 0
	for {
		if err = ctx.Err(); err != nil {
			return 0, err
		}

		record, nextErr := next()
		if nextErr != nil {
			return 0, nextErr
		}
		if record == nil {
			break
		}

		if err = upsertTx(ctx, tx, *record); err != nil {
			return 0, err
		}
		applied++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return applied, nil
}

func (s *entityStore) Exists(ctx context.Context, entityType, key string) (bool, error) {
	var count int
	if err := s.DB.QueryRowContext(ctx, entityExists, entityType, key).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return count > 0, nil
}

func upsertTx(ctx context.Context, tx *sql.Tx, record models.EntityRecord) error {
	fields, err := json.Marshal(record.Fields)
	if err != nil {
		return fmt.Errorf("encode record fields: %w", err)
	}

	var parentType, parentKey sql.NullString
	if record.Parent != nil {
		parentType = sql.NullString{String: record.Parent.EntityType, Valid: true}
		parentKey = sql.NullString{String: record.Parent.Key, Valid: true}
	}

	_, err = tx.ExecContext(ctx, upsertEntity,
		record.EntityType,
		record.Key,
		record.Seq,
		string(fields),
		parentType,
		parentKey,
		record.Deleted,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func scanRecord(rows *sql.Rows) (models.EntityRecord, error) {
	var record models.EntityRecord
	var fields string
	var parentType, parentKey sql.NullString

	err := rows.Scan(
		&record.EntityType,
		&record.Key,
		&record.Seq,
		&fields,
		&parentType,
		&parentKey,
		&record.Deleted,
		&record.UpdatedAt,
	)
	if err != nil {
		return models.EntityRecord{}, err
	}

	if err = json.Unmarshal([]byte(fields), &record.Fields); err != nil {
		return models.EntityRecord{}, fmt.Errorf("decode record fields: %w", err)
	}
	if parentType.Valid {
		record.Parent = &models.EntityRef{EntityType: parentType.String, Key: parentKey.String}
	}

	return record, nil
}
