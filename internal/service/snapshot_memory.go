package service

import (
	"context"
	"sort"

	"github.com/avetra/bizsync/models"
)

// memorySnapshot adapts a decoded raw snapshot to the EntitySnapshot read
// surface so it can be reconciled without restoring it anywhere.
type memorySnapshot struct {
	types  []string
	byType map[string][]models.EntityRecord
}

func newMemorySnapshot(records []models.EntityRecord) *memorySnapshot {
	byType := make(map[string][]models.EntityRecord)
	for _, r := range records {
		byType[r.EntityType] = append(byType[r.EntityType], r)
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
		sort.Slice(byType[t], func(i, j int) bool { return byType[t][i].Key < byType[t][j].Key })
	}
	sort.Strings(types)

	return &memorySnapshot{types: types, byType: byType}
}

func (m *memorySnapshot) Types(_ context.Context) ([]string, error) {
	return m.types, nil
}

func (m *memorySnapshot) All(_ context.Context, entityType string) ([]models.EntityRecord, error) {
	return m.byType[entityType], nil
}
