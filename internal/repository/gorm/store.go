package gormrepository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultBatchSize = 200

type Store struct {
	db        *gorm.DB
	batchSize int
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, batchSize: defaultBatchSize}
}

// WithBatchSize sets how many rows go into one multi-row INSERT.
func (s *Store) WithBatchSize(n int) *Store {
	if s != nil && n > 0 {
		s.batchSize = n
	}
	return s
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *Store) batch() int {
	if s == nil || s.batchSize <= 0 {
		return defaultBatchSize
	}
	return s.batchSize
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	return query.Order(clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   asc == nil || !*asc,
	})
}

// createIgnoringConflicts inserts items in chunks with ON CONFLICT DO NOTHING
// and returns the number of rows actually written.
func createIgnoringConflicts[T any](db *gorm.DB, items []T, batchSize int) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	var written int64
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(items[i:end])
		if res.Error != nil {
			return written, res.Error
		}
		written += res.RowsAffected
	}
	return written, nil
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func cleanIDs(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := map[uint64]struct{}{}
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
