package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"puzzletrainer/internal/puzzle"
)

// Store wraps a gorm DB instance and serves the puzzle table.
type Store struct {
	db *gorm.DB
}

var _ puzzle.Source = (*Store)(nil)

// NewStore creates a new store helper from a gorm DB.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// DB exposes the underlying gorm DB instance.
func (s *Store) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// Puzzles returns the table in ordinal order. A nil store has no puzzles.
func (s *Store) Puzzles(ctx context.Context) ([]puzzle.Puzzle, error) {
	if s == nil {
		return nil, nil
	}
	var rows []Puzzle
	if err := s.db.WithContext(ctx).Order("ordinal asc").Find(&rows).Error; err != nil {
		return nil, &puzzle.FetchError{Source: "postgres", Err: err}
	}
	out := make([]puzzle.Puzzle, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// Count returns the number of stored puzzles.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if s == nil {
		return 0, nil
	}
	err := s.db.WithContext(ctx).Model(&Puzzle{}).Count(&n).Error
	return n, err
}

// ReplacePuzzles swaps the whole table for list in one transaction.
func (s *Store) ReplacePuzzles(ctx context.Context, list []puzzle.Puzzle) error {
	if s == nil {
		return nil
	}
	rows := make([]Puzzle, 0, len(list))
	for i, p := range list {
		rows = append(rows, fromDomain(i, p))
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Puzzle{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
}

// SeedIfEmpty fills an empty table from src. It reports whether it seeded.
func (s *Store) SeedIfEmpty(ctx context.Context, src puzzle.Source) (bool, error) {
	if s == nil {
		return false, nil
	}
	n, err := s.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count puzzles: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	list, err := src.Puzzles(ctx)
	if err != nil {
		return false, err
	}
	if err := s.ReplacePuzzles(ctx, list); err != nil {
		return false, fmt.Errorf("seed puzzles: %w", err)
	}
	return true, nil
}
