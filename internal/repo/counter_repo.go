// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the atomic increment for the per-date
// daily counter, the only write path to the daily_counters table.
package repo

import (
	"context"

	"gorm.io/gorm"
)

// IncrementDailyCounter atomically allocates the next sequence value for
// the given date key (YYYY-MM-DD), creating the counter row at 1 when the
// date has none yet.
//
// The statement is a single upsert-with-increment so two concurrent
// allocations for the same date can never observe the same value; a
// read-then-write pair would race. The RETURNING syntax is shared by
// Postgres and SQLite (3.35+, which the bundled modernc engine provides).
func IncrementDailyCounter(ctx context.Context, db *gorm.DB, date string) (int, error) {
	var counter int
	err := db.WithContext(ctx).Raw(
		`INSERT INTO daily_counters (date, counter) VALUES (?, 1)
		 ON CONFLICT (date) DO UPDATE SET counter = daily_counters.counter + 1
		 RETURNING counter`, date,
	).Scan(&counter).Error
	if err != nil {
		return 0, err
	}
	return counter, nil
}

// GetDailyCounter returns the current counter value for a date key, or 0
// when the date has no row yet. Used for reporting; allocation must go
// through IncrementDailyCounter.
func GetDailyCounter(ctx context.Context, db *gorm.DB, date string) (int, error) {
	var counter int
	err := db.WithContext(ctx).Raw(
		`SELECT counter FROM daily_counters WHERE date = ?`, date,
	).Scan(&counter).Error
	if err != nil {
		return 0, err
	}
	return counter, nil
}
