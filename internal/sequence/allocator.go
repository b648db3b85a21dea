// Package sequence implements the daily identity allocator: a contiguous,
// day-scoped, 1-based sequence of integers used as the human-facing number
// on attendance records.
//
// The allocator is durable. Each calendar date owns one counter row, and
// allocation is a single atomic increment-or-insert (see
// repo.IncrementDailyCounter), so concurrent registrations on the same date
// can never receive the same value. Day rollover needs no reset step: the
// moment the clock crosses midnight in the configured timezone, the date
// key changes and the next allocation starts a fresh row at 1. Prior days'
// rows are left untouched, so historical records keep their numbers.
package sequence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kitadesk/kitadesk-backend/internal/repo"
)

// dateKeyLayout formats a calendar date the way daily_counters keys it.
const dateKeyLayout = "2006-01-02"

// Allocator hands out day-scoped sequence numbers backed by the
// daily_counters table. It is safe for concurrent use; all coordination
// happens in the database.
type Allocator struct {
	// DB is the GORM handle used for counter rows.
	DB *gorm.DB
	// Loc is the timezone whose midnight bounds a "calendar day".
	Loc *time.Location
	// Now returns the current time; tests inject a fake clock here.
	// A nil Now means time.Now.
	Now func() time.Time
}

// New constructs an Allocator for the given handle and day-boundary zone.
// A nil loc falls back to the server's local zone.
func New(db *gorm.DB, loc *time.Location) *Allocator {
	if loc == nil {
		loc = time.Local
	}
	return &Allocator{DB: db, Loc: loc}
}

// Next atomically allocates and returns the next sequence value for the
// current calendar date (1 for the first allocation of the day).
func (a *Allocator) Next(ctx context.Context) (int, error) {
	return repo.IncrementDailyCounter(ctx, a.DB, a.DateKey())
}

// DateKey returns today's counter key (YYYY-MM-DD) in the allocator's
// timezone. Two allocations return different keys only when midnight in
// that zone passed between them.
func (a *Allocator) DateKey() string {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	loc := a.Loc
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc).Format(dateKeyLayout)
}
