package repo

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
)

func TestIncrementDailyCounter_StartsAtOne(t *testing.T) {
	db := newRepoDB(t, &domain.DailyCounter{})

	n, err := IncrementDailyCounter(context.Background(), db, "2026-03-02")
	if err != nil {
		t.Fatalf("IncrementDailyCounter: %v", err)
	}
	if n != 1 {
		t.Fatalf("first allocation of a day must be 1, got %d", n)
	}
}

func TestIncrementDailyCounter_Sequential(t *testing.T) {
	db := newRepoDB(t, &domain.DailyCounter{})

	for want := 1; want <= 5; want++ {
		n, err := IncrementDailyCounter(context.Background(), db, "2026-03-02")
		if err != nil {
			t.Fatalf("increment %d: %v", want, err)
		}
		if n != want {
			t.Fatalf("expected %d, got %d", want, n)
		}
	}
}

func TestIncrementDailyCounter_IndependentPerDay(t *testing.T) {
	db := newRepoDB(t, &domain.DailyCounter{})

	for i := 0; i < 3; i++ {
		if _, err := IncrementDailyCounter(context.Background(), db, "2026-03-02"); err != nil {
			t.Fatalf("day one increment: %v", err)
		}
	}

	n, err := IncrementDailyCounter(context.Background(), db, "2026-03-03")
	if err != nil {
		t.Fatalf("day two increment: %v", err)
	}
	if n != 1 {
		t.Fatalf("a new day must restart at 1, got %d", n)
	}

	// The previous day's counter is untouched.
	prev, err := GetDailyCounter(context.Background(), db, "2026-03-02")
	if err != nil {
		t.Fatalf("GetDailyCounter: %v", err)
	}
	if prev != 3 {
		t.Fatalf("expected previous day at 3, got %d", prev)
	}
}

func TestIncrementDailyCounter_ConcurrentNoDuplicates(t *testing.T) {
	// A real file DB with the busy-timeout pragma, so concurrent writers
	// queue instead of failing.
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "counter.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.DailyCounter{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	const workers = 20
	results := make([]int, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = IncrementDailyCounter(context.Background(), db, "2026-03-02")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
	}

	sort.Ints(results)
	for i, n := range results {
		if n != i+1 {
			t.Fatalf("expected contiguous sequence 1..%d without duplicates, got %v", workers, results)
		}
	}
}

func TestGetDailyCounter_MissingDayIsZero(t *testing.T) {
	db := newRepoDB(t, &domain.DailyCounter{})

	n, err := GetDailyCounter(context.Background(), db, "2026-03-02")
	if err != nil {
		t.Fatalf("GetDailyCounter: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 for an unseen day, got %d", n)
	}
}
