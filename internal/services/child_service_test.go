package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
	"github.com/kitadesk/kitadesk-backend/internal/realtime"
	"github.com/kitadesk/kitadesk-backend/internal/sequence"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(
		&domain.Child{}, &domain.ActionLog{}, &domain.Setting{},
		&domain.User{}, &domain.DailyCounter{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// recorder captures broadcast events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	event string
	data  any
}

func (r *recorder) Publish(event string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{event: event, data: data})
}

func (r *recorder) all() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recordedEvent, len(r.events))
	copy(out, r.events)
	return out
}

func newChildService(t *testing.T) (*ChildService, *recorder) {
	t.Helper()
	db := newServiceDB(t)
	rec := &recorder{}
	return &ChildService{
		DB:     db,
		Seq:    sequence.New(db, time.UTC),
		Events: rec,
	}, rec
}

func strptr(s string) *string { return &s }

func TestRegister_AssignsSequentialDailyIDs(t *testing.T) {
	svc, _ := newChildService(t)

	for want := 1; want <= 3; want++ {
		child, err := svc.Register(context.Background(), RegisterChildInput{
			Name:        fmt.Sprintf("Child %d", want),
			ParentPhone: "+491234",
			PickupTime:  "15:30",
		})
		if err != nil {
			t.Fatalf("Register %d: %v", want, err)
		}
		if child.DailyID != want {
			t.Fatalf("expected dailyId %d, got %d", want, child.DailyID)
		}
		if child.Status != domain.StatusActive {
			t.Fatalf("new child must be active, got %q", child.Status)
		}
		if child.ID == "" || child.RegisteredAt.IsZero() {
			t.Fatalf("missing identity or timestamp: %+v", child)
		}
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newChildService(t)

	cases := []struct {
		name string
		in   RegisterChildInput
		want error
	}{
		{"empty name", RegisterChildInput{ParentPhone: "1", PickupTime: "15:30"}, ErrNameRequired},
		{"blank name", RegisterChildInput{Name: "   ", ParentPhone: "1", PickupTime: "15:30"}, ErrNameRequired},
		{"no phone", RegisterChildInput{Name: "Mia", PickupTime: "15:30"}, ErrParentPhoneRequired},
		{"no pickup", RegisterChildInput{Name: "Mia", ParentPhone: "1"}, ErrPickupTimeRequired},
		{"bad pickup", RegisterChildInput{Name: "Mia", ParentPhone: "1", PickupTime: "25:99"}, ErrPickupTimeInvalid},
		{"pickup not a time", RegisterChildInput{Name: "Mia", ParentPhone: "1", PickupTime: "soon"}, ErrPickupTimeInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	// Validation failures must not consume sequence numbers.
	child, err := svc.Register(context.Background(), RegisterChildInput{
		Name: "Mia", ParentPhone: "1", PickupTime: "15:30",
	})
	if err != nil {
		t.Fatalf("valid register: %v", err)
	}
	if child.DailyID != 1 {
		t.Fatalf("rejected inputs must not advance the counter, got dailyId %d", child.DailyID)
	}
}

func TestRegister_NormalizesPickupTimeAndPhones(t *testing.T) {
	svc, _ := newChildService(t)

	child, err := svc.Register(context.Background(), RegisterChildInput{
		Name:         "  Mia  ",
		ParentPhone:  " +491234 ",
		ParentPhone2: strptr("   "),
		PickupTime:   "15:30:45",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if child.Name != "Mia" || child.ParentPhone != "+491234" {
		t.Fatalf("expected trimmed fields, got %+v", child)
	}
	if child.PickupTime != "15:30" {
		t.Fatalf("expected seconds dropped, got %q", child.PickupTime)
	}
	if child.ParentPhone2 != nil {
		t.Fatalf("blank second phone must collapse to nil, got %v", *child.ParentPhone2)
	}
}

func TestRegister_BroadcastsChildCreated(t *testing.T) {
	svc, rec := newChildService(t)

	child, err := svc.Register(context.Background(), RegisterChildInput{
		Name: "Mia", ParentPhone: "1", PickupTime: "15:30",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	events := rec.all()
	if len(events) != 1 || events[0].event != realtime.EventChildCreated {
		t.Fatalf("expected one child:created event, got %#v", events)
	}
	got, ok := events[0].data.(*domain.Child)
	if !ok || got.ID != child.ID {
		t.Fatalf("event must carry the created child, got %#v", events[0].data)
	}
}

func TestCheckOut_ArchivesAndBroadcasts(t *testing.T) {
	svc, rec := newChildService(t)

	child, err := svc.Register(context.Background(), RegisterChildInput{
		Name: "Mia", ParentPhone: "1", PickupTime: "15:30",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.CheckOut(context.Background(), child.ID); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}

	got, err := svc.Get(context.Background(), child.ID)
	if err != nil {
		t.Fatalf("record must survive checkout: %v", err)
	}
	if got.Status != domain.StatusPickedUp {
		t.Fatalf("expected picked_up, got %q", got.Status)
	}
	if got.DailyID != child.DailyID {
		t.Fatalf("checkout must keep the daily id, got %d", got.DailyID)
	}

	events := rec.all()
	last := events[len(events)-1]
	if last.event != realtime.EventChildDeleted {
		t.Fatalf("expected child:deleted, got %q", last.event)
	}
	ref, ok := last.data.(childRef)
	if !ok || ref.ID != child.ID {
		t.Fatalf("child:deleted must carry only the id, got %#v", last.data)
	}
}

func TestCheckOut_UnknownChild(t *testing.T) {
	svc, _ := newChildService(t)
	if err := svc.CheckOut(context.Background(), "missing"); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}
}

func TestCheckOut_RepeatIsNoOp(t *testing.T) {
	svc, _ := newChildService(t)

	child, err := svc.Register(context.Background(), RegisterChildInput{
		Name: "Mia", ParentPhone: "1", PickupTime: "15:30",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.CheckOut(context.Background(), child.ID); err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	if err := svc.CheckOut(context.Background(), child.ID); err != nil {
		t.Fatalf("repeat checkout must succeed, got %v", err)
	}
}

func TestList_StatusFilterAndArchivedView(t *testing.T) {
	svc, _ := newChildService(t)

	a, _ := svc.Register(context.Background(), RegisterChildInput{Name: "A", ParentPhone: "1", PickupTime: "15:00"})
	b, _ := svc.Register(context.Background(), RegisterChildInput{Name: "B", ParentPhone: "1", PickupTime: "15:00"})
	if err := svc.CheckOut(context.Background(), a.ID); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}

	all, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered list must include archived rows, got %d", len(all))
	}

	active, err := svc.List(context.Background(), domain.StatusActive)
	if err != nil {
		t.Fatalf("List(active): %v", err)
	}
	if len(active) != 1 || active[0].ID != b.ID {
		t.Fatalf("unexpected active view: %#v", active)
	}

	archived, err := svc.List(context.Background(), domain.StatusPickedUp)
	if err != nil {
		t.Fatalf("List(picked_up): %v", err)
	}
	if len(archived) != 1 || archived[0].ID != a.ID {
		t.Fatalf("unexpected archived view: %#v", archived)
	}

	if _, err := svc.List(context.Background(), "gone"); !errors.Is(err, ErrStatusInvalid) {
		t.Fatalf("expected ErrStatusInvalid, got %v", err)
	}
}

func TestListPage_TotalsAndBounds(t *testing.T) {
	svc, _ := newChildService(t)

	for i := 0; i < 5; i++ {
		if _, err := svc.Register(context.Background(), RegisterChildInput{
			Name: fmt.Sprintf("C%d", i), ParentPhone: "1", PickupTime: "15:00",
		}); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	items, total, err := svc.ListPage(context.Background(), "", 1, 2)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 5 || len(items) != 2 {
		t.Fatalf("expected total 5 page of 2, got total=%d len=%d", total, len(items))
	}

	// Page past the end is empty, not an error.
	items, total, err = svc.ListPage(context.Background(), "", 9, 2)
	if err != nil {
		t.Fatalf("ListPage past end: %v", err)
	}
	if total != 5 || len(items) != 0 {
		t.Fatalf("expected empty page, got total=%d len=%d", total, len(items))
	}
}

func TestGet_UnknownChild(t *testing.T) {
	svc, _ := newChildService(t)
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}
}
