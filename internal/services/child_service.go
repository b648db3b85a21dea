// Package services – ChildService
//
// This file implements ChildService, the only component permitted to
// assign a daily ID or change a child's status. It validates registration
// input, allocates the day-scoped sequence number, persists through the
// repo layer, and publishes lifecycle events to connected observers after
// the write commits.
//
// Observability: public methods are OpenTelemetry-instrumented; spans
// carry the child identifier where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
	"github.com/kitadesk/kitadesk-backend/internal/realtime"
	"github.com/kitadesk/kitadesk-backend/internal/repo"
	"github.com/kitadesk/kitadesk-backend/internal/sequence"
)

// Broadcaster publishes lifecycle events to connected observers.
// Implementations must never block or fail the caller (see realtime.Hub).
type Broadcaster interface {
	Publish(event string, data any)
}

// ChildService coordinates the child attendance lifecycle.
type ChildService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Seq allocates day-scoped sequence numbers.
	Seq *sequence.Allocator
	// Events receives lifecycle broadcasts; nil disables broadcasting.
	Events Broadcaster
}

// RegisterChildInput is the validated-by-service payload of a check-in.
type RegisterChildInput struct {
	Name         string
	ParentPhone  string
	ParentPhone2 *string
	PickupTime   string
}

// Register checks a child in: it validates the input, allocates the next
// daily ID, persists the record with status active, and broadcasts
// child:created. The returned child carries the assigned IDs and
// registration timestamp.
func (s *ChildService) Register(ctx context.Context, in RegisterChildInput) (*domain.Child, error) {
	tr := otel.Tracer("services/ChildService")
	ctx, span := tr.Start(ctx, "Register")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.ParentPhone = strings.TrimSpace(in.ParentPhone)
	in.PickupTime = strings.TrimSpace(in.PickupTime)

	switch {
	case in.Name == "":
		return nil, ErrNameRequired
	case in.ParentPhone == "":
		return nil, ErrParentPhoneRequired
	case in.PickupTime == "":
		return nil, ErrPickupTimeRequired
	}
	normalized, err := normalizePickupTime(in.PickupTime)
	if err != nil {
		return nil, ErrPickupTimeInvalid
	}
	if p2 := in.ParentPhone2; p2 != nil {
		t := strings.TrimSpace(*p2)
		if t == "" {
			in.ParentPhone2 = nil
		} else {
			in.ParentPhone2 = &t
		}
	}

	dailyID, err := s.Seq.Next(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("child.daily_id", dailyID))

	child, err := repo.CreateChild(ctx, s.DB, repo.NewChildInput{
		Name:         in.Name,
		DailyID:      dailyID,
		ParentPhone:  in.ParentPhone,
		ParentPhone2: in.ParentPhone2,
		PickupTime:   normalized,
	})
	if err != nil {
		return nil, err
	}

	s.publish(realtime.EventChildCreated, child)
	return child, nil
}

// List returns children most-recently-registered first. status narrows the
// result to "active" or "picked_up"; the empty string returns everything.
// The archived view is exactly the picked_up filter, not a separate store.
func (s *ChildService) List(ctx context.Context, status string) ([]domain.Child, error) {
	if err := validateStatusFilter(status); err != nil {
		return nil, err
	}
	return repo.ListChildren(ctx, s.DB, status)
}

// ListPage returns a page of children plus the total count for the filter.
// Invalid page values fall back to defaults.
func (s *ChildService) ListPage(ctx context.Context, status string, page, pageSize int) ([]domain.Child, int64, error) {
	if err := validateStatusFilter(status); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountChildren(ctx, s.DB, status)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Child{}, 0, nil
	}
	items, err := repo.ListChildrenPage(ctx, s.DB, status, offset, pageSize)
	return items, total, err
}

// Get returns the child with the given ID or ErrChildNotFound.
func (s *ChildService) Get(ctx context.Context, id string) (*domain.Child, error) {
	child, err := repo.GetChild(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrChildNotFound
	}
	if err != nil {
		return nil, err
	}
	return child, nil
}

// CheckOut transitions a child to picked_up and broadcasts child:deleted
// (the historical event name for archival). Checking out an already
// picked-up child is a no-op success: the update simply reasserts
// picked_up, and the event is emitted again. A missing child is
// ErrChildNotFound.
func (s *ChildService) CheckOut(ctx context.Context, id string) error {
	tr := otel.Tracer("services/ChildService")
	ctx, span := tr.Start(ctx, "CheckOut",
		trace.WithAttributes(attribute.String("child.id", id)),
	)
	defer span.End()

	err := repo.MarkPickedUp(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrChildNotFound
	}
	if err != nil {
		return err
	}

	s.publish(realtime.EventChildDeleted, childRef{ID: id})
	return nil
}

// childRef is the payload of a child:deleted event.
type childRef struct {
	ID string `json:"id"`
}

func (s *ChildService) publish(event string, data any) {
	if s.Events != nil {
		s.Events.Publish(event, data)
	}
}

func validateStatusFilter(status string) error {
	switch status {
	case "", domain.StatusActive, domain.StatusPickedUp:
		return nil
	default:
		return ErrStatusInvalid
	}
}

// normalizePickupTime parses a wall-clock pickup time and renders it as
// HH:MM. Seconds are accepted on input and dropped.
func normalizePickupTime(s string) (string, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", ErrPickupTimeInvalid
}
