// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Child model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a child is not found, functions return ErrNotFound
//     (an alias of gorm.ErrRecordNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
)

// NewChildInput carries the persisted fields of a registration. DailyID is
// allocated by the caller (the lifecycle service) before insertion.
type NewChildInput struct {
	Name         string
	DailyID      int
	ParentPhone  string
	ParentPhone2 *string
	PickupTime   string
}

// CreateChild inserts a new Child row with a generated UUID, status
// "active", and RegisteredAt set to now (UTC).
//
// On success, it returns the persisted Child. On failure, it returns a DB error.
func CreateChild(ctx context.Context, db *gorm.DB, in NewChildInput) (*domain.Child, error) {
	c := &domain.Child{
		ID:           uuid.NewString(),
		Name:         in.Name,
		DailyID:      in.DailyID,
		ParentPhone:  in.ParentPhone,
		ParentPhone2: in.ParentPhone2,
		PickupTime:   in.PickupTime,
		Status:       domain.StatusActive,
		RegisteredAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListChildren returns children ordered by registration time descending
// (most recently registered first). When status is non-empty, only rows
// with that status are returned. It returns an empty slice when nothing
// matches. On DB error, it returns the error.
func ListChildren(ctx context.Context, db *gorm.DB, status string) ([]domain.Child, error) {
	var out []domain.Child
	q := db.WithContext(ctx).Order("registered_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountChildren returns the number of children, optionally filtered by
// status. On DB error, it returns the error.
func CountChildren(ctx context.Context, db *gorm.DB, status string) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Child{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&total).Error
	return total, err
}

// ListChildrenPage returns a paginated slice of children ordered by
// registration time descending. Use CountChildren to obtain the total for
// pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListChildrenPage(ctx context.Context, db *gorm.DB, status string, offset, limit int) ([]domain.Child, error) {
	var out []domain.Child
	q := db.WithContext(ctx).Order("registered_at desc").Offset(offset).Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&out).Error
	return out, err
}

// GetChild fetches a single child by ID. If the record does not exist, it
// returns ErrNotFound. On other DB errors, the raw error is returned.
func GetChild(ctx context.Context, db *gorm.DB, id string) (*domain.Child, error) {
	var c domain.Child
	err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkPickedUp sets the child's status to picked_up. The update is a single
// row write and is idempotent: re-running it on an already picked-up child
// reasserts the same status. If no row matches the id, it returns
// ErrNotFound. On DB error, the raw error is returned.
func MarkPickedUp(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.Child{}).
		Where("id = ?", id).
		Update("status", domain.StatusPickedUp)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
