// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the ActionLog
// model. Action logs are append-only: there is no update or delete path.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
)

// NewActionLogInput carries the persisted fields of a notification attempt.
// ChildName is a snapshot supplied by the caller, not re-derived here.
type NewActionLogInput struct {
	ChildID     string
	ChildName   string
	ActionType  string
	ParentPhone string
	Message     string
}

// CreateActionLog inserts an ActionLog row with a generated UUID and
// Timestamp set to now (UTC).
//
// On success, it returns the persisted log. On failure, it returns a DB error.
func CreateActionLog(ctx context.Context, db *gorm.DB, in NewActionLogInput) (*domain.ActionLog, error) {
	l := &domain.ActionLog{
		ID:          uuid.NewString(),
		ChildID:     in.ChildID,
		ChildName:   in.ChildName,
		ActionType:  in.ActionType,
		ParentPhone: in.ParentPhone,
		Message:     in.Message,
		Timestamp:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

// ListActionLogs returns all action logs in reverse-chronological order.
// It returns an empty slice when there are none. On DB error, it returns
// the error.
func ListActionLogs(ctx context.Context, db *gorm.DB) ([]domain.ActionLog, error) {
	var out []domain.ActionLog
	err := db.WithContext(ctx).Order("timestamp desc").Find(&out).Error
	return out, err
}

// CountActionLogs returns the total number of action logs.
func CountActionLogs(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.ActionLog{}).Count(&total).Error
	return total, err
}

// ListActionLogsPage returns a paginated slice of action logs in
// reverse-chronological order. Use CountActionLogs for pagination metadata.
func ListActionLogsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.ActionLog, error) {
	var out []domain.ActionLog
	err := db.WithContext(ctx).
		Order("timestamp desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
