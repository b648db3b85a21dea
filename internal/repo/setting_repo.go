// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Setting
// model, a key/value table with upsert semantics on write.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
)

// UpsertSetting creates or updates the setting identified by key.
//
// On success, it returns the persisted Setting. On failure, it returns a DB error.
func UpsertSetting(ctx context.Context, db *gorm.DB, key, value string) (*domain.Setting, error) {
	s := &domain.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(s).Error
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSetting returns the value stored under key, or ErrNotFound when the
// key has never been written.
func GetSetting(ctx context.Context, db *gorm.DB, key string) (string, error) {
	var s domain.Setting
	err := db.WithContext(ctx).Where("key = ?", key).First(&s).Error
	if err != nil {
		return "", err
	}
	return s.Value, nil
}

// GetSettingOrEmpty returns the value under key, treating a missing key as
// the empty string. DB failures other than not-found are still surfaced.
func GetSettingOrEmpty(ctx context.Context, db *gorm.DB, key string) (string, error) {
	v, err := GetSetting(ctx, db, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

// ListSettings returns all settings ordered by key.
func ListSettings(ctx context.Context, db *gorm.DB) ([]domain.Setting, error) {
	var out []domain.Setting
	err := db.WithContext(ctx).Order("key asc").Find(&out).Error
	return out, err
}
