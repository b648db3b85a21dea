// Package services – SettingsService
//
// This file implements the mutable key/value configuration used by the
// front desk: the webhook endpoint and the per-action message templates.
// Writes are upserts; readers (notably the webhook notifier) resolve
// values per use, so changes take effect without a restart.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
	"github.com/kitadesk/kitadesk-backend/internal/repo"
)

// SettingsService reads and writes configuration entries.
type SettingsService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// List returns all settings ordered by key.
func (s *SettingsService) List(ctx context.Context) ([]domain.Setting, error) {
	return repo.ListSettings(ctx, s.DB)
}

// Put upserts the setting under key. The key must be non-empty; the value
// may be empty (clearing the webhook URL disables notifications).
func (s *SettingsService) Put(ctx context.Context, key, value string) (*domain.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrSettingKeyRequired
	}
	return repo.UpsertSetting(ctx, s.DB, key, strings.TrimSpace(value))
}

// WebhookURL resolves the configured notification endpoint, returning ""
// when none is set. Shaped to plug into notify.URLProvider.
func (s *SettingsService) WebhookURL(ctx context.Context) (string, error) {
	return repo.GetSettingOrEmpty(ctx, s.DB, domain.SettingWebhookURL)
}

// MessageTemplate resolves the stored message template for an action type,
// returning "" when the type has no template key or none is configured.
// Resolution happens per call, so template edits apply immediately.
func (s *SettingsService) MessageTemplate(ctx context.Context, actionType string) (string, error) {
	var key string
	switch actionType {
	case domain.ActionEmergency:
		key = domain.SettingTemplateEmergency
	case domain.ActionChildWishes:
		key = domain.SettingTemplateChildWishes
	case domain.ActionPickupTime:
		key = domain.SettingTemplatePickupTime
	default:
		return "", nil
	}
	return repo.GetSettingOrEmpty(ctx, s.DB, key)
}
