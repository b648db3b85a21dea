// Package services – ActionService
//
// This file implements ActionService, which owns the append-only history
// of parent-notification attempts. The ordering contract is strict:
// the log row is persisted first, then the external notification is
// attempted, then the event is broadcast. A failed notification is logged
// and swallowed; it never rolls back the persisted log and never surfaces
// as a failure of the triggering request.
package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
	"github.com/kitadesk/kitadesk-backend/internal/notify"
	"github.com/kitadesk/kitadesk-backend/internal/realtime"
	"github.com/kitadesk/kitadesk-backend/internal/repo"
)

// TemplateProvider resolves the stored message template for an action
// type, "" when none is configured (see SettingsService.MessageTemplate).
type TemplateProvider func(ctx context.Context, actionType string) (string, error)

// ActionService records notification attempts and triggers best-effort
// delivery through the configured notifier.
type ActionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Notifier performs outbound delivery; nil disables it entirely.
	Notifier notify.Notifier
	// Events receives action:created broadcasts; nil disables broadcasting.
	Events Broadcaster
	// Templates fills in an empty message from the per-type template
	// setting; nil means an empty message is always rejected.
	Templates TemplateProvider
}

// LogActionInput is the payload of one notification attempt. ChildName is
// a denormalized snapshot supplied by the caller.
type LogActionInput struct {
	ChildID     string
	ChildName   string
	ActionType  string
	ParentPhone string
	Message     string
}

// Log validates and persists an ActionLog, then attempts delivery and
// broadcasts action:created. The returned log reflects only the persisted
// row; notification outcome does not affect it.
func (s *ActionService) Log(ctx context.Context, in LogActionInput) (*domain.ActionLog, error) {
	tr := otel.Tracer("services/ActionService")
	ctx, span := tr.Start(ctx, "Log",
		trace.WithAttributes(attribute.String("action.type", in.ActionType)),
	)
	defer span.End()

	in.ChildID = strings.TrimSpace(in.ChildID)
	in.ChildName = strings.TrimSpace(in.ChildName)
	in.ActionType = strings.TrimSpace(in.ActionType)
	in.ParentPhone = strings.TrimSpace(in.ParentPhone)
	in.Message = strings.TrimSpace(in.Message)

	switch {
	case in.ChildID == "":
		return nil, ErrChildIDRequired
	case in.ChildName == "":
		return nil, ErrChildNameRequired
	case in.ActionType == "":
		return nil, ErrActionTypeRequired
	case in.ParentPhone == "":
		return nil, ErrParentPhoneRequired
	}

	// An omitted message falls back to the stored template for the type.
	if in.Message == "" && s.Templates != nil {
		tmpl, terr := s.Templates(ctx, in.ActionType)
		if terr != nil {
			return nil, terr
		}
		in.Message = strings.TrimSpace(tmpl)
	}
	if in.Message == "" {
		return nil, ErrMessageRequired
	}

	logRow, err := repo.CreateActionLog(ctx, s.DB, repo.NewActionLogInput{
		ChildID:     in.ChildID,
		ChildName:   in.ChildName,
		ActionType:  in.ActionType,
		ParentPhone: in.ParentPhone,
		Message:     in.Message,
	})
	if err != nil {
		return nil, err
	}

	// Log-then-notify: the row above is durable regardless of what the
	// notifier does from here on.
	if s.Notifier != nil {
		if nerr := s.Notifier.Send(ctx, in.ParentPhone, in.Message, in.ChildName); nerr != nil {
			log.Warn().
				Err(nerr).
				Str("action_log_id", logRow.ID).
				Str("action_type", in.ActionType).
				Msg("notification delivery failed")
		}
	}

	if s.Events != nil {
		s.Events.Publish(realtime.EventActionCreated, logRow)
	}
	return logRow, nil
}

// List returns all action logs, newest first.
func (s *ActionService) List(ctx context.Context) ([]domain.ActionLog, error) {
	return repo.ListActionLogs(ctx, s.DB)
}

// ListPage returns a page of action logs plus the total count.
func (s *ActionService) ListPage(ctx context.Context, page, pageSize int) ([]domain.ActionLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountActionLogs(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.ActionLog{}, 0, nil
	}
	items, err := repo.ListActionLogsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}
