// Handler wiring and shared service contracts.
//
// Handlers are transport-thin: they bind input, call application services,
// and translate outcomes into HTTP responses. Service dependencies are
// abstract interfaces so the transport layer stays decoupled from the
// business logic and easy to fake in tests.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
	"github.com/kitadesk/kitadesk-backend/internal/services"
	"github.com/kitadesk/kitadesk-backend/internal/utils"
)

// ChildService defines the attendance lifecycle operations consumed by
// HTTP handlers. Implementations must be safe for concurrent use and must
// honor the provided context.
type ChildService interface {
	// Register checks a child in and returns the created record.
	Register(ctx context.Context, in services.RegisterChildInput) (*domain.Child, error)
	// List returns children newest-first, optionally filtered by status.
	List(ctx context.Context, status string) ([]domain.Child, error)
	// ListPage returns a page of children plus the total for the filter.
	ListPage(ctx context.Context, status string, page, pageSize int) ([]domain.Child, int64, error)
	// Get returns a single child by ID.
	Get(ctx context.Context, id string) (*domain.Child, error)
	// CheckOut transitions a child to picked_up.
	CheckOut(ctx context.Context, id string) error
}

// ActionService defines notification-history operations.
type ActionService interface {
	// Log persists one notification attempt and triggers delivery.
	Log(ctx context.Context, in services.LogActionInput) (*domain.ActionLog, error)
	// ListPage returns a page of logs, newest first, plus the total.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.ActionLog, int64, error)
}

// AuthService defines the credential operations behind the access guard.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// SettingsService defines configuration reads and upserts.
type SettingsService interface {
	List(ctx context.Context) ([]domain.Setting, error)
	Put(ctx context.Context, key, value string) (*domain.Setting, error)
}

// Handlers groups the HTTP endpoints for children, actions, auth, and
// settings.
type Handlers struct {
	childSvc    ChildService
	actionSvc   ActionService
	authSvc     AuthService
	settingsSvc SettingsService
}

// New constructs a Handlers instance bound to the given services.
func New(childSvc ChildService, actionSvc ActionService, authSvc AuthService, settingsSvc SettingsService) *Handlers {
	return &Handlers{
		childSvc:    childSvc,
		actionSvc:   actionSvc,
		authSvc:     authSvc,
		settingsSvc: settingsSvc,
	}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// paginate computes the metadata block for a page.
func paginate(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds the page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 50
		maxPageSize     = 200
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}
