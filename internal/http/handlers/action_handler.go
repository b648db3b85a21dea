package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
	"github.com/kitadesk/kitadesk-backend/internal/services"
)

// CreateActionRequest is the JSON payload for logging a parent notification.
type CreateActionRequest struct {
	ChildID     string `json:"childId" example:"3e9c2f0a-4f4a-4a41-9d5e-0b8f9a2d1c77"`
	ChildName   string `json:"childName" example:"Mia"`
	ActionType  string `json:"actionType" example:"pickup_time"`
	ParentPhone string `json:"parentPhone" example:"+491234"`
	// Message may be omitted; the stored template for the action type is
	// used instead when one is configured.
	Message string `json:"message" example:"Please pick up Mia at 15:30."`
}

// ListActionsResponse wraps a page of action logs.
type ListActionsResponse struct {
	Actions    []domain.ActionLog `json:"actions"`
	Pagination Pagination         `json:"pagination"`
}

// CreateAction godoc
// @ID          createAction
// @Summary     Log a parent notification
// @Description Persists the action and forwards it to the configured webhook.
// @Description Webhook delivery is best effort and never fails the request.
// @Tags        Actions
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateActionRequest  true  "Action payload"
//
// @Success     201  {object}  domain.ActionLog
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /actions [post]
func (h *Handlers) CreateAction(c *gin.Context) {
	var req CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	entry, err := h.actionSvc.Log(c.Request.Context(), services.LogActionInput{
		ChildID:     req.ChildID,
		ChildName:   req.ChildName,
		ActionType:  req.ActionType,
		ParentPhone: req.ParentPhone,
		Message:     req.Message,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, entry)
}

// ListActions godoc
// @ID          listActions
// @Summary     List logged actions (paginated)
// @Description Returns action log entries newest-first.
// @Tags        Actions
// @Produce     json
//
// @Param       page       query  int  false "Page number"    minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page" minimum(1) maximum(200) default(50)
//
// @Success     200  {object}  handlers.ListActionsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /actions [get]
func (h *Handlers) ListActions(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.actionSvc.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, ListActionsResponse{
		Actions:    items,
		Pagination: paginate(page, pageSize, total),
	})
}
