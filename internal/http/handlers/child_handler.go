// Child HTTP handlers.
//
// This file exposes REST endpoints for attendance records:
//   - POST   /children       (check-in)
//   - GET    /children       (list, paginated, status filter)
//   - GET    /children/{id}  (fetch one)
//   - DELETE /children/{id}  (check-out: a status flip, never a row delete)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
	"github.com/kitadesk/kitadesk-backend/internal/services"
)

// CreateChildRequest is the JSON payload for a check-in.
type CreateChildRequest struct {
	// Name is the child's display name.
	Name string `json:"name" example:"Mia"`
	// ParentPhone is the primary guardian contact.
	ParentPhone string `json:"parentPhone" example:"+491234"`
	// ParentPhone2 is an optional secondary contact.
	ParentPhone2 *string `json:"parentPhone2,omitempty" example:"+495678"`
	// PickupTime is the scheduled pickup as HH:MM.
	PickupTime string `json:"pickupTime" example:"15:30"`
}

// ListChildrenResponse wraps a page of children and pagination information.
type ListChildrenResponse struct {
	Children   []domain.Child `json:"children"`
	Pagination Pagination     `json:"pagination"`
}

// CreateChild godoc
// @ID          createChild
// @Summary     Check a child in
// @Description Registers a child for the day, assigning the next daily ID.
// @Tags        Children
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateChildRequest  true  "Check-in payload"
//
// @Success     201  {object}  domain.Child
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /children [post]
func (h *Handlers) CreateChild(c *gin.Context) {
	var req CreateChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	child, err := h.childSvc.Register(c.Request.Context(), services.RegisterChildInput{
		Name:         req.Name,
		ParentPhone:  req.ParentPhone,
		ParentPhone2: req.ParentPhone2,
		PickupTime:   req.PickupTime,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, child)
}

// ListChildren godoc
// @ID          listChildren
// @Summary     List children (paginated)
// @Description Returns children newest-first. The archived view is status=picked_up.
// @Tags        Children
// @Produce     json
//
// @Param       status     query  string  false "Filter: active or picked_up"
// @Param       page       query  int     false "Page number"      minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"   minimum(1) maximum(200) default(50)
//
// @Success     200  {object}  handlers.ListChildrenResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad status filter"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /children [get]
func (h *Handlers) ListChildren(c *gin.Context) {
	status := c.Query("status")
	page, pageSize := clampPagination(c)

	items, total, err := h.childSvc.ListPage(c.Request.Context(), status, page, pageSize)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, ListChildrenResponse{
		Children:   items,
		Pagination: paginate(page, pageSize, total),
	})
}

// GetChild godoc
// @ID          getChild
// @Summary     Fetch one child
// @Tags        Children
// @Produce     json
//
// @Param       id  path  string  true  "Child ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Child
// @Failure     400  {object}  handlers.ErrorResponse  "Bad ID"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse  "Child not found"
// @Router      /children/{id} [get]
func (h *Handlers) GetChild(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "child id must be a UUID")
		return
	}

	child, err := h.childSvc.Get(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, child)
}

// CheckOutChild godoc
// @ID          checkOutChild
// @Summary     Check a child out
// @Description Flips the child's status to picked_up. Re-invoking on an already
// @Description picked-up child is a no-op success.
// @Tags        Children
//
// @Param       id  path  string  true  "Child ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad ID"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse  "Child not found"
// @Router      /children/{id} [delete]
func (h *Handlers) CheckOutChild(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "child id must be a UUID")
		return
	}

	if err := h.childSvc.CheckOut(c.Request.Context(), id); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}
