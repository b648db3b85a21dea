package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
)

// PutSettingRequest carries the new value for a setting key.
type PutSettingRequest struct {
	Value string `json:"value" example:"https://hooks.example.com/notify"`
}

// ListSettingsResponse wraps all configured settings.
type ListSettingsResponse struct {
	Settings []domain.Setting `json:"settings"`
}

// ListSettings godoc
// @ID          listSettings
// @Summary     List all settings
// @Tags        Settings
// @Produce     json
//
// @Success     200  {object}  handlers.ListSettingsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /settings [get]
func (h *Handlers) ListSettings(c *gin.Context) {
	items, err := h.settingsSvc.List(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, ListSettingsResponse{Settings: items})
}

// PutSetting godoc
// @ID          putSetting
// @Summary     Create or update a setting
// @Description Upserts the value for the given key. An empty value clears the
// @Description setting, which for webhook_url disables outbound notifications.
// @Tags        Settings
// @Accept      json
// @Produce     json
//
// @Param       key   path  string                       true  "Setting key"
// @Param       body  body  handlers.PutSettingRequest   true  "New value"
//
// @Success     200  {object}  domain.Setting
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /settings/{key} [put]
func (h *Handlers) PutSetting(c *gin.Context) {
	var req PutSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	setting, err := h.settingsSvc.Put(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, setting)
}
