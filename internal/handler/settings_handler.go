package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/middleware"
	"github.com/dafibh/kikoba/kikoba-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// SettingsHandler handles group settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the update settings request body
type UpdateSettingsRequest struct {
	NextMeetingDate string  `json:"nextMeetingDate" form:"nextMeetingDate"`
	Notes           *string `json:"notes,omitempty" form:"notes"`
}

// MeetingResponse represents the next meeting in API responses
type MeetingResponse struct {
	NextMeetingDate string  `json:"nextMeetingDate"`
	DaysRemaining   int     `json:"daysRemaining"`
	Notes           *string `json:"notes,omitempty"`
	IsDefault       bool    `json:"isDefault"`
}

// GetSettings handles GET /api/v1/settings
// @Summary Next meeting
// @Description The stored next meeting date, or one month from today when none is set
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeetingResponse
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}

	info, err := h.settingsService.NextMeeting(c.Request().Context(), groupID)
	if err != nil {
		return handleServiceError(c, err, "", "get settings")
	}
	return c.JSON(http.StatusOK, toMeetingResponse(info))
}

// UpdateSettings handles PUT /api/v1/settings
// @Summary Update settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "Settings"
// @Success 200 {object} MeetingResponse
// @Failure 400 {object} ProblemDetails
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}

	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(req.NextMeetingDate))
	if err != nil {
		return NewValidationError(c, "Invalid next meeting date", []ValidationError{
			{Field: "nextMeetingDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	ctx := c.Request().Context()
	if _, err := h.settingsService.UpdateSettings(ctx, groupID, service.UpdateSettingsInput{
		NextMeetingDate: date,
		Notes:           req.Notes,
	}); err != nil {
		field := "nextMeetingDate"
		if errors.Is(err, domain.ErrNotesTooLong) {
			field = "notes"
		}
		return handleServiceError(c, err, field, "update settings")
	}

	info, err := h.settingsService.NextMeeting(ctx, groupID)
	if err != nil {
		return handleServiceError(c, err, "", "get settings")
	}
	return c.JSON(http.StatusOK, toMeetingResponse(info))
}

func toMeetingResponse(info *domain.MeetingInfo) MeetingResponse {
	return MeetingResponse{
		NextMeetingDate: formatDate(info.Date),
		DaysRemaining:   info.DaysRemaining,
		Notes:           info.Notes,
		IsDefault:       info.IsDefault,
	}
}
