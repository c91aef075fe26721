package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/middleware"
	"github.com/dafibh/kikoba/kikoba-backend/internal/service"
	"github.com/dafibh/kikoba/kikoba-backend/internal/util"
	"github.com/labstack/echo/v4"
)

// ContributionHandler handles monthly contribution HTTP requests
type ContributionHandler struct {
	contributionService *service.ContributionService
}

// NewContributionHandler creates a new ContributionHandler
func NewContributionHandler(contributionService *service.ContributionService) *ContributionHandler {
	return &ContributionHandler{contributionService: contributionService}
}

// RecordContributionRequest represents one member's contribution for a YYYY-MM month
type RecordContributionRequest struct {
	MemberID int32       `json:"memberId" form:"memberId"`
	Month    string      `json:"month" form:"month"`
	Amount   json.Number `json:"amount" form:"amount"`
}

// ContributionResponse represents a contribution in API responses
type ContributionResponse struct {
	ID       int32  `json:"id"`
	MemberID int32  `json:"memberId"`
	Month    string `json:"month"`
	Amount   int64  `json:"amount"`
	PaidAt   string `json:"paidAt"`
}

var contributionFields = map[error]string{
	domain.ErrContributionAmountInvalid: "amount",
	domain.ErrContributionMonthInvalid:  "month",
}

// RecordContribution handles POST /api/v1/contributions
// @Summary Record contribution
// @Description Sets a member's contribution for a month, replacing any earlier amount
// @Tags contributions
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body RecordContributionRequest true "Contribution"
// @Success 200 {object} ContributionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /contributions [post]
func (h *ContributionHandler) RecordContribution(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}

	var req RecordContributionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	// Members record their own contribution unless another member is named
	memberID := req.MemberID
	if memberID == 0 {
		memberID = middleware.GetMemberID(c)
	}

	amount, err := parseAmount(req.Amount.String())
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid number"},
		})
	}

	saved, err := h.contributionService.RecordContribution(c.Request().Context(), groupID, service.RecordContributionInput{
		MemberID: memberID,
		Month:    req.Month,
		Amount:   amount,
	})
	if err != nil {
		return handleServiceError(c, err, validationField(err, contributionFields, "month"), "record contribution")
	}

	return c.JSON(http.StatusOK, toContributionResponse(saved))
}

// GetContributions handles GET /api/v1/contributions
// @Summary List contributions
// @Tags contributions
// @Produce json
// @Security BearerAuth
// @Param memberId query int false "Only this member"
// @Param year query int false "Only this year"
// @Success 200 {array} ContributionResponse
// @Failure 400 {object} ProblemDetails
// @Router /contributions [get]
func (h *ContributionHandler) GetContributions(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}

	var filter domain.ContributionFilter
	if raw := c.QueryParam("memberId"); raw != "" {
		memberID, err := parsePositiveID(raw, "memberId")
		if err != nil {
			return paramProblem(c, err)
		}
		filter.MemberID = &memberID
	}
	if raw := c.QueryParam("year"); raw != "" {
		year, err := parseYear(raw)
		if err != nil {
			return paramProblem(c, err)
		}
		y := int32(year)
		filter.Year = &y
	}

	contributions, err := h.contributionService.ListContributions(c.Request().Context(), groupID, filter)
	if err != nil {
		return handleServiceError(c, err, "", "list contributions")
	}

	response := make([]ContributionResponse, len(contributions))
	for i, contribution := range contributions {
		response[i] = toContributionResponse(contribution)
	}
	return c.JSON(http.StatusOK, response)
}

// parseYear validates a four digit year query value
func parseYear(raw string) (int, error) {
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		return 0, &paramError{field: "year", message: "Must be a four digit year"}
	}
	return year, nil
}

// yearParam reads the optional year query value, defaulting to the current year
func yearParam(c echo.Context) (int, error) {
	raw := c.QueryParam("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	return parseYear(raw)
}

func toContributionResponse(contribution *domain.MonthlyContribution) ContributionResponse {
	return ContributionResponse{
		ID:       contribution.ID,
		MemberID: contribution.MemberID,
		Month:    util.FormatYearMonth(int(contribution.Year), int(contribution.Month)),
		Amount:   formatAmount(contribution.Amount),
		PaidAt:   contribution.PaidAt.Format(time.RFC3339),
	}
}
