package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/middleware"
	"github.com/dafibh/kikoba/kikoba-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// RepaymentHandler handles loan repayment HTTP requests
type RepaymentHandler struct {
	repaymentService *service.RepaymentService
}

// NewRepaymentHandler creates a new RepaymentHandler
func NewRepaymentHandler(repaymentService *service.RepaymentService) *RepaymentHandler {
	return &RepaymentHandler{repaymentService: repaymentService}
}

// RecordRepaymentRequest represents a repayment for one scheduled month.
// Month is a month name ("june") or YYYY-MM; YYYY-MM is required when the name
// occurs twice in the schedule.
type RecordRepaymentRequest struct {
	Month  string      `json:"month" form:"month"`
	Amount json.Number `json:"amount" form:"amount"`
}

// RepaymentResponse represents a ledger entry in API responses
type RepaymentResponse struct {
	ID       int32  `json:"id"`
	LoanID   int32  `json:"loanId"`
	Month    string `json:"month"`
	DueMonth string `json:"dueMonth"`
	Amount   int64  `json:"amount"`
	PaidAt   string `json:"paidAt"`
}

// RecordRepaymentResponse is the entry written and the loan state after it
type RecordRepaymentResponse struct {
	Repayment       RepaymentResponse `json:"repayment"`
	LoanStatus      string            `json:"loanStatus"`
	TotalPaid       int64             `json:"totalPaid"`
	RemainingAmount int64             `json:"remainingAmount"`
	BecamePaid      bool              `json:"becamePaid"`
}

var repaymentFields = map[error]string{
	domain.ErrRepaymentAmountInvalid: "amount",
	domain.ErrRepaymentMonthRequired: "month",
	domain.ErrUnscheduledMonth:       "month",
	domain.ErrAmbiguousMonth:         "month",
}

// RecordRepayment handles POST /api/v1/loans/:id/repayments
// @Summary Record repayment
// @Description Sets the amount paid for a scheduled month. Recording the same month again replaces the earlier amount.
// @Tags repayments
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param request body RecordRepaymentRequest true "Month and amount"
// @Success 200 {object} RecordRepaymentResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /loans/{id}/repayments [post]
func (h *RepaymentHandler) RecordRepayment(c echo.Context) error {
	return h.record(c, h.repaymentService.RecordPayment)
}

// TopUpRepayment handles POST /api/v1/loans/:id/repayments/top-up
// @Summary Top up repayment
// @Description Adds to the amount already recorded for a scheduled month
// @Tags repayments
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param request body RecordRepaymentRequest true "Month and amount"
// @Success 200 {object} RecordRepaymentResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /loans/{id}/repayments/top-up [post]
func (h *RepaymentHandler) TopUpRepayment(c echo.Context) error {
	return h.record(c, h.repaymentService.TopUpPayment)
}

type recordFunc func(ctx context.Context, groupID int32, input service.RecordPaymentInput) (*service.RecordPaymentResult, error)

func (h *RepaymentHandler) record(c echo.Context, fn recordFunc) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}
	loanID, err := parseID(c, "id")
	if err != nil {
		return paramProblem(c, err)
	}

	var req RecordRepaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := parseAmount(req.Amount.String())
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid number"},
		})
	}

	result, err := fn(c.Request().Context(), groupID, service.RecordPaymentInput{
		LoanID: loanID,
		Month:  req.Month,
		Amount: amount,
	})
	if err != nil {
		return handleServiceError(c, err, validationField(err, repaymentFields, "month"), "record repayment")
	}

	return c.JSON(http.StatusOK, RecordRepaymentResponse{
		Repayment:       toRepaymentResponse(result.Repayment),
		LoanStatus:      string(result.Reconciliation.Status),
		TotalPaid:       formatAmount(result.Reconciliation.TotalPaid),
		RemainingAmount: formatAmount(result.Reconciliation.RemainingAmount),
		BecamePaid:      result.Reconciliation.BecamePaid,
	})
}

// GetRepayments handles GET /api/v1/loans/:id/repayments
// @Summary List repayments of a loan
// @Tags repayments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {array} RepaymentResponse
// @Failure 404 {object} ProblemDetails
// @Router /loans/{id}/repayments [get]
func (h *RepaymentHandler) GetRepayments(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}
	loanID, err := parseID(c, "id")
	if err != nil {
		return paramProblem(c, err)
	}

	entries, err := h.repaymentService.ListRepayments(c.Request().Context(), groupID, loanID)
	if err != nil {
		return handleServiceError(c, err, "id", "list repayments")
	}

	response := make([]RepaymentResponse, len(entries))
	for i, entry := range entries {
		response[i] = toRepaymentResponse(entry)
	}
	return c.JSON(http.StatusOK, response)
}

func toRepaymentResponse(entry *domain.LoanRepayment) RepaymentResponse {
	slot := domain.ScheduleSlot{Year: int(entry.DueYear), Month: int(entry.DueMonth)}
	return RepaymentResponse{
		ID:       entry.ID,
		LoanID:   entry.LoanID,
		Month:    entry.MonthName(),
		DueMonth: slot.Key(),
		Amount:   formatAmount(entry.Amount),
		PaidAt:   entry.PaidAt.Format(time.RFC3339),
	}
}
