package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/middleware"
	"github.com/dafibh/kikoba/kikoba-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents the create loan request body.
// Amount accepts a JSON number or a numeric string.
type CreateLoanRequest struct {
	MemberID  int32       `json:"memberId" form:"memberId"`
	Amount    json.Number `json:"amount" form:"amount"`
	IssueDate string      `json:"issueDate" form:"issueDate"`
	Notes     *string     `json:"notes,omitempty" form:"notes"`
}

// PreviewLoanRequest represents the preview loan request body
type PreviewLoanRequest struct {
	Amount    json.Number `json:"amount" form:"amount"`
	IssueDate string      `json:"issueDate" form:"issueDate"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID                     int32    `json:"id"`
	MemberID               int32    `json:"memberId"`
	Amount                 int64    `json:"amount"`
	IssueDate              string   `json:"issueDate"`
	MonthsForRepayment     int32    `json:"monthsForRepayment"`
	MonthlyRepaymentAmount int64    `json:"monthlyRepaymentAmount"`
	RepaymentMonths        []string `json:"repaymentMonths"`
	Status                 string   `json:"status"`
	Notes                  *string  `json:"notes,omitempty"`
	CreatedAt              string   `json:"createdAt"`
}

// ScheduleSlotResponse is one month of a repayment schedule
type ScheduleSlotResponse struct {
	Month      string `json:"month"`
	Year       int    `json:"year"`
	DueMonth   string `json:"dueMonth"`
	AmountPaid int64  `json:"amountPaid"`
	Status     string `json:"status"`
}

// LoanDetailResponse represents a loan with its ledger reconciled
type LoanDetailResponse struct {
	LoanResponse
	MemberName      string                 `json:"memberName"`
	Schedule        []ScheduleSlotResponse `json:"schedule"`
	Repayments      map[string]int64       `json:"repayments"`
	TotalPaid       int64                  `json:"totalPaid"`
	RemainingAmount int64                  `json:"remainingAmount"`
}

// PreviewLoanResponse represents the schedule a loan would get
type PreviewLoanResponse struct {
	MonthsForRepayment     int32    `json:"monthsForRepayment"`
	MonthlyRepaymentAmount int64    `json:"monthlyRepaymentAmount"`
	RepaymentMonths        []string `json:"repaymentMonths"`
	DueMonths              []string `json:"dueMonths"`
	Total                  int64    `json:"total"`
}

var loanFields = map[error]string{
	domain.ErrLoanAmountInvalid:     "amount",
	domain.ErrLoanIssueDateRequired: "issueDate",
	domain.ErrLoanMemberRequired:    "memberId",
	domain.ErrNotesTooLong:          "notes",
}

// CreateLoan handles POST /api/v1/loans
// @Summary Disburse loan
// @Description Stores a loan and derives its repayment schedule: installments of at most 500000, starting in the issue month
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLoanRequest true "Loan"
// @Success 201 {object} LoanResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /loans [post]
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}

	var req CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := parseAmount(req.Amount.String())
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid number"},
		})
	}

	issueDate, err := time.Parse(dateLayout, strings.TrimSpace(req.IssueDate))
	if err != nil {
		return NewValidationError(c, "Invalid issue date", []ValidationError{
			{Field: "issueDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	var errs []ValidationError
	if req.MemberID <= 0 {
		errs = append(errs, ValidationError{Field: "memberId", Message: "Member is required"})
	}
	if !domain.IsPositiveAmount(amount) {
		errs = append(errs, ValidationError{Field: "amount", Message: "Must be greater than zero with at most 2 decimal places"})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	loan, err := h.loanService.CreateLoan(c.Request().Context(), groupID, service.CreateLoanInput{
		MemberID:  req.MemberID,
		Amount:    amount,
		IssueDate: issueDate,
		Notes:     req.Notes,
	})
	if err != nil {
		if domain.IsNotFoundError(err) {
			return NewNotFoundError(c, "Member not found")
		}
		return handleServiceError(c, err, validationField(err, loanFields, "amount"), "create loan")
	}

	return c.JSON(http.StatusCreated, toLoanResponse(loan))
}

// PreviewLoan handles POST /api/v1/loans/preview
// @Summary Preview loan schedule
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PreviewLoanRequest true "Amount and issue date"
// @Success 200 {object} PreviewLoanResponse
// @Failure 400 {object} ProblemDetails
// @Router /loans/preview [post]
func (h *LoanHandler) PreviewLoan(c echo.Context) error {
	var req PreviewLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := parseAmount(req.Amount.String())
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid number"},
		})
	}

	issueDate := time.Now()
	if req.IssueDate != "" {
		issueDate, err = time.Parse(dateLayout, strings.TrimSpace(req.IssueDate))
		if err != nil {
			return NewValidationError(c, "Invalid issue date", []ValidationError{
				{Field: "issueDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
	}

	schedule, err := h.loanService.PreviewLoan(amount, issueDate)
	if err != nil {
		return handleServiceError(c, err, validationField(err, loanFields, "amount"), "preview loan")
	}

	dueMonths := make([]string, len(schedule.Slots))
	for i, slot := range schedule.Slots {
		dueMonths[i] = slot.Key()
	}

	return c.JSON(http.StatusOK, PreviewLoanResponse{
		MonthsForRepayment:     schedule.MonthsForRepayment,
		MonthlyRepaymentAmount: formatAmount(schedule.MonthlyRepaymentAmount),
		RepaymentMonths:        schedule.RepaymentMonths,
		DueMonths:              dueMonths,
		Total:                  formatAmount(schedule.Total()),
	})
}

// GetLoans handles GET /api/v1/loans
// @Summary List loans
// @Description Loans of the caller's group, newest issue date first
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param memberId query int false "Only loans of this member"
// @Param status query string false "Filter by status: active, paid"
// @Success 200 {array} LoanResponse
// @Failure 400 {object} ProblemDetails
// @Router /loans [get]
func (h *LoanHandler) GetLoans(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}

	filter, err := parseLoanFilter(c)
	if err != nil {
		return paramProblem(c, err)
	}

	loans, err := h.loanService.ListLoans(c.Request().Context(), groupID, filter)
	if err != nil {
		return handleServiceError(c, err, "", "list loans")
	}

	response := make([]LoanResponse, len(loans))
	for i, loan := range loans {
		response[i] = toLoanResponse(loan)
	}
	return c.JSON(http.StatusOK, response)
}

// GetLoan handles GET /api/v1/loans/:id
// @Summary Get loan
// @Description One loan with its schedule, per-month payment status and remaining amount
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} LoanDetailResponse
// @Failure 404 {object} ProblemDetails
// @Router /loans/{id} [get]
func (h *LoanHandler) GetLoan(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return paramProblem(c, err)
	}

	detail, err := h.loanService.GetLoan(c.Request().Context(), groupID, id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			log.Debug().Int32("group_id", groupID).Int32("loan_id", id).Msg("Loan not found")
		}
		return handleServiceError(c, err, "id", "get loan")
	}
	return c.JSON(http.StatusOK, toLoanDetailResponse(detail))
}

func parseLoanFilter(c echo.Context) (domain.LoanFilter, error) {
	var filter domain.LoanFilter

	if raw := c.QueryParam("memberId"); raw != "" {
		memberID, err := parsePositiveID(raw, "memberId")
		if err != nil {
			return filter, err
		}
		filter.MemberID = &memberID
	}

	if raw := c.QueryParam("status"); raw != "" && raw != "all" {
		status := domain.LoanStatus(strings.ToLower(raw))
		if !status.IsValid() {
			return filter, &paramError{field: "status", message: "Must be one of: active, paid, all"}
		}
		filter.Status = &status
	}

	return filter, nil
}

func toLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:                     loan.ID,
		MemberID:               loan.MemberID,
		Amount:                 formatAmount(loan.Amount),
		IssueDate:              formatDate(loan.IssueDate),
		MonthsForRepayment:     loan.MonthsForRepayment,
		MonthlyRepaymentAmount: formatAmount(loan.MonthlyRepaymentAmount),
		RepaymentMonths:        loan.RepaymentMonths(),
		Status:                 string(loan.Status),
		Notes:                  loan.Notes,
		CreatedAt:              loan.CreatedAt.Format(time.RFC3339),
	}
}

func toLoanDetailResponse(detail *domain.LoanDetail) LoanDetailResponse {
	loan := toLoanResponse(detail.Loan)
	loan.Status = string(detail.Status)

	schedule := make([]ScheduleSlotResponse, len(detail.Schedule))
	for i, slot := range detail.Schedule {
		schedule[i] = ScheduleSlotResponse{
			Month:      slot.Name,
			Year:       slot.Year,
			DueMonth:   slot.Key(),
			AmountPaid: formatAmount(slot.Amount),
			Status:     string(slot.Status),
		}
	}

	repayments := make(map[string]int64, len(detail.Repayments))
	for month, amount := range detail.Repayments {
		repayments[month] = formatAmount(amount)
	}

	return LoanDetailResponse{
		LoanResponse:    loan,
		MemberName:      detail.MemberName,
		Schedule:        schedule,
		Repayments:      repayments,
		TotalPaid:       formatAmount(detail.TotalPaid),
		RemainingAmount: formatAmount(detail.RemainingAmount),
	}
}
