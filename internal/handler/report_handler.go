package handler

import (
	"net/http"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/middleware"
	"github.com/dafibh/kikoba/kikoba-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ReportHandler serves the group reports and the dashboard
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// MemberSummaryResponse is one row of the member report
type MemberSummaryResponse struct {
	MemberID           int32   `json:"memberId"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Dedication         int64   `json:"dedication"`
	TotalLoans         int64   `json:"totalLoans"`
	TotalPaid          int64   `json:"totalPaid"`
	RemainingBalance   int64   `json:"remainingBalance"`
	TotalContributions int64   `json:"totalContributions"`
	LoansCount         int     `json:"loansCount"`
	ActiveLoansCount   int     `json:"activeLoansCount"`
	LastLoanDate       *string `json:"lastLoanDate,omitempty"`
}

// MonthTotalsResponse is one calendar month of the repayment report
type MonthTotalsResponse struct {
	Month         string `json:"month"`
	Name          string `json:"name"`
	ExpectedTotal int64  `json:"expectedTotal"`
	RecordedTotal int64  `json:"recordedTotal"`
	LoansDue      int    `json:"loansDue"`
}

// ContributionRowResponse is one member of the contribution report
type ContributionRowResponse struct {
	MemberID   int32   `json:"memberId"`
	Name       string  `json:"name"`
	Dedication int64   `json:"dedication"`
	Months     []int64 `json:"months"`
	Total      int64   `json:"total"`
}

// ContributionMatrixResponse is the contribution report of a year
type ContributionMatrixResponse struct {
	Year        int                       `json:"year"`
	Rows        []ContributionRowResponse `json:"rows"`
	MonthTotals []int64                   `json:"monthTotals"`
	Total       int64                     `json:"total"`
}

// MyFinancialSummaryResponse is the caller's own totals
type MyFinancialSummaryResponse struct {
	TotalLoans         int64 `json:"totalLoans"`
	TotalPaid          int64 `json:"totalPaid"`
	RemainingBalance   int64 `json:"remainingBalance"`
	TotalContributions int64 `json:"totalContributions"`
	ActiveLoans        int   `json:"activeLoans"`
}

// GroupOverviewResponse is the group's totals
type GroupOverviewResponse struct {
	TotalDisbursed     int64 `json:"totalDisbursed"`
	TotalRepaid        int64 `json:"totalRepaid"`
	TotalOutstanding   int64 `json:"totalOutstanding"`
	TotalContributions int64 `json:"totalContributions"`
	ActiveLoans        int   `json:"activeLoans"`
	PaidLoans          int   `json:"paidLoans"`
	MemberCount        int   `json:"memberCount"`
}

// DashboardSummaryResponse represents the dashboard
type DashboardSummaryResponse struct {
	Me          MyFinancialSummaryResponse `json:"me"`
	Group       GroupOverviewResponse      `json:"group"`
	NextMeeting MeetingResponse            `json:"nextMeeting"`
}

// GetMemberSummaries handles GET /api/v1/reports/members
// @Summary Member report
// @Description Per member loan, repayment and contribution totals. Remaining balance is total loans minus total paid.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} MemberSummaryResponse
// @Router /reports/members [get]
func (h *ReportHandler) GetMemberSummaries(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}

	rows, err := h.reportService.MemberSummaries(c.Request().Context(), groupID)
	if err != nil {
		return handleServiceError(c, err, "", "build member report")
	}

	response := make([]MemberSummaryResponse, len(rows))
	for i, row := range rows {
		response[i] = MemberSummaryResponse{
			MemberID:           row.MemberID,
			Name:               row.Name,
			Email:              row.Email,
			Dedication:         formatAmount(row.Dedication),
			TotalLoans:         formatAmount(row.TotalLoans),
			TotalPaid:          formatAmount(row.TotalPaid),
			RemainingBalance:   formatAmount(row.RemainingBalance),
			TotalContributions: formatAmount(row.TotalContributions),
			LoansCount:         row.LoansCount,
			ActiveLoansCount:   row.ActiveLoansCount,
		}
		if row.LastLoanDate != nil {
			date := formatDate(*row.LastLoanDate)
			response[i].LastLoanDate = &date
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetLoanDetails handles GET /api/v1/reports/loans
// @Summary Loan report
// @Description Every loan with its schedule and reconciled ledger, newest issue date first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param memberId query int false "Only loans of this member"
// @Param status query string false "Filter by status: active, paid"
// @Success 200 {array} LoanDetailResponse
// @Router /reports/loans [get]
func (h *ReportHandler) GetLoanDetails(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}

	filter, err := parseLoanFilter(c)
	if err != nil {
		return paramProblem(c, err)
	}

	details, err := h.reportService.LoanDetails(c.Request().Context(), groupID, filter)
	if err != nil {
		return handleServiceError(c, err, "", "build loan report")
	}

	response := make([]LoanDetailResponse, len(details))
	for i, detail := range details {
		response[i] = toLoanDetailResponse(detail)
	}
	return c.JSON(http.StatusOK, response)
}

// GetRepaymentMatrix handles GET /api/v1/reports/repayments
// @Summary Repayment report
// @Description Expected and recorded repayments for each month of a year
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {array} MonthTotalsResponse
// @Failure 400 {object} ProblemDetails
// @Router /reports/repayments [get]
func (h *ReportHandler) GetRepaymentMatrix(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}
	year, err := yearParam(c)
	if err != nil {
		return paramProblem(c, err)
	}

	months, err := h.reportService.RepaymentMatrix(c.Request().Context(), groupID, year)
	if err != nil {
		return handleServiceError(c, err, "", "build repayment report")
	}

	response := make([]MonthTotalsResponse, len(months))
	for i, m := range months {
		response[i] = toMonthTotalsResponse(m)
	}
	return c.JSON(http.StatusOK, response)
}

// GetContributionMatrix handles GET /api/v1/reports/contributions
// @Summary Contribution report
// @Description Each member's contribution for every month of a year
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {object} ContributionMatrixResponse
// @Failure 400 {object} ProblemDetails
// @Router /reports/contributions [get]
func (h *ReportHandler) GetContributionMatrix(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}
	year, err := yearParam(c)
	if err != nil {
		return paramProblem(c, err)
	}

	matrix, err := h.reportService.ContributionMatrix(c.Request().Context(), groupID, year)
	if err != nil {
		return handleServiceError(c, err, "", "build contribution report")
	}

	rows := make([]ContributionRowResponse, len(matrix.Rows))
	for i, row := range matrix.Rows {
		rows[i] = ContributionRowResponse{
			MemberID:   row.MemberID,
			Name:       row.Name,
			Dedication: formatAmount(row.Dedication),
			Months:     formatAmounts(row.Months),
			Total:      formatAmount(row.Total),
		}
	}

	return c.JSON(http.StatusOK, ContributionMatrixResponse{
		Year:        matrix.Year,
		Rows:        rows,
		MonthTotals: formatAmounts(matrix.MonthTotals),
		Total:       formatAmount(matrix.Total),
	})
}

// GetDashboard handles GET /api/v1/dashboard/summary
// @Summary Dashboard
// @Description The caller's totals, the group overview and the next meeting
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardSummaryResponse
// @Router /dashboard/summary [get]
func (h *ReportHandler) GetDashboard(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	memberID := middleware.GetMemberID(c)
	if groupID == 0 || memberID == 0 {
		return NewUnauthorizedError(c, "Member required")
	}

	summary, err := h.reportService.Dashboard(c.Request().Context(), groupID, memberID)
	if err != nil {
		return handleServiceError(c, err, "", "build dashboard")
	}

	return c.JSON(http.StatusOK, DashboardSummaryResponse{
		Me: MyFinancialSummaryResponse{
			TotalLoans:         formatAmount(summary.Me.TotalLoans),
			TotalPaid:          formatAmount(summary.Me.TotalPaid),
			RemainingBalance:   formatAmount(summary.Me.RemainingBalance),
			TotalContributions: formatAmount(summary.Me.TotalContributions),
			ActiveLoans:        summary.Me.ActiveLoans,
		},
		Group: GroupOverviewResponse{
			TotalDisbursed:     formatAmount(summary.Group.TotalDisbursed),
			TotalRepaid:        formatAmount(summary.Group.TotalRepaid),
			TotalOutstanding:   formatAmount(summary.Group.TotalOutstanding),
			TotalContributions: formatAmount(summary.Group.TotalContributions),
			ActiveLoans:        summary.Group.ActiveLoans,
			PaidLoans:          summary.Group.PaidLoans,
			MemberCount:        summary.Group.MemberCount,
		},
		NextMeeting: toMeetingResponse(&summary.NextMeeting),
	})
}

func toMonthTotalsResponse(m domain.MonthTotals) MonthTotalsResponse {
	slot := domain.ScheduleSlot{Year: m.Year, Month: m.Month}
	return MonthTotalsResponse{
		Month:         slot.Key(),
		Name:          m.Name,
		ExpectedTotal: formatAmount(m.ExpectedTotal),
		RecordedTotal: formatAmount(m.RecordedTotal),
		LoansDue:      m.LoansDue,
	}
}

func formatAmounts(values []decimal.Decimal) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = formatAmount(v)
	}
	return out
}
