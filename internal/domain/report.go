package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberSummary aggregates one member's loans, repayments and contributions
type MemberSummary struct {
	MemberID           int32           `json:"memberId"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	Dedication         decimal.Decimal `json:"dedication"`
	TotalLoans         decimal.Decimal `json:"totalLoans"`
	TotalPaid          decimal.Decimal `json:"totalPaid"`
	RemainingBalance   decimal.Decimal `json:"remainingBalance"`
	TotalContributions decimal.Decimal `json:"totalContributions"`
	LoansCount         int             `json:"loansCount"`
	ActiveLoansCount   int             `json:"activeLoansCount"`
	LastLoanDate       *time.Time      `json:"lastLoanDate,omitempty"`
}

// SlotStatus is one scheduled month of a loan with what has been recorded against it
type SlotStatus struct {
	ScheduleSlot
	Amount decimal.Decimal    `json:"amount"`
	Status MonthPaymentStatus `json:"status"`
}

// LoanDetail is a loan joined with its member, schedule and reconciliation
type LoanDetail struct {
	Loan            *Loan                      `json:"loan"`
	MemberName      string                     `json:"memberName"`
	Schedule        []SlotStatus               `json:"schedule"`
	Repayments      map[string]decimal.Decimal `json:"repayments"`
	TotalPaid       decimal.Decimal            `json:"totalPaid"`
	RemainingAmount decimal.Decimal            `json:"remainingAmount"`
	Status          LoanStatus                 `json:"status"`
}

// MonthTotals is one calendar month of the repayment matrix
type MonthTotals struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Name          string          `json:"name"`
	ExpectedTotal decimal.Decimal `json:"expectedTotal"`
	RecordedTotal decimal.Decimal `json:"recordedTotal"`
	LoansDue      int             `json:"loansDue"`
}

// ContributionRow is one member's contributions across the months of a year
type ContributionRow struct {
	MemberID   int32             `json:"memberId"`
	Name       string            `json:"name"`
	Dedication decimal.Decimal   `json:"dedication"`
	Months     []decimal.Decimal `json:"months"`
	Total      decimal.Decimal   `json:"total"`
}

// ContributionMatrix is the yearly contribution grid of a group. Months has 12 entries, January first.
type ContributionMatrix struct {
	Year        int               `json:"year"`
	Rows        []ContributionRow `json:"rows"`
	MonthTotals []decimal.Decimal `json:"monthTotals"`
	Total       decimal.Decimal   `json:"total"`
}

// MyFinancialSummary is the signed-in member's own totals
type MyFinancialSummary struct {
	TotalLoans         decimal.Decimal `json:"totalLoans"`
	TotalPaid          decimal.Decimal `json:"totalPaid"`
	RemainingBalance   decimal.Decimal `json:"remainingBalance"`
	TotalContributions decimal.Decimal `json:"totalContributions"`
	ActiveLoans        int             `json:"activeLoans"`
}

// GroupOverview aggregates the whole group
type GroupOverview struct {
	TotalDisbursed     decimal.Decimal `json:"totalDisbursed"`
	TotalRepaid        decimal.Decimal `json:"totalRepaid"`
	TotalOutstanding   decimal.Decimal `json:"totalOutstanding"`
	TotalContributions decimal.Decimal `json:"totalContributions"`
	ActiveLoans        int             `json:"activeLoans"`
	PaidLoans          int             `json:"paidLoans"`
	MemberCount        int             `json:"memberCount"`
}

// DashboardSummary is the landing page payload
type DashboardSummary struct {
	Me          MyFinancialSummary `json:"me"`
	Group       GroupOverview      `json:"group"`
	NextMeeting MeetingInfo        `json:"nextMeeting"`
}
