package domain

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/util"
	"github.com/shopspring/decimal"
)

var (
	ErrRepaymentAmountInvalid = errors.New("repayment amount must be positive with at most 2 decimal places")
	ErrRepaymentMonthRequired = errors.New("repayment month is required")
	ErrUnscheduledMonth       = errors.New("month is not in the loan's repayment schedule")
	ErrAmbiguousMonth         = errors.New("month occurs more than once in the schedule, use YYYY-MM")
)

// LoanRepayment is a ledger entry: the amount recorded against one scheduled month of a loan.
// There is at most one entry per (loan, due month).
type LoanRepayment struct {
	ID        int32           `json:"id"`
	LoanID    int32           `json:"loanId"`
	DueYear   int32           `json:"dueYear"`
	DueMonth  int32           `json:"dueMonth"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paidAt"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// MonthName returns the lowercase name of the due month
func (r *LoanRepayment) MonthName() string {
	return util.MonthName(time.Month(r.DueMonth))
}

// Matches reports whether the entry belongs to the given schedule slot
func (r *LoanRepayment) Matches(slot ScheduleSlot) bool {
	return int(r.DueYear) == slot.Year && int(r.DueMonth) == slot.Month
}

// RepaymentMode selects how an amount is applied to an existing ledger entry
type RepaymentMode string

const (
	// RepaymentModeReplace overwrites the month's amount (last write wins)
	RepaymentModeReplace RepaymentMode = "replace"
	// RepaymentModeTopUp adds to the month's amount
	RepaymentModeTopUp RepaymentMode = "top_up"
)

// MonthPaymentStatus is the presentation status of one scheduled month
type MonthPaymentStatus string

const (
	MonthPaid    MonthPaymentStatus = "paid"
	MonthPartial MonthPaymentStatus = "partial"
	MonthUnpaid  MonthPaymentStatus = "unpaid"
)

type LoanRepaymentRepository interface {
	ListByLoan(ctx context.Context, loanID int32) ([]*LoanRepayment, error)
	ListByLoanTx(ctx context.Context, tx interface{}, loanID int32) ([]*LoanRepayment, error)
	ListByGroup(ctx context.Context, groupID int32) ([]*LoanRepayment, error)
	UpsertTx(ctx context.Context, tx interface{}, entry *LoanRepayment, mode RepaymentMode) (*LoanRepayment, error)
}
