package domain

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/util"
	"github.com/shopspring/decimal"
)

var (
	ErrLoanNotFound          = errors.New("loan not found")
	ErrLoanAmountInvalid     = errors.New("loan amount must be positive with at most 2 decimal places")
	ErrLoanIssueDateRequired = errors.New("loan issue date is required")
	ErrLoanMemberRequired    = errors.New("loan member is required")
	ErrNotesTooLong          = errors.New("notes must be 1000 characters or less")
)

// LoanStatus is the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusPaid   LoanStatus = "paid"
)

// IsValid reports whether s is a known loan status
func (s LoanStatus) IsValid() bool {
	return s == LoanStatusActive || s == LoanStatusPaid
}

type Loan struct {
	ID                     int32           `json:"id"`
	GroupID                int32           `json:"groupId"`
	MemberID               int32           `json:"memberId"`
	Amount                 decimal.Decimal `json:"amount"`
	IssueDate              time.Time       `json:"issueDate"`
	MonthsForRepayment     int32           `json:"monthsForRepayment"`
	MonthlyRepaymentAmount decimal.Decimal `json:"monthlyRepaymentAmount"`
	Status                 LoanStatus      `json:"status"`
	Notes                  *string         `json:"notes,omitempty"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// ScheduleSlot is one scheduled repayment month of a loan
type ScheduleSlot struct {
	Index int    `json:"index"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Name  string `json:"name"`
}

// Key returns the slot as "YYYY-MM"
func (s ScheduleSlot) Key() string {
	return util.FormatYearMonth(s.Year, s.Month)
}

// Slots returns the repayment schedule starting at the issue month
func (l *Loan) Slots() []ScheduleSlot {
	slots := make([]ScheduleSlot, l.MonthsForRepayment)
	for i := range slots {
		year, month := util.AddMonths(l.IssueDate.Year(), int(l.IssueDate.Month()), i)
		slots[i] = ScheduleSlot{
			Index: i,
			Year:  year,
			Month: month,
			Name:  util.MonthName(time.Month(month)),
		}
	}
	return slots
}

// RepaymentMonths returns the lowercase month names of the schedule in order
func (l *Loan) RepaymentMonths() []string {
	slots := l.Slots()
	names := make([]string, len(slots))
	for i, slot := range slots {
		names[i] = slot.Name
	}
	return names
}

// ResolveSlot finds the scheduled slot for a month given either as a month name
// ("june") or as "YYYY-MM". A month name that occurs more than once in the schedule
// is ambiguous and must be given as "YYYY-MM".
func (l *Loan) ResolveSlot(month string) (ScheduleSlot, error) {
	if month == "" {
		return ScheduleSlot{}, ErrRepaymentMonthRequired
	}

	slots := l.Slots()

	if year, m, err := util.ParseYearMonth(month); err == nil {
		for _, slot := range slots {
			if slot.Year == year && slot.Month == m {
				return slot, nil
			}
		}
		return ScheduleSlot{}, ErrUnscheduledMonth
	}

	name, ok := util.ParseMonthName(month)
	if !ok {
		return ScheduleSlot{}, ErrUnscheduledMonth
	}

	var found []ScheduleSlot
	for _, slot := range slots {
		if slot.Month == int(name) {
			found = append(found, slot)
		}
	}
	switch len(found) {
	case 0:
		return ScheduleSlot{}, ErrUnscheduledMonth
	case 1:
		return found[0], nil
	default:
		return ScheduleSlot{}, ErrAmbiguousMonth
	}
}

// LoanFilter narrows loan listings
type LoanFilter struct {
	MemberID *int32
	Status   *LoanStatus
}

type LoanRepository interface {
	Create(ctx context.Context, loan *Loan) (*Loan, error)
	GetByID(ctx context.Context, groupID int32, id int32) (*Loan, error)
	GetForUpdateTx(ctx context.Context, tx interface{}, groupID int32, id int32) (*Loan, error)
	ListByGroup(ctx context.Context, groupID int32, filter LoanFilter) ([]*Loan, error)
	UpdateStatusTx(ctx context.Context, tx interface{}, groupID int32, id int32, status LoanStatus) error
}
