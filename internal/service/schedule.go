package service

import (
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// InstallmentCap is the largest amount a single monthly repayment may be
var InstallmentCap = decimal.NewFromInt(500000)

// Schedule is the repayment plan derived from a loan's principal and issue date
type Schedule struct {
	MonthsForRepayment     int32                 `json:"monthsForRepayment"`
	MonthlyRepaymentAmount decimal.Decimal       `json:"monthlyRepaymentAmount"`
	RepaymentMonths        []string              `json:"repaymentMonths"`
	Slots                  []domain.ScheduleSlot `json:"slots"`
}

// Total is what the schedule collects if every installment is paid in full.
// It is never less than the principal.
func (s *Schedule) Total() decimal.Decimal {
	return s.MonthlyRepaymentAmount.Mul(decimal.NewFromInt(int64(s.MonthsForRepayment)))
}

// GenerateSchedule splits a principal into the fewest monthly installments of at most
// InstallmentCap, rounding the installment up to whole currency units. The first
// installment falls in the issue month.
//
//	1500000 issued in June -> 3 x 500000: june, july, august
//	1000001 issued in June -> 3 x 333334: june, july, august
func GenerateSchedule(amount decimal.Decimal, issueDate time.Time) (*Schedule, error) {
	if !domain.IsPositiveAmount(amount) {
		return nil, domain.ErrLoanAmountInvalid
	}
	if issueDate.IsZero() {
		return nil, domain.ErrLoanIssueDateRequired
	}

	months := amount.Div(InstallmentCap).Ceil().IntPart()
	if months < 1 {
		months = 1
	}
	installment := amount.Div(decimal.NewFromInt(months)).Ceil()

	probe := &domain.Loan{IssueDate: issueDate, MonthsForRepayment: int32(months)}
	slots := probe.Slots()

	return &Schedule{
		MonthsForRepayment:     int32(months),
		MonthlyRepaymentAmount: installment,
		RepaymentMonths:        probe.RepaymentMonths(),
		Slots:                  slots,
	}, nil
}
