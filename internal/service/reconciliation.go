package service

import (
	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Reconciliation is the state of a loan derived from its ledger
type Reconciliation struct {
	TotalPaid       decimal.Decimal   `json:"totalPaid"`
	RemainingAmount decimal.Decimal   `json:"remainingAmount"`
	Status          domain.LoanStatus `json:"status"`
	// BecamePaid is set when this reconciliation moved the loan from active to paid
	BecamePaid bool `json:"becamePaid"`
}

// Reconcile sums the ledger of a loan. RemainingAmount goes negative on overpayment.
// A paid loan stays paid whatever the ledger says.
func Reconcile(loan *domain.Loan, entries []*domain.LoanRepayment) Reconciliation {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}

	r := Reconciliation{
		TotalPaid:       total,
		RemainingAmount: loan.Amount.Sub(total),
		Status:          loan.Status,
	}
	if r.Status == "" {
		r.Status = domain.LoanStatusActive
	}

	if r.Status == domain.LoanStatusActive && total.GreaterThanOrEqual(loan.Amount) {
		r.Status = domain.LoanStatusPaid
		r.BecamePaid = true
	}
	return r
}

// MonthPaymentStatus classifies one scheduled month against the installment.
// A nil entry means nothing was recorded for the month.
func MonthPaymentStatus(loan *domain.Loan, entry *domain.LoanRepayment) domain.MonthPaymentStatus {
	if entry == nil || !entry.Amount.IsPositive() {
		return domain.MonthUnpaid
	}
	if entry.Amount.GreaterThanOrEqual(loan.MonthlyRepaymentAmount) {
		return domain.MonthPaid
	}
	return domain.MonthPartial
}

// SlotStatuses lays the ledger over the schedule, one element per scheduled month
func SlotStatuses(loan *domain.Loan, entries []*domain.LoanRepayment) []domain.SlotStatus {
	slots := loan.Slots()
	out := make([]domain.SlotStatus, len(slots))
	for i, slot := range slots {
		var match *domain.LoanRepayment
		for _, e := range entries {
			if e.Matches(slot) {
				match = e
				break
			}
		}
		amount := decimal.Zero
		if match != nil {
			amount = match.Amount
		}
		out[i] = domain.SlotStatus{
			ScheduleSlot: slot,
			Amount:       amount,
			Status:       MonthPaymentStatus(loan, match),
		}
	}
	return out
}

// RepaymentsByMonth maps month name to the amount recorded for it. Schedules longer
// than a year repeat month names; their amounts are added together.
func RepaymentsByMonth(entries []*domain.LoanRepayment) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(entries))
	for _, e := range entries {
		name := e.MonthName()
		out[name] = out[name].Add(e.Amount)
	}
	return out
}
