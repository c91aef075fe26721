package service

import (
	"testing"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func juneLoan() *domain.Loan {
	return &domain.Loan{
		ID:                     1,
		GroupID:                1,
		MemberID:               1,
		Amount:                 dec(1500000),
		IssueDate:              date(2024, time.June, 10),
		MonthsForRepayment:     3,
		MonthlyRepaymentAmount: dec(500000),
		Status:                 domain.LoanStatusActive,
	}
}

func entry(month time.Month, amount int64) *domain.LoanRepayment {
	return &domain.LoanRepayment{LoanID: 1, DueYear: 2024, DueMonth: int32(month), Amount: dec(amount)}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		entries    []*domain.LoanRepayment
		totalPaid  int64
		remaining  int64
		status     domain.LoanStatus
		becamePaid bool
	}{
		{"no entries", nil, 0, 1500000, domain.LoanStatusActive, false},
		{"partial", []*domain.LoanRepayment{entry(time.June, 500000), entry(time.July, 200000)}, 700000, 800000, domain.LoanStatusActive, false},
		{"exactly paid", []*domain.LoanRepayment{entry(time.June, 500000), entry(time.July, 500000), entry(time.August, 500000)}, 1500000, 0, domain.LoanStatusPaid, true},
		{"overpaid", []*domain.LoanRepayment{entry(time.June, 1000000), entry(time.July, 600000)}, 1600000, -100000, domain.LoanStatusPaid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reconcile(juneLoan(), tt.entries)
			assert.True(t, dec(tt.totalPaid).Equal(r.TotalPaid), "total paid = %s", r.TotalPaid)
			assert.True(t, dec(tt.remaining).Equal(r.RemainingAmount), "remaining = %s", r.RemainingAmount)
			assert.Equal(t, tt.status, r.Status)
			assert.Equal(t, tt.becamePaid, r.BecamePaid)
		})
	}
}

func TestReconcile_PaidIsTerminal(t *testing.T) {
	loan := juneLoan()
	loan.Status = domain.LoanStatusPaid

	r := Reconcile(loan, []*domain.LoanRepayment{entry(time.June, 100000)})

	assert.Equal(t, domain.LoanStatusPaid, r.Status)
	assert.False(t, r.BecamePaid)
	assert.True(t, dec(1400000).Equal(r.RemainingAmount))
}

func TestMonthPaymentStatus(t *testing.T) {
	loan := juneLoan()

	assert.Equal(t, domain.MonthUnpaid, MonthPaymentStatus(loan, nil))
	assert.Equal(t, domain.MonthUnpaid, MonthPaymentStatus(loan, &domain.LoanRepayment{Amount: decimal.Zero}))
	assert.Equal(t, domain.MonthPartial, MonthPaymentStatus(loan, entry(time.June, 499999)))
	assert.Equal(t, domain.MonthPaid, MonthPaymentStatus(loan, entry(time.June, 500000)))
	assert.Equal(t, domain.MonthPaid, MonthPaymentStatus(loan, entry(time.June, 750000)))
}

func TestSlotStatuses(t *testing.T) {
	statuses := SlotStatuses(juneLoan(), []*domain.LoanRepayment{
		entry(time.June, 500000),
		entry(time.August, 100000),
	})

	assert.Len(t, statuses, 3)
	assert.Equal(t, "june", statuses[0].Name)
	assert.Equal(t, domain.MonthPaid, statuses[0].Status)
	assert.Equal(t, domain.MonthUnpaid, statuses[1].Status)
	assert.True(t, statuses[1].Amount.IsZero())
	assert.Equal(t, domain.MonthPartial, statuses[2].Status)
}

func TestRepaymentsByMonth_SumsRepeatedNames(t *testing.T) {
	entries := []*domain.LoanRepayment{
		{DueYear: 2024, DueMonth: 6, Amount: dec(500000)},
		{DueYear: 2025, DueMonth: 6, Amount: dec(200000)},
		{DueYear: 2024, DueMonth: 7, Amount: dec(500000)},
	}

	byMonth := RepaymentsByMonth(entries)

	assert.True(t, dec(700000).Equal(byMonth["june"]))
	assert.True(t, dec(500000).Equal(byMonth["july"]))
	assert.Len(t, byMonth, 2)
}
