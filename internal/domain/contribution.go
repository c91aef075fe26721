package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrContributionNotFound      = errors.New("contribution not found")
	ErrContributionAmountInvalid = errors.New("contribution amount must be positive with at most 2 decimal places")
	ErrContributionMonthInvalid  = errors.New("contribution month must be YYYY-MM")
)

// MonthlyContribution is a member's savings payment for one calendar month.
// There is at most one contribution per (member, month).
type MonthlyContribution struct {
	ID        int32           `json:"id"`
	MemberID  int32           `json:"memberId"`
	Year      int32           `json:"year"`
	Month     int32           `json:"month"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paidAt"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ContributionFilter narrows contribution listings
type ContributionFilter struct {
	MemberID *int32
	Year     *int32
}

type ContributionRepository interface {
	UpsertTx(ctx context.Context, tx interface{}, contribution *MonthlyContribution) (*MonthlyContribution, error)
	ListByGroup(ctx context.Context, groupID int32, filter ContributionFilter) ([]*MonthlyContribution, error)
}
