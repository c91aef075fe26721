package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContributionRepository implements domain.ContributionRepository using PostgreSQL
type ContributionRepository struct {
	pool *pgxpool.Pool
}

// NewContributionRepository creates a new ContributionRepository
func NewContributionRepository(pool *pgxpool.Pool) *ContributionRepository {
	return &ContributionRepository{pool: pool}
}

const contributionColumns = `c.id, c.member_id, c.year, c.month, c.amount, c.paid_at, c.created_at, c.updated_at`

// UpsertTx sets a member's contribution for a month, replacing an earlier one
func (r *ContributionRepository) UpsertTx(ctx context.Context, tx interface{}, contribution *domain.MonthlyContribution) (*domain.MonthlyContribution, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	amount, err := decimalToPgNumeric(contribution.Amount)
	if err != nil {
		return nil, err
	}
	return scanContribution(pgxTx.QueryRow(ctx, `
		INSERT INTO monthly_contributions AS c (member_id, year, month, amount, paid_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (member_id, year, month) DO UPDATE
		SET amount = EXCLUDED.amount, paid_at = EXCLUDED.paid_at, updated_at = NOW()
		RETURNING `+contributionColumns,
		contribution.MemberID, contribution.Year, contribution.Month, amount, contribution.PaidAt))
}

// ListByGroup returns contributions of a group's members, newest month first
func (r *ContributionRepository) ListByGroup(ctx context.Context, groupID int32, filter domain.ContributionFilter) ([]*domain.MonthlyContribution, error) {
	where := []string{"m.group_id = $1"}
	args := []any{groupID}
	if filter.MemberID != nil {
		args = append(args, *filter.MemberID)
		where = append(where, fmt.Sprintf("c.member_id = $%d", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		where = append(where, fmt.Sprintf("c.year = $%d", len(args)))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+contributionColumns+`
		FROM monthly_contributions c
		JOIN members m ON m.id = c.member_id
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY c.year DESC, c.month DESC, c.member_id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.MonthlyContribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanContribution(row pgx.Row) (*domain.MonthlyContribution, error) {
	var c domain.MonthlyContribution
	var amount pgtype.Numeric
	if err := row.Scan(&c.ID, &c.MemberID, &c.Year, &c.Month, &amount, &c.PaidAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Amount = pgNumericToDecimal(amount)
	return &c, nil
}
