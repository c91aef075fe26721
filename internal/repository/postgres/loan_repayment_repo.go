package postgres

import (
	"context"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LoanRepaymentRepository implements domain.LoanRepaymentRepository using PostgreSQL
type LoanRepaymentRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepaymentRepository creates a new LoanRepaymentRepository
func NewLoanRepaymentRepository(pool *pgxpool.Pool) *LoanRepaymentRepository {
	return &LoanRepaymentRepository{pool: pool}
}

const repaymentColumns = `id, loan_id, due_year, due_month, amount, paid_at, created_at, updated_at`

// The UNIQUE (loan_id, due_year, due_month) constraint keeps one row per month; the
// conflict branch decides whether a second write replaces or adds.
const (
	upsertRepaymentReplace = `
		INSERT INTO loan_repayments (loan_id, due_year, due_month, amount, paid_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (loan_id, due_year, due_month) DO UPDATE
		SET amount = EXCLUDED.amount, paid_at = EXCLUDED.paid_at, updated_at = NOW()
		RETURNING ` + repaymentColumns

	upsertRepaymentTopUp = `
		INSERT INTO loan_repayments (loan_id, due_year, due_month, amount, paid_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (loan_id, due_year, due_month) DO UPDATE
		SET amount = loan_repayments.amount + EXCLUDED.amount, paid_at = EXCLUDED.paid_at, updated_at = NOW()
		RETURNING ` + repaymentColumns
)

// UpsertTx writes the ledger entry for a month within a transaction
func (r *LoanRepaymentRepository) UpsertTx(ctx context.Context, tx interface{}, entry *domain.LoanRepayment, mode domain.RepaymentMode) (*domain.LoanRepayment, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	amount, err := decimalToPgNumeric(entry.Amount)
	if err != nil {
		return nil, err
	}

	sql := upsertRepaymentReplace
	if mode == domain.RepaymentModeTopUp {
		sql = upsertRepaymentTopUp
	}
	return scanRepayment(pgxTx.QueryRow(ctx, sql, entry.LoanID, entry.DueYear, entry.DueMonth, amount, entry.PaidAt))
}

// ListByLoan returns the ledger of a loan in due-month order
func (r *LoanRepaymentRepository) ListByLoan(ctx context.Context, loanID int32) ([]*domain.LoanRepayment, error) {
	return listRepayments(ctx, r.pool, `
		SELECT `+repaymentColumns+` FROM loan_repayments
		WHERE loan_id = $1
		ORDER BY due_year, due_month`, loanID)
}

// ListByLoanTx reads the ledger inside a transaction, seeing its uncommitted writes
func (r *LoanRepaymentRepository) ListByLoanTx(ctx context.Context, tx interface{}, loanID int32) ([]*domain.LoanRepayment, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return listRepayments(ctx, pgxTx, `
		SELECT `+repaymentColumns+` FROM loan_repayments
		WHERE loan_id = $1
		ORDER BY due_year, due_month`, loanID)
}

// ListByGroup returns every ledger entry of every loan in a group
func (r *LoanRepaymentRepository) ListByGroup(ctx context.Context, groupID int32) ([]*domain.LoanRepayment, error) {
	return listRepayments(ctx, r.pool, `
		SELECT lr.id, lr.loan_id, lr.due_year, lr.due_month, lr.amount, lr.paid_at, lr.created_at, lr.updated_at
		FROM loan_repayments lr
		JOIN loans l ON l.id = lr.loan_id
		WHERE l.group_id = $1
		ORDER BY lr.loan_id, lr.due_year, lr.due_month`, groupID)
}

func listRepayments(ctx context.Context, q querier, sql string, args ...any) ([]*domain.LoanRepayment, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.LoanRepayment
	for rows.Next() {
		e, err := scanRepayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanRepayment(row pgx.Row) (*domain.LoanRepayment, error) {
	var e domain.LoanRepayment
	var amount pgtype.Numeric
	if err := row.Scan(&e.ID, &e.LoanID, &e.DueYear, &e.DueMonth, &amount, &e.PaidAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Amount = pgNumericToDecimal(amount)
	return &e, nil
}
