package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LoanRepository implements domain.LoanRepository using PostgreSQL
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, group_id, member_id, amount, issue_date, months_for_repayment,
	monthly_repayment_amount, status, notes, created_at, updated_at`

// Create creates a new loan
func (r *LoanRepository) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	amount, err := decimalToPgNumeric(loan.Amount)
	if err != nil {
		return nil, err
	}
	installment, err := decimalToPgNumeric(loan.MonthlyRepaymentAmount)
	if err != nil {
		return nil, err
	}

	created, err := scanLoan(r.pool.QueryRow(ctx, `
		INSERT INTO loans (group_id, member_id, amount, issue_date, months_for_repayment,
			monthly_repayment_amount, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+loanColumns,
		loan.GroupID, loan.MemberID, amount, pgDate(loan.IssueDate), loan.MonthsForRepayment,
		installment, string(loan.Status), loan.Notes))
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a loan by its ID within a group
func (r *LoanRepository) GetByID(ctx context.Context, groupID int32, id int32) (*domain.Loan, error) {
	return getLoan(ctx, r.pool, `SELECT `+loanColumns+` FROM loans WHERE id = $1 AND group_id = $2`, id, groupID)
}

// GetForUpdateTx reads a loan and locks its row until the transaction ends. Writers of
// the same loan's ledger queue behind the lock.
func (r *LoanRepository) GetForUpdateTx(ctx context.Context, tx interface{}, groupID int32, id int32) (*domain.Loan, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return getLoan(ctx, pgxTx, `SELECT `+loanColumns+` FROM loans WHERE id = $1 AND group_id = $2 FOR UPDATE`, id, groupID)
}

// ListByGroup returns the loans of a group, newest issue date first
func (r *LoanRepository) ListByGroup(ctx context.Context, groupID int32, filter domain.LoanFilter) ([]*domain.Loan, error) {
	where := []string{"group_id = $1"}
	args := []any{groupID}
	if filter.MemberID != nil {
		args = append(args, *filter.MemberID)
		where = append(where, fmt.Sprintf("member_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+loanColumns+` FROM loans
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY issue_date DESC, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loan)
	}
	return out, rows.Err()
}

// UpdateStatusTx sets the status of a loan within a transaction
func (r *LoanRepository) UpdateStatusTx(ctx context.Context, tx interface{}, groupID int32, id int32, status domain.LoanStatus) error {
	pgxTx, err := asTx(tx)
	if err != nil {
		return err
	}
	tag, err := pgxTx.Exec(ctx, `
		UPDATE loans SET status = $3, updated_at = NOW()
		WHERE id = $1 AND group_id = $2`, id, groupID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

func getLoan(ctx context.Context, q querier, sql string, args ...any) (*domain.Loan, error) {
	loan, err := scanLoan(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var l domain.Loan
	var amount, installment pgtype.Numeric
	var issueDate pgtype.Date
	var status string
	err := row.Scan(&l.ID, &l.GroupID, &l.MemberID, &amount, &issueDate, &l.MonthsForRepayment,
		&installment, &status, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Amount = pgNumericToDecimal(amount)
	l.MonthlyRepaymentAmount = pgNumericToDecimal(installment)
	l.IssueDate = issueDate.Time
	l.Status = domain.LoanStatus(status)
	return &l, nil
}
