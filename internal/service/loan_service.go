package service

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/metrics"
	"github.com/dafibh/kikoba/kikoba-backend/internal/util"
	"github.com/dafibh/kikoba/kikoba-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// LoanService disburses loans and reads them back with their ledger
type LoanService struct {
	loanRepo       domain.LoanRepository
	memberRepo     domain.MemberRepository
	repaymentRepo  domain.LoanRepaymentRepository
	eventPublisher websocket.EventPublisher
}

func NewLoanService(loanRepo domain.LoanRepository, memberRepo domain.MemberRepository, repaymentRepo domain.LoanRepaymentRepository) *LoanService {
	return &LoanService{
		loanRepo:      loanRepo,
		memberRepo:    memberRepo,
		repaymentRepo: repaymentRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *LoanService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *LoanService) publishEvent(groupID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(groupID, event)
	}
}

// CreateLoanInput contains input for disbursing a loan
type CreateLoanInput struct {
	MemberID  int32
	Amount    decimal.Decimal
	IssueDate time.Time
	Notes     *string
}

// CreateLoan validates the input, derives the repayment schedule and stores the loan as active
func (s *LoanService) CreateLoan(ctx context.Context, groupID int32, input CreateLoanInput) (*domain.Loan, error) {
	if input.MemberID <= 0 {
		return nil, domain.ErrLoanMemberRequired
	}
	if input.Notes != nil && len(*input.Notes) > domain.MaxNotesLength {
		return nil, domain.ErrNotesTooLong
	}

	issueDate := input.IssueDate
	if !issueDate.IsZero() {
		issueDate = util.DateOnly(issueDate)
	}
	schedule, err := GenerateSchedule(input.Amount, issueDate)
	if err != nil {
		return nil, err
	}

	member, err := s.memberRepo.GetByID(ctx, groupID, input.MemberID)
	if err != nil {
		return nil, err
	}

	loan, err := s.loanRepo.Create(ctx, &domain.Loan{
		GroupID:                groupID,
		MemberID:               member.ID,
		Amount:                 input.Amount,
		IssueDate:              issueDate,
		MonthsForRepayment:     schedule.MonthsForRepayment,
		MonthlyRepaymentAmount: schedule.MonthlyRepaymentAmount,
		Status:                 domain.LoanStatusActive,
		Notes:                  input.Notes,
	})
	if err != nil {
		log.Error().Err(err).Int32("group_id", groupID).Int32("member_id", member.ID).Msg("Failed to create loan")
		return nil, err
	}

	metrics.LoansDisbursed.Inc()
	log.Info().
		Int32("group_id", groupID).
		Int32("loan_id", loan.ID).
		Str("amount", loan.Amount.String()).
		Int32("months", loan.MonthsForRepayment).
		Msg("Loan disbursed")

	s.publishEvent(groupID, websocket.LoanCreated(loan))
	return loan, nil
}

// PreviewLoan returns the schedule a loan would get without storing anything
func (s *LoanService) PreviewLoan(amount decimal.Decimal, issueDate time.Time) (*Schedule, error) {
	if !issueDate.IsZero() {
		issueDate = util.DateOnly(issueDate)
	}
	return GenerateSchedule(amount, issueDate)
}

// GetLoan returns one loan with its schedule, ledger and reconciliation
func (s *LoanService) GetLoan(ctx context.Context, groupID, loanID int32) (*domain.LoanDetail, error) {
	loan, err := s.loanRepo.GetByID(ctx, groupID, loanID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repaymentRepo.ListByLoan(ctx, loan.ID)
	if err != nil {
		log.Error().Err(err).Int32("loan_id", loan.ID).Msg("Failed to load repayments")
		return nil, err
	}

	memberName := ""
	member, err := s.memberRepo.GetByID(ctx, groupID, loan.MemberID)
	switch {
	case err == nil:
		memberName = member.Name
	case !errors.Is(err, domain.ErrMemberNotFound):
		return nil, err
	}

	return BuildLoanDetail(loan, memberName, entries), nil
}

// ListLoans returns the loans of a group, newest issue date first
func (s *LoanService) ListLoans(ctx context.Context, groupID int32, filter domain.LoanFilter) ([]*domain.Loan, error) {
	loans, err := s.loanRepo.ListByGroup(ctx, groupID, filter)
	if err != nil {
		return nil, err
	}
	sortLoans(loans)
	return loans, nil
}
