package service

import (
	"context"
	"strings"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/metrics"
	"github.com/dafibh/kikoba/kikoba-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// RepaymentService records repayments against the scheduled months of a loan
// and keeps the loan status in step with its ledger
type RepaymentService struct {
	tx             domain.Transactor
	loanRepo       domain.LoanRepository
	repaymentRepo  domain.LoanRepaymentRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

func NewRepaymentService(tx domain.Transactor, loanRepo domain.LoanRepository, repaymentRepo domain.LoanRepaymentRepository) *RepaymentService {
	return &RepaymentService{
		tx:            tx,
		loanRepo:      loanRepo,
		repaymentRepo: repaymentRepo,
		now:           time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *RepaymentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *RepaymentService) publishEvent(groupID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(groupID, event)
	}
}

// RecordPaymentInput identifies the month being paid, by name ("june") or as YYYY-MM
type RecordPaymentInput struct {
	LoanID int32
	Month  string
	Amount decimal.Decimal
}

// RecordPaymentResult is the ledger entry written and the loan state after it
type RecordPaymentResult struct {
	Loan           *domain.Loan          `json:"loan"`
	Repayment      *domain.LoanRepayment `json:"repayment"`
	Slot           domain.ScheduleSlot   `json:"slot"`
	Reconciliation Reconciliation        `json:"reconciliation"`
}

// RecordPayment sets the amount paid for a scheduled month. Recording the same month
// again replaces the earlier amount.
func (s *RepaymentService) RecordPayment(ctx context.Context, groupID int32, input RecordPaymentInput) (*RecordPaymentResult, error) {
	return s.record(ctx, groupID, input, domain.RepaymentModeReplace)
}

// TopUpPayment adds to whatever is already recorded for a scheduled month
func (s *RepaymentService) TopUpPayment(ctx context.Context, groupID int32, input RecordPaymentInput) (*RecordPaymentResult, error) {
	return s.record(ctx, groupID, input, domain.RepaymentModeTopUp)
}

func (s *RepaymentService) record(ctx context.Context, groupID int32, input RecordPaymentInput, mode domain.RepaymentMode) (*RecordPaymentResult, error) {
	if !domain.IsPositiveAmount(input.Amount) {
		return nil, domain.ErrRepaymentAmountInvalid
	}
	month := strings.TrimSpace(input.Month)
	if month == "" {
		return nil, domain.ErrRepaymentMonthRequired
	}

	var result RecordPaymentResult
	err := s.tx.WithTx(ctx, func(tx interface{}) error {
		// The row lock serializes concurrent writers on the same loan until commit
		loan, err := s.loanRepo.GetForUpdateTx(ctx, tx, groupID, input.LoanID)
		if err != nil {
			return err
		}

		slot, err := loan.ResolveSlot(month)
		if err != nil {
			return err
		}

		entry, err := s.repaymentRepo.UpsertTx(ctx, tx, &domain.LoanRepayment{
			LoanID:   loan.ID,
			DueYear:  int32(slot.Year),
			DueMonth: int32(slot.Month),
			Amount:   input.Amount,
			PaidAt:   s.now(),
		}, mode)
		if err != nil {
			return err
		}

		entries, err := s.repaymentRepo.ListByLoanTx(ctx, tx, loan.ID)
		if err != nil {
			return err
		}

		rec := Reconcile(loan, entries)
		if rec.BecamePaid {
			if err := s.loanRepo.UpdateStatusTx(ctx, tx, groupID, loan.ID, rec.Status); err != nil {
				return err
			}
		}
		loan.Status = rec.Status

		result = RecordPaymentResult{Loan: loan, Repayment: entry, Slot: slot, Reconciliation: rec}
		return nil
	})
	if err != nil {
		if !domain.IsValidationError(err) && !domain.IsNotFoundError(err) {
			log.Error().Err(err).Int32("group_id", groupID).Int32("loan_id", input.LoanID).Msg("Failed to record repayment")
		}
		return nil, err
	}

	metrics.RepaymentsRecorded.WithLabelValues(string(mode)).Inc()
	log.Info().
		Int32("group_id", groupID).
		Int32("loan_id", result.Loan.ID).
		Str("month", result.Slot.Key()).
		Str("mode", string(mode)).
		Str("total_paid", result.Reconciliation.TotalPaid.String()).
		Msg("Repayment recorded")

	s.publishEvent(groupID, websocket.LoanRepaymentRecorded(map[string]interface{}{
		"loanId":          result.Loan.ID,
		"month":           result.Slot.Name,
		"dueMonth":        result.Slot.Key(),
		"amount":          result.Repayment.Amount.IntPart(),
		"totalPaid":       result.Reconciliation.TotalPaid.IntPart(),
		"remainingAmount": result.Reconciliation.RemainingAmount.IntPart(),
		"status":          result.Reconciliation.Status,
	}))

	if result.Reconciliation.BecamePaid {
		metrics.LoansPaid.Inc()
		log.Info().Int32("group_id", groupID).Int32("loan_id", result.Loan.ID).Msg("Loan fully repaid")
		s.publishEvent(groupID, websocket.LoanPaid(result.Loan))
	}

	return &result, nil
}

// ListRepayments returns the ledger of a loan in schedule order
func (s *RepaymentService) ListRepayments(ctx context.Context, groupID, loanID int32) ([]*domain.LoanRepayment, error) {
	loan, err := s.loanRepo.GetByID(ctx, groupID, loanID)
	if err != nil {
		return nil, err
	}
	return s.repaymentRepo.ListByLoan(ctx, loan.ID)
}
