package service

import (
	"context"
	"strings"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/metrics"
	"github.com/dafibh/kikoba/kikoba-backend/internal/util"
	"github.com/dafibh/kikoba/kikoba-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ContributionService records members' monthly savings
type ContributionService struct {
	tx               domain.Transactor
	memberRepo       domain.MemberRepository
	contributionRepo domain.ContributionRepository
	eventPublisher   websocket.EventPublisher
	now              func() time.Time
}

func NewContributionService(tx domain.Transactor, memberRepo domain.MemberRepository, contributionRepo domain.ContributionRepository) *ContributionService {
	return &ContributionService{
		tx:               tx,
		memberRepo:       memberRepo,
		contributionRepo: contributionRepo,
		now:              time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ContributionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ContributionService) publishEvent(groupID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(groupID, event)
	}
}

// RecordContributionInput is one member's payment for a YYYY-MM month
type RecordContributionInput struct {
	MemberID int32
	Month    string
	Amount   decimal.Decimal
}

// RecordContribution sets a member's contribution for a month, replacing any earlier amount
func (s *ContributionService) RecordContribution(ctx context.Context, groupID int32, input RecordContributionInput) (*domain.MonthlyContribution, error) {
	if !domain.IsPositiveAmount(input.Amount) {
		return nil, domain.ErrContributionAmountInvalid
	}
	year, month, err := util.ParseYearMonth(strings.TrimSpace(input.Month))
	if err != nil {
		return nil, domain.ErrContributionMonthInvalid
	}
	if input.MemberID <= 0 {
		return nil, domain.ErrMemberNotFound
	}

	var saved *domain.MonthlyContribution
	err = s.tx.WithTx(ctx, func(tx interface{}) error {
		member, err := s.memberRepo.GetByID(ctx, groupID, input.MemberID)
		if err != nil {
			return err
		}
		saved, err = s.contributionRepo.UpsertTx(ctx, tx, &domain.MonthlyContribution{
			MemberID: member.ID,
			Year:     int32(year),
			Month:    int32(month),
			Amount:   input.Amount,
			PaidAt:   s.now(),
		})
		return err
	})
	if err != nil {
		if !domain.IsNotFoundError(err) {
			log.Error().Err(err).Int32("group_id", groupID).Int32("member_id", input.MemberID).Msg("Failed to record contribution")
		}
		return nil, err
	}

	metrics.ContributionsRecorded.Inc()
	log.Info().
		Int32("group_id", groupID).
		Int32("member_id", saved.MemberID).
		Str("month", util.FormatYearMonth(year, month)).
		Msg("Contribution recorded")

	s.publishEvent(groupID, websocket.ContributionRecorded(map[string]interface{}{
		"memberId": saved.MemberID,
		"month":    util.FormatYearMonth(year, month),
		"amount":   saved.Amount.IntPart(),
	}))
	return saved, nil
}

// ListContributions returns contributions newest month first
func (s *ContributionService) ListContributions(ctx context.Context, groupID int32, filter domain.ContributionFilter) ([]*domain.MonthlyContribution, error) {
	return s.contributionRepo.ListByGroup(ctx, groupID, filter)
}
