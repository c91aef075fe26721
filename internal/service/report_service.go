package service

import (
	"context"
	"sort"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReportService builds the read-side views of a group. Everything is loaded per group
// and aggregated in memory.
type ReportService struct {
	memberRepo       domain.MemberRepository
	loanRepo         domain.LoanRepository
	repaymentRepo    domain.LoanRepaymentRepository
	contributionRepo domain.ContributionRepository
	settings         *SettingsService
}

func NewReportService(
	memberRepo domain.MemberRepository,
	loanRepo domain.LoanRepository,
	repaymentRepo domain.LoanRepaymentRepository,
	contributionRepo domain.ContributionRepository,
	settings *SettingsService,
) *ReportService {
	return &ReportService{
		memberRepo:       memberRepo,
		loanRepo:         loanRepo,
		repaymentRepo:    repaymentRepo,
		contributionRepo: contributionRepo,
		settings:         settings,
	}
}

// groupData is everything a report reads, fetched once
type groupData struct {
	members       []*domain.Member
	loans         []*domain.Loan
	entries       map[int32][]*domain.LoanRepayment // by loan ID
	contributions []*domain.MonthlyContribution
}

func (s *ReportService) load(ctx context.Context, groupID int32, filter domain.LoanFilter, withContributions bool) (*groupData, error) {
	members, err := s.memberRepo.ListByGroup(ctx, groupID)
	if err != nil {
		log.Error().Err(err).Int32("group_id", groupID).Msg("Failed to load members")
		return nil, err
	}
	loans, err := s.loanRepo.ListByGroup(ctx, groupID, filter)
	if err != nil {
		log.Error().Err(err).Int32("group_id", groupID).Msg("Failed to load loans")
		return nil, err
	}
	repayments, err := s.repaymentRepo.ListByGroup(ctx, groupID)
	if err != nil {
		log.Error().Err(err).Int32("group_id", groupID).Msg("Failed to load repayments")
		return nil, err
	}

	data := &groupData{
		members: members,
		loans:   loans,
		entries: make(map[int32][]*domain.LoanRepayment, len(loans)),
	}
	for _, e := range repayments {
		data.entries[e.LoanID] = append(data.entries[e.LoanID], e)
	}

	if withContributions {
		data.contributions, err = s.contributionRepo.ListByGroup(ctx, groupID, domain.ContributionFilter{})
		if err != nil {
			log.Error().Err(err).Int32("group_id", groupID).Msg("Failed to load contributions")
			return nil, err
		}
	}
	return data, nil
}

// MemberSummaries returns one row per member. Members without loans or contributions
// get zero totals.
func (s *ReportService) MemberSummaries(ctx context.Context, groupID int32) ([]domain.MemberSummary, error) {
	data, err := s.load(ctx, groupID, domain.LoanFilter{}, true)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.MemberSummary, len(data.members))
	index := make(map[int32]int, len(data.members))
	for i, m := range data.members {
		index[m.ID] = i
		rows[i] = domain.MemberSummary{
			MemberID:           m.ID,
			Name:               m.Name,
			Email:              m.Email,
			Dedication:         m.Dedication,
			TotalLoans:         decimal.Zero,
			TotalPaid:          decimal.Zero,
			RemainingBalance:   decimal.Zero,
			TotalContributions: decimal.Zero,
		}
	}

	for _, loan := range data.loans {
		i, ok := index[loan.MemberID]
		if !ok {
			continue
		}
		row := &rows[i]
		rec := Reconcile(loan, data.entries[loan.ID])
		row.TotalLoans = row.TotalLoans.Add(loan.Amount)
		row.TotalPaid = row.TotalPaid.Add(rec.TotalPaid)
		row.LoansCount++
		if rec.Status == domain.LoanStatusActive {
			row.ActiveLoansCount++
		}
		if row.LastLoanDate == nil || loan.IssueDate.After(*row.LastLoanDate) {
			issued := loan.IssueDate
			row.LastLoanDate = &issued
		}
	}

	for _, c := range data.contributions {
		if i, ok := index[c.MemberID]; ok {
			rows[i].TotalContributions = rows[i].TotalContributions.Add(c.Amount)
		}
	}

	for i := range rows {
		rows[i].RemainingBalance = rows[i].TotalLoans.Sub(rows[i].TotalPaid)
	}
	return rows, nil
}

// LoanDetails returns every matching loan with its schedule and ledger,
// newest issue date first and by ID within a day
func (s *ReportService) LoanDetails(ctx context.Context, groupID int32, filter domain.LoanFilter) ([]*domain.LoanDetail, error) {
	data, err := s.load(ctx, groupID, filter, false)
	if err != nil {
		return nil, err
	}

	names := make(map[int32]string, len(data.members))
	for _, m := range data.members {
		names[m.ID] = m.Name
	}

	sortLoans(data.loans)
	details := make([]*domain.LoanDetail, len(data.loans))
	for i, loan := range data.loans {
		details[i] = BuildLoanDetail(loan, names[loan.MemberID], data.entries[loan.ID])
	}
	return details, nil
}

// RepaymentMatrix returns the twelve months of a year with what was due and what was recorded
func (s *ReportService) RepaymentMatrix(ctx context.Context, groupID int32, year int) ([]domain.MonthTotals, error) {
	data, err := s.load(ctx, groupID, domain.LoanFilter{}, false)
	if err != nil {
		return nil, err
	}

	months := make([]domain.MonthTotals, 12)
	for i := range months {
		months[i] = domain.MonthTotals{
			Year:          year,
			Month:         i + 1,
			Name:          util.MonthName(time.Month(i + 1)),
			ExpectedTotal: decimal.Zero,
			RecordedTotal: decimal.Zero,
		}
	}

	for _, loan := range data.loans {
		for _, slot := range loan.Slots() {
			if slot.Year != year {
				continue
			}
			m := &months[slot.Month-1]
			m.ExpectedTotal = m.ExpectedTotal.Add(loan.MonthlyRepaymentAmount)
			m.LoansDue++
		}
		for _, e := range data.entries[loan.ID] {
			if int(e.DueYear) == year {
				m := &months[e.DueMonth-1]
				m.RecordedTotal = m.RecordedTotal.Add(e.Amount)
			}
		}
	}
	return months, nil
}

// ContributionMatrix returns each member's contributions for the months of a year
func (s *ReportService) ContributionMatrix(ctx context.Context, groupID int32, year int) (*domain.ContributionMatrix, error) {
	members, err := s.memberRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	y := int32(year)
	contributions, err := s.contributionRepo.ListByGroup(ctx, groupID, domain.ContributionFilter{Year: &y})
	if err != nil {
		return nil, err
	}

	matrix := &domain.ContributionMatrix{
		Year:        year,
		Rows:        make([]domain.ContributionRow, len(members)),
		MonthTotals: zeros(12),
		Total:       decimal.Zero,
	}
	index := make(map[int32]int, len(members))
	for i, m := range members {
		index[m.ID] = i
		matrix.Rows[i] = domain.ContributionRow{
			MemberID:   m.ID,
			Name:       m.Name,
			Dedication: m.Dedication,
			Months:     zeros(12),
			Total:      decimal.Zero,
		}
	}

	for _, c := range contributions {
		i, ok := index[c.MemberID]
		if !ok || c.Month < 1 || c.Month > 12 {
			continue
		}
		row := &matrix.Rows[i]
		row.Months[c.Month-1] = row.Months[c.Month-1].Add(c.Amount)
		row.Total = row.Total.Add(c.Amount)
		matrix.MonthTotals[c.Month-1] = matrix.MonthTotals[c.Month-1].Add(c.Amount)
		matrix.Total = matrix.Total.Add(c.Amount)
	}
	return matrix, nil
}

// Dashboard returns the signed-in member's totals, the group overview and the next meeting
func (s *ReportService) Dashboard(ctx context.Context, groupID, memberID int32) (*domain.DashboardSummary, error) {
	data, err := s.load(ctx, groupID, domain.LoanFilter{}, true)
	if err != nil {
		return nil, err
	}

	summary := &domain.DashboardSummary{
		Me: domain.MyFinancialSummary{
			TotalLoans:         decimal.Zero,
			TotalPaid:          decimal.Zero,
			RemainingBalance:   decimal.Zero,
			TotalContributions: decimal.Zero,
		},
		Group: domain.GroupOverview{
			TotalDisbursed:     decimal.Zero,
			TotalRepaid:        decimal.Zero,
			TotalOutstanding:   decimal.Zero,
			TotalContributions: decimal.Zero,
			MemberCount:        len(data.members),
		},
	}
	me, group := &summary.Me, &summary.Group

	for _, loan := range data.loans {
		rec := Reconcile(loan, data.entries[loan.ID])
		group.TotalDisbursed = group.TotalDisbursed.Add(loan.Amount)
		group.TotalRepaid = group.TotalRepaid.Add(rec.TotalPaid)
		if rec.Status == domain.LoanStatusPaid {
			group.PaidLoans++
		} else {
			group.ActiveLoans++
			if rec.RemainingAmount.IsPositive() {
				group.TotalOutstanding = group.TotalOutstanding.Add(rec.RemainingAmount)
			}
		}

		if loan.MemberID == memberID {
			me.TotalLoans = me.TotalLoans.Add(loan.Amount)
			me.TotalPaid = me.TotalPaid.Add(rec.TotalPaid)
			if rec.Status == domain.LoanStatusActive {
				me.ActiveLoans++
			}
		}
	}
	me.RemainingBalance = me.TotalLoans.Sub(me.TotalPaid)

	for _, c := range data.contributions {
		group.TotalContributions = group.TotalContributions.Add(c.Amount)
		if c.MemberID == memberID {
			me.TotalContributions = me.TotalContributions.Add(c.Amount)
		}
	}

	if s.settings != nil {
		meeting, err := s.settings.NextMeeting(ctx, groupID)
		if err != nil {
			return nil, err
		}
		summary.NextMeeting = *meeting
	}
	return summary, nil
}

// BuildLoanDetail joins a loan with its ledger
func BuildLoanDetail(loan *domain.Loan, memberName string, entries []*domain.LoanRepayment) *domain.LoanDetail {
	rec := Reconcile(loan, entries)
	return &domain.LoanDetail{
		Loan:            loan,
		MemberName:      memberName,
		Schedule:        SlotStatuses(loan, entries),
		Repayments:      RepaymentsByMonth(entries),
		TotalPaid:       rec.TotalPaid,
		RemainingAmount: rec.RemainingAmount,
		Status:          rec.Status,
	}
}

// sortLoans orders loans by issue date, newest first, then by ID
func sortLoans(loans []*domain.Loan) {
	sort.SliceStable(loans, func(i, j int) bool {
		if !loans[i].IssueDate.Equal(loans[j].IssueDate) {
			return loans[i].IssueDate.After(loans[j].IssueDate)
		}
		return loans[i].ID < loans[j].ID
	})
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}
