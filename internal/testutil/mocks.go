package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/websocket"
)

// Snapshotter is a mock store whose state a MockTransactor can roll back
type Snapshotter interface {
	Snapshot() (restore func())
}

// MockTransactor runs fn directly with a nil tx. Transactions are serialized, which
// stands in for the row lock the database takes. Tracked stores are restored when fn
// fails, so a failed transaction leaves nothing behind.
type MockTransactor struct {
	mu        sync.Mutex
	Commits   int
	Rollbacks int
	WithFn    func(ctx context.Context, fn func(tx interface{}) error) error
	stores    []Snapshotter
}

func NewMockTransactor() *MockTransactor {
	return &MockTransactor{}
}

func (m *MockTransactor) WithTx(ctx context.Context, fn func(tx interface{}) error) error {
	if m.WithFn != nil {
		return m.WithFn(ctx, fn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	restores := make([]func(), 0, len(m.stores))
	for _, s := range m.stores {
		restores = append(restores, s.Snapshot())
	}
	if err := fn(nil); err != nil {
		for _, restore := range restores {
			restore()
		}
		m.Rollbacks++
		return err
	}
	m.Commits++
	return nil
}

// Track adds stores to roll back on failure
func (m *MockTransactor) Track(stores ...Snapshotter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores = append(m.stores, stores...)
}

// MockGroupRepository is a mock implementation of domain.GroupRepository
type MockGroupRepository struct {
	mu     sync.Mutex
	Groups map[int32]*domain.Group
	NextID int32
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{Groups: make(map[int32]*domain.Group), NextID: 1}
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id int32) (*domain.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.Groups[id]; ok {
		return g, nil
	}
	return nil, domain.ErrGroupNotFound
}

func (m *MockGroupRepository) CreateTx(ctx context.Context, tx interface{}, group *domain.Group) (*domain.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	group.ID = m.NextID
	m.NextID++
	group.CreatedAt = time.Now()
	group.UpdatedAt = group.CreatedAt
	m.Groups[group.ID] = group
	return group, nil
}

// AddGroup adds a group to the mock repository (helper for tests)
func (m *MockGroupRepository) AddGroup(group *domain.Group) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Groups[group.ID] = group
	if group.ID >= m.NextID {
		m.NextID = group.ID + 1
	}
}

// MockMemberRepository is a mock implementation of domain.MemberRepository
type MockMemberRepository struct {
	mu       sync.Mutex
	Members  map[int32]*domain.Member
	NextID   int32
	CreateFn func(member *domain.Member) (*domain.Member, error)
	ListFn   func(groupID int32) ([]*domain.Member, error)
}

func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{Members: make(map[int32]*domain.Member), NextID: 1}
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	return m.CreateTx(ctx, nil, member)
}

func (m *MockMemberRepository) CreateTx(ctx context.Context, tx interface{}, member *domain.Member) (*domain.Member, error) {
	if m.CreateFn != nil {
		return m.CreateFn(member)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Members {
		if existing.GroupID == member.GroupID && member.Email != "" && strings.EqualFold(existing.Email, member.Email) {
			return nil, domain.ErrAlreadyExists
		}
	}
	member.ID = m.NextID
	m.NextID++
	member.CreatedAt = time.Now()
	member.UpdatedAt = member.CreatedAt
	m.Members[member.ID] = member
	return member, nil
}

func (m *MockMemberRepository) GetByID(ctx context.Context, groupID int32, id int32) (*domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if member, ok := m.Members[id]; ok && member.GroupID == groupID {
		return member, nil
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockMemberRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.Members {
		if member.Auth0ID != nil && *member.Auth0ID == auth0ID {
			return member, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockMemberRepository) GetUnlinkedByEmail(ctx context.Context, email string) (*domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.sortedIDs() {
		member := m.Members[id]
		if !member.IsLinked() && strings.EqualFold(member.Email, email) {
			return member, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockMemberRepository) LinkAuth0ID(ctx context.Context, id int32, auth0ID string) (*domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	member, ok := m.Members[id]
	if !ok || member.IsLinked() {
		return nil, domain.ErrMemberNotFound
	}
	member.Auth0ID = &auth0ID
	return member, nil
}

func (m *MockMemberRepository) ListByGroup(ctx context.Context, groupID int32) ([]*domain.Member, error) {
	if m.ListFn != nil {
		return m.ListFn(groupID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Member
	for _, id := range m.sortedIDs() {
		if member := m.Members[id]; member.GroupID == groupID {
			out = append(out, member)
		}
	}
	return out, nil
}

func (m *MockMemberRepository) Update(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Members[member.ID]
	if !ok || existing.GroupID != member.GroupID {
		return nil, domain.ErrMemberNotFound
	}
	existing.Name = member.Name
	existing.Dedication = member.Dedication
	existing.UpdatedAt = time.Now()
	return existing, nil
}

func (m *MockMemberRepository) UpdatePicture(ctx context.Context, groupID int32, id int32, objectPath *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	member, ok := m.Members[id]
	if !ok || member.GroupID != groupID {
		return domain.ErrMemberNotFound
	}
	member.PictureObject = objectPath
	return nil
}

// AddMember adds a member to the mock repository (helper for tests)
func (m *MockMemberRepository) AddMember(member *domain.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Members[member.ID] = member
	if member.ID >= m.NextID {
		m.NextID = member.ID + 1
	}
}

func (m *MockMemberRepository) sortedIDs() []int32 {
	ids := make([]int32, 0, len(m.Members))
	for id := range m.Members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MockLoanRepository is a mock implementation of domain.LoanRepository
type MockLoanRepository struct {
	mu         sync.Mutex
	Loans      map[int32]*domain.Loan
	NextID     int32
	CreateFn   func(loan *domain.Loan) (*domain.Loan, error)
	ListFn     func(groupID int32, filter domain.LoanFilter) ([]*domain.Loan, error)
	StatusFn   func(groupID int32, id int32, status domain.LoanStatus) error
	StatusSets int
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{Loans: make(map[int32]*domain.Loan), NextID: 1}
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	if m.CreateFn != nil {
		return m.CreateFn(loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	loan.ID = m.NextID
	m.NextID++
	if loan.Status == "" {
		loan.Status = domain.LoanStatusActive
	}
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt
	m.Loans[loan.ID] = loan
	return loan, nil
}

func (m *MockLoanRepository) GetByID(ctx context.Context, groupID int32, id int32) (*domain.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if loan, ok := m.Loans[id]; ok && loan.GroupID == groupID {
		copied := *loan
		return &copied, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) GetForUpdateTx(ctx context.Context, tx interface{}, groupID int32, id int32) (*domain.Loan, error) {
	return m.GetByID(ctx, groupID, id)
}

func (m *MockLoanRepository) ListByGroup(ctx context.Context, groupID int32, filter domain.LoanFilter) ([]*domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(groupID, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Loan
	for _, loan := range m.Loans {
		if loan.GroupID != groupID {
			continue
		}
		if filter.MemberID != nil && loan.MemberID != *filter.MemberID {
			continue
		}
		if filter.Status != nil && loan.Status != *filter.Status {
			continue
		}
		copied := *loan
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockLoanRepository) UpdateStatusTx(ctx context.Context, tx interface{}, groupID int32, id int32, status domain.LoanStatus) error {
	if m.StatusFn != nil {
		return m.StatusFn(groupID, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.Loans[id]
	if !ok || loan.GroupID != groupID {
		return domain.ErrLoanNotFound
	}
	loan.Status = status
	m.StatusSets++
	return nil
}

// Snapshot implements Snapshotter
func (m *MockLoanRepository) Snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	loans := make(map[int32]domain.Loan, len(m.Loans))
	for id, loan := range m.Loans {
		loans[id] = *loan
	}
	nextID, statusSets := m.NextID, m.StatusSets
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.Loans = make(map[int32]*domain.Loan, len(loans))
		for id, loan := range loans {
			loan := loan
			m.Loans[id] = &loan
		}
		m.NextID, m.StatusSets = nextID, statusSets
	}
}

// AddLoan adds a loan to the mock repository (helper for tests)
func (m *MockLoanRepository) AddLoan(loan *domain.Loan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if loan.Status == "" {
		loan.Status = domain.LoanStatusActive
	}
	m.Loans[loan.ID] = loan
	if loan.ID >= m.NextID {
		m.NextID = loan.ID + 1
	}
}

// MockLoanRepaymentRepository keeps one entry per (loan, year, month), like the
// UNIQUE constraint on the table
type MockLoanRepaymentRepository struct {
	mu       sync.Mutex
	Entries  map[string]*domain.LoanRepayment
	NextID   int32
	LoanRepo *MockLoanRepository // resolves group ownership for ListByGroup
	UpsertFn func(entry *domain.LoanRepayment, mode domain.RepaymentMode) (*domain.LoanRepayment, error)
}

func NewMockLoanRepaymentRepository(loanRepo *MockLoanRepository) *MockLoanRepaymentRepository {
	return &MockLoanRepaymentRepository{
		Entries:  make(map[string]*domain.LoanRepayment),
		NextID:   1,
		LoanRepo: loanRepo,
	}
}

func repaymentKey(loanID, year, month int32) string {
	return fmt.Sprintf("%d-%04d-%02d", loanID, year, month)
}

func (m *MockLoanRepaymentRepository) UpsertTx(ctx context.Context, tx interface{}, entry *domain.LoanRepayment, mode domain.RepaymentMode) (*domain.LoanRepayment, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(entry, mode)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := repaymentKey(entry.LoanID, entry.DueYear, entry.DueMonth)
	now := time.Now()
	if existing, ok := m.Entries[key]; ok {
		if mode == domain.RepaymentModeTopUp {
			existing.Amount = existing.Amount.Add(entry.Amount)
		} else {
			existing.Amount = entry.Amount
		}
		existing.PaidAt = entry.PaidAt
		existing.UpdatedAt = now
		copied := *existing
		return &copied, nil
	}

	created := *entry
	created.ID = m.NextID
	m.NextID++
	created.CreatedAt = now
	created.UpdatedAt = now
	m.Entries[key] = &created
	copied := created
	return &copied, nil
}

func (m *MockLoanRepaymentRepository) ListByLoan(ctx context.Context, loanID int32) ([]*domain.LoanRepayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.LoanRepayment
	for _, e := range m.Entries {
		if e.LoanID == loanID {
			copied := *e
			out = append(out, &copied)
		}
	}
	sortRepayments(out)
	return out, nil
}

func (m *MockLoanRepaymentRepository) ListByLoanTx(ctx context.Context, tx interface{}, loanID int32) ([]*domain.LoanRepayment, error) {
	return m.ListByLoan(ctx, loanID)
}

func (m *MockLoanRepaymentRepository) ListByGroup(ctx context.Context, groupID int32) ([]*domain.LoanRepayment, error) {
	loans := map[int32]bool{}
	if m.LoanRepo != nil {
		m.LoanRepo.mu.Lock()
		for id, loan := range m.LoanRepo.Loans {
			if loan.GroupID == groupID {
				loans[id] = true
			}
		}
		m.LoanRepo.mu.Unlock()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.LoanRepayment
	for _, e := range m.Entries {
		if loans[e.LoanID] {
			copied := *e
			out = append(out, &copied)
		}
	}
	sortRepayments(out)
	return out, nil
}

// Count returns the number of ledger rows for a loan
func (m *MockLoanRepaymentRepository) Count(loanID int32) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Entries {
		if e.LoanID == loanID {
			n++
		}
	}
	return n
}

// Snapshot implements Snapshotter
func (m *MockLoanRepaymentRepository) Snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make(map[string]domain.LoanRepayment, len(m.Entries))
	for key, e := range m.Entries {
		entries[key] = *e
	}
	nextID := m.NextID
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.Entries = make(map[string]*domain.LoanRepayment, len(entries))
		for key, e := range entries {
			e := e
			m.Entries[key] = &e
		}
		m.NextID = nextID
	}
}

// AddEntry adds a ledger entry to the mock repository (helper for tests)
func (m *MockLoanRepaymentRepository) AddEntry(entry *domain.LoanRepayment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == 0 {
		entry.ID = m.NextID
		m.NextID++
	}
	m.Entries[repaymentKey(entry.LoanID, entry.DueYear, entry.DueMonth)] = entry
}

func sortRepayments(entries []*domain.LoanRepayment) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.LoanID != b.LoanID {
			return a.LoanID < b.LoanID
		}
		if a.DueYear != b.DueYear {
			return a.DueYear < b.DueYear
		}
		return a.DueMonth < b.DueMonth
	})
}

// MockContributionRepository keeps one contribution per (member, year, month)
type MockContributionRepository struct {
	mu            sync.Mutex
	Contributions map[string]*domain.MonthlyContribution
	NextID        int32
	MemberRepo    *MockMemberRepository // resolves group ownership for ListByGroup
	UpsertFn      func(c *domain.MonthlyContribution) (*domain.MonthlyContribution, error)
}

func NewMockContributionRepository(memberRepo *MockMemberRepository) *MockContributionRepository {
	return &MockContributionRepository{
		Contributions: make(map[string]*domain.MonthlyContribution),
		NextID:        1,
		MemberRepo:    memberRepo,
	}
}

func (m *MockContributionRepository) UpsertTx(ctx context.Context, tx interface{}, c *domain.MonthlyContribution) (*domain.MonthlyContribution, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%d-%04d-%02d", c.MemberID, c.Year, c.Month)
	now := time.Now()
	if existing, ok := m.Contributions[key]; ok {
		existing.Amount = c.Amount
		existing.PaidAt = c.PaidAt
		existing.UpdatedAt = now
		copied := *existing
		return &copied, nil
	}
	created := *c
	created.ID = m.NextID
	m.NextID++
	created.CreatedAt = now
	created.UpdatedAt = now
	m.Contributions[key] = &created
	copied := created
	return &copied, nil
}

func (m *MockContributionRepository) ListByGroup(ctx context.Context, groupID int32, filter domain.ContributionFilter) ([]*domain.MonthlyContribution, error) {
	members := map[int32]bool{}
	if m.MemberRepo != nil {
		m.MemberRepo.mu.Lock()
		for id, member := range m.MemberRepo.Members {
			if member.GroupID == groupID {
				members[id] = true
			}
		}
		m.MemberRepo.mu.Unlock()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.MonthlyContribution
	for _, c := range m.Contributions {
		if !members[c.MemberID] {
			continue
		}
		if filter.MemberID != nil && c.MemberID != *filter.MemberID {
			continue
		}
		if filter.Year != nil && c.Year != *filter.Year {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out, nil
}

// MockSettingsRepository is a mock implementation of domain.SettingsRepository
type MockSettingsRepository struct {
	mu       sync.Mutex
	Settings map[int32]*domain.Settings
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{Settings: make(map[int32]*domain.Settings)}
}

func (m *MockSettingsRepository) GetByGroup(ctx context.Context, groupID int32) (*domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Settings[groupID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrSettingsNotFound
}

func (m *MockSettingsRepository) UpsertTx(ctx context.Context, tx interface{}, settings *domain.Settings) (*domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if existing, ok := m.Settings[settings.GroupID]; ok {
		settings.CreatedAt = existing.CreatedAt
	} else {
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now
	copied := *settings
	m.Settings[settings.GroupID] = &copied
	return settings, nil
}

// MockAvatarStore is an in-memory object store
type MockAvatarStore struct {
	mu       sync.Mutex
	Objects  map[string][]byte
	UploadFn func(objectPath string) error
}

func NewMockAvatarStore() *MockAvatarStore {
	return &MockAvatarStore{Objects: make(map[string][]byte)}
}

func (m *MockAvatarStore) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadFn != nil {
		if err := m.UploadFn(objectPath); err != nil {
			return "", err
		}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[objectPath] = buf.Bytes()
	return objectPath, nil
}

func (m *MockAvatarStore) Delete(ctx context.Context, objectPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, objectPath)
	return nil
}

func (m *MockAvatarStore) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + objectPath + "?expires=" + expiry.String(), nil
}

// Paths returns the stored object paths in order
func (m *MockAvatarStore) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.Objects))
	for p := range m.Objects {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent is one recorded Publish call
type PublishedEvent struct {
	GroupID int32
	Event   websocket.Event
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(groupID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{GroupID: groupID, Event: event})
}

// Types returns the event types published so far, in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}
