package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/service"
	"github.com/dafibh/kikoba/kikoba-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type loanFixture struct {
	members    *testutil.MockMemberRepository
	loans      *testutil.MockLoanRepository
	repayments *testutil.MockLoanRepaymentRepository
	handler    *LoanHandler
}

func newLoanFixture() *loanFixture {
	members := testutil.NewMockMemberRepository()
	members.AddMember(&domain.Member{ID: 1, GroupID: 1, Name: "Asha"})
	members.AddMember(&domain.Member{ID: 2, GroupID: 2, Name: "Outsider"})
	loans := testutil.NewMockLoanRepository()
	repayments := testutil.NewMockLoanRepaymentRepository(loans)
	return &loanFixture{
		members:    members,
		loans:      loans,
		repayments: repayments,
		handler:    NewLoanHandler(service.NewLoanService(loans, members, repayments)),
	}
}

// newJSONContext builds an echo context for a JSON request made by member 1 of group 1
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupMemberContext(c, "auth0|asha", "asha@example.com", "Asha", 1, 1)
	return c, rec
}

func newFormContext(method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupMemberContext(c, "auth0|asha", "asha@example.com", "Asha", 1, 1)
	return c, rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem: %v", err)
	}
	return problem
}

func TestCreateLoan_Success(t *testing.T) {
	f := newLoanFixture()

	reqBody := `{
		"memberId": 1,
		"amount": "1500000",
		"issueDate": "2024-06-10",
		"notes": "School fees"
	}`
	c, rec := newJSONContext(http.MethodPost, "/api/v1/loans", reqBody)

	if err := f.handler.CreateLoan(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response LoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.MonthsForRepayment != 3 {
		t.Errorf("Expected 3 months, got %d", response.MonthsForRepayment)
	}
	if response.MonthlyRepaymentAmount != 500000 {
		t.Errorf("Expected monthly repayment 500000, got %d", response.MonthlyRepaymentAmount)
	}
	if strings.Join(response.RepaymentMonths, ",") != "june,july,august" {
		t.Errorf("Expected june,july,august, got %v", response.RepaymentMonths)
	}
	if response.IssueDate != "2024-06-10" {
		t.Errorf("Expected issue date 2024-06-10, got %s", response.IssueDate)
	}
	if response.Status != "active" {
		t.Errorf("Expected status active, got %s", response.Status)
	}
}

func TestCreateLoan_NumericAmountRoundsInstallmentUp(t *testing.T) {
	f := newLoanFixture()

	c, rec := newJSONContext(http.MethodPost, "/api/v1/loans", `{"memberId": 1, "amount": 1000001, "issueDate": "2024-06-01"}`)

	if err := f.handler.CreateLoan(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response LoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.MonthlyRepaymentAmount != 333334 {
		t.Errorf("Expected monthly repayment 333334, got %d", response.MonthlyRepaymentAmount)
	}
}

func TestCreateLoan_FormBody(t *testing.T) {
	f := newLoanFixture()

	c, rec := newFormContext(http.MethodPost, "/api/v1/loans", url.Values{
		"memberId":  {"1"},
		"amount":    {"250000"},
		"issueDate": {"2024-12-05"},
	})

	if err := f.handler.CreateLoan(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.loans.Loans) != 1 {
		t.Errorf("Expected 1 stored loan, got %d", len(f.loans.Loans))
	}
}

func TestCreateLoan_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"bad date", `{"memberId": 1, "amount": "1000", "issueDate": "10/06/2024"}`, http.StatusBadRequest, "issueDate"},
		{"missing date", `{"memberId": 1, "amount": "1000"}`, http.StatusBadRequest, "issueDate"},
		{"zero amount", `{"memberId": 1, "amount": "0", "issueDate": "2024-06-10"}`, http.StatusBadRequest, "amount"},
		{"negative amount", `{"memberId": 1, "amount": "-5", "issueDate": "2024-06-10"}`, http.StatusBadRequest, "amount"},
		{"not a number", `{"memberId": 1, "amount": "lots", "issueDate": "2024-06-10"}`, http.StatusBadRequest, ""},
		{"missing member", `{"amount": "1000", "issueDate": "2024-06-10"}`, http.StatusBadRequest, "memberId"},
		{"notes too long", `{"memberId": 1, "amount": "1000", "issueDate": "2024-06-10", "notes": "` + strings.Repeat("x", domain.MaxNotesLength+1) + `"}`, http.StatusBadRequest, "notes"},
		{"member of another group", `{"memberId": 2, "amount": "1000", "issueDate": "2024-06-10"}`, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLoanFixture()
			c, rec := newJSONContext(http.MethodPost, "/api/v1/loans", tt.body)

			if err := f.handler.CreateLoan(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("Expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if len(f.loans.Loans) != 0 {
				t.Errorf("Expected no stored loan, got %d", len(f.loans.Loans))
			}

			if tt.field != "" {
				problem := decodeProblem(t, rec)
				if len(problem.Errors) == 0 || problem.Errors[0].Field != tt.field {
					t.Errorf("Expected error on field %s, got %+v", tt.field, problem.Errors)
				}
			}
		})
	}
}

func TestPreviewLoan(t *testing.T) {
	f := newLoanFixture()

	c, rec := newJSONContext(http.MethodPost, "/api/v1/loans/preview", `{"amount": "2000000", "issueDate": "2024-11-20"}`)

	if err := f.handler.PreviewLoan(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response PreviewLoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.MonthsForRepayment != 4 || response.MonthlyRepaymentAmount != 500000 {
		t.Errorf("Expected 4 x 500000, got %d x %d", response.MonthsForRepayment, response.MonthlyRepaymentAmount)
	}
	if strings.Join(response.DueMonths, ",") != "2024-11,2024-12,2025-01,2025-02" {
		t.Errorf("Unexpected due months %v", response.DueMonths)
	}
	if response.Total != 2000000 {
		t.Errorf("Expected total 2000000, got %d", response.Total)
	}
	if len(f.loans.Loans) != 0 {
		t.Error("Preview must not store a loan")
	}
}

func TestGetLoan_Detail(t *testing.T) {
	f := newLoanFixture()
	f.loans.AddLoan(&domain.Loan{
		ID: 1, GroupID: 1, MemberID: 1,
		Amount:                 decimal.NewFromInt(1500000),
		IssueDate:              time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		MonthsForRepayment:     3,
		MonthlyRepaymentAmount: decimal.NewFromInt(500000),
	})
	f.repayments.AddEntry(&domain.LoanRepayment{LoanID: 1, DueYear: 2024, DueMonth: 6, Amount: decimal.NewFromInt(500000)})
	f.repayments.AddEntry(&domain.LoanRepayment{LoanID: 1, DueYear: 2024, DueMonth: 7, Amount: decimal.NewFromInt(200000)})

	c, rec := newJSONContext(http.MethodGet, "/api/v1/loans/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := f.handler.GetLoan(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response LoanDetailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.MemberName != "Asha" {
		t.Errorf("Expected member name Asha, got %s", response.MemberName)
	}
	if response.TotalPaid != 700000 || response.RemainingAmount != 800000 {
		t.Errorf("Expected paid 700000 remaining 800000, got %d and %d", response.TotalPaid, response.RemainingAmount)
	}
	if len(response.Schedule) != 3 {
		t.Fatalf("Expected 3 schedule slots, got %d", len(response.Schedule))
	}
	statuses := []string{response.Schedule[0].Status, response.Schedule[1].Status, response.Schedule[2].Status}
	if strings.Join(statuses, ",") != "paid,partial,unpaid" {
		t.Errorf("Expected paid,partial,unpaid, got %v", statuses)
	}
	if response.Repayments["july"] != 200000 {
		t.Errorf("Expected 200000 recorded for july, got %d", response.Repayments["july"])
	}
}

func TestGetLoan_OtherGroup(t *testing.T) {
	f := newLoanFixture()
	f.loans.AddLoan(&domain.Loan{ID: 5, GroupID: 2, MemberID: 2, Amount: decimal.NewFromInt(1000), IssueDate: time.Now(), MonthsForRepayment: 1, MonthlyRepaymentAmount: decimal.NewFromInt(1000)})

	c, rec := newJSONContext(http.MethodGet, "/api/v1/loans/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := f.handler.GetLoan(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetLoans_Filters(t *testing.T) {
	f := newLoanFixture()
	f.loans.AddLoan(&domain.Loan{ID: 1, GroupID: 1, MemberID: 1, Amount: decimal.NewFromInt(1000), IssueDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), MonthsForRepayment: 1, MonthlyRepaymentAmount: decimal.NewFromInt(1000)})
	f.loans.AddLoan(&domain.Loan{ID: 2, GroupID: 1, MemberID: 1, Amount: decimal.NewFromInt(1000), IssueDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), MonthsForRepayment: 1, MonthlyRepaymentAmount: decimal.NewFromInt(1000), Status: domain.LoanStatusPaid})

	c, rec := newJSONContext(http.MethodGet, "/api/v1/loans", "")
	if err := f.handler.GetLoans(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var all []LoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(all) != 2 || all[0].ID != 2 {
		t.Errorf("Expected newest loan first, got %+v", all)
	}

	c, rec = newJSONContext(http.MethodGet, "/api/v1/loans?status=active", "")
	if err := f.handler.GetLoans(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var active []LoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &active); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(active) != 1 || active[0].ID != 1 {
		t.Errorf("Expected only loan 1, got %+v", active)
	}

	c, rec = newJSONContext(http.MethodGet, "/api/v1/loans?status=overdue", "")
	if err := f.handler.GetLoans(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
