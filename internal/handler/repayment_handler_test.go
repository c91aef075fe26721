package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/service"
	"github.com/dafibh/kikoba/kikoba-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// newRepaymentHandler seeds loan 1 of group 1: 1500000 issued June 2024, 3 x 500000
func newRepaymentHandler() (*RepaymentHandler, *testutil.MockLoanRepository, *testutil.MockLoanRepaymentRepository) {
	loans := testutil.NewMockLoanRepository()
	loans.AddLoan(&domain.Loan{
		ID: 1, GroupID: 1, MemberID: 1,
		Amount:                 decimal.NewFromInt(1500000),
		IssueDate:              time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		MonthsForRepayment:     3,
		MonthlyRepaymentAmount: decimal.NewFromInt(500000),
	})
	loans.AddLoan(&domain.Loan{
		ID: 2, GroupID: 2, MemberID: 9,
		Amount:                 decimal.NewFromInt(100000),
		IssueDate:              time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		MonthsForRepayment:     1,
		MonthlyRepaymentAmount: decimal.NewFromInt(100000),
	})
	repayments := testutil.NewMockLoanRepaymentRepository(loans)
	svc := service.NewRepaymentService(testutil.NewMockTransactor(), loans, repayments)
	return NewRepaymentHandler(svc), loans, repayments
}

func withLoanID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func decodeRecordResponse(t *testing.T, body []byte) RecordRepaymentResponse {
	t.Helper()
	var response RecordRepaymentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return response
}

func TestRecordRepayment_ByMonthName(t *testing.T) {
	handler, _, repayments := newRepaymentHandler()

	c, rec := newJSONContext(http.MethodPost, "/api/v1/loans/1/repayments", `{"month": "June", "amount": 500000}`)
	if err := handler.RecordRepayment(withLoanID(c, "1")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	response := decodeRecordResponse(t, rec.Body.Bytes())
	if response.Repayment.Month != "june" || response.Repayment.DueMonth != "2024-06" {
		t.Errorf("Expected june 2024-06, got %s %s", response.Repayment.Month, response.Repayment.DueMonth)
	}
	if response.TotalPaid != 500000 || response.RemainingAmount != 1000000 {
		t.Errorf("Expected paid 500000 remaining 1000000, got %d and %d", response.TotalPaid, response.RemainingAmount)
	}
	if response.LoanStatus != "active" || response.BecamePaid {
		t.Errorf("Expected loan to stay active, got %s (becamePaid=%v)", response.LoanStatus, response.BecamePaid)
	}
	if repayments.Count(1) != 1 {
		t.Errorf("Expected 1 ledger entry, got %d", repayments.Count(1))
	}
}

func TestRecordRepayment_FormBodyReplacesMonth(t *testing.T) {
	handler, _, repayments := newRepaymentHandler()

	for _, amount := range []string{"500000", "300000"} {
		c, rec := newFormContext(http.MethodPost, "/api/v1/loans/1/repayments", url.Values{
			"month":  {"2024-07"},
			"amount": {amount},
		})
		if err := handler.RecordRepayment(withLoanID(c, "1")); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	if repayments.Count(1) != 1 {
		t.Fatalf("Expected 1 ledger entry, got %d", repayments.Count(1))
	}

	c, rec := newJSONContext(http.MethodGet, "/api/v1/loans/1/repayments", "")
	if err := handler.GetRepayments(withLoanID(c, "1")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var entries []RepaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(entries) != 1 || entries[0].Amount != 300000 {
		t.Errorf("Expected a single 300000 entry, got %+v", entries)
	}
}

func TestTopUpRepayment_AddsToMonth(t *testing.T) {
	handler, _, _ := newRepaymentHandler()

	c, _ := newJSONContext(http.MethodPost, "/api/v1/loans/1/repayments", `{"month": "august", "amount": "200000"}`)
	if err := handler.RecordRepayment(withLoanID(c, "1")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	c, rec := newJSONContext(http.MethodPost, "/api/v1/loans/1/repayments/top-up", `{"month": "august", "amount": "150000"}`)
	if err := handler.TopUpRepayment(withLoanID(c, "1")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	response := decodeRecordResponse(t, rec.Body.Bytes())
	if response.Repayment.Amount != 350000 {
		t.Errorf("Expected august to hold 350000, got %d", response.Repayment.Amount)
	}
	if response.TotalPaid != 350000 {
		t.Errorf("Expected total paid 350000, got %d", response.TotalPaid)
	}
}

func TestRecordRepayment_FullRepaymentMarksPaid(t *testing.T) {
	handler, loans, _ := newRepaymentHandler()

	var response RecordRepaymentResponse
	for _, month := range []string{"june", "july", "august"} {
		c, rec := newJSONContext(http.MethodPost, "/api/v1/loans/1/repayments", `{"month": "`+month+`", "amount": "500000"}`)
		if err := handler.RecordRepayment(withLoanID(c, "1")); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		response = decodeRecordResponse(t, rec.Body.Bytes())
	}

	if response.LoanStatus != "paid" || !response.BecamePaid {
		t.Errorf("Expected the last payment to mark the loan paid, got %+v", response)
	}
	if response.RemainingAmount != 0 {
		t.Errorf("Expected nothing remaining, got %d", response.RemainingAmount)
	}
	if loans.Loans[1].Status != domain.LoanStatusPaid {
		t.Errorf("Expected stored status paid, got %s", loans.Loans[1].Status)
	}
}

func TestRecordRepayment_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		loanID string
		body   string
		status int
		field  string
	}{
		{"month outside schedule", "1", `{"month": "september", "amount": "1000"}`, http.StatusBadRequest, "month"},
		{"unscheduled year", "1", `{"month": "2025-06", "amount": "1000"}`, http.StatusBadRequest, "month"},
		{"missing month", "1", `{"amount": "1000"}`, http.StatusBadRequest, "month"},
		{"zero amount", "1", `{"month": "june", "amount": "0"}`, http.StatusBadRequest, "amount"},
		{"bad amount", "1", `{"month": "june"}`, http.StatusBadRequest, "amount"},
		{"bad loan id", "abc", `{"month": "june", "amount": "1000"}`, http.StatusBadRequest, "id"},
		{"unknown loan", "99", `{"month": "june", "amount": "1000"}`, http.StatusNotFound, ""},
		{"loan of another group", "2", `{"month": "june", "amount": "1000"}`, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, repayments := newRepaymentHandler()

			c, rec := newJSONContext(http.MethodPost, "/api/v1/loans/"+tt.loanID+"/repayments", tt.body)
			if err := handler.RecordRepayment(withLoanID(c, tt.loanID)); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("Expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if repayments.Count(1) != 0 || repayments.Count(2) != 0 {
				t.Error("Expected no ledger entry to be written")
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

func TestGetRepayments_OtherGroup(t *testing.T) {
	handler, _, _ := newRepaymentHandler()

	c, rec := newJSONContext(http.MethodGet, "/api/v1/loans/2/repayments", "")
	if err := handler.GetRepayments(withLoanID(c, "2")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
