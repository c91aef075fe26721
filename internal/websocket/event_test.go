package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{"loanId": 4, "month": "july"}

	before := time.Now().UTC()
	evt := NewEvent(EventTypeRecorded, EntityTypeLoanRepayment, payload)
	after := time.Now().UTC()

	assert.Equal(t, "loan_repayment.recorded", evt.Type)
	assert.Equal(t, EntityTypeLoanRepayment, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.False(t, evt.Timestamp.Before(before))
	assert.False(t, evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := Event{
		Type:      "contribution.recorded",
		Entity:    EntityTypeContribution,
		Payload:   map[string]interface{}{"memberId": float64(3), "amount": float64(20000)},
		Timestamp: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.True(t, evt.Timestamp.Equal(decoded.Timestamp))

	payload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(20000), payload["amount"])
}

func TestEventHelpers(t *testing.T) {
	payload := map[string]interface{}{"id": float64(1)}

	tests := []struct {
		name   string
		evt    Event
		typ    string
		entity EntityType
	}{
		{"LoanCreated", LoanCreated(payload), "loan.created", EntityTypeLoan},
		{"LoanPaid", LoanPaid(payload), "loan.paid", EntityTypeLoan},
		{"LoanRepaymentRecorded", LoanRepaymentRecorded(payload), "loan_repayment.recorded", EntityTypeLoanRepayment},
		{"ContributionRecorded", ContributionRecorded(payload), "contribution.recorded", EntityTypeContribution},
		{"SettingsUpdated", SettingsUpdated(payload), "settings.updated", EntityTypeSettings},
		{"MemberUpdated", MemberUpdated(payload), "member.updated", EntityTypeMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.evt.Type)
			assert.Equal(t, tt.entity, tt.evt.Entity)
			assert.Equal(t, payload, tt.evt.Payload)
		})
	}
}
