package missionRepo

import (
	"testing"

	"carebook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDecodeMissionCanonical(t *testing.T) {
	raw, err := bson.Marshal(models.Mission{
		ID:         "m-1",
		UserID:     "cust-1",
		ProviderID: "prov-1",
		Date:       "2026-11-02",
		Times:      []string{"09:00", "09:30"},
		Status:     models.StatusAssigned,
		PaymentRef: "pi_1",
	})
	require.NoError(t, err)

	m, err := decodeMission(raw)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, m.Status)
	assert.Equal(t, []string{"09:00", "09:30"}, m.Times)
	assert.Equal(t, "pi_1", m.PaymentRef)
}

func TestDecodeMissionLegacyFields(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"id":                    "m-legacy",
		"customerId":            "cust-9",
		"providerId":            "prov-9",
		"selectedDate":          "2026-11-03",
		"selectedTimes":         bson.A{"10:30", "10:00"},
		"stripePaymentIntentId": "pi_old",
		"stripeAccountId":       "acct_old",
		"transferId":            "tr_old",
		"status":                "Paid",
	})
	require.NoError(t, err)

	m, err := decodeMission(raw)
	require.NoError(t, err)
	assert.Equal(t, "cust-9", m.UserID)
	assert.Equal(t, "2026-11-03", m.Date)
	assert.Equal(t, []string{"10:00", "10:30"}, m.Times)
	assert.Equal(t, "pi_old", m.PaymentRef)
	assert.Equal(t, "acct_old", m.PayoutAccountRef)
	assert.Equal(t, "tr_old", m.TransferRef)
	assert.Equal(t, models.StatusPaidOut, m.Status)
}

func TestDecodeMissionSingleSlotAndBookingDate(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"id":          "m-slot",
		"bookingDate": "2026-11-04",
		"slot":        "14:00",
		"status":      "canceled",
	})
	require.NoError(t, err)

	m, err := decodeMission(raw)
	require.NoError(t, err)
	assert.Equal(t, "2026-11-04", m.Date)
	assert.Equal(t, []string{"14:00"}, m.Times)
	assert.Equal(t, models.StatusCancelled, m.Status)
}

func TestDecodeMissionRejectsUnknownStatus(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"id": "m-bad", "status": "in_progress"})
	require.NoError(t, err)

	_, err = decodeMission(raw)
	assert.Error(t, err)
}

func TestDecodeMissionRejectsMissingStatus(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"id": "m-none"})
	require.NoError(t, err)

	_, err = decodeMission(raw)
	assert.Error(t, err)
}

func TestCASFilterMatchesStoredLegacyStatus(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"id":            "m-legacy",
		"providerId":    "prov-9",
		"selectedDate":  "2026-11-03",
		"selectedTimes": bson.A{"10:00"},
		"status":        "Completed",
	})
	require.NoError(t, err)

	m, err := decodeMission(raw)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompletedByCustomer, m.Status)

	filter := casFilter("m-legacy", raw)
	assert.Equal(t, bson.M{"id": "m-legacy", "status": "Completed"}, filter)
	assert.NotEqual(t, string(m.Status), filter["status"])
}

func TestCASFilterCanonicalStatus(t *testing.T) {
	raw, err := bson.Marshal(models.Mission{ID: "m-1", Status: models.StatusAssigned})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"id": "m-1", "status": "assigned"}, casFilter("m-1", raw))
}
