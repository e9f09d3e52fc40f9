package missionRepo

import (
	"fmt"
	"strings"

	"carebook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// legacyMission captures the field names older clients wrote before the
// mission record was made canonical. Only decodeMission reads them.
type legacyMission struct {
	CustomerID            string   `bson:"customerId"`
	SelectedDate          string   `bson:"selectedDate"`
	BookingDate           string   `bson:"bookingDate"`
	SelectedTimes         []string `bson:"selectedTimes"`
	TimeSlots             []string `bson:"timeSlots"`
	Slot                  string   `bson:"slot"`
	StripePaymentIntentID string   `bson:"stripePaymentIntentId"`
	StripeAccountID       string   `bson:"stripeAccountId"`
	TransferID            string   `bson:"transferId"`
	Status                string   `bson:"status"`
}

var legacyStatuses = map[string]models.MissionStatus{
	"paid":                models.StatusPaidOut,
	"paidout":             models.StatusPaidOut,
	"completed":           models.StatusCompletedByCustomer,
	"completedbycustomer": models.StatusCompletedByCustomer,
	"canceled":            models.StatusCancelled,
}

// decodeMission decodes a stored document into the canonical record,
// filling gaps from legacy field names. Unknown statuses are rejected.
func decodeMission(raw bson.Raw) (*models.Mission, error) {
	var m models.Mission
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode mission: %w", err)
	}
	var legacy legacyMission
	if err := bson.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("decode legacy mission fields: %w", err)
	}
	if err := applyLegacy(&m, legacy); err != nil {
		return nil, err
	}
	return &m, nil
}

func applyLegacy(m *models.Mission, legacy legacyMission) error {
	if m.UserID == "" {
		m.UserID = legacy.CustomerID
	}
	if m.Date == "" {
		m.Date = firstNonEmpty(legacy.SelectedDate, legacy.BookingDate)
	}
	if len(m.Times) == 0 {
		switch {
		case len(legacy.SelectedTimes) > 0:
			m.Times = legacy.SelectedTimes
		case len(legacy.TimeSlots) > 0:
			m.Times = legacy.TimeSlots
		case legacy.Slot != "":
			m.Times = []string{legacy.Slot}
		}
	}
	models.SortTimeLabels(m.Times)

	if m.PaymentRef == "" {
		m.PaymentRef = legacy.StripePaymentIntentID
	}
	if m.PayoutAccountRef == "" {
		m.PayoutAccountRef = legacy.StripeAccountID
	}
	if m.TransferRef == "" {
		m.TransferRef = legacy.TransferID
	}

	status, err := normalizeStatus(legacy.Status)
	if err != nil {
		return fmt.Errorf("mission %s: %w", m.ID, err)
	}
	m.Status = status
	return nil
}

func normalizeStatus(s string) (models.MissionStatus, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if st, err := models.ParseMissionStatus(key); err == nil {
		return st, nil
	}
	compact := strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	if st, ok := legacyStatuses[compact]; ok {
		return st, nil
	}
	return models.ParseMissionStatus(s)
}

// casFilter selects the mission only while its status field still holds
// the value that was read, legacy spelling included. decodeMission has
// already rejected documents without a string status.
func casFilter(id string, raw bson.Raw) bson.M {
	stored, _ := raw.Lookup("status").StringValueOK()
	return bson.M{"id": id, "status": stored}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
