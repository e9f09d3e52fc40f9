package notification

import (
	"fmt"
	"strings"
	"time"

	"carebook/models"
)

// Render produces the push title and body for a template.
func Render(n models.Notification) (string, string) {
	when := strings.TrimSpace(n.Data["date"] + " " + n.Data["start"])
	service := n.Data["serviceName"]
	if service == "" {
		service = "your mission"
	}

	switch n.Template {
	case TemplateMissionBooked:
		if n.Recipient.Role == models.RoleProvider {
			return "New booking", fmt.Sprintf("%s was booked for %s.", service, when)
		}
		return "Booking received", fmt.Sprintf("%s on %s is waiting for the provider to accept.", service, when)
	case TemplateMissionAssigned:
		return "Booking accepted", fmt.Sprintf("Your provider accepted %s on %s.", service, when)
	case TemplateMissionCompleted:
		return "Mission completed", fmt.Sprintf("The customer marked %s on %s as completed.", service, when)
	case TemplateMissionPaidOut:
		return "Payout sent", fmt.Sprintf("Your payout of %s %s is on its way.", n.Data["amount"], strings.ToUpper(n.Data["currency"]))
	case TemplateMissionCancelled:
		return "Mission cancelled", fmt.Sprintf("%s on %s was cancelled.", service, when)
	case TemplateStatusOverridden:
		return "Mission updated", fmt.Sprintf("Support changed the status of %s to %s.", service, n.Data["status"])
	case TemplatePayoutFailed:
		return "Payout delayed", "We could not send your payout yet. We will retry shortly."
	default:
		return "Carebook", "You have a new update."
	}
}

// ForMission builds the notification for one recipient of a mission event.
func ForMission(template string, recipient models.Recipient, m *models.Mission, now time.Time) models.Notification {
	data := map[string]string{
		"missionId":   m.ID,
		"serviceName": m.ServiceName,
		"date":        m.Date,
		"status":      string(m.Status),
	}
	if len(m.Times) > 0 {
		data["start"] = m.Times[0]
	}
	if template == TemplateMissionPaidOut {
		data["amount"] = fmt.Sprintf("%.2f", m.ProviderPayout)
		data["currency"] = m.Currency
	}
	return models.Notification{Recipient: recipient, Template: template, Data: data, CreatedAt: now}
}
