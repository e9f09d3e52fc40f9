package models

// NotificationPayload is the asynq task body for a queued notification.
type NotificationPayload struct {
	Notification Notification `json:"notification"`
}

// IntegrityViolation describes two non-cancelled missions that overlap.
type IntegrityViolation struct {
	ProviderID string   `json:"providerId"`
	Date       string   `json:"date"`
	MissionA   string   `json:"missionA"`
	MissionB   string   `json:"missionB"`
	Times      []string `json:"times"`
}
