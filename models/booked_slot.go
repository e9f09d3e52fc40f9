package models

import "time"

// BookedSlot is one row of the slot ledger: a single 30 minute slot of a
// provider on a date, owned by a non-cancelled mission. The ledger carries a
// unique index on (providerId, date, time) so concurrent inserts for the same
// slot cannot both succeed.
type BookedSlot struct {
	ProviderID string    `bson:"providerId" json:"providerId"`
	Date       string    `bson:"date" json:"date"`
	Time       string    `bson:"time" json:"time"`
	MissionID  string    `bson:"missionId" json:"missionId"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
