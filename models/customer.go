package models

// Customer is the subset of a customer profile the booking engine reads.
type Customer struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	FCMToken string `bson:"fcmToken,omitempty" json:"-"`
}
