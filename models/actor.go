package models

// Actor is whoever triggers a lifecycle action.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"` // RoleCustomer, RoleProvider or RoleAdmin
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// TransitionRequest is the payload for a normal lifecycle action.
type TransitionRequest struct {
	Action string `json:"action" binding:"required"` // "accept", "complete" or "cancel"
}

// AdminOverrideRequest is the payload for an admin status override.
type AdminOverrideRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"required"`
}

// PayoutCallback is posted by the payout gateway when a transfer settles.
type PayoutCallback struct {
	MissionID   string `json:"missionId" binding:"required"`
	TransferRef string `json:"transferRef" binding:"required"`
}
