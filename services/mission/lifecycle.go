package mission

import "carebook/models"

// allowedTransitions lists every move a normal (non-override) action may
// make. Cancelled and paid_out have no way out except an admin override.
var allowedTransitions = map[models.MissionStatus][]models.MissionStatus{
	models.StatusPending:             {models.StatusAssigned, models.StatusCancelled},
	models.StatusAssigned:            {models.StatusCompletedByCustomer, models.StatusCancelled},
	models.StatusCompletedByCustomer: {models.StatusPaidOut, models.StatusCancelled},
}

func canTransition(from, to models.MissionStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Actions accepted by Transition.
const (
	ActionAccept   = "accept"
	ActionComplete = "complete"
	ActionCancel   = "cancel"
)
