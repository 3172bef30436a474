package models

import "time"

type Team struct {
	ID           int       `json:"id"`
	Nome         string    `json:"nome"`
	OwnerID      int       `json:"OwnerId"`
	Icon         string    `json:"icon"`
	Pilotos      []int     `json:"pilotos"`
	JoinRequests []int     `json:"joinRequests"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasPilot reports whether the user is on the roster. The owner is tracked
// separately and is not listed in pilotos.
func (t *Team) HasPilot(userID int) bool {
	for _, id := range t.Pilotos {
		if id == userID {
			return true
		}
	}
	return false
}

// HasJoinRequest reports whether the user already has a pending request.
func (t *Team) HasJoinRequest(userID int) bool {
	for _, id := range t.JoinRequests {
		if id == userID {
			return true
		}
	}
	return false
}
