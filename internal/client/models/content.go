package models

import "time"

// Alert is a lost/found pet alert owned by a user.
type Alert struct {
	ID          string    `json:"_id"`
	Owner       string    `json:"owner"`
	Type        string    `json:"type,omitempty"`
	PetName     string    `json:"petName,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Comment is a comment left by a user on an alert.
type Comment struct {
	ID        string    `json:"_id"`
	User      string    `json:"user"`
	Alert     string    `json:"alert,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
