package models

import "time"

// Notification is a user-visible notice. Permanent notices are standing
// disclaimers that survive clear-all and never age out of the list.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	Permanent bool      `json:"permanent,omitempty"`
}
