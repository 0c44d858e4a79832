package models

// AuthEvent is published to Kafka when an account-level action happens.
type AuthEvent struct {
	EventID   string `json:"event_id"`  // Unique event identifier
	Timestamp int64  `json:"timestamp"` // Unix timestamp of the action
	UserID    string `json:"user_id"`   // Affected user
	Action    string `json:"action"`    // registered, logged_in, logged_out, password_changed
}
