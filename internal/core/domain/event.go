package domain

import "time"

// AuthEventType names an entry of the authentication audit trail.
type AuthEventType string

const (
	EventLoginSucceeded AuthEventType = "login_succeeded"
	EventLoginFailed    AuthEventType = "login_failed"
	EventRegistered     AuthEventType = "registered"
	EventUserCreated    AuthEventType = "user_created"
	EventTokenRefreshed AuthEventType = "token_refreshed"
	EventLoggedOut      AuthEventType = "logged_out"
	EventActiveChanged  AuthEventType = "active_changed"
)

// AuthEvent records something that happened to an account.
type AuthEvent struct {
	ID         string        `json:"id" bson:"event_id"`
	Type       AuthEventType `json:"type" bson:"type"`
	UserID     string        `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Email      string        `json:"email" bson:"email"`
	ActorID    string        `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	Reason     string        `json:"reason,omitempty" bson:"reason,omitempty"`
	RemoteIP   string        `json:"remote_ip,omitempty" bson:"remote_ip,omitempty"`
	OccurredAt time.Time     `json:"occurred_at" bson:"occurred_at"`
}
