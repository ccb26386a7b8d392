package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Turn is a single role-tagged exchange entry sent to the generation backend.
// Role is "user" or "assistant".
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Roles for Turn.Content attribution.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a persisted chat message between a user and a contact.
type Message struct {
	ID        surrealmodels.RecordID `json:"id"`
	UserID    string                 `json:"user_id"`
	ContactID string                 `json:"contact_id"`
	Author    string                 `json:"author"`
	Text      string                 `json:"text"`
	CreatedAt time.Time              `json:"created_at"`
}
