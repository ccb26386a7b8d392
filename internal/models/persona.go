package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// PersonaRecord is the persisted shape of a persona. Custom personas are
// keyed by (user_id, normalized name); built-in personas have an empty
// user_id. A Persona value is always constructed from a record through the
// agent package's validated factory, never assembled ad hoc.
type PersonaRecord struct {
	ID           surrealmodels.RecordID `json:"id"`
	UserID       string                 `json:"user_id,omitempty"`
	Key          string                 `json:"key,omitempty"`
	Name         string                 `json:"name"`
	Emoji        string                 `json:"emoji,omitempty"`
	Instructions string                 `json:"instructions"`
	Specialties  []string               `json:"specialties,omitempty"`
	Commands     map[string]string      `json:"commands,omitempty"`

	AllowsCalendarBooking     bool `json:"allows_calendar_booking"`
	AllowsCalendarAutoBooking bool `json:"allows_calendar_auto_booking"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
