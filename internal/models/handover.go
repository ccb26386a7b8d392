package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// HandoverReason explains why a conversation left automated handling.
type HandoverReason string

// Handover reasons.
const (
	ReasonExplicitRequest HandoverReason = "explicit_request"
	ReasonLowConfidence   HandoverReason = "low_confidence"
	ReasonComplaint       HandoverReason = "complaint"
	ReasonComplexQuery    HandoverReason = "complex_query"
	ReasonEscalation      HandoverReason = "escalation"
	ReasonTechnicalIssue  HandoverReason = "technical_issue"
	ReasonOutsideHours    HandoverReason = "outside_hours"
)

// HandoverStatus tracks a handover through its lifecycle.
type HandoverStatus string

// Handover statuses. Only StatusPending is ever produced by the automated
// core; all later transitions are driven by operator actions.
const (
	StatusPending    HandoverStatus = "pending"
	StatusAccepted   HandoverStatus = "accepted"
	StatusInProgress HandoverStatus = "in_progress"
	StatusResolved   HandoverStatus = "resolved"
	StatusCancelled  HandoverStatus = "cancelled"
	StatusTimeout    HandoverStatus = "timeout"
)

// Priority classes.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

// HandoverRequest is the record created when the handover engine fires.
type HandoverRequest struct {
	ID           surrealmodels.RecordID `json:"id"`
	CustomerID   string                 `json:"customer_id"`
	CustomerName string                 `json:"customer_name"`
	ContactID    string                 `json:"contact_id"`
	Reason       HandoverReason         `json:"reason"`
	Status       HandoverStatus         `json:"status"`
	Priority     int                    `json:"priority"`

	LastMessages []Message         `json:"last_messages"`
	Entities     map[string]Entity `json:"entities"`
	IntentName   string            `json:"intent_name,omitempty"`
	Confidence   float64           `json:"confidence"`
	Department   string            `json:"department,omitempty"`

	CreatedAt       time.Time  `json:"created_at"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	AssignedAgentID *string    `json:"assigned_agent_id,omitempty"`

	Tags  []string `json:"tags,omitempty"`
	Notes string   `json:"notes,omitempty"`
}
