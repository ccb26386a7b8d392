// Package db provides SurrealDB query functions for personas, handovers
// and message history.
package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/cleberfarias/chatia-core/internal/handover"
	"github.com/cleberfarias/chatia-core/internal/models"
)

// PersonaStore exposes persona persistence. Satisfies the agent package's
// PersonaStore interface.
type PersonaStore struct{ c *Client }

// Personas returns the persona store view of the client.
func (c *Client) Personas() *PersonaStore {
	return &PersonaStore{c: c}
}

// LoadByUser returns all custom personas owned by a user.
func (s *PersonaStore) LoadByUser(ctx context.Context, userID string) ([]models.PersonaRecord, error) {
	results, err := surrealdb.Query[[]models.PersonaRecord](ctx, s.c.db, `
		SELECT * FROM persona WHERE user_id = $user_id ORDER BY key
	`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("load personas: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.PersonaRecord{}, nil
	}
	return (*results)[0].Result, nil
}

// Upsert creates or replaces a custom persona, keyed by (user_id, key).
func (s *PersonaStore) Upsert(ctx context.Context, rec models.PersonaRecord) error {
	commands := map[string]any{}
	for cmd, desc := range rec.Commands {
		commands[cmd] = desc
	}
	specialties := rec.Specialties
	if specialties == nil {
		specialties = []string{}
	}

	_, err := surrealdb.Query[any](ctx, s.c.db, `
		UPSERT persona SET
			user_id = $user_id,
			key = $key,
			name = $name,
			emoji = $emoji,
			instructions = $instructions,
			specialties = $specialties,
			commands = $commands,
			allows_calendar_booking = $booking,
			allows_calendar_auto_booking = $auto_booking,
			updated_at = time::now()
		WHERE user_id = $user_id AND key = $key
	`, map[string]any{
		"user_id":      rec.UserID,
		"key":          rec.Key,
		"name":         rec.Name,
		"emoji":        rec.Emoji,
		"instructions": rec.Instructions,
		"specialties":  specialties,
		"commands":     commands,
		"booking":      rec.AllowsCalendarBooking,
		"auto_booking": rec.AllowsCalendarAutoBooking,
	})
	if err != nil {
		return fmt.Errorf("upsert persona: %w", wrapQueryError(err))
	}
	return nil
}

// Delete removes a custom persona. Deleting a missing persona is not an
// error.
func (s *PersonaStore) Delete(ctx context.Context, userID, key string) error {
	_, err := surrealdb.Query[any](ctx, s.c.db, `
		DELETE persona WHERE user_id = $user_id AND key = $key
	`, map[string]any{"user_id": userID, "key": key})
	if err != nil {
		return fmt.Errorf("delete persona: %w", wrapQueryError(err))
	}
	return nil
}

// HandoverStore exposes handover persistence. Satisfies the handover
// package's Repository interface.
type HandoverStore struct{ c *Client }

// Handovers returns the handover store view of the client.
func (c *Client) Handovers() *HandoverStore {
	return &HandoverStore{c: c}
}

// CreateHandover persists a new handover request.
func (s *HandoverStore) CreateHandover(ctx context.Context, req models.HandoverRequest) error {
	entities := map[string]any{}
	for name, entity := range req.Entities {
		entities[name] = map[string]any{
			"type":  entity.Type,
			"value": entity.Value,
			"valid": entity.Valid,
		}
	}

	_, err := surrealdb.Query[any](ctx, s.c.db, `
		CREATE $id SET
			customer_id = $customer_id,
			customer_name = $customer_name,
			contact_id = $contact_id,
			reason = $reason,
			status = $status,
			priority = $priority,
			department = $department,
			intent_name = $intent_name,
			confidence = $confidence,
			entities = $entities,
			summary = $summary,
			notes = $notes,
			tags = $tags,
			created_at = $created_at
	`, map[string]any{
		"id":            req.ID,
		"customer_id":   req.CustomerID,
		"customer_name": req.CustomerName,
		"contact_id":    req.ContactID,
		"reason":        string(req.Reason),
		"status":        string(req.Status),
		"priority":      req.Priority,
		"department":    req.Department,
		"intent_name":   req.IntentName,
		"confidence":    req.Confidence,
		"entities":      entities,
		"summary":       handover.Summary(req),
		"notes":         req.Notes,
		"tags":          append([]string{}, req.Tags...),
		"created_at":    req.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("create handover: %w", wrapQueryError(err))
	}
	return nil
}

// UpdateStatus moves a handover through its state machine, rejecting
// transitions the machine does not allow.
func (s *HandoverStore) UpdateStatus(ctx context.Context, id string, to models.HandoverStatus) error {
	current, err := s.getStatus(ctx, id)
	if err != nil {
		return err
	}
	if err := handover.Transition(current, to); err != nil {
		return err
	}

	set := "status = $status"
	switch to {
	case models.StatusAccepted:
		set += ", accepted_at = time::now()"
	case models.StatusResolved, models.StatusCancelled, models.StatusTimeout:
		set += ", resolved_at = time::now()"
	}

	_, err = surrealdb.Query[any](ctx, s.c.db,
		fmt.Sprintf(`UPDATE type::record("handover", $id) SET %s`, set),
		map[string]any{"id": id, "status": string(to)})
	if err != nil {
		return fmt.Errorf("update handover status: %w", wrapQueryError(err))
	}
	return nil
}

func (s *HandoverStore) getStatus(ctx context.Context, id string) (models.HandoverStatus, error) {
	results, err := surrealdb.Query[[]struct {
		Status models.HandoverStatus `json:"status"`
	}](ctx, s.c.db, `
		SELECT status FROM type::record("handover", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return "", fmt.Errorf("get handover status: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return "", fmt.Errorf("%w: handover %s", ErrNotFound, id)
	}
	return (*results)[0].Result[0].Status, nil
}

// ListPending returns open handovers, most urgent first.
func (s *HandoverStore) ListPending(ctx context.Context) ([]models.HandoverRequest, error) {
	results, err := surrealdb.Query[[]models.HandoverRequest](ctx, s.c.db, `
		SELECT * FROM handover WHERE status = "pending"
		ORDER BY priority DESC, created_at ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list pending handovers: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.HandoverRequest{}, nil
	}
	return (*results)[0].Result, nil
}

// MessageStore exposes chat message persistence used for
// cross-conversation context injection.
type MessageStore struct{ c *Client }

// Messages returns the message store view of the client.
func (c *Client) Messages() *MessageStore {
	return &MessageStore{c: c}
}

// Record stores a chat message.
func (s *MessageStore) Record(ctx context.Context, msg models.Message) error {
	_, err := surrealdb.Query[any](ctx, s.c.db, `
		CREATE message SET
			user_id = $user_id,
			contact_id = $contact_id,
			author = $author,
			text = $text,
			created_at = time::now()
	`, map[string]any{
		"user_id":    msg.UserID,
		"contact_id": msg.ContactID,
		"author":     msg.Author,
		"text":       msg.Text,
	})
	if err != nil {
		return fmt.Errorf("record message: %w", wrapQueryError(err))
	}
	return nil
}

// FetchContext returns the latest messages exchanged between a user and a
// contact within the lookback window, formatted oldest first as
// "[HH:MM] Author: text" lines for prompt injection.
func (s *MessageStore) FetchContext(ctx context.Context, userID, contactID string, limit, hoursBack int) ([]string, error) {
	results, err := surrealdb.Query[[]models.Message](ctx, s.c.db, `
		SELECT * FROM message
		WHERE ((user_id = $user_id AND contact_id = $contact_id)
			OR (user_id = $contact_id AND contact_id = $user_id))
			AND created_at > time::now() - duration::from::hours($hours)
		ORDER BY created_at DESC
		LIMIT $limit
	`, map[string]any{
		"user_id":    userID,
		"contact_id": contactID,
		"hours":      hoursBack,
		"limit":      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch context: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []string{}, nil
	}

	messages := (*results)[0].Result
	lines := make([]string, 0, len(messages))
	// query returns newest first, prompts want chronological order
	for i := len(messages) - 1; i >= 0; i-- {
		lines = append(lines, FormatContextLine(messages[i]))
	}
	return lines, nil
}

// FormatContextLine renders one message as a context line for prompts.
func FormatContextLine(msg models.Message) string {
	return fmt.Sprintf("[%s] %s: %s", msg.CreatedAt.Local().Format("15:04"), msg.Author, msg.Text)
}
