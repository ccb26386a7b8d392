// Package agent implements the persona conversation manager: named
// automated personas with their own instructions, commands and bounded
// per-user conversational memory.
package agent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cleberfarias/chatia-core/internal/models"
)

// Persona is an automated conversational identity. Immutable after
// construction; conversational state lives in Conversations, never here.
type Persona struct {
	Name         string
	Emoji        string
	Instructions string
	Specialties  []string
	Commands     map[string]string
	Aliases      []string

	// Calendar capability flags consumed by the calendar collaborator.
	// This package stores them and never interprets them.
	AllowsCalendarBooking     bool
	AllowsCalendarAutoBooking bool
}

var slugRe = regexp.MustCompile(`[^a-z0-9]`)

// Slug normalizes a persona name into its registry key.
func Slug(name string) string {
	return slugRe.ReplaceAllString(strings.ToLower(name), "")
}

// NewPersona builds a Persona from a persistence record, validating the
// fields a persona cannot function without. Records never become personas
// any other way.
func NewPersona(rec models.PersonaRecord) (Persona, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return Persona{}, fmt.Errorf("persona name is required")
	}
	if strings.TrimSpace(rec.Instructions) == "" {
		return Persona{}, fmt.Errorf("persona %q has no instructions", name)
	}

	commands := map[string]string{
		"/ajuda":    fmt.Sprintf("Lista comandos do %s", name),
		"/limpar":   "Limpar histórico",
		"/contexto": "Ver status da conversa",
	}
	for cmd, desc := range rec.Commands {
		commands[normalizeCommand(cmd)] = desc
	}

	return Persona{
		Name:                      name,
		Emoji:                     rec.Emoji,
		Instructions:              rec.Instructions,
		Specialties:               append([]string(nil), rec.Specialties...),
		Commands:                  commands,
		AllowsCalendarBooking:     rec.AllowsCalendarBooking,
		AllowsCalendarAutoBooking: rec.AllowsCalendarAutoBooking,
	}, nil
}

func normalizeCommand(cmd string) string {
	cmd = strings.ToLower(strings.TrimSpace(cmd))
	if !strings.HasPrefix(cmd, "/") {
		cmd = "/" + cmd
	}
	return cmd
}

// Key returns the registry key for this persona.
func (p Persona) Key() string {
	return Slug(p.Name)
}

// DisplayName returns the persona name with its emoji for chat display.
func (p Persona) DisplayName() string {
	if p.Emoji == "" {
		return p.Name
	}
	return p.Name + " " + p.Emoji
}
