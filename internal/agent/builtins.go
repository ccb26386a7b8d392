package agent

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

type builtinSpec struct {
	Name                      string            `yaml:"name"`
	Emoji                     string            `yaml:"emoji"`
	Instructions              string            `yaml:"instructions"`
	Specialties               []string          `yaml:"specialties"`
	Commands                  map[string]string `yaml:"commands"`
	Aliases                   []string          `yaml:"aliases"`
	AllowsCalendarBooking     bool              `yaml:"allows_calendar_booking"`
	AllowsCalendarAutoBooking bool              `yaml:"allows_calendar_auto_booking"`
}

type builtinFile struct {
	Personas []builtinSpec `yaml:"personas"`
}

// Builtins returns the embedded persona catalogue. The result is freshly
// built on every call so callers can mutate their copy safely.
func Builtins() ([]Persona, error) {
	var file builtinFile
	if err := yaml.Unmarshal(builtinYAML, &file); err != nil {
		return nil, fmt.Errorf("parsing builtin personas: %w", err)
	}

	personas := make([]Persona, 0, len(file.Personas))
	for _, spec := range file.Personas {
		commands := map[string]string{
			"/ajuda":    fmt.Sprintf("Lista comandos do %s", spec.Name),
			"/limpar":   "Limpar histórico",
			"/contexto": "Ver status da conversa",
		}
		for cmd, desc := range spec.Commands {
			commands[normalizeCommand(cmd)] = desc
		}
		personas = append(personas, Persona{
			Name:                      spec.Name,
			Emoji:                     spec.Emoji,
			Instructions:              spec.Instructions,
			Specialties:               spec.Specialties,
			Commands:                  commands,
			Aliases:                   spec.Aliases,
			AllowsCalendarBooking:     spec.AllowsCalendarBooking,
			AllowsCalendarAutoBooking: spec.AllowsCalendarAutoBooking,
		})
	}
	return personas, nil
}
