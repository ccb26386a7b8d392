package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleberfarias/chatia-core/internal/models"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Guru", "guru"},
		{"Dr. Advocatus", "dradvocatus"},
		{"Sales Pro", "salespro"},
		{"  MindCare  ", "mindcare"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.name))
	}
}

func TestNewPersona(t *testing.T) {
	t.Run("requires name", func(t *testing.T) {
		_, err := NewPersona(models.PersonaRecord{Instructions: "faz coisas"})
		require.Error(t, err)
	})

	t.Run("requires instructions", func(t *testing.T) {
		_, err := NewPersona(models.PersonaRecord{Name: "Bot"})
		require.Error(t, err)
	})

	t.Run("merges default commands", func(t *testing.T) {
		p, err := NewPersona(models.PersonaRecord{
			Name:         "Chef",
			Emoji:        "👨‍🍳",
			Instructions: "Você é um chef.",
			Commands:     map[string]string{"receita": "Sugere uma receita", "/Vinho": "Sugere um vinho"},
		})
		require.NoError(t, err)

		assert.Contains(t, p.Commands, "/ajuda")
		assert.Contains(t, p.Commands, "/limpar")
		assert.Contains(t, p.Commands, "/contexto")
		// record commands are slash-prefixed and lowercased
		assert.Equal(t, "Sugere uma receita", p.Commands["/receita"])
		assert.Equal(t, "Sugere um vinho", p.Commands["/vinho"])
	})

	t.Run("display name", func(t *testing.T) {
		p, err := NewPersona(models.PersonaRecord{Name: "Chef", Emoji: "👨‍🍳", Instructions: "x"})
		require.NoError(t, err)
		assert.Equal(t, "Chef 👨‍🍳", p.DisplayName())

		plain, err := NewPersona(models.PersonaRecord{Name: "Chef", Instructions: "x"})
		require.NoError(t, err)
		assert.Equal(t, "Chef", plain.DisplayName())
	})
}

func TestBuiltins(t *testing.T) {
	personas, err := Builtins()
	require.NoError(t, err)
	require.NotEmpty(t, personas)

	byKey := make(map[string]Persona)
	for _, p := range personas {
		byKey[p.Key()] = p
	}

	require.Contains(t, byKey, "guru")
	require.Contains(t, byKey, "dradvocatus")
	require.Contains(t, byKey, "salespro")
	require.Contains(t, byKey, "drhealth")
	require.Contains(t, byKey, "mindcare")
	require.Contains(t, byKey, "sdr")

	guru := byKey["guru"]
	assert.Equal(t, "🧠", guru.Emoji)
	assert.Contains(t, guru.Instructions, "Guru")
	assert.Contains(t, guru.Commands, "/codigo")
	assert.Contains(t, guru.Commands, "/ajuda")
	assert.False(t, guru.AllowsCalendarBooking)

	sdr := byKey["sdr"]
	assert.True(t, sdr.AllowsCalendarBooking)
	assert.True(t, sdr.AllowsCalendarAutoBooking)

	assert.Contains(t, byKey["dradvocatus"].Aliases, "advogado")
}
