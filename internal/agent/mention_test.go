package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinsForTest(t *testing.T) []Persona {
	t.Helper()
	personas, err := Builtins()
	require.NoError(t, err)
	return personas
}

func TestDetectMention(t *testing.T) {
	personas := builtinsForTest(t)

	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"@guru como faço um loop?", "guru", true},
		{"@GURU me ajuda", "guru", true},
		{"  @salespro preciso de um pitch", "salespro", true},
		{"@dr meu contrato foi quebrado", "dradvocatus", true},
		{"@advogado e agora?", "dradvocatus", true},
		{"@terapeuta estou ansioso", "mindcare", true},
		{"@doutora estou com febre", "drhealth", true},
		{"bom dia pessoal", "", false},
		{"meu email é guru@empresa.com", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			p, ok := DetectMention(tt.text, personas)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, p.Key())
			}
		})
	}
}

func TestDetectMentionPrefersKeyOverAlias(t *testing.T) {
	personas := builtinsForTest(t)
	// a custom persona keyed "dr" must win over Dr. Advocatus' "@dr" alias
	custom := Persona{Name: "DR", Instructions: "x"}
	p, ok := DetectMention("@dr oi", append([]Persona{custom}, personas...))
	require.True(t, ok)
	assert.Equal(t, "dr", p.Key())
}

func TestCleanMention(t *testing.T) {
	personas := builtinsForTest(t)
	guru, ok := DetectMention("@guru, como ordeno um slice?", personas)
	require.True(t, ok)

	assert.Equal(t, "como ordeno um slice?", CleanMention("@guru, como ordeno um slice?", guru))
	assert.Equal(t, "como ordeno um slice?", CleanMention("@guru: como ordeno um slice?", guru))
	assert.Equal(t, "como ordeno um slice?", CleanMention("@guru como ordeno um slice?", guru))

	advocatus, ok := DetectMention("@advogado fui demitido", personas)
	require.True(t, ok)
	assert.Equal(t, "fui demitido", CleanMention("@advogado fui demitido", advocatus))

	// unrelated text passes through
	assert.Equal(t, "sem menção aqui", CleanMention("sem menção aqui", guru))
}
