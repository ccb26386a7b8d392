package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCommand(t *testing.T) {
	assert.True(t, IsCommand("/ajuda"))
	assert.True(t, IsCommand("  /limpar"))
	assert.False(t, IsCommand("ajuda"))
	assert.False(t, IsCommand("meio /comando"))
}

func TestHandleCommand(t *testing.T) {
	ctx := context.Background()
	p := testPersona(t)

	t.Run("help lists commands", func(t *testing.T) {
		m := NewManager(&fakeGenerator{reply: "ok"}, testLogger())
		out := m.HandleCommand(ctx, p, "/ajuda", "u1", "Ana")
		assert.Contains(t, out, "Comandos do Guru 🧠")
		assert.Contains(t, out, "/codigo")
		assert.Contains(t, out, "/limpar")
		assert.Contains(t, out, "Exemplo: @guru")
	})

	t.Run("clear resets only this conversation", func(t *testing.T) {
		m := NewManager(&fakeGenerator{reply: "ok"}, testLogger())
		m.Ask(ctx, p, "oi", "u1", "Ana")
		m.Ask(ctx, p, "oi", "u2", "Bia")

		out := m.HandleCommand(ctx, p, "/limpar", "u1", "Ana")
		assert.Contains(t, out, "🗑️ Histórico limpo!")
		assert.Equal(t, 0, m.Conversations().Len("guru", "u1"))
		assert.Equal(t, 2, m.Conversations().Len("guru", "u2"))
	})

	t.Run("status reports window usage", func(t *testing.T) {
		m := NewManager(&fakeGenerator{reply: "ok"}, testLogger())
		m.Ask(ctx, p, "oi", "u1", "Ana")

		out := m.HandleCommand(ctx, p, "/contexto", "u1", "Ana")
		assert.Contains(t, out, "Mensagens no histórico: 2/10")
		assert.Contains(t, out, "Programação, Debugging")
	})

	t.Run("english aliases map to universal commands", func(t *testing.T) {
		m := NewManager(&fakeGenerator{reply: "ok"}, testLogger())
		m.Ask(ctx, p, "oi", "u1", "Ana")

		assert.Contains(t, m.HandleCommand(ctx, p, "/help", "u1", "Ana"), "Comandos do Guru")
		assert.Contains(t, m.HandleCommand(ctx, p, "/status", "u1", "Ana"), "Mensagens no histórico")
		assert.Contains(t, m.HandleCommand(ctx, p, "/clear", "u1", "Ana"), "Histórico limpo")
	})

	t.Run("persona command goes through the generator", func(t *testing.T) {
		gen := &fakeGenerator{reply: "aqui está o código"}
		m := NewManager(gen, testLogger())

		out := m.HandleCommand(ctx, p, "/codigo", "u1", "Ana")
		assert.Equal(t, "aqui está o código", out)

		require.NotEmpty(t, gen.turns)
		sent := gen.turns[len(gen.turns)-1].Content
		assert.Contains(t, sent, "O usuário solicitou o comando /codigo.")
		assert.Contains(t, sent, "Gera exemplo de código")
	})

	t.Run("unknown command", func(t *testing.T) {
		m := NewManager(&fakeGenerator{reply: "ok"}, testLogger())
		out := m.HandleCommand(ctx, p, "/dança", "u1", "Ana")
		assert.Contains(t, out, "❓ Comando desconhecido")
		assert.Contains(t, out, "@guru /ajuda")
	})

	t.Run("universal commands work without generator", func(t *testing.T) {
		m := NewManager(nil, testLogger())
		assert.Contains(t, m.HandleCommand(ctx, p, "/ajuda", "u1", "Ana"), "Comandos do Guru")
	})
}
