package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleberfarias/chatia-core/internal/models"
)

// testLogger creates a logger for test visibility.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type fakeGenerator struct {
	mu           sync.Mutex
	reply        string
	err          error
	instructions string
	turns        []models.Turn
	calls        int
}

func (f *fakeGenerator) Generate(ctx context.Context, instructions string, turns []models.Turn, temperature float64, maxTokens int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.instructions = instructions
	f.turns = append([]models.Turn(nil), turns...)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testPersona(t *testing.T) Persona {
	t.Helper()
	p, err := NewPersona(models.PersonaRecord{
		Name:         "Guru",
		Emoji:        "🧠",
		Instructions: "Você é o Guru.",
		Specialties:  []string{"Programação", "Debugging"},
		Commands:     map[string]string{"/codigo": "Gera exemplo de código"},
	})
	require.NoError(t, err)
	return p
}

func TestManagerAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("without generator", func(t *testing.T) {
		m := NewManager(nil, testLogger())
		reply := m.Ask(ctx, testPersona(t), "oi", "u1", "Ana")
		assert.Contains(t, reply, "❌ Guru não configurado")
		assert.Equal(t, 0, m.Conversations().Len("guru", "u1"))
	})

	t.Run("contextualizes the outgoing turn", func(t *testing.T) {
		gen := &fakeGenerator{reply: "Olá, Ana!"}
		m := NewManager(gen, testLogger())

		reply := m.Ask(ctx, testPersona(t), "como faço um loop?", "u1", "Ana")
		require.Equal(t, "Olá, Ana!", reply)

		require.NotEmpty(t, gen.turns)
		last := gen.turns[len(gen.turns)-1]
		assert.Equal(t, models.RoleUser, last.Role)
		assert.Equal(t, "[Usuário: Ana] como faço um loop?", last.Content)
		assert.Contains(t, gen.instructions, "Você é o Guru.")
	})

	t.Run("stores the bare message, not the contextualized one", func(t *testing.T) {
		gen := &fakeGenerator{reply: "resposta"}
		m := NewManager(gen, testLogger())

		m.Ask(ctx, testPersona(t), "pergunta simples", "u1", "Ana")

		history := m.Conversations().History("guru", "u1")
		require.Len(t, history, 2)
		assert.Equal(t, "pergunta simples", history[0].Content)
		assert.Equal(t, models.RoleUser, history[0].Role)
		assert.Equal(t, "resposta", history[1].Content)
		assert.Equal(t, models.RoleAssistant, history[1].Role)
	})

	t.Run("prior turns reach the generator", func(t *testing.T) {
		gen := &fakeGenerator{reply: "ok"}
		m := NewManager(gen, testLogger())
		p := testPersona(t)

		m.Ask(ctx, p, "primeira", "u1", "Ana")
		m.Ask(ctx, p, "segunda", "u1", "Ana")

		// history (2 turns) plus the new contextualized message
		require.Len(t, gen.turns, 3)
		assert.Equal(t, "primeira", gen.turns[0].Content)
		assert.Equal(t, "ok", gen.turns[1].Content)
	})

	t.Run("timeout yields notice and leaves history alone", func(t *testing.T) {
		gen := &fakeGenerator{err: context.DeadlineExceeded}
		m := NewManager(gen, testLogger())

		reply := m.Ask(ctx, testPersona(t), "oi", "u1", "Ana")
		assert.Equal(t, "⏱️ Guru demorou para responder. Tente novamente.", reply)
		assert.Equal(t, 0, m.Conversations().Len("guru", "u1"))
	})

	t.Run("backend error yields notice and leaves history alone", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("boom")}
		m := NewManager(gen, testLogger())

		reply := m.Ask(ctx, testPersona(t), "oi", "u1", "Ana")
		assert.Contains(t, reply, "❌ Erro: boom")
		assert.Equal(t, 0, m.Conversations().Len("guru", "u1"))
	})
}

func TestManagerAskWithContext(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{reply: "resumo pronto"}
	m := NewManager(gen, testLogger())
	p := testPersona(t)

	// seed the window so the composition order is observable
	m.Ask(ctx, p, "mensagem anterior", "u1", "Ana")

	lines := []string{
		"[10:02] João: o deploy falhou de novo",
		"[10:03] Maria: o log aponta timeout no banco",
	}
	reply := m.AskWithContext(ctx, p, "o que aconteceu?", "u1", "Ana", lines)
	require.Equal(t, "resumo pronto", reply)

	// context block first, then the window, then the new message
	require.Len(t, gen.turns, 4)
	block := gen.turns[0].Content
	assert.Contains(t, block, contextPreamble)
	assert.Contains(t, block, "João: o deploy falhou")
	assert.Contains(t, block, contextEpilogue)
	assert.Equal(t, "mensagem anterior", gen.turns[1].Content)
	assert.Equal(t, "[Usuário: Ana] o que aconteceu?", gen.turns[3].Content)

	// only the bare question lands in the window
	history := m.Conversations().History("guru", "u1")
	require.Len(t, history, 4)
	assert.Equal(t, "o que aconteceu?", history[2].Content)
	for _, turn := range history {
		assert.NotContains(t, turn.Content, contextPreamble)
		assert.NotContains(t, turn.Content, contextEpilogue)
	}

	t.Run("no lines falls back to plain ask", func(t *testing.T) {
		m.AskWithContext(ctx, p, "pergunta direta", "u2", "Ana", nil)
		sent := gen.turns[len(gen.turns)-1].Content
		assert.Equal(t, "[Usuário: Ana] pergunta direta", sent)
	})
}

func TestManagerTones(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{reply: "ok"}
	m := NewManager(gen, testLogger())
	p := testPersona(t)

	assert.Equal(t, "casual", m.Tone("u1"))

	msg := m.SetTone("u1", "tecnico")
	assert.Contains(t, msg, "Técnico")
	assert.Equal(t, "tecnico", m.Tone("u1"))

	m.Ask(ctx, p, "oi", "u1", "Ana")
	assert.Contains(t, gen.instructions, "ESTILO ATUAL:")
	assert.Contains(t, gen.instructions, "preciso, detalhado e técnico")

	assert.Contains(t, m.SetTone("u1", "robô"), "❌ Modo inválido")
	assert.Equal(t, "tecnico", m.Tone("u1"))
}

func TestManagerSummary(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{reply: "ok"}
	m := NewManager(gen, testLogger())
	p := testPersona(t)

	assert.Equal(t, "📭 Não há histórico de conversa ainda.", m.Summary(p, "u1"))

	for i := 0; i < 4; i++ {
		m.Ask(ctx, p, fmt.Sprintf("pergunta número %d", i), "u1", "Ana")
	}

	summary := m.Summary(p, "u1")
	assert.Contains(t, summary, "Total de mensagens: 8")
	assert.Contains(t, summary, "Suas perguntas: 4")
	assert.Contains(t, summary, "Minhas respostas: 4")
	// only the last 3 questions are previewed
	assert.NotContains(t, summary, "pergunta número 0")
	assert.Contains(t, summary, "pergunta número 3")
}
