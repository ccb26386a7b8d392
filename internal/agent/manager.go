package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cleberfarias/chatia-core/internal/models"
)

// Generator produces a persona reply from its instructions and the
// conversation turns, oldest first. Implemented by internal/llm.
type Generator interface {
	Generate(ctx context.Context, instructions string, turns []models.Turn, temperature float64, maxTokens int) (string, error)
}

const (
	generateTimeout     = 30 * time.Second
	generateTemperature = 0.7
	generateMaxTokens   = 600
)

// Tone modes a user can pick for persona replies. The mode text is
// appended to the persona instructions at generation time.
var toneModes = map[string]string{
	"casual": `Seja super descontraído, use gírias, emojis frequentes e linguagem bem informal.
Fale como um amigo próximo em uma conversa de bar.`,
	"profissional": `Seja educado, formal mas ainda amigável. Use linguagem técnica quando apropriado.
Evite gírias excessivas. Mantenha tom respeitoso e corporativo, mas não robotizado.`,
	"tecnico": `Seja preciso, detalhado e técnico. Forneça explicações aprofundadas com terminologia adequada.
Use exemplos de código quando útil. Foque em precisão e completude das respostas.`,
}

var toneLabels = map[string]string{
	"casual":       "Casual 😎",
	"profissional": "Profissional 💼",
	"tecnico":      "Técnico 🔧",
}

const defaultTone = "casual"

// Manager runs persona conversations: it owns the history windows, the
// per-user tone preferences and the calls into the generation backend.
// A nil generator is valid and yields a not-configured reply, so the rest
// of the pipeline keeps working without credentials.
type Manager struct {
	gen    Generator
	convos *Conversations
	logger *slog.Logger

	prefMu sync.Mutex
	tones  map[string]string
}

func NewManager(gen Generator, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		gen:    gen,
		convos: NewConversations(),
		logger: logger,
		tones:  make(map[string]string),
	}
}

// Conversations exposes the history store for command handling.
func (m *Manager) Conversations() *Conversations {
	return m.convos
}

// Ask sends a user message to a persona and returns its reply. Failures
// never surface as errors: the persona answers with a user-facing notice
// and the history window is left untouched.
func (m *Manager) Ask(ctx context.Context, p Persona, message, userID, userName string) string {
	return m.ask(ctx, p, message, userID, userName, "")
}

// ask composes the generation request: context block (when present), then
// the history window, then the new contextualized message. Only the bare
// message and the reply ever land in the window.
func (m *Manager) ask(ctx context.Context, p Persona, message, userID, userName, contextBlock string) string {
	if m.gen == nil {
		return fmt.Sprintf("❌ %s não configurado. Configure as credenciais do provedor de IA.", p.Name)
	}

	w := m.convos.acquire(p.Key(), userID)
	w.mu.Lock()
	defer w.mu.Unlock()

	var turns []models.Turn
	if contextBlock != "" {
		turns = append(turns, models.Turn{Role: models.RoleUser, Content: contextBlock})
	}
	turns = append(turns, w.snapshot()...)
	turns = append(turns, models.Turn{
		Role:    models.RoleUser,
		Content: fmt.Sprintf("[Usuário: %s] %s", userName, message),
	})

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	start := time.Now()
	reply, err := m.gen.Generate(ctx, m.instructions(p, userID), turns, generateTemperature, generateMaxTokens)
	if err != nil {
		m.logger.Warn("persona generation failed",
			"persona", p.Key(),
			"user_id", userID,
			"duration", time.Since(start),
			"error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Sprintf("⏱️ %s demorou para responder. Tente novamente.", p.Name)
		}
		return fmt.Sprintf("❌ Erro: %s", err)
	}

	reply = strings.TrimSpace(reply)
	w.append(
		models.Turn{Role: models.RoleUser, Content: message},
		models.Turn{Role: models.RoleAssistant, Content: reply},
	)

	m.logger.Debug("persona replied",
		"persona", p.Key(),
		"user_id", userID,
		"duration", time.Since(start),
		"history_len", len(w.turns))
	return reply
}

const (
	contextPreamble = "Contexto recente da conversa na plataforma:"
	contextEpilogue = "--- fim do contexto ---"
)

// AskWithContext places recent platform messages between the persona
// instructions and the history window so the persona can answer about a
// conversation it did not take part in. The context block is never stored
// in the history window; only the bare question and the reply are.
func (m *Manager) AskWithContext(ctx context.Context, p Persona, message, userID, userName string, contextLines []string) string {
	if len(contextLines) == 0 {
		return m.Ask(ctx, p, message, userID, userName)
	}

	var b strings.Builder
	b.WriteString(contextPreamble)
	b.WriteByte('\n')
	for _, line := range contextLines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(contextEpilogue)
	b.WriteString("\nConsidere esse contexto ao responder.")

	return m.ask(ctx, p, message, userID, userName, b.String())
}

func (m *Manager) instructions(p Persona, userID string) string {
	tone := toneModes[m.Tone(userID)]
	if tone == "" {
		return p.Instructions
	}
	return p.Instructions + "\n\nESTILO ATUAL:\n" + tone
}

// SetTone switches the reply style for a user and returns the
// confirmation message shown in chat.
func (m *Manager) SetTone(userID, mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if _, ok := toneModes[mode]; !ok {
		return "❌ Modo inválido. Escolha: casual, profissional, tecnico"
	}
	m.prefMu.Lock()
	m.tones[userID] = mode
	m.prefMu.Unlock()
	return fmt.Sprintf("✅ Modo alterado para: %s", toneLabels[mode])
}

// Tone returns the current reply style for a user.
func (m *Manager) Tone(userID string) string {
	m.prefMu.Lock()
	defer m.prefMu.Unlock()
	if mode, ok := m.tones[userID]; ok {
		return mode
	}
	return defaultTone
}

// Summary renders a short recap of a persona conversation for the user.
func (m *Manager) Summary(p Persona, userID string) string {
	history := m.convos.History(p.Key(), userID)
	if len(history) == 0 {
		return "📭 Não há histórico de conversa ainda."
	}

	var userMsgs []models.Turn
	assistantCount := 0
	for _, turn := range history {
		switch turn.Role {
		case models.RoleUser:
			userMsgs = append(userMsgs, turn)
		case models.RoleAssistant:
			assistantCount++
		}
	}

	var b strings.Builder
	b.WriteString("📊 **Resumo da Conversa:**\n\n")
	fmt.Fprintf(&b, "💬 Total de mensagens: %d\n", len(history))
	fmt.Fprintf(&b, "❓ Suas perguntas: %d\n", len(userMsgs))
	fmt.Fprintf(&b, "💡 Minhas respostas: %d\n", assistantCount)

	if len(userMsgs) > 0 {
		b.WriteString("\n🔍 Últimos tópicos discutidos:\n")
		recent := userMsgs
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		for i, turn := range recent {
			preview := turn.Content
			if len([]rune(preview)) > 50 {
				preview = string([]rune(preview)[:50]) + "..."
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, preview)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
