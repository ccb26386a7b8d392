package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Universal commands every persona answers locally, without touching the
// generation backend. English forms are accepted as aliases.
var universalCommands = map[string]string{
	"/help":   "/ajuda",
	"/clear":  "/limpar",
	"/status": "/contexto",
}

// IsCommand reports whether a message is a slash command.
func IsCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

// HandleCommand executes a slash command against a persona. Universal
// commands are resolved in-process; persona-specific commands go through
// the generation backend as a regular ask.
func (m *Manager) HandleCommand(ctx context.Context, p Persona, command, userID, userName string) string {
	cmd := normalizeCommand(command)
	if canonical, ok := universalCommands[cmd]; ok {
		cmd = canonical
	}

	switch cmd {
	case "/ajuda":
		return m.helpText(p)
	case "/limpar":
		m.convos.Reset(p.Key(), userID)
		return fmt.Sprintf("🗑️ Histórico limpo! Começando conversa do zero com %s", p.DisplayName())
	case "/contexto":
		return fmt.Sprintf("📊 **Contexto %s:**\n\n💬 Mensagens no histórico: %d/%d\n🎯 Especialidades: %s",
			p.DisplayName(), m.convos.Len(p.Key(), userID), WindowSize, strings.Join(p.Specialties, ", "))
	}

	if desc, ok := p.Commands[cmd]; ok {
		prompt := fmt.Sprintf("O usuário solicitou o comando %s. %s", cmd, desc)
		return m.Ask(ctx, p, prompt, userID, userName)
	}

	return fmt.Sprintf("❓ Comando desconhecido. Use **@%s /ajuda** para ver comandos disponíveis.", p.Key())
}

func (m *Manager) helpText(p Persona) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📚 **Comandos do %s:**\n\n", p.DisplayName())

	specific := make([]string, 0, len(p.Commands))
	for cmd := range p.Commands {
		if cmd == "/ajuda" || cmd == "/limpar" || cmd == "/contexto" {
			continue
		}
		specific = append(specific, cmd)
	}
	sort.Strings(specific)

	for _, cmd := range []string{"/ajuda", "/limpar", "/contexto"} {
		fmt.Fprintf(&b, "**%s** - %s\n", cmd, p.Commands[cmd])
	}
	for _, cmd := range specific {
		fmt.Fprintf(&b, "**%s** - %s\n", cmd, p.Commands[cmd])
	}

	example := "/ajuda"
	if len(specific) > 0 {
		example = specific[0]
	}
	fmt.Fprintf(&b, "\n💡 _Exemplo: @%s %s sua pergunta_", p.Key(), example)
	return b.String()
}
