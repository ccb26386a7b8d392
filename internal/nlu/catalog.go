// Package nlu classifies free-text messages into intents.
//
// Two interchangeable strategies exist: local keyword scoring (always
// available, deterministic) and a remote LLM classifier that falls back to
// the local strategy on any failure.
package nlu

import "github.com/cleberfarias/chatia-core/internal/models"

// IntentSpec describes one intent in a catalogue: the keywords that signal
// it and the persona/action suggested when it wins.
type IntentSpec struct {
	Name     string
	Keywords []string
	Persona  string
	Action   string
}

// FallbackPersona answers customer messages that match no intent.
const FallbackPersona = "guru"

// customerIntents is the catalogue for customer-authored messages.
//
// Catalogue order is significant: when two intents score the same keyword
// hit count, the first one declared here wins. That tie-break is a defined
// rule, not an accident of map iteration.
var customerIntents = []IntentSpec{
	{
		Name:     "greeting",
		Keywords: []string{"olá", "oi", "bom dia", "boa tarde", "boa noite", "hey", "opa"},
		Action:   "greet_customer",
	},
	{
		Name: "purchase",
		Keywords: []string{
			"quero comprar", "preciso comprar", "quanto custa", "preço",
			"valor", "orçamento", "produto", "vender",
		},
		Persona: "vendedor",
		Action:  "start_purchase_flow",
	},
	{
		Name: "scheduling",
		Keywords: []string{
			"agendar", "marcar", "reunião", "meeting", "consulta",
			"horário disponível", "agenda", "disponibilidade",
		},
		Persona: "sdr",
		Action:  "start_scheduling_flow",
	},
	{
		Name: "legal",
		Keywords: []string{
			"advogado", "jurídico", "contrato", "processo", "ação judicial",
			"direito", "lei", "legal",
		},
		Persona: "advogado",
		Action:  "forward_to_legal",
	},
	{
		Name: "technical_support",
		Keywords: []string{
			"erro", "bug", "não funciona", "problema técnico", "código",
			"programação", "sistema caiu", "travou",
		},
		Persona: "tech",
		Action:  "start_support_ticket",
	},
	{
		Name: "complaint",
		Keywords: []string{
			"reclamação", "reclamar", "insatisfeito", "péssimo", "ruim",
			"problema", "defeito", "não gostei", "decepcionado",
		},
		Persona: "supervisor",
		Action:  "escalate_to_supervisor",
	},
	{
		Name:     "cancel",
		Keywords: []string{"cancelar", "desistir", "não quero mais", "remover pedido"},
		Persona:  "vendedor",
		Action:   "cancel_order",
	},
	{
		Name: "human_handover",
		Keywords: []string{
			"falar com humano", "atendente", "pessoa real", "humano",
			"transferir", "não entendi",
		},
		Action: "handover_to_human",
	},
}

// operatorIntents is the catalogue for operator-authored messages.
var operatorIntents = []IntentSpec{
	{
		Name:     "search_info",
		Keywords: []string{"@guru", "buscar", "informação sobre", "consultar", "verificar"},
		Action:   "query_bot",
	},
	{
		Name:     "create_order",
		Keywords: []string{"criar pedido", "registrar venda", "novo pedido", "fechar venda"},
		Action:   "create_order",
	},
	{
		Name:     "check_status",
		Keywords: []string{"status", "andamento", "verificar pedido", "acompanhar"},
		Action:   "check_order_status",
	},
	{
		Name:     "schedule_meeting",
		Keywords: []string{"agendar reunião", "marcar meeting", "agendar demo"},
		Action:   "schedule_with_calendar",
	},
	{
		Name:     "escalate",
		Keywords: []string{"escalar", "supervisor", "gerente", "urgente"},
		Action:   "escalate",
	},
}

// Catalogue returns the intent set for the given speaker.
func Catalogue(speaker models.Speaker) []IntentSpec {
	if speaker == models.SpeakerOperator {
		return operatorIntents
	}
	return customerIntents
}

// lookupSpec finds an intent by name within a catalogue.
func lookupSpec(catalogue []IntentSpec, name string) (IntentSpec, bool) {
	for _, spec := range catalogue {
		if spec.Name == name {
			return spec, true
		}
	}
	return IntentSpec{}, false
}

// responseTemplates maps intents to canned reply suggestions shown to human
// operators.
var responseTemplates = map[string]string{
	"greeting":          "Olá! Como posso ajudar você hoje?",
	"purchase":          "Ótimo! Vou ajudar com sua compra. Qual produto te interessa?",
	"scheduling":        "Vou verificar os horários disponíveis. Qual seria o melhor dia/horário para você?",
	"legal":             "Entendo sua questão jurídica. Vou conectar você com nosso departamento legal.",
	"technical_support": "Vou ajudar a resolver seu problema técnico. Pode descrever o erro em mais detalhes?",
	"complaint":         "Lamento pelo problema. Vou transferir para nosso supervisor resolver isso com prioridade.",
	"cancel":            "Entendo que deseja cancelar. Pode me informar o número do pedido?",
}

// SuggestTemplate returns a canned reply suggestion for an intent.
func SuggestTemplate(intent models.Intent) string {
	if tpl, ok := responseTemplates[intent.Name]; ok {
		return tpl
	}
	return "Como posso ajudar?"
}
