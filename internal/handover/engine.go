// Package handover decides when a conversation must leave automated
// handling, how urgent that transfer is, and which human queue receives it.
package handover

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cleberfarias/chatia-core/internal/models"
	"github.com/google/uuid"
)

// Repository persists handover requests. The automated core only ever
// writes the initial pending record; later status transitions are driven by
// the operator-facing API layer.
type Repository interface {
	CreateHandover(ctx context.Context, req models.HandoverRequest) error
}

// Thresholds for the handover decision.
const (
	lowConfidence     = 0.3
	longConversation  = 10
	unresolvedCeiling = 0.6
	generalCeiling    = 0.5
)

// ShouldHandover evaluates the transfer rules in fixed priority order and
// returns the first matching reason. The order is part of the contract:
// explicit request beats complaint beats confidence checks.
func ShouldHandover(intentName string, confidence float64, entities map[string]models.Entity, conversationLength int) (bool, models.HandoverReason) {
	switch {
	case intentName == "human_handover":
		return true, models.ReasonExplicitRequest
	case intentName == "complaint":
		return true, models.ReasonComplaint
	case confidence < lowConfidence:
		return true, models.ReasonLowConfidence
	case conversationLength > longConversation && confidence < unresolvedCeiling:
		return true, models.ReasonComplexQuery
	case intentName == models.GeneralIntent && confidence < generalCeiling:
		return true, models.ReasonLowConfidence
	}
	return false, ""
}

// Priority maps a handover reason (plus already-collected identity data) to
// a priority class from 1 (low) to 4 (urgent).
func Priority(reason models.HandoverReason, entities map[string]models.Entity) int {
	switch reason {
	case models.ReasonComplaint, models.ReasonEscalation:
		return models.PriorityUrgent
	case models.ReasonExplicitRequest:
		return models.PriorityHigh
	case models.ReasonComplexQuery, models.ReasonTechnicalIssue:
		if _, ok := entities[models.EntityCPF]; ok {
			return models.PriorityHigh
		}
		if _, ok := entities[models.EntityEmail]; ok {
			return models.PriorityHigh
		}
		return models.PriorityMedium
	}
	return models.PriorityLow
}

// intentDepartments routes intents to their usual queues.
var intentDepartments = map[string]string{
	"purchase":          "vendas",
	"scheduling":        "comercial",
	"legal":             "juridico",
	"technical_support": "suporte",
	"complaint":         "supervisor",
}

// SuggestDepartment picks the human queue for a transfer: intent table
// first, then reason, then entity hints, else the general queue.
func SuggestDepartment(intentName string, reason models.HandoverReason, entities map[string]models.Entity) string {
	if dept, ok := intentDepartments[intentName]; ok {
		return dept
	}
	if reason == models.ReasonComplaint {
		return "supervisor"
	}
	if reason == models.ReasonTechnicalIssue {
		return "suporte"
	}
	if _, ok := entities[models.EntityProduct]; ok {
		return "vendas"
	}
	if _, ok := entities[models.EntityMoney]; ok {
		return "vendas"
	}
	return "geral"
}

// customerMessages are the deterministic customer-facing notices per reason.
var customerMessages = map[models.HandoverReason]string{
	models.ReasonExplicitRequest: "Claro! Vou conectar você com um de nossos atendentes. Um momento, por favor... 👤",
	models.ReasonLowConfidence:   "Hmm, não tenho certeza se entendi corretamente. Vou transferir você para um especialista que pode ajudar melhor! 🤝",
	models.ReasonComplaint:       "Lamento muito pelo problema. Vou transferir imediatamente para nosso supervisor resolver isso com prioridade! 🚨",
	models.ReasonComplexQuery:    "Essa é uma questão importante! Vou conectar você com um especialista que tem mais experiência nesse assunto. 💡",
	models.ReasonEscalation:      "Vou escalar sua solicitação para nosso supervisor. Aguarde um momento, por favor... 📞",
	models.ReasonTechnicalIssue:  "Entendo a situação técnica. Vou transferir para nossa equipe de suporte especializada! 🔧",
	models.ReasonOutsideHours:    "No momento estamos fora do horário de atendimento. Mas vou registrar sua solicitação e te retornaremos assim que possível! ⏰",
}

// CustomerMessage returns the customer-facing transfer notice for a reason.
func CustomerMessage(reason models.HandoverReason) string {
	if msg, ok := customerMessages[reason]; ok {
		return msg
	}
	return "Vou transferir você para um atendente. Um momento! 👋"
}

var priorityEmoji = map[int]string{
	models.PriorityLow:    "🟢",
	models.PriorityMedium: "🟡",
	models.PriorityHigh:   "🟠",
	models.PriorityUrgent: "🔴",
}

// Summary builds the operator-facing context digest: masked identity data
// and the last three messages, never the raw document numbers.
func Summary(req models.HandoverRequest) string {
	parts := []string{
		fmt.Sprintf("🙋 Cliente: %s", req.CustomerName),
		fmt.Sprintf("📌 Motivo: %s", strings.ReplaceAll(string(req.Reason), "_", " ")),
	}

	if req.IntentName != "" {
		parts = append(parts, fmt.Sprintf("🎯 Intenção detectada: %s", req.IntentName))
	}

	var collected []string
	if cpf, ok := req.Entities[models.EntityCPF]; ok {
		masked, _ := cpf.Metadata["masked"].(string)
		if masked == "" {
			masked = "***"
		}
		collected = append(collected, "CPF: "+masked)
	}
	if phone, ok := req.Entities[models.EntityPhone]; ok {
		collected = append(collected, "Tel: "+phone.Normalized)
	}
	if email, ok := req.Entities[models.EntityEmail]; ok {
		collected = append(collected, "Email: "+email.Value)
	}
	if product, ok := req.Entities[models.EntityProduct]; ok {
		collected = append(collected, "Produto: "+product.Normalized)
	}
	if len(collected) > 0 {
		parts = append(parts, "📋 Dados coletados: "+strings.Join(collected, ", "))
	}

	if len(req.LastMessages) > 0 {
		parts = append(parts, "\n💬 Últimas mensagens:")
		msgs := req.LastMessages
		if len(msgs) > 3 {
			msgs = msgs[len(msgs)-3:]
		}
		for _, msg := range msgs {
			text := msg.Text
			if runes := []rune(text); len(runes) > 100 {
				text = string(runes[:100])
			}
			parts = append(parts, fmt.Sprintf("  %s: %s", msg.Author, text))
		}
	}

	return strings.Join(parts, "\n")
}

// OperatorMessage formats the notification shown to operators when a new
// transfer lands in their queue.
func OperatorMessage(req models.HandoverRequest) string {
	emoji, ok := priorityEmoji[req.Priority]
	if !ok {
		emoji = "⚪"
	}
	waiting := time.Since(req.CreatedAt).Round(time.Second)
	return fmt.Sprintf("%s Nova transferência de atendimento!\n\n%s\n\n⏱️ Aguardando há: %s", emoji, Summary(req), waiting)
}

// validTransitions encodes the handover state machine:
// pending → accepted → in_progress → resolved, with cancellation allowed
// until work starts and timeout only from pending.
var validTransitions = map[models.HandoverStatus][]models.HandoverStatus{
	models.StatusPending:    {models.StatusAccepted, models.StatusCancelled, models.StatusTimeout},
	models.StatusAccepted:   {models.StatusInProgress, models.StatusCancelled},
	models.StatusInProgress: {models.StatusResolved},
}

// Transition validates a status edge against the state machine.
func Transition(from, to models.HandoverStatus) error {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("invalid handover transition: %s -> %s", from, to)
}

// Request assembles a pending handover record for the given context.
func Request(customerID, customerName, contactID string, reason models.HandoverReason, intent models.Intent, entities map[string]models.Entity, lastMessages []models.Message) models.HandoverRequest {
	return models.HandoverRequest{
		ID:           models.NewRecordID("handover", uuid.NewString()),
		CustomerID:   customerID,
		CustomerName: customerName,
		ContactID:    contactID,
		Reason:       reason,
		Status:       models.StatusPending,
		Priority:     Priority(reason, entities),
		LastMessages: lastMessages,
		Entities:     entities,
		IntentName:   intent.Name,
		Confidence:   intent.Confidence,
		Department:   SuggestDepartment(intent.Name, reason, entities),
		CreatedAt:    time.Now().UTC(),
	}
}

// Result is what a fired handover hands back to the transport layer.
type Result struct {
	Request        models.HandoverRequest
	CustomerNotice string
	OperatorNotice string
}

// Engine persists fired handovers through a repository.
type Engine struct {
	repo   Repository
	logger *slog.Logger
}

// NewEngine builds a handover engine. repo may be nil, in which case fired
// handovers are returned but not persisted.
func NewEngine(repo Repository, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{repo: repo, logger: logger}
}

// Trigger creates and persists the pending request and produces both
// notification payloads. Persistence failure is reported but the payloads
// are still returned; the transfer must not be lost because storage is down.
func (e *Engine) Trigger(ctx context.Context, req models.HandoverRequest) (Result, error) {
	result := Result{
		Request:        req,
		CustomerNotice: CustomerMessage(req.Reason),
		OperatorNotice: OperatorMessage(req),
	}

	if e.repo == nil {
		return result, nil
	}

	if err := e.repo.CreateHandover(ctx, req); err != nil {
		e.logger.Error("failed to persist handover", "customer_id", req.CustomerID, "error", err)
		return result, fmt.Errorf("persist handover: %w", err)
	}

	e.logger.Info("handover created",
		"customer_id", req.CustomerID,
		"reason", req.Reason,
		"priority", req.Priority,
		"department", req.Department,
	)
	return result, nil
}
