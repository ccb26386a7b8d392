// Package orchestrator composes the message pipeline: entity extraction,
// intent classification, handover evaluation and persona replies.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cleberfarias/chatia-core/internal/agent"
	"github.com/cleberfarias/chatia-core/internal/entities"
	"github.com/cleberfarias/chatia-core/internal/handover"
	"github.com/cleberfarias/chatia-core/internal/metrics"
	"github.com/cleberfarias/chatia-core/internal/models"
	"github.com/cleberfarias/chatia-core/internal/nlu"
)

// MessageLog persists chat messages and serves recent context lines for
// prompt injection. Implemented by internal/db; may be nil.
type MessageLog interface {
	Record(ctx context.Context, msg models.Message) error
	FetchContext(ctx context.Context, userID, contactID string, limit, hoursBack int) ([]string, error)
}

// Outcome kinds.
const (
	OutcomeReply      = "reply"
	OutcomeHandover   = "handover"
	OutcomeSuggestion = "suggestion"
)

// InboundMessage is one message entering the pipeline.
type InboundMessage struct {
	UserID    string
	UserName  string
	ContactID string
	Text      string
	Speaker   models.Speaker

	// PreferRemote asks the classifier to try the remote strategy first.
	PreferRemote bool
}

// Outcome is the pipeline's verdict for one message.
type Outcome struct {
	Kind     string
	Reply    string
	Persona  string
	Intent   models.Intent
	Entities map[string]models.Entity

	// Suggestion is a canned response template for operator messages.
	Suggestion string

	Handover *handover.Result
}

// Tracked conversations are capped; when the cap is hit an arbitrary
// conversation's memory is evicted.
const maxTrackedConversations = 1024

type conversationState struct {
	entities map[string]models.Entity
	messages int
}

// Service runs the pipeline. All collaborators are injected; the service
// holds no global state.
type Service struct {
	classifier *nlu.Classifier
	engine     *handover.Engine
	registry   *agent.Registry
	manager    *agent.Manager
	log        MessageLog
	collector  *metrics.Collector
	logger     *slog.Logger

	contextMessages  int
	contextHoursBack int

	mu            sync.Mutex
	conversations map[string]*conversationState
}

// Options configures optional collaborators of the Service.
type Options struct {
	MessageLog       MessageLog
	Collector        *metrics.Collector
	Logger           *slog.Logger
	ContextMessages  int
	ContextHoursBack int
}

// NewService wires the pipeline. classifier, engine, registry and manager
// are required.
func NewService(classifier *nlu.Classifier, engine *handover.Engine, registry *agent.Registry, manager *agent.Manager, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := opts.Collector
	if collector == nil {
		collector = metrics.NewCollector()
	}
	contextMessages := opts.ContextMessages
	if contextMessages <= 0 {
		contextMessages = 10
	}
	contextHoursBack := opts.ContextHoursBack
	if contextHoursBack <= 0 {
		contextHoursBack = 24
	}

	return &Service{
		classifier:       classifier,
		engine:           engine,
		registry:         registry,
		manager:          manager,
		log:              opts.MessageLog,
		collector:        collector,
		logger:           logger,
		contextMessages:  contextMessages,
		contextHoursBack: contextHoursBack,
		conversations:    make(map[string]*conversationState),
	}
}

// Metrics exposes the collector for the stats command.
func (s *Service) Metrics() *metrics.Collector {
	return s.collector
}

// HandleMessage runs one message through the pipeline.
func (s *Service) HandleMessage(ctx context.Context, msg InboundMessage) (Outcome, error) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return Outcome{}, fmt.Errorf("empty message")
	}
	if msg.Speaker == "" {
		msg.Speaker = models.SpeakerCustomer
	}

	s.recordMessage(ctx, msg, text)

	// A persona mention bypasses classification entirely: the user picked
	// who answers.
	personas := s.registry.Personas(ctx, msg.UserID)
	if p, ok := agent.DetectMention(text, personas); ok {
		return s.personaTurn(ctx, msg, p, agent.CleanMention(text, p)), nil
	}

	state, conversation, known, messages := s.conversation(msg.UserID, msg.ContactID)

	start := time.Now()
	extracted := entities.Extract(text, known)
	s.collector.RecordTiming(metrics.OpExtract, time.Since(start))

	combined := s.remember(state, extracted)

	start = time.Now()
	intent := s.classifier.Classify(ctx, text, msg.Speaker, msg.PreferRemote)
	if intent.Method == models.MethodRemote {
		s.collector.RecordTiming(metrics.OpClassifyRemote, time.Since(start))
	} else {
		s.collector.RecordTiming(metrics.OpClassifyPattern, time.Since(start))
	}

	s.logger.Debug("message classified",
		"conversation", conversation,
		"intent", intent.Name,
		"confidence", intent.Confidence,
		"method", intent.Method,
		"entities", len(extracted))

	if msg.Speaker == models.SpeakerOperator {
		return Outcome{
			Kind:       OutcomeSuggestion,
			Intent:     intent,
			Entities:   extracted,
			Suggestion: nlu.SuggestTemplate(intent),
		}, nil
	}

	if should, reason := handover.ShouldHandover(intent.Name, intent.Confidence, combined, messages); should {
		return s.handoverTurn(ctx, msg, reason, intent, combined, extracted), nil
	}

	outcome := s.personaReply(ctx, msg, intent, text)
	outcome.Entities = extracted
	return outcome, nil
}

// personaTurn answers a mention-addressed message: slash commands are
// dispatched, everything else becomes an ask with platform context.
func (s *Service) personaTurn(ctx context.Context, msg InboundMessage, p agent.Persona, text string) Outcome {
	if text == "" || agent.IsCommand(text) {
		if text == "" {
			text = "/ajuda"
		}
		return Outcome{
			Kind:    OutcomeReply,
			Persona: p.Key(),
			Reply:   s.manager.HandleCommand(ctx, p, text, msg.UserID, msg.UserName),
		}
	}

	var contextLines []string
	if s.log != nil && msg.ContactID != "" {
		lines, err := s.log.FetchContext(ctx, msg.UserID, msg.ContactID, s.contextMessages, s.contextHoursBack)
		if err != nil {
			s.logger.Warn("fetching conversation context failed", "user_id", msg.UserID, "error", err)
		} else {
			contextLines = lines
		}
	}

	start := time.Now()
	reply := s.manager.AskWithContext(ctx, p, text, msg.UserID, msg.UserName, contextLines)
	s.collector.RecordTiming(metrics.OpGenerate, time.Since(start))

	return Outcome{Kind: OutcomeReply, Persona: p.Key(), Reply: reply}
}

func (s *Service) handoverTurn(ctx context.Context, msg InboundMessage, reason models.HandoverReason, intent models.Intent, combined, extracted map[string]models.Entity) Outcome {
	req := handover.Request(msg.UserID, msg.UserName, msg.ContactID, reason, intent, combined, nil)

	result, err := s.engine.Trigger(ctx, req)
	if err != nil {
		// notification payloads survive a persistence failure; the
		// conversation must still be transferred
		s.logger.Error("handover persistence failed", "customer_id", msg.UserID, "error", err)
	}
	s.collector.RecordHandover()

	return Outcome{
		Kind:     OutcomeHandover,
		Intent:   intent,
		Entities: extracted,
		Handover: &result,
	}
}

func (s *Service) personaReply(ctx context.Context, msg InboundMessage, intent models.Intent, text string) Outcome {
	name := intent.SuggestedPersona
	if name == "" {
		name = nlu.FallbackPersona
	}
	p, ok := s.registry.Resolve(ctx, name, msg.UserID)
	if !ok {
		p, ok = s.registry.Resolve(ctx, nlu.FallbackPersona, msg.UserID)
	}
	if !ok {
		// no personas at all, answer with the catalogue template
		return Outcome{Kind: OutcomeReply, Intent: intent, Reply: nlu.SuggestTemplate(intent)}
	}

	start := time.Now()
	reply := s.manager.Ask(ctx, p, text, msg.UserID, msg.UserName)
	s.collector.RecordTiming(metrics.OpGenerate, time.Since(start))

	return Outcome{
		Kind:    OutcomeReply,
		Persona: p.Key(),
		Intent:  intent,
		Reply:   reply,
	}
}

func (s *Service) recordMessage(ctx context.Context, msg InboundMessage, text string) {
	if s.log == nil || msg.ContactID == "" {
		return
	}
	err := s.log.Record(ctx, models.Message{
		UserID:    msg.UserID,
		ContactID: msg.ContactID,
		Author:    msg.UserName,
		Text:      text,
	})
	if err != nil {
		s.logger.Warn("recording message failed", "user_id", msg.UserID, "error", err)
	}
}

func conversationKey(userID, contactID string) string {
	return userID + "|" + contactID
}

// conversation returns (creating if needed) the tracked state for a
// conversation and bumps its message counter. The known-entity names and
// the counter are snapshotted under the lock; state itself must only be
// touched again through remember.
func (s *Service) conversation(userID, contactID string) (*conversationState, string, map[string]bool, int) {
	key := conversationKey(userID, contactID)

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.conversations[key]
	if !ok {
		if len(s.conversations) >= maxTrackedConversations {
			for evict := range s.conversations {
				delete(s.conversations, evict)
				break
			}
		}
		state = &conversationState{entities: make(map[string]models.Entity)}
		s.conversations[key] = state
	}
	state.messages++

	known := make(map[string]bool, len(state.entities))
	for name := range state.entities {
		known[name] = true
	}
	return state, key, known, state.messages
}

// remember merges newly extracted entities into the conversation memory
// and returns the accumulated view used for handover evaluation.
func (s *Service) remember(state *conversationState, extracted map[string]models.Entity) map[string]models.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, entity := range extracted {
		state.entities[name] = entity
	}
	combined := make(map[string]models.Entity, len(state.entities))
	for name, entity := range state.entities {
		combined[name] = entity
	}
	return combined
}
