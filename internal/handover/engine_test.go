package handover

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cleberfarias/chatia-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	created []models.HandoverRequest
	err     error
}

func (f *fakeRepo) CreateHandover(ctx context.Context, req models.HandoverRequest) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, req)
	return nil
}

func entitiesWith(types ...string) map[string]models.Entity {
	m := map[string]models.Entity{}
	for _, t := range types {
		m[t] = models.Entity{Type: t, Valid: true}
	}
	return m
}

func TestShouldHandover(t *testing.T) {
	tests := []struct {
		name       string
		intent     string
		confidence float64
		length     int
		want       bool
		reason     models.HandoverReason
	}{
		{"explicit request", "human_handover", 0.95, 2, true, models.ReasonExplicitRequest},
		{"complaint", "complaint", 0.9, 2, true, models.ReasonComplaint},
		{"low confidence", "purchase", 0.2, 2, true, models.ReasonLowConfidence},
		{"long unresolved conversation", "purchase", 0.5, 11, true, models.ReasonComplexQuery},
		{"general with mid confidence", "general", 0.4, 2, true, models.ReasonLowConfidence},
		{"confident purchase stays with bot", "purchase", 0.8, 2, false, ""},
		{"general but confident", "general", 0.7, 2, false, ""},
		{"long but confident", "purchase", 0.9, 20, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := ShouldHandover(tt.intent, tt.confidence, nil, tt.length)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestShouldHandoverRuleOrder(t *testing.T) {
	// An explicit request with rock-bottom confidence still reports the
	// explicit reason; the confidence rule never gets a look-in.
	got, reason := ShouldHandover("human_handover", 0.1, nil, 20)
	require.True(t, got)
	assert.Equal(t, models.ReasonExplicitRequest, reason)
}

func TestPriority(t *testing.T) {
	tests := []struct {
		name     string
		reason   models.HandoverReason
		entities map[string]models.Entity
		want     int
	}{
		{"complaint is urgent", models.ReasonComplaint, nil, models.PriorityUrgent},
		{"complaint ignores entities", models.ReasonComplaint, entitiesWith(models.EntityEmail), models.PriorityUrgent},
		{"escalation is urgent", models.ReasonEscalation, nil, models.PriorityUrgent},
		{"explicit request is high", models.ReasonExplicitRequest, nil, models.PriorityHigh},
		{"complex query plain", models.ReasonComplexQuery, nil, models.PriorityMedium},
		{"complex query with email", models.ReasonComplexQuery, entitiesWith(models.EntityEmail), models.PriorityHigh},
		{"complex query with cpf", models.ReasonComplexQuery, entitiesWith(models.EntityCPF), models.PriorityHigh},
		{"technical issue with email", models.ReasonTechnicalIssue, entitiesWith(models.EntityEmail), models.PriorityHigh},
		{"low confidence is low", models.ReasonLowConfidence, entitiesWith(models.EntityEmail), models.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Priority(tt.reason, tt.entities))
		})
	}
}

func TestSuggestDepartment(t *testing.T) {
	tests := []struct {
		name     string
		intent   string
		reason   models.HandoverReason
		entities map[string]models.Entity
		want     string
	}{
		{"intent table wins", "legal", models.ReasonComplexQuery, nil, "juridico"},
		{"complaint reason", "", models.ReasonComplaint, nil, "supervisor"},
		{"technical reason", "", models.ReasonTechnicalIssue, nil, "suporte"},
		{"product entity routes to sales", "", models.ReasonLowConfidence, entitiesWith(models.EntityProduct), "vendas"},
		{"money entity routes to sales", "", models.ReasonLowConfidence, entitiesWith(models.EntityMoney), "vendas"},
		{"default queue", "", models.ReasonLowConfidence, nil, "geral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestDepartment(tt.intent, tt.reason, tt.entities))
		})
	}
}

func TestTransition(t *testing.T) {
	valid := [][2]models.HandoverStatus{
		{models.StatusPending, models.StatusAccepted},
		{models.StatusPending, models.StatusCancelled},
		{models.StatusPending, models.StatusTimeout},
		{models.StatusAccepted, models.StatusInProgress},
		{models.StatusAccepted, models.StatusCancelled},
		{models.StatusInProgress, models.StatusResolved},
	}
	for _, pair := range valid {
		assert.NoError(t, Transition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	invalid := [][2]models.HandoverStatus{
		{models.StatusPending, models.StatusResolved},
		{models.StatusResolved, models.StatusPending},
		{models.StatusInProgress, models.StatusCancelled},
		{models.StatusTimeout, models.StatusAccepted},
		{models.StatusCancelled, models.StatusInProgress},
	}
	for _, pair := range invalid {
		assert.Error(t, Transition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
}

func TestRequest(t *testing.T) {
	intent := models.Intent{Name: "complaint", Confidence: 0.85}
	req := Request("cust-1", "João Silva", "contact-1", models.ReasonComplaint, intent, entitiesWith(models.EntityEmail), nil)

	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, models.PriorityUrgent, req.Priority)
	assert.Equal(t, "supervisor", req.Department)
	assert.Equal(t, "complaint", req.IntentName)
	assert.False(t, req.CreatedAt.IsZero())

	id, err := models.RecordIDString(req.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestSummaryMasksEntities(t *testing.T) {
	req := models.HandoverRequest{
		CustomerName: "João Silva",
		Reason:       models.ReasonComplaint,
		IntentName:   "complaint",
		Entities: map[string]models.Entity{
			models.EntityCPF: {
				Type:     models.EntityCPF,
				Value:    "529.982.247-25",
				Metadata: map[string]any{"masked": "529.***.***-25"},
			},
			models.EntityEmail: {Type: models.EntityEmail, Value: "joao@x.com"},
		},
		LastMessages: []models.Message{
			{Author: "João", Text: "Produto chegou com defeito!"},
			{Author: "Bot", Text: "Sinto muito pelo problema..."},
			{Author: "João", Text: "Quero falar com alguém"},
			{Author: "Bot", Text: "Transferindo..."},
		},
	}

	summary := Summary(req)
	assert.Contains(t, summary, "529.***.***-25")
	assert.NotContains(t, summary, "529.982.247-25")
	assert.Contains(t, summary, "joao@x.com")
	assert.Contains(t, summary, "Transferindo...")
	// Only the last three messages appear.
	assert.NotContains(t, summary, "Produto chegou com defeito!")
}

func TestSummaryTruncatesLongMessages(t *testing.T) {
	req := models.HandoverRequest{
		CustomerName: "João",
		Reason:       models.ReasonComplaint,
		LastMessages: []models.Message{
			{Author: "João", Text: "atenção! " + strings.Repeat("ção", 50)},
		},
	}

	summary := Summary(req)
	assert.True(t, utf8.ValidString(summary))
	// capped at 100 runes, never mid-rune
	assert.NotContains(t, summary, strings.Repeat("ção", 50))
	assert.Contains(t, summary, "João: atenção!")
}

func TestEngineTrigger(t *testing.T) {
	ctx := context.Background()
	intent := models.Intent{Name: "complaint", Confidence: 0.85}
	req := Request("cust-1", "João", "contact-1", models.ReasonComplaint, intent, nil, nil)

	t.Run("persists and notifies", func(t *testing.T) {
		repo := &fakeRepo{}
		engine := NewEngine(repo, nil)

		result, err := engine.Trigger(ctx, req)
		require.NoError(t, err)
		require.Len(t, repo.created, 1)
		assert.Equal(t, models.StatusPending, repo.created[0].Status)
		assert.Contains(t, result.CustomerNotice, "supervisor")
		assert.Contains(t, result.OperatorNotice, "🔴")
	})

	t.Run("returns payloads even when persistence fails", func(t *testing.T) {
		repo := &fakeRepo{err: errors.New("db down")}
		engine := NewEngine(repo, nil)

		result, err := engine.Trigger(ctx, req)
		assert.Error(t, err)
		assert.NotEmpty(t, result.CustomerNotice)
		assert.NotEmpty(t, result.OperatorNotice)
	})

	t.Run("nil repository skips persistence", func(t *testing.T) {
		engine := NewEngine(nil, nil)
		result, err := engine.Trigger(ctx, req)
		require.NoError(t, err)
		assert.NotEmpty(t, result.OperatorNotice)
	})
}
