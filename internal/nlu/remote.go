package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cleberfarias/chatia-core/internal/models"
)

// Backend is the remote classification contract. Implementations are
// expected to return strict JSON; the strategy treats any deviation as a
// failure.
type Backend interface {
	Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

const (
	classifyTimeout     = 10 * time.Second
	classifyTemperature = 0.3
	classifyMaxTokens   = 150

	// keywordsPerIntent limits how many keywords per intent are embedded
	// in the classification prompt.
	keywordsPerIntent = 5
)

// remoteResult is the JSON object the backend must return.
type remoteResult struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// RemoteStrategy asks an LLM backend to pick an intent from the catalogue.
type RemoteStrategy struct {
	backend Backend
}

// NewRemoteStrategy wraps a classification backend.
func NewRemoteStrategy(backend Backend) *RemoteStrategy {
	return &RemoteStrategy{backend: backend}
}

// Classify sends the message plus the intent catalogue to the backend and
// parses its JSON verdict. Intent names outside the catalogue are downgraded
// to the general sentinel with confidence 0.3.
func (s *RemoteStrategy) Classify(ctx context.Context, text string, speaker models.Speaker) (models.Intent, error) {
	catalogue := Catalogue(speaker)

	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	raw, err := s.backend.Complete(ctx, buildPrompt(text, catalogue), classifyTemperature, classifyMaxTokens)
	if err != nil {
		return models.Intent{}, fmt.Errorf("remote classify: %w", err)
	}

	var result remoteResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		return models.Intent{}, fmt.Errorf("parse classifier response: %w", err)
	}

	name := result.Intent
	confidence := result.Confidence

	spec, known := lookupSpec(catalogue, name)
	if !known && name != models.GeneralIntent {
		name = models.GeneralIntent
		confidence = 0.3
	}

	intent := models.Intent{
		Name:             name,
		Confidence:       round2(confidence),
		SuggestedPersona: spec.Persona,
		SuggestedAction:  spec.Action,
		Method:           models.MethodRemote,
	}
	if result.Reasoning != "" {
		intent.MatchedSignals = []string{result.Reasoning}
	}
	return intent, nil
}

func buildPrompt(text string, catalogue []IntentSpec) string {
	var descriptions []string
	for _, spec := range catalogue {
		keywords := spec.Keywords
		if len(keywords) > keywordsPerIntent {
			keywords = keywords[:keywordsPerIntent]
		}
		descriptions = append(descriptions, fmt.Sprintf("- %s: %s", spec.Name, strings.Join(keywords, ", ")))
	}

	return fmt.Sprintf(`Analise a seguinte mensagem e identifique a intenção do usuário.

Mensagem: %q

Intenções possíveis:
%s

Retorne APENAS um JSON válido no formato:
{
  "intent": "nome_da_intencao",
  "confidence": 0.95,
  "reasoning": "breve explicação"
}

Se a mensagem não se encaixar em nenhuma intenção, use "general" com confidence baixa.`,
		text, strings.Join(descriptions, "\n"))
}

// stripFences removes a surrounding markdown code fence, with or without a
// json language tag, from a backend response.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
