package nlu

import (
	"math"
	"strings"

	"github.com/cleberfarias/chatia-core/internal/models"
)

// PatternStrategy scores catalogue keywords against the lower-cased text.
// It is a pure function of (text, speaker): no I/O, no shared state.
type PatternStrategy struct{}

// Classify picks the intent with the strictly greatest keyword hit count.
// Confidence is min(1, hits/wordCount*2) rounded to two decimals. Zero hits
// yield the general sentinel with the fallback persona for customers.
func (PatternStrategy) Classify(text string, speaker models.Speaker) models.Intent {
	lower := strings.ToLower(strings.TrimSpace(text))
	catalogue := Catalogue(speaker)

	var (
		best    IntentSpec
		found   bool
		maxHits int
		matched []string
	)

	for _, spec := range catalogue {
		var hits []string
		for _, kw := range spec.Keywords {
			if strings.Contains(lower, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) > maxHits {
			maxHits = len(hits)
			best = spec
			found = true
			matched = hits
		}
	}

	if !found {
		intent := models.Intent{
			Name:            models.GeneralIntent,
			Confidence:      0.0,
			SuggestedAction: "general_query",
			Method:          models.MethodPattern,
		}
		if speaker == models.SpeakerCustomer {
			intent.SuggestedPersona = FallbackPersona
		}
		return intent
	}

	wordCount := len(strings.Fields(lower))
	if wordCount < 1 {
		wordCount = 1
	}
	confidence := math.Min(1.0, float64(maxHits)/float64(wordCount)*2)

	return models.Intent{
		Name:             best.Name,
		Confidence:       round2(confidence),
		MatchedSignals:   matched,
		SuggestedPersona: best.Persona,
		SuggestedAction:  best.Action,
		Method:           models.MethodPattern,
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
