package models

// Speaker identifies who authored a message.
type Speaker string

// Speaker values.
const (
	SpeakerCustomer Speaker = "customer"
	SpeakerOperator Speaker = "operator"
)

// Classification methods.
const (
	MethodPattern = "pattern"
	MethodRemote  = "remote"
)

// GeneralIntent is the no-match sentinel. A classifier never returns an
// absent intent; zero keyword hits yield {general, 0.0}.
const GeneralIntent = "general"

// Intent is the inferred purpose of a message.
type Intent struct {
	Name             string   `json:"name"`
	Confidence       float64  `json:"confidence"`
	MatchedSignals   []string `json:"matched_signals,omitempty"`
	SuggestedPersona string   `json:"suggested_persona,omitempty"`
	SuggestedAction  string   `json:"suggested_action,omitempty"`
	Method           string   `json:"method"`
}
