// Package models defines data structures shared across the chatia conversation core.
package models

// Entity types produced by the extractor.
const (
	EntityCPF      = "cpf"
	EntityPhone    = "phone"
	EntityCEP      = "cep"
	EntityEmail    = "email"
	EntityURL      = "url"
	EntityDate     = "date"
	EntityTime     = "time"
	EntityMoney    = "money"
	EntityQuantity = "quantity"
	EntityProduct  = "product"
)

// Entity represents a structured fact extracted from free text.
// Normalized is only set when normalization succeeded; Valid reflects
// type-specific validation (checksum, format). A failed validation is
// data, not an error.
type Entity struct {
	Type       string         `json:"type"`
	Value      string         `json:"value"`
	Normalized string         `json:"normalized,omitempty"`
	Valid      bool           `json:"valid"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
