package agent

import "strings"

// DetectMention returns the persona a message addresses with a leading
// "@name" token. Registry keys are checked before aliases so a custom
// persona named like another persona's alias wins.
func DetectMention(text string, personas []Persona) (Persona, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, p := range personas {
		if strings.HasPrefix(lower, "@"+p.Key()) {
			return p, true
		}
	}
	for _, p := range personas {
		for _, alias := range p.Aliases {
			if strings.HasPrefix(lower, "@"+Slug(alias)) {
				return p, true
			}
		}
	}
	return Persona{}, false
}

// CleanMention strips the persona mention from the start of a message,
// including a trailing comma or colon after the token.
func CleanMention(text string, p Persona) string {
	text = strings.TrimSpace(text)

	prefixes := make([]string, 0, len(p.Aliases)+1)
	prefixes = append(prefixes, "@"+p.Key())
	for _, alias := range p.Aliases {
		prefixes = append(prefixes, "@"+Slug(alias))
	}

	lower := strings.ToLower(text)
	for _, prefix := range prefixes {
		if strings.HasPrefix(lower, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
			if strings.HasPrefix(text, ",") || strings.HasPrefix(text, ":") {
				text = strings.TrimSpace(text[1:])
			}
			break
		}
	}
	return text
}
