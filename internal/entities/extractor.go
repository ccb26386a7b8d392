// Package entities extracts structured facts (CPF, phone, CEP, email, dates,
// monetary amounts, quantities, product names) from free text.
//
// Extraction is stateless and never fails: a type with no match is simply
// absent from the result map, and a value that fails validation is returned
// with Valid=false rather than dropped.
package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cleberfarias/chatia-core/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	cpfPattern   = regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`)
	phonePattern = regexp.MustCompile(`\(?\d{2}\)?\s*9?\d{4}-?\d{4}`)
	cepPattern   = regexp.MustCompile(`\b\d{5}-?\d{3}\b`)
	emailPattern = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
	urlPattern   = regexp.MustCompile(`https?://[^\s]+`)
	datePattern  = regexp.MustCompile(`\b\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}\b`)
	timePattern  = regexp.MustCompile(`\b\d{1,2}:\d{2}(?:\s*(?:am|pm|AM|PM))?\b`)
	moneyPattern = regexp.MustCompile(`R\$\s*\d+(?:[.,]\d{3})*(?:[.,]\d{2})?`)

	nonDigits   = regexp.MustCompile(`\D`)
	timeParseRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(am|pm)?`)

	quantityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d+)\s+(?:unidades?|produtos?|itens?|pcs?)`),
		regexp.MustCompile(`\bquero\s+(\d+)`),
		regexp.MustCompile(`\bpreciso\s+de\s+(\d+)`),
		regexp.MustCompile(`\b(\d+)x\b`),
	}

	// Product vocabulary scanned for the product entity. Extend as the
	// catalogue grows.
	productVocabulary = []string{
		"notebook", "laptop", "computador", "pc", "desktop",
		"celular", "smartphone", "iphone", "samsung",
		"tablet", "ipad",
		"mouse", "teclado", "monitor", "webcam",
	}

	productPatterns = compileProductPatterns()

	titleCaser = cases.Title(language.BrazilianPortuguese)
)

func compileProductPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(productVocabulary))
	for i, product := range productVocabulary {
		patterns[i] = regexp.MustCompile(`\b\w*` + product + `\w*(?:\s+\w+){0,2}\b`)
	}
	return patterns
}

// Extract pulls all recognizable entities out of text.
//
// alreadyKnown lists entity types confirmed earlier in the conversation;
// identity-style types (cpf, phone, cep, email) found there are skipped so a
// caller never re-derives facts it already holds. Ephemeral types (date,
// time, money, quantity, product) are re-extracted on every call.
func Extract(text string, alreadyKnown map[string]bool) map[string]models.Entity {
	if alreadyKnown == nil {
		alreadyKnown = map[string]bool{}
	}

	found := map[string]models.Entity{}

	if !alreadyKnown[models.EntityCPF] {
		if m := cpfPattern.FindString(text); m != "" {
			found[models.EntityCPF] = extractCPF(m)
		}
	}

	if !alreadyKnown[models.EntityPhone] {
		if m := phonePattern.FindString(text); m != "" {
			found[models.EntityPhone] = models.Entity{
				Type:       models.EntityPhone,
				Value:      m,
				Normalized: NormalizePhone(m),
				Valid:      true,
				Metadata:   map[string]any{"ddd": dddOf(m)},
			}
		}
	}

	if !alreadyKnown[models.EntityCEP] {
		if m := cepPattern.FindString(text); m != "" {
			found[models.EntityCEP] = models.Entity{
				Type:       models.EntityCEP,
				Value:      m,
				Normalized: NormalizeCEP(m),
				Valid:      true,
				Metadata:   map[string]any{"needs_address_lookup": true},
			}
		}
	}

	if !alreadyKnown[models.EntityEmail] {
		if m := emailPattern.FindString(text); m != "" {
			domain := m[strings.LastIndex(m, "@")+1:]
			found[models.EntityEmail] = models.Entity{
				Type:       models.EntityEmail,
				Value:      m,
				Normalized: strings.ToLower(m),
				Valid:      true,
				Metadata:   map[string]any{"domain": domain},
			}
		}
	}

	if m := urlPattern.FindString(text); m != "" {
		found[models.EntityURL] = models.Entity{
			Type:  models.EntityURL,
			Value: m,
			Valid: true,
		}
	}

	if m := datePattern.FindString(text); m != "" {
		if parsed, ok := ParseDate(m); ok {
			found[models.EntityDate] = models.Entity{
				Type:       models.EntityDate,
				Value:      m,
				Normalized: parsed.Format("2006-01-02"),
				Valid:      true,
				Metadata: map[string]any{
					"is_past":     parsed.Before(time.Now()),
					"day_of_week": parsed.Weekday().String(),
				},
			}
		}
	}

	if m := timePattern.FindString(text); m != "" {
		if normalized, ok := ParseTime(m); ok {
			found[models.EntityTime] = models.Entity{
				Type:       models.EntityTime,
				Value:      m,
				Normalized: normalized,
				Valid:      true,
			}
		}
	}

	if m := moneyPattern.FindString(text); m != "" {
		if amount, ok := ParseMoney(m); ok && amount != 0 {
			found[models.EntityMoney] = models.Entity{
				Type:       models.EntityMoney,
				Value:      m,
				Normalized: fmt.Sprintf("R$ %.2f", amount),
				Valid:      true,
				Metadata:   map[string]any{"amount": amount},
			}
		}
	}

	if qty, ok := extractQuantity(text); ok {
		found[models.EntityQuantity] = models.Entity{
			Type:       models.EntityQuantity,
			Value:      strconv.Itoa(qty),
			Normalized: strconv.Itoa(qty),
			Valid:      true,
			Metadata:   map[string]any{"numeric": qty},
		}
	}

	if product, ok := extractProduct(text); ok {
		found[models.EntityProduct] = models.Entity{
			Type:       models.EntityProduct,
			Value:      product,
			Normalized: titleCaser.String(product),
			Valid:      true,
		}
	}

	return found
}

// extractCPF validates and normalizes a matched CPF. The masked form is
// always present in metadata, valid or not, so a handover summary never
// leaks the full document number.
func extractCPF(raw string) models.Entity {
	valid := ValidateCPF(raw)
	e := models.Entity{
		Type:  models.EntityCPF,
		Value: raw,
		Valid: valid,
		Metadata: map[string]any{
			"masked": maskCPF(raw),
		},
	}
	if valid {
		e.Normalized = NormalizeCPF(raw)
	}
	return e
}

// ValidateCPF checks the two CPF check digits (weighted sum mod 11).
// Rejects anything that is not 11 digits or is a single repeated digit.
func ValidateCPF(cpf string) bool {
	digits := nonDigits.ReplaceAllString(cpf, "")
	if len(digits) != 11 {
		return false
	}
	if strings.Count(digits, digits[:1]) == 11 {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i]-'0') * (10 - i)
	}
	if int(digits[9]-'0') != (sum*10%11)%10 {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(digits[i]-'0') * (11 - i)
	}
	return int(digits[10]-'0') == (sum*10%11)%10
}

// NormalizeCPF formats a CPF as 111.222.333-44.
func NormalizeCPF(cpf string) string {
	d := nonDigits.ReplaceAllString(cpf, "")
	return fmt.Sprintf("%s.%s.%s-%s", d[:3], d[3:6], d[6:9], d[9:])
}

func maskCPF(raw string) string {
	if len(raw) < 5 {
		return "***"
	}
	return raw[:3] + ".***.***-" + raw[len(raw)-2:]
}

// NormalizePhone formats 10/11-digit national numbers as (11) 91234-5678 or
// (11) 1234-5678. Other lengths pass through untouched; phone numbers are
// normalized but never validated.
func NormalizePhone(phone string) string {
	d := nonDigits.ReplaceAllString(phone, "")
	switch len(d) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:7], d[7:])
	case 10:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:6], d[6:])
	}
	return phone
}

func dddOf(phone string) string {
	d := nonDigits.ReplaceAllString(phone, "")
	if len(d) >= 2 {
		return d[:2]
	}
	return ""
}

// NormalizeCEP formats a CEP as 12345-678.
func NormalizeCEP(cep string) string {
	d := nonDigits.ReplaceAllString(cep, "")
	return d[:5] + "-" + d[5:]
}

// ParseDate parses D/M/Y and D-M-Y dates with 2- or 4-digit years.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2/1/2006", "2-1-2006", "2/1/06", "2-1-06"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseTime normalizes H:MM with an optional am/pm suffix to 24-hour HH:MM.
func ParseTime(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " am", "am")
	s = strings.ReplaceAll(s, " pm", "pm")

	m := timeParseRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	switch m[3] {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// ParseMoney parses a Brazilian or plain monetary string to a float amount.
// A comma marks the decimal separator and periods group thousands
// (R$ 1.500,00); without a comma the value parses as-is (R$ 1500.00).
func ParseMoney(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

func extractQuantity(text string) (int, bool) {
	lower := strings.ToLower(text)
	for _, p := range quantityPatterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// extractProduct scans the fixed vocabulary and, on a hit, captures the
// product word plus up to two trailing words (brand, model).
func extractProduct(text string) (string, bool) {
	lower := strings.ToLower(text)
	for i, product := range productVocabulary {
		if !strings.Contains(lower, product) {
			continue
		}
		if m := productPatterns[i].FindString(lower); m != "" {
			return strings.TrimSpace(m), true
		}
	}
	return "", false
}
