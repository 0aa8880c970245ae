// Package triage suggests a priority tier for an ER intake from the free-text
// complaint and the patient's age.
//
// The phrase tables are Spanish desk vocabulary and are matched as plain
// substrings of the lowercased complaint: no stemming, no word boundaries.
package triage

import (
	"strconv"
	"strings"
)

var highPriorityPhrases = [...]string{
	"dolor de pecho",
	"dificultad para respirar",
	"convulsión",
	"convulsiones",
	"pérdida de conciencia",
	"hemorragia",
	"accidente",
	"quemadura grave",
	"parálisis",
	"traumatismo",
	"shock",
	"inconsciente",
	"infarto",
	"ictus",
	"ataque cardíaco",
	"sangrado abundante",
	"fractura expuesta",
	"ahogo",
	"paro cardíaco",
	"dolor abdominal intenso",
	"quemadura extensa",
	"herida profunda",
}

var mediumPriorityPhrases = [...]string{
	"fiebre alta",
	"vómitos persistentes",
	"fractura",
	"caída",
	"dolor moderado",
	"infección",
	"diarrea",
	"dolor abdominal",
	"herida",
	"dolor lumbar",
	"mareo",
	"tos persistente",
	"dolor de oído",
	"dolor de garganta",
	"dolor de cabeza fuerte",
	"bronquitis",
	"asma",
	"alergia",
	"dolor articular",
}

// Vulnerable age band bounds, exclusive.
const (
	youngAgeLimit = 5
	olderAgeLimit = 70
)

// HighPriorityPhrases returns a copy of the high tier table in match order.
func HighPriorityPhrases() []string {
	return append([]string(nil), highPriorityPhrases[:]...)
}

// MediumPriorityPhrases returns a copy of the medium tier table in match order.
func MediumPriorityPhrases() []string {
	return append([]string(nil), mediumPriorityPhrases[:]...)
}

// SuggestPriority maps a complaint and an optional age to a tier. It is pure
// and total: the same input always yields the same tier and no input fails.
//
// The vulnerable-age scan tests the same table as the unconditional scan that
// follows it, so age never changes the outcome. Both scans are kept so the
// result matches what the desk has always produced.
func SuggestPriority(complaint string, age *int) Priority {
	text := strings.ToLower(complaint)

	if containsAny(text, highPriorityPhrases[:]) {
		return High
	}
	if VulnerableAge(age) && containsAny(text, mediumPriorityPhrases[:]) {
		return Medium
	}
	if containsAny(text, mediumPriorityPhrases[:]) {
		return Medium
	}
	return Low
}

// VulnerableAge reports whether age is known and strictly below 5 or above 70.
func VulnerableAge(age *int) bool {
	if age == nil {
		return false
	}
	return *age < youngAgeLimit || *age > olderAgeLimit
}

// ParseAge reads an age typed or stored as text. Anything that is not a
// positive integer yields nil ("age unknown").
func ParseAge(text string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// Match lists the table phrases found in a complaint.
type Match struct {
	High   []string `json:"high"`
	Medium []string `json:"medium"`
}

// MatchedPhrases reports every high and medium phrase contained in the
// complaint, in table order. It is informational only; the tier comes from
// SuggestPriority.
func MatchedPhrases(complaint string) Match {
	text := strings.ToLower(complaint)
	m := Match{High: []string{}, Medium: []string{}}
	for _, p := range highPriorityPhrases {
		if strings.Contains(text, p) {
			m.High = append(m.High, p)
		}
	}
	for _, p := range mediumPriorityPhrases {
		if strings.Contains(text, p) {
			m.Medium = append(m.Medium, p)
		}
	}
	return m
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
