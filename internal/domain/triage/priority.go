package triage

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is a triage tier. The zero value is High so that the sort rank
// of a Priority is its underlying value.
type Priority int

const (
	High Priority = iota
	Medium
	Low
)

// Stored literals. These are the values the desk has always written to the
// consultation table, so they are kept as-is.
const (
	literalHigh   = "Alta"
	literalMedium = "Media"
	literalLow    = "Baja"
)

// Priorities lists every tier in waiting-list order.
func Priorities() []Priority {
	return []Priority{High, Medium, Low}
}

// String returns the stored literal of the tier.
func (p Priority) String() string {
	switch p {
	case High:
		return literalHigh
	case Medium:
		return literalMedium
	case Low:
		return literalLow
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// Name returns the English tier name.
func (p Priority) Name() string {
	switch p {
	case High:
		return "High"
	case Medium:
		return "Medium"
	case Low:
		return "Low"
	}
	return ""
}

// Rank is the sort key: High sorts first.
func (p Priority) Rank() int {
	return int(p)
}

func (p Priority) Valid() bool {
	return p >= High && p <= Low
}

// ParsePriority accepts the stored literals and the English names in any case.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alta", "high":
		return High, nil
	case "media", "medium":
		return Medium, nil
	case "baja", "low":
		return Low, nil
	}
	return Low, fmt.Errorf("invalid priority %q", s)
}

// RankOf returns the sort rank of a stored priority value. Unknown values
// sort after Low.
func RankOf(stored string) int {
	p, err := ParsePriority(stored)
	if err != nil {
		return int(Low) + 1
	}
	return p.Rank()
}

func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("priority must be a string: %w", err)
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
