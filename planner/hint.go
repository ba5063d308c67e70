package planner

import (
	"strings"
)

// HintCategory groups hints by the part of planning they steer.
type HintCategory int

const (
	// CTEAttributeHint hints describe how a WITH item is materialized and are
	// copied onto its CTEProducer.
	CTEAttributeHint HintCategory = iota
	JoinHint
	ExchangeHint
	ScanHint
)

func (c HintCategory) String() string {
	switch c {
	case CTEAttributeHint:
		return "cte_attribute"
	case JoinHint:
		return "join"
	case ExchangeHint:
		return "exchange"
	case ScanHint:
		return "scan"
	}
	return "unknown"
}

type HintOption struct {
	Key   string
	Value string
}

// Hint is an out-of-band directive attached to exactly one plan node when the
// node is created. It never changes query results.
type Hint struct {
	Category HintCategory
	Name     string
	Options  []HintOption
}

func (h Hint) String() string {
	if len(h.Options) == 0 {
		return h.Name
	}
	opts := make([]string, len(h.Options))
	for i, o := range h.Options {
		if o.Key == "" {
			opts[i] = o.Value
		} else {
			opts[i] = o.Key + "=" + o.Value
		}
	}
	return h.Name + "(" + strings.Join(opts, ", ") + ")"
}

// ClassifyHints returns the hints of the given category in their original
// order. The result is empty, never nil, when nothing matches.
func ClassifyHints(hints []Hint, category HintCategory) []Hint {
	out := make([]Hint, 0, len(hints))
	for _, h := range hints {
		if h.Category == category {
			out = append(out, h)
		}
	}
	return out
}

func formatHints(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = h.String()
	}
	return strings.Join(parts, " ")
}
