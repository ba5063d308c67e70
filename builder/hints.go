package builder

import (
	"mit.edu/dsg/sqlplan/ast"
	"mit.edu/dsg/sqlplan/logging"
	"mit.edu/dsg/sqlplan/planner"
)

// HintTable maps (case-folded) hint names to the category they belong to.
type HintTable map[string]planner.HintCategory

// DefaultHintTable returns the hints understood by the downstream optimizer.
func DefaultHintTable() HintTable {
	return HintTable{
		"materialize":     planner.CTEAttributeHint,
		"inline":          planner.CTEAttributeHint,
		"cte_parallelism": planner.CTEAttributeHint,

		"hash_join":        planner.JoinHint,
		"nested_loop_join": planner.JoinHint,
		"merge_join":       planner.JoinHint,

		"broadcast":   planner.ExchangeHint,
		"shuffle":     planner.ExchangeHint,
		"no_exchange": planner.ExchangeHint,

		"use_index": planner.ScanHint,
		"no_index":  planner.ScanHint,
		"partition": planner.ScanHint,
	}
}

// Resolve turns parsed hints into plan hints, keeping their order. Hints the
// table does not know are dropped with a warning.
func (t HintTable) Resolve(hints []ast.Hint) []planner.Hint {
	if len(hints) == 0 {
		return nil
	}
	out := make([]planner.Hint, 0, len(hints))
	for _, h := range hints {
		category, ok := t[h.Name.Key()]
		if !ok {
			logging.Warn().Str("hint", h.String()).Msg("ignoring unknown hint")
			continue
		}
		var options []planner.HintOption
		for _, p := range h.Params {
			options = append(options, planner.HintOption{Key: p.Key, Value: p.Value})
		}
		out = append(out, planner.Hint{Category: category, Name: h.Name.Key(), Options: options})
	}
	return out
}
