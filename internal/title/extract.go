// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package title

import (
	"github.com/pdiddy/spacer-audit/pkg/types"
)

// Dimensions is the specified dimension set recovered from a title. A
// dimension absent from the title is nil, never zero. The larger half of a
// bore pair lands in OB; for step parts the caller reassigns it to the
// counterbore diameter once the archetype is known.
type Dimensions struct {
	OD               *types.Dimension
	Thickness        *types.Dimension
	CB               *types.Dimension
	OB               *types.Dimension
	HubHeight        *types.Dimension
	CounterboreDepth *types.Dimension

	// HasPair reports whether a dual-bore pair token was present; the
	// classifier treats an un-keyworded pair as the step pattern.
	HasPair bool
}

// Extract evaluates the ordered rule table over a lexed title. Rules run
// top-down; the first match fills a dimension, and an exclusive match
// locks it against weaker rules.
func Extract(s Stream, cfg types.EngineConfig) Dimensions {
	rc := &ruleContext{
		toks: s.Tokens,
		cfg:  cfg,
		used: make(map[int]bool),
	}

	var locked [dimCount]bool

	for _, r := range extractionRules {
		for _, m := range r.scan(rc) {
			if rc.result[m.dim] != nil || locked[m.dim] {
				continue
			}
			d := m.d
			rc.result[m.dim] = &d
			if r.exclusive {
				locked[m.dim] = true
			}
			for _, ti := range m.toks {
				rc.used[ti] = true
			}
		}
	}

	dims := Dimensions{
		OD:               rc.result[dimOD],
		Thickness:        rc.result[dimThickness],
		CB:               rc.result[dimCB],
		OB:               rc.result[dimOB],
		HubHeight:        rc.result[dimHubHeight],
		CounterboreDepth: rc.result[dimCounterboreDepth],
	}
	for _, t := range s.Tokens {
		if t.Kind == KindPair {
			dims.HasPair = true
			break
		}
	}
	return dims
}
