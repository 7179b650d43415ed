// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns the spacer archetype in two passes: a
// provisional archetype from the title alone, then a final archetype that
// may fold in the observed drill depth. Neither pass mutates its inputs.
package classify

import (
	"strings"

	"github.com/pdiddy/spacer-audit/internal/title"
	"github.com/pdiddy/spacer-audit/pkg/types"
)

// Keyword groups, in evaluation priority order. A two-piece marker always
// wins: two-piece interface keywords describe the mating geometry, so a
// hub-centric keyword on the same title does not describe this part.
var (
	twoPieceMarkers = []string{"2PC", "2-PC", "2 PC", "2 PIECE", "TWO PIECE", "2PIECE"}
	studMarkers     = []string{"STUD", "INSERT"}
	lugMarkers      = []string{"LUG", "RECEIVER"}
	stepMarkers     = []string{"STEP", "SHELF", "CBORE", "C'BORE", "COUNTERBORE"}
	hubMarkers      = []string{"HC", "HUBCENTRIC", "HUB CENTRIC", "HUB-CENTRIC", "HUB"}
)

// Decision is the output of the provisional pass.
type Decision struct {
	Type       types.SpacerType
	Confidence types.Confidence
}

// classifyRule is one entry of the priority table: the first rule whose
// predicate holds decides the archetype.
type classifyRule struct {
	name   string
	when   func(c ctx) bool
	decide func(c ctx) Decision
}

type ctx struct {
	upper string
	dims  title.Dimensions
}

func (c ctx) hasAny(markers []string) bool {
	for _, m := range markers {
		if strings.Contains(c.upper, m) {
			return true
		}
	}
	return false
}

// hasHubKeyword requires a word-boundary match so "HUB" does not fire
// inside unrelated text; the markers are checked longest-first.
func (c ctx) hasHubKeyword() bool {
	for _, m := range hubMarkers {
		if containsWord(c.upper, m) {
			return true
		}
	}
	return false
}

func containsWord(s, w string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], w)
		if j < 0 {
			return false
		}
		j += i
		before := j == 0 || !isAlnum(s[j-1])
		afterIdx := j + len(w)
		after := afterIdx >= len(s) || !isAlnum(s[afterIdx])
		if before && after {
			return true
		}
		i = j + 1
	}
}

func isAlnum(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// provisionalRules is the fixed priority table.
var provisionalRules = []classifyRule{
	{
		name: "two-piece",
		when: func(c ctx) bool { return c.hasAny(twoPieceMarkers) },
		decide: func(c ctx) Decision {
			switch {
			case c.hasAny(studMarkers):
				return Decision{types.SpacerStud2Pc, types.ConfidenceHigh}
			case c.hasAny(lugMarkers):
				return Decision{types.SpacerLug2Pc, types.ConfidenceHigh}
			case c.dims.HubHeight != nil || c.hasHubKeyword():
				// The insert half carries the hub.
				return Decision{types.SpacerStud2Pc, types.ConfidenceMedium}
			case c.dims.Thickness != nil:
				return Decision{types.SpacerLug2Pc, types.ConfidenceMedium}
			default:
				return Decision{types.SpacerUnresolved2Pc, types.ConfidenceLow}
			}
		},
	},
	{
		name: "step",
		when: func(c ctx) bool {
			if c.hasAny(stepMarkers) {
				return true
			}
			// A dual-bore pair with no hub keyword is the counterbore pattern.
			return c.dims.HasPair && !c.hasHubKeyword()
		},
		decide: func(c ctx) Decision {
			if c.hasAny(stepMarkers) {
				return Decision{types.SpacerStep, types.ConfidenceHigh}
			}
			return Decision{types.SpacerStep, types.ConfidenceMedium}
		},
	},
	{
		name: "hub-centric",
		when: func(c ctx) bool { return c.hasHubKeyword() },
		decide: func(c ctx) Decision {
			return Decision{types.SpacerHubCentric, types.ConfidenceHigh}
		},
	},
	{
		name: "standard",
		when: func(c ctx) bool { return true },
		decide: func(c ctx) Decision {
			return Decision{types.SpacerStandard, types.ConfidenceMedium}
		},
	},
}

// Provisional classifies from the title alone.
func Provisional(s title.Stream, dims title.Dimensions) Decision {
	c := ctx{upper: s.Upper, dims: dims}
	for _, r := range provisionalRules {
		if r.when(c) {
			d := r.decide(c)
			if s.LowConfidence() && d.Confidence != types.ConfidenceLow {
				d.Confidence = types.ConfidenceMedium
			}
			return d
		}
	}
	// Unreachable: the last rule always fires.
	return Decision{types.SpacerStandard, types.ConfidenceLow}
}

// Final computes the final archetype from the provisional one and the
// observed drill depth. A standard or step part whose drill travel runs
// well past the title thickness implies a hub feature and is upgraded to
// hub-centric. Two-piece parts are never upgraded: their title dimensions
// describe the mating part, so drill-depth inference is invalid for them.
func Final(provisional types.SpacerType, thicknessMM, drillDepthMM *float64, cfg types.EngineConfig) types.SpacerType {
	if provisional.IsTwoPiece() {
		return provisional
	}
	if provisional != types.SpacerStandard && provisional != types.SpacerStep {
		return provisional
	}
	if thicknessMM == nil || drillDepthMM == nil {
		return provisional
	}
	if *drillDepthMM-*thicknessMM >= cfg.HubUpgradeMin+cfg.DrillOverTravel {
		return types.SpacerHubCentric
	}
	return provisional
}
