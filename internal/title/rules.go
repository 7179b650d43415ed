// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package title

import (
	"github.com/pdiddy/spacer-audit/pkg/types"
)

// dimKind identifies which ParseResult dimension a rule feeds.
type dimKind int

const (
	dimOD dimKind = iota
	dimThickness
	dimCB
	dimOB
	dimHubHeight
	dimCounterboreDepth
	dimCount
)

// Unit cutoffs for bare numbers. The shop writes OD, thickness, and hub
// heights in inches and bore diameters in millimeters unless a marker says
// otherwise; these magnitudes separate the two conventions.
const (
	maxODInches  = 30.0
	maxThkInches = 6.0
	maxHubInches = 2.5

	// mixedUnitMax bounds the inch side of a mixed-unit bore pair: a bare
	// value below it, slash-paired with a marked millimeter value, reads
	// as inches. Scoped to large parts; small parts do not exhibit
	// mixed-unit titles.
	mixedUnitMax = 10.0
)

// match is one dimension produced by a rule, with the token indices it
// consumed.
type match struct {
	dim  dimKind
	d    types.Dimension
	toks []int
}

// rule is one entry of the ordered extraction table. Rules are evaluated
// top-down; the first match for a dimension wins. An exclusive rule locks
// its dimensions so that no weaker rule can touch them afterward.
type rule struct {
	name      string
	exclusive bool
	scan      func(rc *ruleContext) []match
}

// ruleContext carries the token stream and the evaluation state rules may
// consult: dimensions set so far and tokens already consumed.
type ruleContext struct {
	toks []Token
	cfg  types.EngineConfig

	result [dimCount]*types.Dimension
	used   map[int]bool
}

// largePart reports whether the OD extracted so far puts the part in the
// large tier, widening bore ranges and enabling mixed-unit inference.
func (rc *ruleContext) largePart() bool {
	od := rc.result[dimOD]
	return od != nil && od.MM >= rc.cfg.LargeODMin
}

func (rc *ruleContext) cbRange() types.Range {
	if rc.largePart() {
		return rc.cfg.Ranges.CBLarge
	}
	return rc.cfg.Ranges.CB
}

func (rc *ruleContext) obRange() types.Range {
	if rc.largePart() {
		return rc.cfg.Ranges.OBLarge
	}
	return rc.cfg.Ranges.OB
}

// word reports whether token i is the given word.
func (rc *ruleContext) word(i int, w string) bool {
	return i >= 0 && i < len(rc.toks) && rc.toks[i].Kind == KindWord && rc.toks[i].Text == w
}

func (rc *ruleContext) anyWord(i int, words ...string) bool {
	for _, w := range words {
		if rc.word(i, w) {
			return true
		}
	}
	return false
}

// number returns token i when it is numeric and not yet consumed by an
// earlier rule. Skipping consumed tokens keeps a marker from claiming the
// value of its neighbor's match ("OD 6.5 THK 0.75").
func (rc *ruleContext) number(i int) (Token, bool) {
	if i < 0 || i >= len(rc.toks) || rc.used[i] || rc.toks[i].Kind != KindNumber {
		return Token{}, false
	}
	return rc.toks[i], true
}

// mm resolves a numeric token to millimeters using its explicit unit, or
// the inch cutoff convention when unmarked.
func mm(t Token, inchCutoff float64) (float64, types.Unit) {
	switch t.Unit {
	case types.UnitMM:
		return t.Value, types.UnitMM
	case types.UnitInch:
		return types.InchMM(t.Value), types.UnitInch
	}
	if t.Value <= inchCutoff {
		return types.InchMM(t.Value), types.UnitInch
	}
	return t.Value, types.UnitMM
}

func dimFrom(t Token, valMM float64, unit types.Unit, ruleName string) types.Dimension {
	return types.Dimension{MM: valMM, Unit: unit, Raw: t.Text, Rule: ruleName}
}

// extractionRules is the ordered rule table. More specific patterns
// (explicit markers) come before looser ones (bare values near keywords);
// order is part of the documented semantics.
var extractionRules = []rule{
	{name: "od-marker", exclusive: true, scan: scanODMarker},
	{name: "od-x-thk", exclusive: true, scan: scanODXThk},
	{name: "thk-marker", exclusive: true, scan: scanThkMarker},
	{name: "hub-height", exclusive: true, scan: scanHubHeight},
	{name: "cbore-depth", exclusive: true, scan: scanCboreDepth},
	{name: "bore-pair", exclusive: true, scan: scanBorePair},
	{name: "cb-marker", exclusive: true, scan: scanCBMarker},
	{name: "hc-bore", exclusive: true, scan: scanHCBore},
	{name: "loose-mm-bore", exclusive: false, scan: scanLooseCB},
	{name: "loose-mm-ob", exclusive: false, scan: scanLooseOB},
}

// scanODMarker matches "<n> OD", "OD <n>", and "<n> DIA".
func scanODMarker(rc *ruleContext) []match {
	for i := range rc.toks {
		var t Token
		var ok bool
		var at int
		switch {
		case rc.anyWord(i, "OD", "DIA"):
			if t, ok = rc.number(i - 1); ok {
				at = i - 1
			} else if t, ok = rc.number(i + 1); ok {
				at = i + 1
			}
		}
		if !ok {
			continue
		}
		v, u := mm(t, maxODInches)
		if !rc.cfg.Ranges.OD.Contains(v) {
			continue
		}
		return []match{{dim: dimOD, d: dimFrom(t, v, u, "od-marker"), toks: []int{at, i}}}
	}
	return nil
}

// scanODXThk matches the "<od> X <thk>" form. The thickness half stands on
// its own: when the OD side is absent or already claimed by the marker
// rule, the X still anchors the value to its right as the thickness.
func scanODXThk(rc *ruleContext) []match {
	for i := range rc.toks {
		if !rc.word(i, "X") {
			continue
		}
		right, okR := rc.number(i + 1)
		if !okR {
			continue
		}
		thkMM, thkU := mm(right, maxThkInches)
		if !rc.cfg.Ranges.Thickness.Contains(thkMM) {
			continue
		}

		ms := []match{{dim: dimThickness, d: dimFrom(right, thkMM, thkU, "od-x-thk"), toks: []int{i, i + 1}}}
		if left, ok := rc.number(i - 1); ok {
			odMM, odU := mm(left, maxODInches)
			if rc.cfg.Ranges.OD.Contains(odMM) {
				ms = append(ms, match{dim: dimOD, d: dimFrom(left, odMM, odU, "od-x-thk"), toks: []int{i - 1, i}})
			}
		}
		return ms
	}
	return nil
}

// scanThkMarker matches "<n> THK" and "THK <n>".
func scanThkMarker(rc *ruleContext) []match {
	for i := range rc.toks {
		if !rc.anyWord(i, "THK", "THICK") {
			continue
		}
		t, ok := rc.number(i - 1)
		at := i - 1
		if !ok {
			t, ok = rc.number(i + 1)
			at = i + 1
		}
		if !ok {
			continue
		}
		v, u := mm(t, maxThkInches)
		if !rc.cfg.Ranges.Thickness.Contains(v) {
			continue
		}
		return []match{{dim: dimThickness, d: dimFrom(t, v, u, "thk-marker"), toks: []int{at, i}}}
	}
	return nil
}

// scanHubHeight matches "<n> HUB" and "HUB <n>" (with an optional HT word).
func scanHubHeight(rc *ruleContext) []match {
	for i := range rc.toks {
		if !rc.word(i, "HUB") {
			continue
		}
		t, ok := rc.number(i - 1)
		at := i - 1
		if !ok {
			next := i + 1
			if rc.word(next, "HT") {
				next++
			}
			t, ok = rc.number(next)
			at = next
		}
		if !ok {
			continue
		}
		v, u := mm(t, maxHubInches)
		if !rc.cfg.Ranges.HubHeight.Contains(v) {
			continue
		}
		return []match{{dim: dimHubHeight, d: dimFrom(t, v, u, "hub-height"), toks: []int{at, i}}}
	}
	return nil
}

// scanCboreDepth matches "<n> DP" and "<n> DEEP".
func scanCboreDepth(rc *ruleContext) []match {
	for i := range rc.toks {
		if !rc.anyWord(i, "DP", "DEEP") {
			continue
		}
		t, ok := rc.number(i - 1)
		if !ok {
			continue
		}
		v, u := mm(t, maxHubInches)
		if v <= 0 {
			continue
		}
		return []match{{dim: dimCounterboreDepth, d: dimFrom(t, v, u, "cbore-depth"), toks: []int{i - 1, i}}}
	}
	return nil
}

// scanBorePair takes the first slash pair: smaller value is the center
// bore, larger the outer bore. An unmarked half next to a marked
// millimeter half reads as inches when it is small and the part is large.
func scanBorePair(rc *ruleContext) []match {
	for i, t := range rc.toks {
		if t.Kind != KindPair {
			continue
		}
		aMM := pairHalfMM(*t.A, *t.B, rc.largePart())
		bMM := pairHalfMM(*t.B, *t.A, rc.largePart())

		small, big := *t.A, *t.B
		smallMM, bigMM := aMM, bMM
		if aMM > bMM {
			small, big = *t.B, *t.A
			smallMM, bigMM = bMM, aMM
		}

		var ms []match
		if rc.cbRange().Contains(smallMM) {
			ms = append(ms, match{dim: dimCB, d: dimFrom(small, smallMM, pairUnit(small), "bore-pair"), toks: []int{i}})
		}
		if rc.obRange().Contains(bigMM) {
			ms = append(ms, match{dim: dimOB, d: dimFrom(big, bigMM, pairUnit(big), "bore-pair"), toks: []int{i}})
		}
		if len(ms) > 0 {
			return ms
		}
	}
	return nil
}

// pairHalfMM resolves one half of a bore pair to millimeters.
func pairHalfMM(t, other Token, largePart bool) float64 {
	switch t.Unit {
	case types.UnitMM:
		return t.Value
	case types.UnitInch:
		return types.InchMM(t.Value)
	}
	if largePart && other.Unit == types.UnitMM && t.Value < mixedUnitMax {
		return types.InchMM(t.Value)
	}
	return t.Value
}

func pairUnit(t Token) types.Unit {
	if t.Unit != "" {
		return t.Unit
	}
	if t.Value < mixedUnitMax {
		return types.UnitInch
	}
	return types.UnitMM
}

// scanCBMarker matches "<n> CB" and "CB <n>".
func scanCBMarker(rc *ruleContext) []match {
	for i := range rc.toks {
		if !rc.word(i, "CB") {
			continue
		}
		t, ok := rc.number(i - 1)
		at := i - 1
		if !ok {
			t, ok = rc.number(i + 1)
			at = i + 1
		}
		if !ok {
			continue
		}
		v := t.Value
		if t.Unit == types.UnitInch {
			v = types.InchMM(t.Value)
		}
		if !rc.cbRange().Contains(v) {
			continue
		}
		u := t.Unit
		if u == "" {
			u = types.UnitMM
		}
		return []match{{dim: dimCB, d: dimFrom(t, v, u, "cb-marker"), toks: []int{at, i}}}
	}
	return nil
}

// scanHCBore matches a single bore value marked with the hub-centric
// keyword ("73MM HC").
func scanHCBore(rc *ruleContext) []match {
	for i := range rc.toks {
		if !rc.word(i, "HC") {
			continue
		}
		t, ok := rc.number(i - 1)
		if !ok {
			continue
		}
		v := t.Value
		if t.Unit == types.UnitInch {
			v = types.InchMM(t.Value)
		}
		if !rc.cbRange().Contains(v) {
			continue
		}
		u := t.Unit
		if u == "" {
			u = types.UnitMM
		}
		return []match{{dim: dimCB, d: dimFrom(t, v, u, "hc-bore"), toks: []int{i - 1, i}}}
	}
	return nil
}

// scanLooseCB takes a standalone millimeter-marked value in the center
// bore range. Runs after every marker rule so a definitive bore locks it out.
func scanLooseCB(rc *ruleContext) []match {
	for i, t := range rc.toks {
		if t.Kind != KindNumber || t.Unit != types.UnitMM || rc.used[i] {
			continue
		}
		if !rc.cbRange().Contains(t.Value) {
			continue
		}
		return []match{{dim: dimCB, d: dimFrom(t, t.Value, types.UnitMM, "loose-mm-bore"), toks: []int{i}}}
	}
	return nil
}

// scanLooseOB takes a second standalone millimeter value larger than the
// center bore.
func scanLooseOB(rc *ruleContext) []match {
	cb := rc.result[dimCB]
	if cb == nil {
		return nil
	}
	for i, t := range rc.toks {
		if t.Kind != KindNumber || t.Unit != types.UnitMM || rc.used[i] {
			continue
		}
		if t.Value <= cb.MM || !rc.obRange().Contains(t.Value) {
			continue
		}
		return []match{{dim: dimOB, d: dimFrom(t, t.Value, types.UnitMM, "loose-mm-ob"), toks: []int{i}}}
	}
	return nil
}
