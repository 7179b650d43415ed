// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate reconciles the title-derived dimension set against the
// program-derived one under tiered tolerance bands, and checks lathe
// feasibility. It only reads the partially-built result record; findings
// are returned, never attached here.
package validate

import (
	"fmt"
	"math"

	"github.com/pdiddy/spacer-audit/pkg/types"
)

// commentAgreementMM is how far an inline comment thickness may sit from
// the title thickness before the disagreement is surfaced. The
// disagreement is reported for manual review, never resolved toward
// either source.
const commentAgreementMM = 0.15

// Validate compares every dimension that has both a specified and an
// observed value, selecting the tolerance band by archetype, OD tier, and
// drilling strategy. Missing specified dimensions produce info findings
// only. Two-piece parts skip bore and thickness comparison entirely:
// their title dimensions describe the mating part.
func Validate(res *types.ParseResult, commentThicknessMM *float64, cfg types.EngineConfig) []types.Finding {
	var fs []types.Finding

	fs = append(fs, missingFindings(res)...)

	large := res.OD != nil && res.OD.MM >= cfg.LargeODMin

	// OD is the part's own envelope on every archetype.
	if res.OD != nil && res.ODObserved != nil {
		band := cfg.Tolerances.OD
		if large {
			band = cfg.Tolerances.ODLarge
		}
		if f := compare("outer diameter", types.CategoryODMismatch, res.OD.MM, *res.ODObserved, band); f != nil {
			fs = append(fs, *f)
		}
	}

	if !res.SpacerType.IsTwoPiece() {
		fs = append(fs, boreFindings(res, cfg)...)
		fs = append(fs, thicknessFindings(res, cfg)...)
		fs = append(fs, pcodeHeightFindings(res, cfg)...)
	}

	if commentThicknessMM != nil && res.Thickness != nil {
		delta := res.Thickness.MM - *commentThicknessMM
		if math.Abs(delta) > commentAgreementMM {
			fs = append(fs, types.Finding{
				Severity: types.SeverityWarning,
				Category: types.CategoryCommentMismatch,
				Message: fmt.Sprintf("title thickness %.2f mm disagrees with inline comment %.2f mm; manual review required",
					res.Thickness.MM, *commentThicknessMM),
				Delta: &delta,
			})
		}
	}

	return fs
}

// missingFindings emits one info finding per dimension the archetype
// needs but the title did not specify. Absent dimensions are never
// warnings.
func missingFindings(res *types.ParseResult) []types.Finding {
	type want struct {
		name string
		dim  *types.Dimension
		ok   bool
	}
	t := res.SpacerType
	wants := []want{
		{"outer diameter", res.OD, true},
		{"thickness", res.Thickness, true},
		{"center bore", res.CB, true},
		{"outer bore", res.OB, t == types.SpacerHubCentric || t == types.SpacerStud2Pc},
		{"hub height", res.HubHeight, t == types.SpacerHubCentric || t == types.SpacerStud2Pc},
		{"counterbore diameter", res.CounterboreDiameter, t == types.SpacerStep},
	}

	var fs []types.Finding
	for _, w := range wants {
		if w.ok && w.dim == nil {
			fs = append(fs, types.Finding{
				Severity: types.SeverityInfo,
				Category: types.CategoryNotSpecified,
				Message:  w.name + " not specified in title",
			})
		}
	}
	return fs
}

func boreFindings(res *types.ParseResult, cfg types.EngineConfig) []types.Finding {
	var fs []types.Finding

	if res.CB != nil && res.CBObserved != nil {
		if f := compare("center bore", types.CategoryBoreMismatch, res.CB.MM, *res.CBObserved, cfg.Tolerances.CB); f != nil {
			fs = append(fs, *f)
		}
	}
	if res.OB != nil && res.OBObserved != nil {
		if f := compare("outer bore", types.CategoryBoreMismatch, res.OB.MM, *res.OBObserved, cfg.Tolerances.OB); f != nil {
			fs = append(fs, *f)
		}
	}
	if res.CounterboreDiameter != nil && res.CounterboreObserved != nil {
		if f := compare("counterbore diameter", types.CategoryBoreMismatch, res.CounterboreDiameter.MM, *res.CounterboreObserved, cfg.Tolerances.Counterbore); f != nil {
			fs = append(fs, *f)
		}
	}
	return fs
}

// thicknessFindings reconciles title thickness against drill travel. The
// drill runs past the part by the over-travel allowance; two-operation
// drilling deliberately over-travels further to guarantee separation, so
// it gets the wider band. On a hub-carrying part the drill also passes
// through the hub; with no declared hub height the expected travel is
// indeterminate and the check is skipped.
func thicknessFindings(res *types.ParseResult, cfg types.EngineConfig) []types.Finding {
	if res.Thickness == nil || res.DrillDepth == nil {
		return nil
	}

	hubbed := res.SpacerType == types.SpacerHubCentric || res.SpacerType == types.SpacerStud2Pc
	if hubbed && res.HubHeight == nil {
		return nil
	}

	band := cfg.Tolerances.Thickness
	if res.TwoOpDrill {
		band = cfg.Tolerances.ThicknessTwoOp
	}

	expected := res.Thickness.MM + cfg.DrillOverTravel
	if hubbed {
		expected += res.HubHeight.MM
	}
	delta := *res.DrillDepth - expected
	sev := band.Grade(math.Abs(delta))
	if sev == "" {
		return nil
	}
	return []types.Finding{{
		Severity: sev,
		Category: types.CategoryThicknessMismatch,
		Message: fmt.Sprintf("drill depth %.2f mm vs expected %.2f mm for %.2f mm thickness (delta %+.2f mm)",
			*res.DrillDepth, expected, res.Thickness.MM, delta),
		Delta: &delta,
	}}
}

// pcodeHeightFindings checks the P-code-implied height against the title
// thickness. For hub-carrying archetypes the implied body thickness is
// the total height minus the hub height.
func pcodeHeightFindings(res *types.ParseResult, cfg types.EngineConfig) []types.Finding {
	if res.PCodeImpliedHeight == nil || res.Thickness == nil {
		return nil
	}

	implied := *res.PCodeImpliedHeight
	if (res.SpacerType == types.SpacerHubCentric || res.SpacerType == types.SpacerStud2Pc) && res.HubHeight != nil {
		implied -= res.HubHeight.MM
	}

	delta := res.Thickness.MM - implied
	sev := cfg.Tolerances.PCode.Grade(math.Abs(delta))
	if sev == "" {
		return nil
	}
	return []types.Finding{{
		Severity: sev,
		Category: types.CategoryPCodeMismatch,
		Message: fmt.Sprintf("title thickness %.2f mm vs P-code implied %.2f mm (delta %+.2f mm)",
			res.Thickness.MM, implied, delta),
		Delta: &delta,
	}}
}

// compare grades one specified-vs-observed pair. Returns nil inside the
// silent band.
func compare(name, category string, specMM, obsMM float64, band types.Band) *types.Finding {
	delta := specMM - obsMM
	sev := band.Grade(math.Abs(delta))
	if sev == "" {
		return nil
	}
	return &types.Finding{
		Severity: sev,
		Category: category,
		Message: fmt.Sprintf("%s: title %.2f mm, program %.2f mm (delta %+.2f mm)",
			name, specMM, obsMM, delta),
		Delta: &delta,
	}
}
