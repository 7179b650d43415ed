// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"fmt"

	"github.com/pdiddy/spacer-audit/pkg/types"
)

// Feasibility checks the part against the assigned lathe's chuck
// capacity, stock set, and thickness range. This is independent of the
// title/program comparison: a dimensionally consistent part can still be
// impossible to produce on the machine it was assigned to. No assignment
// means no check.
func Feasibility(res *types.ParseResult, lathe types.Lathe, cfg types.EngineConfig) []types.Finding {
	if lathe == types.LatheNone {
		return nil
	}

	spec, ok := cfg.Lathes[lathe]
	if !ok {
		return []types.Finding{{
			Severity: types.SeverityWarning,
			Category: types.CategoryFeasibility,
			Message:  fmt.Sprintf("no specification for lathe %q", lathe),
		}}
	}

	var fs []types.Finding

	od := partOD(res)
	if od != nil {
		if *od > spec.ChuckCapacity {
			fs = append(fs, types.Finding{
				Severity: types.SeverityCritical,
				Category: types.CategoryFeasibility,
				Message: fmt.Sprintf("OD %.2f mm exceeds %s chuck capacity %.2f mm",
					*od, spec.Name, spec.ChuckCapacity),
			})
		} else if !stockAvailable(*od, spec.StockODs, cfg.StockSlack) {
			fs = append(fs, types.Finding{
				Severity: types.SeverityCritical,
				Category: types.CategoryFeasibility,
				Message:  fmt.Sprintf("no supported stock size on %s for OD %.2f mm", spec.Name, *od),
			})
		}
	}

	if h := totalHeight(res); h != nil {
		if *h < spec.MinThickness || *h > spec.MaxThickness {
			fs = append(fs, types.Finding{
				Severity: types.SeverityCritical,
				Category: types.CategoryFeasibility,
				Message: fmt.Sprintf("total height %.2f mm outside %s range %.2f-%.2f mm",
					*h, spec.Name, spec.MinThickness, spec.MaxThickness),
			})
		}
	}

	return fs
}

// partOD prefers the title OD and falls back to the observed one.
func partOD(res *types.ParseResult) *float64 {
	if res.OD != nil {
		return &res.OD.MM
	}
	return res.ODObserved
}

// totalHeight is the body thickness plus the hub, when both are known.
func totalHeight(res *types.ParseResult) *float64 {
	if res.Thickness == nil {
		return nil
	}
	h := res.Thickness.MM
	if res.HubHeight != nil {
		h += res.HubHeight.MM
	}
	return &h
}

// stockAvailable reports whether some stock diameter can yield the part:
// the stock must be at least the part OD and within the machining slack
// above it.
func stockAvailable(od float64, stocks []float64, slack float64) bool {
	for _, s := range stocks {
		if s >= od-0.01 && s-od <= slack {
			return true
		}
	}
	return false
}
