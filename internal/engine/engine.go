// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine wires the extraction stages into the single parse entry
// point. A parse is a pure function of (title, command stream, lathe
// assignment) to one immutable ParseResult; re-parsing the same input
// yields an identical record.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/spacer-audit/internal/classify"
	"github.com/pdiddy/spacer-audit/internal/gcode"
	"github.com/pdiddy/spacer-audit/internal/pcode"
	"github.com/pdiddy/spacer-audit/internal/title"
	"github.com/pdiddy/spacer-audit/internal/validate"
	"github.com/pdiddy/spacer-audit/pkg/types"
)

// ErrEmptyInput is the only parse failure: no title and no command
// stream. Everything else is reported through findings.
var ErrEmptyInput = errors.New("empty program input")

// Parse audits one program. It never fails on syntactically-plausible
// text; unparsable or missing data becomes info and warning findings.
func Parse(programID, titleLine string, lines []string, lathe types.Lathe, cfg types.EngineConfig) (*types.ParseResult, error) {
	if strings.TrimSpace(titleLine) == "" && len(lines) == 0 {
		return nil, fmt.Errorf("program %s: %w", programID, ErrEmptyInput)
	}

	stream := title.Normalize(titleLine)
	dims := title.Extract(stream, cfg)
	provisional := classify.Provisional(stream, dims)

	largePart := dims.OD != nil && dims.OD.MM >= cfg.LargeODMin
	blocks := gcode.ParseBlocks(lines)
	observed := gcode.Extract(blocks, provisional.Type, largePart, cfg)

	final := classify.Final(provisional.Type, dimMM(dims.Thickness), observed.DrillDepth, cfg)

	res := &types.ParseResult{
		ProgramNumber: programID,
		Title:         titleLine,
		SpacerType:    final,
		Confidence:    provisional.Confidence,

		OD:               dims.OD,
		Thickness:        dims.Thickness,
		CB:               dims.CB,
		OB:               dims.OB,
		HubHeight:        dims.HubHeight,
		CounterboreDepth: dims.CounterboreDepth,

		ODObserved:          observed.OD,
		CBObserved:          observed.CB,
		OBObserved:          observed.OB,
		DrillDepth:          observed.DrillDepth,
		CounterboreObserved: observed.Counterbore,
		TwoOpDrill:          observed.TwoOpDrill,

		Material:  observed.Material,
		ToolsUsed: observed.Tools,
	}

	// The larger half of a bore pair is the counterbore on a step part,
	// the outer bore everywhere else.
	if final == types.SpacerStep && res.OB != nil {
		res.CounterboreDiameter = res.OB
		res.OB = nil
	}

	var findings []types.Finding

	if stream.LowConfidence() {
		findings = append(findings, types.Finding{
			Severity: types.SeverityInfo,
			Category: types.CategoryNotSpecified,
			Message:  fmt.Sprintf("%d unparsable title token(s) dropped", stream.Dropped),
		})
	}

	if final != provisional.Type {
		findings = append(findings, types.Finding{
			Severity: types.SeverityInfo,
			Category: types.CategoryClassification,
			Message: fmt.Sprintf("reclassified %s as %s: drill depth implies a hub feature",
				provisional.Type, final),
		})
	}

	mapped := pcode.Map(observed.PCodes, cfg.PCodes)
	res.PCodes = mapped.Codes
	res.PCodeImpliedHeight = mapped.ImpliedHeight
	findings = append(findings, mapped.Findings...)

	findings = append(findings, validate.Validate(res, observed.CommentThickness, cfg)...)
	findings = append(findings, validate.Feasibility(res, lathe, cfg)...)

	res.Findings = findings
	res.Status = deriveStatus(findings)
	return res, nil
}

// deriveStatus folds the finding list into the terminal classification.
// Precedence: critical, then dimensional (OD/thickness), then bore
// warnings, then any other warning.
func deriveStatus(findings []types.Finding) types.Status {
	status := types.StatusPass
	for _, f := range findings {
		switch f.Severity {
		case types.SeverityCritical:
			return types.StatusCritical
		case types.SeverityWarning:
			switch f.Category {
			case types.CategoryODMismatch, types.CategoryThicknessMismatch:
				status = types.StatusDimensional
			case types.CategoryBoreMismatch:
				if status != types.StatusDimensional {
					status = types.StatusBoreWarning
				}
			default:
				if status == types.StatusPass {
					status = types.StatusWarning
				}
			}
		}
	}
	return status
}

func dimMM(d *types.Dimension) *float64 {
	if d == nil {
		return nil
	}
	return &d.MM
}
