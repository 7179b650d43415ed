// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pcode maps discrete offset codes onto the shop's standard
// total-height table and checks that codes appear as a complementary
// first-operation / second-operation pair.
package pcode

import (
	"fmt"

	"github.com/pdiddy/spacer-audit/pkg/types"
)

// Outcome is the mapping result for one program's codes.
type Outcome struct {
	// Codes is the ordered set of codes found, as given.
	Codes []int

	// ImpliedHeight is the total part height the codes imply, in
	// millimeters, or nil when no complete pair is present.
	ImpliedHeight *float64

	// Findings holds one finding per violation: pairing, duplication, or
	// an unknown code.
	Findings []types.Finding
}

// Map looks each code up against the height table. The table is
// lathe-independent; first-operation codes are the table keys and the
// complementary second-operation code is key+PCodeOp2Offset.
func Map(codes []int, table types.PCodeTable) Outcome {
	out := Outcome{Codes: codes}

	var op1, op2 []int
	for _, c := range codes {
		switch {
		case table[c] != 0:
			op1 = append(op1, c)
		case c > types.PCodeOp2Offset && table[c-types.PCodeOp2Offset] != 0:
			op2 = append(op2, c)
		default:
			out.Findings = append(out.Findings, types.Finding{
				Severity: types.SeverityWarning,
				Category: types.CategoryPCodeMismatch,
				Message:  fmt.Sprintf("P%d is not in the height table", c),
			})
		}
	}

	pairs := 0
	for _, c := range op1 {
		if containsInt(op2, c+types.PCodeOp2Offset) {
			pairs++
			continue
		}
		out.Findings = append(out.Findings, types.Finding{
			Severity: types.SeverityWarning,
			Category: types.CategoryPCodePairing,
			Message:  fmt.Sprintf("first-operation code P%d has no matching P%d", c, c+types.PCodeOp2Offset),
		})
	}
	for _, c := range op2 {
		if !containsInt(op1, c-types.PCodeOp2Offset) {
			out.Findings = append(out.Findings, types.Finding{
				Severity: types.SeverityWarning,
				Category: types.CategoryPCodePairing,
				Message:  fmt.Sprintf("second-operation code P%d has no matching P%d", c, c-types.PCodeOp2Offset),
			})
		}
	}

	if pairs > 1 {
		out.Findings = append(out.Findings, types.Finding{
			Severity: types.SeverityWarning,
			Category: types.CategoryPCodeDuplicate,
			Message:  fmt.Sprintf("%d complete code pairs present; expected at most one", pairs),
		})
	}

	// The implied height comes from the first complete pair. A lone code
	// already carries a pairing warning; anchoring a height check on it
	// would grade the part against a height nobody confirmed.
	for _, c := range op1 {
		if containsInt(op2, c+types.PCodeOp2Offset) {
			h := table[c]
			out.ImpliedHeight = &h
			break
		}
	}

	return out
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
