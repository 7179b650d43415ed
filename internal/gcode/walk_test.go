// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/spacer-audit/pkg/types"
)

func walk(t *testing.T, spacer types.SpacerType, lines ...string) Observed {
	t.Helper()
	return Extract(ParseBlocks(lines), spacer, false, types.DefaultEngineConfig())
}

// --- geometry capture tests ---

func TestExtractODFeedOnly(t *testing.T) {
	// The rapid positions above the finished diameter; only the cutting
	// move may set the OD.
	obs := walk(t, types.SpacerStandard,
		"T0101 (TURN)",
		"G0 X8.0 Z0.1",
		"G1 X7.0 Z-1.0 F0.012",
	)
	require.NotNil(t, obs.OD)
	assert.InDelta(t, types.InchMM(7.0), *obs.OD, 0.01)
}

func TestExtractBore(t *testing.T) {
	obs := walk(t, types.SpacerStandard,
		"T0505 (BORE)",
		"G1 X2.85 Z-1.1 F0.008",
		"G1 X2.874 Z-1.1",
	)
	require.NotNil(t, obs.CB)
	assert.InDelta(t, types.InchMM(2.874), *obs.CB, 0.01)
}

func TestExtractFacingLargestWins(t *testing.T) {
	// Progressive facing reaches the bore at its largest coordinate, then
	// retracts inward. The retraction must not shrink the captured bore.
	obs := walk(t, types.SpacerHubCentric,
		"T0202 (FACE)",
		"G1 X8.661 Z-0.05 F0.01",
		"G0 X3.1",
	)
	require.NotNil(t, obs.OB)
	assert.InDelta(t, types.InchMM(8.661), *obs.OB, 0.01)
}

func TestExtractTwoOpDrill(t *testing.T) {
	// Drilling in both operations: the total depth is the sum of the two
	// deepest passes.
	obs := walk(t, types.SpacerStandard,
		"T0303 (DRILL)",
		"G1 Z-4.15 F0.006",
		"G0 Z0.1",
		"(FLIP PART)",
		"T0303 (DRILL)",
		"G1 Z-0.65 F0.006",
	)
	require.NotNil(t, obs.DrillDepth)
	assert.True(t, obs.TwoOpDrill)
	assert.InDelta(t, types.InchMM(4.80), *obs.DrillDepth, 0.01)
}

func TestExtractSingleOpDrill(t *testing.T) {
	obs := walk(t, types.SpacerStandard,
		"T0303 (DRILL)",
		"G1 Z-1.3 F0.006",
		"G1 Z-1.1",
	)
	require.NotNil(t, obs.DrillDepth)
	assert.False(t, obs.TwoOpDrill)
	assert.InDelta(t, types.InchMM(1.3), *obs.DrillDepth, 0.01)
}

// --- chamfer interpretation tests ---

func TestExtractChamferOnStep(t *testing.T) {
	// On a step part the chamfer coordinate is the counterbore diameter;
	// the primary bore stays open for the full-depth boring pass.
	obs := walk(t, types.SpacerStep,
		"T0808 (CHAMFER)",
		"G1 X3.543 Z-0.25 F0.008",
		"T0505 (BORE)",
		"G1 X2.913 Z-1.3 F0.008",
	)
	require.NotNil(t, obs.Counterbore)
	assert.InDelta(t, types.InchMM(3.543), *obs.Counterbore, 0.01)
	require.NotNil(t, obs.CB)
	assert.InDelta(t, types.InchMM(2.913), *obs.CB, 0.01)
}

func TestExtractChamferOnHubCentric(t *testing.T) {
	// Elsewhere the chamfer rides the primary bore edge.
	obs := walk(t, types.SpacerHubCentric,
		"T0808 (CHAMFER)",
		"G1 X2.874 Z-0.05 F0.008",
	)
	require.NotNil(t, obs.CB)
	assert.InDelta(t, types.InchMM(2.874), *obs.CB, 0.01)
	assert.Nil(t, obs.Counterbore)
}

// --- tool selection tests ---

func TestToolCommentOverridesStation(t *testing.T) {
	// Station 5 defaults to boring, but the comment says drill.
	obs := walk(t, types.SpacerStandard,
		"T0505 (DRILL 1.0)",
		"G1 Z-1.3 F0.006",
	)
	require.NotNil(t, obs.DrillDepth)
	assert.Nil(t, obs.CB)
}

func TestToolStationConvention(t *testing.T) {
	tests := []struct {
		tool string
		want Mode
	}{
		{"T0101", ModeTurn},
		{"T0202", ModeFace},
		{"T0303", ModeDrill},
		{"T0404", ModeDrill},
		{"T0505", ModeBore},
		{"T0707", ModeBore},
		{"T0808", ModeBore},
		{"T5", ModeBore},
		{"T1212", ModeNone},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			blocks := ParseBlocks([]string{tt.tool})
			w, ok := blocks[0].Word('T')
			require.True(t, ok)
			assert.Equal(t, tt.want, modeForTool(toolNumber(w)))
		})
	}
}

func TestExtractToolsRecorded(t *testing.T) {
	obs := walk(t, types.SpacerStandard,
		"T0101 (TURN)",
		"G1 X7.0 F0.01",
		"T0303 (DRILL)",
		"T0101 (TURN)",
	)
	assert.Equal(t, []string{"T0101", "T0303"}, obs.Tools)
}

// --- comment capture tests ---

func TestExtractPCodes(t *testing.T) {
	obs := walk(t, types.SpacerStandard,
		"G10 P3 R0.1",
		"(P53)",
		"(P3)",
	)
	assert.Equal(t, []int{3, 53}, obs.PCodes)
}

func TestExtractMaterial(t *testing.T) {
	obs := walk(t, types.SpacerStandard,
		"(MATERIAL: 6061-T6)",
		"(MATERIAL: 7075)",
	)
	assert.Equal(t, "6061-T6", obs.Material)
}

func TestExtractCommentThickness(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		wantMM  float64
	}{
		{"inches", "(THK 1.25)", types.InchMM(1.25)},
		{"millimeters", "(THK 31.75)", 31.75},
		{"colon form", "(THK: 1.25)", types.InchMM(1.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := walk(t, types.SpacerStandard, tt.comment)
			require.NotNil(t, obs.CommentThickness)
			assert.InDelta(t, tt.wantMM, *obs.CommentThickness, 0.01)
		})
	}
}

func TestExtractOp2ResetsMode(t *testing.T) {
	// Tool state does not survive the flip: motion after the marker is
	// ignored until a tool is selected again.
	obs := walk(t, types.SpacerStandard,
		"T0101 (TURN)",
		"G1 X7.0 F0.01",
		"(OP 2)",
		"G1 X7.2 F0.01",
	)
	require.NotNil(t, obs.OD)
	assert.InDelta(t, types.InchMM(7.0), *obs.OD, 0.01)
}
