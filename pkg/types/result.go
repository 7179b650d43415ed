// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SpacerType is the geometric archetype of a machined spacer. Exactly one
// archetype is assigned per program; the archetype determines which
// dimension fields are meaningful.
type SpacerType string

const (
	// SpacerStandard is a flat ring: OD, thickness, and a single center bore.
	SpacerStandard SpacerType = "standard"

	// SpacerHubCentric carries a raised hub; the outer bore (OB) pilots on
	// the vehicle hub and the hub height is meaningful.
	SpacerHubCentric SpacerType = "hub_centric"

	// SpacerStep has a two-diameter bore with a shelf at partial depth.
	SpacerStep SpacerType = "step"

	// SpacerLug2Pc is the receiver half of a two-piece set (flat, no hub).
	SpacerLug2Pc SpacerType = "lug_2pc"

	// SpacerStud2Pc is the insert half of a two-piece set (carries the hub).
	SpacerStud2Pc SpacerType = "stud_2pc"

	// SpacerUnresolved2Pc is a two-piece part whose half could not be
	// determined from the title.
	SpacerUnresolved2Pc SpacerType = "unresolved_2pc"
)

// IsTwoPiece reports whether the archetype is any two-piece variant. Title
// dimensions on a two-piece part describe the mating interface, not the
// part's own bores, so bore and thickness cross-checks are skipped for it.
func (t SpacerType) IsTwoPiece() bool {
	return t == SpacerLug2Pc || t == SpacerStud2Pc || t == SpacerUnresolved2Pc
}

// Confidence grades how definitively the classifier reached its decision.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Unit is the source unit a dimension was written in.
type Unit string

const (
	UnitInch Unit = "in"
	UnitMM   Unit = "mm"
)

// InchMM converts inches to millimeters.
func InchMM(in float64) float64 { return in * 25.4 }

// Dimension is a single extracted dimension, normalized to millimeters with
// the original unit and matched text retained for provenance.
type Dimension struct {
	// MM is the value in millimeters.
	MM float64 `json:"mm" yaml:"mm"`

	// Unit is the unit the value was written in.
	Unit Unit `json:"unit" yaml:"unit"`

	// Raw is the title text the value was matched from.
	Raw string `json:"raw,omitempty" yaml:"raw,omitempty"`

	// Rule names the extraction rule that produced the value. Kept for
	// debugging only; not persisted externally.
	Rule string `json:"-" yaml:"-"`
}

// Inch returns the value in inches.
func (d Dimension) Inch() float64 { return d.MM / 25.4 }

// Severity grades a finding.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Finding categories. Status derivation groups on these, so mismatches on
// the outer envelope (OD, thickness) and on bores carry distinct categories.
const (
	CategoryNotSpecified      = "not_specified"
	CategoryODMismatch        = "od_mismatch"
	CategoryThicknessMismatch = "thickness_mismatch"
	CategoryBoreMismatch      = "bore_mismatch"
	CategoryCommentMismatch   = "comment_mismatch"
	CategoryClassification    = "classification"
	CategoryPCodePairing      = "pcode_pairing"
	CategoryPCodeDuplicate    = "pcode_duplicate"
	CategoryPCodeMismatch     = "pcode_mismatch"
	CategoryFeasibility       = "feasibility"
)

// Finding is one severity-graded observation about a program.
type Finding struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Category string   `json:"category" yaml:"category"`
	Message  string   `json:"message" yaml:"message"`

	// Delta is the signed specified-minus-observed difference in
	// millimeters, when the finding is a numeric comparison.
	Delta *float64 `json:"delta,omitempty" yaml:"delta,omitempty"`
}

// Status is the terminal classification derived from the finding list.
type Status string

const (
	// StatusPass has no findings above info level.
	StatusPass Status = "pass"

	// StatusWarning has warning-level findings outside the dimensional
	// categories (missing data, P-code pairing, comment disagreement).
	StatusWarning Status = "warning"

	// StatusDimensional has an OD or thickness mismatch at warning level.
	StatusDimensional Status = "dimensional"

	// StatusCritical has at least one critical finding.
	StatusCritical Status = "critical"

	// StatusBoreWarning has a CB/OB/counterbore mismatch at warning level.
	StatusBoreWarning Status = "bore_warning"
)

// ParseResult is the complete audit record for one program. It is built
// once per parse and never mutated afterward; re-auditing a program means
// re-running the parse and producing a fresh record.
type ParseResult struct {
	ProgramNumber string     `json:"program_number" yaml:"program_number"`
	Title         string     `json:"title" yaml:"title"`
	SpacerType    SpacerType `json:"spacer_type" yaml:"spacer_type"`
	Confidence    Confidence `json:"classification_confidence" yaml:"classification_confidence"`

	// Specified dimensions, extracted from the title. A dimension absent
	// from the title is nil, never zero.
	OD                  *Dimension `json:"od,omitempty" yaml:"od,omitempty"`
	Thickness           *Dimension `json:"thickness,omitempty" yaml:"thickness,omitempty"`
	CB                  *Dimension `json:"cb,omitempty" yaml:"cb,omitempty"`
	OB                  *Dimension `json:"ob,omitempty" yaml:"ob,omitempty"`
	HubHeight           *Dimension `json:"hub_height,omitempty" yaml:"hub_height,omitempty"`
	CounterboreDiameter *Dimension `json:"counterbore_diameter,omitempty" yaml:"counterbore_diameter,omitempty"`
	CounterboreDepth    *Dimension `json:"counterbore_depth,omitempty" yaml:"counterbore_depth,omitempty"`

	// Observed dimensions, re-derived from the motion commands, in
	// millimeters.
	ODObserved          *float64 `json:"od_observed,omitempty" yaml:"od_observed,omitempty"`
	CBObserved          *float64 `json:"cb_observed,omitempty" yaml:"cb_observed,omitempty"`
	OBObserved          *float64 `json:"ob_observed,omitempty" yaml:"ob_observed,omitempty"`
	DrillDepth          *float64 `json:"drill_depth,omitempty" yaml:"drill_depth,omitempty"`
	CounterboreObserved *float64 `json:"counterbore_observed,omitempty" yaml:"counterbore_observed,omitempty"`

	// TwoOpDrill reports drilling moves in both operations; the total
	// drill depth is then the sum of the two passes.
	TwoOpDrill bool `json:"two_op_drill,omitempty" yaml:"two_op_drill,omitempty"`

	PCodes             []int    `json:"p_codes,omitempty" yaml:"p_codes,omitempty"`
	PCodeImpliedHeight *float64 `json:"p_code_implied_height,omitempty" yaml:"p_code_implied_height,omitempty"`

	Material  string   `json:"material,omitempty" yaml:"material,omitempty"`
	ToolsUsed []string `json:"tools_used,omitempty" yaml:"tools_used,omitempty"`

	Findings []Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
	Status   Status    `json:"status" yaml:"status"`
}
