// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Lathe identifies which machine a program is assigned to. The empty value
// means no assignment; feasibility checks are skipped for it.
type Lathe string

const (
	LatheNone Lathe = ""
	LatheST20 Lathe = "st20"
	LatheST30 Lathe = "st30"
)

// LatheSpec describes one machine's physical envelope. All values in
// millimeters.
type LatheSpec struct {
	// Name is the display name of the machine.
	Name string `json:"name" yaml:"name"`

	// ChuckCapacity is the largest OD the chuck can hold.
	ChuckCapacity float64 `json:"chuck_capacity" yaml:"chuck_capacity"`

	// StockODs lists the round stock diameters kept for this machine.
	StockODs []float64 `json:"stock_ods" yaml:"stock_ods"`

	// MinThickness and MaxThickness bound the part heights the machine's
	// work-holding supports.
	MinThickness float64 `json:"min_thickness" yaml:"min_thickness"`
	MaxThickness float64 `json:"max_thickness" yaml:"max_thickness"`
}

// Range is a closed numeric acceptance interval in millimeters.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v lies inside the interval.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// AcceptanceRanges bounds the plausible value of each dimension. Candidate
// numbers outside the range are rejected by the extraction rules rather
// than recorded as spurious dimensions. Large-OD parts get wider bore
// ranges since their hub and bore diameters scale up.
type AcceptanceRanges struct {
	OD          Range `json:"od" yaml:"od"`
	Thickness   Range `json:"thickness" yaml:"thickness"`
	CB          Range `json:"cb" yaml:"cb"`
	CBLarge     Range `json:"cb_large" yaml:"cb_large"`
	OB          Range `json:"ob" yaml:"ob"`
	OBLarge     Range `json:"ob_large" yaml:"ob_large"`
	Counterbore Range `json:"counterbore" yaml:"counterbore"`
	HubHeight   Range `json:"hub_height" yaml:"hub_height"`
}

// Band is a two-tier tolerance band in millimeters: deltas at or below
// Warn are silent, deltas above Crit are critical, anything between is a
// warning.
type Band struct {
	Warn float64 `json:"warn" yaml:"warn"`
	Crit float64 `json:"crit" yaml:"crit"`
}

// Grade maps an absolute delta onto a severity, or "" when the delta is
// inside the silent band.
func (b Band) Grade(delta float64) Severity {
	switch {
	case delta > b.Crit:
		return SeverityCritical
	case delta > b.Warn:
		return SeverityWarning
	default:
		return ""
	}
}

// ToleranceBands holds every comparison band used by cross-validation.
// Band selection depends on archetype, OD tier, and drilling strategy; the
// selection logic lives in the validation stage, not here.
type ToleranceBands struct {
	OD Band `json:"od" yaml:"od"`

	// ODLarge applies to parts at or above LargeODMin, where mixed-unit
	// titles and rounded conversions produce bigger legitimate deltas.
	ODLarge Band `json:"od_large" yaml:"od_large"`

	Thickness Band `json:"thickness" yaml:"thickness"`

	// ThicknessTwoOp applies when drilling spans both operations; the
	// second pass deliberately over-travels to guarantee separation.
	ThicknessTwoOp Band `json:"thickness_two_op" yaml:"thickness_two_op"`

	CB          Band `json:"cb" yaml:"cb"`
	OB          Band `json:"ob" yaml:"ob"`
	Counterbore Band `json:"counterbore" yaml:"counterbore"`

	// PCode grades disagreement between the P-code-implied body thickness
	// and the title or drill-derived thickness.
	PCode Band `json:"p_code" yaml:"p_code"`
}

// PCodeTable maps a first-operation offset code to the total part height
// in millimeters it implies. The complementary second-operation code for
// code n is n+PCodeOp2Offset and implies the same height.
type PCodeTable map[int]float64

// PCodeOp2Offset separates first-operation codes from their
// second-operation complements.
const PCodeOp2Offset = 50

// EngineConfig is the immutable configuration for one parse. The shop
// defaults come from DefaultEngineConfig; a YAML config file may override
// individual tables.
type EngineConfig struct {
	Ranges     AcceptanceRanges    `json:"ranges" yaml:"ranges"`
	Tolerances ToleranceBands      `json:"tolerances" yaml:"tolerances"`
	PCodes     PCodeTable          `json:"p_codes" yaml:"p_codes"`
	Lathes     map[Lathe]LatheSpec `json:"lathes" yaml:"lathes"`

	// LargeODMin is the OD threshold (mm) above which a part counts as
	// large: wider OD band, wider bore ranges, and mixed-unit bore
	// inference enabled.
	LargeODMin float64 `json:"large_od_min" yaml:"large_od_min"`

	// HubUpgradeMin is how far (mm) the observed drill depth must exceed
	// the title thickness before a hub feature is inferred and a
	// standard/step part is reclassified hub-centric.
	HubUpgradeMin float64 `json:"hub_upgrade_min" yaml:"hub_upgrade_min"`

	// StockSlack is the allowed gap (mm) between a part OD and the
	// nearest supported stock diameter.
	StockSlack float64 `json:"stock_slack" yaml:"stock_slack"`

	// DrillOverTravel is the expected drill travel (mm) beyond the part
	// thickness on a normal single-operation through-drill.
	DrillOverTravel float64 `json:"drill_over_travel" yaml:"drill_over_travel"`
}

// ScanConfig holds settings for the batch scan stage.
type ScanConfig struct {
	// ProgramsDir is the directory walked for .nc program files.
	ProgramsDir string `json:"programs_dir" yaml:"programs_dir"`

	// Workers bounds the parse worker pool (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// OutputDir receives one <program>-audit.yaml per parsed program.
	// Empty means no per-program files are written.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// CatalogConfig holds settings for the catalog store.
type CatalogConfig struct {
	// CatalogDir is the base directory for the catalog (contains index/).
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// DefaultEngineConfig returns the shop's standard tables.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Ranges: AcceptanceRanges{
			OD:          Range{Min: 101.6, Max: 508},
			Thickness:   Range{Min: 3.0, Max: 110},
			CB:          Range{Min: 50, Max: 160},
			CBLarge:     Range{Min: 50, Max: 260},
			OB:          Range{Min: 54, Max: 236},
			OBLarge:     Range{Min: 54, Max: 330},
			Counterbore: Range{Min: 54, Max: 260},
			HubHeight:   Range{Min: 3, Max: 40},
		},
		Tolerances: ToleranceBands{
			OD:             Band{Warn: 0.5, Crit: 1.5},
			ODLarge:        Band{Warn: 1.3, Crit: 3.2},
			Thickness:      Band{Warn: 2.0, Crit: 5.0},
			ThicknessTwoOp: Band{Warn: 6.0, Crit: 12.0},
			CB:             Band{Warn: 0.3, Crit: 0.8},
			OB:             Band{Warn: 0.3, Crit: 0.8},
			Counterbore:    Band{Warn: 0.5, Crit: 1.5},
			PCode:          Band{Warn: 0.5, Crit: 1.5},
		},
		PCodes:          defaultPCodeTable(),
		Lathes:          defaultLathes(),
		LargeODMin:      254, // 10 in
		HubUpgradeMin:   5.0,
		StockSlack:      3.2,
		DrillOverTravel: 3.0,
	}
}

// defaultPCodeTable covers the standard imperial and metric thickness
// series. Codes 1-29 are the imperial series, 30-49 the metric series;
// second-operation complements are code+50.
func defaultPCodeTable() PCodeTable {
	return PCodeTable{
		1:  InchMM(0.25),
		2:  InchMM(0.375),
		3:  InchMM(0.5),
		4:  InchMM(0.625),
		5:  InchMM(0.75),
		6:  InchMM(1.0),
		7:  InchMM(1.25),
		8:  InchMM(1.5),
		9:  InchMM(1.75),
		10: InchMM(2.0),
		11: InchMM(2.25),
		12: InchMM(2.5),
		13: InchMM(3.0),
		14: InchMM(3.5),
		15: InchMM(4.0),
		30: 6,
		31: 8,
		32: 10,
		33: 12,
		34: 15,
		35: 17,
		36: 20,
		37: 25,
		38: 30,
		39: 35,
		40: 40,
	}
}

func defaultLathes() map[Lathe]LatheSpec {
	return map[Lathe]LatheSpec{
		LatheST20: {
			Name:          "ST-20",
			ChuckCapacity: 254,
			StockODs:      []float64{114.3, 127, 152.4, 177.8, 203.2, 228.6, 254},
			MinThickness:  5,
			MaxThickness:  76.2,
		},
		LatheST30: {
			Name:          "ST-30",
			ChuckCapacity: 381,
			StockODs:      []float64{203.2, 228.6, 254, 279.4, 304.8, 330.2, 355.6},
			MinThickness:  6,
			MaxThickness:  101.6,
		},
	}
}
