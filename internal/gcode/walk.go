// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/spacer-audit/pkg/types"
)

// Mode is the active operation kind.
type Mode int

const (
	ModeNone Mode = iota
	ModeTurn
	ModeDrill
	ModeBore
	ModeFace
)

// Op is the machining operation: OP1 before the flip, OP2 after.
type Op int

const (
	Op1 Op = iota
	Op2
)

// Observed is the dimension set re-derived from the command stream. All
// values in millimeters; a nil field was not seen in the program.
type Observed struct {
	OD          *float64
	CB          *float64
	OB          *float64
	DrillDepth  *float64
	Counterbore *float64

	// TwoOpDrill reports drilling moves in both operations. DrillDepth is
	// then the sum of the two deepest passes: two-operation drilling is a
	// deliberate strategy to exceed the single-pass depth limit.
	TwoOpDrill bool

	PCodes    []int
	Material  string
	Tools     []string

	// CommentThickness is a thickness stated in an inline comment, when
	// one is present ("(THK 3.04)").
	CommentThickness *float64
}

// op2Markers are the equivalent triggers for the second operation: an
// explicit second-operation label or a flip-part instruction.
var op2Markers = []string{"OP2", "OP 2", "SECOND OP", "2ND OP", "FLIP"}

var (
	pCodeComment   = regexp.MustCompile(`^P([0-9]{1,3})$`)
	thkComment     = regexp.MustCompile(`THK[ :=]+([0-9]*\.?[0-9]+)`)
	materialPrefix = regexp.MustCompile(`^MATERIAL[ :-]+(.+)$`)
)

// commentThkInchMax mirrors the title convention: comment thickness values
// at or below it are inches.
const commentThkInchMax = 6.0

// walker carries the (mode × op) state and the candidate values captured
// so far.
type walker struct {
	cfg       types.EngineConfig
	spacer    types.SpacerType
	largePart bool

	mode    Mode
	op      Op
	chamfer bool

	// feed is the modal motion state: true during G1/G2/G3 cutting moves.
	// OD capture ignores rapids, which position above the finished diameter.
	feed bool

	odMax      float64
	cbMax      float64
	obMax      float64
	cboreMax   float64
	drillDepth [2]float64

	out Observed
}

// Extract walks the block stream. The provisional archetype decides how a
// chamfer move reads: its lateral coordinate is the counterbore diameter
// on a step part but the primary bore itself on a hub-centric part.
// Unrecognized blocks are no-ops; the walk never fails.
func Extract(blocks []Block, provisional types.SpacerType, largePart bool, cfg types.EngineConfig) Observed {
	w := &walker{cfg: cfg, spacer: provisional, largePart: largePart}

	for _, b := range blocks {
		w.scanComments(b)
		if t, ok := b.Word('T'); ok {
			w.selectTool(t, b.Comment())
		}
		w.capturePCode(b)
		w.captureMotion(b)
	}

	return w.finish()
}

func (w *walker) scanComments(b Block) {
	c := b.Comment()
	if c == "" {
		return
	}

	for _, m := range op2Markers {
		if strings.Contains(c, m) {
			w.op = Op2
			// Tool state does not survive the flip.
			w.mode = ModeNone
			w.chamfer = false
			break
		}
	}

	for _, raw := range b.Comments {
		up := strings.ToUpper(strings.TrimSpace(raw))
		if m := materialPrefix.FindStringSubmatch(up); m != nil && w.out.Material == "" {
			w.out.Material = strings.TrimSpace(m[1])
		}
		if m := pCodeComment.FindStringSubmatch(up); m != nil {
			code, _ := strconv.Atoi(m[1])
			w.addPCode(code)
		}
		if m := thkComment.FindStringSubmatch(up); m != nil && w.out.CommentThickness == nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				mm := v
				if v <= commentThkInchMax {
					mm = types.InchMM(v)
				}
				w.out.CommentThickness = &mm
			}
		}
	}
}

// selectTool switches the operation kind. A keyword in the tool comment
// wins; otherwise the shop's tool-number convention applies.
func (w *walker) selectTool(t Word, comment string) {
	w.addTool(t.Raw)

	w.chamfer = false
	switch {
	case strings.Contains(comment, "CHAMFER"):
		w.mode = ModeBore
		w.chamfer = true
	case strings.Contains(comment, "DRILL"):
		w.mode = ModeDrill
	case strings.Contains(comment, "BORE"):
		w.mode = ModeBore
	case strings.Contains(comment, "FACE"):
		w.mode = ModeFace
	case strings.Contains(comment, "TURN"):
		w.mode = ModeTurn
	default:
		w.mode = modeForTool(toolNumber(t))
		if toolNumber(t) == 8 {
			w.chamfer = true
		}
	}
}

// toolNumber extracts the tool station from a T word: T0101 selects
// station 1, T5 selects station 5.
func toolNumber(t Word) int {
	n := int(t.Value)
	if n >= 100 {
		n /= 100
	}
	return n
}

// modeForTool is the shop convention: low stations turn and face, middle
// stations drill, high stations bore and chamfer.
func modeForTool(n int) Mode {
	switch n {
	case 1:
		return ModeTurn
	case 2:
		return ModeFace
	case 3, 4:
		return ModeDrill
	case 5, 6, 7, 8:
		return ModeBore
	default:
		return ModeNone
	}
}

func (w *walker) capturePCode(b Block) {
	if !b.HasG(10) {
		return
	}
	if p, ok := b.Word('P'); ok {
		w.addPCode(int(p.Value))
	}
}

// captureMotion interprets X and Z words through the current context. The
// machine's X is diametral: the coordinate value is the diameter.
func (w *walker) captureMotion(b Block) {
	if w.mode == ModeNone {
		return
	}
	// Tool-change blocks carry no motion of interest.
	if _, isTool := b.Word('T'); isTool {
		return
	}

	switch {
	case b.HasG(0):
		w.feed = false
	case b.HasG(1) || b.HasG(2) || b.HasG(3):
		w.feed = true
	}

	x, hasX := b.Word('X')
	z, hasZ := b.Word('Z')

	if hasX {
		xmm := types.InchMM(x.Value)
		switch w.mode {
		case ModeTurn:
			if w.feed && w.cfg.Ranges.OD.Contains(xmm) && xmm > w.odMax {
				w.odMax = xmm
			}
		case ModeBore:
			if w.chamfer {
				w.captureChamfer(xmm)
			} else if w.cbRange().Contains(xmm) && xmm > w.cbMax {
				w.cbMax = xmm
			}
		case ModeFace:
			// Progressive facing retracts inward when done; the largest
			// coordinate reached is the bore, the final one a retraction.
			if w.obRange().Contains(xmm) && xmm > w.obMax {
				w.obMax = xmm
			}
		}
	}

	if hasZ && w.mode == ModeDrill && z.Value < 0 {
		depth := math.Abs(z.Value)
		if depth > w.drillDepth[w.op] {
			w.drillDepth[w.op] = depth
		}
	}
}

// captureChamfer routes a chamfer coordinate by archetype. On a step part
// it is the counterbore diameter and the primary bore stays open, so the
// scan continues for the true full-depth bore.
func (w *walker) captureChamfer(xmm float64) {
	if w.spacer == types.SpacerStep {
		if w.cfg.Ranges.Counterbore.Contains(xmm) && xmm > w.cboreMax {
			w.cboreMax = xmm
		}
		return
	}
	if w.cbRange().Contains(xmm) && xmm > w.cbMax {
		w.cbMax = xmm
	}
}

func (w *walker) cbRange() types.Range {
	if w.largePart {
		return w.cfg.Ranges.CBLarge
	}
	return w.cfg.Ranges.CB
}

func (w *walker) obRange() types.Range {
	if w.largePart {
		return w.cfg.Ranges.OBLarge
	}
	return w.cfg.Ranges.OB
}

func (w *walker) addPCode(code int) {
	if code <= 0 {
		return
	}
	for _, c := range w.out.PCodes {
		if c == code {
			return
		}
	}
	w.out.PCodes = append(w.out.PCodes, code)
}

func (w *walker) addTool(raw string) {
	for _, t := range w.out.Tools {
		if t == raw {
			return
		}
	}
	w.out.Tools = append(w.out.Tools, raw)
}

func (w *walker) finish() Observed {
	out := w.out

	if w.odMax > 0 {
		out.OD = ptr(w.odMax)
	}
	if w.cbMax > 0 {
		out.CB = ptr(w.cbMax)
	}
	if w.obMax > 0 {
		out.OB = ptr(w.obMax)
	}
	if w.cboreMax > 0 {
		out.Counterbore = ptr(w.cboreMax)
	}

	d1, d2 := w.drillDepth[Op1], w.drillDepth[Op2]
	switch {
	case d1 > 0 && d2 > 0:
		out.TwoOpDrill = true
		out.DrillDepth = ptr(types.InchMM(d1 + d2))
	case d1 > 0:
		out.DrillDepth = ptr(types.InchMM(d1))
	case d2 > 0:
		out.DrillDepth = ptr(types.InchMM(d2))
	}

	return out
}

func ptr(v float64) *float64 { return &v }
