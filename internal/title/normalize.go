// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package title lexes program titles into dimension tokens and extracts
// the specified dimension set through an ordered rule table.
package title

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/spacer-audit/pkg/types"
)

// Kind discriminates token variants.
type Kind int

const (
	// KindWord is a non-numeric token (keywords, markers).
	KindWord Kind = iota

	// KindNumber is a single numeric token, possibly with an attached unit.
	KindNumber

	// KindPair is a slash-separated bore pair.
	KindPair
)

// Token is one lexed element of a title.
type Token struct {
	Kind Kind

	// Text is the normalized token text.
	Text string

	// Value is the numeric value for KindNumber tokens.
	Value float64

	// Unit is the explicitly marked unit, or "" when no marker was adjacent.
	Unit types.Unit

	// A and B are the halves of a KindPair token, each a KindNumber.
	A, B *Token
}

// Stream is the lexed form of a title.
type Stream struct {
	// Raw is the original title text.
	Raw string

	// Upper is the typo-repaired, uppercased title used for keyword scans.
	Upper string

	Tokens []Token

	// Dropped counts number-like tokens that could not be parsed. Any
	// dropped token marks the stream low-confidence; the lexer never fails.
	Dropped int
}

// LowConfidence reports whether any token had to be dropped.
func (s Stream) LowConfidence() bool { return s.Dropped > 0 }

var (
	// doublePeriod collapses the ".." typo.
	doublePeriod = regexp.MustCompile(`\.\.+`)

	// missingZero matches a decimal point with no leading digit, at the
	// start of a token.
	missingZero = regexp.MustCompile(`(^|[\s/(])\.([0-9])`)

	// missingZeroAfterX matches the same defect glued to the X separator
	// ("X.75"). The number is split off the X so it lexes on its own.
	missingZeroAfterX = regexp.MustCompile(`X\.([0-9])`)

	// dashPair matches number-dash-number, the dash typed in place of the
	// bore-pair slash.
	dashPair = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)(MM|IN)?-([0-9]+(?:\.[0-9]+)?)(MM|IN)?`)
)

// borePairMin is the smallest value treated as a bore when deciding
// whether a dash or an extra period is really a pair separator. Keeps
// "5-LUG"-style tokens intact.
const borePairMin = 20.0

// Normalize lexes a raw title into a token stream. It repairs the known
// typographical defects first (double periods, missing leading zeros, a
// dash used as the bore separator) and never fails: unparsable tokens are
// dropped and counted.
func Normalize(raw string) Stream {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	upper = doublePeriod.ReplaceAllString(upper, ".")
	upper = missingZero.ReplaceAllString(upper, "${1}0.${2}")
	upper = missingZeroAfterX.ReplaceAllString(upper, "X 0.$1")
	upper = repairDashes(upper)

	s := Stream{Raw: raw, Upper: upper}

	for _, field := range strings.Fields(upper) {
		tok, ok := lexField(field, &s)
		if !ok {
			continue
		}

		// A standalone unit word applies to the preceding number or pair.
		if tok.Kind == KindWord && (tok.Text == "MM" || tok.Text == "IN") {
			s.attachUnit(unitFor(tok.Text))
		}

		s.Tokens = append(s.Tokens, tok)
	}

	return s
}

// repairDashes rewrites number-dash-number as a slash pair when both sides
// are bore-sized. Hyphenated words and small counts ("5-LUG") are left alone.
func repairDashes(s string) string {
	return dashPair.ReplaceAllStringFunc(s, func(m string) string {
		sub := dashPair.FindStringSubmatch(m)
		a, errA := strconv.ParseFloat(sub[1], 64)
		b, errB := strconv.ParseFloat(sub[3], 64)
		if errA != nil || errB != nil || a < borePairMin || b < borePairMin {
			return m
		}
		return sub[1] + sub[2] + "/" + sub[3] + sub[4]
	})
}

// lexField turns one whitespace-delimited field into a token. ok is false
// when the field was dropped as unparsable.
func lexField(field string, s *Stream) (Token, bool) {
	trimmed := strings.Trim(field, "(),")
	if trimmed == "" {
		return Token{}, false
	}

	if i := strings.IndexByte(trimmed, '/'); i > 0 && i < len(trimmed)-1 {
		left, okL := lexNumber(trimmed[:i])
		right, okR := lexNumber(trimmed[i+1:])
		if okL && okR {
			return Token{Kind: KindPair, Text: trimmed, A: &left, B: &right}, true
		}
	}

	if tok, ok := lexNumber(trimmed); ok {
		return tok, true
	}

	// Number-like but unparsable: try the extra-period pair form, then drop.
	if strings.IndexFunc(trimmed, isDigit) == 0 {
		if tok, ok := splitPeriodPair(trimmed); ok {
			return tok, true
		}
		if strings.Count(trimmed, ".") > 1 {
			s.Dropped++
			return Token{}, false
		}
	}

	return Token{Kind: KindWord, Text: trimmed}, true
}

// lexNumber parses a numeric token with an optional MM/IN suffix.
func lexNumber(s string) (Token, bool) {
	text := s
	var unit types.Unit
	switch {
	case strings.HasSuffix(s, "MM"):
		unit = types.UnitMM
		s = strings.TrimSuffix(s, "MM")
	case strings.HasSuffix(s, "IN"):
		unit = types.UnitInch
		s = strings.TrimSuffix(s, "IN")
	case strings.HasSuffix(s, `"`):
		unit = types.UnitInch
		s = strings.TrimSuffix(s, `"`)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Token{}, false
	}
	return Token{Kind: KindNumber, Text: text, Value: v, Unit: unit}, true
}

// splitPeriodPair handles the period-as-separator defect: a token holding
// two decimal numbers joined by a period ("90.5.74.1"). The guard against
// ordinary decimal points is that both halves must parse and be bore-sized.
func splitPeriodPair(s string) (Token, bool) {
	for i := 1; i < len(s)-1; i++ {
		if s[i] != '.' {
			continue
		}
		left, okL := lexNumber(s[:i])
		right, okR := lexNumber(s[i+1:])
		if okL && okR && left.Value >= borePairMin && right.Value >= borePairMin {
			return Token{Kind: KindPair, Text: s, A: &left, B: &right}, true
		}
	}
	return Token{}, false
}

// attachUnit applies a trailing unit word to the immediately preceding
// number or pair token ("90/74 MM"), filling only halves with no explicit
// marker of their own. A word in between breaks the adjacency.
func (s *Stream) attachUnit(u types.Unit) {
	if len(s.Tokens) == 0 {
		return
	}
	switch t := &s.Tokens[len(s.Tokens)-1]; t.Kind {
	case KindNumber:
		if t.Unit == "" {
			t.Unit = u
		}
	case KindPair:
		if t.A.Unit == "" {
			t.A.Unit = u
		}
		if t.B.Unit == "" {
			t.B.Unit = u
		}
	}
}

func unitFor(word string) types.Unit {
	if word == "MM" {
		return types.UnitMM
	}
	return types.UnitInch
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
