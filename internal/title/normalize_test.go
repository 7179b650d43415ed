// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package title

import (
	"testing"

	"github.com/pdiddy/spacer-audit/pkg/types"
)

// --- typo repair tests ---

func TestNormalizeTypoRepair(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantUpper string
	}{
		{"double period", "6..0 OD", "6.0 OD"},
		{"missing leading zero", ".75 THK", "0.75 THK"},
		{"missing zero after x", "6.0 X.75", "6.0 X 0.75"},
		{"dash as pair separator", "90MM-74MM SPACER", "90MM/74MM SPACER"},
		{"lug count dash kept", "5-LUG 90/74", "5-LUG 90/74"},
		{"small dash numbers kept", "6.0-1.25", "6.0-1.25"},
		{"lowercase input", "6.0 od x 1.0", "6.0 OD X 1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Normalize(tt.raw)
			if s.Upper != tt.wantUpper {
				t.Errorf("Upper = %q, want %q", s.Upper, tt.wantUpper)
			}
		})
	}
}

// --- lexing tests ---

func TestNormalizeTokens(t *testing.T) {
	s := Normalize("6.0 OD X 1.25 THK 73MM HC")

	want := []struct {
		kind  Kind
		text  string
		value float64
		unit  types.Unit
	}{
		{KindNumber, "6.0", 6.0, ""},
		{KindWord, "OD", 0, ""},
		{KindWord, "X", 0, ""},
		{KindNumber, "1.25", 1.25, ""},
		{KindWord, "THK", 0, ""},
		{KindNumber, "73MM", 73, types.UnitMM},
		{KindWord, "HC", 0, ""},
	}

	if len(s.Tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(s.Tokens), len(want), s.Tokens)
	}
	for i, w := range want {
		tok := s.Tokens[i]
		if tok.Kind != w.kind || tok.Text != w.text || tok.Value != w.value || tok.Unit != w.unit {
			t.Errorf("token %d = %+v, want %+v", i, tok, w)
		}
	}
}

func TestNormalizeGluedZeroAfterX(t *testing.T) {
	// "X.75" must lex as the X separator plus a number, not one word.
	s := Normalize("6.0 X.75 74MM")

	var sawX, sawNum bool
	for _, tok := range s.Tokens {
		if tok.Kind == KindWord && tok.Text == "X" {
			sawX = true
		}
		if tok.Kind == KindNumber && tok.Value == 0.75 {
			sawNum = true
		}
	}
	if !sawX || !sawNum {
		t.Errorf("X separator or 0.75 lost: %+v", s.Tokens)
	}
}

func TestNormalizePairToken(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantA      float64
		wantB      float64
		wantAUnit  types.Unit
		wantBUnit  types.Unit
	}{
		{"both marked", "90MM/74MM", 90, 74, types.UnitMM, types.UnitMM},
		{"unmarked", "90/74", 90, 74, "", ""},
		{"trailing unit word", "90/74 MM", 90, 74, types.UnitMM, types.UnitMM},
		{"mixed marking", "6.25/220MM", 6.25, 220, "", types.UnitMM},
		{"inch suffix", `6.25"/220MM`, 6.25, 220, types.UnitInch, types.UnitMM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Normalize(tt.raw)
			var pair *Token
			for i := range s.Tokens {
				if s.Tokens[i].Kind == KindPair {
					pair = &s.Tokens[i]
					break
				}
			}
			if pair == nil {
				t.Fatalf("no pair token in %+v", s.Tokens)
			}
			if pair.A.Value != tt.wantA || pair.A.Unit != tt.wantAUnit {
				t.Errorf("A = %v %q, want %v %q", pair.A.Value, pair.A.Unit, tt.wantA, tt.wantAUnit)
			}
			if pair.B.Value != tt.wantB || pair.B.Unit != tt.wantBUnit {
				t.Errorf("B = %v %q, want %v %q", pair.B.Value, pair.B.Unit, tt.wantB, tt.wantBUnit)
			}
		})
	}
}

func TestNormalizePeriodPair(t *testing.T) {
	// A period typed in place of the pair slash: both halves bore-sized.
	s := Normalize("SPACER 90.5.74.1")

	var pair *Token
	for i := range s.Tokens {
		if s.Tokens[i].Kind == KindPair {
			pair = &s.Tokens[i]
			break
		}
	}
	if pair == nil {
		t.Fatalf("no pair token in %+v", s.Tokens)
	}
	if pair.A.Value != 90.5 || pair.B.Value != 74.1 {
		t.Errorf("pair = %v/%v, want 90.5/74.1", pair.A.Value, pair.B.Value)
	}
}

func TestNormalizeUnitWordAdjacency(t *testing.T) {
	// A word between the number and the unit breaks the attachment.
	s := Normalize("90 SPACER MM")
	if s.Tokens[0].Unit != "" {
		t.Errorf("unit attached across a word: %+v", s.Tokens[0])
	}
}

// --- dropped token tests ---

func TestNormalizeDropsUnparsable(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantDropped int
	}{
		{"clean title", "6.0 OD X 1.0", 0},
		{"garbled number", "6.0.0.5X OD", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Normalize(tt.raw)
			if s.Dropped != tt.wantDropped {
				t.Errorf("Dropped = %d, want %d (tokens %+v)", s.Dropped, tt.wantDropped, s.Tokens)
			}
			if s.LowConfidence() != (tt.wantDropped > 0) {
				t.Errorf("LowConfidence = %v", s.LowConfidence())
			}
		})
	}
}
