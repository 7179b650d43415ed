// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"testing"

	"github.com/pdiddy/spacer-audit/internal/title"
	"github.com/pdiddy/spacer-audit/pkg/types"
)

func provisional(t *testing.T, raw string) Decision {
	t.Helper()
	cfg := types.DefaultEngineConfig()
	s := title.Normalize(raw)
	return Provisional(s, title.Extract(s, cfg))
}

// --- provisional pass tests ---

func TestProvisional(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType types.SpacerType
		wantConf types.Confidence
	}{
		{"plain standard", "6.0 X 1.0 SPACER", types.SpacerStandard, types.ConfidenceMedium},
		{"hub centric keyword", "6.0 X 1.0 73MM HC", types.SpacerHubCentric, types.ConfidenceHigh},
		{"hubcentric spelled out", "6.0 X 1.0 HUB CENTRIC 73MM", types.SpacerHubCentric, types.ConfidenceHigh},
		{"step keyword", "6.0 X 1.25 90/74 CBORE", types.SpacerStep, types.ConfidenceHigh},
		{"pair without hub keyword", "6.0 X 1.25 90MM/74MM", types.SpacerStep, types.ConfidenceMedium},
		{"pair with hub keyword", "6.0 X 1.25 90MM/74MM HC", types.SpacerHubCentric, types.ConfidenceHigh},
		{"two piece stud", "2PC STUD 6.0 X 1.0", types.SpacerStud2Pc, types.ConfidenceHigh},
		{"two piece insert", "2 PIECE INSERT 6.0", types.SpacerStud2Pc, types.ConfidenceHigh},
		{"two piece lug", "2PC LUG 6.0 X 1.0", types.SpacerLug2Pc, types.ConfidenceHigh},
		{"two piece receiver", "2-PC RECEIVER 6.0 X 1.0", types.SpacerLug2Pc, types.ConfidenceHigh},
		{"two piece bare", "2PC 6.0", types.SpacerUnresolved2Pc, types.ConfidenceLow},
		{"two piece with thickness only", "2PC 6.0 X 1.0", types.SpacerLug2Pc, types.ConfidenceMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := provisional(t, tt.raw)
			if d.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", d.Type, tt.wantType)
			}
			if d.Confidence != tt.wantConf {
				t.Errorf("Confidence = %s, want %s", d.Confidence, tt.wantConf)
			}
		})
	}
}

func TestProvisionalTwoPieceBeatsHub(t *testing.T) {
	// The hub keyword on a two-piece title describes the mating interface,
	// not this part. Insert half carries the hub.
	d := provisional(t, "2PC HUB CENTRIC 6.0 X 1.0")
	if d.Type != types.SpacerStud2Pc {
		t.Errorf("Type = %s, want %s", d.Type, types.SpacerStud2Pc)
	}
}

func TestProvisionalHubWordBoundary(t *testing.T) {
	// HC must match as a word, not inside other text.
	d := provisional(t, "6.0 X 1.0 SCHCS SPACER")
	if d.Type != types.SpacerStandard {
		t.Errorf("Type = %s, want standard", d.Type)
	}
}

func TestProvisionalLowConfidenceStream(t *testing.T) {
	// A dropped token caps confidence at medium.
	d := provisional(t, "6.0.0.5X X 1.0 73MM HC")
	if d.Type != types.SpacerHubCentric {
		t.Errorf("Type = %s, want hub_centric", d.Type)
	}
	if d.Confidence != types.ConfidenceMedium {
		t.Errorf("Confidence = %s, want medium", d.Confidence)
	}
}

// --- final pass tests ---

func TestFinal(t *testing.T) {
	cfg := types.DefaultEngineConfig()
	thk := 25.4
	shallow := 28.4  // thickness plus over-travel, no hub implied
	deep := 40.0     // well past the upgrade threshold

	tests := []struct {
		name        string
		provisional types.SpacerType
		thickness   *float64
		drill       *float64
		want        types.SpacerType
	}{
		{"standard stays", types.SpacerStandard, &thk, &shallow, types.SpacerStandard},
		{"standard upgrades", types.SpacerStandard, &thk, &deep, types.SpacerHubCentric},
		{"step upgrades", types.SpacerStep, &thk, &deep, types.SpacerHubCentric},
		{"hub centric stays", types.SpacerHubCentric, &thk, &deep, types.SpacerHubCentric},
		{"two piece never upgrades", types.SpacerLug2Pc, &thk, &deep, types.SpacerLug2Pc},
		{"unresolved two piece stays", types.SpacerUnresolved2Pc, &thk, &deep, types.SpacerUnresolved2Pc},
		{"no thickness no upgrade", types.SpacerStandard, nil, &deep, types.SpacerStandard},
		{"no drill no upgrade", types.SpacerStandard, &thk, nil, types.SpacerStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Final(tt.provisional, tt.thickness, tt.drill, cfg)
			if got != tt.want {
				t.Errorf("Final = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFinalThresholdBoundary(t *testing.T) {
	cfg := types.DefaultEngineConfig()
	thk := 25.4

	// Exactly at threshold upgrades; just below does not.
	at := thk + cfg.HubUpgradeMin + cfg.DrillOverTravel
	below := at - 0.01

	if got := Final(types.SpacerStandard, &thk, &at, cfg); got != types.SpacerHubCentric {
		t.Errorf("at threshold: %s, want hub_centric", got)
	}
	if got := Final(types.SpacerStandard, &thk, &below, cfg); got != types.SpacerStandard {
		t.Errorf("below threshold: %s, want standard", got)
	}
}
