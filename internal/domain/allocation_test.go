package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   string
		residual string
		want     string
	}{
		{"within range", "40", "100", "40"},
		{"above residual", "150", "100", "100"},
		{"negative amount", "-5", "100", "0"},
		{"negative residual", "10", "-3", "0"},
		{"zero residual", "10", "0", "0"},
		{"exact residual", "100", "100", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(decimal.RequireFromString(tt.amount), decimal.RequireFromString(tt.residual))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("Clamp(%s, %s) = %s, want %s", tt.amount, tt.residual, got, tt.want)
			}
		})
	}
}

func TestAllocationLineSetRequested(t *testing.T) {
	t.Parallel()

	line := NewAllocationLine("l1", &LedgerEntry{ID: "e1"}, EntryKindInvoice, decimal.NewFromInt(100))
	if !line.Requested.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected new line to request full residual, got %s", line.Requested)
	}

	line.SetRequested(decimal.NewFromInt(500), decimal.NewFromInt(80))
	if !line.Requested.Equal(decimal.NewFromInt(80)) || !line.ResidualSettlement.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected clamp to refreshed residual 80, got requested=%s residual=%s", line.Requested, line.ResidualSettlement)
	}

	line.SetRequested(decimal.NewFromInt(-1), decimal.NewFromInt(80))
	if !line.Requested.IsZero() {
		t.Fatalf("expected negative edit to clamp to zero, got %s", line.Requested)
	}
}

func TestTotalToPay(t *testing.T) {
	t.Parallel()

	session := &AllocationSession{Lines: []*AllocationLine{
		NewAllocationLine("d1", &LedgerEntry{ID: "e1"}, EntryKindInvoice, decimal.NewFromInt(100)),
		NewAllocationLine("d2", &LedgerEntry{ID: "e2"}, EntryKindGeneric, decimal.NewFromInt(20)),
		NewAllocationLine("c1", &LedgerEntry{ID: "e3"}, EntryKindRefund, decimal.NewFromInt(30)),
		NewAllocationLine("c2", &LedgerEntry{ID: "e4"}, EntryKindPayment, decimal.NewFromInt(5)),
	}}

	if got := session.TotalToPay(); !got.Equal(decimal.NewFromInt(85)) {
		t.Fatalf("TotalToPay() = %s, want 85", got)
	}

	debits, credits := session.Split()
	if len(debits) != 2 || len(credits) != 2 {
		t.Fatalf("expected 2 debits and 2 credits, got %d and %d", len(debits), len(credits))
	}
}

func TestAllocationSessionLines(t *testing.T) {
	t.Parallel()

	session := &AllocationSession{Lines: []*AllocationLine{
		NewAllocationLine("a", &LedgerEntry{ID: "e1"}, EntryKindInvoice, decimal.NewFromInt(1)),
		NewAllocationLine("b", &LedgerEntry{ID: "e2"}, EntryKindInvoice, decimal.NewFromInt(1)),
		NewAllocationLine("c", &LedgerEntry{ID: "e3"}, EntryKindInvoice, decimal.NewFromInt(1)),
	}}

	if _, err := session.Line("b"); err != nil {
		t.Fatalf("expected to find line b: %v", err)
	}
	if _, err := session.Line("zz"); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
	if !session.HasEntry("e3") || session.HasEntry("e9") {
		t.Fatalf("HasEntry returned unexpected result")
	}

	if removed := session.RemoveLines([]string{"a", "c", "missing"}); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if len(session.Lines) != 1 || session.Lines[0].ID != "b" {
		t.Fatalf("unexpected remaining lines: %+v", session.Lines)
	}
}

func TestParseModes(t *testing.T) {
	t.Parallel()

	if m, err := ParseAllocationMode(""); err != nil || m != AllocationModeGrouped {
		t.Fatalf("expected grouped default, got %s %v", m, err)
	}
	if _, err := ParseAllocationMode("bulk"); !errors.Is(err, ErrInvalidAllocationMode) {
		t.Fatalf("expected ErrInvalidAllocationMode, got %v", err)
	}
	if m, err := ParseRateMode("fixed"); err != nil || m != RateModeFixed {
		t.Fatalf("expected fixed, got %s %v", m, err)
	}
	if _, err := ParseRateMode("spot"); !errors.Is(err, ErrInvalidRateMode) {
		t.Fatalf("expected ErrInvalidRateMode, got %v", err)
	}
}

func TestConversionSettingsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		s       ConversionSettings
		wantErr error
	}{
		{"market without rate", ConversionSettings{Mode: RateModeMarket}, nil},
		{"market with rate", ConversionSettings{Mode: RateModeMarket, FixedRate: decimal.NewFromInt(2)}, ErrInvalidRate},
		{"fixed with rate", ConversionSettings{Mode: RateModeFixed, FixedRate: decimal.RequireFromString("1.1")}, nil},
		{"fixed without rate", ConversionSettings{Mode: RateModeFixed}, ErrInvalidRate},
		{"fixed negative", ConversionSettings{Mode: RateModeFixed, FixedRate: decimal.NewFromInt(-1)}, ErrInvalidRate},
		{"unknown mode", ConversionSettings{Mode: "spot"}, ErrInvalidRateMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
