package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      error
		wantCode string
		wantKind ErrorKind
	}{
		{ErrRateUnavailable, "rate_unavailable", KindUnprocessable},
		{fmt.Errorf("convert EUR: %w", ErrRateUnavailable), "rate_unavailable", KindUnprocessable},
		{ErrPartyLocked, "party_locked", KindConflict},
		{ErrLineNotFound, "line_not_found", KindNotFound},
		{ErrMemoTooLong, "memo_too_long", KindInvalid},
		{fmt.Errorf("%w: %w", ErrSettlementCreationFailed, errors.New("duplicate key")), "settlement_creation_failed", KindInternal},
		{errors.New("connection reset"), "internal", KindInternal},
	}

	for _, tt := range tests {
		code, kind := Classify(tt.err)
		if code != tt.wantCode || kind != tt.wantKind {
			t.Fatalf("Classify(%v) = %s/%d, want %s/%d", tt.err, code, kind, tt.wantCode, tt.wantKind)
		}
	}
}
