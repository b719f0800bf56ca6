package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
)

type consistencyFunc func(ctx context.Context) (*domain.ConsistencyReport, error)

func (f consistencyFunc) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	return f(ctx)
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name string
		fn   consistencyFunc
		want int
		body string
	}{
		{
			name: "consistent",
			fn: func(context.Context) (*domain.ConsistencyReport, error) {
				return &domain.ConsistencyReport{}, nil
			},
			want: http.StatusOK,
			body: `"consistent":true`,
		},
		{
			name: "inconsistent",
			fn: func(context.Context) (*domain.ConsistencyReport, error) {
				return &domain.ConsistencyReport{OverSettled: 2},
					fmt.Errorf("%w: 2 over-settled, 0 stale residuals", domain.ErrInconsistentLedger)
			},
			want: http.StatusConflict,
			body: `"error":"inconsistent_ledger"`,
		},
		{
			name: "query failure",
			fn: func(context.Context) (*domain.ConsistencyReport, error) {
				return nil, errors.New("db down")
			},
			want: http.StatusInternalServerError,
			body: `"message":"db down"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewLedgerHandler(tt.fn).CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestLedgerHandler_CheckConsistencyListsSamples(t *testing.T) {
	checker := consistencyFunc(func(context.Context) (*domain.ConsistencyReport, error) {
		return &domain.ConsistencyReport{
			StaleResiduals: 1,
			Samples: []domain.InconsistentEntry{{
				EntryID:  "entry-1",
				Balance:  decimal.NewFromInt(100),
				Residual: decimal.NewFromInt(40),
				Settled:  decimal.NewFromInt(50),
			}},
		}, fmt.Errorf("%w: 0 over-settled, 1 stale residuals", domain.ErrInconsistentLedger)
	})

	rec := httptest.NewRecorder()
	NewLedgerHandler(checker).CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp dto.ConsistencyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Consistent)
	assert.Equal(t, int64(1), resp.StaleResiduals)
	require.Len(t, resp.Samples, 1)
	assert.Equal(t, "entry-1", resp.Samples[0].EntryID)
	assert.True(t, resp.Samples[0].Settled.Equal(decimal.NewFromInt(50)))
}
