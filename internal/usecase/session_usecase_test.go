package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

type sessionHarness struct {
	ledger   *memLedger
	sessions *memSessions
	audit    *memAudit
	dir      *directory
	uc       *usecase.SessionUseCase
}

func newSessionHarness(entries ...*domain.LedgerEntry) *sessionHarness {
	h := &sessionHarness{
		ledger:   newMemLedger(entries...),
		sessions: newMemSessions(),
		audit:    &memAudit{},
		dir:      newDirectory(),
	}
	h.uc = usecase.NewSessionUseCase(usecase.SessionDeps{
		Sessions:   h.sessions,
		Ledger:     h.ledger,
		Converter:  usecase.NewConverter(mapRates{"EUR": dec("0.5")}, nil),
		Parties:    partyLookup{h.dir},
		Companies:  companyLookup{h.dir},
		Journals:   journalLookup{h.dir},
		Currencies: currencyLookup{h.dir},
		Audit:      h.audit,
		IDGen:      &seqIDs{},
		Logger:     zerolog.Nop(),
	})
	return h
}

func loadInput() usecase.LoadSessionInput {
	return usecase.LoadSessionInput{
		PartyID:            "party-1",
		CompanyID:          "co-1",
		JournalID:          "bank",
		SettlementCurrency: "usd",
		AsOf:               day(10),
	}
}

func TestSessionUseCase_Load(t *testing.T) {
	h := newSessionHarness(invoice("d1", "100", 1), payment("c1", "60", 2))

	session, err := h.uc.Load(context.Background(), loadInput())
	require.NoError(t, err)

	assert.Equal(t, "USD", session.SettlementCurrency)
	assert.Equal(t, domain.AllocationModeGrouped, session.Mode)
	assert.Equal(t, domain.RateModeMarket, session.Conversion.Mode)
	require.Len(t, session.Lines, 2)
	assert.Equal(t, "40", session.TotalToPay().String())

	stored, err := h.uc.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Same(t, session, stored)

	require.Len(t, h.audit.logs, 1)
	assert.Equal(t, string(domain.AuditActionSessionLoad), h.audit.logs[0].Action)
	assert.Equal(t, "system", h.audit.logs[0].Actor)
}

func TestSessionUseCase_LoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*usecase.LoadSessionInput)
		wantErr error
	}{
		{
			name:    "bad currency code",
			mutate:  func(in *usecase.LoadSessionInput) { in.SettlementCurrency = "US" },
			wantErr: domain.ErrInvalidCurrency,
		},
		{
			name:    "unknown mode",
			mutate:  func(in *usecase.LoadSessionInput) { in.Mode = "netted" },
			wantErr: domain.ErrInvalidAllocationMode,
		},
		{
			name: "fixed rate without rate",
			mutate: func(in *usecase.LoadSessionInput) {
				in.RateMode = domain.RateModeFixed
			},
			wantErr: domain.ErrInvalidRate,
		},
		{
			name:    "journal without inbound method",
			mutate:  func(in *usecase.LoadSessionInput) { in.JournalID = "empty" },
			wantErr: domain.ErrIncompatibleJournal,
		},
		{
			name:    "unknown party",
			mutate:  func(in *usecase.LoadSessionInput) { in.PartyID = "nobody" },
			wantErr: domain.ErrPartyNotFound,
		},
		{
			name:    "unknown settlement currency",
			mutate:  func(in *usecase.LoadSessionInput) { in.SettlementCurrency = "GBP" },
			wantErr: domain.ErrCurrencyNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newSessionHarness(invoice("d1", "100", 1))
			in := loadInput()
			tt.mutate(&in)

			_, err := h.uc.Load(context.Background(), in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, h.sessions.sessions)
		})
	}
}

func TestSessionUseCase_LoadConfiguredDefaults(t *testing.T) {
	h := newSessionHarness(invoice("d1", "100", 1))
	h.uc = usecase.NewSessionUseCase(usecase.SessionDeps{
		Sessions:   h.sessions,
		Ledger:     h.ledger,
		Converter:  usecase.NewConverter(mapRates{}, nil),
		Parties:    partyLookup{h.dir},
		Companies:  companyLookup{h.dir},
		Journals:   journalLookup{h.dir},
		Currencies: currencyLookup{h.dir},
		Audit:      h.audit,
		IDGen:      &seqIDs{},
		Defaults:   usecase.SessionDefaults{Mode: domain.AllocationModePerLine},
		Logger:     zerolog.Nop(),
	})

	session, err := h.uc.Load(context.Background(), loadInput())
	require.NoError(t, err)
	assert.Equal(t, domain.AllocationModePerLine, session.Mode)
	assert.Equal(t, domain.RateModeMarket, session.Conversion.Mode)

	in := loadInput()
	in.Mode = domain.AllocationModeGrouped
	session, err = h.uc.Load(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.AllocationModeGrouped, session.Mode, "explicit mode wins")
}

func TestSessionUseCase_LoadMarketRate(t *testing.T) {
	h := newSessionHarness(invoice("d1", "100", 1))
	in := loadInput()
	in.SettlementCurrency = "EUR"

	session, err := h.uc.Load(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, session.Lines, 1)
	assert.Equal(t, "50", session.Lines[0].ResidualSettlement.String())
}

func TestSessionUseCase_EditLine(t *testing.T) {
	h := newSessionHarness(invoice("d1", "100", 1))
	ctx := context.Background()

	session, err := h.uc.Load(ctx, loadInput())
	require.NoError(t, err)
	lineID := session.Lines[0].ID

	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{name: "within residual", amount: "30.004", want: "30"},
		{name: "above residual clamps", amount: "500", want: "100"},
		{name: "very large amount clamps", amount: "2000000000000", want: "100"},
		{name: "negative clamps to zero", amount: "-5", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := h.uc.EditLine(ctx, session.ID, lineID, dec(tt.amount))
			require.NoError(t, err)
			assert.Equal(t, tt.want, line.Requested.String())
		})
	}

	t.Run("residual shrank since load", func(t *testing.T) {
		h.ledger.apply("d1", dec("70"), dec("70"), "")

		line, err := h.uc.EditLine(ctx, session.ID, lineID, dec("100"))
		require.NoError(t, err)
		assert.Equal(t, "30", line.Requested.String())
		assert.Equal(t, "30", line.ResidualSettlement.String())
	})

	t.Run("unknown line", func(t *testing.T) {
		_, err := h.uc.EditLine(ctx, session.ID, "missing", dec("1"))
		assert.ErrorIs(t, err, domain.ErrLineNotFound)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := h.uc.EditLine(ctx, "missing", lineID, dec("1"))
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestSessionUseCase_AddAndRemove(t *testing.T) {
	h := newSessionHarness(invoice("d1", "100", 1))
	ctx := context.Background()

	session, err := h.uc.Load(ctx, loadInput())
	require.NoError(t, err)
	require.Len(t, session.Lines, 1)

	// Entry posted after the session was opened.
	late := payment("c9", "20", 3)
	h.ledger.entries[late.ID] = late
	h.ledger.order = append(h.ledger.order, late.ID)

	session, err = h.uc.AddEntry(ctx, session.ID, "c9")
	require.NoError(t, err)
	require.Len(t, session.Lines, 2)
	assert.Equal(t, domain.EntryKindPayment, session.Lines[1].Kind)
	assert.Equal(t, "80", session.TotalToPay().String())

	session, err = h.uc.AddEntry(ctx, session.ID, "c9")
	require.NoError(t, err)
	assert.Len(t, session.Lines, 2, "adding an entry twice is a no-op")

	_, err = h.uc.AddEntry(ctx, session.ID, "nope")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	session, err = h.uc.RemoveLines(ctx, session.ID, []string{session.Lines[1].ID})
	require.NoError(t, err)
	require.Len(t, session.Lines, 1)
	assert.Equal(t, "d1", session.Lines[0].Entry.ID)

	session, err = h.uc.Reload(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, session.Lines, 2)

	require.NoError(t, h.uc.Discard(ctx, session.ID))
	_, err = h.uc.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, h.uc.Discard(ctx, session.ID), domain.ErrSessionNotFound)

	var actions []string
	for _, l := range h.audit.logs {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []string{
		string(domain.AuditActionSessionLoad),
		string(domain.AuditActionSessionAddEntry),
		string(domain.AuditActionSessionRemoveLine),
		string(domain.AuditActionSessionReload),
		string(domain.AuditActionSessionDiscard),
	}, actions)
}
