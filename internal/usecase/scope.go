package usecase

import (
	"context"
	"fmt"

	"github.com/iho/gosettle/internal/domain"
)

// settlementScope is everything an allocation session needs resolved from storage.
type settlementScope struct {
	party      *domain.Party
	company    *domain.Company
	journal    *domain.Journal
	method     *domain.PaymentMethod
	settlement domain.Currency
	conversion Conversion
	match      domain.MatchContext
}

// scopeResolver loads parties, companies, journals and currencies for a session.
type scopeResolver struct {
	parties    PartyRepository
	companies  CompanyRepository
	journals   JournalRepository
	currencies CurrencyRepository
}

func (r *scopeResolver) resolve(ctx context.Context, session *domain.AllocationSession) (*settlementScope, error) {
	party, err := r.parties.GetByID(ctx, session.PartyID)
	if err != nil {
		return nil, err
	}

	company, err := r.companies.GetByID(ctx, session.CompanyID)
	if err != nil {
		return nil, err
	}

	settlement, err := r.currencies.GetByCode(ctx, session.SettlementCurrency)
	if err != nil {
		return nil, fmt.Errorf("settlement currency %s: %w", session.SettlementCurrency, err)
	}

	journal, err := r.journals.GetByID(ctx, session.JournalID)
	if err != nil {
		return nil, err
	}
	if journal.CompanyID != "" && journal.CompanyID != company.ID {
		return nil, fmt.Errorf("%w: journal %s belongs to another company", domain.ErrIncompatibleJournal, journal.ID)
	}
	if err := journal.CheckCurrency(settlement.Code); err != nil {
		return nil, err
	}

	method, err := journal.ResolveMethod(session.PaymentMethodID, party.Role.Direction())
	if err != nil {
		return nil, err
	}

	all, err := r.currencies.List(ctx)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]domain.Currency, len(all))
	for _, c := range all {
		byCode[c.Code] = c
	}

	return &settlementScope{
		party:      party,
		company:    company,
		journal:    journal,
		method:     method,
		settlement: settlement,
		conversion: Conversion{
			Functional: company.Currency,
			Target:     settlement,
			AsOf:       session.AsOf,
			Settings:   session.Conversion,
		},
		match: domain.MatchContext{
			Functional: company.Currency,
			Settlement: settlement,
			Currencies: byCode,
		},
	}, nil
}
