package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/postgres/generated"
)

// CurrencyRepository implements usecase.CurrencyRepository.
type CurrencyRepository struct {
	queries *generated.Queries
}

// NewCurrencyRepository creates a new CurrencyRepository.
func NewCurrencyRepository(db generated.DBTX) *CurrencyRepository {
	return &CurrencyRepository{queries: generated.New(db)}
}

// GetByCode retrieves a currency by ISO code.
func (r *CurrencyRepository) GetByCode(ctx context.Context, code string) (domain.Currency, error) {
	return getCurrency(ctx, r.queries, code)
}

// List returns all currencies.
func (r *CurrencyRepository) List(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.queries.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}

	currencies := make([]domain.Currency, 0, len(rows))
	for _, row := range rows {
		currencies = append(currencies, domain.Currency{
			Code:     row.Code,
			Rounding: numericToDecimal(row.Rounding),
		})
	}

	return currencies, nil
}

func getCurrency(ctx context.Context, q *generated.Queries, code string) (domain.Currency, error) {
	row, err := q.GetCurrency(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Currency{}, domain.ErrCurrencyNotFound
		}

		return domain.Currency{}, err
	}

	return domain.Currency{
		Code:     row.Code,
		Rounding: numericToDecimal(row.Rounding),
	}, nil
}

// PartyRepository implements usecase.PartyRepository.
type PartyRepository struct {
	queries *generated.Queries
}

// NewPartyRepository creates a new PartyRepository.
func NewPartyRepository(db generated.DBTX) *PartyRepository {
	return &PartyRepository{queries: generated.New(db)}
}

// GetByID retrieves a party by ID.
func (r *PartyRepository) GetByID(ctx context.Context, id string) (*domain.Party, error) {
	row, err := r.queries.GetParty(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}

		return nil, err
	}

	return &domain.Party{
		ID:   row.ID,
		Name: row.Name,
		Role: domain.PartyRole(row.Role),
	}, nil
}

// CompanyRepository implements usecase.CompanyRepository.
type CompanyRepository struct {
	queries *generated.Queries
}

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(db generated.DBTX) *CompanyRepository {
	return &CompanyRepository{queries: generated.New(db)}
}

// GetByID retrieves a company together with its functional currency.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	row, err := r.queries.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}

		return nil, err
	}

	currency, err := getCurrency(ctx, r.queries, row.CurrencyCode)
	if err != nil {
		return nil, err
	}

	return &domain.Company{
		ID:       row.ID,
		Name:     row.Name,
		Currency: currency,
	}, nil
}

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	queries *generated.Queries
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(db generated.DBTX) *JournalRepository {
	return &JournalRepository{queries: generated.New(db)}
}

// GetByID retrieves a journal and its payment methods in position order.
func (r *JournalRepository) GetByID(ctx context.Context, id string) (*domain.Journal, error) {
	row, err := r.queries.GetJournal(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJournalNotFound
		}

		return nil, err
	}

	methods, err := r.queries.ListPaymentMethodsByJournal(ctx, id)
	if err != nil {
		return nil, err
	}

	journal := &domain.Journal{
		ID:        row.ID,
		Name:      row.Name,
		CompanyID: row.CompanyID,
		Currency:  pgTextToString(row.CurrencyCode),
		Methods:   make([]domain.PaymentMethod, 0, len(methods)),
	}
	for _, m := range methods {
		journal.Methods = append(journal.Methods, domain.PaymentMethod{
			ID:        m.ID,
			Name:      m.Name,
			Direction: domain.PaymentDirection(m.Direction),
		})
	}

	return journal, nil
}
