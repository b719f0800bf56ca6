package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/postgres/generated"
	"github.com/iho/gosettle/internal/usecase"
)

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct{}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

// CreatePayment inserts the instruction. An instruction whose reference already
// exists is not inserted and an empty ID is returned.
func (r *PaymentRepository) CreatePayment(ctx context.Context, tx usecase.Transaction, payment *domain.PaymentInstruction) (string, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return "", err
	}

	id, err := queries.CreatePaymentInstruction(ctx, generated.CreatePaymentInstructionParams{
		ID:              payment.ID,
		PartyID:         payment.PartyID,
		CompanyID:       payment.CompanyID,
		JournalID:       payment.JournalID,
		PaymentMethodID: payment.PaymentMethodID,
		Direction:       string(payment.Direction),
		Amount:          decimalToNumeric(payment.Amount),
		CurrencyCode:    payment.Currency,
		PaymentDate:     timeToPgDate(payment.Date),
		Memo:            payment.Memo,
		Reference:       payment.Reference,
		EntryIds:        payment.EntryIDs,
		DocumentIds:     payment.DocumentIDs,
		CreatedAt:       timeToPgTimestamptz(payment.CreatedAt),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}

		return "", err
	}

	return id, nil
}

// FindLatestPayment returns the newest instruction with the same party, journal,
// date and amount, or "" when there is none.
func (r *PaymentRepository) FindLatestPayment(ctx context.Context, tx usecase.Transaction, payment *domain.PaymentInstruction) (string, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return "", err
	}

	id, err := queries.FindLatestPaymentInstruction(ctx, generated.FindLatestPaymentInstructionParams{
		PartyID:     payment.PartyID,
		JournalID:   payment.JournalID,
		PaymentDate: timeToPgDate(payment.Date),
		Amount:      decimalToNumeric(payment.Amount),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}

		return "", err
	}

	return id, nil
}
