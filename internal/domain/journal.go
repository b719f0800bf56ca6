package domain

import (
	"fmt"
	"strings"
)

// PaymentDirection tells whether a payment method receives or sends money.
type PaymentDirection string

const (
	PaymentDirectionInbound  PaymentDirection = "inbound"
	PaymentDirectionOutbound PaymentDirection = "outbound"
)

// PaymentMethod is a way of paying attached to a journal.
type PaymentMethod struct {
	ID        string
	Name      string
	Direction PaymentDirection
}

// Journal is a bank or cash journal used to issue payment instructions.
type Journal struct {
	ID        string
	Name      string
	CompanyID string
	Currency  string // empty means the company currency
	Methods   []PaymentMethod
}

// DefaultMethod returns the first method of the given direction.
func (j *Journal) DefaultMethod(dir PaymentDirection) (*PaymentMethod, error) {
	for i := range j.Methods {
		if j.Methods[i].Direction == dir {
			return &j.Methods[i], nil
		}
	}
	return nil, fmt.Errorf("%w: journal %s has no %s method", ErrIncompatibleJournal, j.ID, dir)
}

// ResolveMethod returns the method with the given ID, or the default one when id is empty.
// The method must match the direction.
func (j *Journal) ResolveMethod(id string, dir PaymentDirection) (*PaymentMethod, error) {
	if id == "" {
		return j.DefaultMethod(dir)
	}
	for i := range j.Methods {
		m := &j.Methods[i]
		if m.ID != id {
			continue
		}
		if m.Direction != dir {
			return nil, fmt.Errorf("%w: method %s is %s, need %s", ErrIncompatibleJournal, id, m.Direction, dir)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: method %s not on journal %s", ErrIncompatibleJournal, id, j.ID)
}

// PaymentCurrency returns the currency payments are issued in: the journal's own
// currency when set, else fallback.
func (j *Journal) PaymentCurrency(fallback string) string {
	if j.Currency != "" {
		return j.Currency
	}
	return fallback
}

// CheckCurrency verifies the journal can pay in the settlement currency.
func (j *Journal) CheckCurrency(settlement string) error {
	if j.Currency != "" && !strings.EqualFold(j.Currency, settlement) {
		return fmt.Errorf("%w: journal currency %s differs from %s", ErrIncompatibleJournal, j.Currency, settlement)
	}
	return nil
}
