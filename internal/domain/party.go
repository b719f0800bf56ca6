package domain

// PartyRole is the commercial role of a counterparty.
type PartyRole string

const (
	PartyRoleCustomer PartyRole = "customer"
	PartyRoleVendor   PartyRole = "vendor"
)

// Valid reports whether r is a known role.
func (r PartyRole) Valid() bool {
	return r == PartyRoleCustomer || r == PartyRoleVendor
}

// Direction returns the payment direction used when settling with a party of this role.
func (r PartyRole) Direction() PaymentDirection {
	if r == PartyRoleVendor {
		return PaymentDirectionOutbound
	}
	return PaymentDirectionInbound
}

// Party is a counterparty whose open items are allocated.
type Party struct {
	ID   string
	Name string
	Role PartyRole
}

// Company owns the ledger and defines the functional currency.
type Company struct {
	ID       string
	Name     string
	Currency Currency
}
