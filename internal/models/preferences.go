package models

// Preferences holds the constraints a client states for a deposit.
// A nil field means the client did not state it and the matching filter is skipped.
type Preferences struct {
	DepositTerm    *int      `json:"deposit_term,omitempty" validate:"omitempty,gte=0"`
	Amount         *int      `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Currency       *Currency `json:"currency,omitempty" validate:"omitempty,oneof=RUB USD EURO"`
	Replenishment  *bool     `json:"replenishment,omitempty"`
	Withdrawal     *bool     `json:"withdrawal,omitempty"`
	Capitalization *bool     `json:"capitalization,omitempty"`
}

// Int returns a pointer to v, for building Preferences literals
func Int(v int) *int { return &v }

// Bool returns a pointer to v
func Bool(v bool) *bool { return &v }

// CurrencyOf returns a pointer to c
func CurrencyOf(c Currency) *Currency { return &c }
