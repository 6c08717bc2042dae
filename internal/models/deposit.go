package models

import (
	"fmt"
	"strings"
)

// Currency is the settlement currency of a deposit offer
type Currency string

const (
	CurrencyRUB  Currency = "RUB"
	CurrencyUSD  Currency = "USD"
	CurrencyEURO Currency = "EURO"
)

// Currencies lists the supported currency codes in display order
var Currencies = []Currency{CurrencyRUB, CurrencyUSD, CurrencyEURO}

// ParseCurrency converts a currency code into a Currency
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.TrimSpace(code))
	if !c.Valid() {
		return "", fmt.Errorf("unsupported currency %q", code)
	}
	return c, nil
}

// Valid reports whether the currency is one of the supported codes
func (c Currency) Valid() bool {
	switch c {
	case CurrencyRUB, CurrencyUSD, CurrencyEURO:
		return true
	}
	return false
}

// Offer represents one deposit product row of the catalog
type Offer struct {
	Name           string   `json:"name"`
	Link           string   `json:"link"`
	Currency       Currency `json:"currency"`
	TermDaysMin    int      `json:"term_days_min"`
	TermDaysMax    int      `json:"term_days_max"`
	MinAmount      int      `json:"min_amount"`
	InterestRate   float64  `json:"interest_rate"`
	Replenishment  bool     `json:"replenishment"`
	Withdrawal     bool     `json:"withdrawal"`
	Capitalization bool     `json:"capitalization"`
}

// Catalog column names, shared by the CSV file and the deposits table
const (
	ColumnName           = "name"
	ColumnLink           = "link"
	ColumnCurrency       = "currency"
	ColumnTermDaysMin    = "term_days_min"
	ColumnTermDaysMax    = "term_days_max"
	ColumnMinAmount      = "min_amount"
	ColumnInterestRate   = "interest_rate"
	ColumnReplenishment  = "replenishment"
	ColumnWithdrawal     = "withdrawal"
	ColumnCapitalization = "capitalization"
)

// CatalogColumns is the full set of columns a catalog must provide
var CatalogColumns = []string{
	ColumnName,
	ColumnLink,
	ColumnCurrency,
	ColumnTermDaysMin,
	ColumnTermDaysMax,
	ColumnMinAmount,
	ColumnInterestRate,
	ColumnReplenishment,
	ColumnWithdrawal,
	ColumnCapitalization,
}
