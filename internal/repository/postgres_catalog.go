package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/Dan9191/deposit-service/internal/models"
)

// PostgresCatalog loads deposit offers from the bank.deposits table
type PostgresCatalog struct {
	db *sql.DB
}

// NewPostgresCatalog initializes a catalog source over db
func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// Load returns all offers in table order
func (r *PostgresCatalog) Load(ctx context.Context) ([]models.Offer, error) {
	query := `
		SELECT name, link, currency, term_days_min, term_days_max, min_amount,
		       interest_rate, replenishment, withdrawal, capitalization
		FROM bank.deposits
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposits: %w", err)
	}
	defer rows.Close()

	var offers []models.Offer
	for row := 1; rows.Next(); row++ {
		var (
			offer    models.Offer
			currency string
		)
		err := rows.Scan(&offer.Name, &offer.Link, &currency, &offer.TermDaysMin, &offer.TermDaysMax,
			&offer.MinAmount, &offer.InterestRate, &offer.Replenishment, &offer.Withdrawal, &offer.Capitalization)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		if math.IsNaN(offer.InterestRate) || math.IsInf(offer.InterestRate, 0) {
			return nil, &models.CatalogSchemaError{Column: models.ColumnInterestRate, Row: row, Reason: "non-finite interest rate"}
		}
		offer.Currency, err = models.ParseCurrency(currency)
		if err != nil {
			return nil, &models.CatalogSchemaError{Column: models.ColumnCurrency, Row: row, Reason: err.Error()}
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read deposits: %w", err)
	}
	return offers, nil
}
