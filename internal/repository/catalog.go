package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Dan9191/deposit-service/internal/models"
)

// CatalogSource loads a snapshot of the deposit catalog
type CatalogSource interface {
	Load(ctx context.Context) ([]models.Offer, error)
}

// CSVCatalog reads the catalog from a comma-separated file on every Load
type CSVCatalog struct {
	path string
}

// NewCSVCatalog creates a catalog source backed by the file at path
func NewCSVCatalog(path string) *CSVCatalog {
	return &CSVCatalog{path: path}
}

// Load reads and parses the whole file
func (c *CSVCatalog) Load(ctx context.Context) ([]models.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return ParseCatalog(f)
}

// ParseCatalog decodes CSV catalog data. The header must name every catalog column;
// column order is free and unknown columns are ignored.
func ParseCatalog(r io.Reader) ([]models.Offer, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &models.CatalogSchemaError{Column: models.ColumnName, Reason: "catalog has no header"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		// pandas exports may carry a BOM on the first column
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		if _, seen := index[name]; seen && isCatalogColumn(name) {
			return nil, &models.CatalogSchemaError{Column: name, Reason: "duplicate column"}
		}
		index[name] = i
	}
	for _, column := range models.CatalogColumns {
		if _, ok := index[column]; !ok {
			return nil, &models.CatalogSchemaError{Column: column, Reason: "missing column"}
		}
	}

	var offers []models.Offer
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog row %d: %w", row, err)
		}

		p := rowParser{record: record, index: index, row: row}
		offer := models.Offer{
			Name:           p.text(models.ColumnName),
			Link:           p.text(models.ColumnLink),
			Currency:       p.currency(models.ColumnCurrency),
			TermDaysMin:    p.integer(models.ColumnTermDaysMin),
			TermDaysMax:    p.integer(models.ColumnTermDaysMax),
			MinAmount:      p.integer(models.ColumnMinAmount),
			InterestRate:   p.float(models.ColumnInterestRate),
			Replenishment:  p.boolean(models.ColumnReplenishment),
			Withdrawal:     p.boolean(models.ColumnWithdrawal),
			Capitalization: p.boolean(models.ColumnCapitalization),
		}
		if p.err != nil {
			return nil, p.err
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// rowParser converts the cells of one record, keeping the first failure
type rowParser struct {
	record []string
	index  map[string]int
	row    int
	err    error
}

func (p *rowParser) cell(column string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	i := p.index[column]
	if i >= len(p.record) {
		p.fail(column, "missing value")
		return "", false
	}
	return strings.TrimSpace(p.record[i]), true
}

func (p *rowParser) fail(column, reason string) {
	p.err = &models.CatalogSchemaError{Column: column, Row: p.row, Reason: reason}
}

func (p *rowParser) text(column string) string {
	v, _ := p.cell(column)
	return v
}

func (p *rowParser) currency(column string) models.Currency {
	v, ok := p.cell(column)
	if !ok {
		return ""
	}
	c, err := models.ParseCurrency(v)
	if err != nil {
		p.fail(column, err.Error())
	}
	return c
}

func (p *rowParser) integer(column string) int {
	v, ok := p.cell(column)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(v, ".0"))
	if err != nil {
		p.fail(column, fmt.Sprintf("invalid integer %q", v))
		return 0
	}
	if n < 0 {
		p.fail(column, fmt.Sprintf("negative value %d", n))
	}
	return n
}

func (p *rowParser) float(column string) float64 {
	v, ok := p.cell(column)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		p.fail(column, fmt.Sprintf("invalid number %q", v))
		return 0
	}
	return f
}

func (p *rowParser) boolean(column string) bool {
	v, ok := p.cell(column)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(column, fmt.Sprintf("invalid boolean %q", v))
	}
	return b
}

func isCatalogColumn(name string) bool {
	for _, column := range models.CatalogColumns {
		if column == name {
			return true
		}
	}
	return false
}
