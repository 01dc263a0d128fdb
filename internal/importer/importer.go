package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shoplab/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// Columns the importer understands. Only name and price are required;
// header order does not matter and unknown columns are ignored.
const (
	colName        = "name"
	colDescription = "description"
	colPrice       = "price"
	colCategory    = "category"
	colImageURL    = "image_url"
	colStock       = "stock"
)

// CSVImporter reads a product catalog CSV and upserts products by name.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses all rows and upserts each product. It stops at the first
// invalid row and reports its line number.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{colName, colPrice} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing required column %q", required)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		if blank(record) {
			continue
		}
		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("line %d: upsert product %q: %w", line, p.Name, err)
		}
		imported++
	}

	return imported, nil
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		Name:        pick(record, index, colName),
		Description: pick(record, index, colDescription),
		Category:    pick(record, index, colCategory),
		ImageURL:    pick(record, index, colImageURL),
	}
	if p.Name == "" {
		return p, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if p.Category == "" {
		p.Category = "general"
	}

	cents, err := domain.ParsePrice(pick(record, index, colPrice))
	if err != nil {
		return p, err
	}
	p.PriceCents = cents

	if s := pick(record, index, colStock); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil || domain.ValidateStock(stock) != nil {
			return p, fmt.Errorf("%w: stock %q must be an integer between 0 and %d", domain.ErrValidation, s, domain.MaxStock)
		}
		p.Stock = stock
	}
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
