package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
)

var csvHeader = []string{
	"Customer",
	"Email",
	"Phone",
	"Total Invoiced",
	"Total Paid",
	"Outstanding",
	"Invoice Count",
	"Last Invoice Date",
	"Last Payment Date",
}

// DelimiterFor maps a requested separator name to a CSV delimiter.
// Some locales configure Excel to expect semicolons.
func DelimiterFor(name string) rune {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "semicolon":
		return ';'
	case "tab":
		return '\t'
	case "pipe":
		return '|'
	default:
		return ','
	}
}

// RenderCSV renders the rollup rows with the given delimiter.
func RenderCSV(rows []CustomerRow, delimiter rune) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delimiter

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.Customer,
			row.Email,
			excelSafePhone(row.Phone),
			fmt.Sprintf("%.2f", row.TotalInvoiced),
			fmt.Sprintf("%.2f", row.TotalPaid),
			fmt.Sprintf("%.2f", row.Outstanding),
			fmt.Sprintf("%d", row.InvoiceCount),
			formatDate(row.LastInvoice),
			formatDate(row.LastPayment),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// excelSafePhone normalizes a phone to +<country><10-digit local> and wraps
// it in the ="..." guard so spreadsheets keep it as text instead of
// collapsing it to scientific notation.
func excelSafePhone(raw string) string {
	normalized := normalizePhone(raw)
	if normalized == "" {
		return ""
	}
	return fmt.Sprintf("=%q", normalized)
}

func normalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	only := digits.String()
	if only == "" {
		return ""
	}
	if len(only) > 10 {
		country := only[:len(only)-10]
		return "+" + country + only[len(only)-10:]
	}
	return only
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
