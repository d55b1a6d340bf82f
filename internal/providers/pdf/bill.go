package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateBill renders an A4 billing invoice: business header, document
// meta, customer block, items table, totals, notes, and a thank-you footer.
func (p *provider) GenerateBill(_ context.Context, data BillData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()

	m := maroto.New(cfg)

	// Header: business name left, document meta right.
	m.AddRow(14,
		col.New(7).Add(
			text.New(data.BusinessName, props.Text{Size: 16, Style: fontstyle.Bold}),
			text.New("Billing Invoice", props.Text{Size: 9, Top: 8}),
		),
		col.New(5).Add(
			text.New("Invoice: "+data.InvoiceNumber, props.Text{Size: 9, Align: align.Right}),
			text.New("Order ID: "+data.OrderID, props.Text{Size: 9, Top: 4, Align: align.Right}),
			text.New("Date: "+data.Date, props.Text{Size: 9, Top: 8, Align: align.Right}),
		),
	)
	if data.DueDate != "" {
		m.AddRow(5,
			text.NewCol(12, "Due: "+data.DueDate, props.Text{Size: 9, Align: align.Right}),
		)
	}

	// Customer block.
	customerLines := []string{data.CustomerName}
	if data.CustomerEmail != "" {
		customerLines = append(customerLines, "Email: "+data.CustomerEmail)
	}
	if data.CustomerPhone != "" {
		customerLines = append(customerLines, "Phone: "+data.CustomerPhone)
	}
	customerCol := col.New(12)
	for i, lineText := range customerLines {
		style := props.Text{Size: 9, Top: float64(i * 4)}
		if i == 0 {
			style.Style = fontstyle.Bold
			style.Size = 10
		}
		customerCol.Add(text.New(lineText, style))
	}
	m.AddRow(float64(6+len(customerLines)*4), customerCol)

	// Items table.
	m.AddRow(8,
		text.NewCol(6, "Description", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Rate", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))
	for _, item := range data.Items {
		m.AddRow(7,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, formatQuantity(item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatAmount(item.Rate), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatAmount(item.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(2, line.NewCol(12))

	// Totals.
	m.AddRow(6,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, formatAmount(data.Subtotal), props.Text{Size: 9, Align: align.Right}),
	)
	for _, tax := range data.Taxes {
		m.AddRow(6,
			col.New(8),
			text.NewCol(2, fmt.Sprintf("%s (%s%%)", tax.Label, formatQuantity(tax.Percent)), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatAmount(tax.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, formatAmount(data.Total), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	if data.Notes != "" {
		m.AddRow(6,
			text.NewCol(12, "Notes:", props.Text{Size: 9, Style: fontstyle.Bold, Top: 2}),
		)
		m.AddRow(8,
			text.NewCol(12, data.Notes, props.Text{Size: 9}),
		)
	}

	m.AddRow(16,
		text.NewCol(12, "Thank you for your business.", props.Text{
			Size:  13,
			Style: fontstyle.Bold,
			Align: align.Center,
			Top:   8,
		}),
	)

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render bill pdf: %w", err)
	}
	return document.GetBytes(), nil
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatQuantity(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
