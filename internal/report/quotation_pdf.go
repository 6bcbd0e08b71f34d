// Package report renders printable documents.
package report

import (
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/snackparty/catering-api/internal/domain"
)

var (
	colorPrimary = &props.Color{Red: 214, Green: 51, Blue: 132}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// QuotationPDF renders a one page summary of a quotation.
func QuotationPDF(q *domain.Quotation) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Cotización #%d", q.ID), true).
		WithAuthor("Snack Party", true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(q))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(eventRows(q)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(itemHeaderRow())
	m.AddRows(itemRows(q.Items)...)
	if q.Personalization != nil {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(personalizationRows(q.Personalization)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate quotation %d: %w", q.ID, err)
	}
	return doc.GetBytes(), nil
}

func headerRow(q *domain.Quotation) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("Snack Party", props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("Resumen de cotización", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Cotización #%d", q.ID), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1}),
			text.New("Estado: "+string(q.Status), props.Text{Size: 9, Align: align.Right, Top: 8}),
			text.New("Creada: "+q.CreatedAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func eventRows(q *domain.Quotation) []core.Row {
	date := q.EventDate.Format(time.DateOnly)
	if q.EventTime != nil && *q.EventTime != "" {
		date += " " + *q.EventTime
	}
	rows := []core.Row{
		labelRow("Tipo de evento", q.EventType),
		labelRow("Fecha", date),
		labelRow("Dirección", q.EventAddress),
		labelRow("Invitados", strconv.Itoa(q.GuestCount)),
	}
	if q.Owner != nil {
		rows = append(rows, labelRow("Cliente", q.Owner.FullName+" <"+q.Owner.Email+">"))
	}
	if q.SpecialRequests != nil && *q.SpecialRequests != "" {
		rows = append(rows, labelRow("Solicitudes especiales", *q.SpecialRequests))
	}
	return rows
}

func labelRow(label, value string) core.Row {
	return row.New(7).Add(
		col.New(4).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
		col.New(8).Add(text.New(value, props.Text{Size: 9, Top: 1})),
	)
}

func itemHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Item", 6, align.Left),
		h("Tipo", 3, align.Left),
		h("Cantidad", 3, align.Right),
	)
}

func itemRows(items []domain.QuotationItem) []core.Row {
	if len(items) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin items", props.Text{Size: 9, Top: 1, Color: colorGray}),
		))}
	}
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(6).Add(text.New(it.Name, props.Text{Size: 9, Top: 1})),
			col.New(3).Add(text.New(string(it.Type), props.Text{Size: 9, Top: 1})),
			col.New(3).Add(text.New(strconv.Itoa(it.Quantity), props.Text{Size: 9, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func personalizationRows(p *domain.SnackPersonalization) []core.Row {
	return []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New("Personalización de snacks", props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}),
		)),
		labelRow("Frutas/Verduras", orNone(domain.JoinSelection(p.Fruits), "Ninguna")),
		labelRow("Chips", orNone(domain.JoinSelection(p.Chips), "Ninguno")),
		labelRow("Toppings", orNone(domain.JoinSelection(p.Toppings), "Ninguno")),
	}
}

func orNone(v, none string) string {
	if v == "" {
		return none
	}
	return v
}
