package pdf

import (
	"fmt"
	"math"

	"github.com/johnfercher/maroto/v2"
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

	"github.com/tilbury/quoteworks/internal/domain"
)

// Company is the issuing business printed on every quotation document.
type Company struct {
	Name    string
	Phone   string
	Email   string
	Address string
	ABN     string
}

// Renderer produces quotation PDFs.
type Renderer struct {
	company Company
}

// NewRenderer creates a quotation PDF renderer.
func NewRenderer(company Company) *Renderer {
	return &Renderer{company: company}
}

// Render produces the PDF document for a finalized quotation and returns the
// raw bytes.
func (r *Renderer) Render(q *domain.Quotation) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	r.addHeader(m, q)
	r.addCustomer(m, q)
	addTableHeader(m)
	for _, l := range q.Lines {
		addTableRow(m, l)
	}
	addTotals(m, q)
	r.addFooter(m, q)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quotation PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func (r *Renderer) addHeader(m core.Maroto, q *domain.Quotation) {
	m.AddRows(
		row.New(12).Add(
			col.New(7).Add(
				text.New(r.company.Name, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(5).Add(
				text.New("QUOTATION", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				}),
			),
		),
	)

	detail := props.Text{
		Size:  8,
		Align: align.Left,
		Color: &props.Color{Red: 80, Green: 80, Blue: 80},
	}
	detailRight := detail
	detailRight.Align = align.Right

	m.AddRows(
		row.New(5).Add(
			col.New(7).Add(text.New(r.company.Address, detail)),
			col.New(5).Add(text.New(fmt.Sprintf("Quote No: %s", q.Number), detailRight)),
		),
		row.New(5).Add(
			col.New(7).Add(text.New(fmt.Sprintf("%s  |  %s", r.company.Phone, r.company.Email), detail)),
			col.New(5).Add(text.New(fmt.Sprintf("Date: %s", q.CreatedAt.Format("02 Jan 2006")), detailRight)),
		),
	)

	if r.company.ABN != "" {
		m.AddRows(
			row.New(5).Add(
				col.New(12).Add(text.New(fmt.Sprintf("ABN: %s", r.company.ABN), detail)),
			),
		)
	}

	m.AddRows(
		row.New(4).Add(col.New(12).Add(line.New())),
	)
}

func (r *Renderer) addCustomer(m core.Maroto, q *domain.Quotation) {
	label := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 80, Green: 80, Blue: 80},
	}
	value := props.Text{Size: 9, Align: align.Left}

	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New("QUOTE FOR", label)),
		),
		row.New(5).Add(
			col.New(12).Add(text.New(q.Customer.Name, value)),
		),
	)
	if q.Customer.Address != "" {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(q.Customer.Address, value))))
	}

	contact := q.Customer.Phone
	if q.Customer.Email != "" {
		if contact != "" {
			contact += "  |  "
		}
		contact += q.Customer.Email
	}
	if contact != "" {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(contact, value))))
	}

	m.AddRows(row.New(4))
}

func addTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New("Description", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Qty", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Unit Price", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Total", headerText),
			).WithStyle(&headerCell),
		),
	)
}

func addTableRow(m core.Maroto, l domain.QuotationLine) {
	baseText := props.Text{Size: 8, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	qty := formatQty(l.Quantity)
	if l.Unit != "" {
		qty = fmt.Sprintf("%s %s", qty, l.Unit)
	}

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New(l.Description, leftText)),
			col.New(2).Add(text.New(qty, baseText)),
			col.New(2).Add(text.New(formatMoney(l.UnitPrice), rightText)),
			col.New(2).Add(text.New(formatMoney(l.LineTotal), rightText)),
		),
	)
}

func addTotals(m core.Maroto, q *domain.Quotation) {
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{Size: 9, Align: align.Right}
	valueStyle := labelStyle

	addTotalRow := func(label string, value float64, bold bool) {
		ls := labelStyle
		vs := valueStyle
		if bold {
			ls.Style = fontstyle.Bold
			vs.Style = fontstyle.Bold
		}
		m.AddRows(
			row.New(7).Add(
				col.New(8).Add(text.New(label, ls)).WithStyle(summaryCell),
				col.New(4).Add(text.New(formatMoney(value), vs)).WithStyle(summaryCell),
			),
		)
	}

	addTotalRow("Subtotal", q.Subtotal, false)
	addTotalRow("GST", q.TotalGST, false)
	if q.Discount > 0 {
		addTotalRow("Discount", -q.Discount, false)
	}
	addTotalRow("Total", q.GrandTotal, true)
}

func (r *Renderer) addFooter(m core.Maroto, q *domain.Quotation) {
	m.AddRows(row.New(8))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Thank you for your business. Please quote %s in all correspondence.", q.Number),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}

// formatQty prints whole quantities without decimals and fractional
// quantities with two.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
