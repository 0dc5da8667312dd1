package email

import "time"

// QuotationEmail carries the data rendered into the quotation email sent to
// the customer when a quote is finalized.
type QuotationEmail struct {
	QuoteNumber  string
	CustomerName string
	CompanyName  string
	QuoteDate    time.Time

	Lines []QuotationEmailLine

	Subtotal   float64
	TotalGST   float64
	Discount   float64
	GrandTotal float64
}

// QuotationEmailLine is one itemized row in the email body.
type QuotationEmailLine struct {
	Description string
	Quantity    float64
	Unit        string
	LineTotal   float64
}

func (e QuotationEmail) Subject() string {
	return "Your Quotation - " + e.QuoteNumber
}

func (e QuotationEmail) TemplateName() string {
	return "quotation.html"
}
