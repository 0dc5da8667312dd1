package pdf_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilbury/quoteworks/internal/domain"
	"github.com/tilbury/quoteworks/internal/pdf"
)

func testCompany() pdf.Company {
	return pdf.Company{
		Name:    "Tilbury Window Furnishings",
		Phone:   "02 9999 0000",
		Email:   "quotes@example.com",
		Address: "1 Example St, Sydney NSW",
		ABN:     "12 345 678 901",
	}
}

func testQuotation() *domain.Quotation {
	return &domain.Quotation{
		ID:     uuid.New(),
		Number: "Q-202609-0001",
		Domain: domain.QuoteDomainCurtains,
		Status: domain.QuotationStatusFinalized,
		Customer: domain.Customer{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Phone:   "0400 000 000",
			Address: "2 Client Ave, Sydney NSW",
		},
		Lines: []domain.QuotationLine{
			{Description: "Sheer Curtain, 2 x 2.5 m", Quantity: 5, Unit: "sqm", UnitPrice: 50, LineTotal: 250},
			{Description: "Motorisation", Quantity: 1, Unit: "each", UnitPrice: 350, LineTotal: 350},
		},
		Subtotal:   600,
		TotalGST:   60,
		GrandTotal: 660,
		CreatedAt:  time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func Test_Render_ProducesPDF(t *testing.T) {
	r := pdf.NewRenderer(testCompany())

	out, err := r.Render(testQuotation())
	require.NoError(t, err)
	require.NotEmpty(t, out)

	// PDF files start with %PDF-
	require.Greater(t, len(out), 5)
	assert.Equal(t, "%PDF-", string(out[:5]))
}

func Test_Render_NoLines(t *testing.T) {
	r := pdf.NewRenderer(testCompany())

	q := testQuotation()
	q.Lines = nil

	out, err := r.Render(q)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func Test_Render_DiscountRowOnlyWhenPresent(t *testing.T) {
	r := pdf.NewRenderer(testCompany())

	q := testQuotation()
	q.Discount = 66
	q.GrandTotal = 594

	out, err := r.Render(q)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}
