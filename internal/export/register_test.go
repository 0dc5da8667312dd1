package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tilbury/quoteworks/internal/domain"
	"github.com/tilbury/quoteworks/internal/export"
)

func Test_Register_RoundTrip(t *testing.T) {
	quotations := []domain.Quotation{
		{
			Number:     "Q-202609-0002",
			Domain:     domain.QuoteDomainCurtains,
			Customer:   domain.Customer{Name: "Jordan Reeves"},
			Subtotal:   250,
			TotalGST:   25,
			GrandTotal: 275,
			CreatedAt:  time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			Number:     "Q-202609-0001",
			Domain:     domain.QuoteDomainTile,
			Customer:   domain.Customer{Name: "Site Office"},
			Subtotal:   875,
			TotalGST:   87.5,
			Discount:   50,
			GrandTotal: 912.5,
			CreatedAt:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		},
	}

	out, err := export.Register(quotations)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	assert.Equal(t, "Quotations", sheet)

	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Quotation Register", title)

	number, err := f.GetCellValue(sheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Q-202609-0002", number)

	customer, err := f.GetCellValue(sheet, "C5")
	require.NoError(t, err)
	assert.Equal(t, "Site Office", customer)

	total, err := f.GetCellValue(sheet, "H5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "912.5", total)
}

func Test_Register_Empty(t *testing.T) {
	out, err := export.Register(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(f.GetSheetName(0), "A3")
	require.NoError(t, err)
	assert.Equal(t, "Number", header)
}
