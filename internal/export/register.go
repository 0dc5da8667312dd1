package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tilbury/quoteworks/internal/domain"
)

// Register writes a summary workbook covering a list of quotations, one row
// per quotation, and returns the file contents.
func Register(quotations []domain.Quotation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Quotations"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	lastCol := columns[len(columns)-1]

	widths := []float64{16, 12, 28, 12, 14, 12, 12, 14}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2F3437"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 11},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 11},
		Border: thinBorders(),
		NumFmt: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	f.SetCellValue(sheetName, "A1", "Quotation Register")
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"Number", "Date", "Customer", "Domain", "Subtotal", "GST", "Discount", "Total"}
	const headerRow = 3
	for i, h := range headers {
		cell := fmt.Sprintf("%s%d", columns[i], headerRow)
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName,
		fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle)

	row := headerRow + 1
	for i := range quotations {
		q := &quotations[i]
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetName, "A"+rowStr, sanitizeCell(q.Number))
		f.SetCellValue(sheetName, "B"+rowStr, q.CreatedAt.Format("2006-01-02"))
		f.SetCellValue(sheetName, "C"+rowStr, sanitizeCell(q.Customer.Name))
		f.SetCellValue(sheetName, "D"+rowStr, string(q.Domain))
		f.SetCellValue(sheetName, "E"+rowStr, q.Subtotal)
		f.SetCellValue(sheetName, "F"+rowStr, q.TotalGST)
		f.SetCellValue(sheetName, "G"+rowStr, q.Discount)
		f.SetCellValue(sheetName, "H"+rowStr, q.GrandTotal)

		f.SetCellStyle(sheetName, "A"+rowStr, "D"+rowStr, rowStyle)
		f.SetCellStyle(sheetName, "E"+rowStr, "H"+rowStr, moneyStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}
