package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/pkg/money"
	"github.com/xuri/excelize/v2"
)

// Header is the column set shared by every export format.
var Header = []string{"Bill No", "Date", "Customer Name", "City", "Items", "Total Amount"}

const sheetName = "Invoices"

// ItemsSummary flattens the lines of a bill into one display field, e.g.
// "Rice (1 kg) x 2 Bag; Dal x 1 Kg".
func ItemsSummary(inv entity.Invoice) string {
	parts := make([]string, 0, len(inv.Items))
	for _, it := range inv.Items {
		var b strings.Builder
		b.WriteString(it.Name)
		if it.Packing != "" {
			b.WriteString(" (" + it.Packing + ")")
		}
		b.WriteString(" x " + money.FormatQuantity(it.Quantity))
		if it.Unit != "" {
			b.WriteString(" " + it.Unit)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "; ")
}

func record(inv entity.Invoice) []string {
	return []string{
		inv.ID,
		inv.Date,
		inv.CustomerName,
		inv.CustomerCity,
		ItemsSummary(inv),
		inv.GrandTotal.String(),
	}
}

// WriteCSV writes a header row and one row per bill. Fields holding a comma,
// quote or newline are quoted with embedded quotes doubled.
func WriteCSV(w io.Writer, invoices []entity.Invoice) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, inv := range invoices {
		if err := cw.Write(record(inv)); err != nil {
			return fmt.Errorf("write csv row %s: %w", inv.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same rows as WriteCSV to a single-sheet workbook,
// with the total as a numeric cell.
func WriteXLSX(w io.Writer, invoices []entity.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, "A1", &Header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "F1", bold); err != nil {
		return err
	}

	for i, inv := range invoices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			inv.ID,
			inv.Date,
			inv.CustomerName,
			inv.CustomerCity,
			ItemsSummary(inv),
			inv.GrandTotal.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write xlsx row %s: %w", inv.ID, err)
		}
	}
	if err := f.SetColWidth(sheetName, "E", "E", 60); err != nil {
		return err
	}
	return f.Write(w)
}
