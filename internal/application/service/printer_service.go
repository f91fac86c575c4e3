package service

import (
	"context"
	"fmt"
	"log"

	"github.com/sangkips/gstbill-api/internal/domain/render"
	"github.com/sangkips/gstbill-api/pkg/printer"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer   printer.Printer
	invoices  *InvoiceService
	charWidth int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, invoices *InvoiceService, charWidth int) *PrinterService {
	if charWidth <= 0 {
		charWidth = 48
	}
	return &PrinterService{
		printer:   p,
		invoices:  invoices,
		charWidth: charWidth,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	CharWidth  int    `json:"char_width"`
}

// PrintResult describes a print job. Receipt holds the text that was sent,
// so the caller can show it when no printer is attached.
type PrintResult struct {
	BillNo  string `json:"bill_no"`
	Bytes   int    `json:"bytes"`
	Receipt string `json:"receipt"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	kind := s.printer.Kind()
	return &PrinterStatus{
		Configured: kind != "none",
		Connected:  s.printer.IsConnected(),
		Type:       kind,
		CharWidth:  s.charWidth,
	}
}

// PrintInvoice prints a saved bill on the thermal printer.
func (s *PrinterService) PrintInvoice(ctx context.Context, id string) (*PrintResult, error) {
	l, err := s.invoices.Layout(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.print(l, "bill "+l.Meta.BillNo)
}

// TestPrint sends a sample receipt built from the current settings.
func (s *PrinterService) TestPrint(ctx context.Context) (*PrintResult, error) {
	settings, err := s.invoices.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	l := render.Sample(settings)
	return s.print(l, "test page")
}

func (s *PrinterService) print(l render.Layout, what string) (*PrintResult, error) {
	doc := printer.NewDocument(s.charWidth)
	render.WriteThermal(doc, l)
	data := doc.Bytes()

	result := &PrintResult{BillNo: l.Meta.BillNo, Bytes: len(data), Receipt: printer.PlainText(data)}
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (%s): %v", what, err)
		return result, fmt.Errorf("failed to print %s: %w", what, err)
	}
	return result, nil
}
