package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gstbill-api/internal/application/service"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InvoiceHandler handles saved bills
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	printerService *service.PrinterService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, printerService *service.PrinterService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		printerService: printerService,
	}
}

func historyQuery(c *gin.Context) (service.HistoryQuery, bool) {
	var filter request.HistoryFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return service.HistoryQuery{}, false
	}
	return service.HistoryQuery{
		Search:     filter.Search,
		From:       filter.From,
		To:         filter.To,
		Pagination: pageParams(filter.Page, filter.PerPage),
	}, true
}

// List handles the bill history, newest bill number first
func (h *InvoiceHandler) List(c *gin.Context) {
	q, ok := historyQuery(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// ExportCSV downloads the filtered history as CSV
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	q, ok := historyQuery(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.invoiceService.ExportCSV(c.Request.Context(), q, &buf); err != nil {
		respondError(c, err)
		return
	}

	attachment(c, "csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX downloads the filtered history as a workbook
func (h *InvoiceHandler) ExportXLSX(c *gin.Context) {
	q, ok := historyQuery(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.invoiceService.ExportXLSX(c.Request.Context(), q, &buf); err != nil {
		respondError(c, err)
		return
	}

	attachment(c, "xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func attachment(c *gin.Context, ext string) {
	name := fmt.Sprintf("invoices-%s.%s", time.Now().Format("2006-01-02"), ext)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
}

// Get handles getting a single bill
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Layout returns the printable layout of a bill
func (h *InvoiceHandler) Layout(c *gin.Context) {
	layout, err := h.invoiceService.Layout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Invoice layout generated", layout)
}

// PDF downloads a bill as an A4 PDF
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id := c.Param("id")

	var buf bytes.Buffer
	if err := h.invoiceService.WritePDF(c.Request.Context(), id, &buf); err != nil {
		respondError(c, err)
		return
	}

	disposition := "inline"
	if c.Query("download") == "true" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`%s; filename="invoice-%s.pdf"`, disposition, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// Print sends a bill to the receipt printer
func (h *InvoiceHandler) Print(c *gin.Context) {
	result, err := h.printerService.PrintInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		if result != nil {
			// The receipt is still useful when the printer is unavailable.
			response.WithWarning(c, "Bill was not printed", err.Error(), result)
			return
		}
		respondError(c, err)
		return
	}

	response.OK(c, "Bill sent to printer", result)
}
