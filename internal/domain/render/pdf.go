package render

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Images holds decoration bytes keyed by their configured URL. A layout
// image with no entry here is drawn with its fallback.
type Images map[string][]byte

const (
	pxToPt    = 0.75
	marginPx  = 40.0
	rowPx     = 24.0
	totalPx   = 22.0
	tableTop  = 200.0
	footerMin = 880.0
	footerPx  = 200.0
)

var colWidthsPx = []float64{40, 234, 90, 70, 70, 100, 110}

func pt(px float64) float64 { return px * pxToPt }

type pdfWriter struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	theme  [3]int
	images Images
}

// WritePDF draws l on A4 pages and writes the document to w.
func WritePDF(w io.Writer, l Layout, images Images) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pt(float64(l.Page.WidthPx)), Ht: pt(float64(l.Page.HeightPx))},
	})
	pdf.SetMargins(pt(marginPx), pt(marginPx), pt(marginPx))
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(l.Title+" "+l.Meta.BillNo, true)
	pdf.SetCreator(l.Header.BusinessName, true)
	pdf.AddPage()

	pw := &pdfWriter{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		theme:  parseHexColor(l.ThemeColor),
		images: images,
	}
	pw.header(l)
	pw.meta(l)
	y := pw.table(l)
	y = pw.totals(l, y)
	pw.footer(l, y)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func (p *pdfWriter) text(xPx, yPx, wPx, hPx float64, s, align string) {
	p.pdf.SetXY(pt(xPx), pt(yPx))
	p.pdf.CellFormat(pt(wPx), pt(hPx), p.tr(s), "", 0, align, false, 0, "")
}

func (p *pdfWriter) font(style string, size float64) {
	p.pdf.SetFont("Helvetica", style, size)
}

func (p *pdfWriter) header(l Layout) {
	pdf := p.pdf
	if !p.image(l.Header.Logo.ImageURL, marginPx, marginPx, 64, 64) {
		pdf.SetFillColor(p.theme[0], p.theme[1], p.theme[2])
		pdf.Circle(pt(marginPx+32), pt(marginPx+32), pt(32), "F")
		pdf.SetTextColor(255, 255, 255)
		p.font("B", 24)
		p.text(marginPx, marginPx+20, 64, 24, l.Header.Logo.Initial, "CM")
	}

	pdf.SetTextColor(p.theme[0], p.theme[1], p.theme[2])
	p.font("B", 18)
	p.text(120, 40, 420, 26, l.Header.BusinessName, "LM")
	p.font("B", 13)
	p.text(554, 40, 200, 24, l.Title, "RM")

	pdf.SetTextColor(60, 60, 60)
	p.font("", 9)
	lineY := 68.0
	for _, s := range []string{
		l.Header.Subtitle,
		l.Header.Address,
		joinNonEmpty("  |  ", prefixed("Ph: ", l.Header.Phone), l.Header.Email),
		prefixed("GSTIN: ", l.Header.GSTIN),
	} {
		if s == "" {
			continue
		}
		p.text(120, lineY, 634, 16, s, "LM")
		lineY += 16
	}

	pdf.SetDrawColor(p.theme[0], p.theme[1], p.theme[2])
	pdf.SetLineWidth(pt(2))
	pdf.Line(pt(marginPx), pt(140), pt(float64(l.Page.WidthPx)-marginPx), pt(140))
	pdf.SetLineWidth(pt(1))
}

func (p *pdfWriter) meta(l Layout) {
	p.pdf.SetTextColor(0, 0, 0)
	p.font("", 9)
	p.text(marginPx, 150, 300, 16, "Bill To", "LM")
	p.font("B", 11)
	p.text(marginPx, 166, 400, 16, l.Meta.CustomerName, "LM")
	p.font("", 10)
	p.text(marginPx, 182, 400, 14, l.Meta.CustomerCity, "LM")

	p.font("B", 10)
	p.text(554, 150, 200, 16, "Bill No: "+l.Meta.BillNo, "RM")
	p.font("", 10)
	p.text(554, 166, 200, 16, "Date: "+l.Meta.Date, "RM")
}

func (p *pdfWriter) tableHeader(l Layout, y float64) {
	pdf := p.pdf
	pdf.SetFillColor(p.theme[0], p.theme[1], p.theme[2])
	pdf.SetTextColor(255, 255, 255)
	p.font("B", 9)
	x := marginPx
	for i, col := range l.Columns {
		pdf.SetXY(pt(x), pt(y))
		pdf.CellFormat(pt(colWidthsPx[i]), pt(rowPx), p.tr(col), "1", 0, colAlign(i), true, 0, "")
		x += colWidthsPx[i]
	}
	pdf.SetTextColor(0, 0, 0)
}

func (p *pdfWriter) table(l Layout) float64 {
	y := tableTop
	p.tableHeader(l, y)
	y += rowPx
	p.font("", 9)
	for _, r := range l.Rows {
		if y+rowPx > float64(l.Page.HeightPx)-marginPx {
			p.pdf.AddPage()
			y = marginPx
			p.tableHeader(l, y)
			y += rowPx
			p.font("", 9)
		}
		border := "LR"
		cells := []string{r.SerialNo, r.Name, r.Packing, r.Quantity, r.Unit, r.Rate, r.Amount}
		x := marginPx
		for i, c := range cells {
			p.pdf.SetXY(pt(x), pt(y))
			p.pdf.CellFormat(pt(colWidthsPx[i]), pt(rowPx), p.tr(c), border, 0, colAlign(i), false, 0, "")
			x += colWidthsPx[i]
		}
		y += rowPx
	}
	p.pdf.Line(pt(marginPx), pt(y), pt(float64(l.Page.WidthPx)-marginPx), pt(y))
	return y
}

func (p *pdfWriter) totals(l Layout, y float64) float64 {
	y += 6
	right := float64(l.Page.WidthPx) - marginPx
	for _, t := range l.Totals {
		if t.Weight != "" {
			p.font("", 9)
			p.text(marginPx, y, 300, totalPx, "Total Weight: "+t.Weight, "LM")
		}
		if t.Grand {
			p.pdf.SetFillColor(p.theme[0], p.theme[1], p.theme[2])
			p.pdf.SetTextColor(255, 255, 255)
			p.font("B", 11)
			p.pdf.SetXY(pt(right-300), pt(y))
			p.pdf.CellFormat(pt(190), pt(totalPx), p.tr(t.Label), "", 0, "LM", true, 0, "")
			p.pdf.CellFormat(pt(110), pt(totalPx), p.tr(t.Value), "", 0, "RM", true, 0, "")
			p.pdf.SetTextColor(0, 0, 0)
		} else {
			p.font("", 10)
			p.text(right-300, y, 190, totalPx, t.Label, "LM")
			p.text(right-110, y, 110, totalPx, t.Value, "RM")
		}
		y += totalPx
	}

	y += 8
	p.font("I", 9)
	p.text(marginPx, y, 80, 16, "Amount in words:", "LM")
	p.font("B", 9)
	p.text(marginPx+84, y, float64(l.Page.WidthPx)-2*marginPx-84, 16, l.AmountInWords, "LM")
	return y + 16
}

func (p *pdfWriter) footer(l Layout, y float64) {
	top := footerMin
	if y+20 > top {
		top = y + 20
	}
	if top+footerPx > float64(l.Page.HeightPx) {
		p.pdf.AddPage()
		top = marginPx
	}

	if b := l.Bank; b != nil {
		p.font("B", 9)
		p.text(marginPx, top, 240, 14, "Bank Details", "LM")
		p.font("", 9)
		lineY := top + 16
		for _, s := range []string{
			b.BankName,
			prefixed("A/c Name: ", b.AccountName),
			"A/c No: " + b.AccountNumber,
			prefixed("IFSC: ", b.IFSC),
			prefixed("Branch: ", b.Branch),
		} {
			if s == "" {
				continue
			}
			p.text(marginPx, lineY, 240, 14, s, "LM")
			lineY += 14
		}
	}

	if u := l.UPI; u != nil {
		p.pdf.SetDrawColor(p.theme[0], p.theme[1], p.theme[2])
		p.pdf.Rect(pt(310), pt(top), pt(90), pt(90), "D")
		p.font("B", 8)
		p.text(310, top+38, 90, 14, "UPI QR", "CM")
		p.font("", 8)
		p.text(290, top+94, 130, 12, u.VPA, "CM")
	}

	right := float64(l.Page.WidthPx) - marginPx
	p.font("B", 9)
	p.text(right-200, top, 200, 14, l.Signature.For, "RM")
	p.image(l.Signature.ImageURL, right-140, top+18, 140, 50)
	p.font("", 9)
	p.text(right-200, top+76, 200, 14, l.Signature.Caption, "RM")

	if l.Terms != "" {
		p.font("", 8)
		p.pdf.SetXY(pt(marginPx), pt(top+130))
		p.pdf.MultiCell(pt(float64(l.Page.WidthPx)-2*marginPx), pt(12), p.tr(l.Terms), "", "L", false)
	}
}

// image draws a registered image and reports whether it did.
func (p *pdfWriter) image(ref string, xPx, yPx, wPx, hPx float64) bool {
	if ref == "" {
		return false
	}
	data, ok := p.images[ref]
	if !ok || len(data) == 0 {
		return false
	}
	kind := imageType(data)
	if kind == "" {
		return false
	}
	opts := gofpdf.ImageOptions{ImageType: kind}
	info := p.pdf.RegisterImageOptionsReader(ref, opts, bytes.NewReader(data))
	if info == nil || !p.pdf.Ok() {
		p.pdf.ClearError()
		return false
	}
	p.pdf.ImageOptions(ref, pt(xPx), pt(yPx), pt(wPx), pt(hPx), false, opts, 0, "")
	return true
}

func imageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

func colAlign(i int) string {
	switch i {
	case 0, 3, 4:
		return "CM"
	case 5, 6:
		return "RM"
	}
	return "LM"
}

func parseHexColor(s string) [3]int {
	fallback := [3]int{30, 58, 138}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	var out [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return fallback
		}
		out[i] = int(v)
	}
	return out
}

func prefixed(prefix, s string) string {
	if s == "" {
		return ""
	}
	return prefix + s
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, s := range parts {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, sep)
}
