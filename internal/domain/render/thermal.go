package render

import (
	"github.com/sangkips/gstbill-api/pkg/printer"
)

// WriteThermal writes l as a receipt into doc. Filler rows are skipped
// since receipt paper has no fixed height.
func WriteThermal(doc *printer.Document, l Layout) *printer.Document {
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(l.Header.BusinessName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	for _, s := range []string{l.Header.Subtitle, l.Header.Address, l.Header.Phone, prefixed("GSTIN: ", l.Header.GSTIN)} {
		if s != "" {
			doc.Wrap(s)
		}
	}
	doc.SetBold(true).Text(l.Title).SetBold(false)

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Bill No: "+l.Meta.BillNo, l.Meta.Date).
		Text("To: " + joinNonEmpty(", ", l.Meta.CustomerName, l.Meta.CustomerCity)).
		Separator('-')

	for _, r := range l.Rows {
		if r.Filler {
			continue
		}
		name := r.SerialNo + ". " + r.Name
		if r.Packing != "" {
			name += " (" + r.Packing + ")"
		}
		doc.Wrap(name)
		doc.KeyValue("   "+r.Quantity+" "+r.Unit+" x "+r.Rate, r.Amount)
	}
	doc.Separator('-')

	for _, t := range l.Totals {
		if t.Grand {
			doc.SetBold(true)
		}
		doc.KeyValue(t.Label, t.Value)
		if t.Grand {
			doc.SetBold(false)
		}
		if t.Weight != "" {
			doc.KeyValue("Total Weight", t.Weight)
		}
	}
	doc.Separator('-').Wrap(l.AmountInWords)

	if u := l.UPI; u != nil {
		doc.LineFeed().SetAlign(printer.AlignCenter).Text("Pay via UPI: " + u.VPA)
	}
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(l.Signature.For).
		FeedLines(3).
		PartialCut()
	return doc
}
