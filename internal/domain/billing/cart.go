package billing

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Header holds the header fields of the bill being composed.
type Header struct {
	BillNo       string `json:"bill_no"`
	Date         string `json:"date"`
	CustomerName string `json:"customer_name"`
	CustomerCity string `json:"customer_city"`
}

// HeaderPatch edits header fields. Nil fields are left unchanged.
type HeaderPatch struct {
	Date         *string
	CustomerName *string
	CustomerCity *string
}

// Snapshot is a read-only copy of the cart with its derived figures.
type Snapshot struct {
	State             enum.CartState          `json:"state"`
	Header            Header                  `json:"header"`
	Items             []entity.LineItem       `json:"items"`
	Tax               entity.TaxConfiguration `json:"tax"`
	Totals            entity.Totals           `json:"totals"`
	AmountInWords     string                  `json:"amount_in_words"`
	TotalWeight       string                  `json:"total_weight"`
	HasUnsavedChanges bool                    `json:"has_unsaved_changes"`
	SettingsVersion   int64                   `json:"settings_version"`
}

// Draft is the persisted form of a cart, used to survive restarts.
type Draft struct {
	State           enum.CartState          `json:"state"`
	Header          Header                  `json:"header"`
	Items           []entity.LineItem       `json:"items"`
	Tax             entity.TaxConfiguration `json:"tax"`
	SettingsVersion int64                   `json:"settings_version"`
}

// Cart is the single bill being composed. All methods are safe for
// concurrent use and recompute totals before returning.
//
// States: Editable -> Saving on BeginSave; Saving -> Locked when the save
// succeeds, Saving -> Editable when it fails; Locked -> Editable on Reset.
type Cart struct {
	mu              sync.Mutex
	state           enum.CartState
	header          Header
	items           []entity.LineItem
	tax             entity.TaxConfiguration
	settingsVersion int64
	totals          entity.Totals
	now             func() time.Time
}

// NewCart returns an empty editable cart configured from settings.
func NewCart(settings entity.BusinessSettings, now func() time.Time) *Cart {
	if now == nil {
		now = time.Now
	}
	c := &Cart{now: now}
	c.header.Date = now().Format(entity.DateLayout)
	c.applySettings(settings)
	c.recompute()
	return c
}

// ApplySettings takes the bill number and tax snapshot from settings.
// A cart that is saving or locked keeps what it has and returns false.
func (c *Cart) ApplySettings(settings entity.BusinessSettings) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.AcceptsEdits() {
		return false
	}
	c.applySettings(settings)
	c.recompute()
	return true
}

func (c *Cart) applySettings(s entity.BusinessSettings) {
	c.header.BillNo = entity.FormatBillNo(s.NextInvoiceNumber)
	c.tax = s.TaxConfiguration()
	c.settingsVersion = s.Version
}

// AddItem adds qty of p. A line for the same product absorbs the quantity
// and keeps the rate it was created with.
func (c *Cart) AddItem(p entity.Product, qty decimal.Decimal) (entity.LineItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return entity.LineItem{}, err
	}
	if !qty.IsPositive() {
		return entity.LineItem{}, invalid("quantity", ErrInvalidQuantity)
	}
	if p.Price.IsNegative() {
		return entity.LineItem{}, invalid("rate", ErrInvalidRate)
	}

	for i := range c.items {
		if c.items[i].ProductID == p.ID {
			c.items[i].Quantity = c.items[i].Quantity.Add(qty)
			c.items[i].Recompute()
			c.recompute()
			return c.items[i], nil
		}
	}

	li := entity.NewLineItem(p, qty)
	c.items = append(c.items, li)
	c.recompute()
	return li, nil
}

// AdjustQuantity moves a line's quantity by delta, never below one.
func (c *Cart) AdjustQuantity(lineID uuid.UUID, delta decimal.Decimal) (entity.LineItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return entity.LineItem{}, err
	}
	i := c.indexOf(lineID)
	if i < 0 {
		return entity.LineItem{}, ErrLineNotFound
	}
	q := c.items[i].Quantity.Add(delta)
	if q.LessThan(one) {
		q = one
	}
	c.items[i].Quantity = q
	c.items[i].Recompute()
	c.recompute()
	return c.items[i], nil
}

// RemoveItem drops a line.
func (c *Cart) RemoveItem(lineID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	i := c.indexOf(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.recompute()
	return nil
}

// SetHeader edits the date and customer fields.
func (c *Cart) SetHeader(p HeaderPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	if p.Date != nil {
		c.header.Date = strings.TrimSpace(*p.Date)
	}
	if p.CustomerName != nil {
		c.header.CustomerName = strings.TrimSpace(*p.CustomerName)
	}
	if p.CustomerCity != nil {
		c.header.CustomerCity = strings.TrimSpace(*p.CustomerCity)
	}
	return nil
}

// Reset clears lines and header fields, stamps today's date and makes the
// cart editable again. It is refused while a save is outstanding.
func (c *Cart) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == enum.CartSaving {
		return ErrSaveInProgress
	}
	c.state = enum.CartEditable
	c.items = nil
	c.header = Header{
		BillNo: c.header.BillNo,
		Date:   c.now().Format(entity.DateLayout),
	}
	c.recompute()
	return nil
}

// BeginSave validates the cart, moves it to Saving and returns the bill
// to persist. From this point no edit is accepted until FinishSave.
func (c *Cart) BeginSave() (*entity.Invoice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return nil, err
	}
	if len(c.items) == 0 {
		return nil, invalid("items", ErrEmptyCart)
	}
	if c.header.CustomerName == "" {
		return nil, invalid("customer_name", ErrMissingCustomer)
	}
	seq, err := parseBillNo(c.header.BillNo)
	if err != nil {
		return nil, invalid("bill_no", err)
	}

	c.state = enum.CartSaving
	c.recompute()

	doc := &entity.Invoice{
		ID:              c.header.BillNo,
		Sequence:        seq,
		Date:            c.header.Date,
		CustomerName:    c.header.CustomerName,
		CustomerCity:    c.header.CustomerCity,
		TaxEnabled:      c.tax.Enabled,
		TaxRate:         c.tax.Rate,
		Totals:          c.totals,
		SettingsVersion: c.settingsVersion,
		Items:           make([]entity.LineItem, len(c.items)),
		CreatedAt:       c.now(),
	}
	for i, it := range c.items {
		it.InvoiceID = doc.ID
		it.Position = i
		doc.Items[i] = it
	}
	return doc, nil
}

// FinishSave resolves an outstanding save. A nil error or a sequence drift
// means the bill was stored and the cart locks; any other error returns the
// cart to Editable with its contents intact.
func (c *Cart) FinishSave(err error) enum.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != enum.CartSaving {
		return c.state
	}
	if err == nil || IsSequenceDrift(err) {
		c.state = enum.CartLocked
	} else {
		c.state = enum.CartEditable
	}
	return c.state
}

// State returns the current lifecycle state.
func (c *Cart) State() enum.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HasUnsavedChanges reports whether an editable cart holds any input.
func (c *Cart) HasUnsavedChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasUnsavedChanges()
}

func (c *Cart) hasUnsavedChanges() bool {
	hasInput := len(c.items) > 0 || c.header.CustomerName != "" || c.header.CustomerCity != ""
	return hasInput && c.state.AcceptsEdits()
}

// Snapshot returns a copy of the cart and its derived figures.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]entity.LineItem, len(c.items))
	copy(items, c.items)
	return Snapshot{
		State:             c.state,
		Header:            c.header,
		Items:             items,
		Tax:               c.tax,
		Totals:            c.totals,
		AmountInWords:     AmountInWords(c.totals),
		TotalWeight:       Weight(c.items),
		HasUnsavedChanges: c.hasUnsavedChanges(),
		SettingsVersion:   c.settingsVersion,
	}
}

// Draft returns the persistable form of the cart.
func (c *Cart) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]entity.LineItem, len(c.items))
	copy(items, c.items)
	return Draft{
		State:           c.state,
		Header:          c.header,
		Items:           items,
		Tax:             c.tax,
		SettingsVersion: c.settingsVersion,
	}
}

// Restore replaces the cart with d. A draft captured mid-save comes back
// editable, since the outcome of that save is unknown.
func (c *Cart) Restore(d Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = d.State
	if c.state == enum.CartSaving {
		c.state = enum.CartEditable
	}
	c.header = d.Header
	c.items = append([]entity.LineItem(nil), d.Items...)
	for i := range c.items {
		c.items[i].Recompute()
	}
	c.tax = d.Tax
	c.settingsVersion = d.SettingsVersion
	c.recompute()
}

func (c *Cart) editable() error {
	switch c.state {
	case enum.CartSaving:
		return ErrSaveInProgress
	case enum.CartLocked:
		return ErrCartLocked
	}
	return nil
}

func (c *Cart) indexOf(lineID uuid.UUID) int {
	for i := range c.items {
		if c.items[i].ID == lineID {
			return i
		}
	}
	return -1
}

func (c *Cart) recompute() {
	c.totals = Calculate(c.items, c.tax)
}

func parseBillNo(s string) (int64, error) {
	n, ok := entity.Invoice{ID: s}.BillNumber()
	if !ok || n < 1 {
		return 0, ErrInvalidBillNo
	}
	return n, nil
}

// Invoice returns the snapshot as an unsaved bill for previews.
func (s Snapshot) Invoice() entity.Invoice {
	seq, _ := parseBillNo(s.Header.BillNo)
	return entity.Invoice{
		ID:              s.Header.BillNo,
		Sequence:        seq,
		Date:            s.Header.Date,
		CustomerName:    s.Header.CustomerName,
		CustomerCity:    s.Header.CustomerCity,
		TaxEnabled:      s.Tax.Enabled,
		TaxRate:         s.Tax.Rate,
		Totals:          s.Totals,
		SettingsVersion: s.SettingsVersion,
		Items:           s.Items,
	}
}
