package models

import "github.com/nvasko/gatherly/internal/calculator"

// Expense represents the single itemized expense sheet for one event.
// At most one Expense is persisted per EventID; saving overwrites the
// whole document.
type Expense struct {
	// ID is the unique identifier for the sheet (UUID format).
	ID string

	// EventID is the event this sheet belongs to. A sheet is meaningless
	// without its event and is removed when the event is deleted.
	EventID string

	// Title is the display name of the sheet (e.g. "Camping supplies").
	Title string

	// DivideBy is the headcount the creator typed in. Informational only:
	// the actual split uses the Attendees set.
	DivideBy int

	// Items are the cost lines in display order. Order carries no meaning
	// for the totals.
	Items []ExpenseItem

	// Attendees are the participants chosen to split the cost. May be
	// empty, in which case the full total is reported as the per-person
	// cost.
	Attendees []string

	// TotalCost is the sum of all item prices, rounded half-up to cents.
	// Derived; recomputed on every mutation.
	TotalCost float64

	// CostPerPerson is TotalCost divided by max(1, len(Attendees)),
	// rounded half-up to cents. Derived; recomputed on every mutation.
	CostPerPerson float64

	// UpdatedAt is the Unix timestamp of the last save.
	UpdatedAt int64
}

// ExpenseItem is a single line on an expense sheet.
type ExpenseItem struct {
	Name  string
	Price float64
}

// NewExpense returns an empty sheet scoped to the given event.
func NewExpense(eventID string) *Expense {
	return &Expense{EventID: eventID, DivideBy: 1}
}

// SetTitle updates the sheet title.
func (x *Expense) SetTitle(title string) {
	x.Title = title
}

// SetDivideBy parses the typed headcount. Non-numeric or non-positive
// input is coerced to 1 rather than rejected; forgiving data entry is the
// contract here.
func (x *Expense) SetDivideBy(text string) {
	x.DivideBy = calculator.ParseDivideBy(text)
}

// AddItem appends an empty cost line.
func (x *Expense) AddItem() {
	x.Items = append(x.Items, ExpenseItem{})
	x.recompute()
}

// UpdateItemName renames the line at index. Out-of-range indexes are a
// silent no-op.
func (x *Expense) UpdateItemName(index int, name string) {
	if index < 0 || index >= len(x.Items) {
		return
	}
	x.Items[index].Name = name
}

// UpdateItemPrice parses and stores the typed price for the line at
// index. Non-numeric input is coerced to 0; out-of-range indexes are a
// silent no-op.
func (x *Expense) UpdateItemPrice(index int, text string) {
	if index < 0 || index >= len(x.Items) {
		return
	}
	x.Items[index].Price = calculator.ParsePrice(text)
	x.recompute()
}

// SetAttendees replaces the attendee set.
func (x *Expense) SetAttendees(attendees []string) {
	x.Attendees = attendees
	x.recompute()
}

// Recompute refreshes the derived totals from the current items and
// attendees. Exposed for callers that assemble a sheet field-by-field,
// such as the store decode path.
func (x *Expense) Recompute() {
	x.recompute()
}

func (x *Expense) recompute() {
	prices := make([]float64, len(x.Items))
	for i, item := range x.Items {
		prices[i] = item.Price
	}
	x.TotalCost, x.CostPerPerson = calculator.Totals(prices, len(x.Attendees))
}
