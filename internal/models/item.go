package models

import "github.com/sheikh-saqib/cashbook/internal/idgen"

// DefaultDate is the date text an item carries until one is set.
// It is a placeholder, not a parsed timestamp.
const DefaultDate = "Now"

// IDSource supplies item identifiers.
type IDSource interface {
	Next() uint64
}

// Item represents a single ledger record, income or expense
type Item struct {
	ID          uint64  `json:"id"`                    // unique, assigned at construction
	Kind        Entry   `json:"kind"`                  // in or out
	Amount      uint32  `json:"amount"`                // magnitude, sign comes from Kind
	Description *string `json:"description,omitempty"` // nil when absent
	Date        string  `json:"date"`                  // free-form text
}

// NewItem creates an item of the given kind with an identifier taken from
// the process-wide generator.
func NewItem(kind Entry) Item {
	return NewItemFrom(idgen.Default, kind)
}

// NewItemFrom creates an item of the given kind with an identifier taken
// from ids. Amount is 0, description is absent and date is DefaultDate.
func NewItemFrom(ids IDSource, kind Entry) Item {
	return Item{
		ID:     ids.Next(),
		Kind:   kind,
		Amount: 0,
		Date:   DefaultDate,
	}
}

// WithAmount returns a copy of i with the amount replaced.
func (i Item) WithAmount(amount uint32) Item {
	i.Amount = amount
	return i
}

// WithDescription returns a copy of i with the description set.
func (i Item) WithDescription(description string) Item {
	i.Description = &description
	return i
}

// WithDate returns a copy of i with the date replaced. The text is not
// validated.
func (i Item) WithDate(date string) Item {
	i.Date = date
	return i
}

// Clone returns a copy of i that shares no memory with it.
func (i Item) Clone() Item {
	if i.Description != nil {
		return i.WithDescription(*i.Description)
	}
	return i
}

// DescriptionOr returns the description, or fallback when it is absent.
func (i Item) DescriptionOr(fallback string) string {
	if i.Description == nil {
		return fallback
	}
	return *i.Description
}
