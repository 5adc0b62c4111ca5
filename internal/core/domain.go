package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a purchase date at month granularity. The feed labels entries
	// with month names ("Jan 2024"), so two entries in the same calendar
	// month compare equal.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Item is one catalog entry. Immutable after feed load.
	Item struct {
		ID          string
		Label       string
		Description string
	}

	// PurchaseEntry is one dated purchase transaction for an item.
	// Total is carried from the feed and expected to be close to Qty*Price;
	// it is not recomputed (see TotalMismatch).
	PurchaseEntry struct {
		Date  Date
		Qty   int64
		Price Money
		Total Money
	}

	// ItemHistory holds one item's purchase entries, ordered ascending by
	// date. Ordering is a feed precondition and is not enforced here.
	ItemHistory struct {
		ItemID  string
		Entries []PurchaseEntry
	}
)

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrEmptyItemID    = errors.New("empty item id")
	ErrEmptyLabel     = errors.New("empty item label")
	ErrNegativeQty    = errors.New("negative quantity")
	ErrNegativeAmount = errors.New("negative amount")
)

// dateLayouts are accepted purchase-date formats, tried in order.
var dateLayouts = []string{
	"Jan 2006",
	"January 2006",
	"2006-01-02",
	"Jan 2, 2006",
	"02/01/2006",
}

// ParseDate parses a feed date label into a Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, ErrInvalidDate
}

// NewDate creates a Date for the given year and month.
func NewDate(year, month int) Date {
	return Date{Time: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)}
}

// Label renders the date the way the feed and the UI spell months.
func (d Date) Label() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2006")
}

// MonthStart truncates the date to the first day of its calendar month.
// Used as the grouping key for monthly aggregation, so a same-named month
// in different years never collides.
func (d Date) MonthStart() Date {
	return NewDate(d.Year(), int(d.Month()))
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrEmptyItemID
	}
	if strings.TrimSpace(i.Label) == "" {
		return ErrEmptyLabel
	}
	return nil
}

func (e PurchaseEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Qty < 0 {
		return ErrNegativeQty
	}
	if err := e.Price.Validate(); err != nil {
		return err
	}
	return e.Total.Validate()
}

// TotalMismatch reports whether the feed's Total deviates from Qty*Price by
// more than one cent. Callers log mismatches but keep the feed value as-is.
func (e PurchaseEntry) TotalMismatch() bool {
	diff := e.Total.Cents - e.Qty*e.Price.Cents
	if diff < 0 {
		diff = -diff
	}
	return diff > 1
}
