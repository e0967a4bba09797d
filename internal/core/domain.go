package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Direction values match the in_out column of the source schema:
	// 1 for money coming in, 0 for money going out.
	Spending Direction = 0
	Income   Direction = 1
)

type (
	// Direction tells whether a transaction is income or spending.
	Direction int

	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	// Money is an exact currency amount in cents (minor units).
	// All aggregation happens on Cents; floats never touch amounts.
	Money struct {
		Cents int64
	}

	// Transaction is a single cash-book entry. Relation names (category,
	// partner, payment method) are resolved by the storage collaborator
	// before a transaction reaches the formatters; an empty string means
	// the relation is not set and a localized default applies.
	Transaction struct {
		ID                int64
		Date              Date
		Amount            Money
		Direction         Direction
		Description       string
		CategoryName      string
		PartnerName       string
		PaymentMethodName string
		BookID            int64
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidPeriod    = errors.New("invalid period")
)

// DateLayout is the wire format for dates everywhere in the service.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string. Malformed input fails fast with
// ErrInvalidDate so callers reject bad periods before any aggregation.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// PrevDay returns the calendar day before d.
func (d Date) PrevDay() Date {
	return Date{Time: d.AddDate(0, 0, -1)}
}

// String renders the date in wire format.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsIncome reports whether the direction is income.
func (dir Direction) IsIncome() bool {
	return dir == Income
}

func (dir Direction) Validate() error {
	if dir != Income && dir != Spending {
		return ErrInvalidDirection
	}
	return nil
}

// InOut returns the numeric in_out representation used by storage.
func (dir Direction) InOut() int64 {
	return int64(dir)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns the difference of two amounts.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Direction.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 255 {
		return errors.New("description too long (max 255 characters)")
	}
	return nil
}

// Period is an inclusive date range for reporting.
type Period struct {
	Start Date
	End   Date
}

// ParsePeriod parses and validates a start/end date pair.
func ParsePeriod(start, end string) (Period, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Period{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Period{}, err
	}
	if e.Before(s.Time) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: s, End: e}, nil
}
