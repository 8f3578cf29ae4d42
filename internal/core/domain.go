package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// DateLayout is the canonical on-disk date format.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	Frequency string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single dated income or expense record.
	Transaction struct {
		ID          int64
		Date        Date
		Type        TransactionType
		Category    string
		Amount      Money
		Description string
	}

	// RecurringTransaction is a template that materializes into
	// transactions on a fixed schedule.
	RecurringTransaction struct {
		ID          int64
		StartDate   Date
		EndDate     Date // zero = open ended
		Every       Frequency
		Type        TransactionType
		Category    string
		Amount      Money
		Description string
		LastRun     Date // zero = never executed
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyCategory = errors.New("empty category")
	ErrNotFound      = errors.New("transaction not found")
)

// ParseTransactionType normalizes and validates a transaction type string.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// Valid returns true for the two supported transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// String implements fmt.Stringer
func (t TransactionType) String() string {
	return string(t)
}

// Valid returns true for the supported repetition frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer
func (f Frequency) String() string {
	return string(f)
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date truncated to midnight UTC.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// String renders the date in the canonical YYYY-MM-DD form.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// YearMonth returns the "YYYY-MM" bucket key for monthly aggregation.
func (d Date) YearMonth() string {
	return d.Format("2006-01")
}

// Signed returns the amount as a signed contribution to balance:
// income adds, expense subtracts.
func (t Transaction) Signed() int64 {
	if t.Type == Expense {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

func (rt RecurringTransaction) Validate() error {
	if rt.StartDate.IsZero() {
		return errors.New("invalid start date")
	}
	if !rt.EndDate.IsZero() && rt.EndDate.Before(rt.StartDate.Time) {
		return errors.New("end date must not precede start date")
	}
	if !rt.Every.Valid() {
		return errors.New("invalid repetition frequency")
	}
	if !rt.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(rt.Category) == "" {
		return ErrEmptyCategory
	}
	return rt.Amount.Validate()
}

// Active reports whether the template is live on the given date.
func (rt RecurringTransaction) Active(on Date) bool {
	if on.Before(rt.StartDate.Time) {
		return false
	}
	if !rt.EndDate.IsZero() && on.After(rt.EndDate.Time) {
		return false
	}
	return true
}
