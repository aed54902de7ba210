package types

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const (
	// HolidayLayoutDMY is the day-month-year layout used by holiday lists, e.g. 25-12-2007.
	HolidayLayoutDMY = "02-01-2006"
	DateLayoutISO    = "2006-01-02"

	MaxSettlementSearchDays = 3650
)

// HolidaySet is a set of non-business days. It cannot be changed once built;
// the zero value is an empty set.
type HolidaySet struct {
	days map[civil.Date]struct{}
}

func NewHolidaySet(dates ...civil.Date) HolidaySet {
	days := make(map[civil.Date]struct{}, len(dates))
	for _, d := range dates {
		days[d] = struct{}{}
	}
	return HolidaySet{days: days}
}

// ParseHolidays parses holiday date strings using an explicit layout.
// Blank entries are ignored.
func ParseHolidays(dates []string, layout string) (HolidaySet, error) {
	if layout == "" {
		layout = HolidayLayoutDMY
	}

	parsed := make([]civil.Date, 0, len(dates))
	for _, s := range dates {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		d, err := ParseDate(s, layout)
		if err != nil {
			return HolidaySet{}, fmt.Errorf("%w: %q (layout %s)", ErrInvalidHolidayDate, s, layout)
		}

		parsed = append(parsed, d)
	}

	return NewHolidaySet(parsed...), nil
}

// ParseDate parses s with the given time layout into a calendar date.
func ParseDate(s, layout string) (civil.Date, error) {
	ts, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, err
	}
	return civil.DateOf(ts), nil
}

func (h HolidaySet) Contains(d civil.Date) bool {
	_, ok := h.days[d]
	return ok
}

// Len is the number of distinct holidays.
func (h HolidaySet) Len() int { return len(h.days) }

// Merge returns a new set holding the holidays of h and o.
func (h HolidaySet) Merge(o HolidaySet) HolidaySet {
	days := make(map[civil.Date]struct{}, len(h.days)+len(o.days))
	for d := range h.days {
		days[d] = struct{}{}
	}
	for d := range o.days {
		days[d] = struct{}{}
	}
	return HolidaySet{days: days}
}

func IsWeekend(d civil.Date) bool {
	wd := d.In(time.UTC).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextBusinessDay returns the first day after tradeDate that is neither a weekend
// nor a holiday.
func NextBusinessDay(tradeDate civil.Date, holidays HolidaySet) (civil.Date, error) {
	d := tradeDate.AddDays(1)

	for range MaxSettlementSearchDays {
		if !IsWeekend(d) && !holidays.Contains(d) {
			return d, nil
		}
		d = d.AddDays(1)
	}

	return civil.Date{}, fmt.Errorf("%w: after %s within %d days", ErrSettlementNotFound, tradeDate, MaxSettlementSearchDays)
}
