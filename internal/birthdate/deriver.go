package birthdate

import (
	"fmt"
	"math"
	"strings"
	"time"

	"registration-mailer/internal/domain"
)

// Layout is the only accepted date of birth format.
const Layout = "2006-01-02"

// AgeMethod selects how whole years are counted.
type AgeMethod string

const (
	// AgeCalendar counts completed calendar years.
	AgeCalendar AgeMethod = "calendar"
	// AgeMeanYear divides elapsed days by 365.25 and floors the result.
	AgeMeanYear AgeMethod = "meanyear"
)

// ParseAgeMethod maps a config value onto a known method.
func ParseAgeMethod(s string) (AgeMethod, error) {
	switch AgeMethod(strings.ToLower(strings.TrimSpace(s))) {
	case "", AgeCalendar:
		return AgeCalendar, nil
	case AgeMeanYear:
		return AgeMeanYear, nil
	default:
		return "", fmt.Errorf("unknown age method %q", s)
	}
}

// Deriver computes age and weekday of birth.
//
// Age is measured against the calendar date of Now at call time, so the same
// date of birth can yield different ages on different days. The weekday only
// depends on the date of birth.
//
// The default AgeCalendar and AgeMeanYear disagree within a day or two of a
// birthday: 1990-01-01 is 34 on 2024-01-01 by calendar but 33 by mean year.
type Deriver struct {
	Now    func() time.Time
	Method AgeMethod
}

type Option func(*Deriver)

func WithClock(now func() time.Time) Option {
	return func(d *Deriver) { d.Now = now }
}

func WithMethod(m AgeMethod) Option {
	return func(d *Deriver) { d.Method = m }
}

func New(opts ...Option) *Deriver {
	d := &Deriver{
		Now:    time.Now,
		Method: AgeCalendar,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive parses dob and returns the registrant's age and weekday of birth.
func (d *Deriver) Derive(dob string) (domain.DerivedInfo, error) {
	born, err := Parse(dob)
	if err != nil {
		return domain.DerivedInfo{}, err
	}

	now := d.Now()
	ref := civilDate(now.Year(), now.Month(), now.Day())
	if born.After(ref) {
		return domain.DerivedInfo{}, fmt.Errorf("%w: date of birth %s is in the future", domain.ErrInvalidDate, dob)
	}

	var age int
	switch d.Method {
	case AgeMeanYear:
		age = MeanYearAge(born, ref)
	default:
		age = CalendarAge(born, ref)
	}

	return domain.DerivedInfo{
		Age:       age,
		DayOfWeek: born.Weekday().String(),
	}, nil
}

// Parse reads a YYYY-MM-DD calendar date as UTC midnight.
func Parse(dob string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(dob))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", domain.ErrInvalidDate, dob)
	}
	return t, nil
}

// CalendarAge returns the number of birthdays reached by ref. A 29 February
// birthday counts as reached on 1 March in common years.
func CalendarAge(born, ref time.Time) int {
	age := ref.Year() - born.Year()
	if ref.Month() < born.Month() || (ref.Month() == born.Month() && ref.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// MeanYearAge returns floor(elapsed days / 365.25).
func MeanYearAge(born, ref time.Time) int {
	days := float64((ref.Unix() - born.Unix()) / 86400)
	age := int(math.Floor(days / 365.25))
	if age < 0 {
		return 0
	}
	return age
}

func civilDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
