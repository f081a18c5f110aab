package notion

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	sj "github.com/bitly/go-simplejson"

	"github.com/devmaxde/notion-client/pkg/variant"
)

// DateOrDateTime is either a calendar date with no time of day, or an instant.
// A date never acquires a time component on its way through this package.
type DateOrDateTime struct {
	date    civil.Date
	instant time.Time
	hasTime bool
}

// DateOnly returns a calendar date value.
func DateOnly(d civil.Date) DateOrDateTime {
	return DateOrDateTime{date: d}
}

// DateTime returns an instant value, normalized to UTC.
func DateTime(t time.Time) DateOrDateTime {
	return DateOrDateTime{instant: t.UTC(), hasTime: true}
}

// HasTime reports whether the value is an instant.
func (v DateOrDateTime) HasTime() bool { return v.hasTime }

// Date returns the calendar date, or the UTC date of an instant.
func (v DateOrDateTime) Date() civil.Date {
	if v.hasTime {
		return civil.DateOf(v.instant)
	}
	return v.date
}

// Time returns the instant, or midnight UTC of a calendar date.
func (v DateOrDateTime) Time() time.Time {
	if v.hasTime {
		return v.instant
	}
	return v.date.In(time.UTC)
}

func (v DateOrDateTime) String() string {
	if v.hasTime {
		return formatTimestamp(v.instant)
	}
	return v.date.String()
}

// Date values have no discriminant; the two shapes are told apart lexically.
// The date candidate is tried first and only accepts YYYY-MM-DD exactly, so a
// string with a time component always falls through to date_time.
var dateOrDateTime = variant.NewUntagged("date",
	variant.Try("date", decodeCalendarDate),
	variant.Try("date_time", decodeInstant),
)

func decodeCalendarDate(doc *sj.Json, path variant.Path) (DateOrDateTime, error) {
	s, err := variant.String(doc, path)
	if err != nil {
		return DateOrDateTime{}, err
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return DateOrDateTime{}, &variant.TypeMismatchError{Path: path, Expected: "date (YYYY-MM-DD)", Actual: fmt.Sprintf("%q", s)}
	}
	return DateOnly(d), nil
}

func decodeInstant(doc *sj.Json, path variant.Path) (DateOrDateTime, error) {
	t, err := decodeTimestamp(doc, path)
	if err != nil {
		return DateOrDateTime{}, err
	}
	return DateTime(t), nil
}

func encodeDateOrDateTime(v DateOrDateTime) (any, error) {
	return v.String(), nil
}

// decodeTimestamp reads an RFC 3339 instant and converts it to UTC.
func decodeTimestamp(doc *sj.Json, path variant.Path) (time.Time, error) {
	s, err := variant.String(doc, path)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &variant.TypeMismatchError{Path: path, Expected: "RFC 3339 timestamp", Actual: fmt.Sprintf("%q", s)}
	}
	return t.UTC(), nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func encodeTimestamp(t time.Time) (any, error) {
	return formatTimestamp(t), nil
}

// DateValue is the payload of date properties, date mentions and date
// formula results.
type DateValue struct {
	Start    variant.Optional[DateOrDateTime]
	End      variant.Optional[DateOrDateTime]
	TimeZone variant.Optional[string]
}

var decodeDateValue = variant.ObjectOf(func(o variant.Object) (DateValue, error) {
	var (
		v   DateValue
		err error
	)
	if v.Start, err = variant.OptionalField(o, "start", dateOrDateTime.Decode); err != nil {
		return DateValue{}, err
	}
	if v.End, err = variant.OptionalField(o, "end", dateOrDateTime.Decode); err != nil {
		return DateValue{}, err
	}
	if v.TimeZone, err = variant.OptionalField(o, "time_zone", variant.String); err != nil {
		return DateValue{}, err
	}
	return v, nil
})

func encodeDateValue(v DateValue) (any, error) {
	f := variant.Fields{}
	if err := variant.SetOptional(f, "start", v.Start, encodeDateOrDateTime); err != nil {
		return nil, err
	}
	if err := variant.SetOptional(f, "end", v.End, encodeDateOrDateTime); err != nil {
		return nil, err
	}
	if err := variant.SetOptional(f, "time_zone", v.TimeZone, variant.EncodeString); err != nil {
		return nil, err
	}
	return f, nil
}
