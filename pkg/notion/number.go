package notion

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	sj "github.com/bitly/go-simplejson"
	"github.com/shopspring/decimal"

	"github.com/devmaxde/notion-client/pkg/variant"
)

var numberLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Number is a JSON number held in the exact textual form it was received in,
// so currency amounts and large counters survive a round trip untouched.
// The zero Number is not a valid value.
type Number struct {
	text string
}

// ParseNumber validates s as a JSON number literal.
func ParseNumber(s string) (Number, error) {
	if !numberLiteral.MatchString(s) {
		return Number{}, fmt.Errorf("invalid number literal %q", s)
	}
	return Number{text: s}, nil
}

// NumberFromInt returns the Number for i.
func NumberFromInt(i int64) Number {
	return Number{text: strconv.FormatInt(i, 10)}
}

// NumberFromDecimal returns the Number for d without an exponent.
func NumberFromDecimal(d decimal.Decimal) Number {
	return Number{text: d.String()}
}

func (n Number) String() string { return n.text }

// IsZero reports whether n is the unset zero value.
func (n Number) IsZero() bool { return n.text == "" }

// Decimal returns the exact decimal value.
func (n Number) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(n.text)
}

// Int64 returns the value as an integer, failing for fractions and overflow.
func (n Number) Int64() (int64, error) {
	return json.Number(n.text).Int64()
}

// Float64 returns the nearest float, which may round.
func (n Number) Float64() (float64, error) {
	return json.Number(n.text).Float64()
}

// Equal compares numeric values, so "1.50" equals "1.5". Use == to compare
// textual forms.
func (n Number) Equal(other Number) bool {
	a, errA := n.Decimal()
	b, errB := other.Decimal()
	if errA != nil || errB != nil {
		return n.text == other.text
	}
	return a.Equal(b)
}

func decodeNumber(doc *sj.Json, path variant.Path) (Number, error) {
	raw, err := variant.Number(doc, path)
	if err != nil {
		return Number{}, err
	}
	return Number{text: raw.String()}, nil
}

var errZeroNumber = errors.New("number has no value")

func encodeNumber(n Number) (any, error) {
	if n.IsZero() {
		return nil, errZeroNumber
	}
	return json.Number(n.text), nil
}
