package notion

import (
	"fmt"
	"time"

	sj "github.com/bitly/go-simplejson"

	"github.com/devmaxde/notion-client/pkg/variant"
)

// RollupFunction is the aggregation a rollup applies.
type RollupFunction string

const (
	RollupAverage          RollupFunction = "average"
	RollupChecked          RollupFunction = "checked"
	RollupCount            RollupFunction = "count"
	RollupCountPerGroup    RollupFunction = "count_per_group"
	RollupCountValues      RollupFunction = "count_values"
	RollupDateRange        RollupFunction = "date_range"
	RollupEarliestDate     RollupFunction = "earliest_date"
	RollupEmpty            RollupFunction = "empty"
	RollupLatestDate       RollupFunction = "latest_date"
	RollupMax              RollupFunction = "max"
	RollupMedian           RollupFunction = "median"
	RollupMin              RollupFunction = "min"
	RollupNotEmpty         RollupFunction = "not_empty"
	RollupPercentChecked   RollupFunction = "percent_checked"
	RollupPercentEmpty     RollupFunction = "percent_empty"
	RollupPercentNotEmpty  RollupFunction = "percent_not_empty"
	RollupPercentPerGroup  RollupFunction = "percent_per_group"
	RollupPercentUnchecked RollupFunction = "percent_unchecked"
	RollupRange            RollupFunction = "range"
	RollupShowOriginal     RollupFunction = "show_original"
	RollupShowUnique       RollupFunction = "show_unique"
	RollupSum              RollupFunction = "sum"
	RollupUnchecked        RollupFunction = "unchecked"
	RollupUnique           RollupFunction = "unique"
)

var rollupFunctions = variant.NewEnum("function",
	RollupAverage, RollupChecked, RollupCount, RollupCountPerGroup,
	RollupCountValues, RollupDateRange, RollupEarliestDate, RollupEmpty,
	RollupLatestDate, RollupMax, RollupMedian, RollupMin, RollupNotEmpty,
	RollupPercentChecked, RollupPercentEmpty, RollupPercentNotEmpty,
	RollupPercentPerGroup, RollupPercentUnchecked, RollupRange,
	RollupShowOriginal, RollupShowUnique, RollupSum, RollupUnchecked,
	RollupUnique,
)

// ParseRollupFunction returns the RollupFunction for a wire string.
func ParseRollupFunction(s string) (RollupFunction, error) { return rollupFunctions.Parse(s) }

// RollupType is the wire tag of a rollup result.
type RollupType string

const (
	RollupTypeArray       RollupType = "array"
	RollupTypeDate        RollupType = "date"
	RollupTypeIncomplete  RollupType = "incomplete"
	RollupTypeNumber      RollupType = "number"
	RollupTypeUnsupported RollupType = "unsupported"
)

// RollupValue is a rollup result. It is implemented by RollupArray,
// RollupDate, RollupIncomplete, RollupNumber and RollupUnsupported. Arrays
// nest further rollup values.
type RollupValue interface {
	Type() RollupType
	RollupFunction() RollupFunction
	encodeRollup() (variant.Fields, error)
}

type RollupArray struct {
	Function RollupFunction
	Array    []RollupValue
}

// RollupDate is a date rollup result; Date is in UTC once decoded.
type RollupDate struct {
	Function RollupFunction
	Date     time.Time
}

type RollupIncomplete struct {
	Function   RollupFunction
	Incomplete variant.Optional[string]
}

type RollupNumber struct {
	Function RollupFunction
	Number   Number
}

type RollupUnsupported struct {
	Function    RollupFunction
	Unsupported variant.Optional[string]
}

func (RollupArray) Type() RollupType       { return RollupTypeArray }
func (RollupDate) Type() RollupType        { return RollupTypeDate }
func (RollupIncomplete) Type() RollupType  { return RollupTypeIncomplete }
func (RollupNumber) Type() RollupType      { return RollupTypeNumber }
func (RollupUnsupported) Type() RollupType { return RollupTypeUnsupported }

func (r RollupArray) RollupFunction() RollupFunction       { return r.Function }
func (r RollupDate) RollupFunction() RollupFunction        { return r.Function }
func (r RollupIncomplete) RollupFunction() RollupFunction  { return r.Function }
func (r RollupNumber) RollupFunction() RollupFunction      { return r.Function }
func (r RollupUnsupported) RollupFunction() RollupFunction { return r.Function }

func (r RollupArray) encodeRollup() (variant.Fields, error) {
	items, err := variant.EncodeList(r.Array, encodeRollup)
	if err != nil {
		return nil, err
	}
	return variant.Fields{"array": items}, nil
}

func (r RollupDate) encodeRollup() (variant.Fields, error) {
	return variant.Fields{"date": formatTimestamp(r.Date)}, nil
}

func (r RollupIncomplete) encodeRollup() (variant.Fields, error) {
	f := variant.Fields{}
	return f, variant.SetOptional(f, "incomplete", r.Incomplete, variant.EncodeString)
}

func (r RollupNumber) encodeRollup() (variant.Fields, error) {
	n, err := encodeNumber(r.Number)
	if err != nil {
		return nil, err
	}
	return variant.Fields{"number": n}, nil
}

func (r RollupUnsupported) encodeRollup() (variant.Fields, error) {
	f := variant.Fields{}
	return f, variant.SetOptional(f, "unsupported", r.Unsupported, variant.EncodeString)
}

var rollups *variant.Tagged[RollupValue]

// rollups refers to itself through array elements, so it is built in init.
func init() {
	rollups = variant.NewTagged[RollupValue]("rollup", "type",
		variant.On(string(RollupTypeArray), func(o variant.Object) (RollupValue, error) {
			fn, err := variant.Field(o, "function", rollupFunctions.Decode)
			if err != nil {
				return nil, err
			}
			items, err := variant.Field(o, "array", variant.List(decodeRollup))
			if err != nil {
				return nil, err
			}
			return RollupArray{Function: fn, Array: items}, nil
		}),
		variant.On(string(RollupTypeDate), func(o variant.Object) (RollupValue, error) {
			fn, err := variant.Field(o, "function", rollupFunctions.Decode)
			if err != nil {
				return nil, err
			}
			d, err := variant.Field(o, "date", decodeTimestamp)
			if err != nil {
				return nil, err
			}
			return RollupDate{Function: fn, Date: d}, nil
		}),
		variant.On(string(RollupTypeIncomplete), func(o variant.Object) (RollupValue, error) {
			fn, err := variant.Field(o, "function", rollupFunctions.Decode)
			if err != nil {
				return nil, err
			}
			v, err := variant.OptionalField(o, "incomplete", variant.String)
			if err != nil {
				return nil, err
			}
			return RollupIncomplete{Function: fn, Incomplete: v}, nil
		}),
		variant.On(string(RollupTypeNumber), func(o variant.Object) (RollupValue, error) {
			fn, err := variant.Field(o, "function", rollupFunctions.Decode)
			if err != nil {
				return nil, err
			}
			n, err := variant.Field(o, "number", decodeNumber)
			if err != nil {
				return nil, err
			}
			return RollupNumber{Function: fn, Number: n}, nil
		}),
		variant.On(string(RollupTypeUnsupported), func(o variant.Object) (RollupValue, error) {
			fn, err := variant.Field(o, "function", rollupFunctions.Decode)
			if err != nil {
				return nil, err
			}
			v, err := variant.OptionalField(o, "unsupported", variant.String)
			if err != nil {
				return nil, err
			}
			return RollupUnsupported{Function: fn, Unsupported: v}, nil
		}),
	)
}

func decodeRollup(doc *sj.Json, path variant.Path) (RollupValue, error) {
	return rollups.Decode(doc, path)
}

func encodeRollup(r RollupValue) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("rollup value is nil")
	}
	fn, err := rollupFunctions.Encode(r.RollupFunction())
	if err != nil {
		return nil, err
	}
	payload, err := r.encodeRollup()
	if err != nil {
		return nil, err
	}
	payload["function"] = fn
	return rollups.Encode(string(r.Type()), payload)
}
