package notion

import (
	"fmt"

	"github.com/devmaxde/notion-client/pkg/variant"
)

// FormulaType is the wire tag of a formula result.
type FormulaType string

const (
	FormulaTypeString  FormulaType = "string"
	FormulaTypeNumber  FormulaType = "number"
	FormulaTypeBoolean FormulaType = "boolean"
	FormulaTypeDate    FormulaType = "date"
)

// FormulaValue is a computed formula result. It is implemented by
// FormulaString, FormulaNumber, FormulaBoolean and FormulaDate.
type FormulaValue interface {
	Type() FormulaType
	encodeFormula() (variant.Fields, error)
}

type FormulaString struct{ String variant.Optional[string] }

type FormulaNumber struct{ Number variant.Optional[Number] }

type FormulaBoolean struct{ Boolean bool }

type FormulaDate struct{ Date variant.Optional[DateValue] }

func (FormulaString) Type() FormulaType  { return FormulaTypeString }
func (FormulaNumber) Type() FormulaType  { return FormulaTypeNumber }
func (FormulaBoolean) Type() FormulaType { return FormulaTypeBoolean }
func (FormulaDate) Type() FormulaType    { return FormulaTypeDate }

func (f FormulaString) encodeFormula() (variant.Fields, error) {
	out := variant.Fields{}
	return out, variant.SetOptional(out, "string", f.String, variant.EncodeString)
}

func (f FormulaNumber) encodeFormula() (variant.Fields, error) {
	out := variant.Fields{}
	return out, variant.SetOptional(out, "number", f.Number, encodeNumber)
}

func (f FormulaBoolean) encodeFormula() (variant.Fields, error) {
	return variant.Fields{"boolean": f.Boolean}, nil
}

func (f FormulaDate) encodeFormula() (variant.Fields, error) {
	out := variant.Fields{}
	return out, variant.SetOptional(out, "date", f.Date, encodeDateValue)
}

var formulas = variant.NewTagged[FormulaValue]("formula", "type",
	variant.On(string(FormulaTypeString), func(o variant.Object) (FormulaValue, error) {
		s, err := variant.OptionalField(o, "string", variant.String)
		return FormulaString{String: s}, err
	}),
	variant.On(string(FormulaTypeNumber), func(o variant.Object) (FormulaValue, error) {
		n, err := variant.OptionalField(o, "number", decodeNumber)
		return FormulaNumber{Number: n}, err
	}),
	variant.On(string(FormulaTypeBoolean), func(o variant.Object) (FormulaValue, error) {
		b, err := variant.Field(o, "boolean", variant.Bool)
		return FormulaBoolean{Boolean: b}, err
	}),
	variant.On(string(FormulaTypeDate), func(o variant.Object) (FormulaValue, error) {
		d, err := variant.OptionalField(o, "date", decodeDateValue)
		return FormulaDate{Date: d}, err
	}),
)

func encodeFormula(v FormulaValue) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("formula value is nil")
	}
	payload, err := v.encodeFormula()
	if err != nil {
		return nil, err
	}
	return formulas.Encode(string(v.Type()), payload)
}
