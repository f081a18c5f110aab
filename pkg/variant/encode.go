package variant

import "encoding/json"

// Fields is an encoded JSON object. It is a plain map so encoded trees can be
// handed back to Wrap and decoded again without conversion.
type Fields = map[string]any

// Encoder turns a T into a JSON tree value.
type Encoder[T any] func(T) (any, error)

// SetOptional stores the encoding of o under name when o is present and
// leaves the field out entirely otherwise.
func SetOptional[T any](f Fields, name string, o Optional[T], enc Encoder[T]) error {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	out, err := enc(v)
	if err != nil {
		return err
	}
	f[name] = out
	return nil
}

// EncodeList encodes every element of items. The result is never nil so that
// an empty list is written as [] and not null.
func EncodeList[T any](items []T, enc Encoder[T]) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, item := range items {
		v, err := enc(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Identity encoders for scalar values.

func EncodeString(s string) (any, error) { return s, nil }

func EncodeBool(b bool) (any, error) { return b, nil }

func EncodeNumber(n json.Number) (any, error) { return n, nil }
