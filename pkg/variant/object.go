package variant

import (
	"encoding/json"
	"sort"

	sj "github.com/bitly/go-simplejson"
)

// Decoder turns the document positioned at path into a T.
type Decoder[T any] func(doc *sj.Json, path Path) (T, error)

// Object is a JSON object being decoded.
type Object struct {
	doc    *sj.Json
	path   Path
	fields map[string]any
}

// AsObject checks that doc is an object and returns a reader over its fields.
func AsObject(doc *sj.Json, path Path) (Object, error) {
	if err := checkDepth(path); err != nil {
		return Object{}, err
	}
	fields, err := doc.Map()
	if err != nil {
		return Object{}, mismatch(path, "object", doc.Interface())
	}
	return Object{doc: doc, path: path, fields: fields}, nil
}

// Path returns the location of the object.
func (o Object) Path() Path { return o.path }

// Has reports whether name is present with a non-null value.
func (o Object) Has(name string) bool {
	v, ok := o.fields[name]
	return ok && v != nil
}

// Keys returns the object's field names in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Child returns the document at name and whether the field is present.
func (o Object) Child(name string) (*sj.Json, bool) {
	return o.doc.CheckGet(name)
}

// Field decodes a required field. A missing field is a
// MissingRequiredFieldError; a null value is left to dec, which rejects it
// as a type mismatch.
func Field[T any](o Object, name string, dec Decoder[T]) (T, error) {
	child, ok := o.doc.CheckGet(name)
	if !ok {
		var zero T
		return zero, &MissingRequiredFieldError{Path: o.path, Field: name}
	}
	return dec(child, o.path.Field(name))
}

// OptionalField decodes a field that may be missing or null; both decode to
// an absent Optional.
func OptionalField[T any](o Object, name string, dec Decoder[T]) (Optional[T], error) {
	if !o.Has(name) {
		return None[T](), nil
	}
	v, err := dec(o.doc.Get(name), o.path.Field(name))
	if err != nil {
		return None[T](), err
	}
	return Some(v), nil
}

// Const requires field name to hold exactly the string want. It is used for
// self-describing markers such as "object": "page".
func Const(o Object, name, want string) error {
	got, err := Field(o, name, String)
	if err != nil {
		return err
	}
	if got != want {
		return &UnknownDiscriminantError{Path: o.path, Field: name, Value: got, Known: []string{want}}
	}
	return nil
}

// String decodes a JSON string.
func String(doc *sj.Json, path Path) (string, error) {
	s, ok := doc.Interface().(string)
	if !ok {
		return "", mismatch(path, "string", doc.Interface())
	}
	return s, nil
}

// Bool decodes a JSON boolean.
func Bool(doc *sj.Json, path Path) (bool, error) {
	b, ok := doc.Interface().(bool)
	if !ok {
		return false, mismatch(path, "boolean", doc.Interface())
	}
	return b, nil
}

// Number decodes a JSON number in its original textual form.
func Number(doc *sj.Json, path Path) (json.Number, error) {
	n, ok := doc.Interface().(json.Number)
	if !ok {
		return "", mismatch(path, "number", doc.Interface())
	}
	return n, nil
}

// True accepts only the literal true, used by marker fields like
// "workspace": true.
func True(doc *sj.Json, path Path) (bool, error) {
	b, err := Bool(doc, path)
	if err != nil {
		return false, err
	}
	if !b {
		return false, &TypeMismatchError{Path: path, Expected: "true", Actual: "false"}
	}
	return true, nil
}

// List lifts an element decoder to a JSON array decoder. The result is never
// nil, an empty array decodes to an empty slice.
func List[T any](dec Decoder[T]) Decoder[[]T] {
	return func(doc *sj.Json, path Path) ([]T, error) {
		if err := checkDepth(path); err != nil {
			return nil, err
		}
		items, err := doc.Array()
		if err != nil {
			return nil, mismatch(path, "array", doc.Interface())
		}
		out := make([]T, 0, len(items))
		for i := range items {
			v, err := dec(doc.GetIndex(i), path.Index(i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// Map lifts a value decoder to a JSON object decoder keyed by field name.
func Map[T any](dec Decoder[T]) Decoder[map[string]T] {
	return func(doc *sj.Json, path Path) (map[string]T, error) {
		o, err := AsObject(doc, path)
		if err != nil {
			return nil, err
		}
		out := make(map[string]T, len(o.fields))
		for _, k := range o.Keys() {
			v, err := dec(o.doc.Get(k), path.Key(k))
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}
}

// ObjectOf lifts a function over an Object reader to a Decoder.
func ObjectOf[T any](fn func(Object) (T, error)) Decoder[T] {
	return func(doc *sj.Json, path Path) (T, error) {
		o, err := AsObject(doc, path)
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(o)
	}
}
