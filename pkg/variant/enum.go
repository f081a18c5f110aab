package variant

import sj "github.com/bitly/go-simplejson"

// Enum is a closed set of wire strings. There is no fallback member: a string
// outside the set is rejected on decode and on encode.
type Enum[T ~string] struct {
	name   string
	values []T
	set    map[T]struct{}
}

// NewEnum declares a closed string enumeration.
func NewEnum[T ~string](name string, values ...T) *Enum[T] {
	e := &Enum[T]{name: name, values: values, set: make(map[T]struct{}, len(values))}
	for _, v := range values {
		e.set[v] = struct{}{}
	}
	return e
}

// Values returns the members in declaration order.
func (e *Enum[T]) Values() []T {
	out := make([]T, len(e.values))
	copy(out, e.values)
	return out
}

// Valid reports whether v is a member.
func (e *Enum[T]) Valid(v T) bool {
	_, ok := e.set[v]
	return ok
}

// Parse converts a wire string to a member.
func (e *Enum[T]) Parse(s string) (T, error) {
	if !e.Valid(T(s)) {
		return "", &UnknownDiscriminantError{Path: Root, Field: e.name, Value: s, Known: e.known()}
	}
	return T(s), nil
}

// Decode reads a member from a JSON string.
func (e *Enum[T]) Decode(doc *sj.Json, path Path) (T, error) {
	s, err := String(doc, path)
	if err != nil {
		return "", err
	}
	if !e.Valid(T(s)) {
		field := e.name
		if last, ok := path.Last(); ok {
			field = last.Name()
		}
		return "", &UnknownDiscriminantError{Path: path.Parent(), Field: field, Value: s, Known: e.known()}
	}
	return T(s), nil
}

// Encode writes a member, or fails if v is not one.
func (e *Enum[T]) Encode(v T) (any, error) {
	if !e.Valid(v) {
		return nil, &UnknownDiscriminantError{Path: Root, Field: e.name, Value: string(v), Known: e.known()}
	}
	return string(v), nil
}

func (e *Enum[T]) known() []string {
	out := make([]string, len(e.values))
	for i, v := range e.values {
		out[i] = string(v)
	}
	return out
}
