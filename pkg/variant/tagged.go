package variant

import (
	"fmt"

	sj "github.com/bitly/go-simplejson"
)

// Case binds a wire tag to the decoder for that variant's payload.
type Case[T any] struct {
	Tag    string
	Decode func(Object) (T, error)
}

// On declares a Case.
func On[T any](tag string, decode func(Object) (T, error)) Case[T] {
	return Case[T]{Tag: tag, Decode: decode}
}

// Tagged dispatches on a discriminant field. Tags are matched exactly and
// case-sensitively against the declared wire names.
type Tagged[T any] struct {
	name  string
	key   string
	cases []Case[T]
	index map[string]int
}

// NewTagged declares a tagged schema named name whose discriminant lives in
// key. It panics on a duplicate or empty tag, which can only be a mistake in
// the declaration itself.
func NewTagged[T any](name, key string, cases ...Case[T]) *Tagged[T] {
	s := &Tagged[T]{
		name:  name,
		key:   key,
		cases: cases,
		index: make(map[string]int, len(cases)),
	}
	for i, c := range cases {
		if c.Tag == "" {
			panic(fmt.Sprintf("variant: %s declares an empty tag", name))
		}
		if _, dup := s.index[c.Tag]; dup {
			panic(fmt.Sprintf("variant: %s declares tag %q twice", name, c.Tag))
		}
		s.index[c.Tag] = i
	}
	return s
}

// Name returns the schema name used in error messages.
func (s *Tagged[T]) Name() string { return s.name }

// Key returns the discriminant field name.
func (s *Tagged[T]) Key() string { return s.key }

// Tags returns the declared wire tags in declaration order.
func (s *Tagged[T]) Tags() []string {
	tags := make([]string, len(s.cases))
	for i, c := range s.cases {
		tags[i] = c.Tag
	}
	return tags
}

// Has reports whether tag is declared.
func (s *Tagged[T]) Has(tag string) bool {
	_, ok := s.index[tag]
	return ok
}

// Decode reads the discriminant of the object at path and decodes the
// matching variant.
func (s *Tagged[T]) Decode(doc *sj.Json, path Path) (T, error) {
	o, err := AsObject(doc, path)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.DecodeObject(o)
}

// DecodeObject is Decode for an object already opened by the caller, for
// payloads whose fields are flattened next to other fields.
func (s *Tagged[T]) DecodeObject(o Object) (T, error) {
	var zero T
	tag, err := Field(o, s.key, String)
	if err != nil {
		return zero, err
	}
	i, ok := s.index[tag]
	if !ok {
		return zero, &UnknownDiscriminantError{Path: o.path, Field: s.key, Value: tag, Known: s.Tags()}
	}
	v, err := s.cases[i].Decode(o)
	if err != nil {
		return zero, fmt.Errorf("%s %q: %w", s.name, tag, err)
	}
	return v, nil
}

// Encode stamps the discriminant onto an encoded payload. Encoding a tag the
// schema does not declare fails the same way decoding it would.
func (s *Tagged[T]) Encode(tag string, payload Fields) (Fields, error) {
	if !s.Has(tag) {
		return nil, &UnknownDiscriminantError{Path: Root, Field: s.key, Value: tag, Known: s.Tags()}
	}
	if payload == nil {
		payload = Fields{}
	}
	payload[s.key] = tag
	return payload, nil
}
