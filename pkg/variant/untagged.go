package variant

import (
	"errors"

	sj "github.com/bitly/go-simplejson"
)

// Candidate is one shape an untagged value may take.
type Candidate[T any] struct {
	Name   string
	Decode Decoder[T]
}

// Try declares a Candidate.
func Try[T any](name string, decode Decoder[T]) Candidate[T] {
	return Candidate[T]{Name: name, Decode: decode}
}

// Untagged decodes values that carry no discriminant by trial. Candidates are
// attempted in declaration order and the first one that accepts the input
// wins, even when a later candidate would accept it as well.
type Untagged[T any] struct {
	name       string
	candidates []Candidate[T]
}

// NewUntagged declares an untagged schema with a pinned candidate order.
func NewUntagged[T any](name string, candidates ...Candidate[T]) *Untagged[T] {
	return &Untagged[T]{name: name, candidates: candidates}
}

// Name returns the schema name used in error messages.
func (u *Untagged[T]) Name() string { return u.name }

// Candidates returns candidate names in attempt order.
func (u *Untagged[T]) Candidates() []string {
	names := make([]string, len(u.candidates))
	for i, c := range u.candidates {
		names[i] = c.Name
	}
	return names
}

// Decode tries each candidate in order.
func (u *Untagged[T]) Decode(doc *sj.Json, path Path) (T, error) {
	var zero T
	if err := checkDepth(path); err != nil {
		return zero, err
	}
	causes := make([]error, 0, len(u.candidates))
	for _, c := range u.candidates {
		v, err := c.Decode(doc, path)
		if err == nil {
			return v, nil
		}
		// Running out of depth is not a shape mismatch; no other
		// candidate can do better.
		if errors.Is(err, ErrDepthExceeded) {
			return zero, err
		}
		causes = append(causes, err)
	}
	return zero, &NoMatchingVariantError{
		Path:      path,
		Type:      u.name,
		Attempted: u.Candidates(),
		Causes:    causes,
	}
}
