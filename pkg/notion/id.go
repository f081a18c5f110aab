package notion

import (
	"fmt"

	sj "github.com/bitly/go-simplejson"
	"github.com/google/uuid"

	"github.com/devmaxde/notion-client/pkg/variant"
)

// ID identifies a Notion object. It is kept exactly as received; Notion writes
// the same UUID both with and without dashes, so compare with Equivalent.
type ID string

// NewID returns a fresh random identifier in canonical dashed form.
func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string { return string(id) }

// UUID parses the identifier.
func (id ID) UUID() (uuid.UUID, error) {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", string(id), err)
	}
	return u, nil
}

// Canonical returns the lowercase dashed form of the identifier.
func (id ID) Canonical() (ID, error) {
	u, err := id.UUID()
	if err != nil {
		return "", err
	}
	return ID(u.String()), nil
}

// Equivalent reports whether both identifiers name the same object. Values
// that are not UUIDs are compared verbatim.
func (id ID) Equivalent(other ID) bool {
	a, errA := id.UUID()
	b, errB := other.UUID()
	if errA != nil || errB != nil {
		return id == other
	}
	return a == b
}

func decodeID(doc *sj.Json, path variant.Path) (ID, error) {
	s, err := variant.String(doc, path)
	return ID(s), err
}
