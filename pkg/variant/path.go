package variant

import (
	"strconv"
	"strings"
)

type segmentKind uint8

const (
	fieldSegment segmentKind = iota
	keySegment
	indexSegment
)

// Segment is one step of a Path.
type Segment struct {
	kind  segmentKind
	name  string
	index int
}

// Name returns the field or key name of the segment, or the rendered index
// for array segments.
func (s Segment) Name() string {
	if s.kind == indexSegment {
		return strconv.Itoa(s.index)
	}
	return s.name
}

// Path locates a value inside a document, e.g. properties["Due"].date.start.
type Path []Segment

// Root is the empty path.
var Root Path

// Field returns a new path extended by an object field.
func (p Path) Field(name string) Path {
	return p.push(Segment{kind: fieldSegment, name: name})
}

// Key returns a new path extended by a map key. Keys are rendered quoted
// because they are user data and may contain any character.
func (p Path) Key(key string) Path {
	return p.push(Segment{kind: keySegment, name: key})
}

// Index returns a new path extended by an array index.
func (p Path) Index(i int) Path {
	return p.push(Segment{kind: indexSegment, index: i})
}

// push never writes into p's backing array, so sibling paths derived from the
// same parent stay independent.
func (p Path) push(s Segment) Path {
	return append(p[:len(p):len(p)], s)
}

// Depth returns the number of segments.
func (p Path) Depth() int { return len(p) }

// Last returns the final segment and false for the root path.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Parent returns the path without its final segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[: len(p)-1 : len(p)-1]
}

func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	var b strings.Builder
	for i, s := range p {
		switch s.kind {
		case fieldSegment:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s.name)
		case keySegment:
			b.WriteByte('[')
			b.WriteString(strconv.Quote(s.name))
			b.WriteByte(']')
		case indexSegment:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.index))
			b.WriteByte(']')
		}
	}
	return b.String()
}
