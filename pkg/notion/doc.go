// Package notion models Notion page objects and their property values.
//
// Property values, rollups, formulas, parents, files and rich text are closed
// sum types: each is an interface implemented by one struct per wire kind,
// decoded through an explicit dispatch table keyed by the object's "type"
// field. Icons and date values carry no discriminant of their own and are
// decoded by trying candidate shapes in a pinned order.
//
// Decoding is strict. Unknown kinds, colors, rollup functions and
// verification states are errors, never defaults. Optional fields that are
// absent are omitted on encode, so decode(encode(v)) == v for every value
// this package produces.
//
// Instants are written in UTC and come back in UTC. A time.Time field set by
// the caller in another location keeps its instant through a round trip but
// not its location; compare such values with time.Time.Equal.
package notion
