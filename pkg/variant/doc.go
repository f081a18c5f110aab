// Package variant decodes loosely typed JSON documents into closed sets of
// typed variants and encodes them back.
//
// Two dispatch modes are supported. A Tagged schema reads a discriminant field
// (usually "type") and routes the object to the decoder registered for that
// wire tag. An Untagged schema has no discriminant on the wire; it tries each
// candidate decoder in the order it was declared and keeps the first that
// accepts the input. Declaration order is the only disambiguation rule.
//
// Decoders operate on a fully materialized document (see Parse and Wrap) and
// carry a Path so that every error names the exact location of the offending
// value. Encoders build plain map/slice trees in which absent Optional values
// are left out entirely rather than written as null.
//
// Everything in this package is a pure function of its inputs and is safe for
// concurrent use.
package variant
