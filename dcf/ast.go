package dcf

import (
	"github.com/crandex/crandex/intern"
	"github.com/crandex/crandex/version"
)

// Kind identifies the variant of a flat AST Node.
type Kind uint8

const (
	KindRoot Kind = iota
	KindStanza
	KindField
	KindNameAndVersion
	KindStringValue
	KindFieldEnd
	KindStanzaEnd
	KindEOF
)

// Node is one entry in the flat AST tape produced by Parse. The tree
// shape is:
//
//	Root, (Stanza, (Field, (NameAndVersion|StringValue)*, FieldEnd)*, StanzaEnd)*, Eof
type Node struct {
	Kind Kind

	// Key is valid for KindField: the raw field key text, e.g. "Depends".
	Key string

	// Name and Constraint are valid for KindNameAndVersion. Name is a Ref
	// into the Interner returned alongside the AST by Parse.
	Name       intern.Ref
	Constraint version.Constraint

	// Value is valid for KindStringValue: the raw (trimmed) field value
	// text, used when the field does not parse as a name(version) list.
	Value string

	// Span is the byte range in the original source this node was parsed
	// from, used for diagnostics.
	Span [2]int
}
