// Package ast defines the typed, closed AST that the parser builds and the
// resolver enriches: Document, Query, Signature, Type, and the ordered
// QueryBody fragments. Per spec §9 ("avoid dynamic dispatch in the AST"),
// the type-expression sum is represented as one small tag-and-payload
// struct rather than an interface hierarchy, echoing the reference
// corpus's own flat Unparsed/Type structs
// (sqlparser/sqldocument/dom.go, sqlparser/sqldocument/unparsed.go).
package ast

import "github.com/sqlqc/sqlqc/source"

// Ident is a name together with the span it was spelled at — the AST's
// equivalent of the reference corpus's PosString.
type Ident struct {
	Name string
	Span source.Span
}

// Cardinality selects how many rows a query's result represents.
type Cardinality int

const (
	ExactlyOne Cardinality = iota
	ZeroOrOne
	Many
)

func (c Cardinality) String() string {
	switch c {
	case ExactlyOne:
		return "->1"
	case ZeroOrOne:
		return "->?"
	case Many:
		return "->*"
	default:
		return "->?!invalid"
	}
}

// TypeKind tags the Type sum.
type TypeKind int

const (
	Primitive TypeKind = iota
	Tuple
	Struct
	Iterator
	Option
)

// Primitive type names, the fixed set from spec §4.2. "int" is accepted as
// an alias of I32 (spec §9 open question, decided: aliases, not distinct).
const (
	I32     = "i32"
	I64     = "i64"
	F32     = "f32"
	F64     = "f64"
	Str     = "str"
	Bytes   = "bytes"
	Bool    = "bool"
	Instant = "instant"
	Int     = "int" // alias of i32
)

// PrimitiveNames is the fixed set of primitive type names the resolver
// validates against (spec §4.3).
var PrimitiveNames = map[string]bool{
	I32: true, I64: true, F32: true, F64: true,
	Str: true, Bytes: true, Bool: true, Instant: true, Int: true,
}

// CanonicalPrimitive resolves an alias to its canonical primitive name.
func CanonicalPrimitive(name string) string {
	if name == Int {
		return I32
	}
	return name
}

// Field is one member of a Struct type, in declaration/body order.
type Field struct {
	Name Ident
	Type Type
}

// Type is the closed sum described in spec §3: Primitive, Tuple (of
// Primitives), Struct (named, with ordered Fields filled in by the
// resolver), Iterator<T>, and Option<T>. Only the fields relevant to Kind
// are meaningful; code should dispatch on Kind, never on which fields are
// non-zero (spec §9's "dispatch on the tag" note).
type Type struct {
	Kind TypeKind

	// Primitive
	Name     string
	Nullable bool

	// Tuple
	Elements []Type

	// Struct
	StructName Ident
	Fields     []Field

	// Iterator / Option
	Element *Type
}

// Signature is the name, parameter list, cardinality, and result type that
// follow an @query/@begin annotation marker (spec §3).
type Signature struct {
	Name       Ident
	Parameters []Param
	Cardinality
	Result Type
	Span   source.Span
}

// Param is one formal parameter of a Signature.
type Param struct {
	Name Ident
	Type Type
}

// FragmentKind tags a QueryBody element.
type FragmentKind int

const (
	RawSpan FragmentKind = iota
	ParamRef
	Annotation
)

// Fragment is one atom of a query body: either verbatim SQL (RawSpan), a
// ":name" parameter occurrence (ParamRef), or an inline type hint
// (Annotation). The ordered Fragments of a QueryBody reconstruct the
// original query body bytes exactly (spec invariant 2).
type Fragment struct {
	Kind FragmentKind
	Span source.Span

	// ParamRef
	Name Ident

	// Annotation: the identifier immediately preceding the hint, if any
	// (nil if the hint follows a bare parenthesis/function call with no
	// identifier immediately before it — resolver invariant 3 leaves this
	// unchecked), and the primitive type the hint names.
	PrecedingIdent *Ident
	Type           Type
}

// QueryBody is the ordered fragment sequence making up everything between
// a Signature and its terminating ";" (or, for a @begin query, up to its
// "@end" marker).
type QueryBody struct {
	Fragments []Fragment
	Span      source.Span
}

// Query is one annotated query: its leading doc comments, its signature,
// and its body.
type Query struct {
	DocComments []source.Span
	Signature   Signature
	Body        QueryBody
	Multi       bool // true for @begin ... @end, false for @query ... ;
	Span        source.Span
}

// Document is the parse result for one input file: any raw content before
// the first annotated query, plus the ordered queries themselves.
type Document struct {
	Source         source.Source
	LeadingContent []source.Span
	Queries        []Query
}
