package lexer

// Kind is the tag of a lexical token. Common, SQL-transparent tokens and
// annotation-mode-only tokens share one small enum, following the reference
// corpus's TokenType convention (sqlparser/sqldocument/tokens.go) rather than
// splitting into two incompatible token types.
type Kind int

const (
	EOF Kind = iota

	// SQL-transparent tokens (spec §3).
	Word           // unquoted identifier/keyword run
	StringLiteral  // '...'
	NumericLiteral // [0-9]+(\.[0-9]+)?
	LParen         // (
	RParen         // )
	Comma          // ,
	Semicolon      // ;
	Dot            // .
	Colon          // : not immediately followed by an identifier start
	Star           // *
	Operator       // any other single ASCII punctuation/symbol byte, e.g. = < >
	Whitespace     // one token per run
	LineComment    // -- ... \n, not an annotation or typed hint
	BlockComment   // /* ... */, not an annotation or typed hint

	Parameter // :name occurrence in the SQL body
	TypedHint // /* :T */ or -- :T, whole comment is the token

	// Annotation-mode-only tokens (spec §3), emitted only between an
	// @query/@begin/@end marker and the enclosing comment's terminator.
	At          // the "@" introducer
	AnnotIdent  // identifier inside annotation grammar
	AnnotColon  // ":" inside annotation grammar (param type separator)
	Arrow       // ->
	ArrowOpt    // ->?
	Arrow1      // ->1
	ArrowMany   // ->*
	Question    // ?
	AnnotComma  // ,
	AnnotLParen // (
	AnnotRParen // )
	AnnotLAngle // <
	AnnotRAngle // >
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Word:
		return "Word"
	case StringLiteral:
		return "StringLiteral"
	case NumericLiteral:
		return "NumericLiteral"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case Comma:
		return "Comma"
	case Semicolon:
		return "Semicolon"
	case Dot:
		return "Dot"
	case Colon:
		return "Colon"
	case Star:
		return "Star"
	case Operator:
		return "Operator"
	case Whitespace:
		return "Whitespace"
	case LineComment:
		return "LineComment"
	case BlockComment:
		return "BlockComment"
	case Parameter:
		return "Parameter"
	case TypedHint:
		return "TypedHint"
	case At:
		return "At"
	case AnnotIdent:
		return "AnnotIdent"
	case AnnotColon:
		return "AnnotColon"
	case Arrow:
		return "Arrow"
	case ArrowOpt:
		return "ArrowOpt"
	case Arrow1:
		return "Arrow1"
	case ArrowMany:
		return "ArrowMany"
	case Question:
		return "Question"
	case AnnotComma:
		return "AnnotComma"
	case AnnotLParen:
		return "AnnotLParen"
	case AnnotRParen:
		return "AnnotRParen"
	case AnnotLAngle:
		return "AnnotLAngle"
	case AnnotRAngle:
		return "AnnotRAngle"
	default:
		return "Unknown"
	}
}
