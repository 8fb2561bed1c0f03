// Package emit turns a resolved *ast.Document into generated Go source.
// It is target-agnostic: a Target is a small record of functions (naming,
// placeholder syntax, Go type mapping), not an interface hierarchy, echoing
// the reference corpus's handler-table style of extension point
// (Batch.ReservedTokenHandlers in sqlparser/sqldocument/batch.go) over
// inheritance. Run walks a Document three times — preamble, one pass per
// query function, postamble — the same shape preprocess.go uses to turn a
// flat Unparsed list into output text by substituting specific tokens and
// copying everything else verbatim.
package emit

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sqlqc/sqlqc/ast"
	"github.com/sqlqc/sqlqc/source"
)

// rowFieldName is the field name the emitter assigns to the i'th element of
// a bare Tuple result once it needs a named struct to hold one row (any
// cardinality except ExactlyOne, where Go's native multiple return values
// serve the tuple directly instead).
func rowFieldName(i int) string {
	return fmt.Sprintf("Field%d", i)
}

// tupleAsStruct turns a Tuple result into the Struct shape a Many/Iterator
// function body can scan a row into; <query name>Row becomes a generated
// type alongside the query function, one field per tuple element.
func tupleAsStruct(rowName string, t ast.Type) ast.Type {
	fields := make([]ast.Field, len(t.Elements))
	for i, e := range t.Elements {
		fields[i] = ast.Field{Name: ast.Ident{Name: rowFieldName(i)}, Type: e}
	}
	return ast.Type{Kind: ast.Struct, StructName: ast.Ident{Name: rowName}, Fields: fields}
}

// Target describes one <lang>-<driver> code generation backend (spec §11).
// Registered under Key() in a Registry and looked up by the CLI's --target
// flag.
type Target struct {
	Lang   string
	Driver string

	// DriverImportPath is the import added to every generated file for
	// driver-specific types (row scanning, errors); empty if the generated
	// code only needs database/sql.
	DriverImportPath string
	// DriverPackageName is how DriverImportPath is referred to in generated
	// code (its package identifier).
	DriverPackageName string

	// Placeholder renders the driver's substitution syntax for the
	// index'th (1-based) occurrence of a named parameter in a query body.
	Placeholder func(index int, name string) string

	// GoType maps a resolved ast.Type to a Go type expression, and any
	// additional import it requires (empty if none beyond the defaults).
	GoType func(t ast.Type) (typeExpr string, extraImport string)

	// HeaderComment, if non-nil, returns one extra line to place in the
	// generated file's header comment (e.g. a driver version string).
	HeaderComment func() string
}

// Key is the Target's registry key, e.g. "go-pgx".
func (t Target) Key() string {
	return t.Lang + "-" + t.Driver
}

// Registry is a lookup table of Targets, keyed by Target.Key().
type Registry map[string]Target

// NewRegistry returns an empty Registry.
func NewRegistry() Registry {
	return make(Registry)
}

// Register adds t to the registry, keyed by t.Key().
func (r Registry) Register(t Target) {
	r[t.Key()] = t
}

// Lookup returns the Target registered under key, if any.
func (r Registry) Lookup(key string) (Target, bool) {
	t, ok := r[key]
	return t, ok
}

// Keys returns every registered target key, sorted, for the targets command
// and the unknown-target error message.
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// defaultGoType is the mapping shared by every target unless a Target
// overrides it for a driver-specific column type.
func defaultGoType(t ast.Type) (string, string) {
	switch t.Kind {
	case ast.Primitive:
		base := primitiveGoType(t.Name)
		if t.Nullable {
			return "*" + base, ""
		}
		return base, ""
	case ast.Struct:
		return ExportedName(t.StructName.Name), ""
	case ast.Option:
		inner, imp := defaultGoType(*t.Element)
		return "*" + inner, imp
	case ast.Tuple:
		// Only used inline within struct field generation, not as a
		// standalone binding; see functionSignature for how a tuple result
		// becomes multiple return values instead.
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i], _ = defaultGoType(e)
		}
		return "(" + strings.Join(parts, ", ") + ")", ""
	case ast.Iterator:
		inner, imp := defaultGoType(*t.Element)
		return "iter.Seq2[" + inner + ", error]", imp
	}
	return "any", ""
}

func primitiveGoType(name string) string {
	switch name {
	case ast.I32:
		return "int32"
	case ast.I64:
		return "int64"
	case ast.F32:
		return "float32"
	case ast.F64:
		return "float64"
	case ast.Str:
		return "string"
	case ast.Bytes:
		return "[]byte"
	case ast.Bool:
		return "bool"
	case ast.Instant:
		return "time.Time"
	default:
		return "any"
	}
}

// ExportedName capitalizes name's first rune so it's an exported Go identifier.
func ExportedName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Run generates one Go source file for doc's queries against target, into
// the named Go package pkg.
func Run(w io.Writer, doc *ast.Document, target Target, pkg string) error {
	return RunMerge(w, doc, target, pkg, nil)
}

// RunMerge is Run with merge-mode support: any query whose exported
// function name is present in skip is omitted entirely, so regenerating
// into a file already touched by --merge doesn't clobber functions a
// developer has since hand-edited.
func RunMerge(w io.Writer, doc *ast.Document, target Target, pkg string, skip map[string]bool) error {
	bw := bufio.NewWriter(w)

	if err := writePreamble(bw, doc, target, pkg); err != nil {
		return err
	}
	for _, q := range doc.Queries {
		if skip != nil && skip[ExportedName(q.Signature.Name.Name)] {
			continue
		}
		if err := writeFunction(bw, doc.Source, q, target); err != nil {
			return err
		}
	}
	writePostamble(bw, target)

	return bw.Flush()
}

func writePreamble(w *bufio.Writer, doc *ast.Document, target Target, pkg string) error {
	fmt.Fprintf(w, "// Code generated by sqlqc (%s). DO NOT EDIT.\n", target.Key())
	if target.HeaderComment != nil {
		fmt.Fprintf(w, "// %s\n", target.HeaderComment())
	}
	fmt.Fprintf(w, "package %s\n\n", pkg)

	imports := []string{}
	if usesTime(doc) {
		imports = append(imports, `"time"`)
	}
	if usesIterator(doc) {
		imports = append(imports, `"iter"`)
	}
	imports = append(imports, `"context"`, `"database/sql"`)
	if usesErrorsPkg(doc) {
		imports = append(imports, `"errors"`)
	}
	if target.DriverImportPath != "" {
		imports = append(imports, fmt.Sprintf("%s %q", target.DriverPackageName, target.DriverImportPath))
	}

	fmt.Fprintln(w, "import (")
	for _, imp := range imports {
		fmt.Fprintf(w, "\t%s\n", imp)
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintln(w)
	return nil
}

func writePostamble(w *bufio.Writer, target Target) {
	fmt.Fprintf(w, "\n// target: %s\n", target.Key())
}

func usesTime(doc *ast.Document) bool {
	for _, q := range doc.Queries {
		if typeUses(q.Signature.Result, ast.Instant) {
			return true
		}
		for _, p := range q.Signature.Parameters {
			if typeUses(p.Type, ast.Instant) {
				return true
			}
		}
	}
	return false
}

func usesIterator(doc *ast.Document) bool {
	for _, q := range doc.Queries {
		if q.Signature.Result.Kind == ast.Iterator {
			return true
		}
	}
	return false
}

// usesErrorsPkg reports whether any query's body needs errors.Is to turn
// sql.ErrNoRows into a nil, nil return (the ZeroOrOne, non-Iterator case).
func usesErrorsPkg(doc *ast.Document) bool {
	for _, q := range doc.Queries {
		if q.Signature.Cardinality == ast.ZeroOrOne && q.Signature.Result.Kind != ast.Iterator {
			return true
		}
	}
	return false
}

func typeUses(t ast.Type, primitive string) bool {
	switch t.Kind {
	case ast.Primitive:
		return t.Name == primitive
	case ast.Option, ast.Iterator:
		if t.Element == nil {
			return false
		}
		return typeUses(*t.Element, primitive)
	case ast.Tuple:
		for _, e := range t.Elements {
			if typeUses(e, primitive) {
				return true
			}
		}
	case ast.Struct:
		for _, f := range t.Fields {
			if typeUses(f.Type, primitive) {
				return true
			}
		}
	}
	return false
}

func goType(target Target, t ast.Type) string {
	if target.GoType != nil {
		if expr, _ := target.GoType(t); expr != "" {
			return expr
		}
	}
	expr, _ := defaultGoType(t)
	return expr
}

func writeFunction(w *bufio.Writer, src source.Source, q ast.Query, target Target) error {
	name := ExportedName(q.Signature.Name.Name)
	sig := q.Signature
	rowName := name + "Row"

	// A bare Tuple result only keeps its native multiple-return-value shape
	// for ->1; ->? and ->* need a single named type to hold one row (a
	// pointer, or a slice/iterator element, respectively).
	switch {
	case sig.Result.Kind == ast.Tuple && sig.Cardinality != ast.ExactlyOne:
		sig.Result = tupleAsStruct(rowName, sig.Result)
	case sig.Result.Kind == ast.Iterator && sig.Result.Element != nil && sig.Result.Element.Kind == ast.Tuple:
		row := tupleAsStruct(rowName, *sig.Result.Element)
		sig.Result = ast.Type{Kind: ast.Iterator, Element: &row}
	}

	for _, p := range sig.Parameters {
		if p.Type.Kind == ast.Struct {
			writeStruct(w, target, p.Type)
		}
	}

	if sig.Result.Kind == ast.Struct {
		writeStruct(w, target, sig.Result)
	} else if sig.Result.Kind == ast.Iterator && sig.Result.Element != nil && sig.Result.Element.Kind == ast.Struct {
		writeStruct(w, target, *sig.Result.Element)
	}

	params := make([]string, 0, len(sig.Parameters)+2)
	params = append(params, "ctx context.Context", "db *sql.DB")
	for _, p := range sig.Parameters {
		params = append(params, fmt.Sprintf("%s %s", p.Name.Name, goType(target, p.Type)))
	}

	returns := functionReturns(target, sig)

	fmt.Fprintf(w, "func %s(%s) (%s) {\n", name, strings.Join(params, ", "), strings.Join(returns, ", "))

	literal, order := buildQueryLiteral(src, q.Body, target, sig)
	fmt.Fprintf(w, "\tconst query = %s\n", backtickOrQuote(literal))

	argsExpr := ""
	if len(order) > 0 {
		argsExpr = ", " + strings.Join(order, ", ")
	}

	switch {
	case sig.Result.Kind == ast.Iterator:
		writeIteratorBody(w, target, *sig.Result.Element, argsExpr)
	case sig.Cardinality == ast.Many:
		writeManyBody(w, target, sig.Result, argsExpr)
	case sig.Cardinality == ast.ZeroOrOne:
		writeOneBody(w, target, sig.Result, argsExpr, true)
	case sig.Result.Kind == ast.Tuple:
		writeTupleBody(w, target, sig.Result, argsExpr)
	default:
		writeOneBody(w, target, sig.Result, argsExpr, false)
	}

	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
	return nil
}

func functionReturns(target Target, sig ast.Signature) []string {
	if sig.Result.Kind == ast.Iterator {
		return []string{goType(target, sig.Result)}
	}
	if sig.Result.Kind == ast.Tuple {
		returns := make([]string, 0, len(sig.Result.Elements)+1)
		for _, e := range sig.Result.Elements {
			returns = append(returns, goType(target, e))
		}
		return append(returns, "error")
	}
	resultType := goType(target, sig.Result)
	switch sig.Cardinality {
	case ast.Many:
		return []string{"[]" + resultType, "error"}
	case ast.ZeroOrOne:
		return []string{"*" + strings.TrimPrefix(resultType, "*"), "error"}
	default:
		return []string{resultType, "error"}
	}
}

// scanTarget declares the row-local variable(s) a Scan call reads one row
// of t into, and returns the Scan() argument list pointing at them.
func scanTarget(t ast.Type, target Target) (decl string, scanArgs []string) {
	if t.Kind == ast.Struct {
		var b strings.Builder
		fmt.Fprintf(&b, "var v %s\n", ExportedName(t.StructName.Name))
		for _, f := range t.Fields {
			scanArgs = append(scanArgs, "&v."+ExportedName(f.Name.Name))
		}
		return b.String(), scanArgs
	}
	return fmt.Sprintf("var v %s\n", goType(target, t)), []string{"&v"}
}

// writeOneBody generates a QueryRowContext call for ->1 and ->?; for ->?
// sql.ErrNoRows becomes a (nil, nil) return instead of an error.
func writeOneBody(w *bufio.Writer, target Target, elem ast.Type, argsExpr string, zeroOrOne bool) {
	fmt.Fprintf(w, "\trow := db.QueryRowContext(ctx, query%s)\n", argsExpr)
	decl, scanArgs := scanTarget(elem, target)
	fmt.Fprintf(w, "\t%s", decl)
	fmt.Fprintf(w, "\tif err := row.Scan(%s); err != nil {\n", strings.Join(scanArgs, ", "))
	if zeroOrOne {
		fmt.Fprintln(w, "\t\tif errors.Is(err, sql.ErrNoRows) {")
		fmt.Fprintln(w, "\t\t\treturn nil, nil")
		fmt.Fprintln(w, "\t\t}")
		fmt.Fprintln(w, "\t\treturn nil, err")
	} else {
		fmt.Fprintln(w, "\t\treturn v, err")
	}
	fmt.Fprintln(w, "\t}")
	if zeroOrOne {
		fmt.Fprintln(w, "\treturn &v, nil")
	} else {
		fmt.Fprintln(w, "\treturn v, nil")
	}
}

// writeTupleBody generates a QueryRowContext call for a bare ->1 Tuple
// result, scanning straight into one local var per element and returning
// them as Go's native multiple return values.
func writeTupleBody(w *bufio.Writer, target Target, t ast.Type, argsExpr string) {
	fmt.Fprintf(w, "\trow := db.QueryRowContext(ctx, query%s)\n", argsExpr)
	varNames := make([]string, len(t.Elements))
	scanArgs := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		varNames[i] = fmt.Sprintf("v%d", i)
		fmt.Fprintf(w, "\tvar %s %s\n", varNames[i], goType(target, e))
		scanArgs[i] = "&" + varNames[i]
	}
	fmt.Fprintf(w, "\tif err := row.Scan(%s); err != nil {\n", strings.Join(scanArgs, ", "))
	fmt.Fprintf(w, "\t\treturn %s, err\n", strings.Join(varNames, ", "))
	fmt.Fprintln(w, "\t}")
	fmt.Fprintf(w, "\treturn %s, nil\n", strings.Join(varNames, ", "))
}

// writeManyBody generates a QueryContext call for ->*, accumulating every
// row into a slice.
func writeManyBody(w *bufio.Writer, target Target, elem ast.Type, argsExpr string) {
	fmt.Fprintf(w, "\trows, err := db.QueryContext(ctx, query%s)\n", argsExpr)
	fmt.Fprintln(w, "\tif err != nil {")
	fmt.Fprintln(w, "\t\treturn nil, err")
	fmt.Fprintln(w, "\t}")
	fmt.Fprintln(w, "\tdefer rows.Close()")
	fmt.Fprintf(w, "\tvar result []%s\n", goType(target, elem))
	fmt.Fprintln(w, "\tfor rows.Next() {")
	decl, scanArgs := scanTarget(elem, target)
	fmt.Fprintf(w, "\t\t%s", decl)
	fmt.Fprintf(w, "\t\tif err := rows.Scan(%s); err != nil {\n", strings.Join(scanArgs, ", "))
	fmt.Fprintln(w, "\t\t\treturn nil, err")
	fmt.Fprintln(w, "\t\t}")
	fmt.Fprintln(w, "\t\tresult = append(result, v)")
	fmt.Fprintln(w, "\t}")
	fmt.Fprintln(w, "\tif err := rows.Err(); err != nil {")
	fmt.Fprintln(w, "\t\treturn nil, err")
	fmt.Fprintln(w, "\t}")
	fmt.Fprintln(w, "\treturn result, nil")
}

// writeIteratorBody generates a QueryContext call for results declared as an
// explicit Iterator<T> (whatever the arrow), returning an iter.Seq2 that streams rows and
// closes them once the consumer stops pulling or the rows are exhausted.
func writeIteratorBody(w *bufio.Writer, target Target, elem ast.Type, argsExpr string) {
	resultGoType := goType(target, elem)
	fmt.Fprintf(w, "\trows, err := db.QueryContext(ctx, query%s)\n", argsExpr)
	fmt.Fprintf(w, "\treturn func(yield func(%s, error) bool) {\n", resultGoType)
	fmt.Fprintln(w, "\t\tif err != nil {")
	fmt.Fprintf(w, "\t\t\tvar zero %s\n", resultGoType)
	fmt.Fprintln(w, "\t\t\tyield(zero, err)")
	fmt.Fprintln(w, "\t\t\treturn")
	fmt.Fprintln(w, "\t\t}")
	fmt.Fprintln(w, "\t\tdefer rows.Close()")
	fmt.Fprintln(w, "\t\tfor rows.Next() {")
	decl, scanArgs := scanTarget(elem, target)
	fmt.Fprintf(w, "\t\t\t%s", decl)
	fmt.Fprintf(w, "\t\t\tif err := rows.Scan(%s); err != nil {\n", strings.Join(scanArgs, ", "))
	fmt.Fprintln(w, "\t\t\t\tyield(v, err)")
	fmt.Fprintln(w, "\t\t\t\treturn")
	fmt.Fprintln(w, "\t\t\t}")
	fmt.Fprintln(w, "\t\t\tif !yield(v, nil) {")
	fmt.Fprintln(w, "\t\t\t\treturn")
	fmt.Fprintln(w, "\t\t\t}")
	fmt.Fprintln(w, "\t\t}")
	fmt.Fprintln(w, "\t\tif err := rows.Err(); err != nil {")
	fmt.Fprintf(w, "\t\t\tvar zero %s\n", resultGoType)
	fmt.Fprintln(w, "\t\t\tyield(zero, err)")
	fmt.Fprintln(w, "\t\t}")
	fmt.Fprintln(w, "\t}")
}

func writeStruct(w *bufio.Writer, target Target, t ast.Type) {
	fmt.Fprintf(w, "type %s struct {\n", ExportedName(t.StructName.Name))
	for _, f := range t.Fields {
		fmt.Fprintf(w, "\t%s %s\n", ExportedName(f.Name.Name), goType(target, f.Type))
	}
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
}

// buildQueryLiteral renders a query body into the driver's final SQL text:
// RawSpan fragments copy through verbatim, ParamRef fragments become the
// target's placeholder syntax, and Annotation (TypedHint) fragments are
// dropped — they are metadata for this tool, not bytes the driver should
// ever see. The returned order is the Go expression bound to each
// placeholder, in occurrence order: the bare parameter name for an ordinary
// scalar parameter, or "<param>.<Field>" when sig's sole parameter is a
// Struct (its fields aren't declared as their own Go parameters).
func buildQueryLiteral(src source.Source, body ast.QueryBody, target Target, sig ast.Signature) (string, []string) {
	structParam, structParamName := soleStructParam(sig)

	var buf strings.Builder
	var order []string
	for _, f := range body.Fragments {
		switch f.Kind {
		case ast.RawSpan:
			buf.WriteString(f.Span.Text(src))
		case ast.ParamRef:
			expr := f.Name.Name
			if structParam {
				expr = structParamName + "." + ExportedName(f.Name.Name)
			}
			order = append(order, expr)
			buf.WriteString(target.Placeholder(len(order), f.Name.Name))
		case ast.Annotation:
			// dropped
		}
	}
	return buf.String(), order
}

// soleStructParam reports whether sig has exactly one parameter and it's a
// Struct, returning that parameter's Go name for field-access generation.
func soleStructParam(sig ast.Signature) (bool, string) {
	if len(sig.Parameters) != 1 || sig.Parameters[0].Type.Kind != ast.Struct {
		return false, ""
	}
	return true, sig.Parameters[0].Name.Name
}

func backtickOrQuote(s string) string {
	if strings.ContainsRune(s, '`') {
		return fmt.Sprintf("%q", s)
	}
	return "`" + s + "`"
}
