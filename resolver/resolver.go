// Package resolver is the typer stage: it validates every primitive type
// name against the fixed set (spec §4.3), canonicalizes aliases such as
// "int", and turns a capitalised result-type name outside that set into a Struct whose
// Fields are populated from the query body's TypedHint fragments — mirroring
// how the reference corpus's Create.ParseYamlInDocstring (sqlparser/sqldocument/create.go)
// fills a Go struct from data accumulated during the first parse pass rather
// than during scanning itself.
package resolver

import (
	"fmt"
	"strings"

	"github.com/sqlqc/sqlqc/ast"
	"github.com/sqlqc/sqlqc/diag"
	"github.com/sqlqc/sqlqc/source"
)

// Resolve validates and enriches every query in doc in place. The returned
// error is non-nil exactly when a diagnostic fired; resolution stops at the
// first query with a diagnostic, and the error carries only the first one.
func Resolve(doc *ast.Document) error {
	var errs diag.Errors
	errs.Source = doc.Source

	for i := range doc.Queries {
		resolveQuery(doc.Source, &doc.Queries[i], &errs)
		if errs.HasErrors() {
			errs.Items = errs.Items[:1]
			return errs
		}
	}
	return nil
}

func resolveQuery(src source.Source, q *ast.Query, errs *diag.Errors) {
	sig := &q.Signature

	var structParams []int
	for i := range sig.Parameters {
		if isUnresolvedStructName(sig.Parameters[i].Type) {
			structParams = append(structParams, i)
		}
	}

	switch {
	case len(structParams) > 0 && len(sig.Parameters) > 1:
		// A Struct argument must be the signature's sole parameter (spec §3
		// invariant 4). Flag every struct-shaped parameter found and resolve
		// the rest normally; Resolve keeps only the first diagnostic.
		for _, idx := range structParams {
			p := sig.Parameters[idx]
			errs.Add(diag.Error{
				Kind:    diag.MultiArgStruct,
				Span:    p.Name.Span,
				Message: fmt.Sprintf("struct parameter %q must be the signature's only parameter", p.Name.Name),
				Hint:    "give the query exactly one parameter of this struct type",
			})
		}
		for i := range sig.Parameters {
			if isUnresolvedStructName(sig.Parameters[i].Type) {
				continue
			}
			resolveType(&sig.Parameters[i].Type, false, errs, sig.Parameters[i].Name.Span)
		}

	case len(structParams) == 1:
		resolveStructParam(src, &sig.Parameters[structParams[0]], q.Body, errs)

	default:
		for i := range sig.Parameters {
			resolveType(&sig.Parameters[i].Type, false, errs, sig.Parameters[i].Name.Span)
		}
		checkParamHints(src, sig, q.Body, errs)
	}

	structTarget := resolveType(&sig.Result, true, errs, sig.Span)
	if structTarget != nil {
		structTarget.Fields = collectStructFields(src, q.Body, errs)
		if len(structTarget.Fields) == 0 {
			errs.Add(diag.Error{
				Kind:    diag.EmptyStructResult,
				Span:    structTarget.StructName.Span,
				Message: fmt.Sprintf("struct result %q has no fields", structTarget.StructName.Name),
				Hint:    "add an inline type annotation after each selected column, e.g. \"col /* :str */\"",
			})
		}
	}
}

// isUnresolvedStructName reports whether t is still an unresolved bare name
// (as the parser always leaves it) that isn't one of the fixed primitives and
// starts with an ASCII uppercase letter — i.e. a candidate for Struct
// reclassification. A lowercase unknown name is an unknown primitive.
func isUnresolvedStructName(t ast.Type) bool {
	return t.Kind == ast.Primitive && !ast.PrimitiveNames[ast.CanonicalPrimitive(t.Name)] &&
		t.Name != "" && t.Name[0] >= 'A' && t.Name[0] <= 'Z'
}

// resolveStructParam reclassifies p's type to Struct and populates its
// Fields from the body's ordered ":name" references (spec §4.3 step 2): each
// distinct parameter reference, in first-occurrence order, must be
// immediately followed (skipping whitespace only) by a TypedHint naming its
// type; duplicate references are allowed but must agree on type.
func resolveStructParam(src source.Source, p *ast.Param, body ast.QueryBody, errs *diag.Errors) {
	structName := p.Type.Name
	p.Type = ast.Type{
		Kind:       ast.Struct,
		StructName: ast.Ident{Name: structName, Span: p.Name.Span},
	}

	seen := map[string]int{}
	for i, frag := range body.Fragments {
		if frag.Kind != ast.ParamRef {
			continue
		}
		hintIdx := nextMeaningful(src, body.Fragments, i+1)
		if hintIdx < 0 || body.Fragments[hintIdx].Kind != ast.Annotation {
			errs.Add(diag.Error{
				Kind:    diag.UntypedStructParameter,
				Span:    frag.Span,
				Message: fmt.Sprintf("parameter %q has no type hint", frag.Name.Name),
				Hint:    "add a type hint immediately after this parameter, e.g. \":name /* :str */\"",
			})
			continue
		}
		hint := body.Fragments[hintIdx]
		canon := ast.CanonicalPrimitive(hint.Type.Name)
		if !ast.PrimitiveNames[canon] {
			errs.Add(diag.Error{Kind: diag.UnknownPrimitive, Span: hint.Span, Message: fmt.Sprintf("unknown primitive type %q", hint.Type.Name)})
			continue
		}
		fieldType := ast.Type{Kind: ast.Primitive, Name: canon, Nullable: hint.Type.Nullable}

		if existing, ok := seen[frag.Name.Name]; ok {
			prev := p.Type.Fields[existing].Type
			if prev.Name != fieldType.Name || prev.Nullable != fieldType.Nullable {
				errs.Add(diag.Error{
					Kind:    diag.ConflictingParameterType,
					Span:    hint.Span,
					Message: fmt.Sprintf("parameter %q annotated with conflicting types %q and %q", frag.Name.Name, prev.Name, fieldType.Name),
				})
			}
			continue
		}
		seen[frag.Name.Name] = len(p.Type.Fields)
		p.Type.Fields = append(p.Type.Fields, ast.Field{Name: frag.Name, Type: fieldType})
	}
}

// resolveType canonicalizes a primitive name in place, or — when allowStruct
// is true and the name isn't in the fixed primitive set but starts with an
// ASCII uppercase letter — reclassifies the
// node as a Struct and returns it for the caller to fill in Fields. Tuple
// elements may never be structs; Iterator/Option recurse into their element.
func resolveType(t *ast.Type, allowStruct bool, errs *diag.Errors, span source.Span) *ast.Type {
	switch t.Kind {
	case ast.Primitive:
		canon := ast.CanonicalPrimitive(t.Name)
		if ast.PrimitiveNames[canon] {
			t.Name = canon
			return nil
		}
		if !allowStruct || !isUnresolvedStructName(*t) {
			errs.Add(diag.Error{Kind: diag.UnknownPrimitive, Span: span, Message: fmt.Sprintf("unknown primitive type %q", t.Name)})
			return nil
		}
		name := t.Name
		t.Kind = ast.Struct
		t.StructName = ast.Ident{Name: name, Span: span}
		t.Name = ""
		return t

	case ast.Tuple:
		for i := range t.Elements {
			resolveType(&t.Elements[i], false, errs, span)
		}
		return nil

	case ast.Iterator:
		if t.Element == nil {
			return nil
		}
		return resolveType(t.Element, allowStruct, errs, span)

	case ast.Option:
		// "?" may only make a primitive nullable (spec §3 invariant 5); a
		// struct or tuple result/parameter can never be wrapped in Option.
		if t.Element == nil {
			return nil
		}
		if t.Element.Kind != ast.Primitive {
			errs.Add(diag.Error{
				Kind:    diag.NullableStructOrTuple,
				Span:    span,
				Message: "\"?\" cannot be applied to a struct or tuple type",
			})
			return nil
		}
		canon := ast.CanonicalPrimitive(t.Element.Name)
		if !ast.PrimitiveNames[canon] {
			errs.Add(diag.Error{
				Kind:    diag.NullableStructOrTuple,
				Span:    span,
				Message: fmt.Sprintf("%q is not a primitive type; \"?\" cannot make a struct nullable", t.Element.Name),
			})
			return nil
		}
		t.Element.Name = canon
		return nil

	case ast.Struct:
		return t
	}
	return nil
}

// collectStructFields walks a query body's fragments in order and turns
// every result-position TypedHint (one with a PrecedingIdent that isn't
// itself a parameter's inline hint) into a struct field, in the order the
// columns were written — invariant: field order follows SELECT-list order,
// not declaration order.
func collectStructFields(src source.Source, body ast.QueryBody, errs *diag.Errors) []ast.Field {
	var fields []ast.Field
	for i, frag := range body.Fragments {
		if frag.Kind != ast.Annotation || frag.PrecedingIdent == nil {
			continue
		}
		if precededByParam(src, body.Fragments, i) {
			continue
		}
		canon := ast.CanonicalPrimitive(frag.Type.Name)
		if !ast.PrimitiveNames[canon] {
			errs.Add(diag.Error{Kind: diag.UnknownPrimitive, Span: frag.Span, Message: fmt.Sprintf("unknown type hint %q for field %q", frag.Type.Name, frag.PrecedingIdent.Name)})
			continue
		}
		fields = append(fields, ast.Field{
			Name: *frag.PrecedingIdent,
			Type: ast.Type{Kind: ast.Primitive, Name: canon, Nullable: frag.Type.Nullable},
		})
	}
	return fields
}

// checkParamHints cross-checks a parameter's declared Signature type against
// any inline TypedHint immediately following its occurrence in the body
// (spec §9: a TypedHint in argument position confirms, and must agree with,
// the declared parameter type).
func checkParamHints(src source.Source, sig *ast.Signature, body ast.QueryBody, errs *diag.Errors) {
	for i, frag := range body.Fragments {
		if frag.Kind != ast.ParamRef {
			continue
		}
		hintIdx := nextMeaningful(src, body.Fragments, i+1)
		if hintIdx < 0 || body.Fragments[hintIdx].Kind != ast.Annotation {
			continue
		}
		hint := body.Fragments[hintIdx]

		declared := findParam(sig.Parameters, frag.Name.Name)
		if declared == nil {
			errs.Add(diag.Error{Kind: diag.UnknownPrimitive, Span: hint.Span, Message: fmt.Sprintf("type hint for undeclared parameter %q", frag.Name.Name)})
			continue
		}
		canon := ast.CanonicalPrimitive(hint.Type.Name)
		if declared.Type.Kind == ast.Primitive && (declared.Type.Name != canon || declared.Type.Nullable != hint.Type.Nullable) {
			errs.Add(diag.Error{
				Kind:    diag.ConflictingParameterType,
				Span:    hint.Span,
				Message: fmt.Sprintf("type hint %q disagrees with declared type %q for parameter %q", canon, declared.Type.Name, frag.Name.Name),
			})
		}
	}
}

// precededByParam reports whether the fragment at idx is immediately
// preceded (skipping only whitespace-only raw spans) by a ParamRef — i.e.
// whether this hint is in argument position, not result position.
func precededByParam(src source.Source, frags []ast.Fragment, idx int) bool {
	j := idx - 1
	for j >= 0 {
		if frags[j].Kind == ast.RawSpan && strings.TrimSpace(frags[j].Span.Text(src)) == "" {
			j--
			continue
		}
		break
	}
	return j >= 0 && frags[j].Kind == ast.ParamRef
}

// nextMeaningful returns the index, at or after start, of the next fragment
// that isn't a whitespace-only RawSpan, or -1 if none remains.
func nextMeaningful(src source.Source, frags []ast.Fragment, start int) int {
	for j := start; j < len(frags); j++ {
		if frags[j].Kind == ast.RawSpan && strings.TrimSpace(frags[j].Span.Text(src)) == "" {
			continue
		}
		return j
	}
	return -1
}

func findParam(params []ast.Param, name string) *ast.Param {
	for i := range params {
		if params[i].Name.Name == name {
			return &params[i]
		}
	}
	return nil
}
