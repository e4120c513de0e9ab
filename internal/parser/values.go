package parser

import (
	"encoding/json"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// evalCtx evaluates reference-free expressions. Only pure functions are
// available; anything else is kept as source text.
var evalCtx = &hcl.EvalContext{
	Functions: map[string]function.Function{
		"jsonencode": stdlib.JSONEncodeFunc,
		"jsondecode": stdlib.JSONDecodeFunc,
		"upper":      stdlib.UpperFunc,
		"lower":      stdlib.LowerFunc,
		"format":     stdlib.FormatFunc,
		"join":       stdlib.JoinFunc,
		"concat":     stdlib.ConcatFunc,
		"merge":      stdlib.MergeFunc,
		"length":     stdlib.LengthFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"replace":    stdlib.ReplaceFunc,
	},
}

// render turns an attribute expression into its stored string form.
func (s *source) render(expr hclsyntax.Expression) string {
	if len(expr.Variables()) == 0 {
		if str, ok := evalString(expr); ok {
			return str
		}
		return s.text(expr.Range())
	}
	return s.renderRefs(expr)
}

func evalString(expr hclsyntax.Expression) (string, bool) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() || !val.IsWhollyKnown() {
		return "", false
	}
	return valueString(val)
}

// valueString renders primitives as text and collections as JSON.
func valueString(val cty.Value) (string, bool) {
	if val.IsNull() {
		return "", true
	}
	switch val.Type() {
	case cty.String:
		return val.AsString(), true
	case cty.Number:
		return val.AsBigFloat().Text('f', -1), true
	case cty.Bool:
		if val.True() {
			return "true", true
		}
		return "false", true
	}
	b, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return "", false
	}
	return string(b), true
}

// renderRefs renders an expression holding references. Templates keep their
// literal parts and directives as written; everything else becomes a single
// ${...} interpolation.
func (s *source) renderRefs(expr hclsyntax.Expression) string {
	switch e := expr.(type) {
	case *hclsyntax.TemplateWrapExpr:
		return s.interpolation(e.Wrapped)
	case *hclsyntax.TemplateExpr:
		var b strings.Builder
		for _, part := range e.Parts {
			if lit, ok := part.(*hclsyntax.LiteralValueExpr); ok && lit.Val.Type() == cty.String {
				b.WriteString(lit.Val.AsString())
				continue
			}
			if text := s.text(part.Range()); strings.HasPrefix(text, "%{") {
				b.WriteString(text)
				continue
			}
			b.WriteString(s.interpolation(part))
		}
		return b.String()
	case *hclsyntax.FunctionCallExpr:
		if e.Name == "jsonencode" && len(e.Args) == 1 {
			if b, err := json.Marshal(s.jsonValue(e.Args[0])); err == nil {
				return string(b)
			}
		}
	case *hclsyntax.ObjectConsExpr, *hclsyntax.TupleConsExpr:
		if b, err := json.Marshal(s.jsonValue(e)); err == nil {
			return string(b)
		}
	}
	return s.interpolation(expr)
}

func (s *source) interpolation(expr hclsyntax.Expression) string {
	return "${" + s.text(expr.Range()) + "}"
}

// jsonValue converts an expression into a value encoding/json can marshal,
// with references rendered as interpolation strings.
func (s *source) jsonValue(expr hclsyntax.Expression) any {
	if len(expr.Variables()) == 0 {
		val, diags := expr.Value(evalCtx)
		if !diags.HasErrors() && val.IsWhollyKnown() {
			if b, err := ctyjson.Marshal(val, val.Type()); err == nil {
				return json.RawMessage(b)
			}
		}
		return s.text(expr.Range())
	}
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		obj := make(map[string]any, len(e.Items))
		for _, item := range e.Items {
			obj[s.objectKey(item.KeyExpr)] = s.jsonValue(item.ValueExpr)
		}
		return obj
	case *hclsyntax.TupleConsExpr:
		list := make([]any, 0, len(e.Exprs))
		for _, ex := range e.Exprs {
			list = append(list, s.jsonValue(ex))
		}
		return list
	}
	return s.renderRefs(expr)
}

func (s *source) objectKey(expr hclsyntax.Expression) string {
	if kw := hcl.ExprAsKeyword(expr); kw != "" {
		return kw
	}
	if val, diags := expr.Value(evalCtx); !diags.HasErrors() && val.Type() == cty.String && val.IsKnown() && !val.IsNull() {
		return val.AsString()
	}
	return s.text(expr.Range())
}

// blockValue converts a nested block body into a JSON-ready object.
func (s *source) blockValue(body *hclsyntax.Body) map[string]any {
	obj := make(map[string]any, len(body.Attributes)+len(body.Blocks))
	for name, attr := range body.Attributes {
		obj[name] = s.jsonValue(attr.Expr)
	}
	children := make(map[string][]any)
	for _, child := range body.Blocks {
		children[child.Type] = append(children[child.Type], s.blockValue(child.Body))
	}
	for name, vals := range children {
		if len(vals) == 1 {
			obj[name] = vals[0]
		} else {
			obj[name] = vals
		}
	}
	return obj
}

// marshalNested encodes the bodies of a repeated or single nested block.
func marshalNested(vals []any) string {
	var v any = vals
	if len(vals) == 1 {
		v = vals[0]
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
