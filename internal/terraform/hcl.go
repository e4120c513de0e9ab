package terraform

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// SanitizeName converts a label or id into a Terraform-safe resource name
// (e.g. "My API-1" -> "my_api_1").
func SanitizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" {
		return "resource"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "r_" + name
	}
	return name
}

// ResourceBlock creates a resource "type" "name" { } block; body can be filled by the caller.
func ResourceBlock(resourceType, name string) *hclwrite.Block {
	return hclwrite.NewBlock("resource", []string{resourceType, name})
}

// SetAttributeStr sets a string attribute on a block body.
func SetAttributeStr(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}

// SetAttributeNumber sets a number attribute. It reports false if value is
// not a number.
func SetAttributeNumber(body *hclwrite.Body, name, value string) bool {
	v, err := convert.Convert(cty.StringVal(strings.TrimSpace(value)), cty.Number)
	if err != nil || v.IsNull() {
		return false
	}
	body.SetAttributeValue(name, v)
	return true
}

// SetAttributeBool sets a bool attribute. It reports false if value is not
// a boolean.
func SetAttributeBool(body *hclwrite.Body, name, value string) bool {
	v, err := convert.Convert(cty.StringVal(strings.TrimSpace(value)), cty.Bool)
	if err != nil || v.IsNull() {
		return false
	}
	body.SetAttributeValue(name, v)
	return true
}

// SetAttributeInterpolated writes value as a reference when it is exactly one
// ${...} traversal, and as a template string otherwise.
func SetAttributeInterpolated(body *hclwrite.Body, name, value string) {
	if t, ok := singleTraversal(value); ok {
		body.SetAttributeTraversal(name, t)
		return
	}
	body.SetAttributeRaw(name, templateTokens(value))
}

// SetAttributeJSON writes a JSON document as jsonencode(<value>).
func SetAttributeJSON(body *hclwrite.Body, name, value string) bool {
	v, ok := decodeJSON(value)
	if !ok {
		return false
	}
	body.SetAttributeRaw(name, hclwrite.TokensForFunctionCall("jsonencode", jsonTokens(v)))
	return true
}

// SetAttributeStructured writes a JSON object or array as an HCL value.
func SetAttributeStructured(body *hclwrite.Body, name, value string) bool {
	v, ok := decodeJSON(value)
	if !ok {
		return false
	}
	body.SetAttributeRaw(name, jsonTokens(v))
	return true
}

// AppendNestedBlocks writes a JSON object as one nested block, or an array of
// objects as repeated blocks. It reports false for any other shape.
func AppendNestedBlocks(body *hclwrite.Body, name, value string) bool {
	v, ok := decodeJSON(value)
	if !ok {
		return false
	}
	return appendNested(body, name, v)
}

func appendNested(body *hclwrite.Body, name string, v any) bool {
	var objs []map[string]any
	switch val := v.(type) {
	case map[string]any:
		objs = []map[string]any{val}
	case []any:
		if len(val) == 0 {
			return false
		}
		for _, item := range val {
			obj, ok := item.(map[string]any)
			if !ok {
				return false
			}
			objs = append(objs, obj)
		}
	default:
		return false
	}
	for _, obj := range objs {
		child := body.AppendNewBlock(name, nil).Body()
		for _, k := range sortedKeys(obj) {
			switch val := obj[k].(type) {
			case map[string]any:
				if !isFlat(val) {
					appendNested(child, k, val)
					continue
				}
			case []any:
				if appendNested(child, k, val) {
					continue
				}
			}
			child.SetAttributeRaw(k, jsonTokens(obj[k]))
		}
	}
	return true
}

// IsFlatObject reports whether value is a JSON object of primitives, such as
// a tags map.
func IsFlatObject(value string) bool {
	v, ok := decodeJSON(value)
	if !ok {
		return false
	}
	obj, isObj := v.(map[string]any)
	return isObj && isFlat(obj)
}

func isFlat(obj map[string]any) bool {
	for _, v := range obj {
		switch v.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

// IsStructured reports whether value is a JSON object or array.
func IsStructured(value string) bool {
	s := strings.TrimSpace(value)
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return false
	}
	return json.Valid([]byte(s))
}

func decodeJSON(value string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(value))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// jsonTokens renders a decoded JSON value as an HCL expression. Strings
// holding ${...} stay live references.
func jsonTokens(v any) hclwrite.Tokens {
	switch val := v.(type) {
	case map[string]any:
		attrs := make([]hclwrite.ObjectAttrTokens, 0, len(val))
		for _, k := range sortedKeys(val) {
			name := hclwrite.TokensForValue(cty.StringVal(k))
			if hclsyntax.ValidIdentifier(k) {
				name = hclwrite.TokensForIdentifier(k)
			}
			attrs = append(attrs, hclwrite.ObjectAttrTokens{Name: name, Value: jsonTokens(val[k])})
		}
		return hclwrite.TokensForObject(attrs)
	case []any:
		elems := make([]hclwrite.Tokens, 0, len(val))
		for _, item := range val {
			elems = append(elems, jsonTokens(item))
		}
		return hclwrite.TokensForTuple(elems)
	case string:
		if strings.Contains(val, "${") {
			if t, ok := singleTraversal(val); ok {
				return hclwrite.TokensForTraversal(t)
			}
			return templateTokens(val)
		}
		return hclwrite.TokensForValue(cty.StringVal(val))
	case json.Number:
		if n, err := cty.ParseNumberVal(val.String()); err == nil {
			return hclwrite.TokensForValue(n)
		}
		return hclwrite.TokensForValue(cty.StringVal(val.String()))
	case bool:
		return hclwrite.TokensForValue(cty.BoolVal(val))
	default:
		return hclwrite.TokensForIdentifier("null")
	}
}

// singleTraversal matches values of the form ${a.b.c}.
func singleTraversal(value string) (hcl.Traversal, bool) {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return nil, false
	}
	inner := value[2 : len(value)-1]
	if strings.Contains(inner, "${") {
		return nil, false
	}
	t, diags := hclsyntax.ParseTraversalAbs([]byte(inner), "", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, false
	}
	return t, true
}

// templateTokens renders value as a quoted template, leaving ${...} intact.
func templateTokens(value string) hclwrite.Tokens {
	var buf bytes.Buffer
	for _, r := range value {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteRune(r)
		}
	}
	return hclwrite.Tokens{
		{Type: hclsyntax.TokenOQuote, Bytes: []byte(`"`)},
		{Type: hclsyntax.TokenQuotedLit, Bytes: buf.Bytes()},
		{Type: hclsyntax.TokenCQuote, Bytes: []byte(`"`)},
	}
}

// refTraversal builds hcl.Traversal for a resource address and attribute (e.g. aws_vpc.main.id).
func refTraversal(resourceType, name, attr string) hcl.Traversal {
	t := hcl.Traversal{
		hcl.TraverseRoot{Name: resourceType},
		hcl.TraverseAttr{Name: name},
	}
	if attr != "" {
		t = append(t, hcl.TraverseAttr{Name: attr})
	}
	return t
}

// BlockToBytes formats a block and returns its bytes (with newline).
func BlockToBytes(block *hclwrite.Block) []byte {
	f := hclwrite.NewEmptyFile()
	f.Body().AppendBlock(block)
	return hclwrite.Format(f.Bytes())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
