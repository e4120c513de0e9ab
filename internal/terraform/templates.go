package terraform

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/tfcanvas/canvas/internal/diagram"
	"github.com/tfcanvas/canvas/internal/parser"
)

// RegionVariable is the variable the provider block reads its region from.
const RegionVariable = "aws_region"

// VersionsTF returns content for versions.tf (terraform block + aws provider).
func VersionsTF(providerVersion string) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	tfBlock := body.AppendNewBlock("terraform", nil)
	tfBody := tfBlock.Body()
	tfBody.SetAttributeValue("required_version", cty.StringVal(">= 1.0"))
	reqProv := tfBody.AppendNewBlock("required_providers", nil)
	reqProv.Body().SetAttributeValue("aws", cty.ObjectVal(map[string]cty.Value{
		"source":  cty.StringVal("hashicorp/aws"),
		"version": cty.StringVal(providerVersion),
	}))

	body.AppendNewline()
	provBlock := body.AppendNewBlock("provider", []string{"aws"})
	provBlock.Body().SetAttributeTraversal("region", varTraversal(RegionVariable))

	return f.Bytes()
}

// VariablesTF returns content for variables.tf: the region variable unless
// the configuration declares it, then every declared variable.
func VariablesTF(region string, vars []parser.Variable) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	declared := false
	for _, v := range vars {
		if v.Name == RegionVariable {
			declared = true
		}
	}
	if !declared {
		regionBlock := body.AppendNewBlock("variable", []string{RegionVariable})
		regionBlock.Body().SetAttributeValue("description", cty.StringVal("AWS region"))
		regionBlock.Body().SetAttributeRaw("type", hclwrite.TokensForIdentifier("string"))
		regionBlock.Body().SetAttributeValue("default", cty.StringVal(region))
	}

	for _, v := range vars {
		if len(body.Blocks()) > 0 {
			body.AppendNewline()
		}
		vb := body.AppendNewBlock("variable", []string{v.Name}).Body()
		if v.Type != "" {
			vb.SetAttributeRaw("type", typeTokens(v.Type))
		}
		SetAttributeStr(vb, "description", v.Description)
		if v.HasDefault {
			writeDefault(vb, v)
		}
		if v.Sensitive {
			vb.SetAttributeValue("sensitive", cty.True)
		}
	}
	return f.Bytes()
}

// typeTokens writes a type constraint such as list(string) back verbatim.
func typeTokens(expr string) hclwrite.Tokens {
	return hclwrite.Tokens{{Type: hclsyntax.TokenIdent, Bytes: []byte(expr)}}
}

func writeDefault(body *hclwrite.Body, v parser.Variable) {
	switch {
	case IsStructured(v.Default):
		if SetAttributeStructured(body, "default", v.Default) {
			return
		}
	case v.Type == "number":
		if SetAttributeNumber(body, "default", v.Default) {
			return
		}
	case v.Type == "bool":
		if SetAttributeBool(body, "default", v.Default) {
			return
		}
	}
	body.SetAttributeValue("default", cty.StringVal(v.Default))
}

// OutputsTF returns outputs.tf with the id of every exported resource.
func OutputsTF(addrs []Address) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, a := range addrs {
		if i > 0 {
			body.AppendNewline()
		}
		out := body.AppendNewBlock("output", []string{a.Name + "_id"}).Body()
		out.SetAttributeTraversal("value", refTraversal(a.Type, a.Name, "id"))
	}
	return f.Bytes()
}

// TfvarsFromMetadata generates terraform.tfvars from diagram metadata.
func TfvarsFromMetadata(m *diagram.Metadata, region string, vars []parser.Variable) []byte {
	if m == nil {
		return nil
	}
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue(RegionVariable, cty.StringVal(region))
	if m.Environment != "" {
		for _, v := range vars {
			if v.Name == "environment" {
				body.SetAttributeValue("environment", cty.StringVal(m.Environment))
			}
		}
	}
	return f.Bytes()
}

// varTraversal builds hcl.Traversal for var.name (e.g. var.aws_region).
func varTraversal(name string) hcl.Traversal {
	return hcl.Traversal{
		hcl.TraverseRoot{Name: "var"},
		hcl.TraverseAttr{Name: name},
	}
}
