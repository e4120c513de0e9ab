package parser

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// declared is the set of resource addresses, keyed by type then name.
type declared map[string]map[string]bool

func (d declared) add(typ, name string) {
	if d[typ] == nil {
		d[typ] = make(map[string]bool)
	}
	d[typ][name] = true
}

func (d declared) has(typ, name string) bool { return d[typ][name] }

// refCollector gathers the resources and variables one resource refers to.
type refCollector struct {
	self      string
	decls     declared
	seen      map[string]bool
	resources []string
	variables []string
}

func newRefCollector(self string, decls declared) *refCollector {
	return &refCollector{self: self, decls: decls, seen: make(map[string]bool)}
}

func (c *refCollector) collect(expr hcl.Expression) {
	for _, t := range expr.Variables() {
		c.traversal(t)
	}
}

func (c *refCollector) collectBody(body *hclsyntax.Body) {
	for _, attr := range sortedAttributes(body) {
		c.collect(attr.Expr)
	}
	for _, blk := range body.Blocks {
		c.collectBody(blk.Body)
	}
}

func (c *refCollector) traversal(t hcl.Traversal) {
	if len(t) < 2 {
		return
	}
	attr, ok := t[1].(hcl.TraverseAttr)
	if !ok {
		return
	}
	root := t.RootName()
	if root == "var" {
		key := "var." + attr.Name
		if !c.seen[key] {
			c.seen[key] = true
			c.variables = append(c.variables, attr.Name)
		}
		return
	}
	if !c.decls.has(root, attr.Name) {
		return
	}
	addr := root + "." + attr.Name
	if addr == c.self || c.seen[addr] {
		return
	}
	c.seen[addr] = true
	c.resources = append(c.resources, addr)
}
