package textdoc

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// HCLName converts an entity id to an HCL-safe label (e.g. system-1 -> system_1).
func HCLName(id string) string {
	return Sanitize(id)
}

// HCLBlock creates a `kind "label" { }` block; body can be filled by the caller.
func HCLBlock(kind, label string) *hclwrite.Block {
	if label == "" {
		return hclwrite.NewBlock(kind, nil)
	}
	return hclwrite.NewBlock(kind, []string{label})
}

// SetAttributeStr sets a string attribute, skipping empty values.
func SetAttributeStr(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}

// SetAttributeBool sets a bool attribute.
func SetAttributeBool(body *hclwrite.Body, name string, value bool) {
	body.SetAttributeValue(name, cty.BoolVal(value))
}

// SetAttributeNumber sets a number attribute.
func SetAttributeNumber(body *hclwrite.Body, name string, value float64) {
	body.SetAttributeValue(name, cty.NumberFloatVal(value))
}

// SetAttributeList sets a list(string) attribute, skipping empty lists.
func SetAttributeList(body *hclwrite.Body, name string, values []string) {
	if len(values) == 0 {
		return
	}
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.StringVal(v)
	}
	body.SetAttributeValue(name, cty.ListVal(vals))
}

// SetAttributePosition sets an object attribute {x, y}.
func SetAttributePosition(body *hclwrite.Body, name string, x, y float64) {
	body.SetAttributeValue(name, cty.ObjectVal(map[string]cty.Value{
		"x": cty.NumberFloatVal(x),
		"y": cty.NumberFloatVal(y),
	}))
}

// BlocksToBytes formats blocks into one HCL file, separated by blank lines.
func BlocksToBytes(blocks ...*hclwrite.Block) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, b := range blocks {
		if i > 0 {
			body.AppendNewline()
		}
		body.AppendBlock(b)
	}
	return f.Bytes()
}
