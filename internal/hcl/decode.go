// Package hcl decodes HCL attribute files into ordered data trees so they can
// serve as merge sources next to JSON and YAML.
package hcl

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/goliatone/go-ymlgen/pkg/data"
)

// Decode parses raw as an HCL body made only of attributes. Attribute order and
// object constructor order are preserved. Blocks, variables and function
// calls are rejected.
func Decode(raw []byte, filename string) (*data.Map, error) {
	file, diags := hclsyntax.ParseConfig(raw, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("hcl: parse %s: %w", filename, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("hcl: %s: %w", filename, diags)
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	out := data.NewMap()
	for _, attr := range ordered {
		value, err := exprToNative(attr.Expr)
		if err != nil {
			return nil, fmt.Errorf("hcl: %s: attribute %q: %w", filename, attr.Name, err)
		}
		out.Set(attr.Name, value)
	}
	return out, nil
}

// exprToNative walks object and tuple constructors so their source order
// survives, then falls back to static evaluation.
func exprToNative(expr hcl.Expression) (any, error) {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		out := data.NewMap()
		for _, item := range e.Items {
			keyVal, diags := item.KeyExpr.Value(nil)
			if diags.HasErrors() {
				return nil, diags
			}
			if keyVal.IsNull() || !keyVal.Type().Equals(cty.String) {
				return nil, fmt.Errorf("object key at %s must be a string", item.KeyExpr.Range())
			}
			value, err := exprToNative(item.ValueExpr)
			if err != nil {
				return nil, err
			}
			out.Set(keyVal.AsString(), value)
		}
		return out, nil
	case *hclsyntax.TupleConsExpr:
		out := make([]any, 0, len(e.Exprs))
		for _, item := range e.Exprs {
			value, err := exprToNative(item)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	}

	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	return ctyToNative(value)
}

// ctyToNative converts an evaluated cty value. Integral numbers become int to
// match what the YAML decoder produces.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		return numberToNative(v.AsBigFloat())
	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return nil, err
		}
		return b, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := data.NewMap()
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			out.Set(key.AsString(), native)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

func numberToNative(f *big.Float) (any, error) {
	if f.IsInt() {
		if i, acc := f.Int64(); acc == big.Exact {
			return int(i), nil
		}
	}
	value, _ := f.Float64()
	return value, nil
}
