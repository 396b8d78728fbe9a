package yaml

import (
	"fmt"
	"sort"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// ToCtyMap converts a generically decoded YAML mapping into cty values.
func ToCtyMap(m map[string]any) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value, len(m))
	for k, v := range m {
		val, err := ToCtyValue(v)
		if err != nil {
			return nil, fmt.Errorf("argument '%s': %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

// ToCtyValue converts a value produced by yaml.v3 decoding into `any`.
// Sequences become tuples and mappings become objects, mirroring what an
// HCL literal of the same shape evaluates to.
func ToCtyValue(v any) (cty.Value, error) {
	switch v := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case uint64:
		return cty.NumberUIntVal(v), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	case time.Time:
		return cty.StringVal(v.Format(time.RFC3339Nano)), nil
	case []any:
		if len(v) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(v))
		for i, e := range v {
			val, err := ToCtyValue(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = val
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(v) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs, err := ToCtyMap(v)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.ObjectVal(attrs), nil
	case map[any]any:
		keys := make([]string, 0, len(v))
		conv := make(map[string]any, len(v))
		for k, e := range v {
			ks := fmt.Sprint(k)
			keys = append(keys, ks)
			conv[ks] = e
		}
		sort.Strings(keys)
		for i := 1; i < len(keys); i++ {
			if keys[i] == keys[i-1] {
				return cty.NilVal, fmt.Errorf("duplicate key '%s' after conversion to string", keys[i])
			}
		}
		return ToCtyValue(conv)
	default:
		return cty.NilVal, fmt.Errorf("unsupported YAML value of type %T", v)
	}
}
