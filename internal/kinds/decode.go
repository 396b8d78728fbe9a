package kinds

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DecodeArguments decodes args, merged over defaults, into target, which
// must be a pointer to a struct with `cty` tags. Every tagged field is
// required unless it has a default; arguments with no matching field are
// rejected. Null arguments count as absent.
func DecodeArguments(args, defaults map[string]cty.Value, target any) error {
	ty, err := gocty.ImpliedType(target)
	if err != nil {
		return fmt.Errorf("cannot derive argument schema: %w", err)
	}
	if !ty.IsObjectType() {
		return fmt.Errorf("argument schema must be an object, got %s", ty.FriendlyName())
	}
	attrTypes := ty.AttributeTypes()

	merged := make(map[string]cty.Value, len(attrTypes))
	for name, val := range defaults {
		merged[name] = val
	}
	for _, name := range sortedKeys(args) {
		if _, ok := attrTypes[name]; !ok {
			return fmt.Errorf("unsupported argument '%s'", name)
		}
		if val := args[name]; !val.IsNull() {
			merged[name] = val
		}
	}
	for _, name := range sortedKeys(attrTypes) {
		if _, ok := merged[name]; !ok {
			return fmt.Errorf("missing required argument '%s'", name)
		}
	}

	obj, err := convert.Convert(cty.ObjectVal(merged), ty)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", formatPathError(err))
	}
	if err := gocty.FromCtyValue(obj, target); err != nil {
		return fmt.Errorf("invalid arguments: %w", formatPathError(err))
	}
	return nil
}

// formatPathError prefixes a cty path error with the argument it refers to.
func formatPathError(err error) error {
	pathErr, ok := err.(cty.PathError)
	if !ok || len(pathErr.Path) == 0 {
		return err
	}
	if step, ok := pathErr.Path[0].(cty.GetAttrStep); ok {
		return fmt.Errorf("argument '%s': %w", step.Name, err)
	}
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
