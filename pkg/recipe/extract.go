package recipe

import (
	"github.com/matzehuels/recipegen/pkg/errors"
)

// VariantSelector returns the part of a recipe tree whose "test" section
// applies to a package that builds several outputs.
type VariantSelector func(root map[string]any) (map[string]any, error)

// Variants maps reserved package names to their selector. Packages not
// listed here use the recipe's top-level test section.
var Variants = map[string]VariantSelector{
	"tensorflow": OutputNamed("tensorflow-base"),
}

// OutputNamed selects the single entry of the recipe's "outputs" list whose
// name is name. Zero or several matches is an [errors.ErrCodeShape] error.
func OutputNamed(name string) VariantSelector {
	return func(root map[string]any) (map[string]any, error) {
		outputs, ok := root["outputs"].([]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeShape, "no outputs list (got %T)", root["outputs"])
		}

		var found []map[string]any
		for i, o := range outputs {
			out, ok := o.(map[string]any)
			if !ok {
				return nil, errors.New(errors.ErrCodeShape, "outputs[%d] is not a mapping (got %T)", i, o)
			}
			if n, _ := out["name"].(string); n == name {
				found = append(found, out)
			}
		}
		if len(found) != 1 {
			return nil, errors.New(errors.ErrCodeShape, "want exactly one output named %q, found %d", name, len(found))
		}
		return found[0], nil
	}
}

// Extract returns the test fragments declared for pkg in a tree produced by
// [Normalize].
//
// A tree that is not a mapping, or has no mapping under "test", is an
// [errors.ErrCodeShape] error. A kind whose value is present and non-empty
// but not a list of strings is an [errors.ErrCodeContract] error.
func Extract(pkg string, tree any) (Fragments, error) {
	root, ok := tree.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeShape, "meta.yaml is not a mapping (got %T)", tree)
	}

	scope := root
	if sel, ok := Variants[pkg]; ok {
		var err error
		if scope, err = sel(root); err != nil {
			return nil, err
		}
	}

	raw, ok := scope["test"]
	if !ok {
		return nil, errors.New(errors.ErrCodeShape, "no test section")
	}
	test, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeShape, "test section is not a mapping (got %T)", raw)
	}

	frags := make(Fragments)
	for _, k := range Kinds {
		v, ok := test[string(k)]
		if !ok || isEmpty(v) {
			continue
		}
		lines, err := stringList(k, v)
		if err != nil {
			return nil, err
		}
		frags[k] = lines
	}
	return frags, nil
}

func stringList(k Kind, v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeContract, "test.%s must be a list of strings, got %T", k, v)
	}
	lines := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeContract, "test.%s[%d] must be a string, got %T", k, i, item)
		}
		lines = append(lines, s)
	}
	return lines, nil
}

// isEmpty mirrors YAML falsiness: null, false, zero, "" and empty collections.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case int:
		return x == 0
	case float64:
		return x == 0
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}
