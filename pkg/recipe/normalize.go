package recipe

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/recipegen/pkg/errors"
)

// Placeholder replaces every collapsed brace region.
const Placeholder = "PLACEHOLDER"

// BraceMode selects how far a collapsed brace region reaches.
type BraceMode string

const (
	// BraceLine collapses from the first "{" to the last "}" of each line.
	BraceLine BraceMode = "line"
	// BraceDocument collapses from the first "{" to the last "}" of the text.
	BraceDocument BraceMode = "document"
)

var (
	lineBraceRE     = regexp.MustCompile(`{.*}`)
	documentBraceRE = regexp.MustCompile(`(?s){.*}`)
)

// Normalize neutralizes Jinja2 syntax in text and parses the result as YAML.
// Mappings become map[string]any, sequences []any, and scalars their
// natural Go type. An empty document yields nil. An unknown mode behaves
// like [BraceLine].
//
// Recipes repeat keys under platform selectors ("# [win]"), so a repeated
// mapping key keeps its last value instead of failing the parse. Merge keys
// ("<<: *anchor") are resolved, with explicit keys taking precedence.
func Normalize(text string, mode BraceMode) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(Neutralize(text, mode)), &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse meta.yaml")
	}
	tree, err := fromNode(&doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse meta.yaml")
	}
	return tree, nil
}

// Neutralize applies the text rewrites of [Normalize] without parsing.
func Neutralize(text string, mode BraceMode) string {
	text = strings.ReplaceAll(text, "{%", "# {%")
	re := lineBraceRE
	if mode == BraceDocument {
		re = documentBraceRE
	}
	return re.ReplaceAllLiteralString(text, Placeholder)
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.SequenceNode:
		seq := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		// Merged entries first, so explicit keys override them.
		for i := 0; i+1 < len(n.Content); i += 2 {
			if isMergeKey(n.Content[i]) {
				if err := merge(m, n.Content[i+1]); err != nil {
					return nil, err
				}
			}
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if isMergeKey(n.Content[i]) {
				continue
			}
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[n.Content[i].Value] = v
		}
		return m, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!merge"
}

// merge copies the entries of a "<<" value into m without overwriting keys
// already present. The value is a mapping or a sequence of mappings; in a
// sequence, earlier mappings take precedence.
func merge(m map[string]any, n *yaml.Node) error {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		v, err := fromNode(n)
		if err != nil {
			return err
		}
		for k, val := range v.(map[string]any) {
			if _, ok := m[k]; !ok {
				m[k] = val
			}
		}
		return nil
	case yaml.SequenceNode:
		for _, c := range n.Content {
			if c.Kind == yaml.AliasNode {
				c = c.Alias
			}
			if c.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: merge sequence entries must be mappings", c.Line)
			}
			if err := merge(m, c); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("line %d: merge value must be a mapping", n.Line)
	}
}
