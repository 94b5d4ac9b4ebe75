package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dshills/shutter/internal/config/value"
)

// YAMLLoader loads configuration from YAML files via the node API, which
// preserves mapping order.
type YAMLLoader struct{}

// NewYAMLLoader creates a new YAML loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Parse implements Loader. An empty document yields Nil.
func (l *YAMLLoader) Parse(source string, data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return value.Nil(), &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	if doc.Kind == 0 {
		return value.Nil(), nil
	}

	v, err := yamlValue(&doc)
	if err != nil {
		return value.Nil(), &ParseError{Path: source, Line: doc.Line, Message: err.Error(), Err: err}
	}
	return v, nil
}

func yamlValue(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Nil(), nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		t := value.NewTable()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return value.Nil(), fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			v, err := yamlValue(val)
			if err != nil {
				return value.Nil(), err
			}
			t.Set(key.Value, v)
		}
		return value.FromTable(t), nil
	case yaml.SequenceNode:
		items := make([]value.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return value.Nil(), err
			}
			items = append(items, v)
		}
		return value.List(items...), nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return value.Nil(), fmt.Errorf("line %d: unsupported node", n.Line)
	}
}

func yamlScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Nil(), err
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Nil(), err
		}
		return value.Number(f), nil
	case "!!null":
		return value.Nil(), nil
	default:
		return value.String(n.Value), nil
	}
}
