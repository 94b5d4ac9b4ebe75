package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/dshills/shutter/internal/config/value"
)

// TOMLLoader loads configuration from TOML files.
//
// It walks the document with the go-toml expression parser instead of
// unmarshaling into a map, which keeps keys in document order.
type TOMLLoader struct{}

// NewTOMLLoader creates a new TOML loader.
func NewTOMLLoader() *TOMLLoader {
	return &TOMLLoader{}
}

// Parse implements Loader.
func (l *TOMLLoader) Parse(source string, data []byte) (value.Value, error) {
	root := value.NewTable()
	current := root

	p := unstable.Parser{}
	p.Reset(data)
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table:
			t, err := descend(root, keyParts(expr.Key()))
			if err != nil {
				return value.Nil(), tomlError(source, err)
			}
			current = t
		case unstable.ArrayTable:
			return value.Nil(), tomlError(source, fmt.Errorf("array of tables [[%s]] is not supported", strings.Join(keyParts(expr.Key()), ".")))
		case unstable.KeyValue:
			if err := setKeyValue(current, expr); err != nil {
				return value.Nil(), tomlError(source, err)
			}
		}
	}
	if err := p.Error(); err != nil {
		return value.Nil(), tomlError(source, err)
	}

	return value.FromTable(root), nil
}

func tomlError(source string, err error) error {
	return &ParseError{Path: source, Message: err.Error(), Err: err}
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

// descend walks parts from t, creating missing tables.
func descend(t *value.Table, parts []string) (*value.Table, error) {
	cur := t
	for _, part := range parts {
		v, ok := cur.Get(part)
		if !ok {
			next := value.NewTable()
			cur.Set(part, value.FromTable(next))
			cur = next
			continue
		}
		next, ok := v.AsTable()
		if !ok {
			return nil, fmt.Errorf("key %q is already defined as %s", part, v.Kind())
		}
		cur = next
	}
	return cur, nil
}

func setKeyValue(t *value.Table, kv *unstable.Node) error {
	parts := keyParts(kv.Key())
	if len(parts) == 0 {
		return fmt.Errorf("empty key")
	}
	parent, err := descend(t, parts[:len(parts)-1])
	if err != nil {
		return err
	}
	v, err := tomlValue(kv.Value())
	if err != nil {
		return fmt.Errorf("%s: %w", strings.Join(parts, "."), err)
	}
	parent.Set(parts[len(parts)-1], v)
	return nil
}

func tomlValue(n *unstable.Node) (value.Value, error) {
	switch n.Kind {
	case unstable.String:
		return value.String(string(n.Data)), nil
	case unstable.Bool:
		return value.Bool(string(n.Data) == "true"), nil
	case unstable.Integer:
		i, err := strconv.ParseInt(string(n.Data), 0, 64)
		if err != nil {
			return value.Nil(), err
		}
		return value.Number(float64(i)), nil
	case unstable.Float:
		f, err := strconv.ParseFloat(strings.ReplaceAll(string(n.Data), "_", ""), 64)
		if err != nil {
			return value.Nil(), err
		}
		return value.Number(f), nil
	case unstable.Array:
		var items []value.Value
		it := n.Children()
		for it.Next() {
			v, err := tomlValue(it.Node())
			if err != nil {
				return value.Nil(), err
			}
			items = append(items, v)
		}
		return value.List(items...), nil
	case unstable.InlineTable:
		t := value.NewTable()
		it := n.Children()
		for it.Next() {
			if err := setKeyValue(t, it.Node()); err != nil {
				return value.Nil(), err
			}
		}
		return value.FromTable(t), nil
	default:
		// dates and times are passed through verbatim
		return value.String(string(n.Data)), nil
	}
}
