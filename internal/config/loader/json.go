package loader

import (
	"errors"

	"github.com/tidwall/gjson"

	"github.com/dshills/shutter/internal/config/value"
)

var errInvalidJSON = errors.New("invalid JSON")

// JSONLoader loads configuration from JSON files. gjson iterates objects in
// document order.
type JSONLoader struct{}

// NewJSONLoader creates a new JSON loader.
func NewJSONLoader() *JSONLoader {
	return &JSONLoader{}
}

// Parse implements Loader.
func (l *JSONLoader) Parse(source string, data []byte) (value.Value, error) {
	if !gjson.ValidBytes(data) {
		return value.Nil(), &ParseError{Path: source, Message: errInvalidJSON.Error(), Err: errInvalidJSON}
	}
	return jsonValue(gjson.ParseBytes(data)), nil
}

func jsonValue(r gjson.Result) value.Value {
	switch {
	case r.IsObject():
		t := value.NewTable()
		r.ForEach(func(k, v gjson.Result) bool {
			t.Set(k.String(), jsonValue(v))
			return true
		})
		return value.FromTable(t)
	case r.IsArray():
		var items []value.Value
		r.ForEach(func(_, v gjson.Result) bool {
			items = append(items, jsonValue(v))
			return true
		})
		return value.List(items...)
	}

	switch r.Type {
	case gjson.String:
		return value.String(r.Str)
	case gjson.Number:
		return value.Number(r.Num)
	case gjson.True:
		return value.Bool(true)
	case gjson.False:
		return value.Bool(false)
	default:
		return value.Nil()
	}
}
