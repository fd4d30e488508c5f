// Package file loads page records from JSON or YAML files and watches them
// for changes.
package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	jqoutput "github.com/kong/gridctl/internal/cmd/output/jq"
	"github.com/kong/gridctl/internal/datagrid"
)

// Options controls how records are extracted from a document.
type Options struct {
	// Select is a jq expression run against each document. Every object it
	// yields becomes a record; arrays are flattened one level.
	Select string
}

// Load reads the records stored at path.
func Load(path string, opts Options) ([]datagrid.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	records, err := Decode(bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return records, nil
}

// Decode reads a JSON or YAML stream. YAML streams may hold several
// documents. A document is either a list of objects, a single object, or an
// object whose "data" or "items" field holds the list.
func Decode(r io.Reader, opts Options) ([]datagrid.Record, error) {
	dec := yaml.NewDecoder(r)
	var out []datagrid.Record
	for i := 0; ; i++ {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if doc == nil {
			continue
		}

		doc, err = normalize(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}

		var items []any
		if expr := strings.TrimSpace(opts.Select); expr != "" {
			items, err = jqoutput.Select(doc, expr)
			if err != nil {
				return nil, fmt.Errorf("document %d: %w", i, err)
			}
			items = flatten(items)
		} else {
			items = unwrap(doc)
		}

		for j, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("document %d: item %d is %T, not an object", i, j, item)
			}
			out = append(out, datagrid.Record(obj))
		}
	}
	return out, nil
}

// Rows wraps records as engine rows.
func Rows(records []datagrid.Record) []datagrid.Row {
	rows := make([]datagrid.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, r)
	}
	return rows
}

// normalize round-trips a decoded YAML value through JSON so records read
// from files look the same as records read back from the store: numbers are
// float64 and nested maps are map[string]any.
func normalize(doc any) (any, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

func unwrap(doc any) []any {
	switch v := doc.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range []string{"data", "items"} {
			if list, ok := v[key].([]any); ok {
				return list
			}
		}
		return []any{v}
	default:
		return []any{v}
	}
}

func flatten(results []any) []any {
	out := make([]any, 0, len(results))
	for _, r := range results {
		if list, ok := r.([]any); ok {
			out = append(out, list...)
			continue
		}
		out = append(out, r)
	}
	return out
}
