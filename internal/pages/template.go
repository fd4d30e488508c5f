package pages

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/util"
)

// TemplateCard compiles a text/template into a card renderer. Templates see
// the record fields directly plus the sprig function set, and two helpers:
// "short" abbreviates UUIDs and "field" reads a dotted path.
//
//	{{ .name | upper }}
//	{{ field "actor.email" }} · {{ .event_date | default "unknown" }}
func TemplateCard(name, text string) (datagrid.CardRenderer, error) {
	funcs := sprig.TxtFuncMap()
	funcs["short"] = func(v any) string {
		s := datagrid.Stringify(v)
		if util.IsValidUUID(s) {
			return util.AbbreviateUUID(s)
		}
		return s
	}
	funcs["field"] = fieldFunc(nil)

	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse card template %s: %w", name, err)
	}

	return func(row datagrid.Row) string {
		t, err := tmpl.Clone()
		if err != nil {
			return "template error: " + err.Error()
		}
		t.Funcs(template.FuncMap{"field": fieldFunc(row)})

		var data any = row
		if rec, ok := row.(datagrid.Record); ok {
			data = map[string]any(rec)
		}
		var sb strings.Builder
		if err := t.Execute(&sb, data); err != nil {
			return "template error: " + err.Error()
		}
		return strings.TrimRight(sb.String(), "\n")
	}, nil
}

func fieldFunc(row datagrid.Row) func(string) (any, error) {
	return func(path string) (any, error) {
		get, err := datagrid.PathAccessor(path)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}
		return get(row), nil
	}
}
