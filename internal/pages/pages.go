// Package pages declares the list pages gridctl can show: their columns,
// record schema, card layout and sample data. Each page registers itself
// from an init function.
package pages

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/source/file"
)

//go:embed samples/*.yaml
var samples embed.FS

// Page describes one list page.
type Page struct {
	Name    string
	Aliases []string
	Title   string
	// BasePath prefixes detail links, e.g. "/users".
	BasePath string
	Columns  func() []datagrid.Column
	Schema   datagrid.Schema
	// Paths locates column values inside stored records when a column reads
	// a nested field.
	Paths   map[string]string
	Sorting datagrid.SortState
	// CardTemplate replaces the default grid card when set.
	CardTemplate string
	// Selectable pages get a checkbox column and bulk delete.
	Selectable bool
	sample     string
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Page{}
	aliases    = map[string]string{}
)

// Register adds p to the registry. Registering a name twice panics.
func Register(p Page) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := normalizeName(p.Name)
	if name == "" {
		panic("pages: page name is required")
	}
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("pages: %s registered twice", name))
	}
	if p.sample == "" {
		p.sample = "samples/" + name + ".yaml"
	}
	page := p
	registry[name] = &page
	for _, a := range append([]string{name}, p.Aliases...) {
		aliases[normalizeName(a)] = name
	}
}

// Lookup finds a page by name or alias, ignoring case.
func Lookup(name string) (Page, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	canonical, ok := aliases[normalizeName(name)]
	if !ok {
		return Page{}, false
	}
	return *registry[canonical], true
}

// Names lists the registered page names in order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SampleRecords returns the bundled demo records of the page.
func (p Page) SampleRecords() ([]datagrid.Record, error) {
	data, err := samples.ReadFile(p.sample)
	if err != nil {
		return nil, fmt.Errorf("page %s has no sample data: %w", p.Name, err)
	}
	return file.Decode(bytes.NewReader(data), file.Options{})
}

// FieldSchema returns the page schema, falling back to the columns.
func (p Page) FieldSchema() datagrid.Schema {
	if len(p.Schema) > 0 {
		return p.Schema
	}
	return datagrid.SchemaFromColumns(p.Columns())
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(name)
}
