package theme

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type registry struct {
	mu       sync.RWMutex
	palettes map[string]Palette
	current  string
	// explicit is set when the user picked the theme.
	explicit bool
}

var reg = newRegistry(builtinPalettes())

func newRegistry(list []Palette) *registry {
	r := &registry{palettes: make(map[string]Palette, len(list)), current: DefaultName}
	for _, p := range list {
		p.Name = canonicalName(p.Name)
		if p.Name == "" {
			continue
		}
		if p.DisplayName == "" {
			p.DisplayName = p.Name
		}
		if p.Colors == nil {
			p.Colors = map[Token]Color{}
		}
		r.palettes[p.Name] = p
	}
	return r
}

func (r *registry) get(name string) (Palette, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.palettes[canonicalName(name)]
	return p, ok
}

func fallback(token Token) Color {
	if c, ok := reg.palettes[DefaultName].Colors[token]; ok {
		return c.filled()
	}
	return Color{Light: "#FFFFFF", Dark: "#000000"}
}

// canonicalName lowercases name and maps LegacyName to DefaultName.
func canonicalName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == LegacyName {
		return DefaultName
	}
	return name
}

// Available returns the sorted theme ids.
func Available() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := make([]string, 0, len(reg.palettes))
	for id := range reg.palettes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Exists reports whether name is a registered theme.
func Exists(name string) bool {
	_, ok := reg.get(name)
	return ok
}

// Get returns the palette called name.
func Get(name string) (Palette, bool) {
	return reg.get(name)
}

// SetCurrent activates a theme. An empty name selects DefaultName.
func SetCurrent(name string) error {
	name = canonicalName(name)
	if name == "" {
		name = DefaultName
	}
	if !Exists(name) {
		return fmt.Errorf("unknown color theme %q", name)
	}
	reg.mu.Lock()
	reg.current = name
	reg.mu.Unlock()
	return nil
}

// SetConfiguredExplicitly records whether the user chose the active theme
// through config, environment or flag.
func SetConfiguredExplicitly(v bool) {
	reg.mu.Lock()
	reg.explicit = v
	reg.mu.Unlock()
}

// IsConfiguredExplicitly reports whether the user chose the active theme.
func IsConfiguredExplicitly() bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.explicit
}

// Current returns the active palette.
func Current() Palette {
	p, _ := reg.get(CurrentName())
	return p
}

// CurrentName returns the active theme id.
func CurrentName() string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.current
}
