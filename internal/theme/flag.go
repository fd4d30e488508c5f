package theme

import "fmt"

// Flag is a pflag.Value accepting registered theme ids.
type Flag struct {
	value string
}

// NewFlag returns a Flag defaulting to defaultValue, or DefaultName when that
// theme does not exist.
func NewFlag(defaultValue string) *Flag {
	name := canonicalName(defaultValue)
	if !Exists(name) {
		name = DefaultName
	}
	return &Flag{value: name}
}

func (f *Flag) String() string {
	if f == nil {
		return DefaultName
	}
	return f.value
}

func (f *Flag) Set(v string) error {
	name := canonicalName(v)
	if name == "" {
		name = DefaultName
	}
	if !Exists(name) {
		return fmt.Errorf("invalid color theme %q", v)
	}
	f.value = name
	return nil
}

func (f *Flag) Type() string {
	return "string"
}

// Value returns the selected theme id.
func (f *Flag) Value() string {
	return f.String()
}
