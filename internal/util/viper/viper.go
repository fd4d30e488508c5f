package viper

import (
	"strings"

	v "github.com/spf13/viper"

	"github.com/kong/gridctl/internal/meta"
	"github.com/kong/gridctl/internal/util"
)

// EnvPrefix is prepended to every environment override, e.g. GRIDCTL_OUTPUT.
var EnvPrefix = strings.ToUpper(meta.CLIName)

// InitializeDefaultViper loads path, creating it with defaultValues when it
// is missing or empty.
func InitializeDefaultViper(defaultValues map[string]any, path string) (*v.Viper, error) {
	if err := util.InitDir(path, 0o755); err != nil {
		return nil, err
	}

	rv := NewViper(path)
	if len(rv.AllSettings()) > 0 {
		return rv, nil
	}

	if err := rv.MergeConfigMap(defaultValues); err != nil {
		return nil, err
	}
	if err := rv.WriteConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

// NewViperE reads path strictly and fails when it cannot be parsed.
func NewViperE(path string) (*v.Viper, error) {
	rv := newViper(path)
	if err := rv.ReadInConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

// NewViper reads path when it exists and otherwise starts empty.
func NewViper(path string) *v.Viper {
	rv := newViper(path)
	_ = rv.ReadInConfig()
	return rv
}

func newViper(path string) *v.Viper {
	rv := v.New()
	rv.SetConfigFile(path)
	ConfigureEnvVars(rv, EnvPrefix)
	return rv
}

// ConfigureEnvVars makes rv honor PREFIX_SOME_KEY for "some.key" and
// "some-key".
func ConfigureEnvVars(rv *v.Viper, prefix string) {
	rv.SetEnvPrefix(prefix)
	rv.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	rv.AutomaticEnv()
}
