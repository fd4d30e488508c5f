package profile

import (
	"sort"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultProfile = "default"
)

// Manager reads the profiles defined in the configuration file. Each profile
// is a top level key holding its own settings.
type Manager interface {
	GetProfiles() []string
}

type profileManager struct {
	config *viper.Viper
}

// Empty type to represent the _type_ Manager. Genesis is to support a key in a Context
type Key struct{}

// Global instance of the ProfileManagerKey type
var ProfileManagerKey = Key{}

// GetProfiles returns the sorted top level keys of the configuration.
func (v *profileManager) GetProfiles() []string {
	keyMap := make(map[string]bool)
	for _, key := range v.config.AllKeys() {
		keyMap[strings.Split(key, ".")[0]] = true
	}

	names := make([]string, 0, len(keyMap))
	for key := range keyMap {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

func NewManager(config *viper.Viper) Manager {
	return &profileManager{
		config: config,
	}
}
