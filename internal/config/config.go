package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"

	"github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/meta"
	"github.com/kong/gridctl/internal/util/viper"
)

var defaultConfigFileName = "config.yaml"

// GetDefaultConfigPath returns $XDG_CONFIG_HOME/gridctl, falling back to
// ~/.config/gridctl.
func GetDefaultConfigPath() (string, error) {
	val, set := os.LookupEnv("XDG_CONFIG_HOME")
	if !set || val == "" {
		var err error
		val, err = os.UserHomeDir()
		if err != nil {
			return "", err
		}
		val = filepath.Join(val, ".config")
	}
	val = filepath.Join(val, meta.CLIName)
	return os.ExpandEnv(val), nil
}

func GetDefaultConfigFilePath() (string, error) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(path, defaultConfigFileName), nil
}

// ExpandDefaultConfigFilePath is GetDefaultConfigFilePath for flag defaults,
// where an error cannot be returned. It falls back to a relative path.
func ExpandDefaultConfigFilePath() string {
	path, err := GetDefaultConfigFilePath()
	if err != nil {
		return filepath.Join("."+meta.CLIName, defaultConfigFileName)
	}
	return path
}

// GetConfig loads the configuration file at path for profile. An existing
// file is read strictly. A missing file is only created when it is the
// default location; any other missing path is an error.
func GetConfig(path string, profile string, defaultConfigFilePath string) (*ProfiledConfig, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); err == nil {
		vip, err := viper.NewViperE(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return BuildProfiledConfig(profile, path, vip), nil
	}

	if path != defaultConfigFilePath {
		return nil, fmt.Errorf("the provided config file path %q does not exist", path)
	}

	vip, err := viper.InitializeDefaultViper(getDefaultConfig(profile, path), path)
	if err != nil {
		return nil, fmt.Errorf("initialize config %s: %w", path, err)
	}
	return BuildProfiledConfig(profile, path, vip), nil
}

// Empty type to represent the _type_ Config. Genesis is to support a key in a Context
type Key struct{}

// Config is a global instance of the Key type
var ConfigKey = Key{}

// Hook is the profile scoped view of the configuration handed to commands.
type Hook interface {
	// Save writes the configuration to the file system
	Save() error
	// GetString returns a string value from the configuration
	GetString(key string) string
	// GetBool returns a boolean value from the configuration
	GetBool(key string) bool
	// GetInt returns an integer value from the configuration
	GetInt(key string) int
	// GetIntOrElse returns an integer value from the configuration or a default
	GetIntOrElse(key string, orElse int) int
	// GetDuration returns a duration value from the configuration
	GetDuration(key string) time.Duration
	// IsSet reports whether a key has a value from any source
	IsSet(key string) bool
	// GetStringSlice returns a slice of strings from the configuration
	GetStringSlice(key string) []string
	// SetString sets an override for a given string
	SetString(key string, value string)
	// Set sets an override for a given key
	Set(k string, v any)
	// Get returns a value from the configuration
	Get(key string) any
	// BindFlag takes a specific configuration path and
	// binds it to a specific flag
	BindFlag(configPath string, f *pflag.Flag) error
	// The profile for this configuration
	GetProfile() string
	// The file path used to load this configuration
	GetPath() string
}

// ProfiledConfig is a Viper but with an associated profile ProfileName
//
//	allows for extraction of the profile specific sub-configuration
//	and implements the Hook interface for more restricted interactions
//	with the configuration system
type ProfiledConfig struct {
	*v.Viper
	subViper    *v.Viper
	ProfileName string
	Path        string
}

func (p *ProfiledConfig) GetProfile() string {
	return p.ProfileName
}

func (p *ProfiledConfig) Save() error {
	return p.WriteConfig()
}

func (p *ProfiledConfig) GetString(key string) string {
	return p.subViper.GetString(key)
}

func (p *ProfiledConfig) GetBool(key string) bool {
	return p.subViper.GetBool(key)
}

func (p *ProfiledConfig) GetInt(key string) int {
	return p.subViper.GetInt(key)
}

func (p *ProfiledConfig) GetIntOrElse(key string, orElse int) int {
	if p.subViper.IsSet(key) {
		return p.subViper.GetInt(key)
	}
	return orElse
}

func (p *ProfiledConfig) GetDuration(key string) time.Duration {
	return p.subViper.GetDuration(key)
}

func (p *ProfiledConfig) IsSet(key string) bool {
	return p.subViper.IsSet(key)
}

func (p *ProfiledConfig) Get(key string) any {
	return p.subViper.Get(key)
}

func (p *ProfiledConfig) GetStringSlice(key string) []string {
	return p.subViper.GetStringSlice(key)
}

func (p *ProfiledConfig) BindFlag(configPath string, f *pflag.Flag) error {
	return p.subViper.BindPFlag(configPath, f)
}

func (p *ProfiledConfig) SetString(k string, v string) {
	p.subViper.Set(k, v)
}

func (p *ProfiledConfig) Set(k string, v any) {
	p.subViper.Set(k, v)
}

func (p *ProfiledConfig) GetPath() string {
	return p.Path
}

func BuildProfiledConfig(profile string, path string, mainv *v.Viper) *ProfiledConfig {
	subv := mainv.Sub(profile)
	if subv == nil {
		// in this case the main viper is valid, but there is no
		// key or data under the key for this profile name
		subv = v.New()
		// Configure environment variable handling for the new sub-Viper
		// so it can still read profile-specific environment variables
		// even when the profile doesn't exist in the config file
		envPrefix := viper.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(profile, "-", "_"))
		viper.ConfigureEnvVars(subv, envPrefix)
	}

	rv := &ProfiledConfig{
		Viper:       mainv,
		ProfileName: profile,
		subViper:    subv,
		Path:        path,
	}
	return rv
}

func getDefaultConfig(profileName, configFilePath string) map[string]any {
	configDir := filepath.Dir(configFilePath)
	defaultLogFileName := meta.CLIName + ".log"
	defaultLogPath := filepath.Join(configDir, "logs", defaultLogFileName)

	return map[string]any{
		profileName: map[string]any{
			common.OutputConfigPath:     common.DefaultOutputFormat,
			common.LogLevelConfigPath:   common.DefaultLogLevel,
			common.LogFileConfigPath:    defaultLogPath,
			common.ColorThemeConfigPath: common.DefaultColorTheme,
			"table": map[string]any{
				common.PageSizeFlagName: 10,
				common.ViewFlagName:     common.DefaultTableView,
				common.RemoteFlagName:   false,
				common.DebounceFlagName: common.DefaultDebounce,
			},
			"data": map[string]any{
				"dir": filepath.Join(configDir, "data"),
			},
			"store": map[string]any{
				"path": filepath.Join(configDir, meta.CLIName+".db"),
			},
		},
	}
}
