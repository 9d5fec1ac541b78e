package am

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/kin/errors"
)

// Config file names and locations
const (
	EnvPrefix         = "KIN"
	SystemConfigPath  = "/etc/kin/config.toml"
	UserConfigDir     = ".kin"
	UserConfigName    = "am.toml"
	ProjectConfigName = "kin.toml"
)

var (
	mu            sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper

	// ConfigSources records which file each key was last set from during Load
	ConfigSources = map[string]SourceInfo{}
)

// Load reads the kin configuration using Viper
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	mu.Lock()
	defer mu.Unlock()
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Defaults only; the environment is not consulted for an explicit file
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}

	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults.
// Callers hold mu.
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)

	// Precedence (lowest to highest): system < user < project < env vars
	for _, cf := range configFiles() {
		mergeConfigFile(v, cf)
	}

	viperInstance = v
	return v
}

type configFile struct {
	path   string
	source ConfigSource
}

// configFiles lists candidate files from lowest to highest precedence
func configFiles() []configFile {
	files := []configFile{{SystemConfigPath, SourceSystem}}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, configFile{filepath.Join(home, UserConfigDir, UserConfigName), SourceUser})
	}
	if project := findProjectConfig(); project != "" {
		files = append(files, configFile{project, SourceProject})
	}
	return files
}

// UserConfigPath returns ~/.kin/am.toml, or "" without a home directory
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigName)
}

// ActiveConfigPath returns the highest-precedence config file that exists,
// or "" when only defaults and environment apply
func ActiveConfigPath() string {
	files := configFiles()
	for i := len(files) - 1; i >= 0; i-- {
		if _, err := os.Stat(files[i].path); err == nil {
			return files[i].path
		}
	}
	return ""
}

// findProjectConfig searches for kin.toml by walking up the directory tree
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// mergeConfigFile merges one TOML file into v, if it exists and parses
func mergeConfigFile(v *viper.Viper, cf configFile) {
	if _, err := os.Stat(cf.path); err != nil {
		return
	}

	tempViper := viper.New()
	tempViper.SetConfigFile(cf.path)
	tempViper.SetConfigType("toml")
	if err := tempViper.ReadInConfig(); err != nil {
		return
	}

	for _, key := range tempViper.AllKeys() {
		v.Set(key, tempViper.Get(key))
		ConfigSources[key] = SourceInfo{Source: cf.source, Path: cf.path}
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return GetViper().Get(key)
}

// GetString returns a configuration value as string using dot notation
func GetString(key string) string {
	return GetViper().GetString(key)
}

// GetInt returns a configuration value as int using dot notation
func GetInt(key string) int {
	return GetViper().GetInt(key)
}
