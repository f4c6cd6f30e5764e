package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pal-labs/pal/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyTemplate      = "template"
	KeyTemplatesDir  = "templates_dir"
	KeyAuthor        = "author"
	KeyContactEmail  = "contact_email"
	KeySecurityEmail = "security_email"
	KeySetupCommand  = "setup_command"
)

// Keys lists every key understood by the CLI, in display order.
var Keys = []string{
	KeyTemplate,
	KeyTemplatesDir,
	KeyAuthor,
	KeyContactEmail,
	KeySecurityEmail,
	KeySetupCommand,
}

// Dir returns the config directory. PAL_CONFIG_DIR overrides the default
// of ~/.pal/.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("CONFIG_DIR")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.pal/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	viper.SetDefault(KeyTemplate, branding.DefaultTemplate())

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Lookup returns the value for key and whether it was set at all, either in
// the config file or in the environment. Defaults do not count as set.
func Lookup(key string) (string, bool) {
	if !viper.InConfig(key) && os.Getenv(branding.EnvVar(key)) == "" {
		return "", false
	}
	return viper.GetString(key), true
}

// GetCommand returns a command line stored under key. Both a YAML list and a
// single space-separated string are accepted.
func GetCommand(key string) []string {
	return viper.GetStringSlice(key)
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
