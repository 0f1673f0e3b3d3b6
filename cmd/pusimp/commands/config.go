package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	pusimp "github.com/python-pusimp/go-pusimp"
)

// configName is the config file name without extension.
const configName = ".pusimp"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for pusimp settings.
const envPrefix = "PUSIMP"

// Defaults applied before the config file, env vars and flags.
const (
	DefaultLogLevel = "warn"
	DefaultTimeout  = 30 * time.Second
)

// Config holds the settings of the check command.
type Config struct {
	// Python is the interpreter used to import dependencies.
	Python string `mapstructure:"python"`

	// SearchPath lists module directories, highest priority first.
	// When set, modules are located on disk instead of imported.
	SearchPath []string `mapstructure:"search_path"`

	// Pip is the command quoted in remediation hints.
	Pip string `mapstructure:"pip"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// Timeout bounds each interpreter import.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Validate checks the loaded settings.
func (c *Config) Validate() error {
	if c.Python != "" && len(c.SearchPath) > 0 {
		return errors.New("python and search_path are mutually exclusive")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Pip) == "" {
		return errors.New("pip must not be empty")
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Resolver builds the resolver selected by the settings, wrapped in an
// ImportCache so that every module is imported at most once per run.
func (c *Config) Resolver() pusimp.Resolver {
	if len(c.SearchPath) > 0 {
		return pusimp.NewImportCache(pusimp.NewSearchPathResolver(c.SearchPath...))
	}
	return pusimp.NewImportCache(pusimp.NewInterpreterResolver(c.Python, pusimp.WithInterpreterTimeout(c.Timeout)))
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"python":      "python",
	"search-path": "search_path",
	"pip":         "pip",
	"log-level":   "log_level",
	"timeout":     "timeout",
}

// LoadConfig loads configuration from file, env vars, flags and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
// Flags that were set on the command line take precedence over everything else.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viperCfg.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := viperCfg.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("python", "")
	viperCfg.SetDefault("search_path", []string{})
	viperCfg.SetDefault("pip", pusimp.DefaultPipCommand)
	viperCfg.SetDefault("log_level", DefaultLogLevel)
	viperCfg.SetDefault("timeout", DefaultTimeout)
}
