package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/qforge/qforge/internal/models"
	"github.com/qforge/qforge/internal/utils"
)

// Defaults for the single required input (the scan root) and the
// tunables around it.
const (
	DefaultRoot     = "src/api"
	DefaultExt      = ".ts"
	DefaultDebounce = 75 * time.Millisecond

	envPrefix      = "QFORGE"
	configFileStem = "qforge"
)

// Config holds the resolved runtime configuration.
type Config struct {
	Root     string        // directory tree to scan
	Ext      string        // source extension, including the dot
	Debounce time.Duration // settle window before a scheduled pass runs
	Verbose  bool
	Quiet    bool
}

// Load resolves configuration with flag > environment > config file >
// default precedence. The config file (qforge.yaml in the working
// directory) is optional.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("root", DefaultRoot)
	v.SetDefault("ext", DefaultExt)
	v.SetDefault("debounce", DefaultDebounce)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetConfigName(configFileStem)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Root:     v.GetString("root"),
		Ext:      v.GetString("ext"),
		Debounce: v.GetDuration("debounce"),
		Verbose:  v.GetBool("verbose"),
		Quiet:    v.GetBool("quiet"),
	}
	if !strings.HasPrefix(cfg.Ext, ".") {
		cfg.Ext = "." + cfg.Ext
	}
	if cfg.Root == "" {
		return nil, errors.New("root directory must not be empty")
	}
	return cfg, nil
}

// Layout resolves the generated-file layout for this configuration.
func (c *Config) Layout() (models.Layout, error) {
	return models.NewLayout(c.Root, c.Ext)
}

// Diagnostics builds the diagnostic system matching the verbosity flags.
func (c *Config) Diagnostics() *utils.DiagnosticSystem {
	switch {
	case c.Quiet:
		return utils.NewQuietDiagnostics()
	case c.Verbose:
		return utils.NewVerboseDiagnostics()
	default:
		return utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
}
