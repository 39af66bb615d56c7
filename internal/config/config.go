// Package config loads wsgen's own tool configuration. Sources are merged
// with increasing precedence: built-in defaults, the user file
// (~/.config/wsgen/config.toml), the target file (<target>/.wsgen.toml),
// WSGEN_* environment variables and finally explicitly set flags.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/paths"
)

// File names.
const (
	UserFileName   = "config.toml"
	TargetFileName = ".wsgen.toml"
	EnvPrefix      = "WSGEN"
)

// Config is the resolved tool configuration.
type Config struct {
	Parallelism int           `mapstructure:"parallelism"`
	StateDir    string        `mapstructure:"state_dir"`
	Install     InstallConfig `mapstructure:"install"`
	Log         LogConfig     `mapstructure:"log"`
	Lock        LockConfig    `mapstructure:"lock"`

	// Sources lists the config files that were merged, lowest precedence first.
	Sources []string `mapstructure:"-"`
}

// InstallConfig controls the post-generation install.
type InstallConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Command maps a runtime to its install command line.
	Command map[string]string `mapstructure:"command"`
}

// LogConfig controls logging.
type LogConfig struct {
	JSON bool `mapstructure:"json"`
}

// LockConfig controls the target lock.
type LockConfig struct {
	StaleAfter time.Duration `mapstructure:"stale_after"`
}

// InstallCommand returns the configured install command for rt, or "" for
// the package manager's default.
func (c *Config) InstallCommand(rt choices.Runtime) string {
	return c.Install.Command[string(rt)]
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("parallelism", 4)
	v.SetDefault("state_dir", ".wsgen")
	v.SetDefault("install.enabled", true)
	v.SetDefault("install.command.node", "pnpm install")
	v.SetDefault("install.command.bun", "bun install")
	v.SetDefault("install.command.deno", "deno install")
	v.SetDefault("log.json", false)
	v.SetDefault("lock.stale_after", "2h")
}

// FlagBindings maps config keys to the CLI flags that override them.
var FlagBindings = map[string]string{
	"parallelism": "parallel",
	"state_dir":   "state-dir",
	"log.json":    "log-json",
}

// Options locates the configuration sources.
type Options struct {
	// UserDir holds the user config file; empty means ~/.config/wsgen.
	UserDir string
	// Target is the generation target; its .wsgen.toml is merged when present.
	Target string
	// Flags, when set, are bound per FlagBindings. Only flags the user
	// changed take effect.
	Flags *pflag.FlagSet
}

// DefaultUserDir returns the per-user config directory, see paths.ConfigDir.
func DefaultUserDir() string {
	home, _ := os.UserHomeDir()
	return paths.ConfigDir(paths.OSEnv{}, home)
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	userDir := opts.UserDir
	if userDir == "" {
		userDir = DefaultUserDir()
	}
	files := []string{filepath.Join(userDir, UserFileName)}
	if opts.Target != "" {
		files = append(files, filepath.Join(opts.Target, TargetFileName))
	}

	var sources []string
	for _, p := range files {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		v.SetConfigFile(p)
		v.SetConfigType("toml")
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.WithHint(
				errors.WrapWithDetails(errors.EUsage, "invalid config file", err, map[string]string{"path": p}),
				"config files are TOML; run 'wsgen config show' to see the expected keys")
		}
		sources = append(sources, p)
	}

	if opts.Flags != nil {
		for key, name := range FlagBindings {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrap(errors.EInternal, "failed to bind flag "+name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.EUsage, "invalid configuration value", err)
	}
	cfg.Sources = sources
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func Validate(cfg *Config) error {
	if cfg.Parallelism < 1 {
		return errors.NewWithDetails(errors.EUsage, "parallelism must be at least 1",
			map[string]string{"key": "parallelism"})
	}
	if cfg.StateDir == "" || filepath.IsAbs(cfg.StateDir) || strings.HasPrefix(filepath.Clean(cfg.StateDir), "..") {
		return errors.NewWithDetails(errors.EUsage, "state_dir must be a relative path inside the target",
			map[string]string{"key": "state_dir", "value": cfg.StateDir})
	}
	if cfg.Lock.StaleAfter <= 0 {
		return errors.NewWithDetails(errors.EUsage, "lock.stale_after must be a positive duration",
			map[string]string{"key": "lock.stale_after"})
	}
	for rt, cmd := range cfg.Install.Command {
		if strings.TrimSpace(cmd) == "" {
			return errors.NewWithDetails(errors.EUsage, "install command must not be empty",
				map[string]string{"key": "install.command." + rt})
		}
	}
	return nil
}

type shown struct {
	Parallelism int          `toml:"parallelism"`
	StateDir    string       `toml:"state_dir"`
	Install     shownInstall `toml:"install"`
	Log         shownLog     `toml:"log"`
	Lock        shownLock    `toml:"lock"`
}

type shownInstall struct {
	Enabled bool              `toml:"enabled"`
	Command map[string]string `toml:"command"`
}

type shownLog struct {
	JSON bool `toml:"json"`
}

type shownLock struct {
	StaleAfter string `toml:"stale_after"`
}

// MarshalTOML renders the resolved configuration as a TOML document that
// can be saved as a config file.
func (c *Config) MarshalTOML() ([]byte, error) {
	return toml.Marshal(shown{
		Parallelism: c.Parallelism,
		StateDir:    c.StateDir,
		Install:     shownInstall{Enabled: c.Install.Enabled, Command: c.Install.Command},
		Log:         shownLog{JSON: c.Log.JSON},
		Lock:        shownLock{StaleAfter: c.Lock.StaleAfter.String()},
	})
}
