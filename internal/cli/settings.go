package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dshills/shutter/internal/app"
	"github.com/dshills/shutter/internal/config/loader"
	"github.com/dshills/shutter/internal/integration/process"
)

// envPrefix prefixes every environment variable the tool reads.
const envPrefix = "SHUTTER"

// Settings are the tool's own settings, as opposed to the renderer
// configuration.
type Settings struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	Timeout    time.Duration

	// Env is added to the renderer's environment as KEY=VALUE entries.
	Env []string

	// MaxRenders limits concurrent renderer processes, 0 for no limit.
	MaxRenders int
}

// newViper returns a viper instance reading SHUTTER_* variables, with the
// given flags bound to their keys.
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "warn")
	v.SetDefault("log-format", app.FormatAuto)

	for _, name := range []string{"config", "log-level", "log-format", "timeout", "env", "max-renders"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return v, nil
}

// loadSettings reads the settings from v.
func loadSettings(v *viper.Viper) Settings {
	return Settings{
		ConfigPath: v.GetString("config"),
		LogLevel:   v.GetString("log-level"),
		LogFormat:  v.GetString("log-format"),
		Timeout:    v.GetDuration("timeout"),
		Env:        v.GetStringSlice("env"),
		MaxRenders: v.GetInt("max-renders"),
	}
}

// supervisorOptions configures the process supervisor renders run under.
func (s Settings) supervisorOptions() []process.SupervisorOption {
	return []process.SupervisorOption{
		process.WithEnv(s.Env...),
		process.WithMaxProcesses(s.MaxRenders),
	}
}

// resolveConfigPath returns the configured path, or the first config file
// found in the user configuration directory.
func (s Settings) resolveConfigPath() string {
	if s.ConfigPath != "" {
		return s.ConfigPath
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return loader.Locate(loader.DefaultFS(), filepath.Join(dir, "shutter"))
}

// logger builds the application logger writing to w.
func (s Settings) logger(w io.Writer) *app.Logger {
	return app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(s.LogLevel),
		Output: w,
		Format: s.LogFormat,
		Prefix: "shutter",
	})
}
