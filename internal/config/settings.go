package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Backends understood by the packager.
const (
	BackendSdist   = "sdist"
	BackendCommand = "command"
)

// Setting keys, also used as flag names.
const (
	KeyLogLevel = "log_level"
	KeyDistDir  = "dist_dir"
	KeyBackend  = "backend"
	KeyCommand  = "command"
)

const envPrefix = "DISTPACK"

// Settings are runtime options of a distpack invocation.
type Settings struct {
	LogLevel string
	// DistDir receives published artifacts and the build manifest.
	DistDir string
	// Backend selects the packaging backend (sdist or command).
	Backend string
	// Command is the argv of the external packaging command.
	Command []string
}

var errUnknownBackend = errors.New("unknown packaging backend")

// NewViper returns a viper instance with distpack defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDistDir, "dist")
	v.SetDefault(KeyBackend, BackendSdist)
	v.SetDefault(KeyCommand, []string{"python", "-m", "build", "--sdist", "--wheel"})

	return v
}

// BindFlags binds every flag in fs that names a setting key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{KeyLogLevel, KeyDistDir, KeyBackend, KeyCommand} {
		flag := fs.Lookup(strings.ReplaceAll(key, "_", "-"))
		if flag == nil {
			continue
		}

		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	return nil
}

// LoadSettings resolves Settings from v.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		LogLevel: v.GetString(KeyLogLevel),
		DistDir:  v.GetString(KeyDistDir),
		Backend:  strings.ToLower(v.GetString(KeyBackend)),
		Command:  v.GetStringSlice(KeyCommand),
	}

	switch s.Backend {
	case BackendSdist:
	case BackendCommand:
		if len(s.Command) == 0 {
			return nil, fmt.Errorf("%w: command backend needs a command", errUnknownBackend)
		}
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownBackend, s.Backend)
	}

	if s.DistDir == "" {
		s.DistDir = "dist"
	}

	return s, nil
}
