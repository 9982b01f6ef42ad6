// Package config loads the optional user settings file.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/internal/api"
	"github.com/razzo04/rhasspy-skills/internal/core"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the settings file inside the application directory.
const FileName = "config.yaml"

// Settings are the values a user may persist instead of passing flags.
type Settings struct {
	Host               string   `mapstructure:"host"`
	Repositories       []string `mapstructure:"repositories"`
	TemplateRepository string   `mapstructure:"template_repository"`
	CacheDir           string   `mapstructure:"cache_dir"`

	// File is the settings file that was read, if any.
	File string `mapstructure:"-"`
}

// flagKeys maps settings keys to the flags that override them.
var flagKeys = map[string]string{
	"host":                "host",
	"cache_dir":           "cache-dir",
	"template_repository": "template-repository",
}

// DefaultPath returns <user config dir>/rhasspy_skills/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locating user config directory")
	}
	return filepath.Join(dir, core.AppDirName, FileName), nil
}

// Load reads settings from path, or from DefaultPath when path is empty and
// that file exists. Flags in fs that were set on the command line take
// precedence over the file. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("host", api.DefaultHost)
	v.SetDefault("repositories", []string{core.DefaultRepository})
	v.SetDefault("template_repository", core.DefaultRepository)
	v.SetDefault("cache_dir", "")

	if fs != nil {
		for key, name := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "binding --%s", name)
				}
			}
		}
	}

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	var used string
	if _, err := os.Stat(path); err == nil || explicit {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
		used = path
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	s.File = used
	if len(s.Repositories) == 0 {
		s.Repositories = []string{core.DefaultRepository}
	}
	return &s, nil
}
