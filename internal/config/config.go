// Package config loads the application catalog: applications, their log
// sources, the date format and the download settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/atikulmunna/logbrowser/internal/model"
	"github.com/atikulmunna/logbrowser/internal/parser"
)

// EnvPrefix prefixes environment overrides (LOGBROWSER_DATEFORMAT, ...).
const EnvPrefix = "LOGBROWSER"

// Config is the loaded catalog. It is not modified after Load.
type Config struct {
	DateLayout         string // Go time layout
	DownloadBaseFolder string
	DownloadExtension  string
	Apps               []model.App
}

// File mirrors the configuration file.
type File struct {
	DateFormat         string    `mapstructure:"dateFormat" yaml:"dateFormat"`
	DownloadBaseFolder string    `mapstructure:"downloadBaseFolder" yaml:"downloadBaseFolder"`
	DownloadExtension  string    `mapstructure:"downloadExtension" yaml:"downloadExtension"`
	Apps               []AppFile `mapstructure:"apps" yaml:"apps"`
}

// AppFile is one application entry.
type AppFile struct {
	Name    string    `mapstructure:"name" yaml:"name"`
	Pattern string    `mapstructure:"pattern" yaml:"pattern,omitempty"`
	Logs    []LogFile `mapstructure:"logs" yaml:"logs"`
}

// LogFile is one log source entry.
type LogFile struct {
	Type          string   `mapstructure:"type" yaml:"type"`
	Host          string   `mapstructure:"host" yaml:"host,omitempty"`
	Alias         string   `mapstructure:"alias" yaml:"alias,omitempty"`
	User          string   `mapstructure:"user" yaml:"user,omitempty"`
	Password      string   `mapstructure:"password" yaml:"password,omitempty"`
	BaseDir       string   `mapstructure:"basedir" yaml:"basedir,omitempty"`
	Compression   string   `mapstructure:"compression" yaml:"compression,omitempty"`
	KnownHosts    string   `mapstructure:"knownHosts" yaml:"knownHosts,omitempty"`
	TodayUndated  bool     `mapstructure:"todayUndated" yaml:"todayUndated,omitempty"`
	DateSeparator string   `mapstructure:"dateSeparator" yaml:"dateSeparator,omitempty"`
	Files         []string `mapstructure:"files" yaml:"files"`
}

// Load reads the configuration at path with a private viper instance.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return FromViper(v)
}

// FromViper decodes and validates an already-read viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var raw File
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode config: %v", model.ErrConfiguration, err)
	}
	return raw.Build()
}

// LoadDotEnv loads a .env file into the environment. A missing file is
// not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Build validates the file contents and converts them to a Config.
func (f File) Build() (*Config, error) {
	if len(f.Apps) == 0 {
		return nil, fmt.Errorf("%w: no applications found in the configuration", model.ErrConfiguration)
	}

	cfg := &Config{
		DateLayout:         DateLayout(f.DateFormat),
		DownloadBaseFolder: f.DownloadBaseFolder,
		DownloadExtension:  f.DownloadExtension,
	}

	seen := make(map[string]bool)
	for i, a := range f.Apps {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: application %d has no name", model.ErrConfiguration, i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate application %q", model.ErrConfiguration, name)
		}
		seen[name] = true

		if a.Pattern != "" {
			if _, err := parser.NewRegexParser(a.Pattern); err != nil {
				return nil, fmt.Errorf("%w: application %q: %v", model.ErrConfiguration, name, err)
			}
		}

		app := model.App{Name: name, Pattern: a.Pattern}
		for j, l := range a.Logs {
			src, err := l.Build()
			if err != nil {
				return nil, fmt.Errorf("application %q, log %d: %w", name, j+1, err)
			}
			app.Sources = append(app.Sources, src)
		}
		cfg.Apps = append(cfg.Apps, app)
	}
	return cfg, nil
}

// Build converts one log source entry. Credentials are expanded from the
// environment and otherwise passed through untouched.
func (l LogFile) Build() (model.LogSource, error) {
	typ, err := model.ParseSourceType(l.Type)
	if err != nil {
		return model.LogSource{}, err
	}
	compression, err := model.ParseCompression(l.Compression)
	if err != nil {
		return model.LogSource{}, err
	}
	if typ.Remote() && strings.TrimSpace(l.Host) == "" {
		return model.LogSource{}, fmt.Errorf("%w: %s source requires a host", model.ErrConfiguration, typ)
	}
	if len(l.Files) == 0 {
		return model.LogSource{}, fmt.Errorf("%w: no files configured", model.ErrConfiguration)
	}
	for _, f := range l.Files {
		if strings.Count(f, model.DateHolder) > 1 {
			return model.LogSource{}, fmt.Errorf("%w: file %q has more than one %s", model.ErrConfiguration, f, model.DateHolder)
		}
	}

	return model.LogSource{
		Type:  typ,
		Host:  strings.TrimSpace(l.Host),
		Alias: l.Alias,
		Credentials: model.Credentials{
			User:   os.ExpandEnv(l.User),
			Secret: os.ExpandEnv(l.Password),
		},
		BaseDir:       l.BaseDir,
		Compression:   compression,
		Files:         append([]string(nil), l.Files...),
		KnownHosts:    os.ExpandEnv(l.KnownHosts),
		TodayUndated:  l.TodayUndated,
		DateSeparator: l.DateSeparator,
	}, nil
}

// AppNames returns the application names in configuration order.
func (c *Config) AppNames() []string {
	names := make([]string, 0, len(c.Apps))
	for _, a := range c.Apps {
		names = append(names, a.Name)
	}
	return names
}

// App looks an application up by name.
func (c *Config) App(name string) (model.App, bool) {
	for _, a := range c.Apps {
		if a.Name == name {
			return a, true
		}
	}
	return model.App{}, false
}

var javaDateTokens = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

// DateLayout turns a configured date format into a Go layout. Formats
// written with yyyy/MM/dd tokens are translated; anything else is taken as
// a Go layout. Empty means ISO dates.
func DateLayout(format string) string {
	format = strings.TrimSpace(format)
	switch {
	case format == "":
		return model.ISODate
	case strings.Contains(format, "yy") || strings.Contains(format, "dd"):
		return javaDateTokens.Replace(format)
	default:
		return format
	}
}
