package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// SettingsFile is the optional settings filename inside the config directory.
const SettingsFile = "config.toml"

// EnvPrefix prefixes environment overrides, e.g. TASKBOARD_GROUP_BY.
const EnvPrefix = "TASKBOARD"

// DefaultURL is the endpoint serving the {"tickets": [...]} payload.
const DefaultURL = "https://api.quicksell.co/v1/internal/frontend-assignment"

// Source names.
const (
	SourceHTTP        = "http"
	SourceFile        = "file"
	SourceGoogleTasks = "googletasks"
)

// Settings are the board defaults and source selection.
type Settings struct {
	Source   string        `mapstructure:"source" validate:"required,oneof=http file googletasks"`
	URL      string        `mapstructure:"url" validate:"omitempty,url"`
	Token    string        `mapstructure:"token"`
	File     string        `mapstructure:"file" validate:"required_if=Source file"`
	GroupBy  string        `mapstructure:"group_by" validate:"required,oneof=status user priority"`
	SortBy   string        `mapstructure:"sort_by" validate:"required,oneof=priority title"`
	Layout   string        `mapstructure:"layout" validate:"required,oneof=sections columns json"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Language string        `mapstructure:"language" validate:"required"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Source:   SourceHTTP,
		URL:      DefaultURL,
		GroupBy:  "status",
		SortBy:   "priority",
		Layout:   "sections",
		Timeout:  5 * time.Second,
		Language: "und",
	}
}

// Overrides are settings given on the command line. Empty values are ignored.
type Overrides map[string]string

var validate = validator.New()

// Load reads config.toml from dir, applies TASKBOARD_* environment variables
// and the overrides, then validates the result.
// A missing config.toml is not an error.
func Load(dir string, overrides Overrides) (*Config, error) {
	cfg, err := New(dir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	def := DefaultSettings()
	v.SetDefault("source", def.Source)
	v.SetDefault("url", def.URL)
	v.SetDefault("token", def.Token)
	v.SetDefault("file", def.File)
	v.SetDefault("group_by", def.GroupBy)
	v.SetDefault("sort_by", def.SortBy)
	v.SetDefault("layout", def.Layout)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("language", def.Language)

	v.SetConfigName(strings.TrimSuffix(SettingsFile, ".toml"))
	v.SetConfigType("toml")
	v.AddConfigPath(cfg.Dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	}

	for key, val := range overrides {
		if val != "" {
			v.Set(key, val)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	cfg.Settings = s
	return cfg, nil
}

// Validate checks the settings and reports the first offending key.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid setting %s: %q fails %s", settingKey(fe.StructField()), fmt.Sprint(fe.Value()), fe.Tag())
	}
	return fmt.Errorf("invalid settings: %w", err)
}

// settingKey maps a Settings field name to its config.toml key.
func settingKey(field string) string {
	switch field {
	case "URL":
		return "url"
	case "GroupBy":
		return "group_by"
	case "SortBy":
		return "sort_by"
	default:
		return strings.ToLower(field)
	}
}
