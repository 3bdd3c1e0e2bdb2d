// Package config reads chardiff settings from YAML files.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"chardiff/lib/lockfile"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type ParseError struct {
	Path string
	Err  error
}

func (p *ParseError) Error() string {
	return "bad config file " + p.Path + ": " + p.Err.Error()
}

func (p *ParseError) Unwrap() error {
	return p.Err
}

// Settings holds every configurable value. A zero field is unset and leaves
// the value of a lower layer, or the built-in default, in place.
type Settings struct {
	Color       string `yaml:"color,omitempty"`
	Timeout     string `yaml:"timeout,omitempty"`
	Pager       *bool  `yaml:"pager,omitempty"`
	InsertColor string `yaml:"insertColor,omitempty"`
	DeleteColor string `yaml:"deleteColor,omitempty"`
}

// Validate checks the values that have a fixed form.
func (s Settings) Validate() error {
	switch s.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("color must be one of auto, always or never, got %q", s.Color)
	}
	if _, err := s.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout. Unset means no timeout.
func (s Settings) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid timeout %q", s.Timeout)
	}
	if d < 0 {
		return 0, errors.Errorf("timeout must not be negative, got %s", s.Timeout)
	}
	return d, nil
}

// PagerEnabled reports whether output may be paged. Paging is on unless a
// layer turns it off.
func (s Settings) PagerEnabled() bool {
	return s.Pager == nil || *s.Pager
}

// Merge returns s with every field that is set in other overriding it.
func (s Settings) Merge(other Settings) Settings {
	if other.Color != "" {
		s.Color = other.Color
	}
	if other.Timeout != "" {
		s.Timeout = other.Timeout
	}
	if other.Pager != nil {
		pager := *other.Pager
		s.Pager = &pager
	}
	if other.InsertColor != "" {
		s.InsertColor = other.InsertColor
	}
	if other.DeleteColor != "" {
		s.DeleteColor = other.DeleteColor
	}
	return s
}

// Keys lists the setting names in the order they are documented.
var Keys = []string{"color", "timeout", "pager", "insertColor", "deleteColor"}

// Get returns the value of the named setting and whether it is set.
func (s Settings) Get(key string) (string, bool, error) {
	switch normalizeKey(key) {
	case "color":
		return s.Color, s.Color != "", nil
	case "timeout":
		return s.Timeout, s.Timeout != "", nil
	case "pager":
		if s.Pager == nil {
			return "", false, nil
		}
		return strconv.FormatBool(*s.Pager), true, nil
	case "insertcolor":
		return s.InsertColor, s.InsertColor != "", nil
	case "deletecolor":
		return s.DeleteColor, s.DeleteColor != "", nil
	}
	return "", false, errors.Errorf("unknown config key %q", key)
}

// Set returns s with the named setting changed to value.
func (s Settings) Set(key, value string) (Settings, error) {
	switch normalizeKey(key) {
	case "color":
		s.Color = strings.ToLower(value)
	case "timeout":
		s.Timeout = value
	case "pager":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return s, errors.Errorf("pager must be true or false, got %q", value)
		}
		s.Pager = &b
	case "insertcolor":
		s.InsertColor = value
	case "deletecolor":
		s.DeleteColor = value
	default:
		return s, errors.Errorf("unknown config key %q", key)
	}
	return s, s.Validate()
}

// Unset returns s with the named setting cleared.
func (s Settings) Unset(key string) (Settings, error) {
	switch normalizeKey(key) {
	case "color":
		s.Color = ""
	case "timeout":
		s.Timeout = ""
	case "pager":
		s.Pager = nil
	case "insertcolor":
		s.InsertColor = ""
	case "deletecolor":
		s.DeleteColor = ""
	default:
		return s, errors.Errorf("unknown config key %q", key)
	}
	return s, nil
}

// IsKey reports whether key names a setting.
func IsKey(key string) bool {
	for _, k := range Keys {
		if normalizeKey(k) == normalizeKey(key) {
			return true
		}
	}
	return false
}

func normalizeKey(key string) string {
	return strings.ToLower(key)
}

// Config is one settings file.
type Config struct {
	path     string
	settings Settings
	loaded   bool
}

func NewConfig(path string) *Config {
	return &Config{path: path}
}

func (c *Config) Path() string {
	return c.path
}

// Open reads the file once. A file that does not exist holds no settings.
func (c *Config) Open() error {
	if c.loaded {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.loaded = true
			return nil
		}
		return errors.Wrapf(err, "reading config file %s", c.path)
	}

	var settings Settings
	if err := yaml.UnmarshalStrict(data, &settings); err != nil {
		return &ParseError{Path: c.path, Err: err}
	}
	settings.Color = strings.ToLower(strings.TrimSpace(settings.Color))
	if err := settings.Validate(); err != nil {
		return &ParseError{Path: c.path, Err: err}
	}

	c.settings = settings
	c.loaded = true
	return nil
}

func (c *Config) Settings() (Settings, error) {
	if err := c.Open(); err != nil {
		return Settings{}, err
	}
	return c.settings, nil
}

// Save writes settings to the file, replacing it atomically.
func (c *Config) Save(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}
	if err := writeAtomic(c.path, data); err != nil {
		return err
	}

	c.settings = settings
	c.loaded = true
	return nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	return lockfile.WriteFile(path, data)
}
