package command

import (
	"fmt"
	"io"
	"path/filepath"

	"chardiff/lib/config"
	"chardiff/lib/log"

	"github.com/pkg/errors"
)

type ConfigOption struct {
	// File is "global", "local" or a path. Reads default to the merged stack
	// and writes to the local file.
	File  string
	List  bool
	Unset bool
}

type Config struct {
	rootPath string
	args     []string
	options  ConfigOption
	stack    *config.Stack
	stdout   io.Writer
	stderr   io.Writer
	log      *log.Logger
}

func NewConfig(dir string, args []string, options ConfigOption, stdout, stderr io.Writer) (*Config, error) {
	rootPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	return &Config{
		rootPath: rootPath,
		args:     args,
		options:  options,
		stack:    config.NewStack(rootPath),
		stdout:   stdout,
		stderr:   stderr,
		log:      log.New(stdout, stderr),
	}, nil
}

// Run prints, sets or unsets one setting, or lists them all. It exits 1 when
// a requested setting is unset, 2 for an unknown key and 3 for a malformed
// config file.
func (c *Config) Run() int {
	if c.options.List {
		return c.list()
	}

	if len(c.args) == 0 || len(c.args) > 2 {
		c.log.Fatalf("usage: config [--global|--local|--file <path>] [--unset] <key> [<value>]\n")
		return 2
	}
	key := c.args[0]
	if !config.IsKey(key) {
		c.log.Fatalf("unknown config key %q\n", key)
		return 2
	}

	switch {
	case c.options.Unset:
		return c.edit(func(s config.Settings) (config.Settings, error) {
			return s.Unset(key)
		})
	case len(c.args) == 2:
		return c.edit(func(s config.Settings) (config.Settings, error) {
			return s.Set(key, c.args[1])
		})
	}

	settings, err := c.read()
	if err != nil {
		return c.fail(err)
	}
	value, ok, err := settings.Get(key)
	if err != nil {
		return c.fail(err)
	}
	if !ok {
		return 1
	}
	fmt.Fprintln(c.stdout, value)
	return 0
}

func (c *Config) list() int {
	settings, err := c.read()
	if err != nil {
		return c.fail(err)
	}
	for _, key := range config.Keys {
		if value, ok, _ := settings.Get(key); ok {
			fmt.Fprintf(c.stdout, "%s=%s\n", key, value)
		}
	}
	return 0
}

func (c *Config) read() (config.Settings, error) {
	if c.options.File == "" {
		return c.stack.Settings()
	}
	file, err := c.file()
	if err != nil {
		return config.Settings{}, err
	}
	return file.Settings()
}

func (c *Config) edit(fn func(config.Settings) (config.Settings, error)) int {
	file, err := c.file()
	if err != nil {
		return c.fail(err)
	}
	settings, err := file.Settings()
	if err != nil {
		return c.fail(err)
	}
	updated, err := fn(settings)
	if err != nil {
		return c.fail(err)
	}
	if err := file.Save(updated); err != nil {
		return c.fail(err)
	}
	return 0
}

func (c *Config) file() (*config.Config, error) {
	switch name := c.options.File; name {
	case "", "local":
		file, _ := c.stack.Layer("local")
		return file, nil
	case "global":
		file, ok := c.stack.Layer("global")
		if !ok {
			return nil, errors.New("no global config file: the user config directory is unknown")
		}
		return file, nil
	default:
		if !filepath.IsAbs(name) {
			name = filepath.Join(c.rootPath, name)
		}
		return config.StackFile(name, c.stack), nil
	}
}

func (c *Config) fail(err error) int {
	c.log.Fatalf("%s\n", err)

	var perr *config.ParseError
	if errors.As(err, &perr) {
		return 3
	}
	return 1
}
