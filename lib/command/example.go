package command

import (
	"bytes"
	"io"
	"path/filepath"
	"strconv"

	"chardiff/lib/lockfile"
	"chardiff/lib/log"
	"chardiff/lib/suite"

	"github.com/pkg/errors"
)

// MaxExampleCount caps how many placeholder cases example writes.
const MaxExampleCount = 65535

type ExampleOption struct {
	// Format is "toml" or "yaml"; empty picks one from the output path.
	Format string
}

type Example struct {
	rootPath string
	args     []string
	options  ExampleOption
	stdout   io.Writer
	stderr   io.Writer
	log      *log.Logger
}

func NewExample(dir string, args []string, options ExampleOption, stdout, stderr io.Writer) (*Example, error) {
	rootPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	return &Example{
		rootPath: rootPath,
		args:     args,
		options:  options,
		stdout:   stdout,
		stderr:   stderr,
		log:      log.New(stdout, stderr),
	}, nil
}

// Run writes a suite document with placeholder cases to the path given as the
// second argument, or to stdout.
func (e *Example) Run() int {
	count, path, err := e.parseArgs()
	if err != nil {
		e.log.Fatalf("%s\n", err)
		return 1
	}

	format := suite.FormatForPath(path)
	if e.options.Format != "" {
		if format, err = suite.ParseFormat(e.options.Format); err != nil {
			e.log.Fatalf("%s\n", err)
			return 1
		}
	}

	var buf bytes.Buffer
	if err := suite.Encode(&buf, suite.Example(count), format); err != nil {
		e.log.Fatalf("%s\n", err)
		return 1
	}

	if path == "" {
		e.stdout.Write(buf.Bytes())
		return 0
	}

	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(e.rootPath, target)
	}
	if err := lockfile.WriteFile(target, buf.Bytes()); err != nil {
		e.log.Fatalf("writing %s: %s\n", path, err)
		return 1
	}
	e.log.Successf("wrote %d test cases to %s\n", count, path)

	return 0
}

func (e *Example) parseArgs() (int, string, error) {
	if len(e.args) > 2 {
		return 0, "", errors.Errorf("example takes at most two operands, got %d", len(e.args))
	}

	count := 1
	if len(e.args) > 0 {
		n, err := strconv.Atoi(e.args[0])
		if err != nil || n < 0 || n > MaxExampleCount {
			return 0, "", errors.Errorf("invalid count %q: want a whole number from 0 to %d", e.args[0], MaxExampleCount)
		}
		count = n
	}

	path := ""
	if len(e.args) > 1 {
		path = e.args[1]
	}
	return count, path, nil
}
