// Package suite reads and writes test-suite documents: an ordered list of test
// cases, each with a note, command-line arguments, a stdin payload and the
// expected stdout.
package suite

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultNote names a test case that has no note.
const DefaultNote = "test"

// TestCase is one scripted program run. Every field is optional and defaults
// to the empty string.
type TestCase struct {
	Note  string `toml:"note,omitempty" yaml:"note,omitempty"`
	Args  string `toml:"args,omitempty" yaml:"args,omitempty"`
	Input string `toml:"input,omitempty" yaml:"input,omitempty"`
	Out   string `toml:"out,omitempty" yaml:"out,omitempty"`
}

// Name returns the note, or DefaultNote when the case has none.
func (tc TestCase) Name() string {
	if tc.Note == "" {
		return DefaultNote
	}
	return tc.Note
}

// Argv splits Args on whitespace. Empty Args means no arguments.
func (tc TestCase) Argv() []string {
	return strings.Fields(tc.Args)
}

// Suite is an ordered list of test cases. Cases run in definition order.
type Suite struct {
	Tests []TestCase `toml:"tests" yaml:"tests"`
}

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name given on the command line.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("unknown suite format %q (want toml or yaml)", name)
	}
}

// FormatForPath picks YAML for .yaml and .yml files and TOML otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// ParseError reports a suite document that could not be decoded.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parsing %s suite: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("parsing %s suite %s: %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads the suite document at path. The format follows the file extension.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading suite file %s", path)
	}

	s, err := Decode(data, FormatForPath(path))
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return s, nil
}

// Decode parses a suite document. Keys other than the four test case fields
// make the document malformed.
func Decode(data []byte, format Format) (*Suite, error) {
	var s Suite

	switch format {
	case FormatYAML:
		if err := yaml.UnmarshalStrict(data, &s); err != nil {
			return nil, &ParseError{Format: format, Err: err}
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, &ParseError{Format: format, Err: err}
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			return nil, &ParseError{Format: format, Err: errors.Errorf("unknown keys: %s", strings.Join(keys, ", "))}
		}
	default:
		return nil, errors.Errorf("unknown suite format %q", format)
	}

	return &s, nil
}

// Encode writes s to w in the given format.
func Encode(w io.Writer, s *Suite, format Format) error {
	switch format {
	case FormatYAML:
		b, err := yaml.Marshal(s)
		if err != nil {
			return errors.Wrap(err, "marshalling suite into YAML")
		}
		_, err = w.Write(b)
		return errors.Wrap(err, "writing suite")
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return errors.Wrap(err, "marshalling suite into TOML")
		}
		_, err := w.Write(buf.Bytes())
		return errors.Wrap(err, "writing suite")
	default:
		return errors.Errorf("unknown suite format %q", format)
	}
}

// Example returns a suite with count placeholder test cases.
func Example(count int) *Suite {
	s := &Suite{Tests: make([]TestCase, count)}
	for i := range s.Tests {
		s.Tests[i] = TestCase{
			Note:  "test",
			Args:  "arguments",
			Input: "input",
			Out:   "output",
		}
	}
	return s
}
