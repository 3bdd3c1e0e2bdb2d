package command

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"chardiff/lib/command/print_diff"
	"chardiff/lib/diff"
	"chardiff/lib/harness"
	"chardiff/lib/log"
	"chardiff/lib/process"
	"chardiff/lib/suite"
	"chardiff/lib/watch"

	"github.com/pkg/errors"
)

type Mode string

const (
	// ModeInteractive compares the two arguments as literal text.
	ModeInteractive Mode = "interactive"
	// ModeFile compares the contents of two files.
	ModeFile Mode = "file"
	// ModeProgram runs a program against a suite of test cases.
	ModeProgram Mode = "program"
)

// ParseMode accepts a mode name. "batch" is another name for file mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "", "interactive":
		return ModeInteractive, nil
	case "file", "batch":
		return ModeFile, nil
	case "program":
		return ModeProgram, nil
	}
	return "", errors.Errorf("unknown mode %q (want interactive, file or program)", name)
}

type DiffOption struct {
	Mode  Mode
	Style print_diff.Style

	// Timeout bounds each program run in program mode when positive.
	Timeout time.Duration
	// FailFast stops a program-mode run at the first case that does not pass.
	FailFast bool
	// Strict makes a program-mode run exit non-zero when any case does not pass.
	Strict bool
	// Watch reruns file and program mode whenever an operand changes, until
	// the context is canceled.
	Watch bool
}

type Diff struct {
	rootPath  string
	args      []string
	options   DiffOption
	stdout    io.Writer
	stderr    io.Writer
	log       *log.Logger
	printDiff *print_diff.PrintDiff

	// runner starts the program under test; tests may replace it.
	runner harness.Runner
}

func NewDiff(dir string, args []string, options DiffOption, stdout, stderr io.Writer) (*Diff, error) {
	rootPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if options.Mode == "" {
		options.Mode = ModeInteractive
	}

	return &Diff{
		rootPath:  rootPath,
		args:      args,
		options:   options,
		stdout:    stdout,
		stderr:    stderr,
		log:       log.New(stdout, stderr),
		printDiff: print_diff.NewPrintDiff(options.Style, stdout, stderr),
		runner:    process.NewRunner(),
	}, nil
}

func (d *Diff) Run() int {
	return d.RunContext(context.Background())
}

// RunContext compares the two operands according to the mode. Operands that
// cannot be read end the run with status 1 before anything is compared, except
// when watching, where the next change to an operand triggers another try.
func (d *Diff) RunContext(ctx context.Context) int {
	if len(d.args) != 2 {
		d.log.Fatalf("diff needs exactly two operands, got %d\n", len(d.args))
		return 1
	}
	left, right := d.args[0], d.args[1]

	code := d.runOnce(ctx, left, right)
	if !d.options.Watch || d.options.Mode == ModeInteractive {
		return code
	}
	return d.watch(ctx, left, right)
}

func (d *Diff) runOnce(ctx context.Context, left, right string) int {
	switch d.options.Mode {
	case ModeInteractive:
		for _, operand := range []string{left, right} {
			if !utf8.ValidString(operand) {
				d.log.Fatalf("operand %q is not valid UTF-8 text\n", operand)
				return 1
			}
		}
		d.printDiff.PrintDiff(diff.Diff(left, right))
	case ModeFile:
		return d.diffFiles(left, right)
	case ModeProgram:
		return d.runProgram(ctx, left, right)
	default:
		d.log.Fatalf("unknown mode %q\n", d.options.Mode)
		return 1
	}

	return 0
}

// watch reruns the comparison each time one of the operand files changes,
// until ctx is canceled. Failures of a rerun are reported and watching goes on.
func (d *Diff) watch(ctx context.Context, left, right string) int {
	paths := []string{d.path(left), d.path(right)}
	if d.options.Mode == ModeProgram {
		program, err := process.Resolve(d.programPath(left))
		if err != nil {
			d.log.Fatalf("%s\n", err)
			return 1
		}
		paths[0] = program
	}

	d.log.Infof("watching %s and %s, press Ctrl-C to stop\n", left, right)
	err := watch.Watch(ctx, paths, watch.DefaultDebounce, func(changed []string) {
		d.log.Infof("%s changed\n", strings.Join(changed, ", "))
		d.runOnce(ctx, left, right)
	})
	if err != nil {
		d.log.Fatalf("%s\n", err)
		return 1
	}
	return 0
}

func (d *Diff) diffFiles(left, right string) int {
	a, err := d.readFile(left)
	if err != nil {
		d.log.Fatalf("%s\n", err)
		return 1
	}
	b, err := d.readFile(right)
	if err != nil {
		d.log.Fatalf("%s\n", err)
		return 1
	}

	d.printDiff.PrintDiff(diff.Diff(a, b))
	return 0
}

func (d *Diff) readFile(name string) (string, error) {
	data, err := os.ReadFile(d.path(name))
	if err != nil {
		return "", errors.Wrapf(err, "reading file %s", name)
	}
	if !utf8.Valid(data) {
		return "", errors.Errorf("reading file %s: not valid UTF-8 text", name)
	}
	return string(data), nil
}

func (d *Diff) runProgram(ctx context.Context, program, suitePath string) int {
	programPath, err := process.Resolve(d.programPath(program))
	if err != nil {
		d.log.Fatalf("%s\n", err)
		return 1
	}

	s, err := suite.Load(d.path(suitePath))
	if err != nil {
		d.log.Fatalf("%s\n", err)
		return 1
	}
	d.log.Debugf("running %d cases against %s\n", len(s.Tests), programPath)

	h := harness.New(d.runner)
	h.Timeout = d.options.Timeout
	h.Dir = d.rootPath
	h.Stderr = d.stderr
	h.StopOnFailure = d.options.FailFast
	h.OnReport = d.printDiff.PrintReport

	reports := h.RunSuite(ctx, programPath, s)
	summary := harness.Summarize(reports)
	d.printDiff.PrintSummary(summary)

	if err := ctx.Err(); err != nil {
		d.log.Fatalf("%s\n", err)
		return 1
	}
	if d.options.Strict && !summary.OK() {
		return 1
	}
	return 0
}

func (d *Diff) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.rootPath, name)
}

// programPath keeps bare names that are not files in the working directory,
// so they can be looked up on PATH.
func (d *Diff) programPath(name string) string {
	if filepath.IsAbs(name) || strings.ContainsAny(name, `/\`) {
		return d.path(name)
	}
	if _, err := os.Stat(d.path(name)); err == nil {
		return d.path(name)
	}
	return name
}
