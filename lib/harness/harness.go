// Package harness runs a suite of scripted test cases against one program and
// reports, case by case, whether its output matched.
package harness

import (
	"bytes"
	"context"
	"io"
	"time"

	"chardiff/lib/diff"
	"chardiff/lib/process"
	"chardiff/lib/suite"

	"github.com/pkg/errors"
)

// Runner starts one program run. *process.Runner implements it.
type Runner interface {
	Run(ctx context.Context, inv process.Invocation) (*process.Result, error)
}

// Report is the outcome of one test case.
type Report struct {
	// Index is the zero-based position of the case in its suite.
	Index  int
	Case   suite.TestCase
	Passed bool

	// Edits turns the expected output into the actual output. It is nil when
	// the case passed or the program never started. It holds no change when
	// the outputs differ only in bytes that are not valid UTF-8.
	Edits  []*diff.Edit
	Result *process.Result

	// Err is set when the case could not be judged on its output alone: the
	// program failed to start, timed out or was canceled.
	Err error
}

func (r Report) Note() string {
	return r.Case.Name()
}

func (r Report) Errored() bool {
	return r.Err != nil
}

// Expected and Actual are the two sides of the comparison.
func (r Report) Expected() string {
	return r.Case.Out
}

func (r Report) Actual() string {
	if r.Result == nil {
		return ""
	}
	return r.Result.Text()
}

type Harness struct {
	Runner Runner

	// Timeout bounds every case when positive.
	Timeout time.Duration

	// Dir is the working directory of every run; empty means the current one.
	Dir string

	// Stderr receives the program's standard error; nil discards it.
	Stderr io.Writer

	// StopOnFailure ends the suite after the first case that does not pass.
	StopOnFailure bool

	// OnReport, when set, is called with each report as soon as its case
	// finishes.
	OnReport func(Report)
}

func New(runner Runner) *Harness {
	return &Harness{Runner: runner}
}

// RunSuite runs every case of s against program, one after the other in
// definition order. A case that cannot be run does not stop the ones after it,
// unless StopOnFailure is set. Canceling ctx ends the suite early.
func (h *Harness) RunSuite(ctx context.Context, program string, s *suite.Suite) []Report {
	reports := make([]Report, 0, len(s.Tests))

	for i, tc := range s.Tests {
		if ctx.Err() != nil {
			break
		}

		report := h.RunCase(ctx, program, i, tc)
		reports = append(reports, report)
		if h.OnReport != nil {
			h.OnReport(report)
		}

		if h.StopOnFailure && !report.Passed {
			break
		}
	}

	return reports
}

// RunCase runs a single case. Its index is only recorded on the report.
func (h *Harness) RunCase(ctx context.Context, program string, index int, tc suite.TestCase) Report {
	report := Report{Index: index, Case: tc}

	inv := process.Invocation{
		Path:    program,
		Args:    tc.Argv(),
		Stdin:   []byte(tc.Input),
		Timeout: h.Timeout,
		Dir:     h.Dir,
		Stderr:  h.Stderr,
	}

	result, err := h.Runner.Run(ctx, inv)
	report.Result = result
	if err != nil {
		report.Err = errors.Wrapf(err, "case %d (%s)", index+1, tc.Name())
	}

	if result == nil || result.Status == process.StatusFailedToStart {
		return report
	}

	if report.Err == nil && bytes.Equal(result.Stdout, []byte(tc.Out)) {
		report.Passed = true
		return report
	}

	report.Edits = diff.Diff(tc.Out, result.Text())
	return report
}

// Summary counts the outcomes of a suite run. Errored cases are not counted
// as failed.
type Summary struct {
	Passed  int
	Failed  int
	Errored int
}

func (s Summary) Total() int {
	return s.Passed + s.Failed + s.Errored
}

func (s Summary) OK() bool {
	return s.Failed == 0 && s.Errored == 0
}

func Summarize(reports []Report) Summary {
	var s Summary
	for _, r := range reports {
		switch {
		case r.Errored():
			s.Errored++
		case r.Passed:
			s.Passed++
		default:
			s.Failed++
		}
	}
	return s
}
