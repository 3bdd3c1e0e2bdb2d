package print_diff

import (
	"fmt"
	"io"
	"strings"

	"chardiff/lib/diff"
	"chardiff/lib/harness"
	"chardiff/lib/log"
	"chardiff/lib/process"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// Style says how insertions and deletions stand out from unchanged text. With
// Color off, changes are wrapped in textual markers instead.
type Style struct {
	Color  bool
	Insert []color.Attribute
	Delete []color.Attribute

	InsertOpen, InsertClose string
	DeleteOpen, DeleteClose string
}

// DefaultStyle highlights deletions on red and insertions on cyan.
func DefaultStyle(useColor bool) Style {
	return Style{
		Color:       useColor,
		Insert:      []color.Attribute{color.BgCyan},
		Delete:      []color.Attribute{color.BgRed},
		InsertOpen:  "{+",
		InsertClose: "+}",
		DeleteOpen:  "[-",
		DeleteClose: "-]",
	}
}

var backgrounds = map[string]color.Attribute{
	"black":   color.BgBlack,
	"red":     color.BgRed,
	"green":   color.BgGreen,
	"yellow":  color.BgYellow,
	"blue":    color.BgBlue,
	"magenta": color.BgMagenta,
	"cyan":    color.BgCyan,
	"white":   color.BgWhite,
}

// ParseColor turns a color name such as "cyan" or "on_red" into the
// background attribute used to highlight a change.
func ParseColor(name string) (color.Attribute, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "on_")
	attr, ok := backgrounds[key]
	if !ok {
		return 0, errors.Errorf("unknown color %q", name)
	}
	return attr, nil
}

// Render styles every edit on its own, in order. Unchanged text is left as is.
func Render(edits []*diff.Edit, style Style) string {
	var sb strings.Builder
	for _, edit := range edits {
		switch edit.Type() {
		case diff.EQL:
			sb.WriteString(edit.Text())
		case diff.DEL:
			sb.WriteString(style.paint(style.Delete, style.DeleteOpen, style.DeleteClose, edit.Text()))
		case diff.INS:
			sb.WriteString(style.paint(style.Insert, style.InsertOpen, style.InsertClose, edit.Text()))
		}
	}
	return sb.String()
}

func (s Style) paint(attrs []color.Attribute, before, after, text string) string {
	if !s.Color {
		return before + text + after
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

type PrintDiff struct {
	style  Style
	stdout io.Writer
	log    *log.Logger
}

func NewPrintDiff(style Style, stdout, stderr io.Writer) *PrintDiff {
	return &PrintDiff{
		style:  style,
		stdout: stdout,
		log:    log.New(stdout, stderr),
	}
}

// PrintDiff writes the rendered transcript followed by a newline.
func (p *PrintDiff) PrintDiff(edits []*diff.Edit) {
	fmt.Fprintln(p.stdout, Render(edits, p.style))
}

// PrintReport writes the outcome of one test case: a status line with its
// note and, when the output did not match, the rendered difference between
// expected and actual output.
func (p *PrintDiff) PrintReport(r harness.Report) {
	switch {
	case r.Passed:
		p.log.Successf("%s\n", r.Note())
		return
	case r.Errored():
		p.log.Failuref("%s\n", r.Note())
		p.log.Errorf("%s\n", r.Err)
	default:
		p.log.Failuref("%s\n", r.Note())
	}

	if r.Edits != nil {
		p.PrintDiff(r.Edits)
		if diff.IsEqual(r.Edits) {
			p.log.Warnf("output differs only in bytes that are not valid UTF-8\n")
		}
	}
	if r.Result == nil {
		return
	}
	if r.Result.StdinErr != nil {
		p.log.Warnf("%s\n", r.Result.StdinErr)
	}

	switch {
	case r.Result.Exited():
	case r.Result.Signal != "":
		p.log.Warnf("killed by signal %s\n", r.Result.Signal)
	case r.Result.Status == process.StatusCompleted:
		p.log.Warnf("exit status %d\n", r.Result.ExitCode)
	}
}

// PrintSummary writes how many cases passed, failed and could not be run.
func (p *PrintDiff) PrintSummary(s harness.Summary) {
	msg := fmt.Sprintf("%d passed, %d failed", s.Passed, s.Failed)
	if s.Errored > 0 {
		msg += fmt.Sprintf(", %d errored", s.Errored)
	}

	if s.OK() {
		p.log.Successf("%s\n", msg)
	} else {
		p.log.Failuref("%s\n", msg)
	}
}
