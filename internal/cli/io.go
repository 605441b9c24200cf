package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// IO handles command output and keeps warnings visible.
type IO struct {
	out      io.Writer
	errOut   io.Writer
	warnings []string
	started  bool

	errorLabel string
	warnLabel  string
}

// NewIO creates a new IO instance. Labels on stderr are colored when errOut
// is a terminal.
func NewIO(out, errOut io.Writer) *IO {
	o := &IO{
		out:        out,
		errOut:     errOut,
		errorLabel: "error:",
		warnLabel:  "warning:",
	}

	if isTerminal(errOut) {
		red := color.New(color.FgRed, color.Bold)
		red.EnableColor()

		yellow := color.New(color.FgYellow, color.Bold)
		yellow.EnableColor()

		o.errorLabel = red.Sprint("error:")
		o.warnLabel = yellow.Sprint("warning:")
	}

	return o
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Warn adds a warning.
//
// Parameters:
//   - issue: what went wrong
//   - action: what the user should do about it
//
// Warnings are printed to stderr at both the START and END of output,
// so they stay visible when stdout is piped through head or tail.
// Warnings do not change the exit code.
func (o *IO) Warn(issue string, action string) {
	o.warnings = append(o.warnings, fmt.Sprintf("%s: %s", issue, action))
}

// Println writes to stdout. On first call, any collected warnings
// are printed to stderr first.
func (o *IO) Println(a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout. On first call, any collected
// warnings are printed to stderr first.
func (o *IO) Printf(format string, a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// PrintError writes "error: <err>" to stderr.
func (o *IO) PrintError(err error) {
	_, _ = fmt.Fprintln(o.errOut, o.errorLabel, err)
}

// Finish prints warnings to stderr and returns exit code 0.
func (o *IO) Finish() int {
	// If no output happened but we have warnings, print them at "start" position
	o.flushWarningsStart()

	// Always print at end
	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, o.warnLabel, w)
	}

	return 0
}

func (o *IO) flushWarningsStart() {
	if !o.started && len(o.warnings) > 0 {
		for _, w := range o.warnings {
			_, _ = fmt.Fprintln(o.errOut, o.warnLabel, w)
		}
	}

	o.started = true
}
