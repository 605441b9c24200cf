// Package cli implements the dataindex command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/calvinalkan/dataindex/internal/index"
	"github.com/calvinalkan/dataindex/pkg/fs"
)

const (
	consumedOne    = 1
	consumedTwo    = 2
	consumedNone   = 0
	helpFlag       = "--help"
	defaultCommand = "generate"
)

// Run is the main entry point. Returns exit code.
//
// Global options come first; the first argument that is not a global option
// starts the command. Without a command name (or when the first argument is
// a flag), the generate command runs, so "dataindex --dry-run" works.
// A signal on sigCh cancels the scan.
func Run(_ io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	o := NewIO(out, errOut)

	if len(args) == 0 {
		args = []string{"dataindex"}
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		o.PrintError(err)
		printUsage(errOut, nil)

		return 1
	}

	rt := &Runtime{
		FS:         fs.NewReal(),
		WorkDir:    flags.workDir,
		ConfigPath: flags.configPath,
		Verbose:    flags.verbose,
		Env:        env,
		ErrOut:     errOut,
		Now:        time.Now,
	}

	commands := []*Command{
		GenerateCmd(rt),
		LsCmd(rt),
		PrintConfigCmd(rt),
	}

	if flags.help {
		printUsage(out, commands)

		return 0
	}

	name := defaultCommand
	cmdArgs := flags.remaining

	if len(cmdArgs) > 0 && !strings.HasPrefix(cmdArgs[0], "-") {
		name = cmdArgs[0]
		cmdArgs = cmdArgs[1:]
	}

	cmd := findCommand(commands, name)
	if cmd == nil {
		o.PrintError(fmt.Errorf("unknown command: %s", name))
		printUsage(errOut, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	if code := cmd.Run(ctx, o, cmdArgs); code != 0 {
		return code
	}

	return o.Finish()
}

func findCommand(commands []*Command, name string) *Command {
	for _, c := range commands {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

type globalFlags struct {
	workDir    string
	configPath string
	verbose    bool
	help       bool
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a global flag: the command (or its flags) starts here
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a global flag at args[idx]. Returns number of args
// consumed (0 if not a global flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if arg == "-C" || arg == "--cwd" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", index.ErrFlagRequiresArg, arg)
		}

		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", index.ErrFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// -v/--verbose flag
	if arg == "-v" || arg == "--verbose" {
		flags.verbose = true

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.help = true

		return len(args) - idx, nil
	}

	// Everything else belongs to the command
	return consumedNone, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(writer io.Writer, commands []*Command) {
	fprintln(writer, `dataindex - build the data viewer's index.json

Usage: dataindex [options] [command] [flags]

Options:
  -C, --cwd <dir>        Run as if started in <dir>
  -c, --config <file>    Use specified config file
  -v, --verbose          Log included and skipped files to stderr
  -h, --help             Show help

Commands:`)

	for _, c := range commands {
		fprintln(writer, c.HelpLine())
	}

	fprintln(writer, `
Run "dataindex <command> --help" for command flags.`)
}
