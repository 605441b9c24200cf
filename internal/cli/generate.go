package cli

import (
	"context"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/dataindex/internal/index"
)

// GenerateCmd returns the generate command (the default command).
func GenerateCmd(rt *Runtime) *Command {
	flagSet := flag.NewFlagSet("generate", flag.ContinueOnError)
	addScanFlags(flagSet)
	flagSet.Bool("dry-run", false, "Print JSON to stdout instead of writing the file")

	return &Command{
		Flags: flagSet,
		Usage: "generate [flags]",
		Short: "Write <data-dir>/index.json (default command)",
		Long: `Scan the data directory recursively and write index.json, a mapping from
folder label to the CSV/TSV files in it. Hidden files and folders are skipped.
Paths in the index are POSIX-style and start with "data/".`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			return execGenerate(ctx, io, rt, flagSet)
		},
	}
}

func execGenerate(ctx context.Context, io *IO, rt *Runtime, flagSet *flag.FlagSet) error {
	cfg, err := rt.loadConfig(flagSet)
	if err != nil {
		return err
	}

	log := rt.logger(flagSet)
	defer func() { _ = log.Sync() }()

	res, err := index.Generate(ctx, rt.FS, &cfg, log, rt.Now())
	if err != nil {
		return err
	}

	if res.Doc.Len() == 0 {
		io.Warn(
			fmt.Sprintf("no %s files under %s", strings.Join(cfg.Extensions, ","), cfg.DataDirAbs),
			"check --data-dir and --ext",
		)
	}

	if cfg.DryRun {
		io.Printf("%s", res.Data)

		return nil
	}

	io.Printf("wrote %s (%d files in %d groups)\n", res.Path, res.Doc.Len(), len(res.Doc.Groups))

	return nil
}
