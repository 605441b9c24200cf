package cli

import (
	"context"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/dataindex/internal/index"
)

// LsCmd returns the ls command.
func LsCmd(rt *Runtime) *Command {
	flagSet := flag.NewFlagSet("ls", flag.ContinueOnError)
	addScanFlags(flagSet)

	return &Command{
		Flags: flagSet,
		Usage: "ls [flags]",
		Short: "List what would be indexed",
		Long:  "List labels and their files as the index would contain them. Nothing is written.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			return execLs(ctx, io, rt, flagSet)
		},
	}
}

func execLs(ctx context.Context, io *IO, rt *Runtime, flagSet *flag.FlagSet) error {
	cfg, err := rt.loadConfig(flagSet)
	if err != nil {
		return err
	}

	log := rt.logger(flagSet)
	defer func() { _ = log.Sync() }()

	doc, err := index.Build(ctx, rt.FS, &cfg, log)
	if err != nil {
		return err
	}

	if doc.Len() == 0 {
		io.Warn(
			fmt.Sprintf("no %s files under %s", strings.Join(cfg.Extensions, ","), cfg.DataDirAbs),
			"check --data-dir and --ext",
		)
	}

	for _, g := range doc.Groups {
		io.Println(formatGroupLine(g))

		for _, rec := range g.Records {
			io.Println(formatRecordLine(rec))
		}
	}

	return nil
}

func formatGroupLine(g index.Group) string {
	return fmt.Sprintf("%s (%d)", g.Label, len(g.Records))
}

func formatRecordLine(rec index.Record) string {
	var builder strings.Builder

	builder.WriteString("  ")
	builder.WriteString(rec.Title)
	builder.WriteString(" - ")
	builder.WriteString(rec.Path)

	return builder.String()
}
