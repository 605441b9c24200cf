package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(rt *Runtime) *Command {
	flagSet := flag.NewFlagSet("print-config", flag.ContinueOnError)
	addScanFlags(flagSet)

	return &Command{
		Flags: flagSet,
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			return execPrintConfig(io, rt, flagSet)
		},
	}
}

func execPrintConfig(io *IO, rt *Runtime, flagSet *flag.FlagSet) error {
	cfg, err := rt.loadConfig(flagSet)
	if err != nil {
		return err
	}

	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("data_dir=" + cfg.DataDirAbs)
	io.Println("label_mode=" + cfg.LabelMode)
	io.Println("ext=" + strings.Join(cfg.Extensions, ","))
	io.Println("encoding=" + cfg.Encoding)
	io.Println("format=" + cfg.Format)
	io.Println("output=" + cfg.OutputPath())
	io.Println("sort=" + strconv.FormatBool(cfg.Sort))

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			io.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_config=" + cfg.Sources.Project)
		}
	}

	return nil
}
