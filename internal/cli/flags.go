package cli

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/calvinalkan/dataindex/internal/index"
	"github.com/calvinalkan/dataindex/pkg/fs"
)

// Runtime carries what commands need beyond their own flags.
type Runtime struct {
	FS         fs.FS
	WorkDir    string            // -C/--cwd value, empty for os.Getwd
	ConfigPath string            // -c/--config value
	Verbose    bool              // global -v/--verbose
	Env        map[string]string // environment variables
	ErrOut     io.Writer         // verbose log destination
	Now        func() time.Time
}

// addScanFlags registers the flags shared by every command that resolves
// the index configuration. Defaults shown in help are the built-in ones;
// config files can change them.
func addScanFlags(flagSet *flag.FlagSet) {
	def := index.DefaultConfig()

	flagSet.String("data-dir", def.DataDir, "Directory to scan")
	flagSet.String("label-mode", def.LabelMode, "How to label folders (full|parent|top)")
	flagSet.String("ext", def.Ext, "Comma-separated extensions to include")
	flagSet.String("encoding", def.Encoding, "Encoding for the written index")
	flagSet.String("format", def.Format, "Output shape (map|manifest)")
	flagSet.String("output", def.Output, "Index file name inside the data directory")
	flagSet.Bool("sort", false, "Sort labels and paths instead of walk order")
	flagSet.BoolP("verbose", "v", false, "Log included and skipped files to stderr")
}

func overridesFromFlags(flagSet *flag.FlagSet) index.Overrides {
	var o index.Overrides

	o.DataDir = changedString(flagSet, "data-dir")
	o.LabelMode = changedString(flagSet, "label-mode")
	o.Ext = changedString(flagSet, "ext")
	o.Encoding = changedString(flagSet, "encoding")
	o.Format = changedString(flagSet, "format")
	o.Output = changedString(flagSet, "output")

	if flagSet.Changed("sort") {
		v, _ := flagSet.GetBool("sort")
		o.Sort = &v
	}

	if flagSet.Lookup("dry-run") != nil {
		o.DryRun, _ = flagSet.GetBool("dry-run")
	}

	return o
}

func changedString(flagSet *flag.FlagSet, name string) *string {
	if !flagSet.Changed(name) {
		return nil
	}

	v, _ := flagSet.GetString(name)

	return &v
}

// loadConfig resolves the configuration for a command's parsed flags.
func (rt *Runtime) loadConfig(flagSet *flag.FlagSet) (index.Config, error) {
	return index.LoadConfig(index.LoadConfigInput{
		FS:              rt.FS,
		WorkDirOverride: rt.WorkDir,
		ConfigPath:      rt.ConfigPath,
		Overrides:       overridesFromFlags(flagSet),
		Env:             rt.Env,
	})
}

// logger returns a debug console logger on ErrOut when --verbose is set
// globally or on the command, otherwise a no-op logger.
func (rt *Runtime) logger(flagSet *flag.FlagSet) *zap.Logger {
	verbose, _ := flagSet.GetBool("verbose")
	if !(verbose || rt.Verbose) || rt.ErrOut == nil {
		return zap.NewNop()
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(rt.ErrOut),
		zap.DebugLevel,
	)

	return zap.New(core)
}
