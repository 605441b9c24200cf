package index

import "errors"

// Label modes.
const (
	LabelFull   = "full"
	LabelParent = "parent"
	LabelTop    = "top"
)

// Output formats.
const (
	FormatMap      = "map"
	FormatManifest = "manifest"
)

// RootLabel is the label for files directly inside the data directory.
const RootLabel = "(root)"

// Error variables for configuration and indexing.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrFlagRequiresArg    = errors.New("flag requires an argument")
	ErrUnknownFlag        = errors.New("unknown flag")
	ErrDataDirEmpty       = errors.New("data-dir cannot be empty")
	ErrDataDirNotFound    = errors.New("data-dir not found")
	ErrDataDirNotDir      = errors.New("data-dir is not a directory")
	ErrInvalidLabelMode   = errors.New("invalid label mode (want full|parent|top)")
	ErrNoExtensions       = errors.New("no file extensions to include")
	ErrUnknownEncoding    = errors.New("unknown encoding")
	ErrInvalidFormat      = errors.New("invalid format (want map|manifest)")
	ErrInvalidOutput      = errors.New("output must be a plain file name")
	ErrEncodeFailed       = errors.New("cannot encode index")
	ErrInvalidFileName    = errors.New("file name is not valid UTF-8")
)
