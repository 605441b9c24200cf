package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/dataindex/pkg/fs"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	DataDir   string `json:"data_dir"`
	LabelMode string `json:"label_mode"`
	Ext       string `json:"ext"`
	Encoding  string `json:"encoding"`
	Format    string `json:"format"`
	Output    string `json:"output"`
	Sort      bool   `json:"sort,omitempty"`

	// Flag only
	DryRun bool `json:"-"`

	// Resolved (computed, not serialized)
	EffectiveCwd string   `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	DataDirAbs   string   `json:"-"` // Absolute path to the data directory
	Extensions   []string `json:"-"` // Parsed, lower-cased extensions with leading dot

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DataDir:   "docs/data",
		LabelMode: LabelFull,
		Ext:       ".csv,.tsv",
		Encoding:  "utf-8",
		Format:    FormatMap,
		Output:    "index.json",
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".dataindex.json"

// OutputPath returns the absolute path of the index file.
func (c *Config) OutputPath() string {
	return filepath.Join(c.DataDirAbs, c.Output)
}

// Overrides holds values set explicitly on the command line.
// Nil fields leave the file/default value untouched.
type Overrides struct {
	DataDir   *string
	LabelMode *string
	Ext       *string
	Encoding  *string
	Format    *string
	Output    *string
	Sort      *bool
	DryRun    bool
}

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/dataindex/config.json if set, otherwise
// ~/.config/dataindex/config.json. Returns empty string if home directory
// cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "dataindex", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "dataindex", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	FS              fs.FS             // filesystem config files are read from
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Overrides       Overrides         // explicitly set command flags
	Env             map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/dataindex/config.json or $XDG_CONFIG_HOME/dataindex/config.json)
// 3. Project config file at default location (.dataindex.json, if exists)
// 4. Explicit config file via configPath (if non-empty, replaces 3)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths. The data
// directory itself is not checked here; [Build] reports a missing directory.
func LoadConfig(input LoadConfigInput) (Config, error) {
	fsys := input.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := DefaultConfig()

	globalCfg, globalPath, err := loadGlobalConfig(fsys, input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(fsys, workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	cfg = applyOverrides(cfg, input.Overrides)

	cfg.Extensions = ParseExtensions(cfg.Ext)
	cfg.LabelMode = strings.ToLower(strings.TrimSpace(cfg.LabelMode))
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))

	validateErr := validateConfig(cfg)
	if validateErr != nil {
		return Config{}, validateErr
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.DataDir) {
		cfg.DataDirAbs = filepath.Clean(cfg.DataDir)
	} else {
		cfg.DataDirAbs = filepath.Join(workDir, cfg.DataDir)
	}

	return cfg, nil
}

// ParseExtensions splits a comma-separated extension list.
// Entries are trimmed and lower-cased, a missing leading dot is added, and
// empty entries and duplicates are dropped.
func ParseExtensions(list string) []string {
	var exts []string

	seen := make(map[string]bool)

	for _, part := range strings.Split(list, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		if ext == "" || ext == "." {
			continue
		}

		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		if seen[ext] {
			continue
		}

		seen[ext] = true
		exts = append(exts, ext)
	}

	return exts
}

// loadGlobalConfig loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobalConfig(fsys fs.FS, env map[string]string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, explicitEmpty, loaded, err := loadConfigFile(fsys, globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty["data_dir"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, globalCfgPath, ErrDataDirEmpty)
	}

	return globalCfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.dataindex.json) or an explicit config file.
// Returns the config, the path if loaded, and any error.
func loadProjectConfig(fsys fs.FS, workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		// Check existence first to provide a clear "not found" error
		exists, statErr := fsys.Exists(cfgFile)
		if statErr != nil || !exists {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	fileCfg, explicitEmpty, loaded, err := loadConfigFile(fsys, cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty["data_dir"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, cfgFile, ErrDataDirEmpty)
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files return zero config.
// Returns the config, a map of explicitly empty fields, whether file was loaded, and any error.
func loadConfigFile(fsys fs.FS, path string, mustExist bool) (Config, map[string]bool, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return Config{}, nil, false, nil
		}

		if mustExist {
			return Config{}, nil, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, nil, false, nil
	}

	cfg, explicitEmpty, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, nil, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, explicitEmpty, true, nil
}

func parseConfig(data []byte) (Config, map[string]bool, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	// Check which fields were explicitly set to empty
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	if val, exists := raw["data_dir"]; exists {
		if str, ok := val.(string); ok && str == "" {
			explicitEmpty["data_dir"] = true
		}
	}

	return cfg, explicitEmpty, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.LabelMode != "" {
		base.LabelMode = overlay.LabelMode
	}

	if overlay.Ext != "" {
		base.Ext = overlay.Ext
	}

	if overlay.Encoding != "" {
		base.Encoding = overlay.Encoding
	}

	if overlay.Format != "" {
		base.Format = overlay.Format
	}

	if overlay.Output != "" {
		base.Output = overlay.Output
	}

	// A file can turn sorting on; only the --sort flag turns it off again.
	if overlay.Sort {
		base.Sort = true
	}

	return base
}

func applyOverrides(cfg Config, o Overrides) Config {
	if o.DataDir != nil {
		cfg.DataDir = *o.DataDir
	}

	if o.LabelMode != nil {
		cfg.LabelMode = *o.LabelMode
	}

	if o.Ext != nil {
		cfg.Ext = *o.Ext
	}

	if o.Encoding != nil {
		cfg.Encoding = *o.Encoding
	}

	if o.Format != nil {
		cfg.Format = *o.Format
	}

	if o.Output != nil {
		cfg.Output = *o.Output
	}

	if o.Sort != nil {
		cfg.Sort = *o.Sort
	}

	cfg.DryRun = o.DryRun

	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrDataDirEmpty
	}

	switch cfg.LabelMode {
	case LabelFull, LabelParent, LabelTop:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLabelMode, cfg.LabelMode)
	}

	if len(cfg.Extensions) == 0 {
		return fmt.Errorf("%w: %q", ErrNoExtensions, cfg.Ext)
	}

	if _, err := LookupEncoding(cfg.Encoding); err != nil {
		return err
	}

	switch cfg.Format {
	case FormatMap, FormatManifest:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, cfg.Format)
	}

	if cfg.Output == "" || cfg.Output == "." || cfg.Output == ".." ||
		strings.ContainsAny(cfg.Output, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidOutput, cfg.Output)
	}

	return nil
}
