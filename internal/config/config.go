package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/himattm/contextline/internal/logging"
	"github.com/himattm/contextline/internal/tier"
)

const (
	DefaultBarWidth = 15

	FilesLabelCount  = "count"
	FilesLabelStatic = "static"
)

// ConfigError means an explicitly requested config file could not be used.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Config represents the contextline configuration. Pointer fields are unset
// until a layer provides them so later layers only override what they name.
type Config struct {
	Language     string          `yaml:"language,omitempty"`
	Features     Features        `yaml:"features,omitempty"`
	FilesLabel   string          `yaml:"files_label,omitempty"` // "count" or "static"
	Directory    DirectoryConfig `yaml:"directory,omitempty"`
	BarWidth     int             `yaml:"bar_width,omitempty"`
	MaxNameWidth *int            `yaml:"max_name_width,omitempty"` // 0 disables truncation
	Git          GitConfig       `yaml:"git,omitempty"`
	Icons        Icons           `yaml:"icons,omitempty"`
	Messages     MessageConfig   `yaml:"messages,omitempty"`
}

// Features toggles optional parts of the line.
type Features struct {
	Messages   *bool `yaml:"messages,omitempty"`
	Cost       *bool `yaml:"cost,omitempty"`
	LineCounts *bool `yaml:"line_counts,omitempty"`
}

// DirectoryConfig holds the directory validation policy.
type DirectoryConfig struct {
	AllowAbsolute *bool `yaml:"allow_absolute,omitempty"`
}

// GitConfig holds git invocation settings.
type GitConfig struct {
	Timeout string `yaml:"timeout,omitempty"` // duration string, e.g. "200ms"
}

// Icons are the prefixes of each fragment.
type Icons struct {
	Model     string `yaml:"model,omitempty"`
	Context   string `yaml:"context,omitempty"`
	Directory string `yaml:"directory,omitempty"`
	Git       string `yaml:"git,omitempty"`
	Files     string `yaml:"files,omitempty"`
	Cost      string `yaml:"cost,omitempty"`
}

// DefaultIcons returns the stock icon set
func DefaultIcons() Icons {
	return Icons{
		Model:     "🤖",
		Context:   "🧠",
		Directory: "📁",
		Git:       "🌿",
		Files:     "📝",
		Cost:      "💰",
	}
}

// LoadOptions selects the files Load reads.
type LoadOptions struct {
	// ConfigPath replaces the global config file. It must exist.
	ConfigPath string
	// ProjectDir enables <ProjectDir>/.claude/contextline.yaml. Callers pass
	// it only after validating the directory.
	ProjectDir string
}

// ShowMessages reports whether the tier message is shown (default true)
func (c Config) ShowMessages() bool { return boolOr(c.Features.Messages, true) }

// ShowCost reports whether the cost fragment is shown (default true)
func (c Config) ShowCost() bool { return boolOr(c.Features.Cost, true) }

// ShowLineCounts reports whether the extra diff call runs (default false)
func (c Config) ShowLineCounts() bool { return boolOr(c.Features.LineCounts, false) }

// AllowAbsolute reports whether absolute workspace paths are accepted (default false)
func (c Config) AllowAbsolute() bool { return boolOr(c.Directory.AllowAbsolute, false) }

// Lang returns the configured language if it has a built-in set, else en.
func (c Config) Lang() string {
	if HasLanguage(c.Language) {
		return c.Language
	}
	return DefaultLanguage
}

// GetFilesLabel returns "count" or "static"
func (c Config) GetFilesLabel() string {
	if c.FilesLabel == FilesLabelStatic {
		return FilesLabelStatic
	}
	return FilesLabelCount
}

// GetBarWidth returns the progress bar width (default 15)
func (c Config) GetBarWidth() int {
	if c.BarWidth <= 0 {
		return DefaultBarWidth
	}
	return c.BarWidth
}

// GetMaxNameWidth returns the display width branch and directory names are
// truncated to. 0, the default, means names are printed in full.
func (c Config) GetMaxNameWidth() int {
	if c.MaxNameWidth == nil || *c.MaxNameWidth < 0 {
		return 0
	}
	return *c.MaxNameWidth
}

// GitTimeout returns the deadline for all git calls, 0 for none.
func (c Config) GitTimeout() time.Duration {
	if c.Git.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Git.Timeout)
	if err != nil || d < 0 {
		logging.Logger.Debug("invalid git timeout", "value", c.Git.Timeout)
		return 0
	}
	return d
}

// GetIcons returns the icons with defaults filled in
func (c Config) GetIcons() Icons {
	icons := DefaultIcons()
	if c.Icons.Model != "" {
		icons.Model = c.Icons.Model
	}
	if c.Icons.Context != "" {
		icons.Context = c.Icons.Context
	}
	if c.Icons.Directory != "" {
		icons.Directory = c.Icons.Directory
	}
	if c.Icons.Git != "" {
		icons.Git = c.Icons.Git
	}
	if c.Icons.Files != "" {
		icons.Files = c.Icons.Files
	}
	if c.Icons.Cost != "" {
		icons.Cost = c.Icons.Cost
	}
	return icons
}

// Pools returns the message pools for the configured language with any
// per-tier overrides applied.
func (c Config) Pools() tier.Pools {
	pools := builtinPools[c.Lang()]
	custom := c.Messages.pools()
	for _, t := range tier.All() {
		if len(custom[t]) > 0 {
			pools[t] = custom[t]
		}
	}
	return pools
}

// Load reads and merges configuration: global file (or opts.ConfigPath),
// then the project files, then CONTEXTLINE_* environment variables. Missing
// implicit files are skipped and broken ones are logged and skipped.
func Load(opts LoadOptions) (Config, error) {
	cfg, err := LoadFiles(opts)
	if err != nil {
		return Config{}, err
	}
	return ApplyEnv(cfg), nil
}

// LoadFiles merges the config files only, without environment overrides.
func LoadFiles(opts LoadOptions) (Config, error) {
	cfg := Config{}

	if opts.ConfigPath != "" {
		explicit, err := loadFile(opts.ConfigPath)
		if err != nil {
			return Config{}, &ConfigError{Path: opts.ConfigPath, Err: err}
		}
		cfg = mergeCfg(cfg, explicit)
	} else {
		cfg = mergeOptional(cfg, GlobalConfigPath())
	}

	if opts.ProjectDir != "" {
		cfg = MergeProject(cfg, opts.ProjectDir)
	}
	return cfg, nil
}

// MergeProject layers <dir>/.claude/contextline.yaml and then the
// uncommitted <dir>/.claude/contextline.local.yaml over cfg.
func MergeProject(cfg Config, dir string) Config {
	cfg = mergeOptional(cfg, ProjectConfigPath(dir))
	return mergeOptional(cfg, ProjectLocalConfigPath(dir))
}

// GlobalConfigPath returns ~/.claude/contextline.yaml
func GlobalConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".claude", "contextline.yaml")
}

// ProjectConfigPath returns <dir>/.claude/contextline.yaml
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ".claude", "contextline.yaml")
}

// ProjectLocalConfigPath returns <dir>/.claude/contextline.local.yaml
func ProjectLocalConfigPath(dir string) string {
	return filepath.Join(dir, ".claude", "contextline.local.yaml")
}

// EnvFilePath returns ~/.claude/contextline.env
func EnvFilePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".claude", "contextline.env")
}

// LoadEnvFile loads KEY=VALUE pairs from the env file into the process
// environment. Variables that are already set win over the file.
func LoadEnvFile(path string) error {
	if path == "" {
		path = EnvFilePath()
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func mergeOptional(cfg Config, path string) Config {
	overlay, err := loadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Logger.Warn("ignoring config file", "path", path, "error", err)
		}
		return cfg
	}
	logging.Logger.Debug("loaded config file", "path", path)
	return mergeCfg(cfg, overlay)
}

func loadFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

func mergeCfg(base, overlay Config) Config {
	if overlay.Language != "" {
		base.Language = overlay.Language
	}
	if overlay.Features.Messages != nil {
		base.Features.Messages = overlay.Features.Messages
	}
	if overlay.Features.Cost != nil {
		base.Features.Cost = overlay.Features.Cost
	}
	if overlay.Features.LineCounts != nil {
		base.Features.LineCounts = overlay.Features.LineCounts
	}
	if overlay.FilesLabel != "" {
		base.FilesLabel = overlay.FilesLabel
	}
	if overlay.Directory.AllowAbsolute != nil {
		base.Directory.AllowAbsolute = overlay.Directory.AllowAbsolute
	}
	if overlay.BarWidth != 0 {
		base.BarWidth = overlay.BarWidth
	}
	if overlay.MaxNameWidth != nil {
		base.MaxNameWidth = overlay.MaxNameWidth
	}
	if overlay.Git.Timeout != "" {
		base.Git.Timeout = overlay.Git.Timeout
	}
	if overlay.Icons != (Icons{}) {
		base.Icons = mergeIcons(base.Icons, overlay.Icons)
	}
	base.Messages = mergeMessages(base.Messages, overlay.Messages)
	return base
}

func mergeIcons(base, overlay Icons) Icons {
	if overlay.Model != "" {
		base.Model = overlay.Model
	}
	if overlay.Context != "" {
		base.Context = overlay.Context
	}
	if overlay.Directory != "" {
		base.Directory = overlay.Directory
	}
	if overlay.Git != "" {
		base.Git = overlay.Git
	}
	if overlay.Files != "" {
		base.Files = overlay.Files
	}
	if overlay.Cost != "" {
		base.Cost = overlay.Cost
	}
	return base
}

// ApplyEnv overrides settings from CONTEXTLINE_* variables.
func ApplyEnv(cfg Config) Config {
	if lang := os.Getenv("CONTEXTLINE_LANG"); lang != "" {
		cfg.Language = lang
	}
	if v, ok := EnvBool("CONTEXTLINE_MESSAGES"); ok {
		cfg.Features.Messages = &v
	}
	if v, ok := EnvBool("CONTEXTLINE_COST"); ok {
		cfg.Features.Cost = &v
	}
	if v, ok := EnvBool("CONTEXTLINE_LINE_COUNTS"); ok {
		cfg.Features.LineCounts = &v
	}
	if v, ok := EnvBool("CONTEXTLINE_ALLOW_ABSOLUTE"); ok {
		cfg.Directory.AllowAbsolute = &v
	}
	return cfg
}

// EnvBool reads a boolean environment variable; ok is false when unset or
// unparsable.
func EnvBool(key string) (value, ok bool) {
	raw, set := os.LookupEnv(key)
	if !set {
		return false, false
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, false
	}
	return v, true
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Init creates a project config file in dir
func Init(dir string) (string, error) {
	return writeStarter(ProjectConfigPath(dir))
}

// InitGlobal creates the global config file
func InitGlobal() (string, error) {
	return writeStarter(GlobalConfigPath())
}

func writeStarter(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return "", os.ErrExist
	}

	messages := true
	cost := true
	lineCounts := false
	allowAbsolute := true
	maxNameWidth := 0
	cfg := Config{
		Language:     DefaultLanguage,
		Features:     Features{Messages: &messages, Cost: &cost, LineCounts: &lineCounts},
		FilesLabel:   FilesLabelCount,
		Directory:    DirectoryConfig{AllowAbsolute: &allowAbsolute},
		BarWidth:     DefaultBarWidth,
		MaxNameWidth: &maxNameWidth,
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, data, 0644)
}
