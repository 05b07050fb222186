package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himattm/contextline/internal/tier"
)

// isolate points HOME at a temp dir and blanks every CONTEXTLINE_ variable.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"CONTEXTLINE_LANG",
		"CONTEXTLINE_MESSAGES",
		"CONTEXTLINE_COST",
		"CONTEXTLINE_LINE_COUNTS",
		"CONTEXTLINE_ALLOW_ABSOLUTE",
	} {
		t.Setenv(key, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.True(t, cfg.ShowMessages())
	assert.True(t, cfg.ShowCost())
	assert.False(t, cfg.ShowLineCounts())
	assert.False(t, cfg.AllowAbsolute())
	assert.Equal(t, "en", cfg.Lang())
	assert.Equal(t, FilesLabelCount, cfg.GetFilesLabel())
	assert.Equal(t, DefaultBarWidth, cfg.GetBarWidth())
	assert.Equal(t, 0, cfg.GetMaxNameWidth(), "names are not truncated unless configured")
	assert.Equal(t, time.Duration(0), cfg.GitTimeout())
	assert.Equal(t, DefaultIcons(), cfg.GetIcons())
}

func TestLoad_GlobalThenProject(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".claude", "contextline.yaml"), `
language: es
features:
  messages: false
  cost: false
bar_width: 20
icons:
  git: "G"
`)

	project := t.TempDir()
	writeFile(t, filepath.Join(project, ".claude", "contextline.yaml"), `
features:
  cost: true
files_label: static
icons:
  model: "M"
`)

	cfg, err := Load(LoadOptions{ProjectDir: project})
	require.NoError(t, err)

	assert.Equal(t, "es", cfg.Lang())
	assert.False(t, cfg.ShowMessages(), "global value kept when project is silent")
	assert.True(t, cfg.ShowCost(), "project overrides global")
	assert.Equal(t, 20, cfg.GetBarWidth())
	assert.Equal(t, FilesLabelStatic, cfg.GetFilesLabel())

	icons := cfg.GetIcons()
	assert.Equal(t, "G", icons.Git)
	assert.Equal(t, "M", icons.Model)
	assert.Equal(t, DefaultIcons().Cost, icons.Cost)
}

func TestLoad_ProjectLocalOverridesProject(t *testing.T) {
	isolate(t)
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ".claude", "contextline.yaml"), "language: es\nbar_width: 10\n")
	writeFile(t, filepath.Join(project, ".claude", "contextline.local.yaml"), "bar_width: 30\n")

	cfg, err := Load(LoadOptions{ProjectDir: project})
	require.NoError(t, err)

	assert.Equal(t, "es", cfg.Lang())
	assert.Equal(t, 30, cfg.GetBarWidth())
}

func TestLoadFiles_IgnoresEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("CONTEXTLINE_LANG", "ja")

	files, err := LoadFiles(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "en", files.Lang())

	assert.Equal(t, "ja", ApplyEnv(files).Lang())
}

func TestMergeProject_EnvStillWins(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".claude", "contextline.yaml"), "language: zh\n")
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ".claude", "contextline.yaml"), "language: es\nfiles_label: static\n")
	t.Setenv("CONTEXTLINE_LANG", "ja")

	files, err := LoadFiles(LoadOptions{})
	require.NoError(t, err)
	cfg := ApplyEnv(MergeProject(files, project))

	assert.Equal(t, "ja", cfg.Lang())
	assert.Equal(t, FilesLabelStatic, cfg.GetFilesLabel())
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".claude", "contextline.yaml"), "features:\n  messages: true\n")
	t.Setenv("CONTEXTLINE_MESSAGES", "false")
	t.Setenv("CONTEXTLINE_LANG", "ja")
	t.Setenv("CONTEXTLINE_ALLOW_ABSOLUTE", "1")
	t.Setenv("CONTEXTLINE_LINE_COUNTS", "true")
	t.Setenv("CONTEXTLINE_COST", "maybe")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.False(t, cfg.ShowMessages())
	assert.Equal(t, "ja", cfg.Lang())
	assert.True(t, cfg.AllowAbsolute())
	assert.True(t, cfg.ShowLineCounts())
	assert.True(t, cfg.ShowCost(), "unparsable values are ignored")
}

func TestLoad_BrokenImplicitFileIsSkipped(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".claude", "contextline.yaml"), "features: [not, a, map")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.True(t, cfg.ShowMessages())
}

func TestLoad_ExplicitPathMustWork(t *testing.T) {
	isolate(t)

	_, err := Load(LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_ExplicitPathReplacesGlobal(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".claude", "contextline.yaml"), "language: zh\n")
	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, explicit, "bar_width: 8\n")

	cfg, err := Load(LoadOptions{ConfigPath: explicit})
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.Lang())
	assert.Equal(t, 8, cfg.GetBarWidth())
}

func TestConfig_Pools(t *testing.T) {
	t.Run("unknown language falls back to en", func(t *testing.T) {
		cfg := Config{Language: "klingon"}
		assert.Equal(t, builtinPools["en"], cfg.Pools())
	})

	t.Run("overrides replace single tiers", func(t *testing.T) {
		cfg := Config{
			Language: "en",
			Messages: MessageConfig{Critical: []string{"stop"}},
		}
		pools := cfg.Pools()
		assert.Equal(t, []string{"stop"}, pools[tier.Critical])
		assert.Equal(t, builtinPools["en"][tier.Low], pools[tier.Low])
		assert.NotEqual(t, []string{"stop"}, builtinPools["en"][tier.Critical], "built-in pools are never mutated")
	})

	t.Run("every built-in tier is non-empty", func(t *testing.T) {
		for _, lang := range Languages() {
			pools := Config{Language: lang}.Pools()
			for _, tr := range tier.All() {
				assert.NotEmpty(t, pools[tr], "%s/%s", lang, tr)
			}
		}
	})
}

func TestConfig_MaxNameWidth(t *testing.T) {
	zero := 0
	assert.Equal(t, 0, Config{MaxNameWidth: &zero}.GetMaxNameWidth())
	neg := -4
	assert.Equal(t, 0, Config{MaxNameWidth: &neg}.GetMaxNameWidth())
	width := 24
	assert.Equal(t, 24, Config{MaxNameWidth: &width}.GetMaxNameWidth())
}

func TestConfig_GitTimeout(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, Config{Git: GitConfig{Timeout: "200ms"}}.GitTimeout())
	assert.Equal(t, time.Duration(0), Config{Git: GitConfig{Timeout: "soon"}}.GitTimeout())
}

func TestLoadEnvFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "contextline.env")
	writeFile(t, path, "CONTEXTLINE_LANG=zh\nCONTEXTLINE_COST=false\n")
	t.Setenv("CONTEXTLINE_COST", "true")
	// godotenv only fills unset variables; t.Setenv("", ...) above counts as set.
	os.Unsetenv("CONTEXTLINE_LANG")
	t.Cleanup(func() { os.Unsetenv("CONTEXTLINE_LANG") })

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "zh", os.Getenv("CONTEXTLINE_LANG"))
	assert.Equal(t, "true", os.Getenv("CONTEXTLINE_COST"), "existing variables win")
}

func TestLoadEnvFile_MissingIsFine(t *testing.T) {
	isolate(t)
	assert.NoError(t, LoadEnvFile(""))
}

func TestInit_WritesLoadableStarter(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	path, err := Init(dir)
	require.NoError(t, err)
	assert.Equal(t, ProjectConfigPath(dir), path)

	cfg, err := Load(LoadOptions{ConfigPath: path})
	require.NoError(t, err)
	assert.True(t, cfg.AllowAbsolute())
	assert.Equal(t, DefaultBarWidth, cfg.GetBarWidth())

	_, err = Init(dir)
	assert.True(t, errors.Is(err, os.ErrExist))
}

func TestInitGlobal(t *testing.T) {
	home := isolate(t)

	path, err := InitGlobal()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".claude", "contextline.yaml"), path)
	assert.FileExists(t, path)
}
