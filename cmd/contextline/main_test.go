package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himattm/contextline/internal/colors"
	"github.com/himattm/contextline/internal/config"
	"github.com/himattm/contextline/internal/version"
)

const scenario = `{"model":{"display_name":"Opus"},"workspace":{"current_dir":"/test/project"},"context_window":{"context_window_size":200000,"current_usage":{"input_tokens":50000,"cache_creation_input_tokens":10000,"cache_read_input_tokens":5000}},"cost":{"total_cost_usd":0.15}}`

// isolate keeps the user's config, env file and logs out of the test.
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
		"CONTEXTLINE_DEBUG",
		"CONTEXTLINE_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
	return home
}

func run(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = execute(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestExecute_Scenario(t *testing.T) {
	isolate(t)

	code, stdout, stderr := run(t, scenario)

	require.Equal(t, 0, code, stderr)
	plain := ansi.Strip(stdout)
	assert.Contains(t, plain, "project")
	assert.Contains(t, plain, "not a git repository")
	assert.Contains(t, plain, "32%")
	assert.Contains(t, plain, "$0.15")
	assert.True(t, strings.HasSuffix(stdout, colors.Reset))
	assert.Empty(t, stderr)
}

func TestExecute_EmptyStdin(t *testing.T) {
	isolate(t)

	code, stdout, stderr := run(t, "")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout, "failures never write to stdout")
	assert.Contains(t, stderr, "stdin is empty")
	assert.Contains(t, stderr, "Usage:")
}

func TestExecute_MalformedJSON(t *testing.T) {
	isolate(t)

	code, stdout, stderr := run(t, `{"model": {"display_name": "Opus"`)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "parse")
	assert.NotContains(t, stderr, "Usage:")
}

func TestExecute_Flags(t *testing.T) {
	isolate(t)

	code, stdout, _ := run(t, scenario, "--no-cost", "--no-messages")

	require.Equal(t, 0, code)
	plain := ansi.Strip(stdout)
	assert.NotContains(t, plain, "$0.15")
	assert.True(t, strings.HasSuffix(plain, "32% 65K/200K"), plain)
}

func TestExecute_GlobalConfigAndEnvFile(t *testing.T) {
	home := isolate(t)
	claudeDir := filepath.Join(home, ".claude")
	require.NoError(t, os.MkdirAll(claudeDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(claudeDir, "contextline.yaml"),
		[]byte("messages:\n  low: [\"steady\"]\n"), 0644))
	// The env file only fills variables that are not already set.
	os.Unsetenv("CONTEXTLINE_COST")
	t.Cleanup(func() { os.Unsetenv("CONTEXTLINE_COST") })
	require.NoError(t, os.WriteFile(filepath.Join(claudeDir, "contextline.env"),
		[]byte("CONTEXTLINE_COST=false\n"), 0644))

	code, stdout, stderr := run(t, scenario)

	require.Equal(t, 0, code, stderr)
	plain := ansi.Strip(stdout)
	assert.True(t, strings.HasSuffix(plain, "32% 65K/200K | steady"), plain)
	assert.NotContains(t, plain, "$0.15")
}

func TestExecute_ProjectConfigLoadsFilesOnce(t *testing.T) {
	home := isolate(t)
	t.Setenv("CONTEXTLINE_ALLOW_ABSOLUTE", "true")
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".claude", "contextline.yaml"),
		[]byte("messages:\n  low: [\"global\"]\n"), 0644))

	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".claude"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(project, ".claude", "contextline.yaml"),
		[]byte("messages:\n  low: [\"project\"]\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, ".claude", "contextline.local.yaml"),
		[]byte("features:\n  cost: false\n"), 0644))

	calls := 0
	orig := loadFiles
	loadFiles = func(opts config.LoadOptions) (config.Config, error) {
		calls++
		return orig(opts)
	}
	t.Cleanup(func() { loadFiles = orig })

	stdin := strings.Replace(scenario, "/test/project", project, 1)
	code, stdout, stderr := run(t, stdin)

	require.Equal(t, 0, code, stderr)
	assert.Equal(t, 1, calls)
	plain := ansi.Strip(stdout)
	assert.Contains(t, plain, "32% 65K/200K | project")
	assert.NotContains(t, plain, "$0.15", "local project file applies")
}

func TestExecute_MissingExplicitConfig(t *testing.T) {
	isolate(t)

	code, stdout, stderr := run(t, scenario, "--config", filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "nope.yaml")
}

func TestExecute_DebugLog(t *testing.T) {
	isolate(t)
	logFile := filepath.Join(t.TempDir(), "debug.log")

	code, _, stderr := run(t, scenario, "--debug", "--log-file", logFile)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "config resolved")
	assert.Contains(t, string(data), "directory rejected")
}

func TestExecute_Version(t *testing.T) {
	isolate(t)

	code, stdout, _ := run(t, "", "version")

	assert.Equal(t, 0, code)
	assert.Equal(t, "contextline "+version.Version+"\n", stdout)
}

func TestExecute_Languages(t *testing.T) {
	isolate(t)

	code, stdout, _ := run(t, "", "languages")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "* en")
	assert.Contains(t, stdout, "  ja")
}

func TestExecute_InitGlobal(t *testing.T) {
	home := isolate(t)

	code, stdout, stderr := run(t, "", "init", "--global")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "contextline.yaml")
	assert.FileExists(t, filepath.Join(home, ".claude", "contextline.yaml"))

	code, _, stderr = run(t, "", "init", "--global")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already exists")
}

func TestExecute_RejectsArgs(t *testing.T) {
	isolate(t)

	code, stdout, _ := run(t, scenario, "unexpected")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
}
