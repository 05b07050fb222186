package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/himattm/contextline/internal/config"
	"github.com/himattm/contextline/internal/git"
	"github.com/himattm/contextline/internal/input"
	"github.com/himattm/contextline/internal/logging"
	"github.com/himattm/contextline/internal/statusline"
	"github.com/himattm/contextline/internal/version"
)

type rootOptions struct {
	configPath    string
	lang          string
	noMessages    bool
	noCost        bool
	lineCounts    bool
	allowAbsolute bool
	debug         bool
	logFile       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "contextline",
		Short: "A fast, color-coded status line for Claude Code",
		Long: `contextline reads the JSON status snapshot Claude Code pipes to its
statusLine command and prints one ANSI-colored line: directory, git branch,
changed files, model, context usage and session cost.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatusLine(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.claude/contextline.yaml)")
	flags.StringVar(&opts.lang, "lang", "", "message language ("+strings.Join(config.Languages(), ", ")+")")
	flags.BoolVar(&opts.noMessages, "no-messages", false, "hide the contextual usage message")
	flags.BoolVar(&opts.noCost, "no-cost", false, "hide the session cost")
	flags.BoolVar(&opts.lineCounts, "line-counts", false, "show added/removed line counts (one extra git call)")
	flags.BoolVar(&opts.allowAbsolute, "allow-absolute", false, "run git in absolute workspace paths")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "write debug logs")
	flags.StringVar(&opts.logFile, "log-file", "", "debug log path (default ~/.claude/contextline/debug.log)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newLanguagesCmd())

	return rootCmd
}

func runStatusLine(cmd *cobra.Command, opts *rootOptions) error {
	envErr := config.LoadEnvFile("")

	debug := opts.debug
	if v, ok := config.EnvBool("CONTEXTLINE_DEBUG"); ok && v {
		debug = true
	}
	logFile := opts.logFile
	if logFile == "" {
		logFile = os.Getenv("CONTEXTLINE_LOG_FILE")
	}
	closer, err := logging.Initialize(debug, logFile)
	if err != nil {
		// A broken log destination must not blank the line.
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	} else {
		defer closer.Close()
	}
	if envErr != nil {
		logging.Logger.Warn("env file ignored", "error", envErr)
	}

	raw, err := input.Read(cmd.InOrStdin())
	if err != nil {
		return err
	}
	in, err := input.Parse(raw)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, opts, in)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := cfg.GitTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	inspector := git.NewInspector(
		git.WithPathPolicy(git.PathPolicy{AllowAbsolute: cfg.AllowAbsolute()}),
		git.WithLineCounts(cfg.ShowLineCounts()),
	)

	line := statusline.New(in, cfg, inspector).Render(ctx)
	fmt.Fprint(cmd.OutOrStdout(), line)
	return nil
}

// loadFiles is swapped in tests to observe file reads.
var loadFiles = config.LoadFiles

// loadConfig resolves global/explicit config, env and flags, then layers the
// project files on top when the workspace directory is acceptable. Each file
// is read once.
func loadConfig(cmd *cobra.Command, opts *rootOptions, in input.StatusInput) (config.Config, error) {
	files, err := loadFiles(config.LoadOptions{ConfigPath: opts.configPath})
	if err != nil {
		return config.Config{}, err
	}
	cfg := applyFlags(cmd, opts, config.ApplyEnv(files))

	policy := git.PathPolicy{AllowAbsolute: cfg.AllowAbsolute()}
	if in.HasCurrentDir && git.ValidateDirectory(in.CurrentDir, policy) {
		files = config.MergeProject(files, in.CurrentDir)
		cfg = applyFlags(cmd, opts, config.ApplyEnv(files))
	}

	logging.Logger.Debug("config resolved",
		"lang", cfg.Lang(),
		"messages", cfg.ShowMessages(),
		"cost", cfg.ShowCost(),
		"line_counts", cfg.ShowLineCounts(),
		"allow_absolute", cfg.AllowAbsolute(),
	)
	return cfg, nil
}

// applyFlags lets explicitly passed flags win over every other layer.
func applyFlags(cmd *cobra.Command, opts *rootOptions, cfg config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("lang") {
		cfg.Language = opts.lang
	}
	if flags.Changed("no-messages") {
		v := !opts.noMessages
		cfg.Features.Messages = &v
	}
	if flags.Changed("no-cost") {
		v := !opts.noCost
		cfg.Features.Cost = &v
	}
	if flags.Changed("line-counts") {
		v := opts.lineCounts
		cfg.Features.LineCounts = &v
	}
	if flags.Changed("allow-absolute") {
		v := opts.allowAbsolute
		cfg.Directory.AllowAbsolute = &v
	}
	return cfg
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "contextline %s\n", version.Version)
		},
	}
}

func newInitCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .claude/contextline.yaml in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				path string
				err  error
			)
			if global {
				path, err = config.InitGlobal()
			} else {
				path, err = config.Init(".")
			}
			if errors.Is(err, os.ErrExist) {
				return fmt.Errorf("config already exists, not overwriting")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "create ~/.claude/contextline.yaml instead")
	return cmd
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the built-in message languages",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, lang := range config.Languages() {
				marker := " "
				if lang == config.DefaultLanguage {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, lang)
			}
		},
	}
}
