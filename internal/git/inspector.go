package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/himattm/contextline/internal/logging"
)

// Runner executes git with args in dir and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	// Never take index.lock from a status line.
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}

// Inspector determines repository status with at most two git calls.
type Inspector struct {
	runner     Runner
	policy     PathPolicy
	lineCounts bool
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithRunner replaces the git runner.
func WithRunner(r Runner) Option {
	return func(i *Inspector) { i.runner = r }
}

// WithPathPolicy sets the directory validation policy.
func WithPathPolicy(p PathPolicy) Option {
	return func(i *Inspector) { i.policy = p }
}

// WithLineCounts enables the diff call that fills Dirty.Lines.
func WithLineCounts(enabled bool) Option {
	return func(i *Inspector) { i.lineCounts = enabled }
}

// NewInspector creates an Inspector backed by the git binary.
func NewInspector(opts ...Option) *Inspector {
	i := &Inspector{runner: ExecRunner{}}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Inspect returns the status of the repository containing dir. An empty dir
// means the process working directory. Directories failing validation and
// every git failure yield NotRepo.
func (i *Inspector) Inspect(ctx context.Context, dir string) Status {
	if dir != "" && !ValidateDirectory(dir, i.policy) {
		logging.Logger.Debug("directory rejected", "dir", dir)
		return NotRepo{}
	}

	start := time.Now()
	out, err := i.runner.Run(ctx, dir, "status", "--porcelain=v2", "--branch")
	if err != nil {
		logging.Logger.Debug("git status failed", "dir", dir, "error", err)
		return NotRepo{}
	}
	logging.Logger.Debug("git status", "dir", dir, "elapsed", time.Since(start))

	head := parsePorcelain(out)
	if head.files == 0 {
		return Clean{Branch: head.branch, Ahead: head.ahead, Behind: head.behind}
	}

	dirty := Dirty{
		Branch: head.branch,
		Files:  head.files,
		Ahead:  head.ahead,
		Behind: head.behind,
	}
	if i.lineCounts {
		dirty.Lines = i.diffStats(ctx, dir)
	}
	return dirty
}

func (i *Inspector) diffStats(ctx context.Context, dir string) *LineStats {
	out, err := i.runner.Run(ctx, dir, "diff", "--numstat", "HEAD")
	if err != nil {
		// No HEAD yet (fresh repo) lands here too.
		logging.Logger.Debug("git diff failed", "dir", dir, "error", err)
		return nil
	}
	stats := parseNumstat(out)
	return &stats
}

type porcelainHead struct {
	branch string
	ahead  int
	behind int
	files  int
}

// parsePorcelain reads `git status --porcelain=v2 --branch` output. Header
// lines start with "# "; every other non-empty line is one changed path.
func parsePorcelain(out []byte) porcelainHead {
	head := porcelainHead{branch: DetachedHead}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			head.files++
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		switch fields[1] {
		case "branch.head":
			if fields[2] != "(detached)" {
				head.branch = strings.Join(fields[2:], " ")
			}
		case "branch.ab":
			if len(fields) >= 4 {
				head.ahead = parseCount(strings.TrimPrefix(fields[2], "+"))
				head.behind = parseCount(strings.TrimPrefix(fields[3], "-"))
			}
		}
	}
	return head
}

// parseNumstat sums additions and deletions; binary files report "-".
func parseNumstat(out []byte) LineStats {
	var stats LineStats
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		stats.Added += parseCount(fields[0])
		stats.Removed += parseCount(fields[1])
	}
	return stats
}

func parseCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
