package statusline

import (
	"context"
	"strings"

	"github.com/himattm/contextline/internal/colors"
	"github.com/himattm/contextline/internal/config"
	"github.com/himattm/contextline/internal/git"
	"github.com/himattm/contextline/internal/input"
	"github.com/himattm/contextline/internal/logging"
)

// Inspector reports repository state for a directory.
type Inspector interface {
	Inspect(ctx context.Context, dir string) git.Status
}

// StatusLine handles rendering the status line
type StatusLine struct {
	input     input.StatusInput
	builder   *Builder
	inspector Inspector
}

// New creates a new StatusLine renderer
func New(in input.StatusInput, cfg config.Config, inspector Inspector) *StatusLine {
	return &StatusLine{
		input:     in,
		builder:   NewBuilder(cfg, colors.DefaultTheme()),
		inspector: inspector,
	}
}

// Render inspects git once and assembles the line
func (sl *StatusLine) Render(ctx context.Context) string {
	dir := ""
	if sl.input.HasCurrentDir {
		dir = sl.input.CurrentDir
	}
	status := sl.inspector.Inspect(ctx, dir)
	logging.Logger.Debug("git state", "status", statusName(status))

	b := sl.builder
	return Assemble(Fragments{
		Directory: b.Directory(sl.input.CurrentDir, sl.input.HasCurrentDir),
		Git:       b.Git(status),
		Files:     b.Files(status),
		Model:     b.Model(sl.input.ModelName),
		Context:   b.Context(sl.input),
		Cost:      b.Cost(sl.input.Cost),
	})
}

// Assemble joins fragments in the fixed order directory, git, files, model,
// context, cost with the gray separator, skipping empty ones, and ends the
// line with a reset.
func Assemble(f Fragments) string {
	ordered := []string{f.Directory, f.Git, f.Files, f.Model, f.Context, f.Cost}

	parts := make([]string, 0, len(ordered))
	for _, frag := range ordered {
		if frag != "" {
			parts = append(parts, frag)
		}
	}

	return strings.Join(parts, colors.Separator()) + colors.Reset
}

func statusName(s git.Status) string {
	switch s.(type) {
	case git.Clean:
		return "clean"
	case git.Dirty:
		return "dirty"
	default:
		return "not_repo"
	}
}
