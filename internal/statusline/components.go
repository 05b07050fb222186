package statusline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/himattm/contextline/internal/colors"
	"github.com/himattm/contextline/internal/config"
	"github.com/himattm/contextline/internal/git"
	"github.com/himattm/contextline/internal/input"
	"github.com/himattm/contextline/internal/tier"
)

const notRepoText = "(not a git repository)"

// costPattern accepts plain decimals only. Anything else is dropped rather
// than passed anywhere near a format string.
var costPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Builder produces one fragment per component. It holds only read-only
// settings; every method depends solely on its arguments.
type Builder struct {
	theme        colors.Theme
	icons        config.Icons
	pools        tier.Pools
	showMessages bool
	showCost     bool
	filesLabel   string
	barWidth     int
	maxNameWidth int

	intn  func(n int) int
	getwd func() (string, error)
}

// NewBuilder snapshots cfg and theme into a Builder
func NewBuilder(cfg config.Config, theme colors.Theme) *Builder {
	return &Builder{
		theme:        theme,
		icons:        cfg.GetIcons(),
		pools:        cfg.Pools(),
		showMessages: cfg.ShowMessages(),
		showCost:     cfg.ShowCost(),
		filesLabel:   cfg.GetFilesLabel(),
		barWidth:     cfg.GetBarWidth(),
		maxNameWidth: cfg.GetMaxNameWidth(),
		getwd:        os.Getwd,
	}
}

// Model renders the model name. An empty name still yields the icon.
func (b *Builder) Model(name string) string {
	return b.icons.Model + " " + colors.Wrap(b.theme.Model, name)
}

// Context renders the usage bar, percentage, token counts and, when
// enabled, the tier message.
func (b *Builder) Context(in input.StatusInput) string {
	pct := in.Percent()
	t := tier.Classify(pct)

	out := fmt.Sprintf("%s %s %s %s",
		b.icons.Context,
		RenderBar(pct, b.barWidth, b.theme),
		colors.Wrap(b.theme.Tiers[t], strconv.Itoa(pct)+"%"),
		colors.Wrap(b.theme.Usage, FormatTokens(in.UsageTokens)+"/"+FormatTokens(max(in.ContextWindowSize, 0))),
	)

	if b.showMessages {
		out += " | " + colors.Wrap(b.theme.Message, b.pools.Pick(t, b.intn))
	}
	return out
}

// Directory renders the basename of dir, or of the process working
// directory when the snapshot had none.
func (b *Builder) Directory(dir string, present bool) string {
	if !present {
		if wd, err := b.getwd(); err == nil {
			dir = wd
		}
	}
	name := filepath.Base(filepath.Clean(dir))
	return b.icons.Directory + " " + colors.Wrap(b.theme.Directory, b.truncate(name))
}

// Git renders the branch with ahead/behind markers, or a caution note when
// there is no repository.
func (b *Builder) Git(status git.Status) string {
	switch s := status.(type) {
	case git.Clean:
		return b.branch(s.Branch, s.Ahead, s.Behind)
	case git.Dirty:
		return b.branch(s.Branch, s.Ahead, s.Behind)
	case git.NotRepo:
		return colors.Wrap(b.theme.Caution, notRepoText)
	default:
		return colors.Wrap(b.theme.Caution, notRepoText)
	}
}

func (b *Builder) branch(name string, ahead, behind int) string {
	out := b.icons.Git + " " + colors.Wrap(b.theme.Branch, b.truncate(name))
	if ahead > 0 {
		out += " " + colors.Wrap(b.theme.Ahead, "↑"+strconv.Itoa(ahead))
	}
	if behind > 0 {
		out += " " + colors.Wrap(b.theme.Behind, "↓"+strconv.Itoa(behind))
	}
	return out
}

// Files renders the changed-file count of a dirty repository. Anything else
// yields an empty fragment.
func (b *Builder) Files(status git.Status) string {
	dirty, ok := status.(git.Dirty)
	if !ok || dirty.Files <= 0 {
		return ""
	}

	label := "changes"
	if b.filesLabel == config.FilesLabelCount {
		label = strconv.Itoa(dirty.Files) + " files"
	}
	out := b.icons.Files + " " + colors.Wrap(b.theme.Files, label)

	if dirty.Lines != nil {
		out += " " + colors.Wrap(b.theme.Added, "+"+strconv.Itoa(dirty.Lines.Added)) +
			" " + colors.Wrap(b.theme.Removed, "-"+strconv.Itoa(dirty.Lines.Removed))
	}
	return out
}

// Cost renders "$X.XX" for a non-zero plain decimal. Disabled, zero, empty
// and non-numeric values all yield an empty fragment.
func (b *Builder) Cost(raw string) string {
	if !b.showCost || !costPattern.MatchString(raw) {
		return ""
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || amount == 0 {
		return ""
	}
	return b.icons.Cost + " " + colors.Wrap(b.theme.Cost, fmt.Sprintf("$%.2f", amount))
}

func (b *Builder) truncate(name string) string {
	if b.maxNameWidth <= 0 {
		return name
	}
	return runewidth.Truncate(name, b.maxNameWidth, "…")
}
