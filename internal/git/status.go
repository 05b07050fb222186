package git

// DetachedHead is the branch label used when HEAD is not on a branch.
const DetachedHead = "detached HEAD"

// Status is the repository state observed for one render. It is one of
// NotRepo, Clean or Dirty.
type Status interface {
	isStatus()
}

// NotRepo means the directory is not inside a work tree, or git could not
// be run there.
type NotRepo struct{}

// Clean is a repository with no changed paths.
type Clean struct {
	Branch string
	Ahead  int
	Behind int
}

// Dirty is a repository with at least one changed path.
type Dirty struct {
	Branch string
	Files  int
	Ahead  int
	Behind int

	// Lines is only set when line counts were requested and the diff
	// succeeded.
	Lines *LineStats
}

// LineStats aggregates git diff --numstat across all changed files.
type LineStats struct {
	Added   int
	Removed int
}

func (NotRepo) isStatus() {}
func (Clean) isStatus()   {}
func (Dirty) isStatus()   {}
