package git

import (
	"path/filepath"
	"strings"
)

// shellMetaChars are rejected outright since the directory ends up as a
// subprocess working directory.
const shellMetaChars = "$`;"

// PathPolicy controls which directories the inspector may run git in.
type PathPolicy struct {
	// AllowAbsolute accepts paths such as /home/me/project. Rejected by
	// default.
	AllowAbsolute bool
}

// ValidateDirectory reports whether dir is safe to hand to git.
//
// Rejected:
//   - any ".." path segment
//   - a leading "~"
//   - the characters $, ` and ;
//   - absolute paths, unless the policy allows them
func ValidateDirectory(dir string, policy PathPolicy) bool {
	if dir == "" {
		return false
	}
	if strings.HasPrefix(dir, "~") {
		return false
	}
	if strings.ContainsAny(dir, shellMetaChars) {
		return false
	}
	for _, seg := range strings.FieldsFunc(dir, isPathSeparator) {
		if seg == ".." {
			return false
		}
	}
	if !policy.AllowAbsolute && (filepath.IsAbs(dir) || strings.HasPrefix(dir, "/")) {
		return false
	}
	return true
}

func isPathSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
