package sync

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/sdejongh/copyjob/pkg/models"
)

var matchNothing = regexp.MustCompile(models.MatchNothingPattern)

// Matchers holds the compiled file filters of a job
type Matchers struct {
	Include    *regexp.Regexp
	Exclude    *regexp.Regexp
	ExcludeDir *regexp.Regexp
}

// CompilePatterns compiles the include, exclude and exclude-dir patterns
// of a job. Include and exclude must match a whole file name; the
// exclude-dir pattern must match whole components of a forward-slash
// relative directory. A pattern that does not compile is replaced by one
// that matches nothing: the returned Matchers are always usable, and the
// error lists the patterns that were replaced.
func CompilePatterns(include, exclude, excludeDir string, caseSensitive bool) (Matchers, error) {
	flags := ""
	if !caseSensitive {
		flags = "(?i)"
	}

	var errs []error
	compile := func(kind, anchored string) *regexp.Regexp {
		re, err := regexp.Compile(flags + anchored)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s pattern: %w", kind, err))
			return matchNothing
		}
		return re
	}

	m := Matchers{
		Include:    compile("include", "^(?:"+include+")$"),
		Exclude:    compile("exclude", "^(?:"+exclude+")$"),
		ExcludeDir: compile("exclude_dir", "(?:^|/)(?:"+excludeDir+")(?:/|$)"),
	}

	return m, errors.Join(errs...)
}

// MatchName reports whether a file name passes the include and exclude
// filters
func (m Matchers) MatchName(name string) bool {
	return m.Include.MatchString(name) && !m.Exclude.MatchString(name)
}

// ExcludesDir reports whether a relative directory is excluded. The root
// directory itself (empty relDir) is never excluded.
func (m Matchers) ExcludesDir(relDir string) bool {
	if relDir == "" {
		return false
	}
	return m.ExcludeDir.MatchString(relDir)
}
