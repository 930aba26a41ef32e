package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/sdejongh/copyjob/internal/platform"
)

var (
	localVarRE = regexp.MustCompile(`%\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)
	envVarRE   = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)
)

// maxExpansionPasses bounds the rescans done after a substitution.
// Mentions still present afterwards are dropped.
const maxExpansionPasses = 16

// Expander turns the source and destination strings of a job into
// directory paths.
type Expander struct {
	// Variables holds the configuration's local variables
	Variables map[string]string
	// LookupEnv resolves environment variables; nil means os.LookupEnv
	LookupEnv func(string) (string, bool)
	// Home replaces a leading "~" marker
	Home string
	// ConfigDir replaces a leading "@" marker
	ConfigDir string
}

// NewExpander returns an expander that reads the process environment
func NewExpander(vars map[string]string, configDir string) *Expander {
	return &Expander{
		Variables: vars,
		LookupEnv: os.LookupEnv,
		Home:      platform.HomeDir(),
		ConfigDir: configDir,
	}
}

// Expand substitutes %{local} variables, then ${ENV} variables, then the
// leading ~ and @ markers, and finally normalizes the result into a
// directory path with a trailing separator. Undefined variables expand to
// the empty string.
func (e *Expander) Expand(s string) string {
	s = substitute(localVarRE, s, func(name string) string {
		return e.Variables[name]
	})

	lookup := e.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	s = substitute(envVarRE, s, func(name string) string {
		v, _ := lookup(name)
		return v
	})

	s = e.replaceMarkers(s)

	return platform.NormalizeDir(s)
}

func substitute(re *regexp.Regexp, s string, value func(string) string) string {
	for i := 0; i < maxExpansionPasses && re.MatchString(s); i++ {
		s = re.ReplaceAllStringFunc(s, func(mention string) string {
			return value(re.FindStringSubmatch(mention)[1])
		})
	}
	return re.ReplaceAllLiteralString(s, "")
}

// replaceMarkers keeps the separator that follows the marker
func (e *Expander) replaceMarkers(s string) string {
	switch {
	case strings.HasPrefix(s, "~/"), strings.HasPrefix(s, `~\`):
		return e.Home + s[1:]
	case strings.HasPrefix(s, "@/"), strings.HasPrefix(s, `@\`):
		return e.ConfigDir + s[1:]
	}
	return s
}
