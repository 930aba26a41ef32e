package models

import (
	"regexp"
)

// DigestAlgorithm selects the hash used for content comparison
type DigestAlgorithm string

const (
	// DigestSHA256 compares SHA-256 digests
	DigestSHA256 DigestAlgorithm = "sha256"
	// DigestBLAKE3 compares BLAKE3 digests (faster on large files)
	DigestBLAKE3 DigestAlgorithm = "blake3"
	// DigestMD5 compares MD5 digests (fast, not collision resistant)
	DigestMD5 DigestAlgorithm = "md5"
)

// MatchNothingPattern is the default for exclude patterns: '*' is reserved
// on every supported platform, so no file name can match it.
const MatchNothingPattern = `^\*$`

var identifierRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IsIdentifier reports whether s is usable as a job or variable name
func IsIdentifier(s string) bool {
	return identifierRE.MatchString(s)
}

// Flags holds the behavioral switches of a copy job. Global values are
// the defaults for every job, and each job may override any of them.
type Flags struct {
	Recursive            bool `toml:"recursive" yaml:"recursive"`
	CaseSensitive        bool `toml:"case_sensitive" yaml:"case_sensitive"`
	FollowSymlinks       bool `toml:"follow_symlinks" yaml:"follow_symlinks"`
	Overwrite            bool `toml:"overwrite" yaml:"overwrite"`
	SkipNewer            bool `toml:"skip_newer" yaml:"skip_newer"`
	CheckContent         bool `toml:"check_content" yaml:"check_content"`
	RemoveOthersMatching bool `toml:"remove_others_matching" yaml:"remove_others_matching"`
	CreateDirectories    bool `toml:"create_directories" yaml:"create_directories"`
	KeepStructure        bool `toml:"keep_structure" yaml:"keep_structure"`
	TrashOnDelete        bool `toml:"trash_on_delete" yaml:"trash_on_delete"`
	TrashOnOverwrite     bool `toml:"trash_on_overwrite" yaml:"trash_on_overwrite"`
	HaltOnErrors         bool `toml:"halt_on_errors" yaml:"halt_on_errors"`
}

// DefaultFlags returns the flag values used when the configuration does
// not mention them
func DefaultFlags() Flags {
	return Flags{
		Recursive:            false,
		CaseSensitive:        true,
		FollowSymlinks:       true,
		Overwrite:            true,
		SkipNewer:            true,
		CheckContent:         false,
		RemoveOthersMatching: false,
		CreateDirectories:    true,
		KeepStructure:        true,
		TrashOnDelete:        false,
		TrashOnOverwrite:     false,
		HaltOnErrors:         false,
	}
}

// GlobalConfig is the resolved top level of a configuration file
type GlobalConfig struct {
	Flags

	// ActiveJobs lists the names of the jobs to run, in no particular order
	ActiveJobs []string
	// JobNames lists every job declared in the file, in declaration order
	JobNames []string
	// Variables holds the local variables usable as %{name} in paths
	Variables map[string]string
	// ConfigFile is the absolute path of the configuration file
	ConfigFile string
	// ContentDigest is the hash used when check_content is set
	ContentDigest DigestAlgorithm
}

// IsActive reports whether the named job should run
func (g *GlobalConfig) IsActive(name string) bool {
	for _, n := range g.ActiveJobs {
		if n == name {
			return true
		}
	}
	return false
}

// JobSpec is a fully resolved copy job: no variable or marker is left in
// its paths, and its patterns are already combined into single regular
// expressions.
type JobSpec struct {
	Name string
	// Source and Destination are absolute and end with a path separator
	Source      string
	Destination string

	IncludePattern    string
	ExcludePattern    string
	ExcludeDirPattern string

	Flags
}

// NewJobSpec returns a job with the given name whose flags default to the
// global ones
func NewJobSpec(name string, global Flags) JobSpec {
	return JobSpec{
		Name:              name,
		IncludePattern:    "()",
		ExcludePattern:    MatchNothingPattern,
		ExcludeDirPattern: MatchNothingPattern,
		Flags:             global,
	}
}

// Validate checks that the job can be handed to the engine
func (j *JobSpec) Validate() error {
	if !IsIdentifier(j.Name) {
		return &ValidationError{Field: "Name", Message: "job name must be an identifier"}
	}
	if j.Source == "" {
		return &ValidationError{Field: "Source", Message: "source directory is required"}
	}
	if j.Destination == "" {
		return &ValidationError{Field: "Destination", Message: "destination directory is required"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
