package config

import (
	"path/filepath"
	"strings"

	"github.com/sdejongh/copyjob/pkg/models"
)

// Top-level keys of a configuration document
const (
	KeyActiveJobs    = "active_jobs"
	KeyVariables     = "variables"
	KeyContentDigest = "content_digest"
	KeyJob           = "job"
)

// Keys of a job table
const (
	KeyName               = "name"
	KeySource             = "source"
	KeyDestination        = "destination"
	KeyPatternsInclude    = "patterns_include"
	KeyPatternsExclude    = "patterns_exclude"
	KeyPatternsExcludeDir = "patterns_exclude_dir"
)

// flagKeys maps every flag name to its field in models.Flags. The same
// names are accepted at top level and inside job tables.
var flagKeys = map[string]func(*models.Flags) *bool{
	"recursive":              func(f *models.Flags) *bool { return &f.Recursive },
	"case_sensitive":         func(f *models.Flags) *bool { return &f.CaseSensitive },
	"follow_symlinks":        func(f *models.Flags) *bool { return &f.FollowSymlinks },
	"overwrite":              func(f *models.Flags) *bool { return &f.Overwrite },
	"skip_newer":             func(f *models.Flags) *bool { return &f.SkipNewer },
	"check_content":          func(f *models.Flags) *bool { return &f.CheckContent },
	"remove_others_matching": func(f *models.Flags) *bool { return &f.RemoveOthersMatching },
	"create_directories":     func(f *models.Flags) *bool { return &f.CreateDirectories },
	"keep_structure":         func(f *models.Flags) *bool { return &f.KeepStructure },
	"trash_on_delete":        func(f *models.Flags) *bool { return &f.TrashOnDelete },
	"trash_on_overwrite":     func(f *models.Flags) *bool { return &f.TrashOnOverwrite },
	"halt_on_errors":         func(f *models.Flags) *bool { return &f.HaltOnErrors },
}

// DefaultDigest is the content digest used when none is configured
const DefaultDigest = models.DigestSHA256

var validDigests = map[models.DigestAlgorithm]bool{
	models.DigestSHA256: true,
	models.DigestBLAKE3: true,
	models.DigestMD5:    true,
}

// Format is the syntax of a configuration document
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document syntax from the file extension.
// Anything that is not .yaml or .yml is read as TOML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// ParseFormat validates a user supplied format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatTOML:
		return FormatTOML, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", &models.ValidationError{
		Field:   "format",
		Message: "must be 'toml' or 'yaml'",
	}
}

// Error reports an invalid configuration. Key names the offending entry,
// job keys being prefixed with "job/"; it is empty when the document as a
// whole could not be read or parsed.
type Error struct {
	Key string
	Err error
}

func (e *Error) Error() string {
	msg := models.AppInvalidConfig.String()
	if e.Key != "" {
		msg += ":" + e.Key
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns the application code carried by every configuration error
func (e *Error) Code() models.AppCode { return models.AppInvalidConfig }

func invalid(key string) error {
	return &Error{Key: key}
}

func jobKey(key string) string {
	return KeyJob + "/" + key
}
