package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sdejongh/copyjob/pkg/models"
)

// document mirrors the on-disk layout for rendering a resolved
// configuration
type document struct {
	ActiveJobs    []string          `toml:"active_jobs" yaml:"active_jobs"`
	Variables     map[string]string `toml:"variables,omitempty" yaml:"variables,omitempty"`
	ContentDigest string            `toml:"content_digest" yaml:"content_digest"`
	models.Flags  `yaml:",inline"`
	Jobs          []jobDocument `toml:"job" yaml:"job"`
}

type jobDocument struct {
	Name               string   `toml:"name" yaml:"name"`
	Source             string   `toml:"source" yaml:"source"`
	Destination        string   `toml:"destination" yaml:"destination"`
	PatternsInclude    []string `toml:"patterns_include,omitempty" yaml:"patterns_include,omitempty"`
	PatternsExclude    []string `toml:"patterns_exclude,omitempty" yaml:"patterns_exclude,omitempty"`
	PatternsExcludeDir []string `toml:"patterns_exclude_dir,omitempty" yaml:"patterns_exclude_dir,omitempty"`
	models.Flags       `yaml:",inline"`
}

// Dump writes the resolved configuration in the given format. Paths are
// written expanded and every job carries its effective flags, so the
// output loads back into the same jobs.
func Dump(w io.Writer, global *models.GlobalConfig, jobs []models.JobSpec, format Format) error {
	doc := document{
		ActiveJobs:    global.ActiveJobs,
		Variables:     global.Variables,
		ContentDigest: string(global.ContentDigest),
		Flags:         global.Flags,
	}
	if len(doc.Variables) == 0 {
		doc.Variables = nil
	}

	for _, j := range jobs {
		jd := jobDocument{
			Name:        j.Name,
			Source:      j.Source,
			Destination: j.Destination,
			Flags:       j.Flags,
		}
		if j.IncludePattern != "()" {
			jd.PatternsInclude = []string{j.IncludePattern}
		}
		if j.ExcludePattern != models.MatchNothingPattern {
			jd.PatternsExclude = []string{j.ExcludePattern}
		}
		if j.ExcludeDirPattern != models.MatchNothingPattern {
			jd.PatternsExcludeDir = []string{j.ExcludeDirPattern}
		}
		doc.Jobs = append(doc.Jobs, jd)
	}

	switch format {
	case FormatYAML:
		return encodeYAML(w, doc)
	default:
		return encodeTOML(w, doc)
	}
}

// SaveToFile writes the resolved configuration to path, picking the format
// from the file extension
func SaveToFile(global *models.GlobalConfig, jobs []models.JobSpec, path string) error {
	var buf bytes.Buffer
	if err := Dump(&buf, global, jobs, FormatFromPath(path)); err != nil {
		return err
	}

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
