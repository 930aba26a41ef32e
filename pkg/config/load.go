package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sdejongh/copyjob/internal/platform"
	"github.com/sdejongh/copyjob/pkg/models"
)

// Load reads and resolves a configuration file. The returned jobs are all
// the jobs the file declares, in declaration order, with every path
// expanded and every flag resolved against the global defaults.
func Load(path string) (*models.GlobalConfig, []models.JobSpec, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, &Error{Err: err}
	}
	abs, _ = platform.Canonical(abs)

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, nil, &Error{Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	return Parse(data, FormatFromPath(abs), abs, nil)
}

// Parse resolves an in-memory configuration document. configFile is used
// for the "@" marker and reported in the global configuration; expander
// may be nil, in which case one reading the process environment is used.
func Parse(data []byte, format Format, configFile string, expander *Expander) (*models.GlobalConfig, []models.JobSpec, error) {
	var (
		doc map[string]any
		err error
	)
	switch format {
	case FormatYAML:
		doc, err = decodeYAML(data)
	default:
		doc, err = decodeTOML(data)
	}
	if err != nil {
		return nil, nil, &Error{Err: err}
	}

	global := &models.GlobalConfig{
		Flags:         models.DefaultFlags(),
		Variables:     make(map[string]string),
		ConfigFile:    configFile,
		ContentDigest: DefaultDigest,
	}

	for key := range doc {
		if !isGlobalKey(key) {
			return nil, nil, invalid(key)
		}
	}

	active, ok := doc[KeyActiveJobs]
	if !ok {
		return nil, nil, invalid(KeyActiveJobs)
	}
	if global.ActiveJobs, err = stringList(active, KeyActiveJobs); err != nil {
		return nil, nil, err
	}

	if raw, ok := doc[KeyVariables]; ok {
		table, isTable := raw.(map[string]any)
		if !isTable {
			return nil, nil, invalid(KeyVariables)
		}
		for name, v := range table {
			s, isString := v.(string)
			if !isString || !models.IsIdentifier(name) {
				return nil, nil, invalid(KeyVariables)
			}
			global.Variables[name] = s
		}
	}

	if err := applyFlags(doc, &global.Flags); err != nil {
		return nil, nil, err
	}

	if raw, ok := doc[KeyContentDigest]; ok {
		s, isString := raw.(string)
		if !isString || !validDigests[models.DigestAlgorithm(strings.ToLower(s))] {
			return nil, nil, invalid(KeyContentDigest)
		}
		global.ContentDigest = models.DigestAlgorithm(strings.ToLower(s))
	}

	if expander == nil {
		expander = NewExpander(global.Variables, filepath.Dir(configFile))
	} else if expander.Variables == nil {
		expander.Variables = global.Variables
	}

	var jobs []models.JobSpec
	if raw, ok := doc[KeyJob]; ok {
		list, isList := raw.([]any)
		if !isList {
			return nil, nil, invalid(KeyJob)
		}
		for _, elem := range list {
			table, isTable := elem.(map[string]any)
			if !isTable {
				return nil, nil, invalid(KeyJob)
			}
			job, err := parseJob(table, global.Flags, expander)
			if err != nil {
				return nil, nil, err
			}
			for _, name := range global.JobNames {
				if name == job.Name {
					return nil, nil, invalid(jobKey(KeyName))
				}
			}
			global.JobNames = append(global.JobNames, job.Name)
			jobs = append(jobs, job)
		}
	}

	for _, name := range global.ActiveJobs {
		found := false
		for _, declared := range global.JobNames {
			if declared == name {
				found = true
				break
			}
		}
		if !found {
			return nil, nil, invalid(KeyActiveJobs)
		}
	}

	return global, jobs, nil
}

func parseJob(table map[string]any, defaults models.Flags, expander *Expander) (models.JobSpec, error) {
	job := models.NewJobSpec("", defaults)

	for key, raw := range table {
		switch key {
		case KeyName:
			s, ok := raw.(string)
			if !ok || !models.IsIdentifier(s) {
				return job, invalid(jobKey(key))
			}
			job.Name = s
		case KeySource, KeyDestination:
			s, ok := raw.(string)
			if !ok {
				return job, invalid(jobKey(key))
			}
			if err := platform.ValidatePath(s); err != nil {
				return job, &Error{Key: jobKey(key), Err: err}
			}
			if key == KeySource {
				job.Source = expander.Expand(s)
			} else {
				job.Destination = expander.Expand(s)
			}
		case KeyPatternsInclude, KeyPatternsExclude, KeyPatternsExcludeDir:
			patterns, err := stringList(raw, jobKey(key))
			if err != nil {
				return job, err
			}
			combined := combinePatterns(patterns)
			switch key {
			case KeyPatternsInclude:
				job.IncludePattern = combined
			case KeyPatternsExclude:
				job.ExcludePattern = orMatchNothing(combined)
			case KeyPatternsExcludeDir:
				job.ExcludeDirPattern = orMatchNothing(combined)
			}
		default:
			field, isFlag := flagKeys[key]
			if !isFlag {
				return job, invalid(jobKey(key))
			}
			b, ok := raw.(bool)
			if !ok {
				return job, invalid(jobKey(key))
			}
			*field(&job.Flags) = b
		}
	}

	if job.Name == "" {
		return job, invalid(KeyJob)
	}
	if job.Source == "" {
		return job, invalid(jobKey(KeySource))
	}
	if job.Destination == "" {
		return job, invalid(jobKey(KeyDestination))
	}

	return job, nil
}

func applyFlags(doc map[string]any, flags *models.Flags) error {
	for key, field := range flagKeys {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		b, isBool := raw.(bool)
		if !isBool {
			return invalid(key)
		}
		*field(flags) = b
	}
	return nil
}

func isGlobalKey(key string) bool {
	switch key {
	case KeyActiveJobs, KeyVariables, KeyContentDigest, KeyJob:
		return true
	}
	_, isFlag := flagKeys[key]
	return isFlag
}

func stringList(raw any, key string) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, invalid(key)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, isString := item.(string)
		if !isString {
			return nil, invalid(key)
		}
		out = append(out, s)
	}
	return out, nil
}

// combinePatterns joins the non-empty patterns into one alternation
func combinePatterns(patterns []string) string {
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return "(" + strings.Join(kept, "|") + ")"
}

// orMatchNothing makes an exclude list with no usable pattern exclude
// nothing at all.
func orMatchNothing(combined string) string {
	if combined == "()" {
		return models.MatchNothingPattern
	}
	return combined
}

// SetActiveJobs replaces the active job list of a loaded configuration.
// Every name must be declared in the document.
func SetActiveJobs(global *models.GlobalConfig, names []string) error {
	for _, name := range names {
		declared := false
		for _, n := range global.JobNames {
			if n == name {
				declared = true
				break
			}
		}
		if !declared {
			return &Error{Key: KeyActiveJobs, Err: fmt.Errorf("job %q is not declared", name)}
		}
	}
	global.ActiveJobs = append([]string(nil), names...)
	return nil
}
