package models

import (
	"testing"
	"time"
)

// ============== Outcome Tests ==============

func TestFileOutcomeSymbols(t *testing.T) {
	tests := []struct {
		outcome  FileOutcome
		code     uint64
		expected string
	}{
		{FileSuccess, 0, "OK"},
		{FileOpGenericFailure, 1001, "FOERR_GENERIC_FAILURE"},
		{FileOpDestinationIsItself, 1011, "FOERR_DESTINATION_IS_ITSELF"},
		{FileOpDestinationIsDir, 1012, "FOERR_DESTINATION_IS_DIR"},
		{FileOpDestinationIsSymlink, 1013, "FOERR_DESTINATION_IS_SYMLINK"},
		{FileOpDestinationIsNewer, 1014, "FOERR_DESTINATION_IS_NEWER"},
		{FileOpDestinationIsIdentical, 1015, "FOERR_DESTINATION_IS_IDENTICAL"},
		{FileOpDestinationIsReadonly, 1016, "FOERR_DESTINATION_IS_READONLY"},
		{FileOpDestinationExists, 1021, "FOERR_DESTINATION_EXISTS"},
		{FileOpDestinationNotAccessible, 1022, "FOERR_DESTINATION_NOT_ACCESSIBLE"},
		{FileOpCannotCreateDir, 1031, "FOERR_CANNOT_CREATE_DIR"},
		{FileOpCannotCreateFile, 1032, "FOERR_CANNOT_CREATE_FILE"},
		{FileOpSourceNotExists, 1041, "FOERR_SOURCE_NOT_EXISTS"},
		{FileOpSourceIsDir, 1042, "FOERR_SOURCE_IS_DIR"},
		{FileOpSourceIsSymlink, 1043, "FOERR_SOURCE_IS_SYMLINK"},
		{FileOpSourceNotAccessible, 1044, "FOERR_SOURCE_NOT_ACCESSIBLE"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if uint64(tt.outcome.Code()) != tt.code {
				t.Errorf("Code() = %d, want %d", tt.outcome.Code(), tt.code)
			}
			if tt.outcome.String() != tt.expected {
				t.Errorf("String() = %s, want %s", tt.outcome.String(), tt.expected)
			}
			if tt.outcome.Code().Text() == "" {
				t.Error("Text() should not be empty")
			}
		})
	}
}

func TestJobOutcomeSymbols(t *testing.T) {
	tests := []struct {
		outcome  JobOutcome
		code     uint64
		expected string
	}{
		{JobSuccess, 0, "OK"},
		{JobGenericFailure, 2001, "CJERR_GENERIC_FAILURE"},
		{JobSourceDirNotExists, 2011, "CJERR_SOURCE_DIR_NOT_EXISTS"},
		{JobDestinationDirNotExists, 2012, "CJERR_DESTINATION_DIR_NOT_EXISTS"},
		{JobNoSourceFiles, 2013, "CJERR_NO_SOURCE_FILES"},
		{JobCannotDetermineDestFile, 2021, "CJERR_CANNOT_DETERMINE_DESTFILE"},
		{JobHaltOnCopyError, 2041, "CJERR_HALT_ON_COPY_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if uint64(tt.outcome.Code()) != tt.code {
				t.Errorf("Code() = %d, want %d", tt.outcome.Code(), tt.code)
			}
			if tt.outcome.String() != tt.expected {
				t.Errorf("String() = %s, want %s", tt.outcome.String(), tt.expected)
			}
		})
	}
}

func TestCodeString(t *testing.T) {
	if got := FileOpDestinationExists.Code().String(); got != "1021/FOERR_DESTINATION_EXISTS" {
		t.Errorf("String() = %s, want 1021/FOERR_DESTINATION_EXISTS", got)
	}
	if got := AppInvalidConfig.Code().String(); got != "9998/ERR_INVALID_CONFIG" {
		t.Errorf("String() = %s, want 9998/ERR_INVALID_CONFIG", got)
	}
	if got := Code(0).String(); got != "0/OK" {
		t.Errorf("String() = %s, want 0/OK", got)
	}
}

func TestUnknownCodeFallsBackToGeneric(t *testing.T) {
	c := Code(4242)
	if c.Symbol() != "ERR_GENERIC" {
		t.Errorf("Symbol() = %s, want ERR_GENERIC", c.Symbol())
	}
	if c.IsOK() {
		t.Error("IsOK() should be false for non-zero code")
	}
}

func TestOutcomeOK(t *testing.T) {
	if !FileSuccess.OK() || FileOpGenericFailure.OK() {
		t.Error("FileOutcome.OK() mismatch")
	}
	if !JobSuccess.OK() || JobNoSourceFiles.OK() {
		t.Error("JobOutcome.OK() mismatch")
	}
}

// ============== Job Tests ==============

func TestDefaultFlags(t *testing.T) {
	f := DefaultFlags()

	if f.Recursive {
		t.Error("Recursive should default to false")
	}
	if !f.CaseSensitive || !f.FollowSymlinks || !f.Overwrite || !f.SkipNewer {
		t.Error("CaseSensitive, FollowSymlinks, Overwrite and SkipNewer should default to true")
	}
	if !f.CreateDirectories || !f.KeepStructure {
		t.Error("CreateDirectories and KeepStructure should default to true")
	}
	if f.CheckContent || f.RemoveOthersMatching || f.TrashOnDelete || f.TrashOnOverwrite || f.HaltOnErrors {
		t.Error("destructive or costly flags should default to false")
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"job", true},
		{"_job1", true},
		{"Job_2_b", true},
		{"1job", false},
		{"my-job", false},
		{"", false},
		{"job name", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsIdentifier(tt.name); got != tt.valid {
				t.Errorf("IsIdentifier(%q) = %v, want %v", tt.name, got, tt.valid)
			}
		})
	}
}

func TestNewJobSpec(t *testing.T) {
	global := DefaultFlags()
	global.Recursive = true

	job := NewJobSpec("photos", global)

	if !job.Recursive {
		t.Error("job should inherit global flags")
	}
	if job.IncludePattern != "()" {
		t.Errorf("IncludePattern = %s, want ()", job.IncludePattern)
	}
	if job.ExcludePattern != MatchNothingPattern {
		t.Errorf("ExcludePattern = %s, want %s", job.ExcludePattern, MatchNothingPattern)
	}
}

func TestJobSpecValidate(t *testing.T) {
	t.Run("ValidJob", func(t *testing.T) {
		job := NewJobSpec("docs", DefaultFlags())
		job.Source = "/source/"
		job.Destination = "/dest/"

		if err := job.Validate(); err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}
	})

	t.Run("BadName", func(t *testing.T) {
		job := NewJobSpec("9docs", DefaultFlags())
		job.Source = "/source/"
		job.Destination = "/dest/"

		err := job.Validate()
		if ve, ok := err.(*ValidationError); !ok || ve.Field != "Name" {
			t.Errorf("Validate() error = %v, want Name validation error", err)
		}
	})

	t.Run("EmptySource", func(t *testing.T) {
		job := NewJobSpec("docs", DefaultFlags())
		job.Destination = "/dest/"

		err := job.Validate()
		if ve, ok := err.(*ValidationError); !ok || ve.Field != "Source" {
			t.Errorf("Validate() error = %v, want Source validation error", err)
		}
	})

	t.Run("EmptyDestination", func(t *testing.T) {
		job := NewJobSpec("docs", DefaultFlags())
		job.Source = "/source/"

		err := job.Validate()
		if ve, ok := err.(*ValidationError); !ok || ve.Field != "Destination" {
			t.Errorf("Validate() error = %v, want Destination validation error", err)
		}
	})
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Field:   "TestField",
		Message: "test message",
	}

	expected := "TestField: test message"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
}

func TestGlobalConfigIsActive(t *testing.T) {
	g := &GlobalConfig{ActiveJobs: []string{"a", "c"}}

	if !g.IsActive("a") || !g.IsActive("c") {
		t.Error("listed jobs should be active")
	}
	if g.IsActive("b") {
		t.Error("unlisted job should not be active")
	}
}

// ============== Message Tests ==============

func TestMessageKind(t *testing.T) {
	info := Message{Context: ContextJob, Operation: OpCopy, Code: 0}
	if info.Kind() != KindInfo {
		t.Errorf("Kind() = %s, want INFO", info.Kind())
	}

	failure := Message{Context: ContextJob, Operation: OpCopy, Code: FileOpDestinationExists.Code()}
	if failure.Kind() != KindError {
		t.Errorf("Kind() = %s, want ERROR", failure.Kind())
	}
}

// ============== Report Tests ==============

func TestRunStatusExitCode(t *testing.T) {
	tests := []struct {
		status   RunStatus
		expected int
	}{
		{StatusSuccess, 0},
		{StatusPartial, 0},
		{StatusFailed, 2},
		{StatusCancelled, 3},
		{RunStatus("unknown"), 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestRunReportFinalize(t *testing.T) {
	start := time.Now()

	t.Run("AllJobsSucceeded", func(t *testing.T) {
		r := &RunReport{StartTime: start, Jobs: []JobReport{{Name: "a"}, {Name: "b"}}}
		r.Finalize(start.Add(time.Second))

		if r.Status != StatusSuccess {
			t.Errorf("Status = %s, want success", r.Status)
		}
		if r.Duration != time.Second {
			t.Errorf("Duration = %v, want 1s", r.Duration)
		}
	})

	t.Run("FailedJobWithoutHalt", func(t *testing.T) {
		r := &RunReport{StartTime: start, Jobs: []JobReport{{Name: "a", Outcome: JobNoSourceFiles}, {Name: "b"}}}
		r.Finalize(start)

		if r.Status != StatusPartial {
			t.Errorf("Status = %s, want partial", r.Status)
		}
		if r.FailedJobs() != 1 {
			t.Errorf("FailedJobs() = %d, want 1", r.FailedJobs())
		}
	})

	t.Run("Halted", func(t *testing.T) {
		r := &RunReport{StartTime: start, Jobs: []JobReport{{Name: "a", Outcome: JobGenericFailure}}, Halted: true}
		r.Finalize(start)

		if r.Status != StatusFailed {
			t.Errorf("Status = %s, want failed", r.Status)
		}
	})
}
