package models

import "fmt"

// Code is the numeric identifier shared by every result the tool reports.
// File operation, job and application codes live in disjoint ranges so a
// single table can render all of them.
type Code uint64

// FileOutcome is the result of a single copy or delete decision: either
// FileSuccess or one of the FileOp* error codes.
type FileOutcome Code

// Values for FileOutcome
const (
	FileSuccess                    FileOutcome = 0
	FileOpGenericFailure           FileOutcome = 1001
	FileOpDestinationIsItself      FileOutcome = 1011
	FileOpDestinationIsDir         FileOutcome = 1012
	FileOpDestinationIsSymlink     FileOutcome = 1013
	FileOpDestinationIsNewer       FileOutcome = 1014
	FileOpDestinationIsIdentical   FileOutcome = 1015
	FileOpDestinationIsReadonly    FileOutcome = 1016
	FileOpDestinationExists        FileOutcome = 1021
	FileOpDestinationNotAccessible FileOutcome = 1022
	FileOpCannotCreateDir          FileOutcome = 1031
	FileOpCannotCreateFile         FileOutcome = 1032
	FileOpSourceNotExists          FileOutcome = 1041
	FileOpSourceIsDir              FileOutcome = 1042
	FileOpSourceIsSymlink          FileOutcome = 1043
	FileOpSourceNotAccessible      FileOutcome = 1044
)

// JobOutcome is the result of a whole copy job: either JobSuccess or one
// of the Job* error codes.
type JobOutcome Code

// Values for JobOutcome
const (
	JobSuccess                 JobOutcome = 0
	JobGenericFailure          JobOutcome = 2001
	JobSourceDirNotExists      JobOutcome = 2011
	JobDestinationDirNotExists JobOutcome = 2012
	JobNoSourceFiles           JobOutcome = 2013
	JobCannotDetermineDestFile JobOutcome = 2021
	JobHaltOnCopyError         JobOutcome = 2041
)

// AppCode reports the outcome of the whole process.
type AppCode Code

const (
	AppOK            AppCode = 0
	AppInvalidConfig AppCode = 9998
	AppGeneric       AppCode = 9999
)

type codeText struct {
	symbol  string
	verbose string
}

// codeTable is built once at package initialization and never written
// afterwards.
var codeTable = map[Code]codeText{
	Code(FileOpGenericFailure):           {"FOERR_GENERIC_FAILURE", "file operation: generic failure"},
	Code(FileOpDestinationIsItself):      {"FOERR_DESTINATION_IS_ITSELF", "file operation: failed attempt to copy on self"},
	Code(FileOpDestinationIsDir):         {"FOERR_DESTINATION_IS_DIR", "file operation: destination is a directory"},
	Code(FileOpDestinationIsSymlink):     {"FOERR_DESTINATION_IS_SYMLINK", "file operation: destination is a symbolic link"},
	Code(FileOpDestinationIsNewer):       {"FOERR_DESTINATION_IS_NEWER", "file operation: destination is more recent than source"},
	Code(FileOpDestinationIsIdentical):   {"FOERR_DESTINATION_IS_IDENTICAL", "file operation: destination is identical to source"},
	Code(FileOpDestinationIsReadonly):    {"FOERR_DESTINATION_IS_READONLY", "file operation: cannot overwrite destination"},
	Code(FileOpDestinationExists):        {"FOERR_DESTINATION_EXISTS", "file operation: destination exists"},
	Code(FileOpDestinationNotAccessible): {"FOERR_DESTINATION_NOT_ACCESSIBLE", "file operation: destination is not accessible"},
	Code(FileOpCannotCreateDir):          {"FOERR_CANNOT_CREATE_DIR", "file operation: cannot create directory"},
	Code(FileOpCannotCreateFile):         {"FOERR_CANNOT_CREATE_FILE", "file operation: cannot create file"},
	Code(FileOpSourceNotExists):          {"FOERR_SOURCE_NOT_EXISTS", "file operation: source file does not exist"},
	Code(FileOpSourceIsDir):              {"FOERR_SOURCE_IS_DIR", "file operation: source file is a directory"},
	Code(FileOpSourceIsSymlink):          {"FOERR_SOURCE_IS_SYMLINK", "file operation: source file is a symbolic link"},
	Code(FileOpSourceNotAccessible):      {"FOERR_SOURCE_NOT_ACCESSIBLE", "file operation: source file is not accessible"},

	Code(JobGenericFailure):          {"CJERR_GENERIC_FAILURE", "copy job: generic failure"},
	Code(JobSourceDirNotExists):      {"CJERR_SOURCE_DIR_NOT_EXISTS", "copy job: source directory does not exist"},
	Code(JobDestinationDirNotExists): {"CJERR_DESTINATION_DIR_NOT_EXISTS", "copy job: destination does not exist"},
	Code(JobNoSourceFiles):           {"CJERR_NO_SOURCE_FILES", "copy job: no source files found"},
	Code(JobCannotDetermineDestFile): {"CJERR_CANNOT_DETERMINE_DESTFILE", "copy job: cannot determine destination file"},
	Code(JobHaltOnCopyError):         {"CJERR_HALT_ON_COPY_ERROR", "copy job: ending job after copy error"},

	Code(AppInvalidConfig): {"ERR_INVALID_CONFIG", "application: invalid config file"},
	Code(AppGeneric):       {"ERR_GENERIC", "application: generic failure"},
	Code(AppOK):            {"OK", "application: operation succeeded"},
}

func (c Code) lookup() codeText {
	if t, ok := codeTable[c]; ok {
		return t
	}
	return codeTable[Code(AppGeneric)]
}

// Symbol returns the machine-readable name of the code, e.g.
// FOERR_DESTINATION_EXISTS. Unknown codes map to ERR_GENERIC.
func (c Code) Symbol() string { return c.lookup().symbol }

// Text returns the human-readable description of the code.
func (c Code) Text() string { return c.lookup().verbose }

// IsOK reports whether the code denotes success.
func (c Code) IsOK() bool { return c == 0 }

func (c Code) String() string {
	return fmt.Sprintf("%d/%s", uint64(c), c.Symbol())
}

// OK reports whether the file operation succeeded.
func (o FileOutcome) OK() bool { return o == FileSuccess }

// Code returns the shared numeric code.
func (o FileOutcome) Code() Code { return Code(o) }

func (o FileOutcome) String() string { return Code(o).Symbol() }

// OK reports whether the job succeeded.
func (o JobOutcome) OK() bool { return o == JobSuccess }

// Code returns the shared numeric code.
func (o JobOutcome) Code() Code { return Code(o) }

func (o JobOutcome) String() string { return Code(o).Symbol() }

// Code returns the shared numeric code.
func (a AppCode) Code() Code { return Code(a) }

func (a AppCode) String() string { return Code(a).Symbol() }
