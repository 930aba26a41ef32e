package compare

import (
	"github.com/sdejongh/copyjob/pkg/storage"
)

// SourceIsNewer reports whether the source was modified strictly after the
// destination. Equal modification times count as not newer, with no
// tolerance for filesystem timestamp precision.
func SourceIsNewer(source, dest *storage.FileInfo) bool {
	return source.ModTime.After(dest.ModTime)
}
