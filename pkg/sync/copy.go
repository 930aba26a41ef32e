package sync

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/sdejongh/copyjob/pkg/compare"
	"github.com/sdejongh/copyjob/pkg/logging"
	"github.com/sdejongh/copyjob/pkg/models"
	"github.com/sdejongh/copyjob/pkg/storage"
)

// CopyOptions selects the checks applied before a file is copied
type CopyOptions struct {
	Overwrite         bool
	SkipNewer         bool
	CheckContent      bool
	FollowSymlinks    bool
	CreateDirectories bool
	TrashOnOverwrite  bool
}

// copyOptions extracts the copy switches from job flags
func copyOptions(f models.Flags) CopyOptions {
	return CopyOptions{
		Overwrite:         f.Overwrite,
		SkipNewer:         f.SkipNewer,
		CheckContent:      f.CheckContent,
		FollowSymlinks:    f.FollowSymlinks,
		CreateDirectories: f.CreateDirectories,
		TrashOnOverwrite:  f.TrashOnOverwrite,
	}
}

// Copier copies single files after checking that the copy is allowed
type Copier struct {
	backend  storage.Backend
	trash    storage.Trash
	digester *compare.Digester
	logger   logging.Logger
}

// NewCopier creates a copier. trash may be nil, in which case overwritten
// files are never trashed.
func NewCopier(backend storage.Backend, trash storage.Trash, digester *compare.Digester, logger logging.Logger) *Copier {
	if digester == nil {
		digester = compare.NewDigester(models.DigestSHA256)
	}
	if logger == nil {
		logger = logging.Discard
	}
	return &Copier{
		backend:  backend,
		trash:    trash,
		digester: digester,
		logger:   logger,
	}
}

// canonical resolves path, or returns it unchanged when it cannot be
// resolved (typically because it does not exist yet)
func (c *Copier) canonical(ctx context.Context, path string) string {
	resolved, err := c.backend.Canonical(ctx, path)
	if err != nil {
		return path
	}
	return resolved
}

// Copy copies source to destination, both full file paths. Success is
// returned only when bytes were actually written.
func (c *Copier) Copy(ctx context.Context, source, destination string, opts CopyOptions) models.FileOutcome {
	sourcePath := c.canonical(ctx, source)
	destPath := c.canonical(ctx, destination)

	srcInfo, err := c.backend.Stat(ctx, sourcePath)
	if err != nil {
		return models.FileOpSourceNotAccessible
	}
	if sourcePath == destPath {
		return models.FileOpDestinationIsItself
	}
	if srcInfo.IsDir {
		return models.FileOpSourceIsDir
	}
	if link, err := c.backend.Lstat(ctx, source); err == nil && link.IsSymlink && !opts.FollowSymlinks {
		return models.FileOpSourceIsSymlink
	}

	if _, err := c.backend.Lstat(ctx, destination); err == nil {
		if outcome := c.checkExisting(ctx, srcInfo, sourcePath, destination, destPath, opts); !outcome.OK() {
			return outcome
		}
	} else if outcome := c.prepareParent(ctx, destPath, opts.CreateDirectories); !outcome.OK() {
		return outcome
	}

	if err := c.backend.Copy(ctx, sourcePath, destPath); err != nil {
		c.logger.Debug(ctx, "Copy failed", logging.Fields{
			"source":      sourcePath,
			"destination": destPath,
			"error":       err.Error(),
		})
		if errors.Is(err, fs.ErrPermission) {
			return models.FileOpDestinationIsReadonly
		}
		return models.FileOpGenericFailure
	}

	return models.FileSuccess
}

// checkExisting decides whether an existing destination may be replaced
func (c *Copier) checkExisting(ctx context.Context, srcInfo *storage.FileInfo, sourcePath, destination, destPath string, opts CopyOptions) models.FileOutcome {
	if !opts.Overwrite {
		return models.FileOpDestinationExists
	}

	destInfo, err := c.backend.Stat(ctx, destPath)
	if err != nil {
		return models.FileOpDestinationNotAccessible
	}
	if destInfo.IsDir {
		return models.FileOpDestinationIsDir
	}
	if link, err := c.backend.Lstat(ctx, destination); err == nil && link.IsSymlink && !opts.FollowSymlinks {
		return models.FileOpDestinationIsSymlink
	}

	if opts.SkipNewer && !compare.SourceIsNewer(srcInfo, destInfo) {
		return models.FileOpDestinationIsNewer
	}

	if opts.CheckContent {
		srcSum, err := c.digester.Sum(ctx, c.backend, sourcePath)
		if err != nil {
			return models.FileOpSourceNotAccessible
		}
		destSum, err := c.digester.Sum(ctx, c.backend, destPath)
		if err != nil {
			return models.FileOpDestinationNotAccessible
		}
		if srcSum == destSum {
			return models.FileOpDestinationIsIdentical
		}
	}

	if opts.TrashOnOverwrite && c.trash != nil {
		if err := c.trash.Put(ctx, destPath); err != nil {
			c.logger.Warn(ctx, "Could not trash overwritten file", logging.Fields{
				"path":  destPath,
				"error": err.Error(),
			})
		}
	}

	return models.FileSuccess
}

// prepareParent makes sure the directory that will hold a new destination
// file exists
func (c *Copier) prepareParent(ctx context.Context, destPath string, create bool) models.FileOutcome {
	parent := filepath.Dir(destPath)
	if parent == destPath {
		return models.FileOpCannotCreateDir
	}

	info, err := c.backend.Stat(ctx, parent)
	if err == nil {
		if !info.IsDir {
			return models.FileOpCannotCreateDir
		}
		return models.FileSuccess
	}

	if !create {
		return models.FileOpCannotCreateDir
	}
	if err := c.backend.MkdirAll(ctx, parent); err != nil {
		c.logger.Debug(ctx, "Cannot create directory", logging.Fields{
			"path":  parent,
			"error": err.Error(),
		})
		return models.FileOpCannotCreateDir
	}

	return models.FileSuccess
}
