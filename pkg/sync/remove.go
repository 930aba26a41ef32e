package sync

import (
	"context"

	"github.com/sdejongh/copyjob/pkg/logging"
	"github.com/sdejongh/copyjob/pkg/models"
	"github.com/sdejongh/copyjob/pkg/storage"
)

// Remover deletes destination files that no longer have a source
type Remover struct {
	backend storage.Backend
	trash   storage.Trash
	logger  logging.Logger
}

// NewRemover creates a remover. trash may be nil, in which case files are
// always removed permanently.
func NewRemover(backend storage.Backend, trash storage.Trash, logger logging.Logger) *Remover {
	if logger == nil {
		logger = logging.Discard
	}
	return &Remover{backend: backend, trash: trash, logger: logger}
}

// Remove deletes the file at path, moving it to the trash first when
// trashOnDelete is set. A link is removed itself, never its target.
func (r *Remover) Remove(ctx context.Context, path string, followSymlinks, trashOnDelete bool) models.FileOutcome {
	link, err := r.backend.Lstat(ctx, path)
	if err != nil {
		return models.FileOpDestinationNotAccessible
	}
	info, err := r.backend.Stat(ctx, path)
	if err != nil {
		return models.FileOpDestinationNotAccessible
	}
	if info.IsDir {
		return models.FileOpDestinationIsDir
	}
	if link.IsSymlink && !followSymlinks {
		return models.FileOpDestinationIsSymlink
	}

	if trashOnDelete && r.trash != nil {
		err := r.trash.Put(ctx, path)
		if err == nil {
			return models.FileSuccess
		}
		r.logger.Warn(ctx, "Could not trash file, removing it", logging.Fields{
			"path":  path,
			"error": err.Error(),
		})
	}

	if err := r.backend.Remove(ctx, path); err != nil {
		r.logger.Debug(ctx, "Remove failed", logging.Fields{
			"path":  path,
			"error": err.Error(),
		})
		return models.FileOpDestinationNotAccessible
	}

	return models.FileSuccess
}
