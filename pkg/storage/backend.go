package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Path        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	IsSymlink   bool
	Permissions uint32
}

// Backend defines the filesystem operations the copy engine relies on.
// Paths are absolute.
type Backend interface {
	// Stat returns metadata of the file a path resolves to, following
	// symbolic links
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Lstat returns metadata of the path itself; IsSymlink is set when
	// the path is a symbolic link
	Lstat(ctx context.Context, path string) (*FileInfo, error)

	// Canonical resolves symbolic links and returns an absolute path
	Canonical(ctx context.Context, path string) (string, error)

	// ReadDir lists the entries of a directory without following links
	ReadDir(ctx context.Context, path string) ([]FileInfo, error)

	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Copy writes the content of src to dst, creating or truncating dst,
	// and gives dst the permission bits of src
	Copy(ctx context.Context, src, dst string) error

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Remove permanently deletes a file
	Remove(ctx context.Context, path string) error

	// Close releases any resources held by the backend
	Close() error
}

// Trash moves files out of the way instead of deleting them
type Trash interface {
	// Put moves the file at path into the trash
	Put(ctx context.Context, path string) error
}
