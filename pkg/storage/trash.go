package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// XDGTrash implements the freedesktop.org trash: trashed files go to
// Dir/files and each gets a Dir/info/<name>.trashinfo record telling
// where it came from.
type XDGTrash struct {
	// Dir is the trash directory, usually $XDG_DATA_HOME/Trash
	Dir string

	now func() time.Time
}

// NewXDGTrash returns the trash of the current user
func NewXDGTrash() *XDGTrash {
	return &XDGTrash{Dir: filepath.Join(xdg.DataHome, "Trash")}
}

const trashInfoTimeFormat = "2006-01-02T15:04:05"

// Put moves the file at path into the trash
func (t *XDGTrash) Put(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if _, err := os.Lstat(abs); err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	filesDir := filepath.Join(t.Dir, "files")
	infoDir := filepath.Join(t.Dir, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create trash directory: %w", err)
		}
	}

	name, infoFile, err := t.reserve(filepath.Base(abs), abs, filesDir, infoDir)
	if err != nil {
		return err
	}

	target := filepath.Join(filesDir, name)
	if err := moveFile(abs, target); err != nil {
		os.Remove(infoFile)
		return fmt.Errorf("failed to move file to trash: %w", err)
	}

	return nil
}

// reserve picks an unused name and creates its .trashinfo record. The
// record is created exclusively, which claims the name.
func (t *XDGTrash) reserve(base, original, filesDir, infoDir string) (string, string, error) {
	now := time.Now
	if t.now != nil {
		now = t.now
	}
	content := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: filepath.ToSlash(original)}).EscapedPath(),
		now().Format(trashInfoTimeFormat))

	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]

	for i := 1; ; i++ {
		name := base
		if i > 1 {
			name = fmt.Sprintf("%s.%d%s", stem, i, ext)
		}
		if _, err := os.Lstat(filepath.Join(filesDir, name)); err == nil {
			continue
		}

		infoFile := filepath.Join(infoDir, name+".trashinfo")
		f, err := os.OpenFile(infoFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("failed to create trash info: %w", err)
		}
		if _, err := f.WriteString(content); err != nil {
			f.Close()
			os.Remove(infoFile)
			return "", "", fmt.Errorf("failed to write trash info: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(infoFile)
			return "", "", fmt.Errorf("failed to write trash info: %w", err)
		}
		return name, infoFile, nil
	}
}

// moveFile renames src to dst, copying and removing when they are on
// different devices
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot move %s across devices: not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	os.Chtimes(dst, info.ModTime(), info.ModTime())

	if err := os.Remove(src); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}
