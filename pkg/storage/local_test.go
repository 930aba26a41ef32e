package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path string, content string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
}

// TestLocalStat tests Stat and Lstat
func TestLocalStat(t *testing.T) {
	tempDir := t.TempDir()
	local := NewLocal()
	defer local.Close()
	ctx := context.Background()

	file := filepath.Join(tempDir, "file.txt")
	writeFile(t, file, "content", 0644)

	t.Run("ExistingFile", func(t *testing.T) {
		info, err := local.Stat(ctx, file)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Size != 7 {
			t.Errorf("Size = %d, want 7", info.Size)
		}
		if info.IsDir || info.IsSymlink {
			t.Error("regular file reported as dir or symlink")
		}
		if info.Path != file {
			t.Errorf("Path = %s, want %s", info.Path, file)
		}
	})

	t.Run("Directory", func(t *testing.T) {
		info, err := local.Stat(ctx, tempDir)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if !info.IsDir {
			t.Error("IsDir should be true")
		}
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := local.Stat(ctx, filepath.Join(tempDir, "missing"))
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Stat() error = %v, want ErrNotExist", err)
		}
	})

	t.Run("Symlink", func(t *testing.T) {
		link := filepath.Join(tempDir, "link.txt")
		if err := os.Symlink(file, link); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}

		info, err := local.Lstat(ctx, link)
		if err != nil {
			t.Fatalf("Lstat() error = %v", err)
		}
		if !info.IsSymlink {
			t.Error("Lstat() should report a symlink")
		}

		info, err = local.Stat(ctx, link)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.IsSymlink || info.Size != 7 {
			t.Error("Stat() should describe the link target")
		}
	})
}

// TestLocalCanonical tests symlink resolution
func TestLocalCanonical(t *testing.T) {
	tempDir := t.TempDir()
	local := NewLocal()
	ctx := context.Background()

	realDir := filepath.Join(tempDir, "real")
	if err := os.Mkdir(realDir, 0755); err != nil {
		t.Fatal(err)
	}
	expected, _ := filepath.EvalSymlinks(realDir)

	got, err := local.Canonical(ctx, realDir+string(filepath.Separator))
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}
	if got != expected {
		t.Errorf("Canonical() = %s, want %s", got, expected)
	}

	if _, err := local.Canonical(ctx, filepath.Join(tempDir, "missing")); err == nil {
		t.Error("Canonical() should fail for a missing path")
	}
}

// TestLocalReadDir tests directory listing
func TestLocalReadDir(t *testing.T) {
	tempDir := t.TempDir()
	local := NewLocal()
	ctx := context.Background()

	writeFile(t, filepath.Join(tempDir, "a.txt"), "a", 0644)
	writeFile(t, filepath.Join(tempDir, "b.txt"), "b", 0644)
	writeFile(t, filepath.Join(tempDir, "sub", "c.txt"), "c", 0644)

	entries, err := local.ReadDir(ctx, tempDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}

	var names []string
	dirs := 0
	for _, e := range entries {
		names = append(names, filepath.Base(e.Path))
		if e.IsDir {
			dirs++
		}
	}
	sort.Strings(names)

	if len(names) != 3 || names[0] != "a.txt" || names[1] != "b.txt" || names[2] != "sub" {
		t.Errorf("ReadDir() names = %v, want [a.txt b.txt sub]", names)
	}
	if dirs != 1 {
		t.Errorf("ReadDir() dirs = %d, want 1", dirs)
	}

	if _, err := local.ReadDir(ctx, filepath.Join(tempDir, "missing")); err == nil {
		t.Error("ReadDir() should fail for a missing directory")
	}
}

// TestLocalCopy tests byte copies
func TestLocalCopy(t *testing.T) {
	tempDir := t.TempDir()
	local := NewLocal()
	ctx := context.Background()

	src := filepath.Join(tempDir, "src.sh")
	writeFile(t, src, "#!/bin/sh\necho hi\n", 0750)

	t.Run("NewDestination", func(t *testing.T) {
		dst := filepath.Join(tempDir, "new.sh")
		if err := local.Copy(ctx, src, dst); err != nil {
			t.Fatalf("Copy() error = %v", err)
		}

		content, err := os.ReadFile(dst)
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != "#!/bin/sh\necho hi\n" {
			t.Errorf("content = %q", content)
		}

		if runtime.GOOS != "windows" {
			info, _ := os.Stat(dst)
			if info.Mode().Perm() != 0750 {
				t.Errorf("mode = %v, want 0750", info.Mode().Perm())
			}
		}
	})

	t.Run("OverwriteShorter", func(t *testing.T) {
		dst := filepath.Join(tempDir, "existing.sh")
		writeFile(t, dst, "a much longer previous content that must be truncated", 0600)

		if err := local.Copy(ctx, src, dst); err != nil {
			t.Fatalf("Copy() error = %v", err)
		}

		content, _ := os.ReadFile(dst)
		if string(content) != "#!/bin/sh\necho hi\n" {
			t.Errorf("content = %q, destination was not truncated", content)
		}
		if runtime.GOOS != "windows" {
			info, _ := os.Stat(dst)
			if info.Mode().Perm() != 0750 {
				t.Errorf("mode = %v, want 0750", info.Mode().Perm())
			}
		}
	})

	t.Run("MissingSource", func(t *testing.T) {
		err := local.Copy(ctx, filepath.Join(tempDir, "nope"), filepath.Join(tempDir, "x"))
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Copy() error = %v, want ErrNotExist", err)
		}
	})

	t.Run("ReadonlyDestination", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced")
		}
		dst := filepath.Join(tempDir, "readonly.sh")
		writeFile(t, dst, "locked", 0444)

		err := local.Copy(ctx, src, dst)
		if !errors.Is(err, fs.ErrPermission) {
			t.Errorf("Copy() error = %v, want ErrPermission", err)
		}
	})
}

// TestLocalOpen tests reading
func TestLocalOpen(t *testing.T) {
	tempDir := t.TempDir()
	local := NewLocal()
	ctx := context.Background()

	file := filepath.Join(tempDir, "file.txt")
	writeFile(t, file, "hello", 0644)

	r, err := local.Open(ctx, file)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want hello", data)
	}
}

// TestLocalMkdirAllAndRemove tests directory creation and file removal
func TestLocalMkdirAllAndRemove(t *testing.T) {
	tempDir := t.TempDir()
	local := NewLocal()
	ctx := context.Background()

	nested := filepath.Join(tempDir, "a", "b", "c")
	if err := local.MkdirAll(ctx, nested); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if info, err := os.Stat(nested); err != nil || !info.IsDir() {
		t.Fatal("nested directory was not created")
	}

	file := filepath.Join(nested, "f.txt")
	writeFile(t, file, "x", 0644)
	if err := local.Remove(ctx, file); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("file should be removed")
	}

	if err := local.Remove(ctx, file); err == nil {
		t.Error("Remove() should fail for a missing file")
	}
}
