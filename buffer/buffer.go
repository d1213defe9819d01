// Package buffer holds the complete in-memory image of a save file.
//
// A Buffer never changes length after it is loaded.  All edits are in-place
// replacements of a range with exactly as many bytes as the range holds.
package buffer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"savedit/types"
)

type Buffer struct {
	path  string
	data  []byte
	dirty bool
}

// New wraps a copy of an in-memory image.  The buffer has no source path.
func New(data []byte) *Buffer {
	return &Buffer{data: append([]byte{}, data...)}
}

// Load reads the whole file at path.  No parsing or validation is done; the
// buffer is an exact copy of what is on disk.
func Load(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", types.ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %v: %w", types.ErrIO, path, err)
	}

	return &Buffer{path: path, data: data}, nil
}

// Path returns the path the buffer was loaded from, or "" for New buffers.
func (b *Buffer) Path() string {
	return b.path
}

func (b *Buffer) Len() int {
	return len(b.data)
}

// Dirty reports whether the buffer has been written to since it was loaded or last saved.
func (b *Buffer) Dirty() bool {
	return b.dirty
}

// Bytes returns a copy of the whole image.
func (b *Buffer) Bytes() []byte {
	return append([]byte{}, b.data...)
}

func (b *Buffer) check_range(offset int, length int) error {
	if offset < 0 || length < 0 || offset > len(b.data)-length {
		return fmt.Errorf("%w: %v bytes at offset %v (buffer is %v bytes)", types.ErrOutOfBounds, length, offset, len(b.data))
	}
	return nil
}

// ReadRange returns a copy of data[offset:offset+length].
func (b *Buffer) ReadRange(offset int, length int) ([]byte, error) {
	if err := b.check_range(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, b.data[offset:offset+length])
	return out, nil
}

// WriteRange replaces data[offset:offset+length] with data.
// data must be exactly length bytes.  On any error the buffer is left untouched.
func (b *Buffer) WriteRange(offset int, length int, data []byte) error {
	if err := b.check_range(offset, length); err != nil {
		return err
	}
	if len(data) != length {
		return fmt.Errorf("%w: %v bytes given for a %v byte range at offset %v", types.ErrSizeMismatch, len(data), length, offset)
	}
	copy(b.data[offset:], data)
	b.dirty = true
	return nil
}

// Save writes the full buffer to path, creating or replacing it.
// The write goes to a temporary file next to path which is then renamed over it,
// so a failed save never leaves a half-written target behind.
func (b *Buffer) Save(path string) error {
	err := write_atomic(path, b.data)
	if err != nil {
		return err
	}
	b.dirty = false
	return nil
}

func write_atomic(path string, data []byte) (err error) {
	perm := fs.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%w: %v is not a regular file", types.ErrIO, path)
		}
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	tmp_name := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp_name)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("%w: writing %v: %w", types.ErrIO, tmp_name, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: syncing %v: %w", types.ErrIO, tmp_name, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing %v: %w", types.ErrIO, tmp_name, err)
	}
	if err = os.Rename(tmp_name, path); err != nil {
		return fmt.Errorf("%w: %w", types.ErrIO, err)
	}

	return nil
}
