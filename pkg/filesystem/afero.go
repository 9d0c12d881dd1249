package filesystem

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// NewOS returns the host filesystem
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// Exists reports whether name exists. Errors other than not-exist count as existing
// so callers surface them when they open the path.
func Exists(fsys afero.Fs, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil || !os.IsNotExist(err)
}

// IsDir reports whether name exists and is a directory
func IsDir(fsys afero.Fs, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.IsDir()
}

// ReadFile reads a regular file, rejecting directories
func ReadFile(fsys afero.Fs, name string) ([]byte, error) {
	info, err := fsys.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(fsys, name)
}

// Opener returns a function that opens name for reading
func Opener(fsys afero.Fs, name string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fsys.Open(name)
	}
}

// Creator returns a function that creates (or truncates) name for writing,
// creating parent directories as needed
func Creator(fsys afero.Fs, name string) func() (io.WriteCloser, error) {
	return func() (io.WriteCloser, error) {
		if err := fsys.MkdirAll(filepath.Dir(name), 0755); err != nil {
			return nil, err
		}
		return fsys.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	}
}

// WriterCreator returns a creator for an already open writer such as stdout.
// Closing the returned sink does not close w.
func WriterCreator(w io.Writer) func() (io.WriteCloser, error) {
	return func() (io.WriteCloser, error) {
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// OutputPath replaces the extension of input with ext. ext may be given
// with or without its leading dot.
func OutputPath(input, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if base+ext == input {
		return input + ext
	}
	return base + ext
}

// Abs cleans path and makes it absolute against the working directory
func Abs(path string) (string, error) {
	return filepath.Abs(path)
}
