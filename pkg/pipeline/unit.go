package pipeline

import (
	"context"
	"io"
	"path/filepath"

	"github.com/arthur-debert/textilize/pkg/filesystem"
	"github.com/spf13/afero"
)

// Converter is the structural HTML to Textile conversion between the two rule stages
type Converter interface {
	Convert(ctx context.Context, preprocessed string) (string, error)
}

// ConverterFunc adapts a function to Converter
type ConverterFunc func(ctx context.Context, preprocessed string) (string, error)

func (f ConverterFunc) Convert(ctx context.Context, preprocessed string) (string, error) {
	return f(ctx, preprocessed)
}

// Unit is one input to convert
type Unit struct {
	// Name identifies the unit in errors and reports
	Name string

	// Location is the directory rule resolution starts from
	Location string

	Open   func() (io.ReadCloser, error)
	Create func() (io.WriteCloser, error)
}

// FileUnit reads path and writes output on fsys
func FileUnit(fsys afero.Fs, path, output string) Unit {
	return Unit{
		Name:     path,
		Location: filepath.Dir(path),
		Open:     filesystem.Opener(fsys, path),
		Create:   filesystem.Creator(fsys, output),
	}
}

// StreamUnit reads r and writes w, resolving rules from location
func StreamUnit(name, location string, r io.Reader, w io.Writer) Unit {
	return Unit{
		Name:     name,
		Location: location,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
		Create: filesystem.WriterCreator(w),
	}
}
