package filesystem_test

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/textilize/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ext   string
		want  string
	}{
		{"html_to_textile", "/docs/index.html", ".textile", "/docs/index.textile"},
		{"ext_without_dot", "/docs/index.htm", "textile", "/docs/index.textile"},
		{"no_extension", "/docs/README", ".textile", "/docs/README.textile"},
		{"same_extension_appends", "/docs/a.textile", ".textile", "/docs/a.textile.textile"},
		{"dotted_dirs", "/my.site/page.html", ".textile", "/my.site/page.textile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filesystem.OutputPath(tt.input, tt.ext))
		})
	}
}

func TestOpenerAndCreator(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, afero.WriteFile(fsys, "/in/page.html", []byte("<p>hi</p>"), 0644))

	rc, err := filesystem.Opener(fsys, "/in/page.html")()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "<p>hi</p>", string(data))

	out := filepath.Join("/out", "deep", "page.textile")
	wc, err := filesystem.Creator(fsys, out)()
	require.NoError(t, err)
	_, err = io.WriteString(wc, "hi")
	require.NoError(t, err)
	require.NoError(t, wc.Close())

	written, err := filesystem.ReadFile(fsys, out)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(written))

	_, err = filesystem.Opener(fsys, "/in/missing.html")()
	assert.Error(t, err)
}

func TestCreatorTruncates(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, afero.WriteFile(fsys, "/o.textile", []byte("previous long content"), 0644))

	wc, err := filesystem.Creator(fsys, "/o.textile")()
	require.NoError(t, err)
	_, _ = io.WriteString(wc, "new")
	require.NoError(t, wc.Close())

	data, err := filesystem.ReadFile(fsys, "/o.textile")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriterCreator(t *testing.T) {
	var buf bytes.Buffer
	wc, err := filesystem.WriterCreator(&buf)()
	require.NoError(t, err)
	_, _ = io.WriteString(wc, "out")
	require.NoError(t, wc.Close())
	assert.Equal(t, "out", buf.String())
}

func TestExistsAndIsDir(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/a/.git", 0755))
	require.NoError(t, afero.WriteFile(fsys, "/a/file", nil, 0644))

	assert.True(t, filesystem.Exists(fsys, "/a/.git"))
	assert.True(t, filesystem.IsDir(fsys, "/a/.git"))
	assert.True(t, filesystem.Exists(fsys, "/a/file"))
	assert.False(t, filesystem.IsDir(fsys, "/a/file"))
	assert.False(t, filesystem.Exists(fsys, "/a/nope"))

	_, err := filesystem.ReadFile(fsys, "/a")
	assert.Error(t, err)
}
