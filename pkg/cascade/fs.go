package cascade

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/filesystem"
	"github.com/arthur-debert/textilize/pkg/rules"
	"github.com/spf13/afero"
)

// Default rule file names and root markers
const (
	DefaultPreprocessFile  = ".textilize-pre.rules"
	DefaultPostprocessFile = ".textilize-post.rules"
)

// DefaultRootMarkers are the entries whose presence makes a directory the configuration root
var DefaultRootMarkers = []string{".git", ".textilize.toml"}

// FSLookup finds stage rule files in a directory hierarchy
type FSLookup struct {
	Fs afero.Fs

	// FileNames maps each stage to the rule file name looked up in every directory
	FileNames map[rules.Stage]string

	// Root, when set, is the configuration root. Inputs outside it are rejected.
	Root string

	// Markers identify the configuration root when Root is empty
	Markers []string

	// RequireRoot fails the walk when no marker is found before the filesystem root
	RequireRoot bool
}

// NewFSLookup returns a lookup with the default file names and markers
func NewFSLookup(fsys afero.Fs) *FSLookup {
	return &FSLookup{
		Fs: fsys,
		FileNames: map[rules.Stage]string{
			rules.StagePreprocess:  DefaultPreprocessFile,
			rules.StagePostprocess: DefaultPostprocessFile,
		},
		Markers: DefaultRootMarkers,
	}
}

// FileName returns the rule file name for stage
func (l *FSLookup) FileName(stage rules.Stage) string {
	if name, ok := l.FileNames[stage]; ok && name != "" {
		return name
	}
	switch stage {
	case rules.StagePreprocess:
		return DefaultPreprocessFile
	case rules.StagePostprocess:
		return DefaultPostprocessFile
	}
	return ".textilize-" + string(stage) + ".rules"
}

func (l *FSLookup) Lookup(_ context.Context, location string, stage rules.Stage) (*Source, string, error) {
	location = filepath.Clean(location)

	root := ""
	if l.Root != "" {
		root = filepath.Clean(l.Root)
		if !within(root, location) {
			return nil, "", errors.Newf(errors.ErrMissingConfigRoot,
				"%s is not inside configuration root %s", location, root).
				WithDetail(errors.DetailPath, location)
		}
	}

	src, err := l.read(location, stage)
	if err != nil {
		return nil, "", err
	}

	if root != "" {
		if location == root {
			return src, "", nil
		}
		return src, filepath.Dir(location), nil
	}

	if l.hasMarker(location) {
		return src, "", nil
	}

	parent := filepath.Dir(location)
	if parent == location {
		if l.RequireRoot {
			return nil, "", errors.Newf(errors.ErrMissingConfigRoot,
				"no configuration root (%s) found above input", strings.Join(l.Markers, ", ")).
				WithDetail(errors.DetailPath, location)
		}
		return src, "", nil
	}
	return src, parent, nil
}

func (l *FSLookup) read(location string, stage rules.Stage) (*Source, error) {
	path := filepath.Join(location, l.FileName(stage))
	if !filesystem.Exists(l.Fs, path) || filesystem.IsDir(l.Fs, path) {
		return nil, nil
	}

	content, err := filesystem.ReadFile(l.Fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "reading rule file %s", path).
			WithDetail(errors.DetailPath, path)
	}

	return &Source{
		Location: location,
		Path:     path,
		Origin:   rules.OriginUser,
		Content:  content,
	}, nil
}

func (l *FSLookup) hasMarker(dir string) bool {
	for _, marker := range l.Markers {
		if filesystem.Exists(l.Fs, filepath.Join(dir, marker)) {
			return true
		}
	}
	return false
}

// FindRoot walks up from dir to the nearest directory holding a root marker
func (l *FSLookup) FindRoot(dir string) (string, bool) {
	if l.Root != "" {
		return filepath.Clean(l.Root), true
	}
	current := filepath.Clean(dir)
	for {
		if l.hasMarker(current) {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
