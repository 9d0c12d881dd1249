package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/textilize/pkg/cascade"
	"github.com/arthur-debert/textilize/pkg/config"
	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/filesystem"
	"github.com/arthur-debert/textilize/pkg/pipeline"
	"github.com/arthur-debert/textilize/pkg/preprocess"
	"github.com/arthur-debert/textilize/pkg/rules"
	"github.com/arthur-debert/textilize/pkg/textile"
)

// Options replaces the process environment of the command tree
type Options struct {
	// Fs holds inputs, outputs and rule files; defaults to the OS filesystem
	Fs afero.Fs

	// In is read for the "-" input; defaults to os.Stdin
	In io.Reader

	// WorkDir resolves relative paths and holds the project config file;
	// defaults to the process working directory
	WorkDir string

	// UserConfigFile defaults to config.UserConfigFile(). Set NoUserConfig
	// to skip it.
	UserConfigFile string
	NoUserConfig   bool
}

func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = filesystem.NewOS()
	}
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			o.WorkDir = wd
		} else {
			o.WorkDir = "."
		}
	}
	if o.UserConfigFile == "" && !o.NoUserConfig {
		o.UserConfigFile = config.UserConfigFile()
	}
	if o.NoUserConfig {
		o.UserConfigFile = ""
	}
	return o
}

// app carries what every command needs once flags and config are loaded
type app struct {
	opts Options
	cfg  *config.Config
}

// flagKeys maps command-line flags to the configuration keys they override
var flagKeys = map[string]string{
	"root-wrap":           "pipeline.root_wrap",
	"ignore-system-rules": "pipeline.ignore_system_rules",
	"encoding":            "pipeline.input_encoding",
	"ext":                 "pipeline.output_extension",
	"jobs":                "pipeline.jobs",
	"root":                "rules.root",
	"require-root":        "rules.require_root",
}

// flagOverrides collects the flags set on the command line of cmd
func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	overrides := make(map[string]interface{})
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}
	return overrides
}

func (a *app) loadConfig(cmd *cobra.Command, configFile string) error {
	if configFile != "" {
		configFile = a.path(configFile)
	}
	cfg, err := config.Load(config.LoadOptions{
		UserFile:   a.opts.UserConfigFile,
		ProjectDir: a.opts.WorkDir,
		ConfigFile: configFile,
		Overrides:  flagOverrides(cmd),
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// path makes p absolute against the working directory
func (a *app) path(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(a.opts.WorkDir, p)
}

func (a *app) markers() preprocess.Markers {
	return preprocess.Markers{
		Element:   a.cfg.Markers.Element,
		Attribute: a.cfg.Markers.Attribute,
	}
}

func (a *app) lookup() *cascade.FSLookup {
	l := cascade.NewFSLookup(a.opts.Fs)
	l.FileNames = map[rules.Stage]string{
		rules.StagePreprocess:  a.cfg.Rules.PreprocessFile,
		rules.StagePostprocess: a.cfg.Rules.PostprocessFile,
	}
	if len(a.cfg.Rules.RootMarkers) > 0 {
		l.Markers = a.cfg.Rules.RootMarkers
	}
	if a.cfg.Rules.Root != "" {
		l.Root = a.path(a.cfg.Rules.Root)
	}
	l.RequireRoot = a.cfg.Rules.RequireRoot
	return l
}

func (a *app) resolver() *cascade.CascadingResolver {
	return cascade.New(a.lookup(), cascade.Options{
		IgnoreSystemRules: a.cfg.Pipeline.IgnoreSystemRules,
	})
}

func (a *app) pipeline() (*pipeline.Pipeline, error) {
	pre, err := preprocess.New(preprocess.Options{
		RootWrap: a.cfg.Pipeline.RootWrap,
		Markers:  a.markers(),
		Encoding: a.cfg.Pipeline.InputEncoding,
	})
	if err != nil {
		return nil, err
	}
	return pipeline.New(
		cascade.NewCaching(a.resolver()),
		pre,
		textile.New(a.markers()),
		pipeline.Options{Jobs: a.cfg.Pipeline.Jobs},
	), nil
}

// location returns the directory rule resolution starts from for p
func (a *app) location(p string) string {
	full := a.path(p)
	if filesystem.IsDir(a.opts.Fs, full) {
		return full
	}
	return filepath.Dir(full)
}

func usageError(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrInvalidInput, format, args...)
}
