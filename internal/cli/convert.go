package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/filesystem"
	"github.com/arthur-debert/textilize/pkg/logging"
	"github.com/arthur-debert/textilize/pkg/pipeline"
	"github.com/arthur-debert/textilize/pkg/style"
)

// inputExtensions are picked up when a directory is given as input
var inputExtensions = map[string]bool{
	".html":  true,
	".htm":   true,
	".xhtml": true,
}

type convertFlags struct {
	stdout bool
}

func newConvertCmd(a *app) *cobra.Command {
	var (
		flags             convertFlags
		ignoreSystemRules bool
		requireRoot       bool
		rootWrap          string
		root              string
		encoding          string
		ext               string
		jobs              int
	)

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: MsgConvertShort,
		Long: `Convert each FILE to Textile. The output is written next to the input
with the configured extension, or to standard output with --stdout.

A directory converts every .html, .htm and .xhtml file below it. "-" reads
standard input and writes standard output.

A failing document does not stop the others; the exit status is 1 when any
document failed.`,
		Example: `  # Convert one document to guide.textile
  textilize convert guide.html

  # Convert a tree with four workers
  textilize convert --jobs 4 docs/

  # Filter standard input
  curl -s https://example.com/page | textilize convert -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, a, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, MsgFlagStdout)
	cmd.Flags().BoolVar(&ignoreSystemRules, "ignore-system-rules", false, MsgFlagIgnoreSystemRules)
	cmd.Flags().BoolVar(&requireRoot, "require-root", false, MsgFlagRequireRoot)
	cmd.Flags().StringVar(&rootWrap, "root-wrap", "", MsgFlagRootWrap)
	cmd.Flags().StringVar(&root, "root", "", MsgFlagRoot)
	cmd.Flags().StringVar(&encoding, "encoding", "", MsgFlagEncoding)
	cmd.Flags().StringVar(&ext, "ext", "", MsgFlagExtension)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, MsgFlagJobs)

	return cmd
}

func runConvert(cmd *cobra.Command, a *app, args []string, flags convertFlags) error {
	logger := logging.GetLogger("cli.convert")

	p, err := a.pipeline()
	if err != nil {
		return err
	}

	out := &lockedWriter{w: cmd.OutOrStdout()}
	units, err := a.units(args, flags.stdout, out)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		return usageError(MsgNothingToDo)
	}
	if flags.stdout && len(units) > 1 {
		logger.Info().Msgf(MsgStdoutMultiple, len(units))
	}

	report := p.RunBatch(cmd.Context(), units)

	// Results go to stderr whenever converted text owns stdout
	status := cmd.OutOrStdout()
	if flags.stdout || usesStdout(units) {
		status = cmd.ErrOrStderr()
	}
	printReport(status, report)

	return report.Err()
}

func usesStdout(units []pipeline.Unit) bool {
	for _, u := range units {
		if u.Name == "-" {
			return true
		}
	}
	return false
}

func printReport(w io.Writer, report pipeline.Report) {
	for _, res := range report.Results {
		if res.OK() {
			_, _ = fmt.Fprintln(w, style.StatusLine(style.StatusSuccess, res.Unit, ""))
		} else {
			_, _ = fmt.Fprintln(w, style.StatusLine(style.StatusError, res.Unit, res.Err.Error()))
		}
	}
	if len(report.Results) > 1 || !report.OK() {
		_, _ = fmt.Fprintln(w, style.Summary(report.Succeeded(), len(report.Failed())))
	}
}

// units expands args into pipeline units. Directories contribute every
// input file below them in lexical order.
func (a *app) units(args []string, toStdout bool, stdout io.Writer) ([]pipeline.Unit, error) {
	var units []pipeline.Unit
	add := func(path string) {
		u := pipeline.FileUnit(a.opts.Fs, path, filesystem.OutputPath(path, a.cfg.Pipeline.OutputExtension))
		if toStdout {
			u.Create = filesystem.WriterCreator(stdout)
		}
		units = append(units, u)
	}

	for _, arg := range args {
		if arg == "-" {
			units = append(units, pipeline.StreamUnit("-", a.opts.WorkDir, a.opts.In, stdout))
			continue
		}
		path := a.path(arg)
		if !filesystem.IsDir(a.opts.Fs, path) {
			add(path)
			continue
		}
		err := afero.Walk(a.opts.Fs, path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !inputExtensions[strings.ToLower(filepath.Ext(p))] {
				return nil
			}
			add(p)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrIO, "cannot list %s", arg).
				WithDetail(errors.DetailPath, path)
		}
	}
	return units, nil
}

// lockedWriter keeps the output of parallel units from interleaving
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
