package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/filesystem"
	"github.com/arthur-debert/textilize/pkg/rules"
	"github.com/arthur-debert/textilize/pkg/style"
)

// ruleFile is one rule file to validate
type ruleFile struct {
	path    string
	content []byte
	err     error
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [FILE...]",
		Short: MsgCheckShort,
		Long: `Parse rule files and report the first malformed line of each.

Without arguments, every rule file of the cascade for the working directory
is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.ruleFiles(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				_, _ = fmt.Fprintln(out, MsgNoRuleFiles)
				return nil
			}

			var failed []string
			for _, f := range files {
				err := f.err
				if err == nil {
					_, err = rules.ParseDocument(f.path, bytes.NewReader(f.content), rules.OriginUser)
				}
				if err != nil {
					failed = append(failed, f.path)
					_, _ = fmt.Fprintln(out, style.StatusLine(style.StatusError, f.path, err.Error()))
					continue
				}
				_, _ = fmt.Fprintln(out, style.StatusLine(style.StatusSuccess, f.path, ""))
			}
			_, _ = fmt.Fprintf(out, MsgCheckSummary+"\n", len(files), len(failed))

			if len(failed) > 0 {
				return errors.Newf(errors.ErrMalformedRule, "%d of %d rule files are malformed", len(failed), len(files)).
					WithDetail("files", failed)
			}
			return nil
		},
	}
}

// ruleFiles reads the named files, or the user rule files of the cascade
// for the working directory when none are named
func (a *app) ruleFiles(cmd *cobra.Command, args []string) ([]ruleFile, error) {
	var files []ruleFile
	if len(args) > 0 {
		for _, arg := range args {
			path := a.path(arg)
			content, err := filesystem.ReadFile(a.opts.Fs, path)
			if err != nil {
				err = errors.Wrapf(err, errors.ErrIO, "cannot read %s", arg)
			}
			files = append(files, ruleFile{path: path, content: content, err: err})
		}
		return files, nil
	}

	resolver := a.resolver()
	for _, stage := range rules.Stages() {
		sources, err := resolver.Sources(cmd.Context(), stage, a.opts.WorkDir)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			if src.Origin == rules.OriginSystem {
				continue
			}
			files = append(files, ruleFile{path: src.Path, content: src.Content})
		}
	}
	return files, nil
}
