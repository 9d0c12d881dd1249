package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/rules"
	"github.com/arthur-debert/textilize/pkg/style"
)

// ruleView is the serialized form of one effective rule
type ruleView struct {
	Stage       string `yaml:"stage" toml:"stage"`
	Position    int    `yaml:"position" toml:"position"`
	Origin      string `yaml:"origin" toml:"origin"`
	Command     string `yaml:"command" toml:"command"`
	Match       string `yaml:"match" toml:"match"`
	Replacement string `yaml:"replacement,omitempty" toml:"replacement,omitempty"`
	Source      string `yaml:"source,omitempty" toml:"source,omitempty"`
	Line        int    `yaml:"line,omitempty" toml:"line,omitempty"`

	rule *rules.Rule
}

type ruleListing struct {
	Rules []ruleView `toml:"rule"`
}

func newRulesCmd(a *app) *cobra.Command {
	var (
		stage  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "rules [PATH]",
		Short: MsgRulesShort,
		Long: `Show the rules that apply to documents at PATH (a file or directory,
the working directory by default) after the cascade, in application order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			stages, err := selectStages(stage)
			if err != nil {
				return err
			}

			location := a.location(path)
			resolver := a.resolver()
			var views []ruleView
			for _, s := range stages {
				rs, err := resolver.Resolve(cmd.Context(), s, location)
				if err != nil {
					return err
				}
				views = append(views, viewsOf(rs)...)
			}
			return writeRules(cmd.OutOrStdout(), format, location, views)
		},
	}

	cmd.Flags().StringVar(&stage, "stage", "all", MsgFlagStage)
	cmd.Flags().StringVar(&format, "format", "table", MsgFlagFormat)
	// Cascade flags change which rules apply
	cmd.Flags().Bool("ignore-system-rules", false, MsgFlagIgnoreSystemRules)
	cmd.Flags().Bool("require-root", false, MsgFlagRequireRoot)
	cmd.Flags().String("root", "", MsgFlagRoot)

	return cmd
}

func selectStages(s string) ([]rules.Stage, error) {
	if s == "" || s == "all" {
		return rules.Stages(), nil
	}
	stage, err := rules.ParseStage(s)
	if err != nil {
		return nil, err
	}
	return []rules.Stage{stage}, nil
}

func viewsOf(rs *rules.RuleSet) []ruleView {
	list := rs.Rules()
	views := make([]ruleView, len(list))
	for i, r := range list {
		views[i] = ruleView{
			Stage:       rs.Stage().String(),
			Position:    i + 1,
			Origin:      r.Origin().String(),
			Command:     r.Kind().Command(),
			Match:       r.Match(),
			Replacement: r.Replacement(),
			Source:      r.Source(),
			Line:        r.Line(),
			rule:        r,
		}
	}
	return views
}

func writeRules(w io.Writer, format, location string, views []ruleView) error {
	switch strings.ToLower(format) {
	case "table", "":
		return writeRulesTable(w, location, views)
	case "yaml":
		data, err := yaml.Marshal(views)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode rules")
		}
		_, err = w.Write(data)
		return err
	case "toml":
		data, err := toml.Marshal(ruleListing{Rules: views})
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode rules")
		}
		_, err = w.Write(data)
		return err
	default:
		return usageError("unknown format %q", format)
	}
}

func writeRulesTable(w io.Writer, location string, views []ruleView) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, MsgNoRules)
		return err
	}

	var current string
	var data pterm.TableData
	flush := func() error {
		if data == nil {
			return nil
		}
		_, _ = fmt.Fprintln(w, style.Title(fmt.Sprintf(MsgRulesHeader, current, style.Path(location))))
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to render rules")
		}
		_, err = fmt.Fprintln(w, table)
		data = nil
		return err
	}

	for _, v := range views {
		if v.Stage != current {
			if err := flush(); err != nil {
				return err
			}
			current = v.Stage
			data = pterm.TableData{{"#", "Origin", "Rule", "Source"}}
		}
		data = append(data, []string{
			strconv.Itoa(v.Position),
			style.OriginBadge(v.rule.Origin()),
			v.rule.String(),
			style.Muted(source(v)),
		})
	}
	return flush()
}

func source(v ruleView) string {
	if v.Line == 0 {
		return v.Source
	}
	return fmt.Sprintf("%s:%d", v.Source, v.Line)
}
