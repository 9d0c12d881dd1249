package cli

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/textilize/internal/version"
	"github.com/arthur-debert/textilize/pkg/logging"
	"github.com/arthur-debert/textilize/pkg/style"
	"github.com/arthur-debert/textilize/pkg/topics"
)

// NewRootCmd creates the command tree for the process environment
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithOptions(Options{})
}

// NewRootCmdWithOptions creates the command tree over opts
func NewRootCmdWithOptions(opts Options) *cobra.Command {
	a := &app{opts: opts.withDefaults()}

	var (
		verbosity  int
		configFile string
		color      string
	)

	rootCmd := &cobra.Command{
		Use:     "textilize [FILE...]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := style.ParseFormat(color)
			if err != nil {
				return usageError("%v", err)
			}
			format = style.Resolve(format, os.Stdout)
			style.Apply(format)

			if err := a.loadConfig(cmd, configFile); err != nil {
				logging.SetupLogger(verbosity, logging.WithNoColor(format == style.FormatText))
				return err
			}

			logOpts := []logging.Option{logging.WithNoColor(format == style.FormatText)}
			if a.cfg.Logging.ToFile {
				logOpts = append(logOpts, logging.WithFile(logging.FileOptions{
					Path:       a.cfg.Logging.File,
					MaxSizeMB:  a.cfg.Logging.MaxSizeMB,
					MaxBackups: a.cfg.Logging.MaxBackups,
					MaxAgeDays: a.cfg.Logging.MaxAgeDays,
				}))
			}
			logging.SetupLogger(verbosity, logOpts...)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			logging.LogCommand(cmd.CommandPath(), args)
			return nil
		},
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runConvert(cmd, a, args, convertFlags{})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto", MsgFlagColor)

	rootCmd.AddCommand(newConvertCmd(a))
	rootCmd.AddCommand(newRulesCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	var renderer topics.Renderer = &topics.PlainRenderer{}
	if style.DetectFormat(os.Stdout) == style.FormatTerminal {
		renderer = topics.NewGlamourRenderer()
	}
	// The builtin topics are embedded, so a failure here is a build defect
	if err := topics.InitializeWithOptions(rootCmd, topics.Builtin(), topics.Options{Renderer: renderer}); err != nil {
		panic(err)
	}

	return rootCmd
}
