package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/OpenTraceLab/symconv/internal/config"
)

// app carries the state shared by all commands of one invocation
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgFile string
	verbose bool
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "symconv",
		Short: "Convert legacy KiCad symbols to KiCad 6 symbol libraries",
		Long: `symconv converts KiCad legacy (.lib) symbol definitions into KiCad 6
(.kicad_sym) symbol libraries and manages the symbols in those libraries.

Examples:
  symconv convert LM358.lib                 # write LM358.kicad_sym next to it
  symconv add LM358.lib -l extern           # add to <symbols_dir>/extern.kicad_sym
  symconv list                              # symbols of every library
  symconv info extern LM358                 # pins and properties of one symbol
  symconv remove LM358 -l extern -y         # drop it again`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if a.verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			if err := config.Init(a.v, a.cfgFile); err != nil {
				return err
			}
			if used := a.v.ConfigFileUsed(); used != "" {
				logger.Debug("using config file", "path", used)
			}

			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./symconv.yaml or ~/.config/symconv/symconv.yaml)")
	flags.String("symbols-dir", config.DefaultSymbolsDir, "directory holding .kicad_sym libraries")
	a.v.BindPFlag(config.KeySymbolsDir, flags.Lookup("symbols-dir"))

	root.AddCommand(
		newConvertCmd(a),
		newAddCmd(a),
		newRemoveCmd(a),
		newListCmd(a),
		newInfoCmd(a),
	)

	return root
}

// out returns the writer for command results
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
