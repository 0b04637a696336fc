package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/symconv/pkg/kicad/convert"
)

func newConvertCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <file.lib>",
		Short: "Convert a legacy symbol library",
		Long: `Convert every DEF ... ENDDEF definition of a legacy .lib file into one
KiCad 6 symbol library. Without -o the library is written next to the input
with the .kicad_sym extension.

Records that cannot be read are skipped and reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			conv := convert.New(a.cfg.SymbolOptions(), logger)

			result, err := conv.ConvertFile(args[0], output)
			if err != nil {
				return fmt.Errorf("convert %s: %w", args[0], err)
			}

			w := out(cmd)
			printSuccess(w, "Converted %s symbol(s) %s %s",
				styleNumber.Render(fmt.Sprint(len(result.Symbols))), iconArrow, result.Output)
			for _, name := range result.Symbols {
				printDetail(w, "%s", name)
			}
			reportProblems(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output .kicad_sym file")

	return cmd
}

func reportProblems(cmd *cobra.Command, result convert.Result) {
	w := out(cmd)
	if n := len(result.Diagnostics); n > 0 {
		printWarning(w, "%d record(s) skipped", n)
		for _, d := range result.Diagnostics {
			printDetail(w, "%s", d)
		}
	}
	if n := len(result.Failed); n > 0 {
		printWarning(w, "%d definition(s) not converted", n)
		for _, err := range result.Failed {
			printDetail(w, "%v", err)
		}
	}
}
