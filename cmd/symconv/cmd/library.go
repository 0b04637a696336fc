package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/symconv/internal/config"
	"github.com/OpenTraceLab/symconv/pkg/kicad/convert"
	"github.com/OpenTraceLab/symconv/pkg/kicad/symlib"
)

// ErrAborted is returned when a confirmation prompt is declined
var ErrAborted = errors.New("aborted")

func newAddCmd(a *app) *cobra.Command {
	var library string
	var keepNames bool

	cmd := &cobra.Command{
		Use:   "add <file.lib>...",
		Short: "Convert symbols and add them to a library",
		Long: `Convert legacy symbol files and add their symbols to a KiCad 6 library.

The library is a bare name resolved inside symbols_dir (extern becomes
<symbols_dir>/extern.kicad_sym) or a path to a .kicad_sym file. It is created
when missing. A file holding a single definition is renamed after the file,
so LM358_SOIC.lib adds the symbol LM358_SOIC. With a footprint library
configured the symbol's Footprint field is set to <footprint_lib>:<name>.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			conv := convert.New(a.cfg.SymbolOptions(), logger)
			path := a.cfg.LibraryPath(library)
			w := out(cmd)

			var failed int
			for _, src := range args {
				result, err := conv.AddFile(src, convert.AddOptions{
					Library:          path,
					FootprintLibrary: a.cfg.FootprintLib,
					KeepNames:        keepNames,
				})
				if err != nil {
					logger.Error("add failed", "file", src, "err", err)
					failed++
					continue
				}
				for _, name := range result.Symbols {
					printSuccess(w, "Added %s %s %s", name, iconArrow, path)
				}
				reportProblems(cmd, result)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) not added", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&library, "library", "l", "", "target library name or .kicad_sym path")
	cmd.Flags().String("footprint-lib", "", "footprint library to link symbols to")
	cmd.Flags().BoolVar(&keepNames, "keep-names", false, "keep DEF names instead of renaming after the file")
	cmd.MarkFlagRequired("library")
	a.v.BindPFlag(config.KeyFootprintLib, cmd.Flags().Lookup("footprint-lib"))

	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	var library string
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <symbol>",
		Short: "Remove a symbol from a library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			path := a.cfg.LibraryPath(library)

			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Remove symbol %s from %s?", name, path))
				if err != nil {
					return err
				}
				if !ok {
					return ErrAborted
				}
			}

			if err := symlib.Remove(path, name); err != nil {
				return err
			}

			loggerFromContext(cmd.Context()).Debug("removed symbol", "symbol", name, "library", path)
			printSuccess(out(cmd), "Removed %s from %s", name, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&library, "library", "l", "", "library name or .kicad_sym path")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.MarkFlagRequired("library")

	return cmd
}

// confirm asks a y/n question on the command's input until it gets an answer
func confirm(cmd *cobra.Command, question string) (bool, error) {
	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprintf(out(cmd), "%s (y/n) ", question)
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return false, err
			}
			return false, nil
		}

		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [library]",
		Short: "List the symbols of one or all libraries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var paths []string
			if len(args) == 1 {
				paths = []string{a.cfg.LibraryPath(args[0])}
			} else {
				found, err := filepath.Glob(filepath.Join(a.cfg.SymbolsDir, "*.kicad_sym"))
				if err != nil {
					return err
				}
				if len(found) == 0 {
					printInfo(out(cmd), "No libraries in %s", a.cfg.SymbolsDir)
					return nil
				}
				sort.Strings(found)
				paths = found
			}

			w := out(cmd)
			for _, path := range paths {
				lib, err := symlib.ParseFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				printTitle(w, fmt.Sprintf("%s (%s)", convert.Stem(path), styleNumber.Render(fmt.Sprint(len(lib.Symbols)))))
				for _, name := range lib.Names() {
					fmt.Fprintln(w, "  "+name)
				}
			}
			return nil
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <library> <symbol>",
		Short: "Show the properties and pins of a symbol",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.LibraryPath(args[0])
			lib, err := symlib.ParseFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			sym, ok := lib.Symbol(args[1])
			if !ok {
				return fmt.Errorf("%w: %q in %s", symlib.ErrSymbolNotFound, args[1], path)
			}

			showSymbol(cmd, sym)
			return nil
		},
	}
}

func showSymbol(cmd *cobra.Command, sym *symlib.LibSymbol) {
	w := out(cmd)

	printTitle(w, "Symbol: "+sym.Name)
	for _, p := range sym.Properties {
		value := p.Value
		if p.Effects.Hide {
			value += styleDim.Render(" (hidden)")
		}
		printField(w, p.Key, value)
	}

	bb := sym.Bounds()
	printField(w, "Size", fmt.Sprintf("%.2f x %.2f mm", bb.Width(), bb.Height()))
	printField(w, "Graphics", len(sym.Graphics))
	fmt.Fprintln(w)

	printTitle(w, fmt.Sprintf("Pins (%d)", len(sym.Pins)))
	pins := make([]symlib.Pin, len(sym.Pins))
	copy(pins, sym.Pins)
	sort.SliceStable(pins, func(i, j int) bool {
		return pinLess(pins[i].Number.Text, pins[j].Number.Text)
	})
	for _, p := range pins {
		line := fmt.Sprintf("%-5s %-12s %-15s %s", p.Number.Text, p.Name.Text, p.Type, p.Shape)
		if p.Hide {
			line += styleDim.Render(" hidden")
		}
		fmt.Fprintln(w, "  "+line)
	}
}

// pinLess orders pin numbers numerically when both are numbers
func pinLess(a, b string) bool {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	if errA == nil && errB == nil && x != y {
		return x < y
	}
	return a < b
}

