package convert

import (
	"fmt"

	"github.com/OpenTraceLab/symconv/pkg/kicad/symbol"
	"github.com/OpenTraceLab/symconv/pkg/kicad/symlib"
)

// AddOptions controls how converted symbols enter an existing library
type AddOptions struct {
	// Library is the .kicad_sym file to create or extend
	Library string

	// FootprintLibrary links each symbol's Footprint field to
	// "<FootprintLibrary>:<symbol name>" when set.
	FootprintLibrary string

	// KeepNames keeps DEF names. Otherwise a file holding a single
	// definition is renamed after the file stem.
	KeepNames bool
}

// AddFile converts src and adds its symbols to opts.Library.
// Symbols whose name is already present are reported in Result.Failed and
// leave the library untouched.
func (c *Converter) AddFile(src string, opts AddOptions) (Result, error) {
	comps, result, err := c.Components(src)
	if err != nil {
		return result, err
	}
	result.Output = opts.Library
	result.Symbols = result.Symbols[:0]

	rename := !opts.KeepNames && len(comps) == 1
	for _, comp := range comps {
		emitOpts := c.Options
		if rename {
			emitOpts.Name = Stem(src)
		}
		name := symbol.New(emitOpts).SymbolName(comp)
		if opts.FootprintLibrary != "" {
			emitOpts.Footprint = opts.FootprintLibrary + ":" + name
		}

		if err := symlib.Add(opts.Library, comp, emitOpts); err != nil {
			c.logger().Error("failed to add symbol", "symbol", name, "library", opts.Library, "err", err)
			result.Failed = append(result.Failed, err)
			continue
		}

		c.logger().Info("added symbol", "symbol", name, "library", opts.Library, "footprint", emitOpts.Footprint)
		result.Symbols = append(result.Symbols, name)
	}

	if len(result.Symbols) == 0 {
		if len(result.Failed) == 1 {
			return result, result.Failed[0]
		}
		return result, fmt.Errorf("%w: %s", ErrNothingConverted, src)
	}

	return result, nil
}
