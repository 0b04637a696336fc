// Package convert turns legacy symbol library files into KiCad 6 symbol
// libraries.
//
// A Converter reads a .lib file, splits it into DEF ... ENDDEF blocks,
// parses each one and writes every successfully parsed component into a
// single (kicad_symbol_lib ...) container. Record-level problems are logged
// and returned as diagnostics; they never stop a conversion.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/OpenTraceLab/symconv/pkg/kicad/legacy"
	"github.com/OpenTraceLab/symconv/pkg/kicad/symbol"
	"github.com/OpenTraceLab/symconv/pkg/kicad/symlib"
)

// Extension of KiCad 6 symbol library files
const Extension = ".kicad_sym"

// ErrNothingConverted is returned when no definition in a file could be converted
var ErrNothingConverted = errors.New("convert: no symbol converted")

// Converter runs conversions with fixed emitter options.
// It keeps no state between calls.
type Converter struct {
	Options symbol.Options
	Logger  *log.Logger
}

// New creates a converter. A nil logger falls back to log.Default().
func New(opts symbol.Options, logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.Default()
	}
	return &Converter{Options: opts, Logger: logger}
}

// Result describes one conversion
type Result struct {
	Output      string              // path written, empty for writer conversions
	Symbols     []string            // names of the emitted symbols, in order
	Diagnostics []legacy.Diagnostic // skipped records of all definitions
	Failed      []error             // definitions that could not be converted
}

// DefaultOutput returns the library path used when no output is given:
// the source's directory and stem with the .kicad_sym extension.
func DefaultOutput(src string) string {
	return filepath.Join(filepath.Dir(src), Stem(src)+Extension)
}

// Stem returns the file name of path without directory and extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (c *Converter) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

// ConvertFile converts the legacy library src into dst. An empty dst means
// DefaultOutput(src). The output is written atomically; nothing is written
// when no definition converts.
func (c *Converter) ConvertFile(src, dst string) (Result, error) {
	start := time.Now()
	if dst == "" {
		dst = DefaultOutput(src)
	}

	lines, err := legacy.ReadFile(src)
	if err != nil {
		return Result{}, err
	}

	comps, result, err := c.parseAll(src, lines)
	if err != nil {
		return result, err
	}

	var buf bytes.Buffer
	if err := c.writeLibrary(&buf, comps); err != nil {
		return result, err
	}
	if err := symlib.WriteFile(dst, buf.Bytes()); err != nil {
		return result, err
	}
	result.Output = dst

	c.logger().Info("converted library",
		"source", src,
		"output", dst,
		"symbols", len(result.Symbols),
		"skipped", len(result.Diagnostics),
		"duration", time.Since(start).Round(time.Millisecond))

	return result, nil
}

// ConvertLines converts the definitions in lines and writes a complete
// library (header, symbols, closers) to w.
func (c *Converter) ConvertLines(lines []string, w io.Writer) (Result, error) {
	comps, result, err := c.parseAll("", lines)
	if err != nil {
		return result, err
	}
	return result, c.writeLibrary(w, comps)
}

// Components parses every definition of a legacy library file, logging
// diagnostics as they are found.
func (c *Converter) Components(src string) ([]*legacy.Component, Result, error) {
	lines, err := legacy.ReadFile(src)
	if err != nil {
		return nil, Result{}, err
	}
	return c.parseAll(src, lines)
}

func (c *Converter) parseAll(src string, lines []string) ([]*legacy.Component, Result, error) {
	var result Result
	var comps []*legacy.Component

	blocks := legacy.SplitDefinitions(lines)
	if len(blocks) == 0 {
		// no ENDDEF framing; let Parse look for a DEF line itself
		blocks = [][]string{lines}
	}

	e := symbol.New(c.Options)
	seen := make(map[string]bool)
	for _, block := range blocks {
		comp, diags, err := legacy.Parse(block)
		if err != nil {
			c.logger().Error("skipping definition", "file", src, "err", err)
			result.Failed = append(result.Failed, err)
			continue
		}

		name := e.SymbolName(comp)
		for _, d := range diags {
			c.logger().Warn("skipped record",
				"symbol", name, "line", d.Line, "kind", d.Kind, "err", d.Err)
		}
		result.Diagnostics = append(result.Diagnostics, diags...)

		if seen[name] {
			err := fmt.Errorf("%w: %q", symlib.ErrSymbolExists, name)
			c.logger().Error("skipping definition", "file", src, "err", err)
			result.Failed = append(result.Failed, err)
			continue
		}
		seen[name] = true

		c.logger().Debug("parsed definition",
			"symbol", name,
			"fields", len(comp.Fields),
			"pins", len(comp.Pins),
			"graphics", len(comp.Polygons)+len(comp.Circles)+len(comp.Arcs)+len(comp.Rectangles))

		comps = append(comps, comp)
		result.Symbols = append(result.Symbols, name)
	}

	if len(comps) == 0 {
		if len(result.Failed) == 1 {
			return nil, result, result.Failed[0]
		}
		return nil, result, fmt.Errorf("%w: %w", ErrNothingConverted, errors.Join(result.Failed...))
	}

	return comps, result, nil
}

func (c *Converter) writeLibrary(w io.Writer, comps []*legacy.Component) error {
	e := symbol.New(c.Options)

	if err := e.WriteHeader(w); err != nil {
		return err
	}
	for _, comp := range comps {
		if err := e.WriteSymbol(w, comp); err != nil {
			return err
		}
		if _, err := io.WriteString(w, symbol.SymbolClose); err != nil {
			return fmt.Errorf("%w: %w", symbol.ErrOutputWrite, err)
		}
	}
	if _, err := io.WriteString(w, symbol.LibraryClose); err != nil {
		return fmt.Errorf("%w: %w", symbol.ErrOutputWrite, err)
	}
	return nil
}
