// Package symbol writes legacy components as KiCad 6 symbol library text.
//
// The emitter produces one (symbol ...) block inside a (kicad_symbol_lib ...)
// container. It deliberately leaves the symbol and the container open: a
// library may hold many symbols, so the caller appends Closer (or
// SymbolClose when splicing into an existing library) once it is done.
package symbol

import (
	"errors"
	"fmt"
	"io"

	"github.com/OpenTraceLab/symconv/pkg/kicad/legacy"
)

// Default container identifiers (KiCad 6.0 symbol library format)
const (
	DefaultVersion   = 20211014
	DefaultGenerator = "symconv"
)

// Closing text the caller appends after the emitted symbol
const (
	SymbolClose  = "  )\n"
	LibraryClose = ")\n"
	Closer       = SymbolClose + LibraryClose
)

// ErrOutputWrite wraps any failure writing to the output
var ErrOutputWrite = errors.New("symbol: output write failed")

// Options controls emission
type Options struct {
	Version   int    // container format version
	Generator string // container generator identifier

	// Name replaces the DEF name as the symbol name when set.
	Name string

	// Footprint replaces the text of the Footprint field (field 2) when set,
	// e.g. "OP_AMP:LM358".
	Footprint string
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		Version:   DefaultVersion,
		Generator: DefaultGenerator,
	}
}

// Emitter renders components. It holds no state between calls, so emitting
// the same component twice produces identical bytes.
type Emitter struct {
	opts Options
}

// New creates an emitter. Zero Version or Generator fall back to defaults.
func New(opts Options) *Emitter {
	if opts.Version == 0 {
		opts.Version = DefaultVersion
	}
	if opts.Generator == "" {
		opts.Generator = DefaultGenerator
	}
	return &Emitter{opts: opts}
}

// Options returns the effective options
func (e *Emitter) Options() Options {
	return e.opts
}

// Emit writes the library header followed by the symbol block.
// The caller appends Closer.
func (e *Emitter) Emit(w io.Writer, c *legacy.Component) error {
	if err := e.WriteHeader(w); err != nil {
		return err
	}
	return e.WriteSymbol(w, c)
}

// WriteHeader writes the opening line of the library container
func (e *Emitter) WriteHeader(w io.Writer) error {
	return write(w, header(e.opts.Version, e.opts.Generator))
}

// WriteSymbol writes the symbol block, leaving the symbol itself open.
// Sections are written in a fixed order: symbol line, properties, then the
// graphics unit holding polygons, circles, arcs, rectangles and pins.
func (e *Emitter) WriteSymbol(w io.Writer, c *legacy.Component) error {
	name := e.SymbolName(c)

	if err := write(w, symbolOpen(name, c.Definition)); err != nil {
		return err
	}

	for i, f := range c.Fields {
		if i == footprintField && e.opts.Footprint != "" {
			f.Text = e.opts.Footprint
		}
		if err := write(w, property(i, f)); err != nil {
			return err
		}
	}

	if err := write(w, unitOpen(name)); err != nil {
		return err
	}
	for _, p := range c.Polygons {
		if err := write(w, polyline(p)); err != nil {
			return err
		}
	}
	for _, ci := range c.Circles {
		if err := write(w, circle(ci)); err != nil {
			return err
		}
	}
	for _, a := range c.Arcs {
		if err := write(w, arc(a)); err != nil {
			return err
		}
	}
	for _, r := range c.Rectangles {
		if err := write(w, rectangle(r)); err != nil {
			return err
		}
	}
	for _, p := range c.Pins {
		if err := write(w, pin(p)); err != nil {
			return err
		}
	}

	return write(w, unitClose)
}

// SymbolName returns the name the symbol is emitted under
func (e *Emitter) SymbolName(c *legacy.Component) string {
	if e.opts.Name != "" {
		return e.opts.Name
	}
	return c.Definition.Name
}

func write(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return nil
}
