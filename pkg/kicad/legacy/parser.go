package legacy

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/OpenTraceLab/symconv/pkg/kicad/units"
)

// Minimum number of values each record grammar must yield
const (
	definitionValues = 7
	fieldValues      = 10
	pinValues        = 10
	rectangleValues  = 8
	polygonHeader    = 4
	circleValues     = 7
	arcValues        = 13
	textValues       = 7
)

// Parse builds a Component from the lines of one legacy symbol definition.
// Comment and blank lines are expected to be removed already (see ReadLines).
//
// Lines before the first DEF line are ignored. A missing or malformed DEF
// line is fatal. Every other problem drops the offending line and is
// reported as a Diagnostic; parsing always continues with the next line.
func Parse(lines []string) (*Component, []Diagnostic, error) {
	start := -1
	for i, line := range lines {
		if hasDefinition(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, nil, ErrMissingDefinition
	}

	def, err := parseDefinition(lines[start])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: line %d: %w", ErrMalformedDefinition, start+1, err)
	}

	comp := &Component{Definition: def}
	var diags []Diagnostic

	for i := start + 1; i < len(lines); i++ {
		line := lines[i]
		fields := strings.Fields(line)
		if len(fields) == 0 || isForeign(fields[0]) {
			continue
		}

		kind := KindOf(fields[0])
		if err := comp.parseRecord(kind, line); err != nil {
			diags = append(diags, Diagnostic{
				Line: i + 1,
				Kind: kind,
				Text: line,
				Err:  err,
			})
		}
	}

	return comp, diags, nil
}

// ParseReader reads a legacy definition and parses it
func ParseReader(r io.Reader) (*Component, []Diagnostic, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, nil, err
	}
	return Parse(lines)
}

// hasDefinition reports whether DEF appears as a whitespace delimited token
func hasDefinition(line string) bool {
	for _, f := range strings.Fields(line) {
		if f == "DEF" {
			return true
		}
	}
	return false
}

// parseRecord parses one record line and appends it to the component
func (c *Component) parseRecord(kind RecordKind, line string) error {
	if kind == KindUnknown {
		return fmt.Errorf("%w %q", ErrUnknownRecord, strings.Fields(line)[0])
	}

	tokens, err := tokenize(line)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	switch kind {
	case KindField:
		f, err := parseField(tokens)
		if err != nil {
			return malformed(err)
		}
		c.Fields = append(c.Fields, f)
	case KindPin:
		p, err := parsePin(tokens)
		if err != nil {
			return malformed(err)
		}
		c.Pins = append(c.Pins, p)
	case KindRectangle:
		r, err := parseRectangle(tokens)
		if err != nil {
			return malformed(err)
		}
		c.Rectangles = append(c.Rectangles, r)
	case KindPolygon:
		p, err := parsePolygon(tokens, line)
		if err != nil {
			return malformed(err)
		}
		c.Polygons = append(c.Polygons, p)
	case KindCircle:
		ci, err := parseCircle(tokens)
		if err != nil {
			return malformed(err)
		}
		c.Circles = append(c.Circles, ci)
	case KindArc:
		a, err := parseArc(tokens)
		if err != nil {
			return malformed(err)
		}
		c.Arcs = append(c.Arcs, a)
	case KindText:
		t, err := parseText(tokens)
		if err != nil {
			return malformed(err)
		}
		c.Texts = append(c.Texts, t)
	default:
		return fmt.Errorf("%w %q", ErrUnknownRecord, strings.Fields(line)[0])
	}

	return nil
}

// malformed tags a record error with ErrMalformedRecord unless it already is
func malformed(err error) error {
	if errors.Is(err, ErrMalformedRecord) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
}

// DEF name reference 0 pin_name_offset show_pin_number show_pin_name units unused power
func parseDefinition(line string) (Definition, error) {
	var def Definition

	tokens, err := tokenize(line)
	if err != nil {
		return def, err
	}

	at := 0
	for at < len(tokens) && (tokens[at].Quoted || tokens[at].Value != "DEF") {
		at++
	}

	s := newScanner(tokens[at:])
	s.literal("DEF")
	def.Name = s.str("symbol name", MaxNameLength)
	def.Reference = s.str("reference", MaxNameLength)
	s.literal("0")
	def.PinNameOffset = s.integer("pin name offset")
	def.ShowPinNumber = s.flag("show pin number")
	def.ShowPinName = s.flag("show pin name")
	def.UnitCount = s.integer("unit count")
	s.skip()
	def.Power = powerFlag(s)

	if err := s.result(definitionValues); err != nil {
		return def, err
	}
	if def.UnitCount < 1 {
		return def, fmt.Errorf("unit count must be at least 1, got %d", def.UnitCount)
	}

	return def, nil
}

// powerFlag reads the DEF power flag. Besides Y/N, KiCad writes P for power
// symbols and N for normal ones.
func powerFlag(s *scanner) bool {
	c := s.char("power flag")
	if !s.ok() {
		return false
	}
	switch c {
	case 'Y', 'P':
		return true
	case 'N':
		return false
	default:
		s.count--
		s.fail(fmt.Errorf("power flag: expected Y, N or P, got %q", c))
		return false
	}
}

// F<id> "text" x y size orientation visibility hjustify vjustify+italic+bold ["name"]
func parseField(tokens []token) (Field, error) {
	var f Field

	s := newScanner(tokens)
	s.skip() // F<id>
	f.Text = s.str("field text", MaxNameLength)
	f.X = s.integer("x")
	f.Y = s.integer("y")
	f.FontSize = s.integer("font size")
	f.Orientation = s.char("orientation")
	f.Visibility = s.char("visibility")
	f.HJustify = s.char("horizontal justification")

	var italic, bold byte
	s.chars("style", &f.VJustify, &italic, &bold)
	f.Italic = italic == 'I'
	f.Bold = bold == 'B'

	if s.optional() {
		f.Name = s.str("field name", MaxNameLength)
		f.HasName = s.ok()
	}

	return f, s.result(fieldValues)
}

// X name number x y length orientation number_size name_size unit convert type [shape]
func parsePin(tokens []token) (Pin, error) {
	var p Pin

	s := newScanner(tokens)
	s.skip() // X
	p.Name = s.str("pin name", MaxNameLength)
	p.Number = s.str("pin number", MaxPinNumberLength)
	p.X = s.integer("x")
	p.Y = s.integer("y")
	p.Length = s.integer("length")
	p.Orientation = s.char("orientation")
	p.NumberSize = s.integer("number size")
	p.NameSize = s.integer("name size")
	p.Unit = s.integer("unit")
	p.Convert = s.integer("convert")

	var code byte
	if s.optional() {
		code = s.char("electrical type")
	}
	p.Type = units.ParsePinType(code)

	if s.optional() {
		p.Shape = s.str("pin shape", MaxPinShapeLength)
	}

	return p, s.result(pinValues)
}

// S x1 y1 x2 y2 unit convert thickness fill
func parseRectangle(tokens []token) (Rectangle, error) {
	var r Rectangle

	s := newScanner(tokens)
	s.skip() // S
	r.StartX = s.integer("start x")
	r.StartY = s.integer("start y")
	r.EndX = s.integer("end x")
	r.EndY = s.integer("end y")
	r.Unit = s.integer("unit")
	r.Convert = s.integer("convert")
	r.Thickness = s.integer("thickness")
	r.Fill = s.char("fill")

	return r, s.result(rectangleValues)
}

// P n unit convert thickness x0 y0 ... xn-1 yn-1 fill
func parsePolygon(tokens []token, line string) (Polygon, error) {
	var p Polygon

	s := newScanner(tokens)
	s.skip() // P
	n := s.integer("point count")
	p.Unit = s.integer("unit")
	p.Convert = s.integer("convert")
	p.Thickness = s.integer("thickness")
	if err := s.result(polygonHeader); err != nil {
		return p, err
	}
	if n < 0 {
		return p, fmt.Errorf("negative point count %d", n)
	}

	rest := s.remaining()
	if len(rest) != 2*n+1 {
		return p, fmt.Errorf("%w: declared %d points, found %d values after the header",
			ErrPointCountMismatch, n, len(rest))
	}

	fill := rest[len(rest)-1].Value
	if _, err := strconv.Atoi(fill); err == nil {
		return p, fmt.Errorf("%w: declared %d points but no fill code follows them",
			ErrPointCountMismatch, n)
	}

	p.Points = make([]Point, 0, n)
	for i := 0; i < n; i++ {
		x, errX := strconv.Atoi(rest[2*i].Value)
		y, errY := strconv.Atoi(rest[2*i+1].Value)
		if errX != nil || errY != nil {
			return p, fmt.Errorf("point %d: invalid coordinate %q %q", i, rest[2*i].Value, rest[2*i+1].Value)
		}
		p.Points = append(p.Points, Point{X: x, Y: y})
	}

	p.Fill = lastChar(line)

	return p, nil
}

// C x y radius unit convert thickness fill
func parseCircle(tokens []token) (Circle, error) {
	var c Circle

	s := newScanner(tokens)
	s.skip() // C
	c.X = s.integer("x")
	c.Y = s.integer("y")
	c.Radius = s.integer("radius")
	c.Unit = s.integer("unit")
	c.Convert = s.integer("convert")
	c.Thickness = s.integer("thickness")
	c.Fill = s.char("fill")

	return c, s.result(circleValues)
}

// A x y radius start_angle end_angle unit convert thickness fill sx sy ex ey
func parseArc(tokens []token) (Arc, error) {
	var a Arc

	s := newScanner(tokens)
	s.skip() // A
	a.X = s.integer("x")
	a.Y = s.integer("y")
	a.Radius = s.integer("radius")
	a.StartAngle = s.integer("start angle")
	a.EndAngle = s.integer("end angle")
	a.Unit = s.integer("unit")
	a.Convert = s.integer("convert")
	a.Thickness = s.integer("thickness")
	a.Fill = s.char("fill")
	a.StartX = s.integer("start x")
	a.StartY = s.integer("start y")
	a.EndX = s.integer("end x")
	a.EndY = s.integer("end y")

	return a, s.result(arcValues)
}

// T orientation x y size unit convert text
func parseText(tokens []token) (Text, error) {
	var t Text

	s := newScanner(tokens)
	s.skip() // T
	t.Orientation = s.integer("orientation")
	t.X = s.integer("x")
	t.Y = s.integer("y")
	t.Size = s.integer("size")
	t.Unit = s.integer("unit")
	t.Convert = s.integer("convert")
	t.Text = s.str("text", MaxTextLength)

	return t, s.result(textValues)
}

// lastChar returns the last non-whitespace byte of a line
func lastChar(line string) byte {
	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
	if trimmed == "" {
		return 0
	}
	return trimmed[len(trimmed)-1]
}
