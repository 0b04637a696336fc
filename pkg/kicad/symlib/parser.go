package symlib

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/symconv/pkg/kicad/sexp"
	"github.com/OpenTraceLab/symconv/pkg/kicad/sexp/kicadsexp"
)

// RootNode is the name of a symbol library's outer list
const RootNode = "kicad_symbol_lib"

// ParseFile reads and parses a symbol library file
func ParseFile(filename string) (*Library, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a symbol library from an io.Reader
func Parse(r io.Reader) (*Library, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotLibrary, err)
	}
	if len(sexps) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrNotLibrary)
	}

	root := sexps[0]
	rootName, err := sexp.GetNodeName(root)
	if err != nil || root.IsLeaf() {
		return nil, fmt.Errorf("%w: no root list", ErrNotLibrary)
	}
	if rootName != RootNode {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrNotLibrary, RootNode, rootName)
	}

	lib := &Library{}

	if versionNode, found := sexp.FindNode(root, "version"); found {
		lib.Version, err = sexp.GetInt(versionNode, 1)
		if err != nil {
			return nil, fmt.Errorf("invalid version: %w", err)
		}
	}
	if generatorNode, found := sexp.FindNode(root, "generator"); found {
		lib.Generator, _ = sexp.GetString(generatorNode, 1)
	}

	for _, symNode := range sexp.FindAllNodes(root, "symbol") {
		sym, err := parseLibSymbol(symNode)
		if err != nil {
			return nil, err
		}
		lib.Symbols = append(lib.Symbols, sym)
	}

	return lib, nil
}

// parseLibSymbol parses a single library symbol definition
func parseLibSymbol(node kicadsexp.Sexp) (LibSymbol, error) {
	sym := LibSymbol{
		PinNumbers: true,
		PinNames:   true,
		InBom:      true,
		OnBoard:    true,
	}

	name, err := sexp.GetString(node, 1)
	if err != nil {
		return sym, fmt.Errorf("symbol without a name: %w", err)
	}
	sym.Name = name

	for _, pn := range sexp.FindAllNodes(node, "property") {
		prop, err := sexp.GetProperty(pn)
		if err != nil {
			return sym, fmt.Errorf("symbol %q: %w", name, err)
		}
		sym.Properties = append(sym.Properties, prop)
	}

	if pnNode, found := sexp.FindNode(node, "pin_numbers"); found {
		sym.PinNumbers = !sexp.HasSymbol(pnNode, "hide")
	}
	if pnNode, found := sexp.FindNode(node, "pin_names"); found {
		sym.PinNames = !sexp.HasSymbol(pnNode, "hide")
		if offsetNode, found := sexp.FindNode(pnNode, "offset"); found {
			sym.PinNameOffset, _ = sexp.GetFloat(offsetNode, 1)
		}
	}

	if ibNode, found := sexp.FindNode(node, "in_bom"); found {
		val, _ := sexp.GetString(ibNode, 1)
		sym.InBom = val == "yes"
	}
	if obNode, found := sexp.FindNode(node, "on_board"); found {
		val, _ := sexp.GetString(obNode, 1)
		sym.OnBoard = val == "yes"
	}

	// Nested units hold the actual graphics and pins
	for _, unitNode := range sexp.FindAllNodes(node, "symbol") {
		unit, err := parseSymbolUnit(unitNode)
		if err != nil {
			return sym, fmt.Errorf("symbol %q: %w", name, err)
		}
		sym.Units = append(sym.Units, unit)
		sym.Graphics = append(sym.Graphics, unit.Graphics...)
		sym.Pins = append(sym.Pins, unit.Pins...)
	}

	return sym, nil
}

// parseSymbolUnit parses a nested symbol unit
func parseSymbolUnit(node kicadsexp.Sexp) (SymbolUnit, error) {
	unit := SymbolUnit{}
	unit.Name, _ = sexp.GetString(node, 1)

	parsers := []struct {
		key   string
		parse func(kicadsexp.Sexp) (Graphic, error)
	}{
		{"polyline", parsePolyline},
		{"circle", parseCircle},
		{"arc", parseArc},
		{"rectangle", parseRectangle},
	}
	for _, p := range parsers {
		for _, n := range sexp.FindAllNodes(node, p.key) {
			g, err := p.parse(n)
			if err != nil {
				return unit, fmt.Errorf("unit %q: %s: %w", unit.Name, p.key, err)
			}
			unit.Graphics = append(unit.Graphics, g)
		}
	}

	for _, pn := range sexp.FindAllNodes(node, "pin") {
		pin, err := parsePin(pn)
		if err != nil {
			return unit, fmt.Errorf("unit %q: pin: %w", unit.Name, err)
		}
		unit.Pins = append(unit.Pins, pin)
	}

	return unit, nil
}

// parsePin parses a pin definition
func parsePin(node kicadsexp.Sexp) (Pin, error) {
	pin := Pin{}

	pin.Type, _ = sexp.GetString(node, 1)
	pin.Shape, _ = sexp.GetString(node, 2)

	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return pin, fmt.Errorf("missing position")
	}
	pos, err := sexp.GetPosition(atNode)
	if err != nil {
		return pin, err
	}
	pin.Position = pos.Position
	pin.Angle = pos.Angle

	if lenNode, found := sexp.FindNode(node, "length"); found {
		if pin.Length, err = sexp.GetFloat(lenNode, 1); err != nil {
			return pin, fmt.Errorf("invalid length: %w", err)
		}
	}

	if nameNode, found := sexp.FindNode(node, "name"); found {
		pin.Name = parsePinText(nameNode)
	}
	if numNode, found := sexp.FindNode(node, "number"); found {
		pin.Number = parsePinText(numNode)
	}

	pin.Hide = sexp.HasSymbol(node, "hide")

	return pin, nil
}

func parsePinText(node kicadsexp.Sexp) PinText {
	var t PinText
	t.Text, _ = sexp.GetString(node, 1)
	if effectsNode, found := sexp.FindNode(node, "effects"); found {
		t.Effects, _ = sexp.GetEffects(effectsNode)
	}
	return t
}

// parseStyle reads the optional stroke and fill of a graphic
func parseStyle(node kicadsexp.Sexp, g *Graphic) error {
	g.Fill = Fill{Type: "none"}

	if strokeNode, found := sexp.FindNode(node, "stroke"); found {
		stroke, err := sexp.GetStroke(strokeNode)
		if err != nil {
			return err
		}
		g.Stroke = stroke
	}
	if fillNode, found := sexp.FindNode(node, "fill"); found {
		fill, err := sexp.GetFill(fillNode)
		if err != nil {
			return err
		}
		g.Fill = fill
	}
	return nil
}

// point reads a required (key X Y) child
func point(node kicadsexp.Sexp, key string) (Position, error) {
	n, found := sexp.FindNode(node, key)
	if !found {
		return Position{}, fmt.Errorf("missing %s", key)
	}
	p, err := sexp.GetPositionXY(n)
	if err != nil {
		return Position{}, fmt.Errorf("%s: %w", key, err)
	}
	return p, nil
}

func parseRectangle(node kicadsexp.Sexp) (Graphic, error) {
	g := Graphic{Type: "rectangle"}

	var err error
	if g.Start, err = point(node, "start"); err != nil {
		return g, err
	}
	if g.End, err = point(node, "end"); err != nil {
		return g, err
	}
	return g, parseStyle(node, &g)
}

func parseCircle(node kicadsexp.Sexp) (Graphic, error) {
	g := Graphic{Type: "circle"}

	var err error
	if g.Center, err = point(node, "center"); err != nil {
		return g, err
	}
	if radiusNode, found := sexp.FindNode(node, "radius"); found {
		if g.Radius, err = sexp.GetFloat(radiusNode, 1); err != nil {
			return g, fmt.Errorf("radius: %w", err)
		}
	}
	return g, parseStyle(node, &g)
}

func parseArc(node kicadsexp.Sexp) (Graphic, error) {
	g := Graphic{Type: "arc"}

	var err error
	if g.Start, err = point(node, "start"); err != nil {
		return g, err
	}
	if g.Mid, err = point(node, "mid"); err != nil {
		return g, err
	}
	if g.End, err = point(node, "end"); err != nil {
		return g, err
	}
	return g, parseStyle(node, &g)
}

func parsePolyline(node kicadsexp.Sexp) (Graphic, error) {
	g := Graphic{Type: "polyline"}

	if ptsNode, found := sexp.FindNode(node, "pts"); found {
		for _, xy := range sexp.FindAllNodes(ptsNode, "xy") {
			pos, err := sexp.GetPositionXY(xy)
			if err != nil {
				return g, fmt.Errorf("xy: %w", err)
			}
			g.Points = append(g.Points, pos)
		}
	}
	return g, parseStyle(node, &g)
}
