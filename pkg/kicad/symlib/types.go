// Package symlib reads and edits KiCad 6 symbol library (.kicad_sym) files.
package symlib

import (
	"github.com/OpenTraceLab/symconv/pkg/kicad/sexp"
)

// Type aliases for shared types
type (
	Position    = sexp.Position
	Angle       = sexp.Angle
	Size        = sexp.Size
	Stroke      = sexp.Stroke
	Fill        = sexp.Fill
	Effects     = sexp.Effects
	Property    = sexp.Property
	BoundingBox = sexp.BoundingBox
)

// Library is a parsed (kicad_symbol_lib ...) file
type Library struct {
	Version   int
	Generator string
	Symbols   []LibSymbol
}

// Symbol returns the top-level symbol with the given name
func (l *Library) Symbol(name string) (*LibSymbol, bool) {
	for i := range l.Symbols {
		if l.Symbols[i].Name == name {
			return &l.Symbols[i], true
		}
	}
	return nil, false
}

// Names returns the symbol names in file order
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.Symbols))
	for _, s := range l.Symbols {
		names = append(names, s.Name)
	}
	return names
}

// LibSymbol represents a library symbol definition
type LibSymbol struct {
	Name          string
	PinNumbers    bool    // pin numbers shown
	PinNames      bool    // pin names shown
	PinNameOffset float64 // mm
	InBom         bool
	OnBoard       bool
	Properties    []Property
	Units         []SymbolUnit

	// Graphics and pins of all units, collected for easier access
	Graphics []Graphic
	Pins     []Pin
}

// Property returns the value of the property with the given key
func (s *LibSymbol) Property(key string) (string, bool) {
	for _, p := range s.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Bounds returns the box enclosing all graphics and pin endpoints
func (s *LibSymbol) Bounds() BoundingBox {
	bb := sexp.NewBoundingBox()

	for _, g := range s.Graphics {
		switch g.Type {
		case "rectangle", "arc":
			bb.Expand(g.Start)
			bb.Expand(g.End)
			if g.Type == "arc" {
				bb.Expand(g.Mid)
			}
		case "circle":
			bb.Expand(Position{X: g.Center.X - g.Radius, Y: g.Center.Y - g.Radius})
			bb.Expand(Position{X: g.Center.X + g.Radius, Y: g.Center.Y + g.Radius})
		case "polyline":
			for _, p := range g.Points {
				bb.Expand(p)
			}
		}
	}
	for _, p := range s.Pins {
		bb.Expand(p.Position)
	}

	return bb
}

// SymbolUnit represents a nested unit holding graphics and pins
type SymbolUnit struct {
	Name     string
	Graphics []Graphic
	Pins     []Pin
}

// Graphic represents a graphical element in a symbol
type Graphic struct {
	Type   string     // rectangle, circle, arc, polyline
	Start  Position   // rectangle, arc
	End    Position   // rectangle, arc
	Mid    Position   // arc
	Center Position   // circle
	Radius float64    // circle
	Points []Position // polyline
	Stroke Stroke
	Fill   Fill
}

// Pin represents a symbol pin
type Pin struct {
	Type     string // input, output, passive, power_in, ...
	Shape    string // line, inverted, clock, ...
	Position Position
	Angle    Angle
	Length   float64
	Name     PinText
	Number   PinText
	Hide     bool
}

// PinText is a pin name or number with its effects
type PinText struct {
	Text    string
	Effects Effects
}
