// Package legacy parses KiCad legacy (.lib) symbol definitions.
//
// A legacy definition is a DEF line followed by one record per line, each
// keyed by a leading identifier letter (F fields, X pins, S rectangles,
// P polygons, C circles, A arcs, T text). All coordinates and sizes are
// integers in mils; the model never stores millimetres.
package legacy

import "github.com/OpenTraceLab/symconv/pkg/kicad/units"

// Bounded string lengths
const (
	MaxNameLength      = 255 // symbol names, references, field text and names, pin names
	MaxPinNumberLength = 4
	MaxPinShapeLength  = 3
	MaxTextLength      = 50
)

// Component is a parsed legacy symbol.
// It is filled by Parse and treated as read-only afterwards.
type Component struct {
	Definition Definition
	Fields     []Field
	Pins       []Pin
	Rectangles []Rectangle
	Circles    []Circle
	Arcs       []Arc
	Polygons   []Polygon
	Texts      []Text
}

// Definition comes from the DEF line
type Definition struct {
	Name          string
	Reference     string
	PinNameOffset int
	ShowPinNumber bool
	ShowPinName   bool
	UnitCount     int
	Power         bool
}

// Field comes from the F0 ... Fn lines
type Field struct {
	Text        string
	X, Y        int
	FontSize    int
	Orientation byte // H (horizontal) or V (vertical)
	Visibility  byte // V (visible) or I (invisible)
	HJustify    byte // L, C or R
	VJustify    byte // T, C or B
	Italic      bool
	Bold        bool
	Name        string // only set for user fields
	HasName     bool
}

// Visible reports whether the field is shown
func (f Field) Visible() bool {
	return f.Visibility == 'V'
}

// Pin comes from an X line
type Pin struct {
	Name        string
	Number      string
	X, Y        int
	Length      int
	Orientation byte // U, D, L or R
	NumberSize  int
	NameSize    int
	Unit        int
	Convert     int
	Type        units.PinType
	Shape       string // optional graphic style, e.g. "N", "I", "CI"
}

// Rectangle comes from an S line
type Rectangle struct {
	StartX, StartY int
	EndX, EndY     int
	Unit           int
	Convert        int
	Thickness      int
	Fill           byte
}

// Point is a polygon vertex in mils
type Point struct {
	X, Y int
}

// Polygon comes from a P line
type Polygon struct {
	Unit      int
	Convert   int
	Thickness int
	Points    []Point
	Fill      byte
}

// Circle comes from a C line
type Circle struct {
	X, Y      int
	Radius    int
	Unit      int
	Convert   int
	Thickness int
	Fill      byte
}

// Arc comes from an A line.
// X, Y is the arc's reference point and is emitted as the arc midpoint.
type Arc struct {
	X, Y           int
	Radius         int
	StartAngle     int // decidegrees
	EndAngle       int // decidegrees
	Unit           int
	Convert        int
	Thickness      int
	Fill           byte
	StartX, StartY int
	EndX, EndY     int
}

// Text comes from a T line
type Text struct {
	Orientation int // decidegrees
	X, Y        int
	Size        int
	Unit        int
	Convert     int
	Text        string
}
