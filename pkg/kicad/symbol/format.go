package symbol

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/symconv/pkg/kicad/legacy"
	"github.com/OpenTraceLab/symconv/pkg/kicad/units"
)

// Property keys for the first four fields, in order
var fieldKeys = [...]string{"Reference", "Value", "Footprint", "Datasheet"}

const footprintField = 2

const unitClose = "    )\n"

func header(version int, generator string) string {
	return fmt.Sprintf("(kicad_symbol_lib (version %d) (generator %s)\n", version, generator)
}

// (symbol "NAME" [(pin_numbers hide)] (pin_names (offset O)[ hide]) (in_bom yes) (on_board yes)
func symbolOpen(name string, def legacy.Definition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  (symbol %s", quote(name))
	if !def.ShowPinNumber {
		b.WriteString(" (pin_numbers hide)")
	}
	fmt.Fprintf(&b, " (pin_names (offset %s)", units.FormatMM(def.PinNameOffset))
	if !def.ShowPinName {
		b.WriteString(" hide")
	}
	b.WriteString(") (in_bom yes) (on_board yes)\n")

	return b.String()
}

// PropertyKey returns the property key of the field at index i
func PropertyKey(i int, f legacy.Field) string {
	if i < len(fieldKeys) {
		return fieldKeys[i]
	}
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("Field%d", i)
}

func property(i int, f legacy.Field) string {
	var b strings.Builder

	fmt.Fprintf(&b, "    (property %s %s (id %d) (at %s %s 0)\n",
		quote(PropertyKey(i, f)), quote(f.Text), i,
		units.FormatMM(f.X), units.FormatMM(f.Y))

	b.WriteString("      (effects ")
	b.WriteString(font(f.FontSize, f.Bold, f.Italic))
	if j := justify(f); j != "" {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if !f.Visible() {
		b.WriteString(" hide")
	}
	b.WriteString(")\n    )\n")

	return b.String()
}

func font(size int, bold, italic bool) string {
	s := units.FormatMM(size)
	out := fmt.Sprintf("(font (size %s %s)", s, s)
	if bold {
		out += " bold"
	}
	if italic {
		out += " italic"
	}
	return out + ")"
}

// justify is empty when the field is horizontally centred
func justify(f legacy.Field) string {
	if f.HJustify == 'C' || f.HJustify == 0 {
		return ""
	}

	var parts []string
	if h := units.Justify(f.HJustify); h != "" {
		parts = append(parts, h)
	}
	if v := units.Justify(f.VJustify); v != "" {
		parts = append(parts, v)
	}
	if len(parts) == 0 {
		return ""
	}
	return "(justify " + strings.Join(parts, " ") + ")"
}

func unitOpen(name string) string {
	return fmt.Sprintf("    (symbol %s\n", quote(name+"_0_0"))
}

func style(thickness int, fill byte) string {
	return fmt.Sprintf("(stroke (width %s)) (fill (type %s))",
		units.FormatMM(thickness), units.FillKeyword(fill))
}

func xy(x, y int) string {
	return units.FormatMM(x) + " " + units.FormatMM(y)
}

func polyline(p legacy.Polygon) string {
	var b strings.Builder

	b.WriteString("      (polyline\n        (pts\n")
	for _, pt := range p.Points {
		fmt.Fprintf(&b, "          (xy %s)\n", xy(pt.X, pt.Y))
	}
	b.WriteString("        )\n")
	fmt.Fprintf(&b, "        %s\n      )\n", style(p.Thickness, p.Fill))

	return b.String()
}

func circle(c legacy.Circle) string {
	return fmt.Sprintf("      (circle (center %s) (radius %s) %s)\n",
		xy(c.X, c.Y), units.FormatMM(c.Radius), style(c.Thickness, c.Fill))
}

// Arcs are written as three points; the legacy angles are not carried over.
func arc(a legacy.Arc) string {
	return fmt.Sprintf("      (arc (start %s) (mid %s) (end %s) %s)\n",
		xy(a.StartX, a.StartY), xy(a.X, a.Y), xy(a.EndX, a.EndY),
		style(a.Thickness, a.Fill))
}

func rectangle(r legacy.Rectangle) string {
	return fmt.Sprintf("      (rectangle (start %s) (end %s) %s)\n",
		xy(r.StartX, r.StartY), xy(r.EndX, r.EndY), style(r.Thickness, r.Fill))
}

func pin(p legacy.Pin) string {
	var b strings.Builder

	shape, hidden := units.DecodePinShape(p.Shape)
	fmt.Fprintf(&b, "      (pin %s %s (at %s %d) (length %s)",
		p.Type.Keyword(), shape, xy(p.X, p.Y), units.Angle(p.Orientation),
		units.FormatMM(p.Length))
	if hidden {
		b.WriteString(" hide")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "        (name %s (effects %s))\n", quote(p.Name), font(p.NameSize, false, false))
	fmt.Fprintf(&b, "        (number %s (effects %s))\n", quote(p.Number), font(p.NumberSize, false, false))
	b.WriteString("      )\n")

	return b.String()
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
