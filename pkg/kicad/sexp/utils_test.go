package sexp

import (
	"testing"

	"github.com/OpenTraceLab/symconv/pkg/kicad/sexp/kicadsexp"
)

// Helper to parse s-expression from string
func parseSexp(t *testing.T, input string) kicadsexp.Sexp {
	t.Helper()
	sexps, err := kicadsexp.ParseString(input)
	if err != nil {
		t.Fatalf("Failed to parse s-expression %q: %v", input, err)
	}
	if len(sexps) == 0 {
		t.Fatalf("No s-expressions parsed from %q", input)
	}
	return sexps[0]
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		index   int
		want    string
		wantErr bool
	}{
		{name: "key", input: "(fill (type none))", index: 0, want: "fill"},
		{name: "quoted value", input: `(name "VCC" (effects))`, index: 1, want: "VCC"},
		{name: "angle", input: "(at 0 7.62 90)", index: 3, want: "90"},
		{name: "list at index", input: "(fill (type none))", index: 1, wantErr: true},
		{name: "out of bounds", input: "(length 2.54)", index: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetString(parseSexp(t, tt.input), tt.index)
			if tt.wantErr {
				if err == nil {
					t.Errorf("GetString() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetString() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("GetString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetPosition(t *testing.T) {
	tests := []struct {
		input   string
		want    PositionAngle
		wantErr bool
	}{
		{input: "(at 0 7.62 90)", want: PositionAngle{Position: Position{X: 0, Y: 7.62}, Angle: 90}},
		{input: "(at -2.54 1.27)", want: PositionAngle{Position: Position{X: -2.54, Y: 1.27}}},
		{input: "(start 1 2)", wantErr: true},
		{input: "(at 1 x)", wantErr: true},
	}

	for _, tt := range tests {
		got, err := GetPosition(parseSexp(t, tt.input))
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got nil", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected %+v, got %+v", tt.input, tt.want, got)
		}
	}
}

func TestFindNode(t *testing.T) {
	s := parseSexp(t, `(pin power_in line (at 0 7.62 90) (length 2.54) hide (name "at"))`)

	at, ok := FindNode(s, "at")
	if !ok {
		t.Fatal("Expected to find (at ...)")
	}
	if at.LeafCount() != 4 {
		t.Errorf("Expected 4 elements in (at ...), got %d", at.LeafCount())
	}

	if _, ok := FindNode(s, "hide"); ok {
		t.Error("FindNode should not match bare atoms")
	}
	if !HasSymbol(s, "hide") {
		t.Error("Expected hide flag")
	}
	if _, ok := FindNode(s, "number"); ok {
		t.Error("Did not expect to find (number ...)")
	}
}

func TestFindAllNodes(t *testing.T) {
	s := parseSexp(t, `(pts (xy 0 0) (xy 1 1) (xy 2 0))`)

	nodes := FindAllNodes(s, "xy")
	if len(nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(nodes))
	}
	p, err := GetPositionXY(nodes[2])
	if err != nil {
		t.Fatalf("GetPositionXY failed: %v", err)
	}
	if p != (Position{X: 2, Y: 0}) {
		t.Errorf("Expected (2, 0), got %+v", p)
	}
}

func TestGetStrokeAndFill(t *testing.T) {
	s := parseSexp(t, `(rectangle (start -2.54 2.54) (end 2.54 -2.54) (stroke (width 0.254)) (fill (type background)))`)

	strokeNode, ok := FindNode(s, "stroke")
	if !ok {
		t.Fatal("Expected stroke")
	}
	stroke, err := GetStroke(strokeNode)
	if err != nil {
		t.Fatalf("GetStroke failed: %v", err)
	}
	if stroke.Width != 0.254 || stroke.Type != "default" {
		t.Errorf("Unexpected stroke %+v", stroke)
	}

	fillNode, _ := FindNode(s, "fill")
	fill, err := GetFill(fillNode)
	if err != nil {
		t.Fatalf("GetFill failed: %v", err)
	}
	if fill.Type != "background" {
		t.Errorf("Expected background fill, got %q", fill.Type)
	}
}

func TestGetProperty(t *testing.T) {
	s := parseSexp(t, `(property "Reference" "U" (id 0) (at 0 5.08 0)
      (effects (font (size 1.27 1.27) bold italic) (justify left bottom) hide))`)

	prop, err := GetProperty(s)
	if err != nil {
		t.Fatalf("GetProperty failed: %v", err)
	}

	if prop.Key != "Reference" || prop.Value != "U" || prop.ID != 0 {
		t.Errorf("Unexpected property %+v", prop)
	}
	if prop.Position.Y != 5.08 {
		t.Errorf("Expected Y 5.08, got %v", prop.Position.Y)
	}

	e := prop.Effects
	if e.Font.Size != (Size{Width: 1.27, Height: 1.27}) {
		t.Errorf("Unexpected font size %+v", e.Font.Size)
	}
	if !e.Font.Bold || !e.Font.Italic {
		t.Errorf("Expected bold italic, got %+v", e.Font)
	}
	if e.Justify.Horizontal != "left" || e.Justify.Vertical != "bottom" {
		t.Errorf("Unexpected justify %+v", e.Justify)
	}
	if !e.Hide {
		t.Error("Expected hidden property")
	}
}

func TestGetPropertyDefaults(t *testing.T) {
	prop, err := GetProperty(parseSexp(t, `(property "Datasheet" "" (id 3) (at 0 0 0) (effects (font (size 1.27 1.27))))`))
	if err != nil {
		t.Fatalf("GetProperty failed: %v", err)
	}
	if prop.Value != "" {
		t.Errorf("Expected empty value, got %q", prop.Value)
	}
	if prop.Effects.Justify.Horizontal != "center" || prop.Effects.Hide {
		t.Errorf("Unexpected effects %+v", prop.Effects)
	}
}

func TestBoundingBox(t *testing.T) {
	bb := NewBoundingBox()
	if !bb.IsEmpty() || bb.Width() != 0 {
		t.Fatalf("Expected empty box, got %+v", bb)
	}

	bb.Expand(Position{X: -2.54, Y: 1})
	bb.Expand(Position{X: 2.54, Y: -1})

	if bb.Width() != 5.08 {
		t.Errorf("Expected width 5.08, got %v", bb.Width())
	}
	if bb.Height() != 2 {
		t.Errorf("Expected height 2, got %v", bb.Height())
	}
}
