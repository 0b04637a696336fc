package kicadsexp

import (
	"errors"
	"testing"
)

func TestParseString(t *testing.T) {
	sexps, err := ParseString(`(kicad_symbol_lib (version 20211014) (generator symconv)
  (symbol "R" (pin_names (offset 0)) (in_bom yes) (on_board yes)))`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(sexps) != 1 {
		t.Fatalf("Expected 1 expression, got %d", len(sexps))
	}

	root, ok := sexps[0].(*List)
	if !ok {
		t.Fatalf("Expected *List, got %T", sexps[0])
	}
	if root.Len() != 4 {
		t.Errorf("Expected 4 elements, got %d", root.Len())
	}
	if root.Head().String() != "kicad_symbol_lib" {
		t.Errorf("Expected head kicad_symbol_lib, got %s", root.Head())
	}

	sym, ok := root.Get(3).(*List)
	if !ok {
		t.Fatalf("Expected symbol list, got %T", root.Get(3))
	}
	if sym.Get(1) != Symbol("R") {
		t.Errorf("Expected quoted name to be unquoted, got %v", sym.Get(1))
	}
}

func TestParseStringEscapes(t *testing.T) {
	sexps, err := ParseString(`(property "say \"hi\"" "a\\b" "")`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	l := sexps[0].(*List)
	tests := []struct {
		index int
		want  string
	}{
		{1, `say "hi"`},
		{2, `a\b`},
		{3, ""},
	}
	for _, tt := range tests {
		if got := l.Get(tt.index); got != Symbol(tt.want) {
			t.Errorf("Element %d: expected %q, got %q", tt.index, tt.want, got)
		}
	}
}

func TestParseStringMultiple(t *testing.T) {
	sexps, err := ParseString("(a 1) (b 2)\n(c)")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(sexps) != 3 {
		t.Fatalf("Expected 3 expressions, got %d", len(sexps))
	}
	if got := sexps[1].String(); got != "(b 2)" {
		t.Errorf("Expected (b 2), got %s", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed list", "(kicad_symbol_lib (version 1)"},
		{"stray close", "(a))"},
		{"unterminated string", `(property "abc`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Expected ErrSyntax, got %v", err)
			}
		})
	}
}

func TestLexerLineNumbers(t *testing.T) {
	_, err := ParseString("(a\n(b\n(c")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if got := err.Error(); got != "kicadsexp: syntax error: line 3: unexpected EOF in list" {
		t.Errorf("Unexpected error text: %s", got)
	}
}

func TestListTail(t *testing.T) {
	l := NewList(Symbol("a"), Symbol("b"), Symbol("c"))

	tail := l.Tail()
	if tail.LeafCount() != 2 || tail.Head() != Symbol("b") {
		t.Errorf("Unexpected tail %s", tail)
	}
	if NewList(Symbol("a")).Tail() != nil {
		t.Error("Expected nil tail for single element list")
	}
}
