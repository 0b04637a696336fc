package symlib

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/OpenTraceLab/symconv/pkg/kicad/legacy"
	"github.com/OpenTraceLab/symconv/pkg/kicad/sexp"
	"github.com/OpenTraceLab/symconv/pkg/kicad/sexp/kicadsexp"
	"github.com/OpenTraceLab/symconv/pkg/kicad/symbol"
)

var (
	ErrNotLibrary     = errors.New("symlib: not a symbol library")
	ErrSymbolExists   = errors.New("symlib: symbol already exists")
	ErrSymbolNotFound = errors.New("symlib: symbol not found")
)

// Add writes c into the library at path. A missing library is created;
// otherwise the symbol is inserted before the library's closing paren.
func Add(path string, c *legacy.Component, opts symbol.Options) error {
	e := symbol.New(opts)
	name := e.SymbolName(c)

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		var buf bytes.Buffer
		if err := e.Emit(&buf, c); err != nil {
			return err
		}
		buf.WriteString(symbol.Closer)
		return WriteFile(path, buf.Bytes())
	}
	if err != nil {
		return fmt.Errorf("failed to read library: %w", err)
	}

	lib, err := Parse(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, exists := lib.Symbol(name); exists {
		return fmt.Errorf("%w: %q in %s", ErrSymbolExists, name, path)
	}

	end := bytes.LastIndexByte(content, ')')
	if end < 0 {
		return fmt.Errorf("%w: %s has no closing paren", ErrNotLibrary, path)
	}

	var buf bytes.Buffer
	buf.Write(content[:end])
	if end > 0 && content[end-1] != '\n' {
		buf.WriteByte('\n')
	}
	if err := e.WriteSymbol(&buf, c); err != nil {
		return err
	}
	buf.WriteString(symbol.SymbolClose)
	buf.WriteString(symbol.LibraryClose)

	return WriteFile(path, buf.Bytes())
}

// Remove drops the top-level symbol called name from the library at path
func Remove(path, name string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read library: %w", err)
	}

	blocks, err := topLevelBlocks(content)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, b := range blocks {
		if b.kind != "symbol" || b.name != name {
			continue
		}

		start, end := b.start, b.end
		// take the block's indentation and line break with it
		for start > 0 && (content[start-1] == ' ' || content[start-1] == '\t') {
			start--
		}
		if end < len(content) && content[end] == '\n' {
			end++
		}

		out := make([]byte, 0, len(content)-(end-start))
		out = append(out, content[:start]...)
		out = append(out, content[end:]...)
		return WriteFile(path, out)
	}

	return fmt.Errorf("%w: %q in %s", ErrSymbolNotFound, name, path)
}

// Names lists the symbols in the library at path
func Names(path string) ([]string, error) {
	lib, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return lib.Names(), nil
}

// WriteFile replaces path with data through a temporary file in the same
// directory, so readers never see a partly written library.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", symbol.ErrOutputWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", symbol.ErrOutputWrite, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// block is a direct child list of the library root
type block struct {
	start, end int // byte range, end exclusive
	kind       string
	name       string
}

// topLevelBlocks locates the children of the root list by paren matching.
// Parens inside quoted strings are ignored.
func topLevelBlocks(content []byte) ([]block, error) {
	var blocks []block

	depth := 0
	start := -1
	inString := false
	rootSeen := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '(':
			depth++
			if depth == 1 {
				if rootSeen {
					return nil, fmt.Errorf("%w: more than one root list", ErrNotLibrary)
				}
				rootSeen = true
				if !bytes.HasPrefix(bytes.TrimLeft(content[i+1:], " \t\r\n"), []byte(RootNode)) {
					return nil, fmt.Errorf("%w: root is not %s", ErrNotLibrary, RootNode)
				}
			}
			if depth == 2 {
				start = i
			}
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced ')' at byte %d", ErrNotLibrary, i)
			}
			if depth == 1 {
				b, err := describe(content[start : i+1])
				if err != nil {
					return nil, err
				}
				b.start, b.end = start, i+1
				blocks = append(blocks, b)
			}
		}
	}

	if !rootSeen {
		return nil, fmt.Errorf("%w: empty file", ErrNotLibrary)
	}
	if depth != 0 || inString {
		return nil, fmt.Errorf("%w: unterminated list", ErrNotLibrary)
	}

	return blocks, nil
}

// describe reads the kind and name of a child list
func describe(text []byte) (block, error) {
	sexps, err := kicadsexp.Parse(bytes.NewReader(text))
	if err != nil {
		return block{}, fmt.Errorf("%w: %w", ErrNotLibrary, err)
	}

	var b block
	b.kind, _ = sexp.GetNodeName(sexps[0])
	b.name, _ = sexp.GetString(sexps[0], 1)
	return b, nil
}
