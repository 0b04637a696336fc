package legacy

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// RecordLexer splits a legacy record line into tokens.
// Fields are separated by whitespace; field text may be double quoted and
// may contain spaces or be empty ("").
var RecordLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Word", Pattern: `[^\s"]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var (
	stringToken     = RecordLexer.Symbols()["String"]
	whitespaceToken = RecordLexer.Symbols()["Whitespace"]
)

// token is a single lexed field of a record line
type token struct {
	Value  string // unquoted value
	Quoted bool
}

// tokenize lexes a record line, dropping whitespace
func tokenize(line string) ([]token, error) {
	lex, err := RecordLexer.LexString("", line)
	if err != nil {
		return nil, err
	}

	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize line: %w", err)
	}

	tokens := make([]token, 0, len(raw))
	for _, t := range raw {
		if t.EOF() || t.Type == whitespaceToken {
			continue
		}
		if t.Type == stringToken {
			tokens = append(tokens, token{Value: unquote(t.Value), Quoted: true})
			continue
		}
		tokens = append(tokens, token{Value: t.Value})
	}

	return tokens, nil
}

// unquote strips surrounding quotes and resolves \" and \\ escapes
func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
