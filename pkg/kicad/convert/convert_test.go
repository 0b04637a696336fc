package convert

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/symconv/pkg/kicad/legacy"
	"github.com/OpenTraceLab/symconv/pkg/kicad/symbol"
	"github.com/OpenTraceLab/symconv/pkg/kicad/symlib"
)

const twoParts = `EESchema-LIBRARY Version 2.4
#encoding utf-8
#
# R
#
DEF R R 0 0 N Y 1 F N
F0 "R" 80 0 50 V V C CNN
F1 "R" 0 0 50 V V C CNN
F2 "" -70 0 50 V I C CNN
F3 "" 0 0 50 H I C CNN
DRAW
S -40 -100 40 100 0 1 10 N
X ~ 1 0 150 50 D 50 50 1 1 P
X ~ 2 0 -150 50 U 50 50 1 1 P
ENDDRAW
ENDDEF
#
# LED
#
DEF LED D 0 40 N N 1 F N
F0 "D" 0 100 50 H V C CNN
F1 "LED" 0 -100 50 H V C CNN
DRAW
P 2 0 1 10 -50 50 -50 -50 N
Z 1 2 3
X K 1 -150 0 100 R 50 50 1 1 P
X A 2 150 0 100 L 50 50 1 1 P
ENDDRAW
ENDDEF
#
#End Library
`

func newTestConverter(buf *bytes.Buffer) *Converter {
	return New(symbol.DefaultOptions(), log.New(buf))
}

func writeLib(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, filepath.Join("lib", "parts.kicad_sym"), DefaultOutput(filepath.Join("lib", "parts.lib")))
	assert.Equal(t, "LM358", Stem("/tmp/x/LM358.lib"))
	assert.Equal(t, "noext", Stem("noext"))
}

func TestConvertFile(t *testing.T) {
	var logs bytes.Buffer
	src := writeLib(t, "parts.lib", twoParts)

	result, err := newTestConverter(&logs).ConvertFile(src, "")
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput(src), result.Output)
	assert.Equal(t, []string{"R", "LED"}, result.Symbols)
	require.Len(t, result.Diagnostics, 1)
	assert.ErrorIs(t, result.Diagnostics[0].Err, legacy.ErrUnknownRecord)
	assert.Empty(t, result.Failed)
	assert.Contains(t, logs.String(), "skipped record")

	lib, err := symlib.ParseFile(result.Output)
	require.NoError(t, err)
	assert.Equal(t, []string{"R", "LED"}, lib.Names())

	led, ok := lib.Symbol("LED")
	require.True(t, ok)
	assert.False(t, led.PinNumbers)
	assert.False(t, led.PinNames)
	assert.Len(t, led.Pins, 2)
	require.Len(t, led.Graphics, 1)
	assert.Equal(t, "polyline", led.Graphics[0].Type)

	data, err := os.ReadFile(result.Output)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "(kicad_symbol_lib"))
}

func TestConvertFileExplicitOutput(t *testing.T) {
	src := writeLib(t, "parts.lib", twoParts)
	dst := filepath.Join(t.TempDir(), "out", "converted.kicad_sym")

	result, err := New(symbol.DefaultOptions(), nil).ConvertFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, dst, result.Output)
	assert.FileExists(t, dst)
}

func TestConvertFileMissingDefinition(t *testing.T) {
	var logs bytes.Buffer
	src := writeLib(t, "empty.lib", "EESchema-LIBRARY Version 2.4\n#End Library\n")

	_, err := newTestConverter(&logs).ConvertFile(src, "")
	assert.ErrorIs(t, err, legacy.ErrMissingDefinition)
	assert.NoFileExists(t, DefaultOutput(src))
}

func TestConvertFileSkipsBrokenDefinition(t *testing.T) {
	var logs bytes.Buffer
	text := "DEF BROKEN\nENDDEF\n" + twoParts
	src := writeLib(t, "parts.lib", text)

	result, err := newTestConverter(&logs).ConvertFile(src, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"R", "LED"}, result.Symbols)
	require.Len(t, result.Failed, 1)
	assert.ErrorIs(t, result.Failed[0], legacy.ErrMalformedDefinition)
	assert.Contains(t, logs.String(), "skipping definition")
}

func TestConvertFileDuplicateNames(t *testing.T) {
	var logs bytes.Buffer
	text := "DEF R R 0 0 N Y 1 F N\nENDDEF\nDEF R R 0 0 N Y 1 F N\nENDDEF\n"
	src := writeLib(t, "dup.lib", text)

	result, err := newTestConverter(&logs).ConvertFile(src, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"R"}, result.Symbols)
	require.Len(t, result.Failed, 1)
	assert.ErrorIs(t, result.Failed[0], symlib.ErrSymbolExists)
}

func TestConvertLines(t *testing.T) {
	var logs, out bytes.Buffer
	lines := []string{
		"DEF VCC #PWR 0 0 Y Y 1 F P",
		"X VCC 1 0 300 100 U 40 40 1 1 W N",
	}

	result, err := newTestConverter(&logs).ConvertLines(lines, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"VCC"}, result.Symbols)

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "(kicad_symbol_lib (version 20211014) (generator symconv)\n"))
	assert.Contains(t, text, "(pin power_in line (at 0 7.62 90) (length 2.54) hide")
	assert.True(t, strings.HasSuffix(text, symbol.Closer))
}

func TestAddFile(t *testing.T) {
	var logs bytes.Buffer
	dir := t.TempDir()
	library := filepath.Join(dir, "symbols", "extern.kicad_sym")
	src := writeLib(t, "SN74LVC1G.lib", "DEF 74LVC1G08 U 0 40 Y Y 1 F N\nF0 \"U\" 0 0 50 H V C CNN\nF1 \"74LVC1G08\" 0 0 50 H V C CNN\nF2 \"\" 0 0 50 H I C CNN\nENDDEF\n")

	conv := newTestConverter(&logs)
	result, err := conv.AddFile(src, AddOptions{Library: library, FootprintLibrary: "extern"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SN74LVC1G"}, result.Symbols)

	lib, err := symlib.ParseFile(library)
	require.NoError(t, err)
	sym, ok := lib.Symbol("SN74LVC1G")
	require.True(t, ok)
	fp, _ := sym.Property("Footprint")
	assert.Equal(t, "extern:SN74LVC1G", fp)

	_, err = conv.AddFile(src, AddOptions{Library: library})
	assert.ErrorIs(t, err, symlib.ErrSymbolExists)
}

func TestAddFileKeepsNamesForMultipleDefinitions(t *testing.T) {
	var logs bytes.Buffer
	library := filepath.Join(t.TempDir(), "extern.kicad_sym")
	src := writeLib(t, "parts.lib", twoParts)

	result, err := newTestConverter(&logs).AddFile(src, AddOptions{Library: library})
	require.NoError(t, err)
	assert.Equal(t, []string{"R", "LED"}, result.Symbols)

	names, err := symlib.Names(library)
	require.NoError(t, err)
	assert.Equal(t, []string{"R", "LED"}, names)
}
