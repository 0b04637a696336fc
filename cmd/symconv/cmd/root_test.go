package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/symconv/pkg/kicad/symlib"
)

const opAmp = `EESchema-LIBRARY Version 2.4
DEF LM358 U 0 40 Y Y 1 F N
F0 "U" 0 200 50 H V L CNN
F1 "LM358" 0 -200 50 H V L CNN
F2 "" 0 0 50 H I C CNN
F3 "" 0 0 50 H I C CNN
DRAW
P 4 0 1 10 -200 200 200 0 -200 -200 -200 200 f
X + 3 -300 100 100 R 50 50 1 1 I
X - 2 -300 -100 100 R 50 50 1 1 I
X ~ 1 300 0 100 L 50 50 1 1 O
X VCC 8 0 300 100 U 40 40 1 1 W N
ENDDRAW
ENDDEF
`

type env struct {
	dir     string
	config  string
	symbols string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dir := t.TempDir()
	e := &env{
		dir:     dir,
		config:  filepath.Join(dir, "symconv.yaml"),
		symbols: filepath.Join(dir, "symbols"),
	}
	cfg := "symbols_dir: " + e.symbols + "\nfootprint_lib: extern\n"
	require.NoError(t, os.WriteFile(e.config, []byte(cfg), 0o644))
	return e
}

func (e *env) write(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func (e *env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(append([]string{"--config", e.config}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))

	err := root.Execute()
	return stdout.String(), err
}

func TestConvertCommand(t *testing.T) {
	e := newEnv(t)
	src := e.write(t, "opamp.lib", opAmp)

	stdout, err := e.run(t, "", "convert", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "LM358")

	names, err := symlib.Names(filepath.Join(e.dir, "opamp.kicad_sym"))
	require.NoError(t, err)
	assert.Equal(t, []string{"LM358"}, names)
}

func TestConvertCommandOutputFlag(t *testing.T) {
	e := newEnv(t)
	src := e.write(t, "opamp.lib", opAmp)
	dst := filepath.Join(e.dir, "out.kicad_sym")

	_, err := e.run(t, "", "convert", src, "-o", dst)
	require.NoError(t, err)
	assert.FileExists(t, dst)
}

func TestConvertCommandMissingFile(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "", "convert", filepath.Join(e.dir, "missing.lib"))
	assert.Error(t, err)
}

func TestAddListInfoRemove(t *testing.T) {
	e := newEnv(t)
	src := e.write(t, "LM358_SOIC.lib", opAmp)

	stdout, err := e.run(t, "", "add", src, "-l", "extern")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added LM358_SOIC")

	library := filepath.Join(e.symbols, "extern.kicad_sym")
	lib, err := symlib.ParseFile(library)
	require.NoError(t, err)
	sym, ok := lib.Symbol("LM358_SOIC")
	require.True(t, ok)
	fp, _ := sym.Property("Footprint")
	assert.Equal(t, "extern:LM358_SOIC", fp)

	_, err = e.run(t, "", "add", src, "-l", "extern")
	assert.Error(t, err, "adding the same symbol twice must fail")

	stdout, err = e.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "extern")
	assert.Contains(t, stdout, "LM358_SOIC")

	stdout, err = e.run(t, "", "info", "extern", "LM358_SOIC")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Symbol: LM358_SOIC")
	assert.Contains(t, stdout, "Pins (4)")
	assert.Contains(t, stdout, "power_in")

	_, err = e.run(t, "", "info", "extern", "LM741")
	assert.ErrorIs(t, err, symlib.ErrSymbolNotFound)

	_, err = e.run(t, "n\n", "remove", "LM358_SOIC", "-l", "extern")
	assert.ErrorIs(t, err, ErrAborted)
	names, err := symlib.Names(library)
	require.NoError(t, err)
	assert.Equal(t, []string{"LM358_SOIC"}, names)

	stdout, err = e.run(t, "maybe\ny\n", "remove", "LM358_SOIC", "-l", "extern")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stdout, "(y/n)"))
	names, err = symlib.Names(library)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRemoveWithoutPrompt(t *testing.T) {
	e := newEnv(t)
	src := e.write(t, "R.lib", "DEF R R 0 0 N Y 1 F N\nENDDEF\n")

	_, err := e.run(t, "", "add", src, "-l", "passives")
	require.NoError(t, err)

	stdout, err := e.run(t, "", "remove", "R", "-l", "passives", "-y")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "(y/n)")

	_, err = e.run(t, "", "remove", "R", "-l", "passives", "-y")
	assert.ErrorIs(t, err, symlib.ErrSymbolNotFound)
}

func TestListEmpty(t *testing.T) {
	e := newEnv(t)

	stdout, err := e.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No libraries")
}

func TestPinLess(t *testing.T) {
	assert.True(t, pinLess("2", "10"))
	assert.False(t, pinLess("10", "2"))
	assert.True(t, pinLess("A1", "B1"))
}
