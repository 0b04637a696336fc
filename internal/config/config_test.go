package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "components/extern/symbols", cfg.SymbolsDir)
	assert.Equal(t, "symconv", cfg.Generator)
	assert.Equal(t, 20211014, cfg.Version)
	assert.Empty(t, cfg.FootprintLib)

	opts := cfg.SymbolOptions()
	assert.Equal(t, 20211014, opts.Version)
	assert.Equal(t, "symconv", opts.Generator)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "empty fills defaults", cfg: Config{}},
		{name: "generator with space", cfg: Config{Generator: "my tool"}, wantErr: true},
		{name: "negative version", cfg: Config{Version: -1}, wantErr: true},
		{name: "footprint lib with colon", cfg: Config{FootprintLib: "a:b"}, wantErr: true},
		{name: "custom", cfg: Config{SymbolsDir: "lib", Generator: "kicad_symbol_editor", Version: 20220914}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tt.cfg.SymbolsDir)
			assert.NotEmpty(t, tt.cfg.Generator)
			assert.Positive(t, tt.cfg.Version)
		})
	}
}

func TestLibraryPath(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, filepath.Join("components/extern/symbols", "extern.kicad_sym"), cfg.LibraryPath("extern"))
	assert.Equal(t, "parts.kicad_sym", cfg.LibraryPath("parts.kicad_sym"))
	assert.Equal(t, "lib/parts", cfg.LibraryPath("lib/parts"))
}

func TestInitReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symconv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols_dir: hw/symbols\nfootprint_lib: extern\nversion: 20220914\n"), 0o644))

	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "hw/symbols", cfg.SymbolsDir)
	assert.Equal(t, "extern", cfg.FootprintLib)
	assert.Equal(t, 20220914, cfg.Version)
	assert.Equal(t, "symconv", cfg.Generator)
}

func TestInitMissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestInitEnvironment(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SYMCONV_GENERATOR", "eeschema")

	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "eeschema", cfg.Generator)
	assert.Equal(t, DefaultSymbolsDir, cfg.SymbolsDir)
}

func TestLoadRejectsInvalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyGenerator, "two words")

	_, err := Load(v)
	assert.Error(t, err)
}
