package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"poe2/pickit/internal/catalog"
	"poe2/pickit/internal/config"
	"poe2/pickit/internal/domain"
	"poe2/pickit/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSources() []source.Source {
	return source.NewSources(config.UpstreamConfig{League: "Standard"}, nil)
}

// resetCommandState undoes what a previous Execute left on the shared commands.
func resetCommandState() {
	rootCmd.SetArgs(nil)
	genFlags = generateFlags{}
	configPath = ""
	for _, name := range []string{"ninja", "scout", "static", "min-value", "min-value-currency", "tier", "output", "logs"} {
		generateCmd.Flags().Lookup(name).Changed = false
	}
	rootCmd.PersistentFlags().Lookup("config").Changed = false
}

func TestBuildRunOptions(t *testing.T) {
	opts, err := buildRunOptions(generateFlags{
		Ninja:            []string{"Breach", "Fragments"},
		Scout:            []string{"Sanctum", "Accessories"},
		Static:           []string{"Tablets:Ritual Precursor Tablet", " Splinters : Breach Splinter "},
		MinValue:         5,
		MinValueCurrency: 2,
		Tier:             10,
	}, testSources(), catalog.Default())
	require.NoError(t, err)

	assert.Equal(t, 5.0, opts.MinValue)
	assert.Equal(t, 2.0, opts.MinValueCurrency)
	assert.Equal(t, 10, opts.WaystoneTier)
	assert.Equal(t, []string{"Fragments", "Breach"}, opts.NinjaCategories)
	assert.Equal(t, []string{"Accessories", "Sanctum"}, opts.ScoutCategories)
	assert.Equal(t, []domain.StaticSelection{
		{Category: "Splinters", Subcategories: []string{"Breach Splinter"}},
		{Category: "Tablets", Subcategories: []string{"Ritual Precursor Tablet"}},
	}, opts.StaticCategories)
}

func TestBuildRunOptions_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		flags generateFlags
	}{
		{"unknown ninja category", generateFlags{Ninja: []string{"Maps"}, Tier: 1}},
		{"unknown scout category", generateFlags{Scout: []string{"Currency"}, Tier: 1}},
		{"static without separator", generateFlags{Static: []string{"Splinters"}, Tier: 1}},
		{"unknown static rule", generateFlags{Static: []string{"Splinters:Chaos Orb"}, Tier: 1}},
		{"tier out of range", generateFlags{Scout: []string{"Maps"}, Tier: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildRunOptions(tt.flags, testSources(), catalog.Default())

			var validationErr *domain.ValidationError
			assert.True(t, errors.As(err, &validationErr), "got %v", err)
		})
	}
}

func TestPrintCategories(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printCategories(&buf, testSources(), catalog.Default()))

	out := buf.String()
	assert.Contains(t, out, "always included")
	assert.Contains(t, out, "Lineage Support Gems")
	assert.Contains(t, out, "Sanctum")
	assert.Contains(t, out, "Min Tier 1..16 (default 1)")
	assert.Contains(t, out, "Breach Splinter, Simulacrum Splinter")
}

func TestGenerateCommand_StaticToFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "dyno.ipd")

	rootCmd.SetArgs([]string{"generate", "--static", "Splinters:Breach Splinter", "-o", path})
	t.Cleanup(resetCommandState)
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `[Type] == "Breach Splinter" # [StashItem] == "true"`)
}

func TestGenerateCommand_ValidatesBeforeConnecting(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	// Redis on port 1 refuses connections; reaching it would fail with a
	// connection error instead of a validation error.
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  kind: redis\nredis:\n  host: 127.0.0.1\n  port: 1\n"), 0o600))

	tests := []struct {
		name string
		args []string
	}{
		{"unknown category", []string{"--config", path, "generate", "--ninja", "Maps"}},
		{"nothing selected", []string{"--config", path, "generate"}},
		{"tier out of range", []string{"--config", path, "generate", "--scout", "Maps", "--tier", "20"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			t.Cleanup(resetCommandState)

			err := rootCmd.Execute()

			var validationErr *domain.ValidationError
			assert.True(t, errors.As(err, &validationErr), "got %v", err)
		})
	}
}
