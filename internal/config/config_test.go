package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/bbcode-lint/pkg/bbcode"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty config",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "full config",
			config: Config{
				OutputFormat: "json",
				MinSeverity:  "warning",
				Disabled:     []string{"unknown-open-tag"},
				Tags:         []TagConfig{{Name: "u", Shape: "simple"}},
			},
			wantErr: false,
		},
		{
			name:    "invalid output format",
			config:  Config{OutputFormat: "table"},
			wantErr: true,
			errMsg:  "output_format must be one of text, json, plain",
		},
		{
			name:    "invalid severity",
			config:  Config{MinSeverity: "fatal"},
			wantErr: true,
			errMsg:  "min_severity",
		},
		{
			name:    "tag without name",
			config:  Config{Tags: []TagConfig{{Shape: "simple"}}},
			wantErr: true,
			errMsg:  "tag name is required",
		},
		{
			name:    "tag with text shape",
			config:  Config{Tags: []TagConfig{{Name: "u", Shape: "literal"}}},
			wantErr: true,
			errMsg:  "shape must be",
		},
		{
			name:    "tag with unknown validator",
			config:  Config{Tags: []TagConfig{{Name: "u", Shape: "parametric", Validator: "regex"}}},
			wantErr: true,
			errMsg:  "unknown validator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Filter(t *testing.T) {
	msgs := []bbcode.Message{
		{Severity: bbcode.SeverityTidy, Name: bbcode.DiagUnknownOpenTag},
		{Severity: bbcode.SeverityWarning, Name: bbcode.DiagMissingCloseTag},
		{Severity: bbcode.SeverityWarning, Name: bbcode.DiagIncompleteTag},
		{Severity: bbcode.SeverityError, Name: bbcode.DiagBadParameter},
	}

	cfg := &Config{}
	assert.Len(t, cfg.Filter(msgs), 4)

	cfg = &Config{MinSeverity: "warning", Disabled: []string{bbcode.DiagIncompleteTag}}
	got := cfg.Filter(msgs)
	require.Len(t, got, 2)
	assert.Equal(t, bbcode.DiagMissingCloseTag, got[0].Name)
	assert.Equal(t, bbcode.DiagBadParameter, got[1].Name)
}

func TestConfig_BuildRegistry(t *testing.T) {
	cfg := &Config{Tags: []TagConfig{
		{Name: "spoiler", Shape: "simple"},
		{Name: "align", Shape: "parametric", Validator: "enum", Values: []string{"left", "right"}},
	}}
	reg, err := cfg.BuildRegistry()
	require.NoError(t, err)

	doc := bbcode.Parse("[spoiler][align=left]x[/align][/spoiler][align=up]", bbcode.WithGrammar(reg))
	require.Len(t, doc.Messages, 1)
	assert.Equal(t, bbcode.DiagBadParameter, doc.Messages[0].Name)

	cfg = &Config{Tags: []TagConfig{{Name: "b", Shape: "simple"}}}
	_, err = cfg.BuildRegistry()
	assert.ErrorIs(t, err, bbcode.ErrDuplicateTag)
}

func TestConfig_BuildTrie(t *testing.T) {
	tr, err := (&Config{}).BuildTrie()
	require.NoError(t, err)
	assert.Same(t, bbcode.DefaultTrie(), tr)

	tr, err = (&Config{Constants: []string{"<3"}}).BuildTrie()
	require.NoError(t, err)
	assert.Equal(t, len(bbcode.DefaultConstants)+1, tr.Len())

	_, err = (&Config{Constants: []string{":"}}).BuildTrie()
	assert.ErrorIs(t, err, bbcode.ErrConflictingConstant)
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Run("overrides set variables", func(t *testing.T) {
		t.Setenv("BBL_OUTPUT", "json")
		t.Setenv("BBL_NO_COLOR", "true")
		t.Setenv("BBL_MIN_SEVERITY", "error")
		t.Setenv("BBL_DISABLED", "incomplete-tag,unexpected-node")

		cfg := &Config{OutputFormat: "text"}
		require.NoError(t, cfg.LoadFromEnv())
		assert.Equal(t, "json", cfg.OutputFormat)
		assert.True(t, cfg.NoColor)
		assert.Equal(t, "error", cfg.MinSeverity)
		assert.Equal(t, []string{"incomplete-tag", "unexpected-node"}, cfg.Disabled)
	})

	t.Run("keeps values when unset", func(t *testing.T) {
		cfg := &Config{OutputFormat: "plain", NoColor: true, MinSeverity: "warning"}
		require.NoError(t, cfg.LoadFromEnv())
		assert.Equal(t, "plain", cfg.OutputFormat)
		assert.True(t, cfg.NoColor)
		assert.Equal(t, "warning", cfg.MinSeverity)
	})

	t.Run("explicit false", func(t *testing.T) {
		t.Setenv("BBL_NO_COLOR", "false")
		cfg := &Config{NoColor: true}
		require.NoError(t, cfg.LoadFromEnv())
		assert.False(t, cfg.NoColor)
	})

	t.Run("bad value", func(t *testing.T) {
		t.Setenv("BBL_NO_COLOR", "maybe")
		cfg := &Config{}
		assert.Error(t, cfg.LoadFromEnv())
	})
}

func TestConfig_SaveLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	path := filepath.Join("home", ".config", "bbl", "config.yml")

	original := &Config{
		OutputFormat: "json",
		MinSeverity:  "warning",
		Constants:    []string{"<3"},
		Tags: []TagConfig{{
			Name:        "item",
			Shape:       "greedy",
			Terminators: []string{"menu"},
		}},
	}
	require.NoError(t, original.Save(fsys, path))

	loaded, err := Load(fsys, path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)

	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "output_format: json")
	assert.NotContains(t, string(data), "no_color")
}

func TestLoad_Errors(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := Load(fsys, "missing.yml")
	assert.ErrorContains(t, err, "failed to read config file")

	require.NoError(t, afero.WriteFile(fsys, "bad.yml", []byte("tags: [unclosed"), 0644))
	_, err = Load(fsys, "bad.yml")
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadWithEnv(t *testing.T) {
	fsys := afero.NewMemMapFs()

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("BBL_OUTPUT", "plain")
		cfg, err := LoadWithEnv(fsys, "nope.yml")
		require.NoError(t, err)
		assert.Equal(t, "plain", cfg.OutputFormat)
	})

	t.Run("env overrides file", func(t *testing.T) {
		require.NoError(t, (&Config{OutputFormat: "json", MinSeverity: "error"}).Save(fsys, "c.yml"))
		t.Setenv("BBL_MIN_SEVERITY", "warning")

		cfg, err := LoadWithEnv(fsys, "c.yml")
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.OutputFormat)
		assert.Equal(t, "warning", cfg.MinSeverity)
	})

	t.Run("broken file", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fsys, "broken.yml", []byte("tags: [unclosed"), 0644))
		_, err := LoadWithEnv(fsys, "broken.yml")
		assert.Error(t, err)
	})
}

func TestDefaultConfigPath(t *testing.T) {
	t.Run("XDG", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		assert.Equal(t, filepath.Join("/custom/config", "bbl", "config.yml"), DefaultConfigPath())
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "/home/user")
		assert.Equal(t, filepath.Join("/home/user", ".config", "bbl", "config.yml"), DefaultConfigPath())
	})
}
