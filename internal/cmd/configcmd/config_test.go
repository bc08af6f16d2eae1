package configcmd

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/bbcode-lint/internal/config"
)

const configPath = "/home/user/.config/bbl/config.yml"

func TestRunShow(t *testing.T) {
	t.Run("with config file", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		cfg := &config.Config{
			OutputFormat: "json",
			MinSeverity:  "warning",
			Constants:    []string{"<3"},
			Tags:         []config.TagConfig{{Name: "u", Shape: "simple"}},
		}
		require.NoError(t, cfg.Save(fsys, configPath))
		t.Setenv("BBL_MIN_SEVERITY", "error")

		var buf bytes.Buffer
		require.NoError(t, runShow(fsys, configPath, &buf, true))

		out := buf.String()
		assert.Contains(t, out, "Output:       json  (source: config)\n")
		assert.Contains(t, out, "No color:     -\n")
		assert.Contains(t, out, "Min severity: error  (source: BBL_MIN_SEVERITY)\n")
		assert.Contains(t, out, "Constants:    1  (source: config)\n")
		assert.Contains(t, out, "Custom tags:  1  (source: config)\n")
		assert.Contains(t, out, "Config file: "+configPath)
		assert.NotContains(t, out, "file not found")
	})

	t.Run("no config file", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runShow(afero.NewMemMapFs(), configPath, &buf, true))
		assert.Contains(t, buf.String(), "Output:       -\n")
		assert.Contains(t, buf.String(), "(file not found)")
	})
}

func TestRunTest(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr string
		wantOut []string
	}{
		{
			name:    "defaults",
			wantOut: []string{"✓ Configuration is valid", "✓ Grammar has 15 tags (0 custom)", "✓ 9 constants"},
		},
		{
			name: "custom tags",
			cfg: &config.Config{
				Constants: []string{"<3"},
				Tags: []config.TagConfig{
					{Name: "spoiler", Shape: "simple"},
					{Name: "align", Shape: "Parametric", Validator: "enum", Values: []string{"left"}},
					{Name: "highlight", Shape: "parametric", Validator: "color"},
				},
			},
			wantOut: []string{"✓ Grammar has 18 tags (3 custom)", "✓ 10 constants", "✓ Custom tags parse"},
		},
		{
			name:    "invalid",
			cfg:     &config.Config{MinSeverity: "fatal"},
			wantErr: "invalid config",
			wantOut: []string{"✗ invalid config"},
		},
		{
			name:    "duplicate tag",
			cfg:     &config.Config{Tags: []config.TagConfig{{Name: "b", Shape: "simple"}}},
			wantErr: "failed to build grammar",
		},
		{
			name:    "conflicting constant",
			cfg:     &config.Config{Constants: []string{":-"}},
			wantErr: "failed to build constants",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			if tt.cfg != nil {
				require.NoError(t, tt.cfg.Save(fsys, configPath))
			}

			var buf bytes.Buffer
			err := runTest(fsys, configPath, &buf, true)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestSampleFor(t *testing.T) {
	assert.Equal(t, "[u]", sampleFor(config.TagConfig{Name: "u", Shape: "simple"}))
	assert.Equal(t, "[sz=1]", sampleFor(config.TagConfig{Name: "sz", Shape: "parametric", Validator: "size"}))
	assert.Equal(t, "[a=left]", sampleFor(config.TagConfig{Name: "a", Shape: "parametric", Validator: "enum", Values: []string{"left"}}))
	assert.Equal(t, "[q=x]", sampleFor(config.TagConfig{Name: "q", Shape: "parametric"}))
}

func TestRunClear(t *testing.T) {
	t.Run("removes existing file", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, (&config.Config{OutputFormat: "json"}).Save(fsys, configPath))

		var buf bytes.Buffer
		require.NoError(t, runClear(fsys, configPath, &buf, true))
		assert.Contains(t, buf.String(), "✓ Configuration cleared from "+configPath)

		exists, err := afero.Exists(fsys, configPath)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("idempotent", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		var buf bytes.Buffer
		require.NoError(t, runClear(fsys, configPath, &buf, true))
		require.NoError(t, runClear(fsys, configPath, &buf, true))
		assert.Contains(t, buf.String(), "✓ No config file to remove")
	})

	t.Run("reports env overrides", func(t *testing.T) {
		t.Setenv("BBL_OUTPUT", "json")
		var buf bytes.Buffer
		require.NoError(t, runClear(afero.NewMemMapFs(), configPath, &buf, true))
		assert.Contains(t, buf.String(), "Environment variables will still be used: BBL_OUTPUT")
	})
}
