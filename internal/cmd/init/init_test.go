package init

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/bbcode-lint/internal/config"
	"github.com/open-cli-collective/bbcode-lint/pkg/bbcode"
)

const testPath = "/home/user/.config/bbl/config.yml"

func noAsk(t *testing.T) asker {
	return func(*config.Config) error {
		t.Fatal("asker should not be called")
		return nil
	}
}

func TestRunInit_Defaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	var out bytes.Buffer

	err := runInit(fsys, testPath, &out, &initOptions{defaults: true}, noAsk(t))
	require.NoError(t, err)

	cfg, err := config.Load(fsys, testPath)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, "tidy", cfg.MinSeverity)
	assert.False(t, cfg.NoColor)
	assert.Empty(t, cfg.Disabled)
	assert.Contains(t, out.String(), "Configuration saved to "+testPath)
}

func TestRunInit_Answers(t *testing.T) {
	fsys := afero.NewMemMapFs()
	var out bytes.Buffer

	ask := func(cfg *config.Config) error {
		cfg.OutputFormat = "json"
		cfg.MinSeverity = "warning"
		cfg.NoColor = true
		cfg.Disabled = []string{bbcode.DiagUnpairedCloseTag}
		return nil
	}

	err := runInit(fsys, testPath, &out, &initOptions{}, ask)
	require.NoError(t, err)

	cfg, err := config.Load(fsys, testPath)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, bbcode.SeverityWarning, cfg.Severity())
	assert.True(t, cfg.NoColor)
	assert.Equal(t, []string{bbcode.DiagUnpairedCloseTag}, cfg.Disabled)
}

func TestRunInit_AskError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	boom := errors.New("user aborted")

	err := runInit(fsys, testPath, &bytes.Buffer{}, &initOptions{}, func(*config.Config) error { return boom })
	require.ErrorIs(t, err, boom)

	exists, _ := afero.Exists(fsys, testPath)
	assert.False(t, exists)
}

func TestRunInit_InvalidAnswers(t *testing.T) {
	fsys := afero.NewMemMapFs()

	ask := func(cfg *config.Config) error {
		cfg.MinSeverity = "fatal"
		return nil
	}

	err := runInit(fsys, testPath, &bytes.Buffer{}, &initOptions{}, ask)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunInit_ExistingConfig(t *testing.T) {
	t.Run("defaults without force", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, testPath, []byte("output_format: plain\n"), 0644))

		err := runInit(fsys, testPath, &bytes.Buffer{}, &initOptions{defaults: true}, noAsk(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")

		cfg, err := config.Load(fsys, testPath)
		require.NoError(t, err)
		assert.Equal(t, "plain", cfg.OutputFormat)
	})

	t.Run("force overwrites", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, testPath, []byte("output_format: plain\n"), 0644))

		err := runInit(fsys, testPath, &bytes.Buffer{}, &initOptions{defaults: true, force: true}, noAsk(t))
		require.NoError(t, err)

		cfg, err := config.Load(fsys, testPath)
		require.NoError(t, err)
		assert.Equal(t, "text", cfg.OutputFormat)
	})
}

func TestDiagnosticNames(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range diagnosticNames {
		assert.False(t, seen[name], "duplicate %s", name)
		seen[name] = true
	}
	assert.True(t, seen[bbcode.DiagMissingCloseTag])
	assert.True(t, seen["font-name-dirty"])
}
