package render

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/bbcode-lint/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bbcode-lint/internal/config"
)

func newTestEnv(t *testing.T, stdin string) (*cmdutil.Env, *bytes.Buffer) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	var out bytes.Buffer
	return &cmdutil.Env{
		Fs:     afero.NewMemMapFs(),
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: io.Discard,
		Config: &config.Config{NoColor: true},
		Log:    log,
	}, &out
}

func TestRunRender(t *testing.T) {
	tests := []struct {
		to   string
		want string
	}{
		{"html", "<strong>hi</strong> <span class=\"bbcode-constant\">:)</span>\n"},
		{"HTML", "<strong>hi</strong> <span class=\"bbcode-constant\">:)</span>\n"},
		{"text", "hi :)\n"},
		{"markdown", "**hi** :)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.to, func(t *testing.T) {
			env, out := newTestEnv(t, "[b]hi[/b] :)")
			require.NoError(t, runRender(nil, &renderOptions{to: tt.to}, env))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunRender_OutFile(t *testing.T) {
	env, out := newTestEnv(t, "[i]x[/i]")
	require.NoError(t, runRender(nil, &renderOptions{to: "html", outFile: "post.html"}, env))
	assert.Empty(t, out.String())

	data, err := afero.ReadFile(env.Fs, "post.html")
	require.NoError(t, err)
	assert.Equal(t, "<em>x</em>\n", string(data))
}

func TestRunRender_CustomTag(t *testing.T) {
	env, out := newTestEnv(t, "[spoiler]s[/spoiler]")
	env.Config.Tags = []config.TagConfig{{Name: "spoiler", Shape: "simple"}}
	require.NoError(t, runRender(nil, &renderOptions{to: "html"}, env))
	assert.Equal(t, "<span class=\"bbcode-spoiler\">s</span>\n", out.String())
}

func TestRunRender_BadTarget(t *testing.T) {
	env, _ := newTestEnv(t, "")
	err := runRender(nil, &renderOptions{to: "pdf"}, env)
	assert.ErrorContains(t, err, "invalid target")
}
