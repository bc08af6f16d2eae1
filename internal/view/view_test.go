package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"text", false},
		{"json", false},
		{"plain", false},
		{"table", true},
		{"JSON", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid output format")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewRenderer_DefaultFormat(t *testing.T) {
	assert.Equal(t, FormatText, NewRenderer("", true).Format())
	assert.Equal(t, FormatPlain, NewRenderer(FormatPlain, true).Format())
}

func TestRenderer_RenderTable(t *testing.T) {
	headers := []string{"NAME", "SEVERITY"}
	rows := [][]string{
		{"missing-close-tag", "warning"},
		{"bad-parameter", "error"},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(FormatText, true)
		r.SetWriter(&buf)
		r.RenderTable(headers, rows)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "NAME               SEVERITY", lines[0])
		assert.Equal(t, "missing-close-tag  warning", lines[1])
		assert.Equal(t, "bad-parameter      error", lines[2])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(FormatJSON, true)
		r.SetWriter(&buf)
		r.RenderTable(headers, [][]string{{"incomplete-tag"}})

		var result []map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		require.Len(t, result, 1)
		assert.Equal(t, "incomplete-tag", result[0]["name"])
		_, exists := result[0]["severity"]
		assert.False(t, exists)
	})

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(FormatPlain, true)
		r.SetWriter(&buf)
		r.RenderTable(headers, rows)
		assert.Equal(t, "missing-close-tag\twarning\nbad-parameter\terror\n", buf.String())
	})
}

func TestRenderer_Success(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatText, true)
	r.SetWriter(&buf)

	r.Success("Report written to report.html")
	assert.Equal(t, "✓ Report written to report.html\n", buf.String())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "hel"},
		{"", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.maxLen))
		})
	}
}
