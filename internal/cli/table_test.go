package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scbrown/tmcheck/internal/model"
)

func TestNewTableHeaders(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "TERM", "OWNER", "STATUS")
	tbl.Row("nike", "Nike, Inc.", "conflict")
	tbl.Row("pottery", "-", "clear")
	tbl.Flush()

	out := buf.String()
	for _, want := range []string{"TERM", "OWNER", "STATUS", "nike", "pottery"} {
		assert.Contains(t, out, want)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3, "header plus two rows")
}

func TestNewTableNoHeaders(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf)
	tbl.Row("a", "b")
	tbl.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1, "data only")
}

func TestNewTableAlignment(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "TERM", "TRADEMARK")
	tbl.Row("a", "x")
	tbl.Row("hello kitty", "y")
	tbl.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	headerIdx := strings.Index(lines[0], "TRADEMARK")
	row2Idx := strings.Index(lines[2], "y")
	require.GreaterOrEqual(t, headerIdx, 0)
	assert.Equal(t, headerIdx, row2Idx, "second column aligned")
}

func TestIsTTYBuffer(t *testing.T) {
	assert.False(t, isTTY(&bytes.Buffer{}))
}

func TestTableColorDisabledForBuffer(t *testing.T) {
	tbl := NewTable(&bytes.Buffer{}, "HEADER")
	assert.False(t, tbl.Color())
	assert.Equal(t, "test", tbl.Bold("test"), "bold is a no-op off a TTY")
}

func TestTableWidthDefault(t *testing.T) {
	assert.Equal(t, defaultTermWidth, NewTable(&bytes.Buffer{}).Width())
}

func TestPaint(t *testing.T) {
	s := paint(dangerStyle, "conflict", true)
	assert.Contains(t, s, "\033[")
	assert.Contains(t, s, "conflict")

	assert.Equal(t, "conflict", paint(dangerStyle, "conflict", false))
}

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		status string
		want   *color.Color
	}{
		{"conflict", dangerStyle},
		{"risk", dangerStyle},
		{"High", dangerStyle},
		{"warning", warningStyle},
		{"Medium", warningStyle},
		{"clear", clearStyle},
		{"Low", clearStyle},
	}
	for _, tt := range tests {
		assert.Same(t, tt.want, statusStyle(tt.status), "statusStyle(%q)", tt.status)
	}
}

func TestTableStatusPlainForBuffer(t *testing.T) {
	tbl := NewTable(&bytes.Buffer{})
	assert.Equal(t, "conflict", tbl.Status(model.StatusConflict))
	assert.Equal(t, "warning", tbl.Risk(model.RiskWarning))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"Nike, Incorporated", 10, "Nike, I..."},
		{"abcdef", 3, "abc"},
		{"Société Bic", 8, "Socié..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.n), "truncate(%q, %d)", tt.in, tt.n)
	}
}

func TestGetTermWidthFallback(t *testing.T) {
	assert.Positive(t, getTermWidth())
}
