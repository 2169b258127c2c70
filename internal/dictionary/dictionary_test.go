package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/scbrown/tmcheck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	d := Default()
	require.Greater(t, d.Len(), 40)

	e, ok := d.Lookup("nike")
	require.True(t, ok)
	assert.Equal(t, "Nike, Inc.", e.Owner)
	assert.Equal(t, model.SeverityHigh, e.Severity)
	assert.Equal(t, "clothing", e.Category)

	e, ok = d.Lookup("  Let's Play ")
	require.True(t, ok)
	assert.Equal(t, model.SeverityLow, e.Severity)

	_, ok = d.Lookup("pottery")
	assert.False(t, ok)
}

func TestDefaultKeysNormalizedAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Default().Keys() {
		assert.Equal(t, model.Normalize(k), k)
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
}

func TestNewNormalizesTerms(t *testing.T) {
	d, err := New([]model.Entry{{Term: "  ACME Rockets ", Owner: "Acme", Severity: model.SeverityMedium}})
	require.NoError(t, err)
	assert.Equal(t, []string{"acme rockets"}, d.Keys())
}

func TestNewRejectsBadEntries(t *testing.T) {
	_, err := New([]model.Entry{
		{Term: "Nike", Severity: model.SeverityHigh},
		{Term: "nike ", Severity: model.SeverityHigh},
	})
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	_, err = New([]model.Entry{{Term: " ", Severity: model.SeverityHigh}})
	assert.Error(t, err)

	_, err = New([]model.Entry{{Term: "nike", Severity: "extreme"}})
	assert.Error(t, err)
}

func TestContaining(t *testing.T) {
	d, err := New([]model.Entry{
		{Term: "olympics", Severity: model.SeverityHigh},
		{Term: "olympic", Severity: model.SeverityHigh},
		{Term: "star wars", Severity: model.SeverityHigh},
	})
	require.NoError(t, err)

	e, ok := d.Containing("olympic")
	require.True(t, ok)
	assert.Equal(t, "olympics", e.Term, "first entry in order wins")

	e, ok = d.Containing("vintage star wars poster")
	require.True(t, ok)
	assert.Equal(t, "star wars", e.Term)

	e, ok = d.Containing("wars")
	require.True(t, ok)
	assert.Equal(t, "star wars", e.Term)

	_, ok = d.Containing("pottery")
	assert.False(t, ok)
	_, ok = d.Containing("")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marks.yaml")
	data := []byte(`trademarks:
  - term: Acme
    owner: Acme Corp
    severity: medium
    category: tools
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	e, ok := d.Lookup("acme")
	require.True(t, ok)
	assert.Equal(t, "Acme Corp", e.Owner)
	assert.Equal(t, 1, d.Len())
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), d.Len())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trademarks: [unclosed"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestEntriesIsCopy(t *testing.T) {
	d := Default()
	entries := d.Entries()
	entries[0].Owner = "changed"
	e, _ := d.Lookup(entries[0].Term)
	assert.NotEqual(t, "changed", e.Owner)
}

func TestMockRegistration(t *testing.T) {
	tests := map[string]string{
		"nike":        "3381333",
		"NIKE ":       "3381333",
		"adidas":      "1422360",
		"hello kitty": "1782847",
		"a":           "0000097",
	}
	for in, want := range tests {
		assert.Equal(t, want, MockRegistration(in), "MockRegistration(%q)", in)
	}
}

func TestMockRegistrationShape(t *testing.T) {
	digits := regexp.MustCompile(`^[0-9]{7}$`)
	for _, term := range append(Default().Keys(), "x", "pokémon", "a much longer listing title with many words in it") {
		got := MockRegistration(term)
		assert.Regexp(t, digits, got, term)
		assert.Equal(t, got, MockRegistration(term), "not deterministic for %q", term)
	}
}
