package cli

import (
	"bytes"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scbrown/tmcheck/internal/dictionary"
)

func TestShortCommit(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"48cae1d7a3b2c1d0e9f8a7b6c5d4e3f2a1b0c9d8", "48cae1d"},
		{"48cae1d", "48cae1d"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shortCommit(tt.input), "shortCommit(%q)", tt.input)
	}
}

func TestWriteVersion(t *testing.T) {
	tests := []struct {
		name string
		info versionInfo
		want string
	}{
		{
			name: "release build",
			info: versionInfo{Version: "v0.2.0", Commit: "48cae1d7a3b2c1d0e9f8", GoVersion: "go1.24.2", Trademarks: 52},
			want: "tmcheck v0.2.0 (48cae1d)\nbuilt with go1.24.2, 52 built-in trademarks\n",
		},
		{
			name: "dirty dev build",
			info: versionInfo{Version: "dev", Commit: "abcdef1234567890", Modified: true, GoVersion: "go1.24.2", Trademarks: 3},
			want: "tmcheck dev (abcdef1-dirty)\nbuilt with go1.24.2, 3 built-in trademarks\n",
		},
		{
			name: "no vcs info",
			info: versionInfo{Version: "dev", GoVersion: "go1.24.2"},
			want: "tmcheck dev\nbuilt with go1.24.2, 0 built-in trademarks\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeVersion(&buf, tt.info)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestCurrentVersionLdflags(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	Version, Commit = "v1.0.0", "abc1234"
	info := currentVersion()
	assert.Equal(t, "v1.0.0", info.Version)
	assert.Equal(t, "abc1234", info.Commit)
	assert.False(t, info.Modified, "ldflags commit is never marked dirty")

	Version = ""
	assert.Equal(t, "dev", currentVersion().Version)
}

func TestVersionCommandJSON(t *testing.T) {
	out, err := runCLI(t, nil, "version", "--json")
	require.NoError(t, err)
	var got versionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, runtime.Version(), got.GoVersion)
	assert.Equal(t, dictionary.Default().Len(), got.Trademarks)
	assert.Positive(t, got.Trademarks)
	assert.NotEmpty(t, got.Version)
}
