package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/ytsearch/pkg/version"
)

func TestVersionCmd_DefaultOutput(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "ytsearch")
	assert.Contains(t, out, version.Version)
	assert.Contains(t, out, "commit")
}

func TestVersionCmd_ShortOutput(t *testing.T) {
	out, err := execute(t, "version", "--short")

	require.NoError(t, err)
	assert.Equal(t, version.Version, strings.TrimSpace(out))
}

func TestVersionCmd_JSONOutput(t *testing.T) {
	out, err := execute(t, "version", "--json")

	require.NoError(t, err)
	var info version.BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := execute(t, "--version")

	require.NoError(t, err)
	assert.Equal(t, "ytsearch version "+version.Version, strings.TrimSpace(out))
}
