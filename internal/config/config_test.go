package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	realm, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), realm)
}

func TestLoadOverridesOnlyNamedFeatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("features:\n  float16Array: false\n"), 0o644))

	realm, err := Load(path)
	require.NoError(t, err)
	assert.False(t, realm.Features.Float16Array)
	assert.True(t, realm.Features.BigInt, "fields absent from the file keep their default")
	assert.True(t, realm.Features.StringNormalize)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("features: [this is not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
