package testutils

import (
	"os"
	"testing"

	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func AssertFileExists(t *testing.T, path string) {
	_, err := os.Stat(path)
	assert.NoError(t, err, "file should exist")
}

func AssertFileDoesNotExist(t *testing.T, path string) {
	stat, err := os.Stat(path)
	assert.Error(t, err, "file should not exist")
	assert.Nil(t, stat, "file should not exist")
}

// AssertFixture compares target with the fixture, or rewrites the fixture
// from target when regenerate is set.
func AssertFixture(t *testing.T, target, fixture string, regenerate bool) {
	// nolint:gosec
	targetContent, err := os.ReadFile(target)
	require.NoError(t, err, "should be able to read the target file")

	if regenerate {
		require.NoError(t, utils.WriteAtomic(fixture, targetContent), "cant update fixture %s", fixture)
		return
	}

	// nolint:gosec
	fixtureContent, err := os.ReadFile(fixture)
	require.NoError(t, err, "should be able to read the fixture file")
	assert.Equal(t, string(fixtureContent), string(targetContent),
		"target content should be the same as in the fixture %s", fixture)
}
