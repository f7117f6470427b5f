package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Münih Sahne", s.Org.Name)
	assert.Equal(t, "-//MunihSahne//TR", s.Org.ProductID)
	assert.Equal(t, "Europe/Berlin", s.TimeZone)
	require.Len(t, s.Events, 1)
	assert.Equal(t, "tanisma-toplantisi", s.Events[0].ID)
	assert.Equal(t, "Europe/Berlin", s.Events[0].TimeZone, "events inherit the site zone")
	assert.Equal(t, "Europe/Berlin", s.Education.TimeZone)
	assert.True(t, s.HasEducation())
	assert.Contains(t, s.Interests, "Oyunculuk")
}

func TestParse(t *testing.T) {
	t.Run("defaults are filled in", func(t *testing.T) {
		s, err := Parse([]byte("org:\n  name: Sahne\n"))
		require.NoError(t, err)

		assert.Equal(t, "Europe/Berlin", s.TimeZone)
		assert.Equal(t, "-//MunihSahne//TR", s.Org.ProductID)
		assert.Equal(t, "Sahne", s.Org.UIDDomain)
		assert.False(t, s.HasEducation())
	})

	t.Run("event keeps its own zone", func(t *testing.T) {
		s, err := Parse([]byte(`
org:
  name: Sahne
events:
  - id: istanbul
    title: Turne
    date: "2026-01-10"
    startTime: "20:00"
    endTime: "22:00"
    timeZone: Europe/Istanbul
`))
		require.NoError(t, err)

		assert.Equal(t, "Europe/Istanbul", s.Events[0].TimeZone)
	})

	t.Run("missing org name", func(t *testing.T) {
		_, err := Parse([]byte("timeZone: Europe/Berlin\n"))
		assert.Error(t, err)
	})

	t.Run("unknown zone", func(t *testing.T) {
		_, err := Parse([]byte("org:\n  name: Sahne\ntimeZone: Europe/Atlantis\n"))
		assert.Error(t, err)
	})

	t.Run("invalid event", func(t *testing.T) {
		_, err := Parse([]byte(`
org:
  name: Sahne
events:
  - id: broken
    title: Broken
    date: "tomorrow"
    startTime: "20:00"
    endTime: "22:00"
`))
		assert.Error(t, err)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		_, err := Parse([]byte(`
org:
  name: Sahne
education:
  weekday: someday
  startTime: "19:30"
  endTime: "22:00"
  from: "2025-11-01"
  until: "2025-12-31"
`))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("org: [\n"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses the built-in site", func(t *testing.T) {
		s, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "Münih Sahne", s.Org.Name)
	})

	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "site.yaml")
		require.NoError(t, os.WriteFile(path, []byte("org:\n  name: Başka Sahne\n"), 0o600))

		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "Başka Sahne", s.Org.Name)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
