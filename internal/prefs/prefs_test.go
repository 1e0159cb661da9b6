package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mj1618/formfill/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "prefs.yaml"))
	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Prefs{}, p)
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	s := NewFileStore(path)
	want := Prefs{
		FastMode:       true,
		LastSource:     &config.Source{Kind: config.SourceExternal, Path: "forms/config.xml"},
		LastSourceName: "config.xml",
	}
	require.NoError(t, s.Save(want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fast_mode: true")

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStore_RejectsInvalidSource(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "prefs.yaml"))
	err := s.Save(Prefs{LastSource: &config.Source{Kind: "ftp", Path: "x"}})
	assert.Error(t, err)
}

func TestFileStore_RejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fast_mode: [\n"), 0o644))
	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestUpdate(t *testing.T) {
	m := &MemoryStore{}
	require.NoError(t, Update(m, func(p *Prefs) { p.FastMode = true }))
	require.NoError(t, Update(m, func(p *Prefs) { p.LastSourceName = "a.xml" }))

	got, _ := m.Load()
	assert.True(t, got.FastMode)
	assert.Equal(t, "a.xml", got.LastSourceName)
	assert.Equal(t, 2, m.Saves())
}
