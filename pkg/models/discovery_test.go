package models

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name    string
	results []Descriptor
	calls   int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) ListModels(ctx context.Context) ([]Descriptor, error) {
	f.calls++
	return f.results, nil
}

func TestDiscovery_MergesBundledDirAndProvider(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "phi3.gguf"), []byte("GGUF\x03\x00\x00\x00"), 0o644))

	bundled := []Descriptor{{ID: "bundled-one", Source: SourceBundled}}
	provider := &fakeProvider{name: "catalog", results: []Descriptor{{ID: "remote-one", Source: SourceRemote}}}

	d := NewDiscovery([]string{dir}, bundled, time.Minute, nil)
	d.AddProvider(provider)

	found, err := d.Discover(context.Background())
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, desc := range found {
		ids[desc.ID] = true
	}
	assert.True(t, ids["bundled-one"])
	assert.True(t, ids["remote-one"])
	assert.True(t, ids["phi3"])
}

func TestDiscovery_DedupesByID(t *testing.T) {
	bundled := []Descriptor{{ID: "dup"}}
	provider := &fakeProvider{name: "catalog", results: []Descriptor{{ID: "dup"}}}

	d := NewDiscovery(nil, bundled, time.Minute, nil)
	d.AddProvider(provider)

	found, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestDiscovery_CachesWithinTTL(t *testing.T) {
	provider := &fakeProvider{name: "catalog", results: []Descriptor{{ID: "one"}}}
	d := NewDiscovery(nil, nil, time.Hour, nil)
	d.AddProvider(provider)

	_, err := d.Discover(context.Background())
	require.NoError(t, err)
	_, err = d.Discover(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
}

func TestDiscovery_RefreshBypassesCache(t *testing.T) {
	provider := &fakeProvider{name: "catalog", results: []Descriptor{{ID: "one"}}}
	d := NewDiscovery(nil, nil, time.Hour, nil)
	d.AddProvider(provider)

	_, err := d.Discover(context.Background())
	require.NoError(t, err)
	_, err = d.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls)
}

func TestDiscovery_SkipsUnreadableDirectory(t *testing.T) {
	d := NewDiscovery([]string{filepath.Join(t.TempDir(), "missing")}, nil, time.Minute, nil)
	found, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
}
