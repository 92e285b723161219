package inference

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

type scriptedAdapter struct {
	fakeAdapter
	generateErr error
	generated   GenerationResult
	unloadErr   error
	unloaded    bool
}

func (s *scriptedAdapter) Unload(ctx context.Context) error {
	s.unloaded = true
	return s.unloadErr
}

func (s *scriptedAdapter) Generate(ctx context.Context, prompt string, opts GenerationOptions) (GenerationResult, error) {
	return s.generated, s.generateErr
}

func newTestService(t *testing.T, descriptor models.Descriptor, adapter Adapter, sink EventSink) (*Service, *models.Registry) {
	t.Helper()
	modelRegistry := models.NewRegistry(nil)
	require.NoError(t, modelRegistry.Register(descriptor))

	backendRegistry := NewRegistry()
	backendRegistry.Register(descriptor.CompatibleBackends[0], func() Adapter { return adapter })

	svc := NewService(modelRegistry, backendRegistry, sink, nil)
	return svc, modelRegistry
}

func installedDescriptor(t *testing.T, id string, fw models.FrameworkTag) models.Descriptor {
	t.Helper()
	path := filepath.Join(t.TempDir(), id+".gguf")
	require.NoError(t, os.WriteFile(path, []byte("weights"), 0o644))
	return models.Descriptor{
		ID:                 id,
		LocalPath:          path,
		Format:             models.FormatGGUF,
		CompatibleBackends: []models.FrameworkTag{fw},
		PreferredBackend:   fw,
	}
}

func TestService_LoadNotInstalledFails(t *testing.T) {
	descriptor := models.Descriptor{ID: "m1", CompatibleBackends: []models.FrameworkTag{models.FrameworkLlamaCpp}}
	svc, _ := newTestService(t, descriptor, &fakeAdapter{framework: models.FrameworkLlamaCpp}, nil)

	err := svc.Load(context.Background(), "m1", "")
	assert.Error(t, err)
}

func TestService_LoadUnknownModelFails(t *testing.T) {
	svc, _ := newTestService(t, installedDescriptor(t, "m1", models.FrameworkLlamaCpp),
		&fakeAdapter{framework: models.FrameworkLlamaCpp}, nil)

	err := svc.Load(context.Background(), "does-not-exist", "")
	assert.Error(t, err)
}

func TestService_LoadSucceedsAndEmitsEvents(t *testing.T) {
	sink := &recordingSink{}
	descriptor := installedDescriptor(t, "m1", models.FrameworkLlamaCpp)
	svc, _ := newTestService(t, descriptor, &fakeAdapter{framework: models.FrameworkLlamaCpp}, sink)

	require.NoError(t, svc.Load(context.Background(), "m1", ""))

	loaded, ok := svc.LoadedModel()
	assert.True(t, ok)
	assert.Equal(t, "m1", loaded.ID)
	assert.Contains(t, sink.kinds(), EventModelLoading)
	assert.Contains(t, sink.kinds(), EventModelLoaded)
}

func TestService_GenerateWithoutLoadFails(t *testing.T) {
	svc, _ := newTestService(t, installedDescriptor(t, "m1", models.FrameworkLlamaCpp),
		&fakeAdapter{framework: models.FrameworkLlamaCpp}, nil)

	_, err := svc.Generate(context.Background(), "hi", GenerationOptions{})
	assert.Error(t, err)
}

func TestService_GenerateRecordsStatistics(t *testing.T) {
	sink := &recordingSink{}
	adapter := &scriptedAdapter{
		fakeAdapter: fakeAdapter{framework: models.FrameworkLlamaCpp},
		generated:   GenerationResult{Text: "hi", TokenCount: 3, FinishReason: FinishStop},
	}
	descriptor := installedDescriptor(t, "m1", models.FrameworkLlamaCpp)
	svc, _ := newTestService(t, descriptor, adapter, sink)

	require.NoError(t, svc.Load(context.Background(), "m1", ""))
	result, err := svc.Generate(context.Background(), "hi", GenerationOptions{})
	require.NoError(t, err)
	assert.Equal(t, "hi", result.Text)

	stats := svc.Statistics()
	assert.Equal(t, int64(3), stats.TokensGenerated)
	assert.Equal(t, int64(1), stats.Generations)
	assert.Zero(t, stats.GenerationFailures)
}

func TestService_GenerateFailureRecordsFailureStatistic(t *testing.T) {
	adapter := &scriptedAdapter{
		fakeAdapter: fakeAdapter{framework: models.FrameworkLlamaCpp},
		generateErr: errors.New("boom"),
	}
	descriptor := installedDescriptor(t, "m1", models.FrameworkLlamaCpp)
	svc, _ := newTestService(t, descriptor, adapter, nil)

	require.NoError(t, svc.Load(context.Background(), "m1", ""))
	_, err := svc.Generate(context.Background(), "hi", GenerationOptions{})
	assert.Error(t, err)

	stats := svc.Statistics()
	assert.Equal(t, int64(1), stats.GenerationFailures)
}

func TestService_UnloadNeverErrors(t *testing.T) {
	adapter := &scriptedAdapter{
		fakeAdapter: fakeAdapter{framework: models.FrameworkLlamaCpp},
		unloadErr:   errors.New("unload failed"),
	}
	descriptor := installedDescriptor(t, "m1", models.FrameworkLlamaCpp)
	svc, _ := newTestService(t, descriptor, adapter, nil)

	require.NoError(t, svc.Load(context.Background(), "m1", ""))
	assert.NotPanics(t, func() { svc.Unload(context.Background()) })

	_, ok := svc.LoadedModel()
	assert.False(t, ok)
	assert.True(t, adapter.unloaded)
}

func TestService_LoadDifferentModelUnloadsPrevious(t *testing.T) {
	first := &scriptedAdapter{fakeAdapter: fakeAdapter{framework: models.FrameworkLlamaCpp}}
	modelRegistry := models.NewRegistry(nil)
	require.NoError(t, modelRegistry.Register(installedDescriptor(t, "m1", models.FrameworkLlamaCpp)))
	require.NoError(t, modelRegistry.Register(installedDescriptor(t, "m2", models.FrameworkLlamaCpp)))

	backendRegistry := NewRegistry()
	second := &scriptedAdapter{fakeAdapter: fakeAdapter{framework: models.FrameworkLlamaCpp}}
	calls := 0
	backendRegistry.Register(models.FrameworkLlamaCpp, func() Adapter {
		calls++
		if calls == 1 {
			return first
		}
		return second
	})

	svc := NewService(modelRegistry, backendRegistry, nil, nil)
	require.NoError(t, svc.Load(context.Background(), "m1", ""))
	require.NoError(t, svc.Load(context.Background(), "m2", ""))

	assert.True(t, first.unloaded)
	loaded, ok := svc.LoadedModel()
	assert.True(t, ok)
	assert.Equal(t, "m2", loaded.ID)
}
