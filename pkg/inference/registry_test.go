package inference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

type fakeAdapter struct {
	framework models.FrameworkTag
}

func (f *fakeAdapter) Framework() models.FrameworkTag { return f.framework }
func (f *fakeAdapter) Load(ctx context.Context, d models.Descriptor) error { return nil }
func (f *fakeAdapter) Unload(ctx context.Context) error                    { return nil }
func (f *fakeAdapter) State() LoadState                                    { return StateUnloaded }
func (f *fakeAdapter) Generate(ctx context.Context, prompt string, opts GenerationOptions) (GenerationResult, error) {
	return GenerationResult{}, nil
}
func (f *fakeAdapter) StreamGenerate(ctx context.Context, prompt string, opts GenerationOptions, onToken func(Token)) (GenerationResult, error) {
	return GenerationResult{}, nil
}
func (f *fakeAdapter) Validate(d models.Descriptor) error { return nil }
func (f *fakeAdapter) PreferredAudioFormat() AudioFormat  { return AudioFormat{} }

func TestRegistry_NewUnregisteredFails(t *testing.T) {
	r := NewRegistry()
	_, err := r.New(models.FrameworkLlamaCpp)
	assert.Error(t, err)
}

func TestRegistry_NewConstructsViaFactory(t *testing.T) {
	r := NewRegistry()
	r.Register(models.FrameworkLlamaCpp, func() Adapter { return &fakeAdapter{framework: models.FrameworkLlamaCpp} })

	adapter, err := r.New(models.FrameworkLlamaCpp)
	require.NoError(t, err)
	assert.Equal(t, models.FrameworkLlamaCpp, adapter.Framework())
}

func TestRegistry_SelectPinnedWins(t *testing.T) {
	r := NewRegistry()
	r.Register(models.FrameworkLlamaCpp, func() Adapter { return &fakeAdapter{} })
	r.Register(models.FrameworkCoreML, func() Adapter { return &fakeAdapter{} })

	descriptor := models.Descriptor{
		PreferredBackend:   models.FrameworkCoreML,
		CompatibleBackends: []models.FrameworkTag{models.FrameworkCoreML, models.FrameworkLlamaCpp},
	}

	fw, err := r.Select(descriptor, models.FrameworkLlamaCpp)
	require.NoError(t, err)
	assert.Equal(t, models.FrameworkLlamaCpp, fw)
}

func TestRegistry_SelectPinnedUnregisteredFails(t *testing.T) {
	r := NewRegistry()
	_, err := r.Select(models.Descriptor{}, models.FrameworkMLX)
	assert.Error(t, err)
}

func TestRegistry_SelectPreferredBackend(t *testing.T) {
	r := NewRegistry()
	r.Register(models.FrameworkCoreML, func() Adapter { return &fakeAdapter{} })

	descriptor := models.Descriptor{
		PreferredBackend:   models.FrameworkCoreML,
		CompatibleBackends: []models.FrameworkTag{models.FrameworkCoreML, models.FrameworkLlamaCpp},
	}
	fw, err := r.Select(descriptor, "")
	require.NoError(t, err)
	assert.Equal(t, models.FrameworkCoreML, fw)
}

func TestRegistry_SelectFirstCompatibleWhenPreferredUnregistered(t *testing.T) {
	r := NewRegistry()
	r.Register(models.FrameworkLlamaCpp, func() Adapter { return &fakeAdapter{} })

	descriptor := models.Descriptor{
		PreferredBackend:   models.FrameworkCoreML,
		CompatibleBackends: []models.FrameworkTag{models.FrameworkCoreML, models.FrameworkLlamaCpp},
	}
	fw, err := r.Select(descriptor, "")
	require.NoError(t, err)
	assert.Equal(t, models.FrameworkLlamaCpp, fw)
}

func TestRegistry_SelectNoCompatibleBackend(t *testing.T) {
	r := NewRegistry()
	descriptor := models.Descriptor{CompatibleBackends: []models.FrameworkTag{models.FrameworkCoreML}}
	_, err := r.Select(descriptor, "")
	assert.Error(t, err)
}

func TestRegistry_Available(t *testing.T) {
	r := NewRegistry()
	r.Register(models.FrameworkLlamaCpp, func() Adapter { return &fakeAdapter{} })
	r.Register(models.FrameworkMLX, func() Adapter { return &fakeAdapter{} })
	assert.Len(t, r.Available(), 2)
}
