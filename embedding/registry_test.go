package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryResolvesBundledDeterministicProvider(t *testing.T) {
	r := NewRegistry()
	p, err := r.New("deterministic", map[string]any{"dimension": 6})
	require.NoError(t, err)
	require.Equal(t, 6, p.Dimension())

	_, err = p.Embed(context.Background(), "hi")
	require.NoError(t, err)
}

func TestRegistryUnknownProvider(t *testing.T) {
	r := NewRegistry()
	_, err := r.New("nonexistent", nil)
	require.Error(t, err)
}

func TestRegistryRegisterCustomFactory(t *testing.T) {
	r := NewRegistry()
	called := false
	err := r.Register("stub", func(config map[string]any) (Provider, error) {
		called = true
		return NewDeterministicProvider(DeterministicConfig{Dimension: 2}), nil
	})
	require.NoError(t, err)

	p, err := r.New("stub", nil)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, 2, p.Dimension())
}

func TestRegistryRejectsEmptyNameOrNilFactory(t *testing.T) {
	r := NewRegistry()
	require.Error(t, r.Register("", func(map[string]any) (Provider, error) { return nil, nil }))
	require.Error(t, r.Register("x", nil))
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("zeta", func(map[string]any) (Provider, error) { return nil, nil }))
	require.NoError(t, r.Register("alpha", func(map[string]any) (Provider, error) { return nil, nil }))

	require.Equal(t, []string{"alpha", "deterministic", "zeta"}, r.Names())
}

func TestRegistryDeterministicConfigTypeError(t *testing.T) {
	r := NewRegistry()
	_, err := r.New("deterministic", map[string]any{"dimension": "not-a-number"})
	require.Error(t, err)
}
