package chainmanager

import (
	"context"
	"io"
	"testing"

	"github.com/ClipFinance/rwa-bridge/common/errors"
	"github.com/ClipFinance/rwa-bridge/common/types"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFactory struct {
	created map[types.ChainID]*stubProvider
	fail    bool
}

func (f *stubFactory) CreateChain(_ context.Context, config *types.ChainConfig, _ *logrus.Logger) (types.ChainProvider, error) {
	if f.fail {
		return nil, pkgerrors.New("dial failed")
	}
	p := &stubProvider{healthy: true}
	if f.created == nil {
		f.created = make(map[types.ChainID]*stubProvider)
	}
	f.created[config.ChainID] = p
	return p, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRegistryAddGetRemove(t *testing.T) {
	t.Parallel()

	factory := &stubFactory{}
	registry := NewChainRegistry(factory, testLogger())

	require.NoError(t, registry.Add(context.Background(), &types.ChainConfig{ChainID: types.Polygon}))
	require.NoError(t, registry.Add(context.Background(), &types.ChainConfig{ChainID: types.Ethereum}))

	assert.Equal(t, []types.ChainID{types.Ethereum, types.Polygon}, registry.Chains())
	assert.NotNil(t, registry.Get(types.Polygon))
	assert.Nil(t, registry.Get(types.BSC))

	err := registry.Add(context.Background(), &types.ChainConfig{ChainID: types.Polygon})
	require.ErrorIs(t, err, errors.ErrChainExists)

	registry.Remove(types.Polygon)
	assert.Nil(t, registry.Get(types.Polygon))
	assert.Equal(t, 1, factory.created[types.Polygon].closed)
	assert.Equal(t, []types.ChainID{types.Ethereum}, registry.Chains())
}

func TestRegistryAddErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		factory ChainFactory
		config  *types.ChainConfig
		want    error
	}{
		{name: "nil config", factory: &stubFactory{}, config: nil, want: errors.ErrInvalidConfig},
		{name: "empty chain id", factory: &stubFactory{}, config: &types.ChainConfig{}, want: errors.ErrInvalidConfig},
		{name: "no factory", factory: nil, config: &types.ChainConfig{ChainID: types.BSC}, want: errors.ErrFactoryNotProvided},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			registry := NewChainRegistry(tt.factory, testLogger())
			err := registry.Add(context.Background(), tt.config)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("factory failure", func(t *testing.T) {
		t.Parallel()
		registry := NewChainRegistry(&stubFactory{fail: true}, testLogger())
		err := registry.Add(context.Background(), &types.ChainConfig{ChainID: types.BSC})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dial failed")
		assert.Empty(t, registry.Chains())
	})
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	registry := NewChainRegistry(nil, testLogger())

	require.ErrorIs(t, registry.Register("", &stubProvider{}), errors.ErrInvalidChainID)
	require.ErrorIs(t, registry.Register(types.OneChain, nil), errors.ErrInvalidConfig)
	require.NoError(t, registry.Register(types.OneChain, &stubProvider{}))
	require.ErrorIs(t, registry.Register(types.OneChain, &stubProvider{}), errors.ErrChainExists)

	registry.Remove(types.BSC)
	assert.Equal(t, []types.ChainID{types.OneChain}, registry.Chains())
}
