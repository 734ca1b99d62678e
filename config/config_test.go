package config

import (
	"testing"

	commonerrors "github.com/ClipFinance/rwa-bridge/common/errors"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, ":8080", cfg.FeedAddr)
	assert.Equal(t, 10.0, cfg.RequestsPerSecond)
	assert.Equal(t, uint64(2), cfg.EVMTxType)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.LoadDemo)

	configs, err := cfg.ChainConfigs()
	require.NoError(t, err)
	assert.Empty(t, configs)
}

func TestChainConfigs(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(map[string]string{
		"BRIDGE_RPC_URLS":     "polygon=https://polygon.example:8545/rpc,solana=https://api.devnet.solana.com",
		"BRIDGE_PRIVATE_KEYS": "polygon=abcdef",
		"BRIDGE_CONTRACTS":    "solana=BridgeProgram111",
		"BRIDGE_RPS":          "2.5",
	})
	require.NoError(t, err)

	configs, err := cfg.ChainConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Equal(t, types.ChainConfig{
		Name:              "polygon",
		ChainID:           types.Polygon,
		NumericID:         137,
		ChainType:         types.EVM,
		RpcUrl:            "https://polygon.example:8545/rpc",
		TxType:            2,
		PrivateKey:        "abcdef",
		RequestsPerSecond: 2.5,
	}, configs[0])

	assert.Equal(t, types.ChainConfig{
		Name:              "solana",
		ChainID:           types.Solana,
		NumericID:         900,
		ChainType:         types.SOLANA,
		RpcUrl:            "https://api.devnet.solana.com",
		BridgeContract:    "BridgeProgram111",
		RequestsPerSecond: 2.5,
	}, configs[1])
}

func TestChainConfigsUnknownChain(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(map[string]string{"BRIDGE_RPC_URLS": "avalanche=https://avax.example"})
	require.NoError(t, err)

	_, err = cfg.ChainConfigs()
	require.ErrorIs(t, err, commonerrors.ErrInvalidChainType)
}

func TestOverlayKeepsStoredContract(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		PrivateKeys:       map[string]string{"bsc": "key"},
		Contracts:         map[string]string{"bsc": "0xenv"},
		RequestsPerSecond: 4,
		EVMTxType:         0,
	}

	out := cfg.Overlay([]types.ChainConfig{{
		ChainID:           types.BSC,
		ChainType:         types.EVM,
		BridgeContract:    "0xdb",
		RequestsPerSecond: 1,
	}})

	require.Len(t, out, 1)
	assert.Equal(t, "key", out[0].PrivateKey)
	assert.Equal(t, "0xdb", out[0].BridgeContract)
	assert.Equal(t, 1.0, out[0].RequestsPerSecond)
}

func TestLogger(t *testing.T) {
	t.Parallel()

	logger, err := (&Config{LogLevel: "debug", LogFormat: "json"}).Logger()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger, err = (&Config{LogLevel: "warn", LogFormat: "text"}).Logger()
	require.NoError(t, err)
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	_, err = (&Config{LogLevel: "loud"}).Logger()
	require.Error(t, err)
}
