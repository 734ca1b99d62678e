package config

import (
	"sort"
	"strings"

	commonerrors "github.com/ClipFinance/rwa-bridge/common/errors"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config holds the daemon settings read from the environment.
// Map values use "chain=value" pairs separated by commas.
type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
	DatabaseURL string `env:"DATABASE_URL"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
	FeedAddr    string `env:"FEED_ADDR" envDefault:":8080"`

	RPCURLs           map[string]string `env:"BRIDGE_RPC_URLS" envKeyValSeparator:"="`
	PrivateKeys       map[string]string `env:"BRIDGE_PRIVATE_KEYS" envKeyValSeparator:"="`
	Contracts         map[string]string `env:"BRIDGE_CONTRACTS" envKeyValSeparator:"="`
	RequestsPerSecond float64           `env:"BRIDGE_RPS" envDefault:"10"`
	EVMTxType         uint64            `env:"BRIDGE_EVM_TX_TYPE" envDefault:"2"`
	LoadDemo          bool              `env:"BRIDGE_LOAD_DEMO" envDefault:"false"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid LOG_LEVEL %q", c.LogLevel)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

// ChainConfigs builds one provider configuration per BRIDGE_RPC_URLS entry, ordered by chain id.
//
// Returns:
// - []types.ChainConfig: the chain configurations.
// - error: ErrInvalidChainType for chains whose type cannot be inferred.
func (c *Config) ChainConfigs() ([]types.ChainConfig, error) {
	ids := make([]string, 0, len(c.RPCURLs))
	for id := range c.RPCURLs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	configs := make([]types.ChainConfig, 0, len(ids))
	for _, id := range ids {
		chainID := types.ChainID(strings.ToLower(strings.TrimSpace(id)))
		chainType := chainID.DefaultChainType()
		if chainType == types.UNKNOWN {
			return nil, errors.Wrapf(commonerrors.ErrInvalidChainType, "chain %s", chainID)
		}

		configs = append(configs, types.ChainConfig{
			Name:      chainID.String(),
			ChainID:   chainID,
			NumericID: chainID.NumericID(),
			ChainType: chainType,
			RpcUrl:    c.RPCURLs[id],
		})
	}

	return c.Overlay(configs), nil
}

// Overlay fills keys, contracts and limits from the environment into configurations
// loaded elsewhere. Values already present are kept, except for private keys.
func (c *Config) Overlay(configs []types.ChainConfig) []types.ChainConfig {
	out := make([]types.ChainConfig, len(configs))
	for i, cfg := range configs {
		key := cfg.ChainID.String()

		if pk, ok := c.PrivateKeys[key]; ok {
			cfg.PrivateKey = pk
		}
		if contract, ok := c.Contracts[key]; ok && cfg.BridgeContract == "" {
			cfg.BridgeContract = contract
		}
		if cfg.RequestsPerSecond == 0 {
			cfg.RequestsPerSecond = c.RequestsPerSecond
		}
		if cfg.ChainType == types.EVM && cfg.TxType == 0 {
			cfg.TxType = c.EVMTxType
		}
		out[i] = cfg
	}
	return out
}
