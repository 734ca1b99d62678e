package dbconfig

import (
	"context"
	"database/sql"

	"github.com/ClipFinance/rwa-bridge/common/errors"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/ClipFinance/rwa-bridge/dbconfig/models"
)

// GetChains returns all chains from the database, optionally filtering by active status.
//
// Parameters:
// - ctx: the context for managing the request.
// - activeOnly: a boolean flag to filter only active chains.
//
// Returns:
// - []models.Chain: a slice of chain models ordered by chain id.
// - error: an error if the database operation fails.
func (r *DBConfig) GetChains(ctx context.Context, activeOnly bool) ([]models.Chain, error) {
	query := `
      SELECT 
          id,
          chain_id,
          numeric_id,
          name,
          chain_type,
          bridge_contract,
          active,
          created_at,
          updated_at
      FROM chains
  `

	var args []interface{}
	if activeOnly {
		query += " WHERE active = $1"
		args = append(args, true)
	}

	query += " ORDER BY chain_id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.ErrDatabaseConnect
	}
	defer rows.Close()

	var chains []models.Chain
	for rows.Next() {
		chain, err := scanChain(rows)
		if err != nil {
			return nil, errors.ErrDatabaseConnect
		}
		chains = append(chains, *chain)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.ErrDatabaseConnect
	}

	return chains, nil
}

// GetChainByID returns a single chain by its bridge-level id.
//
// Parameters:
// - ctx: the context for managing the request.
// - chainID: the chain identifier.
//
// Returns:
// - *models.Chain: the chain model.
// - error: ErrInvalidChainID, ErrChainNotFound or ErrDatabaseConnect.
func (r *DBConfig) GetChainByID(ctx context.Context, chainID types.ChainID) (*models.Chain, error) {
	if chainID == "" {
		return nil, errors.ErrInvalidChainID
	}

	row := r.db.QueryRowContext(ctx, `
       SELECT 
           id,
           chain_id,
           numeric_id,
           name,
           chain_type,
           bridge_contract,
           active,
           created_at,
           updated_at
       FROM chains
       WHERE chain_id = $1
    `, chainID.String())

	chain, err := scanChain(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrChainNotFound
	}
	if err != nil {
		return nil, errors.ErrDatabaseConnect
	}

	return chain, nil
}

// GetChainConfigs builds provider configurations from active chains and their newest active RPC.
// Chains without an active RPC are skipped. Private keys are never stored in the database.
//
// Parameters:
// - ctx: the context for managing the request.
//
// Returns:
// - []types.ChainConfig: the chain configurations.
// - error: an error if the database operation fails.
func (r *DBConfig) GetChainConfigs(ctx context.Context) ([]types.ChainConfig, error) {
	chains, err := r.GetChains(ctx, true)
	if err != nil {
		return nil, err
	}

	configs := make([]types.ChainConfig, 0, len(chains))
	for _, chain := range chains {
		rpcs, err := r.GetRPCsByChainID(ctx, types.ChainID(chain.ChainID), true)
		if err != nil {
			return nil, err
		}
		if len(rpcs) == 0 {
			continue
		}
		configs = append(configs, toChainConfig(chain, rpcs[0]))
	}

	return configs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChain(row rowScanner) (*models.Chain, error) {
	var chain models.Chain
	var bridgeContract sql.NullString
	var chainType sql.NullString

	err := row.Scan(
		&chain.ID,
		&chain.ChainID,
		&chain.NumericID,
		&chain.Name,
		&chainType,
		&bridgeContract,
		&chain.Active,
		&chain.CreatedAt,
		&chain.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bridgeContract.Valid {
		chain.BridgeContract = bridgeContract.String
	}
	if chainType.Valid {
		chain.Type = chainType.String
	}

	return &chain, nil
}

// toChainConfig merges a chain row and an RPC row into a provider configuration.
// A missing chain type falls back to the well-known type of the chain id.
func toChainConfig(chain models.Chain, rpc models.RPC) types.ChainConfig {
	chainID := types.ChainID(chain.ChainID)

	chainType := types.ParseChainType(chain.Type)
	if chainType == types.UNKNOWN {
		chainType = chainID.DefaultChainType()
	}

	numericID := chain.NumericID
	if numericID == 0 {
		numericID = chainID.NumericID()
	}

	return types.ChainConfig{
		Name:              chain.Name,
		ChainID:           chainID,
		NumericID:         numericID,
		ChainType:         chainType,
		RpcUrl:            rpc.URL,
		BridgeContract:    chain.BridgeContract,
		RequestsPerSecond: rpc.RequestsPerSecond,
	}
}
