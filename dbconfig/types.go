package dbconfig

import (
	"context"

	"github.com/pkg/errors"
)

// Schema creates the tables read and written by this package.
const Schema = `
CREATE TABLE IF NOT EXISTS chains (
    id              BIGSERIAL PRIMARY KEY,
    chain_id        TEXT NOT NULL UNIQUE,
    numeric_id      BIGINT NOT NULL,
    name            TEXT NOT NULL,
    chain_type      TEXT,
    bridge_contract TEXT,
    active          BOOLEAN NOT NULL DEFAULT TRUE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rpcs (
    id                  BIGSERIAL PRIMARY KEY,
    chain_id            TEXT NOT NULL REFERENCES chains (chain_id),
    url                 TEXT NOT NULL,
    provider            TEXT,
    requests_per_second DOUBLE PRECISION NOT NULL DEFAULT 0,
    active              BOOLEAN NOT NULL DEFAULT TRUE,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transfer_journal (
    id           BIGSERIAL PRIMARY KEY,
    transfer_id  TEXT NOT NULL,
    event        TEXT NOT NULL,
    status       TEXT NOT NULL,
    asset_id     TEXT NOT NULL,
    asset_value  NUMERIC NOT NULL,
    source_chain TEXT NOT NULL,
    target_chain TEXT NOT NULL,
    sender       TEXT NOT NULL,
    recipient    TEXT NOT NULL,
    tx_hash      TEXT,
    error        TEXT,
    recorded_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS transfer_journal_transfer_id_idx ON transfer_journal (transfer_id);
`

// EnsureSchema creates missing tables.
func (r *DBConfig) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return errors.Wrap(err, "failed to create schema")
	}
	return nil
}
