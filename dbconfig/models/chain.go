package models

import (
	"time"
)

type Chain struct {
	ID             int64
	ChainID        string
	NumericID      uint64
	Name           string
	Type           string
	BridgeContract string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
