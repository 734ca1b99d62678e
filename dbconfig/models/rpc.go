package models

import "time"

type RPC struct {
	ID                int64
	ChainID           string
	URL               string
	Provider          string
	RequestsPerSecond float64
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
