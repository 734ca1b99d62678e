package models

import "time"

// JournalEntry is one row of the append-only transfer journal.
type JournalEntry struct {
	TransferID  string
	Event       string
	Status      string
	AssetID     string
	AssetValue  string
	SourceChain string
	TargetChain string
	Sender      string
	Recipient   string
	TxHash      string
	Error       string
	RecordedAt  time.Time
}
