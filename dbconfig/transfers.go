package dbconfig

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/ClipFinance/rwa-bridge/dbconfig/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// journalWriteTimeout bounds a single journal insert.
	journalWriteTimeout = 5 * time.Second
	// journalBufferSize is the number of events queued for the writer.
	journalBufferSize = 1024
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// TransferJournal appends every transfer event to the transfer_journal table.
// It is an audit trail and is never read back by the engine. Events are queued
// by Handle and written in order by a single background writer.
type TransferJournal struct {
	db     execer
	logger *logrus.Logger

	events    chan types.Event
	done      chan struct{}
	closeOnce sync.Once
	closedMu  sync.RWMutex
	closed    bool
}

// NewTransferJournal creates a journal writing through the given DBConfig and
// starts its writer. Release it with Close.
func NewTransferJournal(cfg *DBConfig, logger *logrus.Logger) *TransferJournal {
	return newTransferJournal(cfg.db, logger, journalBufferSize)
}

func newTransferJournal(db execer, logger *logrus.Logger, bufferSize int) *TransferJournal {
	j := &TransferJournal{
		db:     db,
		logger: logger,
		events: make(chan types.Event, bufferSize),
		done:   make(chan struct{}),
	}
	go j.run()
	return j
}

// Record inserts one journal row for the event.
//
// Parameters:
// - ctx: the context for managing the request.
// - event: the transfer event to record.
//
// Returns:
// - error: an error if the insert fails.
func (j *TransferJournal) Record(ctx context.Context, event types.Event) error {
	entry := journalEntry(event)

	_, err := j.db.ExecContext(ctx, `
       INSERT INTO transfer_journal (
           transfer_id,
           event,
           status,
           asset_id,
           asset_value,
           source_chain,
           target_chain,
           sender,
           recipient,
           tx_hash,
           error,
           recorded_at
       ) VALUES (
           $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
       )`,
		entry.TransferID,
		entry.Event,
		entry.Status,
		entry.AssetID,
		entry.AssetValue,
		entry.SourceChain,
		entry.TargetChain,
		entry.Sender,
		entry.Recipient,
		nullable(entry.TxHash),
		nullable(entry.Error),
		entry.RecordedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to record %s for transfer %s", entry.Event, entry.TransferID)
	}
	return nil
}

// Handle queues the event for the writer without waiting for the insert.
// When the queue is full the event is dropped and logged.
// Its signature matches the engine's event listener.
func (j *TransferJournal) Handle(event types.Event) {
	j.closedMu.RLock()
	defer j.closedMu.RUnlock()

	log := j.logger.WithFields(logrus.Fields{
		"transferID": event.Transfer.ID,
		"event":      event.Type,
	})
	if j.closed {
		log.Warn("Transfer journal closed, dropping event")
		return
	}

	select {
	case j.events <- event:
	default:
		log.Error("Transfer journal queue full, dropping event")
	}
}

// Close stops accepting events and waits until the queued ones are written.
func (j *TransferJournal) Close() {
	j.closeOnce.Do(func() {
		j.closedMu.Lock()
		j.closed = true
		close(j.events)
		j.closedMu.Unlock()
	})
	<-j.done
}

func (j *TransferJournal) run() {
	defer close(j.done)
	for event := range j.events {
		j.write(event)
	}
}

// write records the event with a bounded timeout and logs failures.
func (j *TransferJournal) write(event types.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()

	if err := j.Record(ctx, event); err != nil {
		j.logger.WithFields(logrus.Fields{
			"transferID": event.Transfer.ID,
			"event":      event.Type,
		}).WithError(err).Error("Failed to write transfer journal")
	}
}

// journalEntry maps an event to a journal row. The transaction hash is the one
// carried by the event, falling back to the hashes stored on the transfer.
func journalEntry(event types.Event) models.JournalEntry {
	t := event.Transfer

	txHash := ""
	switch {
	case event.Transaction != nil:
		txHash = event.Transaction.Hash
	case t.MintTransactionHash != "":
		txHash = t.MintTransactionHash
	default:
		txHash = t.LockTransactionHash
	}

	errMsg := t.Error
	if event.Err != nil {
		errMsg = event.Err.Error()
	}

	recordedAt := event.At
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	return models.JournalEntry{
		TransferID:  t.ID,
		Event:       string(event.Type),
		Status:      t.Status.String(),
		AssetID:     t.AssetID,
		AssetValue:  t.AssetValue.String(),
		SourceChain: t.SourceChainID.String(),
		TargetChain: t.TargetChainID.String(),
		Sender:      t.Sender,
		Recipient:   t.Recipient,
		TxHash:      txHash,
		Error:       errMsg,
		RecordedAt:  recordedAt,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
