package types

// TransferStatus is the lifecycle state of a bridge transfer.
type TransferStatus string

const (
	// StatusPending is the status of a transfer whose lock is submitted and mint is not yet attempted.
	StatusPending TransferStatus = "pending"
	// StatusCompleted is the status of a transfer whose mint transaction was submitted.
	StatusCompleted TransferStatus = "completed"
	// StatusFailed is the status of a transfer whose mint attempt failed.
	StatusFailed TransferStatus = "failed"
	// StatusCancelled is the status of a transfer cancelled while pending.
	StatusCancelled TransferStatus = "cancelled"
)

// String converts TransferStatus to string representation
func (s TransferStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is permitted from s.
func (s TransferStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}
