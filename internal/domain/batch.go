package domain

import "github.com/google/uuid"

// BatchResult tallies a batch operation. Items are independent: one failure
// never aborts the rest.
type BatchResult struct {
	Succeeded int
	Failed    int
	Errors    []BatchError
}

// BatchError describes a single failed item of a batch.
type BatchError struct {
	ID    uuid.UUID
	Error string
}
