// Package missionlog records the outcome of each finished simulation. Writes
// are fire-and-forget: nothing in the game reads them back or waits for them.
package missionlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of a run.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Entry is one mission-log record. Timestamp marshals as RFC 3339, which is
// the ISO-8601 profile the log readers expect.
type Entry struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
	Stage     int       `json:"stage"`
}

// NewEntry stamps a new entry with an id and the current UTC time.
func NewEntry(status Status, detail string, stage int) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Status:    status,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
		Stage:     stage,
	}
}

// Sink persists entries. A single Append is one attempt; retries belong to
// Retrying.
type Sink interface {
	Append(ctx context.Context, e Entry) error
}

// Discard drops every entry.
type Discard struct{}

func (Discard) Append(context.Context, Entry) error { return nil }
