// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteFDR prints the attack and defence lists of a calculation.
func (ow *OutWriter) WriteFDR(lists schema.FDRLists, cfg *contract.Config, duration time.Duration) error {
	return WriteFDRResults(lists, cfg, duration)
}

// WriteSchedules prints per-team fixture windows.
func (ow *OutWriter) WriteSchedules(schedules []schema.TeamSchedule, cfg *contract.Config, duration time.Duration) error {
	return WriteScheduleResults(schedules, cfg, duration)
}

// WriteTiers prints the curated tier mapping.
func (ow *OutWriter) WriteTiers(table schema.TierTable, cfg *contract.Config) error {
	return WriteTierTable(table, cfg)
}

// WriteTierLookup prints the answers to tier queries.
func (ow *OutWriter) WriteTierLookup(lookups []schema.TierLookup, cfg *contract.Config) error {
	return WriteTierLookupResult(lookups, cfg)
}
