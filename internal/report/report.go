// Package report renders a simulation run for humans: every operation result
// followed by the disk, then a summary of the disk and the processes.
package report

import (
	"fmt"
	"io"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/pkg/errors"

	alloc "github.com/lance6716/file-allocation-demo"
	"github.com/lance6716/file-allocation-demo/internal/logger"
)

// Printer writes the report to w. The first write error is kept and every
// later write is skipped.
type Printer struct {
	w   io.Writer
	err error
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) printf(format string, v ...any) {
	if p.err != nil {
		return
	}
	_, err := fmt.Fprintf(p.w, format, v...)
	p.err = errors.WithStack(err)
}

// Err returns the first error met while writing.
func (p *Printer) Err() error {
	return p.err
}

// FormatSnapshot joins the block names with commas, free blocks are "0".
func FormatSnapshot(snapshot []string) string {
	return strings.Join(snapshot, ",")
}

// Header prints the disk before any operation.
func (p *Printer) Header(strategy alloc.AllocationStrategy, d *alloc.Disk) {
	p.printf("strategy = %s\n", strategy)
	p.printf("diskSize = %d\n", d.Len())
	p.printf("Initial disk state:\n%s\n\n", FormatSnapshot(d.Snapshot()))
}

// OnResult prints one operation, operations are numbered from 1.
func (p *Printer) OnResult(r alloc.Result, _ *alloc.Disk) {
	status := "Success"
	if !r.Success {
		status = "Failure"
	}
	p.printf("Operation %d - %s\n%s\n%s\n.\n", r.Index+1, status, r.Message, FormatSnapshot(r.Snapshot))
}

// Summary prints the final disk, its usage and what every process has left.
func (p *Printer) Summary(sim *alloc.Simulator, results []alloc.Result) {
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	stats := sim.Disk().Stats()

	p.printf("\nFinal disk state:\n%s\n", FormatSnapshot(sim.Disk().Snapshot()))
	p.printf("operations: %d succeeded, %d failed\n", succeeded, len(results)-succeeded)
	p.printf("blocks: %d used, %d free in %d runs, largest free run %d\n",
		stats.Used, stats.Free, stats.FreeRuns, stats.LargestFreeRun)
	p.printf("files: %d\n", stats.Files)
	for _, proc := range sim.Processes().Processes() {
		p.printf("process %d: priority %d, attempted %d, quota left %d\n",
			proc.ID, proc.Priority, proc.Attempted, proc.Quota)
	}
}

// LoggingObserver logs every operation result. With Verify set it also checks
// the disk invariants after each operation and counts the violations.
type LoggingObserver struct {
	Verify     bool
	Violations int
}

func (o *LoggingObserver) OnResult(r alloc.Result, d *alloc.Disk) {
	if r.Success {
		logger.Debug("operation %d: %s", r.Index+1, r.Message)
	} else {
		logger.Warn("operation %d failed [%s]: %s", r.Index+1, alloc.ErrorClass(r.Err), r.Message)
		logStack(r.Err)
	}
	logger.Debug("disk: %s", FormatSnapshot(r.Snapshot))

	if !o.Verify {
		return
	}
	if err := alloc.Verify(d); err != nil {
		o.Violations++
		logger.Error("disk invalid after operation %d: %v", r.Index+1, err)
		logStack(err)
	}
}

func logStack(err error) {
	if !logger.Enabled(logger.LevelDebug) {
		return
	}
	var stacked *goerrors.Error
	if errors.As(err, &stacked) {
		logger.Debug("%s", stacked.ErrorStack())
	}
}
