// Package verifier checks that the source, the snapshot document and the
// relational output agree on every table's record count.
package verifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/dbsmedya/enumexport/internal/logger"
)

// Mode selects which counts take part in verification.
type Mode string

const (
	// ModeDual compares source, document and relational counts.
	ModeDual Mode = "dual"
	// ModeRelationalOnly compares source and relational counts; there is no document.
	ModeRelationalOnly Mode = "relational-only"
)

// ErrCountMismatch is wrapped by every MismatchError.
var ErrCountMismatch = errors.New("count mismatch")

// MismatchError names the table and the counts that disagreed.
type MismatchError struct {
	Table      string
	Stage      string // "" for the per-table check, or e.g. "snapshot re-read"
	Mode       Mode
	Source     int64
	Document   int64
	Relational int64
}

func (e *MismatchError) Error() string {
	prefix := "count mismatch"
	if e.Stage != "" {
		prefix = e.Stage + " count mismatch"
	}
	if e.Mode == ModeRelationalOnly {
		return fmt.Sprintf("%s in table %s: source=%d relational=%d",
			prefix, e.Table, e.Source, e.Relational)
	}
	return fmt.Sprintf("%s in table %s: source=%d document=%d relational=%d",
		prefix, e.Table, e.Source, e.Document, e.Relational)
}

func (e *MismatchError) Unwrap() error {
	return ErrCountMismatch
}

// RowCounter returns the current number of rows in a relational table.
type RowCounter interface {
	CountRows(ctx context.Context, table string) (int64, error)
}

// VerifyResult holds verification results for a single table.
type VerifyResult struct {
	Table           string
	Mode            Mode
	SourceCount     int64
	DocumentCount   int64
	RelationalCount int64 // rows added by this run
	RelationalTotal int64 // rows in the table after this run
	Baseline        int64 // rows in the table before this run
	Match           bool
}

// VerifyStats contains overall verification statistics.
type VerifyStats struct {
	TablesVerified int
	TablesPassed   int
	TablesFailed   int
	TotalRecords   int64
	Mode           Mode
}

// Verifier compares counts table by table. Rows already present before
// the run (from earlier runs against the same file) are subtracted using a
// baseline taken right after the table is ensured.
type Verifier struct {
	counter   RowCounter
	mode      Mode
	baselines map[string]int64
	stats     VerifyStats
	logger    *logger.Logger
}

// NewVerifier creates a verifier. An empty mode means ModeDual.
func NewVerifier(counter RowCounter, mode Mode, log *logger.Logger) (*Verifier, error) {
	if counter == nil {
		return nil, fmt.Errorf("row counter is nil")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if mode == "" {
		mode = ModeDual
	}
	if mode != ModeDual && mode != ModeRelationalOnly {
		return nil, fmt.Errorf("unsupported verification mode: %s", mode)
	}

	return &Verifier{
		counter:   counter,
		mode:      mode,
		baselines: make(map[string]int64),
		stats:     VerifyStats{Mode: mode},
		logger:    log,
	}, nil
}

// Baseline records the table's current row count. Call it after the table
// exists and before the first insert.
func (v *Verifier) Baseline(ctx context.Context, table string) (int64, error) {
	n, err := v.counter.CountRows(ctx, table)
	if err != nil {
		return 0, fmt.Errorf("failed to take baseline for %s: %w", table, err)
	}
	v.baselines[table] = n
	if n > 0 {
		v.logger.Debugf("Table %q already holds %d rows from earlier runs", table, n)
	}
	return n, nil
}

// Verify compares the source and document counts with the rows this run
// added to the table. Any disagreement returns a *MismatchError.
// A table with no recorded baseline is assumed to have started empty.
func (v *Verifier) Verify(ctx context.Context, table string, sourceCount, documentCount int64) (*VerifyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("verification interrupted: %w", err)
	}

	total, err := v.counter.CountRows(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("verification failed for table %s: %w", table, err)
	}
	baseline := v.baselines[table]

	result := &VerifyResult{
		Table:           table,
		Mode:            v.mode,
		SourceCount:     sourceCount,
		DocumentCount:   documentCount,
		RelationalCount: total - baseline,
		RelationalTotal: total,
		Baseline:        baseline,
	}

	result.Match = result.SourceCount == result.RelationalCount
	if v.mode == ModeDual {
		result.Match = result.Match && result.SourceCount == result.DocumentCount
	}

	v.stats.TablesVerified++
	if !result.Match {
		v.stats.TablesFailed++
		mismatch := &MismatchError{
			Table:      table,
			Mode:       v.mode,
			Source:     result.SourceCount,
			Document:   result.DocumentCount,
			Relational: result.RelationalCount,
		}
		v.logger.Errorf("Verification FAILED: %v", mismatch)
		return result, mismatch
	}

	v.stats.TablesPassed++
	v.stats.TotalRecords += sourceCount
	v.logger.Debugf("Verification PASSED for table %q (%d records)", table, sourceCount)
	return result, nil
}

// VerifyReread compares a table's verified count with the count decoded
// from the written snapshot file.
func (v *Verifier) VerifyReread(table string, verified, reread int64) error {
	if verified == reread {
		return nil
	}
	return &MismatchError{
		Table:      table,
		Stage:      "snapshot re-read",
		Mode:       ModeDual,
		Source:     verified,
		Document:   reread,
		Relational: verified,
	}
}

// Stats returns the statistics accumulated so far.
func (v *Verifier) Stats() VerifyStats {
	return v.stats
}
