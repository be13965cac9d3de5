// Package exporter drives one export run: it reads every table from the
// source, writes each record to the relational sink and the snapshot
// document, verifies the counts and finally writes the snapshot file.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dbsmedya/enumexport/internal/extension"
	"github.com/dbsmedya/enumexport/internal/logger"
	"github.com/dbsmedya/enumexport/internal/schema"
	"github.com/dbsmedya/enumexport/internal/snapshot"
	"github.com/dbsmedya/enumexport/internal/source"
	"github.com/dbsmedya/enumexport/internal/types"
	"github.com/dbsmedya/enumexport/internal/verifier"
)

// Exporter runs a single export. It is not reusable.
type Exporter struct {
	source   source.Source
	sink     Sink
	resolver *schema.Resolver
	lookup   *extension.Lookup
	opts     Options
	logger   *logger.Logger

	state   State
	history []State
}

// New creates an exporter. A nil lookup means no extension values.
func New(src source.Source, sink Sink, resolver *schema.Resolver, lookup *extension.Lookup, opts Options, log *logger.Logger) (*Exporter, error) {
	if src == nil {
		return nil, fmt.Errorf("source is nil")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink is nil")
	}
	if resolver == nil {
		return nil, fmt.Errorf("schema resolver is nil")
	}
	if opts.SnapshotEnabled && opts.SnapshotPath == "" {
		return nil, fmt.Errorf("snapshot path is empty")
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Exporter{
		source:   src,
		sink:     sink,
		resolver: resolver,
		lookup:   lookup,
		opts:     opts,
		logger:   log,
		state:    StateIdle,
		history:  []State{StateIdle},
	}, nil
}

// State returns the current state.
func (e *Exporter) State() State {
	return e.state
}

// History returns every state the exporter has passed through, in order.
func (e *Exporter) History() []State {
	out := make([]State, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Exporter) transition(to State) {
	e.logger.Debugf("Export state %s -> %s", e.state, to)
	e.state = to
	e.history = append(e.history, to)
}

// Run executes the export. On any error the run is aborted: an open
// transaction is rolled back and no snapshot file is left behind. The
// returned result is non-nil in both cases.
func (e *Exporter) Run(ctx context.Context) (*ExportResult, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is nil")
	}
	if e.state != StateIdle {
		return nil, fmt.Errorf("exporter already ran (state %s)", e.state)
	}

	result := &ExportResult{
		StartedAt: time.Now(),
		State:     StateIdle,
	}

	e.logger.Infow("Starting export",
		"mode", e.opts.Mode(),
		"snapshot", e.opts.SnapshotPath,
		"compression", e.opts.Compression,
		"transaction", e.opts.Transaction,
	)

	if err := e.source.Open(ctx); err != nil {
		return e.abort(result, fmt.Errorf("failed to open source: %w", err))
	}
	defer func() {
		if err := e.source.Close(); err != nil {
			e.logger.Warnw("Failed to close source", "error", err)
		}
	}()
	e.transition(StateSourceOpened)

	result.Provenance = e.source.Provenance()
	if result.Provenance == "" {
		result.Provenance = e.opts.Provenance
	}

	var doc *snapshot.Document
	if e.opts.SnapshotEnabled {
		doc = snapshot.NewDocument(result.Provenance)
		result.Provenance = doc.Provenance()
	} else if result.Provenance == "" {
		result.Provenance = snapshot.UnknownProvenance
	}

	ver, err := verifier.NewVerifier(e.sink, e.opts.Mode(), e.logger)
	if err != nil {
		return e.abort(result, err)
	}

	if e.opts.Transaction {
		if err := e.sink.Begin(ctx); err != nil {
			return e.abort(result, err)
		}
	}

	for table, err := range e.source.Tables(ctx) {
		if err != nil {
			return e.abort(result, fmt.Errorf("failed to read source: %w", err))
		}

		tr, err := e.exportTable(ctx, table, doc, ver)
		if err != nil {
			return e.abort(result, fmt.Errorf("export of table %s failed: %w", table.Name, err))
		}

		result.Tables = append(result.Tables, *tr)
		result.TotalRecords += tr.SourceCount
		e.logger.Infof("Added enumeration %s with %d values.", tr.Name, tr.SourceCount)
	}

	e.transition(StateFinalized)
	if err := e.finalize(ctx, doc, ver, result); err != nil {
		return e.abort(result, err)
	}

	result.Verification = ver.Stats()
	result.Success = true
	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(result.StartedAt)
	e.transition(StateDone)
	result.State = e.state

	e.logger.Infow("Export completed",
		"tables", len(result.Tables),
		"records", result.TotalRecords,
		"provenance", result.Provenance,
		"duration", result.Duration,
	)

	return result, nil
}

// exportTable drains one table into both sinks and verifies its counts.
func (e *Exporter) exportTable(ctx context.Context, table source.Table, doc *snapshot.Document, ver *verifier.Verifier) (*types.TableResult, error) {
	log := e.logger.WithTable(table.Name)

	s := e.resolver.Resolve(table.Name)
	e.transition(StateSchemaResolved)

	if err := e.sink.EnsureTable(ctx, s); err != nil {
		return nil, err
	}
	baseline, err := ver.Baseline(ctx, table.Name)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		if err := doc.AddTable(table.Name, s.HasExtension); err != nil {
			return nil, err
		}
	}

	e.transition(StateWriting)
	tr := &types.TableResult{Name: table.Name, HasExtension: s.HasExtension}

	for raw, err := range table.Records {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("export interrupted: %w", err)
		}

		var ext string
		var ok bool
		if s.HasExtension {
			ext, ok = e.lookup.Lookup(table.Name, raw.Label)
		}
		rec := raw.WithExtension(ext, ok)

		// Relational first: a failed insert must not reach the document.
		if err := e.sink.Insert(ctx, s, rec); err != nil {
			return nil, err
		}
		if doc != nil {
			if err := doc.AddRecord(table.Name, rec); err != nil {
				return nil, err
			}
		}

		tr.SourceCount++
		if ok {
			tr.ExtensionHits++
		}
	}

	if doc != nil {
		tr.DocumentCount, _ = doc.Count(table.Name)
	}

	vr, err := ver.Verify(ctx, table.Name, tr.SourceCount, tr.DocumentCount)
	if err != nil {
		return nil, err
	}
	e.transition(StateVerified)

	tr.InsertedRows = vr.RelationalCount
	tr.RelationalRows = vr.RelationalTotal
	log.Debugw("Table verified",
		"source", tr.SourceCount,
		"document", tr.DocumentCount,
		"relational", tr.InsertedRows,
		"baseline", baseline,
		"extension_hits", tr.ExtensionHits,
	)
	return tr, nil
}

// finalize serializes and writes the snapshot, re-reads it if configured
// and commits the relational transaction. The snapshot file is removed
// again if anything after the write fails.
func (e *Exporter) finalize(ctx context.Context, doc *snapshot.Document, ver *verifier.Verifier, result *ExportResult) (err error) {
	if doc == nil {
		e.logger.Info("Snapshot disabled, relational output only")
		return e.sink.Commit()
	}

	data, err := doc.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	payload, err := snapshot.Compress(data, e.opts.Compression)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("export interrupted: %w", err)
	}
	if err := snapshot.WriteFile(e.opts.SnapshotPath, payload); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rmErr := os.Remove(e.opts.SnapshotPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				e.logger.Errorw("Failed to remove snapshot after abort", "path", e.opts.SnapshotPath, "error", rmErr)
			}
		}
	}()

	if e.opts.RereadSnapshot {
		if err := e.reread(ver, result.Tables); err != nil {
			return err
		}
	}

	if err := e.sink.Commit(); err != nil {
		return err
	}

	result.SnapshotPath = e.opts.SnapshotPath
	result.SnapshotBytes = len(payload)
	result.SnapshotCodec = snapshot.DetectCodec(payload)
	e.logger.Infow("Snapshot written",
		"path", e.opts.SnapshotPath,
		"bytes", len(payload),
		"raw_bytes", len(data),
		"codec", result.SnapshotCodec,
	)
	return nil
}

// reread decodes the written snapshot and checks every table's count again.
func (e *Exporter) reread(ver *verifier.Verifier, tables []types.TableResult) error {
	doc, _, err := snapshot.ReadFile(e.opts.SnapshotPath)
	if err != nil {
		return fmt.Errorf("snapshot re-read failed: %w", err)
	}
	if doc.Len() != len(tables) {
		return fmt.Errorf("snapshot re-read found %d tables, expected %d", doc.Len(), len(tables))
	}
	for _, tr := range tables {
		n, ok := doc.Count(tr.Name)
		if !ok {
			return fmt.Errorf("snapshot re-read: table %s missing", tr.Name)
		}
		if err := ver.VerifyReread(tr.Name, tr.DocumentCount, n); err != nil {
			return err
		}
	}
	e.logger.Debugf("Snapshot re-read verified %d tables", len(tables))
	return nil
}

// abort rolls back any open transaction and marks the run as failed.
func (e *Exporter) abort(result *ExportResult, cause error) (*ExportResult, error) {
	if err := e.sink.Rollback(); err != nil {
		e.logger.Errorw("Rollback failed", "error", err)
	}
	e.transition(StateAborted)

	result.State = e.state
	result.Success = false
	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(result.StartedAt)

	e.logger.Errorw("Export aborted", "error", cause)
	return result, cause
}
