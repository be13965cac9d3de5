package exporter

import (
	"context"
	"time"

	"github.com/dbsmedya/enumexport/internal/config"
	"github.com/dbsmedya/enumexport/internal/schema"
	"github.com/dbsmedya/enumexport/internal/types"
	"github.com/dbsmedya/enumexport/internal/verifier"
)

// State is a step of the export state machine.
type State string

const (
	StateIdle           State = "idle"
	StateSourceOpened   State = "source_opened"
	StateSchemaResolved State = "schema_resolved"
	StateWriting        State = "writing"
	StateVerified       State = "verified"
	StateFinalized      State = "finalized"
	StateDone           State = "done"
	StateAborted        State = "aborted"
)

// Sink is the relational output the exporter writes to.
// *sink.Writer implements it.
type Sink interface {
	EnsureTable(ctx context.Context, s schema.Schema) error
	Insert(ctx context.Context, s schema.Schema, rec types.Record) error
	CountRows(ctx context.Context, table string) (int64, error)
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
}

// Options control one export run.
type Options struct {
	SnapshotEnabled bool
	SnapshotPath    string
	Compression     string
	Provenance      string // used when the source reports none
	Transaction     bool
	RereadSnapshot  bool
}

// OptionsFromConfig derives run options from configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SnapshotEnabled: cfg.Snapshot.Enabled,
		SnapshotPath:    cfg.Snapshot.Path,
		Compression:     cfg.Snapshot.Compression,
		Provenance:      cfg.Snapshot.Provenance,
		Transaction:     cfg.Output.Transaction,
		RereadSnapshot:  cfg.Verification.RereadSnapshot,
	}
}

// Mode returns the verification mode implied by the options.
func (o Options) Mode() verifier.Mode {
	if o.SnapshotEnabled {
		return verifier.ModeDual
	}
	return verifier.ModeRelationalOnly
}

// ExportResult contains statistics and status of an export run.
type ExportResult struct {
	Provenance    string
	StartedAt     time.Time
	CompletedAt   time.Time
	Duration      time.Duration
	Tables        []types.TableResult
	TotalRecords  int64
	SnapshotPath  string // empty in relational-only mode
	SnapshotBytes int
	SnapshotCodec string
	Verification  verifier.VerifyStats
	State         State
	Success       bool
}
