// Package backup drives configuration backup and restore: the export
// engine, the version-gated MRF region hierarchy and the optional offsite
// object-storage copy.
package backup

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
)

// Exporter is the external engine that serializes configuration artifacts
// into and out of a working directory. The file layout is the engine's
// concern, not ours.
type Exporter interface {
	Export(ctx context.Context, workdir string, tags []string, saveRunning bool) error
	Import(ctx context.Context, workdir string, tags []string, attach bool) error
}

// Uploader copies a finished backup tree to offsite storage.
type Uploader interface {
	EnsureBucket(ctx context.Context, bucket string) error
	UploadDir(ctx context.Context, bucket, prefix, dir string) error
}

// Options configures a backup run.
type Options struct {
	Tags        []string
	SaveRunning bool
	IncludeMRF  bool

	// OffsiteBucket and OffsitePrefix select the offsite copy target.
	// Empty bucket disables the copy.
	OffsiteBucket string
	OffsitePrefix string
}

// RestoreOptions configures a restore run.
type RestoreOptions struct {
	Tags       []string
	Attach     bool
	IncludeMRF bool
}

// Manager coordinates the export engine, the hierarchy API and the offsite
// uploader.
type Manager struct {
	hierarchy HierarchyReader
	exporter  Exporter
	uploader  Uploader
	log       logr.Logger
}

// ManagerOption adjusts the backup manager.
type ManagerOption func(*Manager)

// WithUploader enables offsite copies.
func WithUploader(u Uploader) ManagerOption {
	return func(m *Manager) { m.uploader = u }
}

// New builds a backup manager.
func New(hierarchy HierarchyReader, exporter Exporter, log logr.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{hierarchy: hierarchy, exporter: exporter, log: log}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backup exports configuration into workdir, adds the MRF hierarchy when
// the server supports it and pushes an offsite copy when configured.
// MRF and offsite steps are best-effort; only the export itself can fail
// the run.
func (m *Manager) Backup(ctx context.Context, workdir string, opts Options) error {
	if len(opts.Tags) == 0 {
		opts.Tags = []string{"all"}
	}
	if err := os.MkdirAll(workdir, 0o750); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	m.log.Info("starting backup", "workdir", workdir, "tags", opts.Tags)

	if err := m.exporter.Export(ctx, workdir, opts.Tags, opts.SaveRunning); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	if opts.IncludeMRF {
		m.backupMRF(ctx, workdir)
	}

	if m.uploader != nil && opts.OffsiteBucket != "" {
		if err := m.offsiteCopy(ctx, workdir, opts.OffsiteBucket, opts.OffsitePrefix); err != nil {
			m.log.Error(err, "offsite copy failed", "bucket", opts.OffsiteBucket)
		}
	}

	m.log.Info("backup completed", "workdir", workdir)
	return nil
}

// Restore imports configuration from workdir. MRF regions are restored
// first so that devices attached later can reference them, parents before
// children.
func (m *Manager) Restore(ctx context.Context, workdir string, opts RestoreOptions) error {
	if len(opts.Tags) == 0 {
		opts.Tags = []string{"all"}
	}
	if _, err := os.Stat(workdir); err != nil {
		return fmt.Errorf("backup directory not found: %s", workdir)
	}

	m.log.Info("starting restore", "workdir", workdir, "tags", opts.Tags)

	if opts.IncludeMRF {
		m.restoreMRF(ctx, workdir)
	}

	if err := m.exporter.Import(ctx, workdir, opts.Tags, opts.Attach); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	m.log.Info("restore completed", "workdir", workdir)
	return nil
}

func (m *Manager) offsiteCopy(ctx context.Context, workdir, bucket, prefix string) error {
	m.log.Info("uploading backup offsite", "bucket", bucket, "prefix", prefix)
	if err := m.uploader.EnsureBucket(ctx, bucket); err != nil {
		return err
	}
	return m.uploader.UploadDir(ctx, bucket, prefix, workdir)
}
