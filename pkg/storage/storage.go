// Package storage implements the on-device storage manager (C3, spec §4.3):
// a framework-scoped directory layout under a configured root, atomic
// promotion of completed downloads, free-space reporting, and cleanup of
// abandoned temporary files. Grounded on the teacher's pkg/diskusage (size
// walking) and pkg/distribution layout conventions, adapted from an
// OCI content-addressed store to a flat per-model-id tree.
package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/RunanywhereAI/sdks-sub010/internal/atomicfile"
	"github.com/RunanywhereAI/sdks-sub010/pkg/logging"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
	"github.com/RunanywhereAI/sdks-sub010/pkg/runanywhereerrors"
)

// TempPrefix marks files as in-progress downloads so CleanupTemp can find
// and remove them even after an ungraceful shutdown (spec §4.3).
const TempPrefix = "runanywhere_temp_"

// Manager lays out installed model artifacts under root as
// <root>/<framework>/<model-id>/<model-id>.<ext>, and serializes writers per
// model id so a download and a concurrent delete of the same model never
// race on the filesystem.
type Manager struct {
	root string
	log  logging.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New constructs a Manager rooted at root, creating it if necessary.
func New(root string, log logging.Logger) (*Manager, error) {
	if log == nil {
		log = logging.Discard()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Manager{
		root:  root,
		log:   logging.WithComponent(log, "storage"),
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Root returns the configured storage root.
func (m *Manager) Root() string { return m.root }

// PathFor returns the deterministic final path for a model artifact,
// creating the containing directory so a caller can open it for writing
// immediately.
func (m *Manager) PathFor(framework models.FrameworkTag, modelID string, format models.Format) (string, error) {
	dir := filepath.Join(m.root, string(framework), modelID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}
	return filepath.Join(dir, modelID+"."+format.Extension()), nil
}

// TempPathFor returns a staging path in the same directory as the final
// artifact, so MoveIntoStorage's rename is same-volume whenever possible.
func (m *Manager) TempPathFor(framework models.FrameworkTag, modelID string, format models.Format) (string, error) {
	dir := filepath.Join(m.root, string(framework), modelID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}
	return filepath.Join(dir, TempPrefix+modelID+"."+format.Extension()), nil
}

// MoveIntoStorage atomically promotes a completed download at tempPath to
// its final location, under the per-model lock so a concurrent delete
// cannot observe a half-moved artifact.
func (m *Manager) MoveIntoStorage(modelID, tempPath, finalPath string) error {
	lock := m.lockFor(modelID)
	lock.Lock()
	defer lock.Unlock()

	if err := atomicfile.Move(tempPath, finalPath); err != nil {
		return runanywhereerrors.Wrap(runanywhereerrors.KindPartialDownload, err)
	}
	m.log.WithField("model_id", modelID).Info("moved model into storage")
	return nil
}

// Delete removes every file under a model's directory. Callers are
// responsible for cancelling any in-flight download for modelID first
// (spec §4.3: delete of a downloading model cancels the download).
func (m *Manager) Delete(framework models.FrameworkTag, modelID string) error {
	lock := m.lockFor(modelID)
	lock.Lock()
	defer lock.Unlock()

	dir := filepath.Join(m.root, string(framework), modelID)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("delete model directory: %w", err)
	}
	m.log.WithField("model_id", modelID).Info("deleted model from storage")
	return nil
}

// Exists reports whether a model's final artifact is present.
func (m *Manager) Exists(framework models.FrameworkTag, modelID string, format models.Format) bool {
	path, err := m.PathFor(framework, modelID, format)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Size reports the total size in bytes of everything stored under a
// model's directory (artifacts plus any sibling tokenizer/config files),
// grounded on the teacher's pkg/diskusage.Size walking approach.
func (m *Manager) Size(framework models.FrameworkTag, modelID string) (int64, error) {
	dir := filepath.Join(m.root, string(framework), modelID)
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("compute model size: %w", err)
	}
	return total, nil
}

// ListInstalled walks the entire storage root and returns every model
// directory found, keyed by framework.
func (m *Manager) ListInstalled() (map[models.FrameworkTag][]string, error) {
	result := make(map[models.FrameworkTag][]string)
	for _, fw := range models.AllFrameworks {
		fwDir := filepath.Join(m.root, string(fw))
		entries, err := os.ReadDir(fwDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("list framework directory: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				result[fw] = append(result[fw], e.Name())
			}
		}
	}
	return result, nil
}

// CleanupTemp removes every file with the TempPrefix left behind by
// downloads that never completed (crash, force-quit), returning the
// number of bytes reclaimed.
func (m *Manager) CleanupTemp(ctx context.Context) (int64, error) {
	var reclaimed int64
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasPrefix(d.Name(), TempPrefix) {
			return nil
		}
		info, err := d.Info()
		if err == nil {
			reclaimed += info.Size()
		}
		return os.Remove(path)
	})
	if err != nil {
		return reclaimed, fmt.Errorf("cleanup temp files: %w", err)
	}
	m.log.WithField("bytes_reclaimed", reclaimed).Info("cleaned up temporary downloads")
	return reclaimed, nil
}

func (m *Manager) lockFor(modelID string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	lock, ok := m.locks[modelID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[modelID] = lock
	}
	return lock
}
