package writer

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/qforge/qforge/internal/models"
	"github.com/qforge/qforge/internal/utils"
)

// Writer is the only component that mutates the file tree. Its
// write-if-changed discipline keeps stable inputs from producing
// redundant writes, which would otherwise re-trigger the watcher.
type Writer struct {
	layout models.Layout
}

// New creates a writer for the given layout.
func New(layout models.Layout) *Writer {
	return &Writer{layout: layout}
}

// WriteIfChanged writes content to path only when the on-disk content
// differs; a missing file always counts as different. Parent directories
// are created as needed. Write faults propagate to the caller: silently
// dropping a write would leave artifacts inconsistent with the model
// that produced them. The returned bool reports whether a write happened.
func (w *Writer) WriteIfChanged(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, utils.WrapWriteError(path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, utils.WrapCreateError(filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, utils.WrapWriteError(path, err)
	}
	return true, nil
}

// EnsureNamespaceSkeleton creates a namespace's two kind folders and an
// empty key-table file, leaving anything already present alone.
func (w *Writer) EnsureNamespaceSkeleton(namespace string) error {
	for _, kind := range []models.Kind{models.KindQuery, models.KindMutation} {
		if err := os.MkdirAll(w.layout.KindPath(namespace, kind), 0o755); err != nil {
			return utils.WrapCreateError(w.layout.KindPath(namespace, kind), err)
		}
	}
	return w.ensureFile(w.layout.NamespaceKeysPath(namespace))
}

// EnsureBaseStructure guarantees the root manifest, root key table, and
// a skeleton for every existing namespace before the first generation
// pass. Non-empty files are never overwritten.
func (w *Writer) EnsureBaseStructure() error {
	if err := os.MkdirAll(w.layout.Root, 0o755); err != nil {
		return utils.WrapCreateError(w.layout.Root, err)
	}
	if err := w.ensureFile(w.layout.ManifestPath()); err != nil {
		return err
	}
	if err := w.ensureFile(w.layout.RootKeysPath()); err != nil {
		return err
	}

	entries, err := os.ReadDir(w.layout.Root)
	if err != nil {
		return utils.WrapScanError(w.layout.Root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || !models.IsNamespaceDir(entry.Name()) {
			continue
		}
		if err := w.EnsureNamespaceSkeleton(entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

// ensureFile creates an empty file when none exists.
func (w *Writer) ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return utils.WrapCreateError(path, err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return utils.WrapCreateError(path, err)
	}
	return nil
}
