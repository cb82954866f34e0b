package cli

import (
	"os"

	"github.com/qforge/qforge/internal/models"
)

// Cleaner removes generated artifacts from a scanned root: the root
// manifest, the root key table, and every namespace key table. User
// operation files are never touched.
type Cleaner struct {
	layout models.Layout
}

// NewCleaner creates a cleaner for the given layout.
func NewCleaner(layout models.Layout) *Cleaner {
	return &Cleaner{layout: layout}
}

// Clean removes every generated artifact that exists and returns the
// paths it removed.
func (c *Cleaner) Clean() ([]string, error) {
	var removed []string

	targets := []string{
		c.layout.ManifestPath(),
		c.layout.RootKeysPath(),
	}

	entries, err := os.ReadDir(c.layout.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() && models.IsNamespaceDir(entry.Name()) {
			targets = append(targets, c.layout.NamespaceKeysPath(entry.Name()))
		}
	}

	for _, target := range targets {
		if err := os.Remove(target); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, err
		}
		removed = append(removed, target)
	}
	return removed, nil
}
