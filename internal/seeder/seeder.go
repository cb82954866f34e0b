package seeder

import (
	"bytes"
	"os"
	"strings"

	"github.com/qforge/qforge/internal/models"
	"github.com/qforge/qforge/internal/renderer"
	"github.com/qforge/qforge/internal/utils"
)

// Seeder fills brand-new operation files with kind-appropriate
// boilerplate so they immediately participate in the next pass.
type Seeder struct {
	layout models.Layout
}

// New creates a seeder for the given layout.
func New(layout models.Layout) *Seeder {
	return &Seeder{layout: layout}
}

// MaybeSeed writes boilerplate into path if, and only if, it is an
// operation file location and the file exists but is whitespace-empty.
// Non-empty user content is never overwritten. The returned bool
// reports whether a seed was written.
func (s *Seeder) MaybeSeed(path string) (bool, error) {
	namespace, kind, name, ok := s.layout.SplitOperationPath(path)
	if !ok {
		return false, nil
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, utils.WrapSeedError(path, err)
	}
	if len(strings.TrimSpace(string(existing))) > 0 {
		return false, nil
	}

	content, err := s.render(namespace, kind, name)
	if err != nil {
		return false, utils.WrapSeedError(path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, utils.WrapSeedError(path, err)
	}
	return true, nil
}

// render produces the boilerplate body for one operation file.
func (s *Seeder) render(namespace string, kind models.Kind, name string) ([]byte, error) {
	data := seedData{
		Namespace:  namespace,
		Name:       name,
		ArgsType:   utils.Pascal(name) + "Args",
		ArgName:    "args",
		KeysExport: renderer.KeysExportName(namespace),
	}
	data.KeyRef = s.keyRef(namespace, kind, name, data.KeysExport)

	tmpl := queryTemplate
	if kind == models.KindMutation {
		tmpl = mutationTemplate
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// keyRef builds the key-table accessor the seeded body points at. When
// the paired file of the other kind already exists, the key table will
// render a nested entry, so the accessor gains a kind segment.
func (s *Seeder) keyRef(namespace string, kind models.Kind, name, keysExport string) string {
	ref := renderer.Accessor(keysExport, name)

	other := models.KindMutation
	if kind == models.KindMutation {
		other = models.KindQuery
	}
	if _, err := os.Stat(s.layout.OperationPath(namespace, other, name)); err == nil {
		return ref + "." + kind.String()
	}
	return ref
}
