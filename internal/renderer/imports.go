package renderer

import (
	"fmt"
	"sort"
	"strings"
)

// importSet handles import generation and deduplication for one
// generated file. Names pulled from the same resolved path collapse
// into a single import line; paths and the names within each path are
// emitted sorted so output never depends on insertion order.
type importSet struct {
	typeOnly bool
	names    map[string]map[string]string // path -> exported name -> local alias
}

// newImportSet creates an empty import set. typeOnly sets whether lines
// are emitted as "import type".
func newImportSet(typeOnly bool) *importSet {
	return &importSet{
		typeOnly: typeOnly,
		names:    make(map[string]map[string]string),
	}
}

// Add records one exported name from an import path.
func (s *importSet) Add(path, name string) {
	s.AddAliased(path, name, name)
}

// AddAliased records one exported name imported under a local alias.
func (s *importSet) AddAliased(path, name, alias string) {
	if path == "" || name == "" {
		return
	}
	bindings, ok := s.names[path]
	if !ok {
		bindings = make(map[string]string)
		s.names[path] = bindings
	}
	bindings[name] = alias
}

// Render emits the import block followed by a blank line, or the empty
// string when nothing was added.
func (s *importSet) Render() string {
	if len(s.names) == 0 {
		return ""
	}

	paths := make([]string, 0, len(s.names))
	for path := range s.names {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	keyword := "import"
	if s.typeOnly {
		keyword = "import type"
	}

	var out strings.Builder
	for _, path := range paths {
		bindings := s.names[path]
		names := make([]string, 0, len(bindings))
		for name := range bindings {
			names = append(names, name)
		}
		sort.Strings(names)

		specifiers := make([]string, 0, len(names))
		for _, name := range names {
			if alias := bindings[name]; alias != name {
				specifiers = append(specifiers, fmt.Sprintf("%s as %s", name, alias))
			} else {
				specifiers = append(specifiers, name)
			}
		}
		out.WriteString(fmt.Sprintf("%s { %s } from %q;\n", keyword, strings.Join(specifiers, ", "), path))
	}
	out.WriteString("\n")
	return out.String()
}
