package models

import (
	"fmt"
	"sort"
)

// Kind distinguishes the two operation flavors a namespace can contain.
type Kind int

const (
	KindQuery Kind = iota
	KindMutation
)

// String returns the literal key segment used for dual-kind entries.
func (k Kind) String() string {
	if k == KindMutation {
		return "mutation"
	}
	return "query"
}

// Folder returns the namespace subfolder holding files of this kind.
func (k Kind) Folder() string {
	if k == KindMutation {
		return MutationsFolder
	}
	return QueriesFolder
}

// CanonicalFactoryName returns the preferred exported binding name for
// operation files of this kind.
func (k Kind) CanonicalFactoryName() string {
	if k == KindMutation {
		return "createMutationOptions"
	}
	return "createQueryOptions"
}

// OperationDescriptor is the extracted structural metadata for one
// discovered operation file.
type OperationDescriptor struct {
	Kind        Kind
	Namespace   string // top-level directory name
	Name        string // operation name: file base name, after any directive override
	FileStem    string // file base name without extension, never overridden
	SourcePath  string // absolute path of the defining file
	FactoryName string // exported binding recognized as the factory
	Alias       string // collision-free re-export identifier for the manifest
	ArgName     string // first parameter name (query kind only)
	ArgTypeName string // exported *Args type used for the parameter, if any
	HasArg      bool   // true iff a first parameter exists
}

// OperationBucket pairs at most one query and one mutation descriptor
// sharing the same operation name within a namespace.
type OperationBucket struct {
	Name     string
	Query    *OperationDescriptor
	Mutation *OperationDescriptor
}

// Dual reports whether both kinds are present under this name.
func (b *OperationBucket) Dual() bool {
	return b.Query != nil && b.Mutation != nil
}

// Single returns the only descriptor of a single-kind bucket.
// Callers must check Dual first.
func (b *OperationBucket) Single() *OperationDescriptor {
	if b.Query != nil {
		return b.Query
	}
	return b.Mutation
}

// Descriptors returns the bucket's descriptors, query first.
func (b *OperationBucket) Descriptors() []*OperationDescriptor {
	var out []*OperationDescriptor
	if b.Query != nil {
		out = append(out, b.Query)
	}
	if b.Mutation != nil {
		out = append(out, b.Mutation)
	}
	return out
}

// NamespaceModel is the assembled view of one namespace directory.
type NamespaceModel struct {
	Name       string
	Path       string
	Operations map[string]*OperationBucket
}

// NewNamespaceModel creates an empty model for the given namespace.
func NewNamespaceModel(name, path string) *NamespaceModel {
	return &NamespaceModel{
		Name:       name,
		Path:       path,
		Operations: make(map[string]*OperationBucket),
	}
}

// Insert files a descriptor into the bucket keyed by its operation name,
// merging with an existing entry of the other kind. Two descriptors of
// the same kind mapping to one name (possible through a qforge::name
// override) are a hard error rather than a silent overwrite.
func (m *NamespaceModel) Insert(d *OperationDescriptor) error {
	bucket, ok := m.Operations[d.Name]
	if !ok {
		bucket = &OperationBucket{Name: d.Name}
		m.Operations[d.Name] = bucket
	}
	if d.Kind == KindMutation {
		if bucket.Mutation != nil {
			return &GeneratorError{
				Type:    ErrorTypeValidation,
				File:    d.SourcePath,
				Message: fmt.Sprintf("duplicate mutation name %q in namespace %q (already defined by %s)", d.Name, m.Name, bucket.Mutation.SourcePath),
			}
		}
		bucket.Mutation = d
	} else {
		if bucket.Query != nil {
			return &GeneratorError{
				Type:    ErrorTypeValidation,
				File:    d.SourcePath,
				Message: fmt.Sprintf("duplicate query name %q in namespace %q (already defined by %s)", d.Name, m.Name, bucket.Query.SourcePath),
			}
		}
		bucket.Query = d
	}
	return nil
}

// SortedBuckets returns the namespace's buckets in ascending name order.
// This ordering is what makes rendered output deterministic.
func (m *NamespaceModel) SortedBuckets() []*OperationBucket {
	names := make([]string, 0, len(m.Operations))
	for name := range m.Operations {
		names = append(names, name)
	}
	sort.Strings(names)

	buckets := make([]*OperationBucket, 0, len(names))
	for _, name := range names {
		buckets = append(buckets, m.Operations[name])
	}
	return buckets
}

// Tree is one full snapshot of the scanned root, recomputed wholesale
// on every regeneration pass.
type Tree struct {
	Root       string
	Namespaces []*NamespaceModel
}

// Sort orders namespaces lexicographically by name.
func (t *Tree) Sort() {
	sort.Slice(t.Namespaces, func(i, j int) bool {
		return t.Namespaces[i].Name < t.Namespaces[j].Name
	})
}
