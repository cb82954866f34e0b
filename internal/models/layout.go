package models

import (
	"path/filepath"
	"strings"
)

// Fixed names inside a scanned root. The extension is configurable but
// the folder and file stems are part of the generated contract.
const (
	QueriesFolder   = "queries"
	MutationsFolder = "mutations"
	KeysFileStem    = "queryKeys"
	RootKeysStem    = "keys"
	ManifestStem    = "index"
)

// excludedDirs are directory names never treated as namespaces.
var excludedDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
}

// IsNamespaceDir reports whether a directory name under the root counts
// as a namespace. Hidden and tooling directories are skipped.
func IsNamespaceDir(name string) bool {
	return name != "" && !strings.HasPrefix(name, ".") && !excludedDirs[name]
}

// Layout resolves every generated and user-owned path under one
// scanned root.
type Layout struct {
	Root string // absolute path of the scanned root
	Ext  string // source extension including the dot, e.g. ".ts"
}

// NewLayout builds a layout for the given root, resolving it to an
// absolute path.
func NewLayout(root, ext string) (Layout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, err
	}
	return Layout{Root: abs, Ext: ext}, nil
}

// ManifestPath returns the root manifest file path.
func (l Layout) ManifestPath() string {
	return filepath.Join(l.Root, ManifestStem+l.Ext)
}

// RootKeysPath returns the root key-table file path.
func (l Layout) RootKeysPath() string {
	return filepath.Join(l.Root, RootKeysStem+l.Ext)
}

// NamespaceKeysPath returns the key-table file path for a namespace.
func (l Layout) NamespaceKeysPath(namespace string) string {
	return filepath.Join(l.Root, namespace, KeysFileStem+l.Ext)
}

// NamespacePath returns the directory of a namespace.
func (l Layout) NamespacePath(namespace string) string {
	return filepath.Join(l.Root, namespace)
}

// KindPath returns the kind subfolder of a namespace.
func (l Layout) KindPath(namespace string, kind Kind) string {
	return filepath.Join(l.Root, namespace, kind.Folder())
}

// OperationPath returns the user-owned source file for an operation.
func (l Layout) OperationPath(namespace string, kind Kind, name string) string {
	return filepath.Join(l.KindPath(namespace, kind), name+l.Ext)
}

// Contains reports whether path lives under the scanned root.
func (l Layout) Contains(path string) bool {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// IsGeneratedArtifact reports whether path is one of the files qforge
// itself writes: the root manifest, the root key table, or any
// namespace key table. Change notifications for these are side effects
// of a prior pass and must never schedule a new one.
func (l Layout) IsGeneratedArtifact(path string) bool {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	segments := strings.Split(filepath.ToSlash(rel), "/")
	switch len(segments) {
	case 1:
		return segments[0] == ManifestStem+l.Ext || segments[0] == RootKeysStem+l.Ext
	case 2:
		return segments[1] == KeysFileStem+l.Ext
	}
	return false
}

// SplitOperationPath decomposes a path into its namespace, kind, and
// operation name. It returns false unless the path sits exactly three
// segments under the root as <namespace>/<kind-folder>/<name><ext>.
func (l Layout) SplitOperationPath(path string) (namespace string, kind Kind, name string, ok bool) {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", 0, "", false
	}
	segments := strings.Split(filepath.ToSlash(rel), "/")
	if len(segments) != 3 {
		return "", 0, "", false
	}
	switch segments[1] {
	case QueriesFolder:
		kind = KindQuery
	case MutationsFolder:
		kind = KindMutation
	default:
		return "", 0, "", false
	}
	if !strings.HasSuffix(segments[2], l.Ext) {
		return "", 0, "", false
	}
	name = strings.TrimSuffix(segments[2], l.Ext)
	if name == "" {
		return "", 0, "", false
	}
	return segments[0], kind, name, true
}
