package renderer

import (
	"fmt"
	"strings"

	"github.com/qforge/qforge/internal/models"
	"github.com/qforge/qforge/internal/utils"
)

// header goes at the top of every generated file.
const header = "// Code generated by qforge. DO NOT EDIT.\n\n"

// Exported binding names of the root artifacts.
const (
	ManifestExport = "api"
	RootKeysExport = "apiKeys"
)

// Renderer turns tree snapshots into the generated artifact bodies.
// It is a pure function of its input: identical trees render to
// byte-identical text regardless of file-system enumeration order.
type Renderer struct{}

// New creates a renderer.
func New() *Renderer {
	return &Renderer{}
}

// KeysExportName returns the exported binding name of a namespace's key
// table, e.g. "usersKeys" for namespace "users".
func KeysExportName(namespace string) string {
	return utils.Camel(namespace) + "Keys"
}

// NamespaceKeys renders the key table for one namespace.
func (r *Renderer) NamespaceKeys(ns *models.NamespaceModel) string {
	imports := newImportSet(true)
	for _, bucket := range ns.SortedBuckets() {
		q := bucket.Query
		if q != nil && q.HasArg && q.ArgTypeName != "" {
			imports.Add("./"+q.Kind.Folder()+"/"+q.FileStem, q.ArgTypeName)
		}
	}

	var body strings.Builder
	body.WriteString(fmt.Sprintf("export const %s = {\n", KeysExportName(ns.Name)))
	for _, bucket := range ns.SortedBuckets() {
		if bucket.Dual() {
			body.WriteString(fmt.Sprintf("  %s: {\n", objectKey(bucket.Name)))
			body.WriteString("    query: " + keyEntry(bucket.Query, true) + ",\n")
			body.WriteString("    mutation: " + keyEntry(bucket.Mutation, true) + ",\n")
			body.WriteString("  },\n")
		} else {
			single := bucket.Single()
			body.WriteString(fmt.Sprintf("  %s: %s,\n", objectKey(bucket.Name), keyEntry(single, false)))
		}
	}
	body.WriteString("} as const;\n")

	return header + imports.Render() + body.String()
}

// keyEntry renders one accessor of a key table. Write accessors are
// always fixed tuples; Read accessors become functions when the factory
// declares a parameter, embedding it as the trailing tuple segment.
// The kind segment is injected only for dual-kind names, where the two
// tuples would otherwise be ambiguous.
func keyEntry(d *models.OperationDescriptor, dual bool) string {
	segments := []string{
		fmt.Sprintf("%q", d.Namespace),
		fmt.Sprintf("%q", d.Name),
	}
	if dual {
		segments = append(segments, fmt.Sprintf("%q", d.Kind.String()))
	}

	if d.Kind == models.KindQuery && d.HasArg {
		argType := d.ArgTypeName
		if argType == "" {
			argType = "unknown"
		}
		segments = append(segments, d.ArgName)
		return fmt.Sprintf("(%s: %s) => [%s] as const", d.ArgName, argType, strings.Join(segments, ", "))
	}
	return fmt.Sprintf("[%s] as const", strings.Join(segments, ", "))
}

// RootKeys renders the root key table re-exporting every namespace's
// table under one object.
func (r *Renderer) RootKeys(tree *models.Tree) (string, error) {
	imports := newImportSet(false)
	bindings := make(map[string]string) // binding -> namespace

	for _, ns := range tree.Namespaces {
		binding := KeysExportName(ns.Name)
		if previous, ok := bindings[binding]; ok {
			return "", &models.GeneratorError{
				Type:    models.ErrorTypeRender,
				Message: fmt.Sprintf("namespaces %q and %q both derive key-table binding %q", previous, ns.Name, binding),
			}
		}
		bindings[binding] = ns.Name
		imports.Add("./"+ns.Name+"/"+models.KeysFileStem, binding)
	}

	var body strings.Builder
	body.WriteString(fmt.Sprintf("export const %s = {\n", RootKeysExport))
	for _, ns := range tree.Namespaces {
		body.WriteString(fmt.Sprintf("  %s: %s,\n", objectKey(ns.Name), KeysExportName(ns.Name)))
	}
	body.WriteString("} as const;\n")

	return header + imports.Render() + body.String(), nil
}

// Manifest renders the root manifest importing every discovered factory
// under its collision-free alias and re-exporting the full nested
// namespace/operation object.
func (r *Renderer) Manifest(tree *models.Tree) (string, error) {
	imports := newImportSet(false)
	aliases := make(map[string]string) // alias -> source path

	for _, ns := range tree.Namespaces {
		for _, bucket := range ns.SortedBuckets() {
			for _, d := range bucket.Descriptors() {
				if previous, ok := aliases[d.Alias]; ok {
					return "", &models.GeneratorError{
						Type:    models.ErrorTypeRender,
						File:    d.SourcePath,
						Message: fmt.Sprintf("generated alias %q collides with %s", d.Alias, previous),
					}
				}
				aliases[d.Alias] = d.SourcePath
				path := "./" + ns.Name + "/" + d.Kind.Folder() + "/" + d.FileStem
				imports.AddAliased(path, d.FactoryName, d.Alias)
			}
		}
	}

	var body strings.Builder
	body.WriteString(fmt.Sprintf("export const %s = {\n", ManifestExport))
	for _, ns := range tree.Namespaces {
		body.WriteString(fmt.Sprintf("  %s: {\n", objectKey(ns.Name)))
		for _, bucket := range ns.SortedBuckets() {
			if bucket.Dual() {
				body.WriteString(fmt.Sprintf("    %s: {\n", objectKey(bucket.Name)))
				body.WriteString(fmt.Sprintf("      query: %s,\n", bucket.Query.Alias))
				body.WriteString(fmt.Sprintf("      mutation: %s,\n", bucket.Mutation.Alias))
				body.WriteString("    },\n")
			} else {
				body.WriteString(fmt.Sprintf("    %s: %s,\n", objectKey(bucket.Name), bucket.Single().Alias))
			}
		}
		body.WriteString("  },\n")
	}
	body.WriteString("} as const;\n")

	return header + imports.Render() + body.String(), nil
}

// objectKey renders a name as an object literal key, quoting it when it
// is not a valid bare identifier.
func objectKey(name string) string {
	if utils.IsIdentifier(name) {
		return name
	}
	return fmt.Sprintf("%q", name)
}

// Accessor renders a property access on base, falling back to the
// bracket form for names that are not valid identifiers.
func Accessor(base, name string) string {
	if utils.IsIdentifier(name) {
		return base + "." + name
	}
	return fmt.Sprintf("%s[%q]", base, name)
}
