package walker

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/qforge/qforge/internal/extractor"
	"github.com/qforge/qforge/internal/models"
	"github.com/qforge/qforge/internal/utils"
)

// Walker enumerates a scanned root and assembles the tree snapshot one
// regeneration pass works from. Every pass re-derives the whole model
// from disk; nothing is cached across passes.
type Walker struct {
	layout   models.Layout
	reporter extractor.Reporter
}

// New creates a walker for the given layout. Diagnostics for individual
// files flow through the reporter; they never abort a walk.
func New(layout models.Layout, reporter extractor.Reporter) *Walker {
	return &Walker{layout: layout, reporter: reporter}
}

// Walk scans the root and returns the full ordered tree snapshot.
// A missing root yields an empty tree.
func (w *Walker) Walk(ctx context.Context) (*models.Tree, error) {
	tree := &models.Tree{Root: w.layout.Root}

	entries, err := os.ReadDir(w.layout.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return tree, nil
		}
		return nil, utils.WrapScanError(w.layout.Root, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !models.IsNamespaceDir(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}

	// Namespaces are independent; extract them concurrently. Each
	// goroutine owns its extractor since tree-sitter parsers are not
	// safe for concurrent use.
	results := make([]*models.NamespaceModel, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			model, err := w.walkNamespace(gctx, name)
			if err != nil {
				return err
			}
			results[i] = model
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tree.Namespaces = results
	tree.Sort()
	return tree, nil
}

// walkNamespace scans one namespace's kind folders and builds its model.
func (w *Walker) walkNamespace(ctx context.Context, namespace string) (*models.NamespaceModel, error) {
	model := models.NewNamespaceModel(namespace, w.layout.NamespacePath(namespace))
	ext := extractor.New(w.reporter)

	for _, kind := range []models.Kind{models.KindQuery, models.KindMutation} {
		dir := w.layout.KindPath(namespace, kind)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue // missing kind folder is empty, not an error
			}
			return nil, utils.WrapScanError(dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !w.qualifies(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			src, err := os.ReadFile(path)
			if err != nil {
				// A file vanishing mid-pass is not fatal; the next
				// pass re-derives the model anyway.
				w.reporter.ReportParseError(path, 0, 0, err.Error())
				continue
			}

			extraction := ext.Extract(ctx, path, src, kind)
			if extraction == nil {
				continue
			}

			descriptor := w.describe(namespace, kind, entry.Name(), path, extraction)
			if err := model.Insert(descriptor); err != nil {
				return nil, err
			}
		}
	}

	return model, nil
}

// qualifies filters directory entries down to operation source files.
func (w *Walker) qualifies(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	if !strings.HasSuffix(name, w.layout.Ext) {
		return false
	}
	// Declaration files carry types, never factories.
	return !strings.HasSuffix(name, ".d"+w.layout.Ext)
}

// describe turns an extraction into a full operation descriptor.
func (w *Walker) describe(namespace string, kind models.Kind, fileName, path string, x *extractor.Extraction) *models.OperationDescriptor {
	stem := strings.TrimSuffix(fileName, w.layout.Ext)
	name := stem
	if x.NameOverride != "" {
		name = x.NameOverride
	}

	d := &models.OperationDescriptor{
		Kind:        kind,
		Namespace:   namespace,
		Name:        name,
		FileStem:    stem,
		SourcePath:  path,
		FactoryName: x.FactoryName,
		Alias:       generatedAlias(namespace, stem, kind),
	}
	if kind == models.KindQuery {
		d.ArgName = x.ParamName
		d.ArgTypeName = x.ArgsType
		d.HasArg = x.HasParam
	}
	return d
}

// generatedAlias derives the deterministic re-export identifier for a
// factory from its namespace, file stem, and kind.
func generatedAlias(namespace, stem string, kind models.Kind) string {
	suffix := "Query"
	if kind == models.KindMutation {
		suffix = "Mutation"
	}
	return utils.Camel(namespace) + utils.Pascal(stem) + suffix
}
