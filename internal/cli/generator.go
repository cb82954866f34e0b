package cli

import (
	"context"
	"sync"

	"github.com/qforge/qforge/internal/models"
	"github.com/qforge/qforge/internal/renderer"
	"github.com/qforge/qforge/internal/utils"
	"github.com/qforge/qforge/internal/walker"
	"github.com/qforge/qforge/internal/writer"
)

// Summary aggregates what one regeneration pass found and did.
type Summary struct {
	Namespaces     int
	Queries        int
	Mutations      int
	FilesWritten   int
	FilesUnchanged int
	ParseIssues    int
}

// Generator drives one full regeneration pass: ensure base structure,
// walk the tree, render every artifact, and write only what changed.
// It also implements the scheduler's PassRunner.
type Generator struct {
	layout   models.Layout
	diag     *utils.DiagnosticSystem
	walker   *walker.Walker
	renderer *renderer.Renderer
	writer   *writer.Writer

	mu      sync.Mutex
	summary Summary
}

// NewGenerator creates a pass generator for one scanned root.
func NewGenerator(layout models.Layout, diag *utils.DiagnosticSystem) *Generator {
	g := &Generator{
		layout:   layout,
		diag:     diag,
		renderer: renderer.New(),
		writer:   writer.New(layout),
	}
	g.walker = walker.New(layout, g)
	return g
}

// ReportParseError implements extractor.Reporter. A broken file is an
// advisory diagnostic, never a pass failure.
func (g *Generator) ReportParseError(file string, line, column int, detail string) {
	if line > 0 {
		g.diag.Warn("%s:%d:%d: %s", file, line, column, detail)
	} else {
		g.diag.Warn("%s: %s", file, detail)
	}
	g.mu.Lock()
	g.summary.ParseIssues++
	g.mu.Unlock()
}

// RunPass executes one complete recompute-and-rewrite cycle from the
// current state of the file tree.
func (g *Generator) RunPass(ctx context.Context) error {
	g.mu.Lock()
	g.summary = Summary{}
	g.mu.Unlock()

	if err := g.writer.EnsureBaseStructure(); err != nil {
		return err
	}

	tree, err := g.walker.Walk(ctx)
	if err != nil {
		return err
	}

	for _, ns := range tree.Namespaces {
		content := g.renderer.NamespaceKeys(ns)
		if err := g.write(g.layout.NamespaceKeysPath(ns.Name), content); err != nil {
			return err
		}
	}

	rootKeys, err := g.renderer.RootKeys(tree)
	if err != nil {
		return err
	}
	if err := g.write(g.layout.RootKeysPath(), rootKeys); err != nil {
		return err
	}

	manifest, err := g.renderer.Manifest(tree)
	if err != nil {
		return err
	}
	if err := g.write(g.layout.ManifestPath(), manifest); err != nil {
		return err
	}

	g.count(tree)
	return nil
}

// write delegates to the writer and tracks the outcome in the summary.
func (g *Generator) write(path, content string) error {
	wrote, err := g.writer.WriteIfChanged(path, []byte(content))
	if err != nil {
		return err
	}
	g.mu.Lock()
	if wrote {
		g.summary.FilesWritten++
	} else {
		g.summary.FilesUnchanged++
	}
	g.mu.Unlock()
	if wrote {
		g.diag.Verbose("wrote %s", path)
	}
	return nil
}

// count fills the discovery statistics of the summary.
func (g *Generator) count(tree *models.Tree) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.summary.Namespaces = len(tree.Namespaces)
	for _, ns := range tree.Namespaces {
		for _, bucket := range ns.SortedBuckets() {
			if bucket.Query != nil {
				g.summary.Queries++
			}
			if bucket.Mutation != nil {
				g.summary.Mutations++
			}
		}
	}
}

// Summary returns the statistics of the most recent pass.
func (g *Generator) Summary() Summary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.summary
}
