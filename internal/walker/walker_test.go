package walker

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qforge/qforge/internal/models"
)

type collectingReporter struct {
	mu      sync.Mutex
	reports []string
}

func (r *collectingReporter) ReportParseError(file string, line, column int, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, file)
}

func (r *collectingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

func newTestLayout(t *testing.T) models.Layout {
	t.Helper()
	layout, err := models.NewLayout(t.TempDir(), ".ts")
	require.NoError(t, err)
	return layout
}

func writeOperation(t *testing.T, layout models.Layout, namespace string, kind models.Kind, name, src string) {
	t.Helper()
	path := layout.OperationPath(namespace, kind, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

const querySrc = `export const createQueryOptions = (args: GetArgs) => ({ queryKey: ["x", args] });
export interface GetArgs { id: string }
`

const mutationSrc = `export const createMutationOptions = () => ({ mutationKey: ["x"] });
`

func TestWalk_MissingRootYieldsEmptyTree(t *testing.T) {
	layout, err := models.NewLayout(filepath.Join(t.TempDir(), "does-not-exist"), ".ts")
	require.NoError(t, err)

	tree, err := New(layout, &collectingReporter{}).Walk(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tree.Namespaces)
}

func TestWalk_NamespacesAreSorted(t *testing.T) {
	layout := newTestLayout(t)
	for _, ns := range []string{"users", "audit", "billing"} {
		writeOperation(t, layout, ns, models.KindQuery, "list", querySrc)
	}

	tree, err := New(layout, &collectingReporter{}).Walk(context.Background())
	require.NoError(t, err)
	require.Len(t, tree.Namespaces, 3)
	assert.Equal(t, "audit", tree.Namespaces[0].Name)
	assert.Equal(t, "billing", tree.Namespaces[1].Name)
	assert.Equal(t, "users", tree.Namespaces[2].Name)
}

func TestWalk_SameNameMergesIntoOneBucket(t *testing.T) {
	layout := newTestLayout(t)
	writeOperation(t, layout, "users", models.KindQuery, "profile", querySrc)
	writeOperation(t, layout, "users", models.KindMutation, "profile", mutationSrc)

	tree, err := New(layout, &collectingReporter{}).Walk(context.Background())
	require.NoError(t, err)
	require.Len(t, tree.Namespaces, 1)

	buckets := tree.Namespaces[0].SortedBuckets()
	require.Len(t, buckets, 1)
	require.True(t, buckets[0].Dual())
	assert.Equal(t, "usersProfileQuery", buckets[0].Query.Alias)
	assert.Equal(t, "usersProfileMutation", buckets[0].Mutation.Alias)
}

func TestWalk_MissingKindFolderIsEmpty(t *testing.T) {
	layout := newTestLayout(t)
	writeOperation(t, layout, "users", models.KindMutation, "update", mutationSrc)

	tree, err := New(layout, &collectingReporter{}).Walk(context.Background())
	require.NoError(t, err)
	require.Len(t, tree.Namespaces, 1)

	buckets := tree.Namespaces[0].SortedBuckets()
	require.Len(t, buckets, 1)
	assert.Nil(t, buckets[0].Query)
	assert.NotNil(t, buckets[0].Mutation)
}

func TestWalk_SkipsNonSourceEntries(t *testing.T) {
	layout := newTestLayout(t)
	writeOperation(t, layout, "users", models.KindQuery, "get", querySrc)

	dir := layout.KindPath("users", models.KindQuery)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.ts"), []byte(querySrc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types.d.ts"), []byte("export interface GetArgs {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# notes\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))

	// Excluded and hidden directories under the root are not namespaces.
	require.NoError(t, os.MkdirAll(filepath.Join(layout.Root, "node_modules", "pkg"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(layout.Root, ".cache"), 0o755))

	tree, err := New(layout, &collectingReporter{}).Walk(context.Background())
	require.NoError(t, err)
	require.Len(t, tree.Namespaces, 1)
	assert.Equal(t, "users", tree.Namespaces[0].Name)
	assert.Len(t, tree.Namespaces[0].SortedBuckets(), 1)
}

func TestWalk_BrokenFileDoesNotAbortTheNamespace(t *testing.T) {
	layout := newTestLayout(t)
	writeOperation(t, layout, "users", models.KindQuery, "broken", "export const createQueryOptions = ((( =>\n")
	writeOperation(t, layout, "users", models.KindQuery, "good", querySrc)

	reporter := &collectingReporter{}
	tree, err := New(layout, reporter).Walk(context.Background())
	require.NoError(t, err)

	buckets := tree.Namespaces[0].SortedBuckets()
	require.Len(t, buckets, 1, "broken file is excluded, good one survives")
	assert.Equal(t, "good", buckets[0].Name)
	assert.Equal(t, 1, reporter.count())
}

func TestWalk_NameOverrideReplacesFileStem(t *testing.T) {
	layout := newTestLayout(t)
	src := "// qforge::name profile\n" + querySrc
	writeOperation(t, layout, "users", models.KindQuery, "get-user-profile", src)

	tree, err := New(layout, &collectingReporter{}).Walk(context.Background())
	require.NoError(t, err)

	buckets := tree.Namespaces[0].SortedBuckets()
	require.Len(t, buckets, 1)
	assert.Equal(t, "profile", buckets[0].Name)
	// The import path and alias still come from the real file stem.
	assert.Equal(t, "get-user-profile", buckets[0].Query.FileStem)
	assert.Equal(t, "usersGetUserProfileQuery", buckets[0].Query.Alias)
}

func TestWalk_DuplicateNameIsAnError(t *testing.T) {
	layout := newTestLayout(t)
	writeOperation(t, layout, "users", models.KindQuery, "profile", querySrc)
	writeOperation(t, layout, "users", models.KindQuery, "other", "// qforge::name profile\n"+querySrc)

	_, err := New(layout, &collectingReporter{}).Walk(context.Background())
	require.Error(t, err)

	var genErr *models.GeneratorError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, models.ErrorTypeValidation, genErr.Type)
}
