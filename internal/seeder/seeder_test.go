package seeder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qforge/qforge/internal/models"
)

func newTestSeeder(t *testing.T) (*Seeder, models.Layout) {
	t.Helper()
	layout, err := models.NewLayout(t.TempDir(), ".ts")
	require.NoError(t, err)
	return New(layout), layout
}

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestMaybeSeed_Query(t *testing.T) {
	s, layout := newTestSeeder(t)
	path := layout.OperationPath("users", models.KindQuery, "getUser")
	touch(t, path, "")

	seeded, err := s.MaybeSeed(path)
	require.NoError(t, err)
	assert.True(t, seeded)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(content)
	assert.Contains(t, body, `import { queryOptions } from "@tanstack/react-query";`)
	assert.Contains(t, body, `import { usersKeys } from "../queryKeys";`)
	assert.Contains(t, body, "export interface GetUserArgs {}")
	assert.Contains(t, body, "export const createQueryOptions = (args: GetUserArgs) =>")
	assert.Contains(t, body, "queryKey: usersKeys.getUser(args),")
}

func TestMaybeSeed_Mutation(t *testing.T) {
	s, layout := newTestSeeder(t)
	path := layout.OperationPath("users", models.KindMutation, "updateUser")
	touch(t, path, "")

	seeded, err := s.MaybeSeed(path)
	require.NoError(t, err)
	assert.True(t, seeded)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(content)
	assert.Contains(t, body, "export const createMutationOptions = ()")
	assert.Contains(t, body, "mutationKey: usersKeys.updateUser,")
	assert.Contains(t, body, "mutationFn: async (args: UpdateUserArgs)")
}

func TestMaybeSeed_PairedNameGainsKindSegment(t *testing.T) {
	s, layout := newTestSeeder(t)
	touch(t, layout.OperationPath("users", models.KindQuery, "profile"), "export const createQueryOptions = () => ({});\n")

	path := layout.OperationPath("users", models.KindMutation, "profile")
	touch(t, path, "")

	seeded, err := s.MaybeSeed(path)
	require.NoError(t, err)
	assert.True(t, seeded)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "mutationKey: usersKeys.profile.mutation,")
}

func TestMaybeSeed_BracketAccessorForNonIdentifierName(t *testing.T) {
	s, layout := newTestSeeder(t)
	path := layout.OperationPath("users", models.KindQuery, "user-profile")
	touch(t, path, "")

	seeded, err := s.MaybeSeed(path)
	require.NoError(t, err)
	assert.True(t, seeded)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `queryKey: usersKeys["user-profile"](args),`)
	assert.Contains(t, string(content), "export interface UserProfileArgs {}")
}

func TestMaybeSeed_NeverOverwritesUserContent(t *testing.T) {
	s, layout := newTestSeeder(t)
	path := layout.OperationPath("users", models.KindQuery, "getUser")
	touch(t, path, "export const createQueryOptions = () => ({ queryKey: [] });\n")

	seeded, err := s.MaybeSeed(path)
	require.NoError(t, err)
	assert.False(t, seeded)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export const createQueryOptions = () => ({ queryKey: [] });\n", string(content))
}

func TestMaybeSeed_WhitespaceOnlyCountsAsEmpty(t *testing.T) {
	s, layout := newTestSeeder(t)
	path := layout.OperationPath("users", models.KindQuery, "getUser")
	touch(t, path, "  \n\t\n")

	seeded, err := s.MaybeSeed(path)
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestMaybeSeed_SecondSeedIsANoOp(t *testing.T) {
	s, layout := newTestSeeder(t)
	path := layout.OperationPath("users", models.KindQuery, "getUser")
	touch(t, path, "")

	seeded, err := s.MaybeSeed(path)
	require.NoError(t, err)
	require.True(t, seeded)

	seeded, err = s.MaybeSeed(path)
	require.NoError(t, err)
	assert.False(t, seeded, "seeded boilerplate is not whitespace-empty")
}

func TestMaybeSeed_IgnoresNonOperationLocations(t *testing.T) {
	s, layout := newTestSeeder(t)

	t.Run("missing file", func(t *testing.T) {
		seeded, err := s.MaybeSeed(layout.OperationPath("users", models.KindQuery, "ghost"))
		require.NoError(t, err)
		assert.False(t, seeded)
	})

	t.Run("wrong depth", func(t *testing.T) {
		path := filepath.Join(layout.Root, "users", "helper.ts")
		touch(t, path, "")

		seeded, err := s.MaybeSeed(path)
		require.NoError(t, err)
		assert.False(t, seeded)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, content)
	})

	t.Run("unknown kind folder", func(t *testing.T) {
		path := filepath.Join(layout.Root, "users", "helpers", "util.ts")
		touch(t, path, "")

		seeded, err := s.MaybeSeed(path)
		require.NoError(t, err)
		assert.False(t, seeded)
	})
}
