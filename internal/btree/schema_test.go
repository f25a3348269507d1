package btree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/sqlens/internal/fixture"
)

func TestReadSchema(t *testing.T) {
	t.Parallel()

	f := openFixture(t, fixture.LeafNodes)
	entries, err := ReadSchema(f)
	require.NoError(t, err)

	byName := make(map[string]SchemaEntry)
	for _, e := range entries {
		byName[e.Name] = e
	}

	stars, ok := byName["stars"]
	require.True(t, ok)
	require.Equal(t, "table", stars.Type)
	require.Equal(t, "stars", stars.TableName)
	require.GreaterOrEqual(t, stars.RootPage, 2)
	require.Contains(t, stars.SQL, "CREATE TABLE stars")

	idx, ok := byName["idx_stars_name"]
	require.True(t, ok)
	require.Equal(t, "index", idx.Type)
	require.Equal(t, "stars", idx.TableName)
}

func TestTrees_SchemaFirst(t *testing.T) {
	t.Parallel()

	f := openFixture(t, fixture.LeafNodes)
	trees, err := Trees(f)
	require.NoError(t, err)

	require.Equal(t, SchemaName, trees[0].Name)
	require.Equal(t, SchemaRootPage, trees[0].Root.PageNumber)

	names := make([]string, 0, len(trees))
	for _, tr := range trees {
		names = append(names, tr.Name)
		require.NoError(t, tr.Root.Err)
	}
	require.Contains(t, names, "stars")
	require.Contains(t, names, "spaceships")
	require.Contains(t, names, "idx_stars_name")
	require.Contains(t, names, "idx_spaceships_name")
}

func TestLookup_Unknown(t *testing.T) {
	t.Parallel()

	f := openFixture(t, fixture.Simple)
	_, err := Lookup(f, "nope")
	require.ErrorIs(t, err, ErrNotATree)
}

func TestLookup_SchemaAliases(t *testing.T) {
	t.Parallel()

	f := openFixture(t, fixture.Simple)
	for _, name := range []string{"sqlite_schema", "sqlite_master"} {
		tree, err := Lookup(f, name)
		require.NoError(t, err)
		require.Equal(t, SchemaRootPage, tree.Root.PageNumber)
	}
}
