package page

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/sqlens/internal/fixture"
)

func TestWalkFreelist_Empty(t *testing.T) {
	t.Parallel()

	f := openFixture(t, fixture.Simple)
	require.Zero(t, f.Header().FirstFreelistTrunk.Value)

	pages, err := FreePages(f)
	require.NoError(t, err)
	require.Empty(t, pages)
}

func TestWalkFreelist_CountsMatchHeader(t *testing.T) {
	t.Parallel()

	f := openFixture(t, fixture.FreelistPage)
	h := f.Header()
	require.NotZero(t, h.FirstFreelistTrunk.Value, "fixture should have freed pages")

	pages, err := FreePages(f)
	require.NoError(t, err)
	require.Len(t, pages, int(h.FreelistPageCount.Value))

	seen := make(map[int]bool)
	for _, n := range pages {
		require.False(t, seen[n], "page %d listed twice", n)
		seen[n] = true
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, f.PageCount())
	}
}

func TestWalkFreelist_TrunkShape(t *testing.T) {
	t.Parallel()

	f := openFixture(t, fixture.FreelistPage)
	for trunk, err := range WalkFreelist(f) {
		require.NoError(t, err)
		require.Equal(t, trunk.LeafCount.Value, len(trunk.Leaves))
		require.Equal(t, f.PageOffset(trunk.Number), trunk.Next.Span.Start)
		require.Equal(t, 4, trunk.LeafCount.Span.Len)
	}
}

func TestWalkFreelist_CycleDetected(t *testing.T) {
	t.Parallel()

	data, err := fixture.FreelistPage(t.TempDir())
	require.NoError(t, err)
	f, err := NewFile(data)
	require.NoError(t, err)

	// Point the first trunk's next pointer back at itself.
	first := int(f.Header().FirstFreelistTrunk.Value)
	binary.BigEndian.PutUint32(data[f.PageOffset(first):], uint32(first))

	_, err = FreePages(f)
	require.ErrorIs(t, err, ErrFreelistCycle)
}

func TestWalkFreelist_LazyStop(t *testing.T) {
	t.Parallel()

	f := openFixture(t, fixture.FreelistPage)
	visited := 0
	for _, err := range WalkFreelist(f) {
		require.NoError(t, err)
		visited++
		break
	}
	require.Equal(t, 1, visited)
}
