package page

import (
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/tuannm99/sqlens/internal/format"
)

// TrunkPage is one decoded freelist trunk: a pointer to the next trunk
// (0 terminates the chain), a leaf count, and that many leaf page
// numbers. Freelist leaf pages carry no content at all.
type TrunkPage struct {
	Number int
	Next   format.Field[int]
	// LeafCount is the number of leaf page entries on this trunk.
	LeafCount format.Field[int]
	Leaves    []format.Field[int]
	// Unallocated is the unused tail of the trunk page.
	Unallocated format.Span
}

// WalkFreelist lazily yields the freelist's trunk pages starting from
// the header's first trunk pointer. The walk always terminates: a
// trunk page seen twice yields ErrFreelistCycle, since the format
// offers no length guarantee independent of walking. A database with
// no freelist yields nothing.
func WalkFreelist(f *File) iter.Seq2[*TrunkPage, error] {
	return func(yield func(*TrunkPage, error) bool) {
		seen := make(map[int]bool)
		next := int(f.Header().FirstFreelistTrunk.Value)
		for next != 0 {
			if seen[next] {
				yield(nil, fmt.Errorf("%w: trunk %d", ErrFreelistCycle, next))
				return
			}
			seen[next] = true

			trunk, err := decodeTrunk(f, next)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(trunk, nil) {
				return
			}
			next = trunk.Next.Value
		}
	}
}

// FreePages collects every page number the freelist accounts for:
// each trunk page itself followed by its leaf pages, in walk order.
func FreePages(f *File) ([]int, error) {
	var pages []int
	for trunk, err := range WalkFreelist(f) {
		if err != nil {
			return pages, err
		}
		pages = append(pages, trunk.Number)
		for _, leaf := range trunk.Leaves {
			pages = append(pages, leaf.Value)
		}
	}
	return pages, nil
}

func decodeTrunk(f *File, pageNum int) (*TrunkPage, error) {
	data, err := f.PageData(pageNum)
	if err != nil {
		return nil, err
	}
	base := f.PageOffset(pageNum)

	leafCount := int(binary.BigEndian.Uint32(data[4:8]))
	if 8+4*leafCount > f.UsableSize() {
		return nil, fmt.Errorf("%w: trunk %d declares %d leaves", ErrFreelistTrunkOverflow, pageNum, leafCount)
	}

	trunk := &TrunkPage{
		Number:    pageNum,
		Next:      format.NewField(int(binary.BigEndian.Uint32(data[0:4])), base, 4),
		LeafCount: format.NewField(leafCount, base+4, 4),
	}
	for i := 0; i < leafCount; i++ {
		off := 8 + 4*i
		trunk.Leaves = append(trunk.Leaves,
			format.NewField(int(binary.BigEndian.Uint32(data[off:off+4])), base+off, 4))
	}
	end := 8 + 4*leafCount
	trunk.Unallocated = format.NewSpan(base+end, len(data)-end)
	return trunk, nil
}
