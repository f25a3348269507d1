package page

import (
	"encoding/binary"
	"fmt"

	"github.com/tuannm99/sqlens/internal/format"
)

// OverflowPage is one decoded link of an overflow chain. The first
// four bytes point at the next page (0 terminates the chain); the rest
// of the usable space holds payload content.
type OverflowPage struct {
	Number int
	Next   format.Field[int]
	// Content is the absolute span of payload bytes used on this page.
	Content format.Span
}

// ResolvedOverflow is a fully walked overflow chain.
type ResolvedOverflow struct {
	Pages []OverflowPage
	// Bytes is the concatenated spilled payload, exactly the length
	// requested from Resolve.
	Bytes []byte
}

// Resolve walks the overflow chain starting at page head until
// remaining payload bytes have been collected. The chain terminating
// early is ErrBrokenOverflowChain; a link outside the file is
// ErrOverflowPageOutOfRange.
func Resolve(f *File, head int, remaining int64) (*ResolvedOverflow, error) {
	res := &ResolvedOverflow{Bytes: make([]byte, 0, remaining)}
	contentPerPage := f.UsableSize() - 4

	next := head
	for remaining > 0 {
		if next == 0 {
			return nil, fmt.Errorf("%w: %d bytes missing after %d pages",
				ErrBrokenOverflowChain, remaining, len(res.Pages))
		}
		if next < 1 || next > f.PageCount() {
			return nil, fmt.Errorf("%w: %d of %d", ErrOverflowPageOutOfRange, next, f.PageCount())
		}
		data, err := f.PageData(next)
		if err != nil {
			return nil, err
		}

		base := f.PageOffset(next)
		chunk := int64(contentPerPage)
		if chunk > remaining {
			chunk = remaining
		}
		op := OverflowPage{
			Number:  next,
			Next:    format.NewField(int(binary.BigEndian.Uint32(data[0:4])), base, 4),
			Content: format.NewSpan(base+4, int(chunk)),
		}
		res.Pages = append(res.Pages, op)
		res.Bytes = append(res.Bytes, data[4:4+chunk]...)
		remaining -= chunk
		next = op.Next.Value
	}
	return res, nil
}
