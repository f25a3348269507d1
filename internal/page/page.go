package page

import (
	"encoding/binary"
	"fmt"

	"github.com/tuannm99/sqlens/internal/format"
)

// Type is the b-tree page type discriminant, the page's leading byte.
// Overflow and freelist pages carry no type byte; they are identified
// by being referenced as such and are decoded by Resolve and
// WalkFreelist instead.
type Type uint8

const (
	IndexInterior Type = 2
	TableInterior Type = 5
	IndexLeaf     Type = 10
	TableLeaf     Type = 13
)

// IsInterior reports whether pages of this type carry child pointers.
func (t Type) IsInterior() bool { return t == IndexInterior || t == TableInterior }

// IsIndex reports whether pages of this type belong to an index b-tree.
func (t Type) IsIndex() bool { return t == IndexInterior || t == IndexLeaf }

func (t Type) String() string {
	switch t {
	case IndexInterior:
		return "index interior"
	case TableInterior:
		return "table interior"
	case IndexLeaf:
		return "index leaf"
	case TableLeaf:
		return "table leaf"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Header is the decoded b-tree page header: 8 bytes on leaf pages,
// 12 on interior pages (the extra 4 being the right-most child).
type Header struct {
	Type format.Field[Type]
	// FirstFreeblock is the page offset of the first freeblock in the
	// free-block linked list, 0 when there are none.
	FirstFreeblock format.Field[int]
	CellCount      format.Field[int]
	// ContentStart is the page offset of the cell content area; the
	// raw value 0 means 65536.
	ContentStart        format.Field[int]
	FragmentedFreeBytes format.Field[uint8]
	// RightMostChild is present on interior pages only.
	RightMostChild *format.Field[int]
}

// Size is the header's byte length, 8 or 12.
func (h *Header) Size() int {
	if h.RightMostChild != nil {
		return 12
	}
	return 8
}

// CellSlot is one entry of the cell pointer array together with its
// decode outcome. A cell whose bytes cannot be decoded leaves Cell nil
// and Err set; a cell whose payload decoded but whose record did not
// keeps the cell, with a nil Record, next to Err. Sibling slots are
// unaffected either way.
type CellSlot struct {
	// Ptr is the 2-byte pointer array entry; its value is the cell's
	// offset from the page start.
	Ptr  format.Field[int]
	Cell Cell
	Err  error
}

// Page is one decoded b-tree page. Spans are absolute file offsets.
type Page struct {
	Number int
	// Offset is the absolute file offset of the page's first byte.
	Offset int
	// HeaderOffset is where the b-tree header starts within the page:
	// 100 on page 1 (after the database header), 0 elsewhere.
	HeaderOffset int
	Header       Header
	// Cells are in pointer-array order, which for leaf pages is key
	// order regardless of where each cell physically sits.
	Cells []CellSlot
	// Unallocated is the gap between the pointer array and the cell
	// content area.
	Unallocated format.Span
}

// Type is a shorthand for the header's page type.
func (p *Page) Type() Type { return p.Header.Type.Value }

// DecodeErrors returns the per-cell failures, if any.
func (p *Page) DecodeErrors() []error {
	var errs []error
	for _, slot := range p.Cells {
		if slot.Err != nil {
			errs = append(errs, slot.Err)
		}
	}
	return errs
}

// Decode classifies and decodes the b-tree page with the given 1-based
// number. Individual cell failures are recorded in their slots rather
// than aborting the page.
func Decode(f *File, pageNum int) (*Page, error) {
	data, err := f.PageData(pageNum)
	if err != nil {
		return nil, err
	}

	base := f.PageOffset(pageNum)
	headerOff := 0
	if pageNum == 1 {
		headerOff = format.HeaderSize
	}

	header, err := decodeHeader(data, base, headerOff)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNum, err)
	}

	p := &Page{
		Number:       pageNum,
		Offset:       base,
		HeaderOffset: headerOff,
		Header:       header,
	}

	ptrOff := headerOff + header.Size()
	ptrEnd := ptrOff + 2*header.CellCount.Value
	if ptrEnd > len(data) {
		return nil, fmt.Errorf("page %d: pointer array of %d cells: %w",
			pageNum, header.CellCount.Value, ErrCellOverrun)
	}

	for i := 0; i < header.CellCount.Value; i++ {
		off := ptrOff + 2*i
		cellOff := int(binary.BigEndian.Uint16(data[off : off+2]))
		slot := CellSlot{Ptr: format.NewField(cellOff, base+off, 2)}
		if cellOff >= len(data) || cellOff < headerOff+header.Size() {
			slot.Err = fmt.Errorf("cell %d points at %d: %w", i, cellOff, ErrCellOverrun)
		} else {
			slot.Cell, slot.Err = decodeCell(f, data, base, cellOff, header.Type.Value)
		}
		p.Cells = append(p.Cells, slot)
	}

	// The unallocated gap sits between the pointer array and the cell
	// content area; kept as a span so free regions can be rendered
	// distinctly from payload.
	if gap := header.ContentStart.Value - ptrEnd; gap > 0 && header.ContentStart.Value <= len(data) {
		p.Unallocated = format.NewSpan(base+ptrEnd, gap)
	} else {
		p.Unallocated = format.NewSpan(base+ptrEnd, 0)
	}
	return p, nil
}

func decodeHeader(data []byte, base, off int) (Header, error) {
	if off+12 > len(data) {
		return Header{}, fmt.Errorf("b-tree header at %d: %w", off, ErrCellOverrun)
	}

	typ := Type(data[off])
	switch typ {
	case IndexInterior, TableInterior, IndexLeaf, TableLeaf:
	default:
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownPageType, data[off])
	}

	contentStart := int(binary.BigEndian.Uint16(data[off+5 : off+7]))
	if contentStart == 0 {
		contentStart = 65536
	}

	h := Header{
		Type:                format.NewField(typ, base+off, 1),
		FirstFreeblock:      format.NewField(int(binary.BigEndian.Uint16(data[off+1:off+3])), base+off+1, 2),
		CellCount:           format.NewField(int(binary.BigEndian.Uint16(data[off+3:off+5])), base+off+3, 2),
		ContentStart:        format.NewField(contentStart, base+off+5, 2),
		FragmentedFreeBytes: format.NewField(data[off+7], base+off+7, 1),
	}
	if typ.IsInterior() {
		right := format.NewField(int(binary.BigEndian.Uint32(data[off+8:off+12])), base+off+8, 4)
		h.RightMostChild = &right
	}
	return h, nil
}
