package page

import (
	"encoding/binary"
	"fmt"

	"github.com/tuannm99/sqlens/internal/format"
)

// Cell is one of the four b-tree cell shapes. All spans are absolute
// file offsets.
type Cell interface {
	// Kind is the page type the cell belongs to.
	Kind() Type
}

// TableInteriorCell routes row keys to a child subtree. It carries no
// payload.
type TableInteriorCell struct {
	LeftChild format.Field[int]
	RowID     format.Field[int64]
}

func (*TableInteriorCell) Kind() Type { return TableInterior }

// TableLeafCell is one table row: the row key plus a record payload.
type TableLeafCell struct {
	PayloadLen format.Field[int64]
	RowID      format.Field[int64]
	Payload    Payload
	Record     *format.Record
}

func (*TableLeafCell) Kind() Type { return TableLeaf }

// IndexInteriorCell carries an index key tuple and a left child.
type IndexInteriorCell struct {
	LeftChild  format.Field[int]
	PayloadLen format.Field[int64]
	Payload    Payload
	Record     *format.Record
}

func (*IndexInteriorCell) Kind() Type { return IndexInterior }

// IndexLeafCell carries an index key tuple plus (as its last record
// column) the referenced row key.
type IndexLeafCell struct {
	PayloadLen format.Field[int64]
	Payload    Payload
	Record     *format.Record
}

func (*IndexLeafCell) Kind() Type { return IndexLeaf }

// Payload is a cell's logical byte sequence: a local prefix on the
// owning page plus, when spilled, the bytes recovered from the
// overflow chain. Bytes always has the full declared length.
type Payload struct {
	// Length is the declared total payload length.
	Length int64
	// Local is the absolute span of the on-page portion.
	Local format.Span
	// Overflow is nil when the payload is entirely local.
	Overflow *OverflowChain
	// Bytes is the assembled payload. It aliases the file buffer when
	// local, and is a fresh concatenation when spilled.
	Bytes []byte
}

// Spilled reports whether part of the payload lives on overflow pages.
func (p *Payload) Spilled() bool { return p.Overflow != nil }

// OverflowChain is the resolved overflow linkage of one spilled cell.
type OverflowChain struct {
	// Head is the trailing 4-byte pointer on the owning page.
	Head format.Field[int]
	// Pages are the chain's decoded pages in order.
	Pages []OverflowPage
	// SpilledLen is the number of payload bytes stored off-page.
	SpilledLen int64
}

// decodeCell decodes the cell starting at pageData[off] for the given
// page type. base is the page's absolute file offset; all produced
// spans are absolute.
func decodeCell(f *File, pageData []byte, base, off int, typ Type) (Cell, error) {
	d := cellDecoder{f: f, buf: pageData, base: base, off: off}
	switch typ {
	case TableInterior:
		left := d.u32()
		rowid := d.varint()
		if d.err != nil {
			return nil, d.err
		}
		return &TableInteriorCell{LeftChild: left, RowID: rowid}, nil

	case TableLeaf:
		payloadLen := d.varint()
		rowid := d.varint()
		payload, err := d.payload(payloadLen.Value, false)
		if err != nil {
			return nil, err
		}
		rec, err := decodePayloadRecord(payload, f.header.TextEncoding.Value)
		return &TableLeafCell{PayloadLen: payloadLen, RowID: rowid, Payload: payload, Record: rec}, err

	case IndexInterior:
		left := d.u32()
		payloadLen := d.varint()
		payload, err := d.payload(payloadLen.Value, true)
		if err != nil {
			return nil, err
		}
		rec, err := decodePayloadRecord(payload, f.header.TextEncoding.Value)
		return &IndexInteriorCell{LeftChild: left, PayloadLen: payloadLen, Payload: payload, Record: rec}, err

	case IndexLeaf:
		payloadLen := d.varint()
		payload, err := d.payload(payloadLen.Value, true)
		if err != nil {
			return nil, err
		}
		rec, err := decodePayloadRecord(payload, f.header.TextEncoding.Value)
		return &IndexLeafCell{PayloadLen: payloadLen, Payload: payload, Record: rec}, err
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownPageType, typ)
}

// decodePayloadRecord decodes the record held by an assembled payload.
// A record header that does not fit inside the local portion would
// require decoding the header itself out of overflow pages; that is
// not supported and reported distinctly.
func decodePayloadRecord(p Payload, enc format.TextEncoding) (*format.Record, error) {
	if p.Spilled() {
		headerLen, _, err := format.DecodeVarint(p.Bytes, 0)
		if err != nil {
			return nil, err
		}
		if headerLen > int64(p.Local.Len) {
			return nil, fmt.Errorf("record header of %d bytes with %d local: %w",
				headerLen, p.Local.Len, format.ErrUnsupportedSpilledHeader)
		}
	}
	return format.DecodeRecord(p.Bytes, enc)
}

// cellDecoder is a cursor over one cell's bytes. The first error
// sticks; subsequent reads return zero fields.
type cellDecoder struct {
	f    *File
	buf  []byte
	base int
	off  int
	err  error
}

func (d *cellDecoder) u32() format.Field[int] {
	if d.err != nil {
		return format.Field[int]{}
	}
	if d.off+4 > len(d.buf) {
		d.err = fmt.Errorf("4-byte field at %d: %w", d.base+d.off, ErrCellOverrun)
		return format.Field[int]{}
	}
	v := int(binary.BigEndian.Uint32(d.buf[d.off : d.off+4]))
	field := format.NewField(v, d.base+d.off, 4)
	d.off += 4
	return field
}

func (d *cellDecoder) varint() format.Field[int64] {
	if d.err != nil {
		return format.Field[int64]{}
	}
	v, n, err := format.DecodeVarint(d.buf, d.off)
	if err != nil {
		d.err = fmt.Errorf("varint at %d: %w", d.base+d.off, err)
		return format.Field[int64]{}
	}
	field := format.NewField(v, d.base+d.off, n)
	d.off += n
	return field
}

// payload consumes the local payload portion and, when spilled, the
// trailing overflow head pointer plus the whole overflow chain.
func (d *cellDecoder) payload(payloadLen int64, indexPage bool) (Payload, error) {
	if d.err != nil {
		return Payload{}, d.err
	}
	if payloadLen < 0 {
		return Payload{}, fmt.Errorf("negative payload length %d at %d: %w",
			payloadLen, d.base+d.off, ErrCellOverrun)
	}

	localLen := format.LocalPayloadSize(payloadLen, d.f.UsableSize(), indexPage)
	if d.off+int(localLen) > len(d.buf) {
		return Payload{}, fmt.Errorf("local payload of %d bytes at %d: %w",
			localLen, d.base+d.off, ErrCellOverrun)
	}
	local := format.NewSpan(d.base+d.off, int(localLen))
	localBytes := d.buf[d.off : d.off+int(localLen)]
	d.off += int(localLen)

	if localLen == payloadLen {
		return Payload{Length: payloadLen, Local: local, Bytes: localBytes}, nil
	}

	head := d.u32()
	if d.err != nil {
		return Payload{}, d.err
	}
	spilled := payloadLen - localLen
	resolved, err := Resolve(d.f, head.Value, spilled)
	if err != nil {
		return Payload{}, err
	}

	assembled := make([]byte, 0, payloadLen)
	assembled = append(assembled, localBytes...)
	assembled = append(assembled, resolved.Bytes...)
	return Payload{
		Length: payloadLen,
		Local:  local,
		Overflow: &OverflowChain{
			Head:       head,
			Pages:      resolved.Pages,
			SpilledLen: spilled,
		},
		Bytes: assembled,
	}, nil
}
