package format

import "fmt"

// Record is a decoded cell payload in the record format: a header of
// serial-type varints followed by the column bodies in the same order.
// Spans are relative to the logical payload, which may have been
// reassembled from overflow pages and therefore has no single
// contiguous file range.
type Record struct {
	// HeaderLen is the declared total header length, including the
	// varint that declares it.
	HeaderLen Field[int64]
	Types     []Field[SerialType]
	Values    []Value
}

// NumColumns is the number of columns in the record.
func (r *Record) NumColumns() int { return len(r.Types) }

// DecodeRecord decodes a record from a fully assembled payload.
// The body must account for every byte implied by the header's serial
// types; any disagreement is ErrRecordHeaderOverrun.
func DecodeRecord(payload []byte, enc TextEncoding) (*Record, error) {
	headerLen, n, err := DecodeVarint(payload, 0)
	if err != nil {
		return nil, fmt.Errorf("record header length: %w", err)
	}
	if headerLen < int64(n) || headerLen > int64(len(payload)) {
		return nil, fmt.Errorf("record header of %d bytes in %d byte payload: %w",
			headerLen, len(payload), ErrRecordHeaderOverrun)
	}

	rec := &Record{HeaderLen: NewField(headerLen, 0, n)}

	// Serial types occupy the rest of the declared header.
	off := n
	for off < int(headerLen) {
		t, tn, err := DecodeVarint(payload, off)
		if err != nil {
			return nil, fmt.Errorf("serial type at %d: %w", off, err)
		}
		if off+tn > int(headerLen) {
			return nil, fmt.Errorf("serial type at %d crosses header end %d: %w",
				off, headerLen, ErrRecordHeaderOverrun)
		}
		rec.Types = append(rec.Types, NewField(SerialType(t), off, tn))
		off += tn
	}

	// Bodies follow in header order.
	off = int(headerLen)
	for _, t := range rec.Types {
		v, err := DecodeValue(t.Value, enc, payload, off)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", len(rec.Values), err)
		}
		rec.Values = append(rec.Values, v)
		off += v.Span.Len
	}
	if off != len(payload) {
		return nil, fmt.Errorf("record body ends at %d of %d payload bytes: %w",
			off, len(payload), ErrRecordHeaderOverrun)
	}
	return rec, nil
}
