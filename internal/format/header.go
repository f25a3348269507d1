package format

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size of the database header at the start of
// every database file.
const HeaderSize = 100

// Magic is the 16-byte signature every well-formed database file
// starts with.
var Magic = []byte("SQLite format 3\x00")

// MaxPageSize is the largest legal page size. The 16-bit page-size
// header field encodes it as the raw value 1.
const MaxPageSize = 65536

// MinPageSize is the smallest legal page size.
const MinPageSize = 512

// TextEncoding is the database-wide encoding of text values.
type TextEncoding uint32

const (
	UTF8 TextEncoding = iota + 1
	UTF16LE
	UTF16BE
)

func (e TextEncoding) String() string {
	switch e {
	case UTF8:
		return "UTF-8"
	case UTF16LE:
		return "UTF-16 LE"
	case UTF16BE:
		return "UTF-16 BE"
	default:
		return fmt.Sprintf("TextEncoding(%d)", uint32(e))
	}
}

// DatabaseHeader is the decoded 100-byte header. Every field carries
// the span of its source bytes.
type DatabaseHeader struct {
	Magic Field[string]
	// PageSize holds the logical page size; its span covers the raw
	// 16-bit field, where a raw value of 1 denotes 65536.
	PageSize     Field[int]
	WriteVersion Field[uint8]
	ReadVersion  Field[uint8]
	// ReservedBytes is the reserved space at the end of each page.
	ReservedBytes              Field[uint8]
	MaxEmbeddedPayloadFraction Field[uint8]
	MinEmbeddedPayloadFraction Field[uint8]
	LeafPayloadFraction        Field[uint8]
	FileChangeCounter          Field[uint32]
	// PageCount is the in-header database size in pages; see
	// File.PageCount for when it may be trusted.
	PageCount             Field[uint32]
	FirstFreelistTrunk    Field[uint32]
	FreelistPageCount     Field[uint32]
	SchemaCookie          Field[uint32]
	SchemaFormat          Field[uint32]
	DefaultPageCacheSize  Field[uint32]
	LargestRootPage       Field[uint32]
	TextEncoding          Field[TextEncoding]
	UserVersion           Field[uint32]
	IncrementalVacuum     Field[uint32]
	ApplicationID         Field[uint32]
	ReservedForExpansion  Span
	VersionValidForNumber Field[uint32]
	SQLiteVersionNumber   Field[uint32]
}

// UsablePageSize is the page size minus the per-page reserved space.
func (h *DatabaseHeader) UsablePageSize() int {
	return h.PageSize.Value - int(h.ReservedBytes.Value)
}

// ParseHeader decodes the database header from the first 100 bytes of
// a database file.
func ParseHeader(buf []byte) (*DatabaseHeader, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrShortHeader, len(buf))
	}
	if !bytes.Equal(buf[0:16], Magic) {
		return nil, ErrBadMagic
	}

	rawPageSize := binary.BigEndian.Uint16(buf[16:18])
	pageSize := int(rawPageSize)
	if rawPageSize == 1 {
		// 65536 does not fit in 16 bits.
		pageSize = MaxPageSize
	}
	if pageSize < MinPageSize || pageSize > MaxPageSize || pageSize&(pageSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}

	enc := TextEncoding(binary.BigEndian.Uint32(buf[56:60]))
	switch enc {
	case UTF8, UTF16LE, UTF16BE:
	case 0:
		// Fresh files with no text payload yet leave the field zero;
		// treat as UTF-8.
		enc = UTF8
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidTextEncoding, uint32(enc))
	}

	h := &DatabaseHeader{
		Magic:                      NewField(string(buf[0:15]), 0, 16),
		PageSize:                   NewField(pageSize, 16, 2),
		WriteVersion:               NewField(buf[18], 18, 1),
		ReadVersion:                NewField(buf[19], 19, 1),
		ReservedBytes:              NewField(buf[20], 20, 1),
		MaxEmbeddedPayloadFraction: NewField(buf[21], 21, 1),
		MinEmbeddedPayloadFraction: NewField(buf[22], 22, 1),
		LeafPayloadFraction:        NewField(buf[23], 23, 1),
		FileChangeCounter:          u32Field(buf, 24),
		PageCount:                  u32Field(buf, 28),
		FirstFreelistTrunk:         u32Field(buf, 32),
		FreelistPageCount:          u32Field(buf, 36),
		SchemaCookie:               u32Field(buf, 40),
		SchemaFormat:               u32Field(buf, 44),
		DefaultPageCacheSize:       u32Field(buf, 48),
		LargestRootPage:            u32Field(buf, 52),
		TextEncoding:               NewField(enc, 56, 4),
		UserVersion:                u32Field(buf, 60),
		IncrementalVacuum:          u32Field(buf, 64),
		ApplicationID:              u32Field(buf, 68),
		ReservedForExpansion:       NewSpan(72, 20),
		VersionValidForNumber:      u32Field(buf, 92),
		SQLiteVersionNumber:        u32Field(buf, 96),
	}
	return h, nil
}

func u32Field(buf []byte, off int) Field[uint32] {
	return NewField(binary.BigEndian.Uint32(buf[off:off+4]), off, 4)
}
