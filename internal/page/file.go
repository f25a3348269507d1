package page

import (
	"fmt"

	"github.com/tuannm99/sqlens/internal/format"
)

// File is an immutable database file image plus its parsed header.
// It is the single owner of all page byte ranges; every decoded
// structure holds views or spans into it rather than copies.
// All methods are safe for concurrent use: nothing mutates the buffer.
type File struct {
	data   []byte
	header *format.DatabaseHeader
}

// NewFile parses the database header and wraps the raw file bytes.
// The buffer must not be modified afterwards.
func NewFile(data []byte) (*File, error) {
	header, err := format.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	return &File{data: data, header: header}, nil
}

// Header returns the parsed database header.
func (f *File) Header() *format.DatabaseHeader { return f.header }

// Bytes returns the underlying file image.
func (f *File) Bytes() []byte { return f.data }

// PageSize is the logical page size declared by the header.
func (f *File) PageSize() int { return f.header.PageSize.Value }

// UsableSize is the page size minus the reserved space per page.
func (f *File) UsableSize() int { return f.header.UsablePageSize() }

// PageCount is the number of pages in the file. The header's in-file
// page count is authoritative only when it is non-zero and the file
// change counter matches the version-valid-for number; otherwise the
// count is derived from the file length, ignoring trailing bytes
// beyond the last full page.
func (f *File) PageCount() int {
	h := f.header
	if h.PageCount.Value != 0 && h.FileChangeCounter.Value == h.VersionValidForNumber.Value {
		return int(h.PageCount.Value)
	}
	return len(f.data) / f.PageSize()
}

// PageOffset is the absolute file offset of the 1-based page number.
func (f *File) PageOffset(pageNum int) int {
	return (pageNum - 1) * f.PageSize()
}

// PageData returns the raw byte view of one page.
func (f *File) PageData(pageNum int) ([]byte, error) {
	if pageNum < 1 || pageNum > f.PageCount() {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, pageNum, f.PageCount())
	}
	start := f.PageOffset(pageNum)
	end := start + f.PageSize()
	if end > len(f.data) {
		return nil, fmt.Errorf("%w: page %d needs bytes up to %d, file has %d",
			ErrTruncatedFile, pageNum, end, len(f.data))
	}
	return f.data[start:end], nil
}
