package format

import "errors"

var (
	// encoding
	ErrTruncatedVarint = errors.New("format: varint truncated before terminating byte")

	// structural
	ErrBadMagic                 = errors.New("format: bad database header magic")
	ErrInvalidPageSize          = errors.New("format: page size is not a power of two in [512, 65536]")
	ErrInvalidTextEncoding      = errors.New("format: unknown text encoding value")
	ErrShortHeader              = errors.New("format: fewer than 100 bytes for database header")
	ErrRecordHeaderOverrun      = errors.New("format: record header length disagrees with serial type widths")
	ErrReservedSerialType       = errors.New("format: serial type 10 or 11 is reserved for internal use")
	ErrUnsupportedSpilledHeader = errors.New("format: record header spilling into overflow pages is not supported")
)
