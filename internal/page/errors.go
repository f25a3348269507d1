package page

import "errors"

var (
	// structural
	ErrUnknownPageType = errors.New("page: unknown b-tree page type byte")
	ErrCellOverrun     = errors.New("page: cell extends past the end of its page")
	ErrTruncatedFile   = errors.New("page: file too short for page")

	// referential
	ErrPageOutOfRange         = errors.New("page: page number out of range")
	ErrOverflowPageOutOfRange = errors.New("page: overflow page number out of range")
	ErrBrokenOverflowChain    = errors.New("page: overflow chain ended before payload was complete")
	ErrFreelistCycle          = errors.New("page: freelist trunk chain revisits a page")
	ErrFreelistTrunkOverflow  = errors.New("page: freelist trunk leaf count exceeds usable space")
)
