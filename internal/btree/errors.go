package btree

import "errors"

var (
	ErrCyclicPageReference = errors.New("btree: page revisited within one root's descent")
	ErrNotATree            = errors.New("btree: no table or index with that name")
	ErrBadSchemaRecord     = errors.New("btree: schema record has unexpected shape")
)
