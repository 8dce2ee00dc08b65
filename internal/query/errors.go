package query

import "errors"

// ErrRecordNotFound is returned when a Term row's indexed key has no
// matching Record, which should only happen if the two tables have
// fallen out of sync.
var ErrRecordNotFound = errors.New("query: record not found for indexed term")
