package store

import "errors"

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrItemNotFound is returned when an entry references an unknown item.
var ErrItemNotFound = errors.New("item not found")

// ErrDuplicateEntry is returned when the (date, item) pair is already logged.
var ErrDuplicateEntry = errors.New("entry already exists for this date and item")
