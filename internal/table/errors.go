package table

import "errors"

// ErrInvalidTable indicates a table violates a construction invariant.
var ErrInvalidTable = errors.New("invalid table")

// ErrOutOfRange indicates a row or column index outside the table.
var ErrOutOfRange = errors.New("index out of range")

// ErrLastRow is returned when deleting the only remaining row.
var ErrLastRow = errors.New("cannot delete the last row")

// ErrLastColumn is returned when deleting the only remaining column.
var ErrLastColumn = errors.New("cannot delete the last column")
