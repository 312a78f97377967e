package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrInvalidWindow = errors.New("db: invalid result window")
)

// Op names used for error context. Redis ops are command names.
const (
	OpPing        = "PING"
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpJSONGet     = "JSON.GET"
	OpFind        = "find"
	OpCount       = "countDocuments"
	OpFindOne     = "findOne"
	OpDecode      = "decode"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
