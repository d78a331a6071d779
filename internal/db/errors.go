package db

import "errors"

var (
	// ErrKeyNotFound is returned by Get and HGetAll for absent keys.
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrIndexNotFound is returned when a search or drop targets a missing index.
	ErrIndexNotFound = errors.New("db: index not found")
	// ErrIndexExists is returned by CreateIndex when the name is taken.
	ErrIndexExists = errors.New("db: index already exists")
)

// Op names the store command that failed. Values follow the Redis command names
// so logs read the same for both drivers.
type Op string

const (
	OpCreateIndex Op = "FT.CREATE"
	OpDropIndex   Op = "FT.DROPINDEX"
	OpIndexInfo   Op = "FT.INFO"
	OpSearch      Op = "FT.SEARCH"
	OpDel         Op = "DEL"
	OpHGetAll     Op = "HGETALL"
	OpHSet        Op = "HSET"
	OpScan        Op = "SCAN"
	OpGet         Op = "GET"
	OpSet         Op = "SET"
)

// Error attaches the failed command, and the key when there is one, to a driver error.
type Error struct {
	Op  Op
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return string(e.Op) + ": " + e.Err.Error()
	}
	return string(e.Op) + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
