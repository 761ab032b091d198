package model

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks an unusable configuration: unknown application,
	// unsupported transport or compression combination.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation marks bad operation input, reported before any I/O.
	ErrValidation = errors.New("validation error")
)

// TransportError wraps an I/O failure of a transport operation.
type TransportError struct {
	Op     string // exists, read, copy
	Source string // strategy identity
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FolderExistsError is returned when the download folder is already present.
// The caller may retry the download with overwrite enabled.
type FolderExistsError struct {
	Path string
}

func (e *FolderExistsError) Error() string {
	return "download folder already exists: " + e.Path
}
