package iconmine

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAsset means the source had no texture for an identifier.
	// The icon is skipped and listed in Report.Missing.
	ErrMissingAsset = errors.New("iconmine: missing asset")

	// ErrIconFailed marks a failure confined to one icon. The run continues.
	ErrIconFailed = errors.New("iconmine: icon failed")

	// ErrEnumerate is returned by Run when the source cannot list its
	// identifiers.
	ErrEnumerate = errors.New("iconmine: enumerate identifiers")

	// ErrCatalog is returned by Run when the sink rejects the catalog.
	ErrCatalog = errors.New("iconmine: write catalog")

	// ErrNilSink is returned by Run when no sink is given.
	ErrNilSink = errors.New("iconmine: nil sink")
)

// IconError describes why one icon was not produced.
type IconError struct {
	Identifier string
	Err        error
}

func (e *IconError) Error() string {
	return fmt.Sprintf("iconmine: %s: %v", e.Identifier, e.Err)
}

// Unwrap returns the cause.
func (e *IconError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrIconFailed) match any IconError.
func (e *IconError) Is(target error) bool { return target == ErrIconFailed }
