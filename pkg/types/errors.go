// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Every error below is fatal: a run that hits one stops without retrying.
var (
	// ErrMalformedInput reports a row whose shape violates the reader's
	// structural or positional contract.
	ErrMalformedInput = errors.New("malformed input")

	// ErrFormat reports a value that cannot be coerced to its declared type.
	ErrFormat = errors.New("format error")

	// ErrWrite reports a destination that could not be created or written.
	ErrWrite = errors.New("write error")
)
