package search

import (
	"errors"
	"fmt"
)

var (
	// Structural problems in how a query was built: invalid clause
	// occurrence, too many clauses, limits below their minimum.
	ErrConfiguration = errors.New("configuration error")
	// A rewrite-only query was asked for a Weight directly.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// Malformed arguments: range bounds, window sizes, sort fields.
	ErrArgument = errors.New("argument error")
)

func configErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %v", ErrConfiguration, fmt.Sprintf(format, args...))
}

func unsupportedErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %v", ErrUnsupportedOperation, fmt.Sprintf(format, args...))
}

func argErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %v", ErrArgument, fmt.Sprintf(format, args...))
}

// ArgErrorf reports a malformed argument from packages extending search.
func ArgErrorf(format string, args ...interface{}) error {
	return argErrorf(format, args...)
}
