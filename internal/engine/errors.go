package engine

import "errors"

var (
	// ErrRaggedRecord is returned when a record's fields differ from the
	// dataset schema.
	ErrRaggedRecord = errors.New("record does not match schema")

	// ErrUnknownColumn is returned when a sort targets a column that is not
	// part of the schema.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrUnknownFilter is returned for filter field names other than
	// manufacturer, platform and cores.
	ErrUnknownFilter = errors.New("unknown filter field")

	// ErrUnsupportedFormat is returned by LoadFile for unknown extensions.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)
