package compact

import "errors"

var (
	// ErrPrecondition is returned when a CSC block is inconsistent with
	// itself or with its destination nodes.
	ErrPrecondition = errors.New("compact: precondition failed")

	// ErrLengthMismatch is returned when a node pair has different numbers
	// of sources and destinations.
	ErrLengthMismatch = errors.New("compact: source and destination lengths differ")

	// ErrUnknownEdgeType is returned when a reverse map names an edge type
	// that is not in the input.
	ErrUnknownEdgeType = errors.New("compact: unknown edge type")

	// ErrInvalidEdgeType is returned for strings that are not of the form
	// "src:relation:dst".
	ErrInvalidEdgeType = errors.New("compact: invalid edge type")
)
