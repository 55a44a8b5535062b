package tgm

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned by [Node.FindParent] when no ancestor satisfies the
// query.
var ErrNoMatch = errors.New("tgm: no node found matching the given query")

// CardinalityError is returned by [Node.Get] and [Node.GetWith] when the
// number of matches differs from exactly one.
type CardinalityError struct {
	Count int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("tgm: %d nodes found matching query, expected 1", e.Count)
}

// QueryError is returned by [MakeQuery] when a shorthand value cannot be
// interpreted as a query.
type QueryError struct {
	Input any
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("tgm: cannot build a query from %T", e.Input)
}
