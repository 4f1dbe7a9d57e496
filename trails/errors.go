package trails

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned for unsupported file suffixes and absent interchange payloads.
	ErrConfig = errors.New("config error")

	// ErrSchema is returned when an interchange document or build input does not
	// match the store's fixed batch shape or is missing required fields.
	ErrSchema = errors.New("schema error")

	// ErrCapacity is returned when a node's incident edge count in one direction
	// exceeds the store's MaxEdgesPerNode.
	ErrCapacity = errors.New("incidence capacity exceeded")

	// ErrIndex is returned for out-of-range node, edge or environment indices
	// and for non-finite coordinates.
	ErrIndex = errors.New("index out of range")
)

// Error carries the failing environment and entity alongside one of the
// sentinel kinds above. Env, Index are -1 when not applicable.
type Error struct {
	Kind   error  // ErrConfig, ErrSchema, ErrCapacity or ErrIndex
	Env    int    // Environment the failure belongs to
	Entity string // "node", "edge", "environment", "file", ...
	Index  int    // Entity index within the environment
	Msg    string
}

func (e *Error) Error() string {
	loc := ""
	switch {
	case e.Env >= 0 && e.Index >= 0:
		loc = fmt.Sprintf(" (env %d, %s %d)", e.Env, e.Entity, e.Index)
	case e.Env >= 0:
		loc = fmt.Sprintf(" (env %d)", e.Env)
	case e.Index >= 0:
		loc = fmt.Sprintf(" (%s %d)", e.Entity, e.Index)
	}
	return fmt.Sprintf("%v: %s%s", e.Kind, e.Msg, loc)
}

// Unwrap exposes the sentinel kind for errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

func configErr(format string, args ...any) *Error {
	return &Error{Kind: ErrConfig, Env: -1, Index: -1, Msg: fmt.Sprintf(format, args...)}
}

func schemaErr(env int, format string, args ...any) *Error {
	return &Error{Kind: ErrSchema, Env: env, Index: -1, Msg: fmt.Sprintf(format, args...)}
}

func indexErr(env int, entity string, index int, format string, args ...any) *Error {
	return &Error{Kind: ErrIndex, Env: env, Entity: entity, Index: index, Msg: fmt.Sprintf(format, args...)}
}

func capacityErr(env, node int, format string, args ...any) *Error {
	return &Error{Kind: ErrCapacity, Env: env, Entity: "node", Index: node, Msg: fmt.Sprintf(format, args...)}
}

func fieldErr(env int, entity string, index int, format string, args ...any) *Error {
	return &Error{Kind: ErrSchema, Env: env, Entity: entity, Index: index, Msg: fmt.Sprintf(format, args...)}
}
