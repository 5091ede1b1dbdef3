package relq

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for compilation failures. The typed errors below
// match them through errors.Is, so callers can branch on the kind without
// holding the concrete type.
var (
	// ErrRelationNotFound is returned when a relation name has no metadata entry.
	ErrRelationNotFound = errors.New("relq: relation not found")

	// ErrFieldResolution is returned when a filter or sort field resolves to
	// neither a column nor a declared relation.
	ErrFieldResolution = errors.New("relq: cannot resolve field")

	// ErrInvalidFilter is returned for malformed operator/value combinations.
	ErrInvalidFilter = errors.New("relq: invalid filter")

	// ErrInvalidPaging is returned for negative limit or offset values.
	ErrInvalidPaging = errors.New("relq: invalid paging")
)

// RelationNotFoundError reports a relation name with no metadata entry for
// the entity it was requested on. It aborts the whole compilation; no partial
// statement is returned.
type RelationNotFoundError struct {
	Entity   string // Entity type the lookup ran against
	Relation string // Relation name that failed to resolve
}

// Error returns the error string.
func (e *RelationNotFoundError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("relq: unable to find entity for relation %q on %q", e.Relation, e.Entity)
	}
	return fmt.Sprintf("relq: unable to find entity for relation %q", e.Relation)
}

// Is reports whether the target error matches ErrRelationNotFound.
func (e *RelationNotFoundError) Is(err error) bool {
	return err == ErrRelationNotFound
}

// NewRelationNotFoundError returns a new RelationNotFoundError.
func NewRelationNotFoundError(entity, relation string) *RelationNotFoundError {
	return &RelationNotFoundError{Entity: entity, Relation: relation}
}

// IsRelationNotFound returns true if the error is a RelationNotFoundError.
func IsRelationNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *RelationNotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrRelationNotFound)
}

// FieldResolutionError reports a filter or sort field that does not resolve
// to a known column or relation of its entity.
type FieldResolutionError struct {
	Entity string // Entity type the field was resolved against
	Field  string // Field name that failed to resolve
}

// Error returns the error string.
func (e *FieldResolutionError) Error() string {
	return fmt.Sprintf("relq: cannot resolve field %q on entity %q", e.Field, e.Entity)
}

// Is reports whether the target error matches ErrFieldResolution.
func (e *FieldResolutionError) Is(err error) bool {
	return err == ErrFieldResolution
}

// NewFieldResolutionError returns a new FieldResolutionError.
func NewFieldResolutionError(entity, field string) *FieldResolutionError {
	return &FieldResolutionError{Entity: entity, Field: field}
}

// IsFieldResolution returns true if the error is a FieldResolutionError.
func IsFieldResolution(err error) bool {
	if err == nil {
		return false
	}
	var e *FieldResolutionError
	return errors.As(err, &e) || errors.Is(err, ErrFieldResolution)
}

// InvalidFilterError reports a malformed filter node, such as a between
// predicate without exactly two bounds or a node with no populated group.
type InvalidFilterError struct {
	Reason string
}

// Error returns the error string.
func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("relq: invalid filter: %s", e.Reason)
}

// Is reports whether the target error matches ErrInvalidFilter.
func (e *InvalidFilterError) Is(err error) bool {
	return err == ErrInvalidFilter
}

// NewInvalidFilterError returns a new InvalidFilterError with a formatted reason.
func NewInvalidFilterError(format string, args ...any) *InvalidFilterError {
	return &InvalidFilterError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidFilter returns true if the error is an InvalidFilterError.
func IsInvalidFilter(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidFilterError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidFilter)
}

// InvalidPagingError reports a negative limit or offset.
type InvalidPagingError struct {
	Clause string // "limit" or "offset"
	Value  int
}

// Error returns the error string.
func (e *InvalidPagingError) Error() string {
	return fmt.Sprintf("relq: invalid paging: %s must be non-negative, got %d", e.Clause, e.Value)
}

// Is reports whether the target error matches ErrInvalidPaging.
func (e *InvalidPagingError) Is(err error) bool {
	return err == ErrInvalidPaging
}

// NewInvalidPagingError returns a new InvalidPagingError.
func NewInvalidPagingError(clause string, value int) *InvalidPagingError {
	return &InvalidPagingError{Clause: clause, Value: value}
}

// IsInvalidPaging returns true if the error is an InvalidPagingError.
func IsInvalidPaging(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidPagingError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidPaging)
}
