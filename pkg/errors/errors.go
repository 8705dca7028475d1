package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a failed business check. A validation failure is an
// outcome reported to the caller, never a crash.
type Kind string

const (
	KindNotFound                Kind = "not_found"
	KindForeignKeyMissing       Kind = "foreign_key_missing"
	KindCapacityExceeded        Kind = "capacity_exceeded"
	KindInvalidFormat           Kind = "invalid_format"
	KindSchedulingConflict      Kind = "scheduling_conflict"
	KindSelfReferenceNotAllowed Kind = "self_reference_not_allowed"
	KindDuplicateEdge           Kind = "duplicate_edge"
	KindCycleNotAllowed         Kind = "cycle_not_allowed"
)

// ValidationError is the tagged result returned by the section placement
// validator and the requisite graph guard.
type ValidationError struct {
	Kind   Kind
	Detail string
	// ConflictIDs lists the sections that caused a SchedulingConflict.
	ConflictIDs []int64
}

func (e *ValidationError) Error() string {
	msg := kindMessages[e.Kind]
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if len(e.ConflictIDs) > 0 {
		ids := make([]string, len(e.ConflictIDs))
		for i, id := range e.ConflictIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		msg += " (sections " + strings.Join(ids, ", ") + ")"
	}
	return msg
}

// Is matches any ValidationError of the same kind, so detailed errors still
// satisfy errors.Is against the sentinels below.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var kindMessages = map[Kind]string{
	KindNotFound:                "not found",
	KindForeignKeyMissing:       "foreign key does not exist",
	KindCapacityExceeded:        "over room capacity",
	KindInvalidFormat:           "invalid semester or year format",
	KindSchedulingConflict:      "scheduling conflict",
	KindSelfReferenceNotAllowed: "self requisite not allowed",
	KindDuplicateEdge:           "duplicate requisite",
	KindCycleNotAllowed:         "requisite cycle not allowed",
}

// ── Sentinels ──

var (
	ErrNotFound                = &ValidationError{Kind: KindNotFound}
	ErrForeignKeyMissing       = &ValidationError{Kind: KindForeignKeyMissing}
	ErrCapacityExceeded        = &ValidationError{Kind: KindCapacityExceeded}
	ErrInvalidFormat           = &ValidationError{Kind: KindInvalidFormat}
	ErrSchedulingConflict      = &ValidationError{Kind: KindSchedulingConflict}
	ErrSelfReferenceNotAllowed = &ValidationError{Kind: KindSelfReferenceNotAllowed}
	ErrDuplicateEdge           = &ValidationError{Kind: KindDuplicateEdge}
	ErrCycleNotAllowed         = &ValidationError{Kind: KindCycleNotAllowed}
)

// New builds a ValidationError of the given kind with a formatted detail.
func New(kind Kind, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Conflict builds a SchedulingConflict naming the clashing sections.
func Conflict(ids []int64) *ValidationError {
	return &ValidationError{Kind: KindSchedulingConflict, ConflictIDs: ids}
}

// KindOf extracts the validation kind from err. ok is false for store or
// transport failures.
func KindOf(err error) (Kind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return "", false
}

// IsValidation reports whether err is a business check failure.
func IsValidation(err error) bool {
	_, ok := KindOf(err)
	return ok
}
