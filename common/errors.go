package common

import (
	"errors"
	"fmt"
)

type PlanErrorCode int

const (
	// DuplicateObjectError indicates an attempt to create a table that
	// already exists in the catalog.
	DuplicateObjectError PlanErrorCode = iota
	// NoSuchObjectError indicates a catalog table, column or distribution key
	// that does not exist.
	NoSuchObjectError
	// DuplicateDeclarationError is raised when two items of one WITH clause
	// declare the same name.
	DuplicateDeclarationError
	// LookupFailureError is raised when a table reference resolves to neither
	// a registered CTE nor a catalog table, including forward and self
	// references to WITH items.
	LookupFailureError
	// AmbiguousReferenceError indicates a column name that matches more than
	// one field in scope.
	AmbiguousReferenceError
	// InvalidStatementError covers statements that are well formed but
	// semantically wrong, e.g. mismatched union arms.
	InvalidStatementError
	// UnsupportedFeatureError indicates valid SQL that the builder does not
	// plan, such as WITH RECURSIVE.
	UnsupportedFeatureError
)

func (ec PlanErrorCode) String() string {
	switch ec {
	case DuplicateObjectError:
		return "DuplicateObjectError"
	case NoSuchObjectError:
		return "NoSuchObjectError"
	case DuplicateDeclarationError:
		return "DuplicateDeclarationError"
	case LookupFailureError:
		return "LookupFailureError"
	case AmbiguousReferenceError:
		return "AmbiguousReferenceError"
	case InvalidStatementError:
		return "InvalidStatementError"
	case UnsupportedFeatureError:
		return "UnsupportedFeatureError"
	}
	return "unknown"
}

// PlanError is the error type returned by every package of the planner.
// It wraps a PlanErrorCode with a detailed message and, when there is one, the
// identifier (table, CTE or column name) that caused it, so callers can build a
// diagnostic without parsing the message.
type PlanError struct {
	Code       PlanErrorCode
	Identifier string
	ErrString  string
}

func (e PlanError) Error() string {
	return fmt.Sprintf("err: %s; msg: %s", e.Code.String(), e.ErrString)
}

// NewPlanError builds a PlanError with a formatted message.
func NewPlanError(code PlanErrorCode, identifier string, format string, args ...any) PlanError {
	return PlanError{
		Code:       code,
		Identifier: identifier,
		ErrString:  fmt.Sprintf(format, args...),
	}
}

// ErrorCode extracts the PlanErrorCode from err, if err is (or wraps) a PlanError.
func ErrorCode(err error) (PlanErrorCode, bool) {
	var pe PlanError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return 0, false
}

// IsErrorCode reports whether err is (or wraps) a PlanError with the given code.
func IsErrorCode(err error, code PlanErrorCode) bool {
	got, ok := ErrorCode(err)
	return ok && got == code
}
