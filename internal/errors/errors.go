package errors

import "fmt"

// ErrorCode represents a radr error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrDuplicateName  ErrorCode = "DUPLICATE_NAME"  // 409
	ErrDuplicateAdr   ErrorCode = "DUPLICATE_ADR"   // 409
	ErrPartialWrite   ErrorCode = "PARTIAL_WRITE"   // 207: row persisted, file write failed
	ErrOrphanAdr      ErrorCode = "ORPHAN_ADR"      // 207: ADR persisted, blip link not made
	ErrIO             ErrorCode = "IO_ERROR"        // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// RadrError represents a structured error with code, status, and details.
// Every condition in the system is reported as a value of this type; nothing
// in the core is fatal.
type RadrError struct {
	Code    ErrorCode      `json:"code"`
	Status  int            `json:"status"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *RadrError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Recoverable reports whether the condition leaves the session in a state the
// user can act on without restarting: conflicts invite a retry with a new
// identifier, partial writes and orphan ADRs invite a later repair.
func (e *RadrError) Recoverable() bool {
	switch e.Code {
	case ErrDuplicateName, ErrDuplicateAdr, ErrPartialWrite, ErrOrphanAdr:
		return true
	}
	return false
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *RadrError {
	return &RadrError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing blip or ADR.
func NewNotFound(identifier string) *RadrError {
	return &RadrError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("record not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewDuplicateName creates a 409 error for blip name collisions.
func NewDuplicateName(name string) *RadrError {
	return &RadrError{
		Code:    ErrDuplicateName,
		Status:  409,
		Message: fmt.Sprintf("blip named %q already exists", name),
		Details: map[string]any{"name": name},
	}
}

// NewDuplicateAdr creates a 409 error for (title, timestamp) collisions.
func NewDuplicateAdr(title, timestamp string) *RadrError {
	return &RadrError{
		Code:    ErrDuplicateAdr,
		Status:  409,
		Message: fmt.Sprintf("ADR %q already recorded on %s", title, timestamp),
		Details: map[string]any{"title": title, "timestamp": timestamp},
	}
}

// NewPartialWrite creates the divergence warning raised when the relational
// row was committed but the Markdown document could not be written. The row
// is kept: the index must not silently drop a record the user confirmed.
func NewPartialWrite(kind string, id int64, cause error) *RadrError {
	return &RadrError{
		Code:    ErrPartialWrite,
		Status:  207,
		Message: fmt.Sprintf("%s row %d saved but document write failed: %v", kind, id, cause),
		Details: map[string]any{"kind": kind, "id": id},
	}
}

// NewOrphanAdr creates the linkage warning raised when an ADR was recorded
// but the named blip does not exist. The ADR stands alone until re-linked.
func NewOrphanAdr(adrID int64, blipName string) *RadrError {
	return &RadrError{
		Code:    ErrOrphanAdr,
		Status:  207,
		Message: fmt.Sprintf("ADR %d recorded but no blip named %q to link", adrID, blipName),
		Details: map[string]any{"adr_id": adrID, "blip_name": blipName},
	}
}

// NewIO creates a 500 error for filesystem failures reported by collaborators.
func NewIO(err error) *RadrError {
	return &RadrError{
		Code:    ErrIO,
		Status:  500,
		Message: err.Error(),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *RadrError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &RadrError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a RadrError with the given code.
func Is(err error, code ErrorCode) bool {
	if rErr, ok := err.(*RadrError); ok {
		return rErr.Code == code
	}
	return false
}
