package model

// ErrorKind classifies domain errors so the API layer can map them to
// status codes in one place.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindPermission
	KindNotFound
	KindStore
)

// Error is a domain error with a caller-facing message. Store errors
// additionally wrap the underlying cause for server-side logging; the
// cause is never sent to the client.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ValidationError reports missing or malformed input.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// PermissionError reports a caller whose role does not allow the operation.
func PermissionError(message string) *Error {
	return &Error{Kind: KindPermission, Message: message}
}

// NotFoundError reports an absent item or user.
func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// StoreError wraps a persistence failure. The client only ever sees a
// generic server error for these.
func StoreError(cause error) *Error {
	return &Error{Kind: KindStore, Message: "Server error", Cause: cause}
}
