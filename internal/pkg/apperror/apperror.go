package apperror

// Kind is a machine-checkable error category, returned alongside the
// human-readable message so clients can branch without string matching.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConstraint Kind = "constraint_violation"
	KindState      Kind = "state_error"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindPayment    Kind = "payment_error"
)

// AppError is a custom error type that includes an HTTP status code, an error
// kind and a user-facing message.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Kind    Kind   // Machine-checkable category
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code, kind and message.
func New(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error. The wrapped error is
// kept for errors.Is checks and logging but never rendered to the client.
func Wrap(err error, code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}
