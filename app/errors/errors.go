package errors

// WithCause is implemented by errors that wrap a lower-level error.
type WithCause interface{ Cause() error }

// WithHint is implemented by errors that can suggest a fix to the user.
type WithHint interface{ Hint() string }

// Runtime is an error shown to the user. The message is kept short, while the
// cause and hint are printed separately.
type Runtime struct {
	msg   string
	cause error
	hint  string
}

var (
	_ WithCause = Runtime{}
	_ WithHint  = Runtime{}
)

// NewRuntimeError returns a new Runtime error.
func NewRuntimeError(msg string, cause error, hint string) Runtime {
	return Runtime{msg: msg, cause: cause, hint: hint}
}

func (e Runtime) Error() string {
	return e.msg
}

func (e Runtime) Cause() error {
	return e.cause
}

func (e Runtime) Unwrap() error {
	return e.cause
}

func (e Runtime) Hint() string {
	return e.hint
}
