package account

import (
	"github.com/pkg/errors"
)

// Code is the categorical reason of a failed authentication.
type Code string

const (
	CodeWrongPassword   Code = "auth/wrong-password"
	CodeInvalidEmail    Code = "auth/invalid-email"
	CodeTooManyRequests Code = "auth/too-many-requests"
	CodeEmailInUse      Code = "auth/email-already-in-use"
	CodeWeakPassword    Code = "auth/weak-password"
	CodeUserNotFound    Code = "auth/user-not-found"
	CodeInternal        Code = "auth/internal-error"
)

const defaultMessage = "Login failed. Please try again."

var messages = map[Code]string{
	CodeWrongPassword:   "Incorrect password.",
	CodeInvalidEmail:    "Invalid email.",
	CodeTooManyRequests: "Too many attempts. Please try again later.",
	CodeEmailInUse:      "Email already in use. Try logging in.",
	CodeWeakPassword:    "Password should be at least 6 characters.",
	CodeUserNotFound:    "No account found. Please create one.",
}

var (
	ErrNotFound    = errors.New("account not found")
	ErrEmailExists = errors.New("an account with this email already exists")
	ErrNoSession   = errors.New("session not found")
)

// Error is an authentication failure shown to the user.
type Error struct {
	Code Code
	Err  error
}

func newError(code Code, err ...error) *Error {
	e := &Error{Code: code}
	if len(err) > 0 {
		e.Err = err[0]
	}
	return e
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Message maps err to the text shown on the login form.
// Unknown codes and non-authentication errors get the generic text.
func Message(err error) string {
	if aErr, ok := errors.Cause(err).(*Error); ok {
		if msg, ok := messages[aErr.Code]; ok {
			return msg
		}
	}
	return defaultMessage
}

// ErrorCode returns the code of err, CodeInternal when err is not an *Error.
func ErrorCode(err error) Code {
	if aErr, ok := errors.Cause(err).(*Error); ok {
		return aErr.Code
	}
	return CodeInternal
}
