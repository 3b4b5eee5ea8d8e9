package core

import (
	"errors"
	"fmt"
	"os"
)

// General error codes
const (
	NOERROR     int = 0
	EMISSING    int = 122 // resource does not exist
	EINVALID    int = 123 // validation failed
	ECONNECTION int = 124 // remote resource not connected
	EINTERNAL   int = 125 // internal error
	EBUILD      int = 126 // external glyph builder failed
	EEMPTY      int = 127 // nothing to combine
	ENORANGE    int = 128 // glyph range file absent
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid"
	case ECONNECTION:
		return "transmission-error"
	case EINTERNAL:
		return "internal error"
	case EBUILD:
		return "build failed"
	case EEMPTY:
		return "empty result"
	case ENORANGE:
		return "range file missing"
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	if e.msg != "" && e.msg != errorText(e.code) {
		return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.error)
	}
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

var _ AppError = coreError{}

// ErrorWithCode adds an error code to err's error chain.
// Unlike pkg/errors, ErrorWithCode will wrap nil error.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, errorText(code)}
}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, an error denoting the code's default text is wrapped.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code returns the status code associated with an error.
// If no status code is found, it returns EINTERNAL.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message associated with an error.
// If no message is found, it checks StatusCode and returns that message.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// UserError prints an error to stderr, preferring the user message
// of application errors.
func UserError(err error) {
	if e := AppError(nil); errors.As(err, &e) {
		fmt.Fprintf(os.Stderr, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}

// exitStatus keeps process exit statuses clear of the values shells reserve
// (126 and up).
var exitStatus = map[int]int{
	NOERROR:     0,
	EINTERNAL:   1,
	EINVALID:    2,
	EMISSING:    3,
	ECONNECTION: 4,
	EBUILD:      5,
	EEMPTY:      6,
	ENORANGE:    7,
}

// ExitCode maps an error to a process exit status. Errors without a known
// code exit with status 1.
func ExitCode(err error) int {
	if status, ok := exitStatus[Code(err)]; ok {
		return status
	}
	return 1
}

// --- Error taxonomy of the glyph pipeline ----------------------------------

// IsDownloadError is true if err stems from an unsuccessful source download.
func IsDownloadError(err error) bool {
	return Code(err) == ECONNECTION
}

// IsBuildError is true if err stems from a failing rasterizer run.
func IsBuildError(err error) bool {
	return Code(err) == EBUILD
}

// IsMissingRangeError is true if err reports an absent range file.
func IsMissingRangeError(err error) bool {
	return Code(err) == ENORANGE
}

// IsEmptyMergeError is true if err reports a range without any glyph data.
func IsEmptyMergeError(err error) bool {
	return Code(err) == EEMPTY
}
