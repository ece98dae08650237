package toolerr

import (
	"errors"
	"fmt"
)

// Code is the machine-checkable reason attached to a tool failure
type Code int

// Error codes shared with the companion create tool
const (
	MessageFormatWrong Code = 1001 // Missing or malformed command arguments
	InterfaceNotExist  Code = 1002 // Unknown action type
	TargetNotExist     Code = 1003 // Directory, file or registry entry not found
	TargetAlreadyExist Code = 1004
	FileFormatWrong    Code = 1005 // Registry or config file cannot be interpreted
	SafetyViolation    Code = 1006 // Target rejected by the safety validator
	UnknownError       Code = 1111
)

var codeNames = map[Code]string{
	MessageFormatWrong: "MESSAGE_FORMAT_WRONG",
	InterfaceNotExist:  "INTERFACE_NOT_EXIST",
	TargetNotExist:     "TARGET_NOT_EXIST",
	TargetAlreadyExist: "TARGET_ALREADY_EXIST",
	FileFormatWrong:    "FILE_FORMAT_WRONG",
	SafetyViolation:    "SAFETY_VIOLATION",
	UnknownError:       "UNKNOWN_ERROR",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CODE_%d", int(c))
}

// Error is the single failure kind raised by the tool
type Error struct {
	Code Code
	Msg  string
	Err  error
}

// New creates an Error with a formatted message
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error
func Wrap(code Code, err error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first Error in err's chain, or UnknownError
func CodeOf(err error) Code {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return UnknownError
}

// Is reports whether err carries the given code
func Is(err error, code Code) bool {
	var te *Error
	return errors.As(err, &te) && te.Code == code
}
