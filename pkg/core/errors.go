// pkg/core/errors.go
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned when an operation is not available on the
	// connected robot type.
	ErrUnsupported = errors.New("unsupported operation for connected robot type")

	// ErrOutOfRange is returned when an argument is outside its documented range.
	ErrOutOfRange = errors.New("argument out of range")

	// ErrNotCalibrated is returned by compass operations before calibrateCompass.
	ErrNotCalibrated = errors.New("compass not calibrated")

	// ErrUnknownAnimation is returned when a droid/category/animation key is not in the catalog.
	ErrUnknownAnimation = errors.New("unknown animation")

	// ErrUnknownSound is returned when a sound path is not in the catalog.
	ErrUnknownSound = errors.New("unknown sound")

	// ErrRuntime is returned when the robot runtime rejects a command.
	ErrRuntime = errors.New("runtime error")
)

// Error codes carried on the wire in result payloads.
const (
	CodeUnsupported    = "unsupported"
	CodeOutOfRange     = "out_of_range"
	CodeNotCalibrated  = "not_calibrated"
	CodeUnknownCommand = "unknown_command"
	CodeInternal       = "internal"
)

// UnsupportedError names the operation and the robot that cannot perform it.
type UnsupportedError struct {
	Op    string
	Robot RobotType
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s on %s", e.Op, ErrUnsupported, e.Robot)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// RangeError describes an argument outside its documented range.
type RangeError struct {
	Op    string
	Param string
	Value any
	Min   any
	Max   any
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s=%v not in [%v, %v]", e.Op, e.Param, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// RuntimeError is a failure reported by the robot runtime.
type RuntimeError struct {
	Op      string
	Code    string
	Message string
}

func (e *RuntimeError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
}

// Unwrap maps the wire code back onto the sentinel errors so callers can use
// errors.Is regardless of where the check happened.
func (e *RuntimeError) Unwrap() error {
	switch e.Code {
	case CodeUnsupported:
		return ErrUnsupported
	case CodeOutOfRange:
		return ErrOutOfRange
	case CodeNotCalibrated:
		return ErrNotCalibrated
	}
	return ErrRuntime
}

// CodeOf returns the wire code for err.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var re *RuntimeError
	if errors.As(err, &re) && re.Code != "" {
		return re.Code
	}
	switch {
	case errors.Is(err, ErrUnsupported):
		return CodeUnsupported
	case errors.Is(err, ErrOutOfRange):
		return CodeOutOfRange
	case errors.Is(err, ErrNotCalibrated):
		return CodeNotCalibrated
	}
	return CodeInternal
}
