package pgerr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeInvalidCoordinate    = "INVALID_COORDINATE"
	CodeMissingRequiredInput = "MISSING_REQUIRED_INPUT"
	CodeUnnormalizedTotal    = "UNNORMALIZED_TOTAL"
	CodeUnsupportedChartType = "UNSUPPORTED_CHART_TYPE"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusNotFound, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")

	// ErrInvalidCoordinate is returned when a cell coordinate or range string is malformed.
	ErrInvalidCoordinate = New(fiber.StatusBadRequest, CodeInvalidCoordinate, "invalid cell coordinate")

	// ErrMissingRequiredInput is returned when a chart lacks a companion input it needs.
	ErrMissingRequiredInput = New(fiber.StatusUnprocessableEntity, CodeMissingRequiredInput, "missing required input")

	// ErrUnnormalizedTotal is returned by the strict summary extraction when percentages do not add up to 100.
	ErrUnnormalizedTotal = New(fiber.StatusUnprocessableEntity, CodeUnnormalizedTotal, "Asegúrate antes de que la tabla de resultados sume 100%.")

	// ErrUnsupportedChartType is returned when no renderer is registered for a chart type.
	ErrUnsupportedChartType = New(fiber.StatusNotFound, CodeUnsupportedChartType, "chart type not available")
)

type Extras map[string]interface{}

type Error struct {
	StatusCode int     `json:"-"`
	ErrorCode  string  `json:"code"`
	Message    string  `json:"message"`
	Extras     *Extras `json:"-"`
}

func New(statusCode int, errorCode string, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

func (e Error) Msg(format string, parts ...interface{}) *Error {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e Error) WithExtras(extras Extras) *Error {
	e.Extras = &extras
	return &e
}

func NewInvalidViolations(violations interface{}) *Error {
	// copy ErrInvalidReq as e
	e := *ErrInvalidReq
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Is reports whether target carries the same error code, so that
// errors.Is(err, ErrMissingRequiredInput) matches messages derived through Msg.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.ErrorCode == t.ErrorCode
}

// As extracts an *Error from err, if any.
func As(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		u, ok := err.(interface{ Cause() error })
		if ok {
			err = u.Cause()
			continue
		}
		w, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = w.Unwrap()
	}
	return nil, false
}
